package snapshot

import (
	"context"
	"fmt"
	"strconv"

	"service/internal/pkg/snapshot"
)

const (
	groupTimeSlot   = "time_slot"
	groupCountRange = "count_range"
	groupTemplate   = "template"
)

// Repository читает справочник config_entries и собирает из него
// неизменяемый снапшот. Группа записи определяет, куда она попадёт.
type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

type configEntryDB struct {
	Key       string
	Grp       string
	Title     string
	Value     string
	StartTime string
	EndTime   string
	SortOrder int
}

func (r *Repository) LoadSnapshot(ctx context.Context) (*snapshot.Snapshot, error) {
	query := `
		SELECT key, grp, title, value, start_time, end_time, sort_order
		FROM config_entries
		ORDER BY grp, sort_order, key`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("unexpected snapshot repository load error: %w", err)
	}
	defer rows.Close()

	slots := make([]snapshot.TimeSlot, 0)
	countCosts := make(map[string]int)
	templates := make(map[string]snapshot.Template)

	for rows.Next() {
		var entryDB configEntryDB
		err := rows.Scan(
			&entryDB.Key,
			&entryDB.Grp,
			&entryDB.Title,
			&entryDB.Value,
			&entryDB.StartTime,
			&entryDB.EndTime,
			&entryDB.SortOrder,
		)
		if err != nil {
			return nil, fmt.Errorf("unexpected snapshot repository scan error: %w", err)
		}

		switch entryDB.Grp {
		case groupTimeSlot:
			slots = append(slots, snapshot.TimeSlot{
				Key:       entryDB.Key,
				Title:     entryDB.Title,
				StartTime: entryDB.StartTime,
				EndTime:   entryDB.EndTime,
			})
		case groupCountRange:
			cost, err := strconv.Atoi(entryDB.Value)
			if err != nil {
				return nil, fmt.Errorf("count range %q has non-numeric cost %q: %w", entryDB.Key, entryDB.Value, err)
			}
			countCosts[entryDB.Key] = cost
		case groupTemplate:
			templates[entryDB.Key] = snapshot.Template{
				Key:   entryDB.Key,
				Title: entryDB.Title,
				Body:  entryDB.Value,
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected snapshot repository rows error: %w", err)
	}

	return snapshot.New(slots, countCosts, templates), nil
}
