package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"service/internal/entities"
	"service/internal/repository"
	"service/internal/service/allocation"
)

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

// Debit списывает cost условными UPDATE-ами: счётчик растёт только если
// после списания остаётся в пределах лимита. Ноль затронутых строк на любой
// гранулярности - ErrCapacityExhausted, транзакция снаружи откатит
// предыдущие списания.
func (r *Repository) Debit(ctx context.Context, providerID int64, operationDate time.Time, slotKey, serviceKey string, cost int) error {
	query := `
		UPDATE capacity_ledger
		SET daily_consumed = daily_consumed + $3
		WHERE provider_id = $1 AND operation_date = $2
			AND daily_consumed + $3 <= daily_limit`

	tag, err := r.querier.Exec(ctx, query, providerID, operationDate, cost)
	if err != nil {
		return fmt.Errorf("unexpected ledger repository debit daily error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.classifyDebitFailure(ctx, providerID, operationDate)
	}

	if err := r.debitBucket(ctx, providerID, operationDate, bucketTypeSlot, slotKey, cost); err != nil {
		return err
	}
	return r.debitBucket(ctx, providerID, operationDate, bucketTypeService, serviceKey, cost)
}

func (r *Repository) debitBucket(ctx context.Context, providerID int64, operationDate time.Time, bucketType, bucketKey string, cost int) error {
	query := `
		UPDATE capacity_ledger_buckets b
		SET consumed_units = b.consumed_units + $5
		FROM capacity_ledger l
		WHERE b.ledger_id = l.id
			AND l.provider_id = $1 AND l.operation_date = $2
			AND b.bucket_type = $3 AND b.bucket_key = $4
			AND b.consumed_units + $5 <= b.limit_units`

	tag, err := r.querier.Exec(ctx, query, providerID, operationDate, bucketType, bucketKey, cost)
	if err != nil {
		return fmt.Errorf("unexpected ledger repository debit %s error: %w", bucketType, err)
	}
	if tag.RowsAffected() == 0 {
		// отсутствующий бакет означает, что лимит на этой гранулярности
		// не настроен - списание проходит по дневному счётчику
		exists, err := r.bucketExists(ctx, providerID, operationDate, bucketType, bucketKey)
		if err != nil {
			return err
		}
		if exists {
			return allocation.ErrCapacityExhausted
		}
	}
	return nil
}

func (r *Repository) bucketExists(ctx context.Context, providerID int64, operationDate time.Time, bucketType, bucketKey string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM capacity_ledger_buckets b
			JOIN capacity_ledger l ON b.ledger_id = l.id
			WHERE l.provider_id = $1 AND l.operation_date = $2
				AND b.bucket_type = $3 AND b.bucket_key = $4
		)`

	var exists bool
	err := r.querier.QueryRow(ctx, query, providerID, operationDate, bucketType, bucketKey).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("unexpected ledger repository bucket lookup error: %w", err)
	}
	return exists, nil
}

// classifyDebitFailure отличает исчерпанный лимит от отсутствующей записи
// леджера: провайдер без записи на дату не принимает заказы вовсе.
func (r *Repository) classifyDebitFailure(ctx context.Context, providerID int64, operationDate time.Time) error {
	query := `SELECT id FROM capacity_ledger WHERE provider_id = $1 AND operation_date = $2`

	var id int64
	err := r.querier.QueryRow(ctx, query, providerID, operationDate).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return allocation.ErrLedgerNotFound
		}
		return fmt.Errorf("unexpected ledger repository lookup error: %w", err)
	}
	return allocation.ErrCapacityExhausted
}

func (r *Repository) GetByProviderAndDate(ctx context.Context, providerID int64, operationDate time.Time) (*entities.LedgerEntry, error) {
	query := `
		SELECT id, provider_id, operation_date, daily_limit, daily_consumed
		FROM capacity_ledger
		WHERE provider_id = $1 AND operation_date = $2`

	var entryDB LedgerEntryDB
	err := r.querier.QueryRow(ctx, query, providerID, operationDate).Scan(
		&entryDB.ID,
		&entryDB.ProviderID,
		&entryDB.OperationDate,
		&entryDB.DailyLimit,
		&entryDB.DailyConsumed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, allocation.ErrLedgerNotFound
		}
		return nil, fmt.Errorf("unexpected ledger repository get error: %w", err)
	}

	bucketsQuery := `
		SELECT ledger_id, bucket_type, bucket_key, limit_units, consumed_units
		FROM capacity_ledger_buckets
		WHERE ledger_id = $1`

	rows, err := r.querier.Query(ctx, bucketsQuery, entryDB.ID)
	if err != nil {
		return nil, fmt.Errorf("unexpected ledger repository buckets error: %w", err)
	}
	defer rows.Close()

	buckets := make([]BucketDB, 0)
	for rows.Next() {
		var bucketDB BucketDB
		err := rows.Scan(
			&bucketDB.LedgerID,
			&bucketDB.BucketType,
			&bucketDB.BucketKey,
			&bucketDB.LimitUnits,
			&bucketDB.ConsumedUnits,
		)
		if err != nil {
			return nil, fmt.Errorf("unexpected ledger repository scan bucket error: %w", err)
		}
		buckets = append(buckets, bucketDB)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected ledger repository rows error: %w", err)
	}

	return ToDomain(&entryDB, buckets), nil
}

// MarkResetDone атомарно ставит маркер суточного сброса. false - маркер
// на эту дату уже стоит, переключение выполнено другим экземпляром.
func (r *Repository) MarkResetDone(ctx context.Context, resetDate time.Time) (bool, error) {
	query := `INSERT INTO daily_resets (reset_date) VALUES ($1) ON CONFLICT (reset_date) DO NOTHING`

	tag, err := r.querier.Exec(ctx, query, resetDate)
	if err != nil {
		return false, fmt.Errorf("unexpected ledger repository mark reset error: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ArchiveElapsed переносит записи с датой раньше before в архивные таблицы.
func (r *Repository) ArchiveElapsed(ctx context.Context, before time.Time) (int64, error) {
	bucketsQuery := `
		WITH moved AS (
			DELETE FROM capacity_ledger_buckets
			WHERE ledger_id IN (SELECT id FROM capacity_ledger WHERE operation_date < $1)
			RETURNING ledger_id, bucket_type, bucket_key, limit_units, consumed_units
		)
		INSERT INTO capacity_ledger_bucket_archive (ledger_id, bucket_type, bucket_key, limit_units, consumed_units)
		SELECT ledger_id, bucket_type, bucket_key, limit_units, consumed_units FROM moved`

	_, err := r.querier.Exec(ctx, bucketsQuery, before)
	if err != nil {
		return 0, fmt.Errorf("unexpected ledger repository archive buckets error: %w", err)
	}

	entriesQuery := `
		WITH moved AS (
			DELETE FROM capacity_ledger
			WHERE operation_date < $1
			RETURNING id, provider_id, operation_date, daily_limit, daily_consumed
		)
		INSERT INTO capacity_ledger_archive (id, provider_id, operation_date, daily_limit, daily_consumed)
		SELECT id, provider_id, operation_date, daily_limit, daily_consumed FROM moved`

	tag, err := r.querier.Exec(ctx, entriesQuery, before)
	if err != nil {
		return 0, fmt.Errorf("unexpected ledger repository archive entries error: %w", err)
	}
	return tag.RowsAffected(), nil
}

// InsertEntries создаёт записи леджера с нулевым потреблением. Уже
// существующие записи не трогаются, возвращается число созданных.
func (r *Repository) InsertEntries(ctx context.Context, entries []entities.LedgerEntry) (int64, error) {
	entryQuery := `
		INSERT INTO capacity_ledger (provider_id, operation_date, daily_limit)
		VALUES ($1, $2, $3)
		ON CONFLICT (provider_id, operation_date) DO NOTHING
		RETURNING id`

	bucketQuery := `
		INSERT INTO capacity_ledger_buckets (ledger_id, bucket_type, bucket_key, limit_units)
		VALUES ($1, $2, $3, $4)`

	var created int64
	for _, entry := range entries {
		var ledgerID int64
		err := r.querier.QueryRow(ctx, entryQuery, entry.ProviderID, entry.OperationDate, entry.DailyLimit).
			Scan(&ledgerID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			if repository.IsPgErrorWithCode(err, repository.PgErrUniqueViolation) {
				continue
			}
			return created, fmt.Errorf("unexpected ledger repository insert entry error: %w", err)
		}

		for key, quota := range entry.Slots {
			if _, err := r.querier.Exec(ctx, bucketQuery, ledgerID, bucketTypeSlot, key, quota.Limit); err != nil {
				return created, fmt.Errorf("unexpected ledger repository insert slot bucket error: %w", err)
			}
		}
		for key, quota := range entry.Services {
			if _, err := r.querier.Exec(ctx, bucketQuery, ledgerID, bucketTypeService, key, quota.Limit); err != nil {
				return created, fmt.Errorf("unexpected ledger repository insert service bucket error: %w", err)
			}
		}
		created++
	}
	return created, nil
}
