package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"service/internal/entities"
	"service/internal/service/allocation"
	"service/internal/service/matching"
)

var qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

func (r *Repository) Insert(ctx context.Context, orderEntity *entities.Order) (*entities.Order, error) {
	orderDB := FromDomain(orderEntity)

	query := `
		INSERT INTO orders (parent_order_id, customer_id, customer_wa_id, service_ids,
			count_range, latitude, longitude, time_slot, pickup_date, pickup_start,
			pickup_end, provider_id, auto_allotted, total_price, match_pending, match_after)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at`

	err := r.querier.QueryRow(
		ctx,
		query,
		orderDB.ParentOrderID,
		orderDB.CustomerID,
		orderDB.CustomerWaID,
		orderDB.ServiceIDs,
		orderDB.CountRange,
		orderDB.Latitude,
		orderDB.Longitude,
		orderDB.TimeSlot,
		orderDB.PickupDate,
		orderDB.PickupStart,
		orderDB.PickupEnd,
		orderDB.ProviderID,
		orderDB.AutoAllotted,
		orderDB.TotalPrice,
		orderDB.MatchPending,
		orderDB.MatchAfter,
	).Scan(&orderDB.ID, &orderDB.CreatedAt, &orderDB.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository insert error: %w", err)
	}

	// история пишется хвостом вперёд, чтобы порядок created_on/id совпадал
	// с порядком прочтения (голова - самая свежая запись)
	for i := len(orderEntity.StatusHistory) - 1; i >= 0; i-- {
		status := orderEntity.StatusHistory[i]
		err := r.insertStatus(ctx, orderDB.ID, status)
		if err != nil {
			return nil, err
		}
	}

	inserted := *orderEntity
	inserted.ID = orderDB.ID
	inserted.CreatedAt = orderDB.CreatedAt
	inserted.UpdatedAt = orderDB.UpdatedAt
	return &inserted, nil
}

func (r *Repository) Get(ctx context.Context, orderID string) (*entities.Order, error) {
	query := `
		SELECT id, parent_order_id, customer_id, customer_wa_id, service_ids,
			count_range, latitude, longitude, time_slot, pickup_date, pickup_start,
			pickup_end, provider_id, auto_allotted, total_price, match_pending,
			match_after, created_at, updated_at
		FROM orders
		WHERE id = $1`

	var orderDB OrderDB
	err := r.querier.QueryRow(ctx, query, orderID).Scan(
		&orderDB.ID,
		&orderDB.ParentOrderID,
		&orderDB.CustomerID,
		&orderDB.CustomerWaID,
		&orderDB.ServiceIDs,
		&orderDB.CountRange,
		&orderDB.Latitude,
		&orderDB.Longitude,
		&orderDB.TimeSlot,
		&orderDB.PickupDate,
		&orderDB.PickupStart,
		&orderDB.PickupEnd,
		&orderDB.ProviderID,
		&orderDB.AutoAllotted,
		&orderDB.TotalPrice,
		&orderDB.MatchPending,
		&orderDB.MatchAfter,
		&orderDB.CreatedAt,
		&orderDB.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, matching.ErrOrderNotFound
		}
		return nil, fmt.Errorf("unexpected order repository get error: %w", err)
	}

	statuses, err := r.loadStatuses(ctx, []string{orderDB.ID})
	if err != nil {
		return nil, err
	}

	return ToDomain(&orderDB, statuses[orderDB.ID]), nil
}

func (r *Repository) Update(ctx context.Context, orderModifyEntity entities.OrderModify) error {
	orderModifyDB := FromDomainModify(&orderModifyEntity)

	builder := qb.
		Update("orders")

	// опционнные поля
	if orderModifyDB.TimeSlot != nil {
		builder = builder.Set("time_slot", orderModifyDB.TimeSlot)
	}
	if orderModifyDB.PickupDate != nil {
		builder = builder.Set("pickup_date", orderModifyDB.PickupDate)
		builder = builder.Set("pickup_start", orderModifyDB.PickupStart)
		builder = builder.Set("pickup_end", orderModifyDB.PickupEnd)
	}
	if orderModifyDB.ProviderID != nil {
		builder = builder.Set("provider_id", orderModifyDB.ProviderID)
	}
	if orderModifyDB.AutoAllotted != nil {
		builder = builder.Set("auto_allotted", orderModifyDB.AutoAllotted)
	}
	if orderModifyDB.MatchPending != nil {
		builder = builder.Set("match_pending", orderModifyDB.MatchPending)
	}
	if orderModifyDB.MatchAfter != nil {
		builder = builder.Set("match_after", orderModifyDB.MatchAfter)
	}

	builder = builder.Set("updated_at", sq.Expr("NOW()"))

	builder = builder.Where(sq.Eq{"id": orderModifyDB.ID})

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("unexpected order repository update error: %w", err)
	}

	tag, err := r.querier.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("unexpected order repository update error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return matching.ErrOrderNotFound
	}
	return nil
}

func (r *Repository) FindDueForMatching(ctx context.Context, now time.Time) ([]entities.Order, error) {
	query := `
		SELECT id, parent_order_id, customer_id, customer_wa_id, service_ids,
			count_range, latitude, longitude, time_slot, pickup_date, pickup_start,
			pickup_end, provider_id, auto_allotted, total_price, match_pending,
			match_after, created_at, updated_at
		FROM orders
		WHERE match_pending AND match_after <= $1
		ORDER BY match_after ASC`

	return r.queryOrders(ctx, query, now)
}

func (r *Repository) MarkMatchScheduled(ctx context.Context, orderIDs []string) error {
	query := `UPDATE orders SET match_pending = FALSE, updated_at = NOW() WHERE id = ANY($1)`

	_, err := r.querier.Exec(ctx, query, orderIDs)
	if err != nil {
		return fmt.Errorf("unexpected order repository mark scheduled error: %w", err)
	}
	return nil
}

func (r *Repository) AssignProvider(ctx context.Context, orderID string, providerID int64, autoAllotted bool, status entities.OrderStatus) error {
	query := `
		UPDATE orders
		SET provider_id = $2, auto_allotted = $3, updated_at = NOW()
		WHERE id = $1 AND provider_id IS NULL`

	tag, err := r.querier.Exec(ctx, query, orderID, providerID, autoAllotted)
	if err != nil {
		return fmt.Errorf("unexpected order repository assign error: %w", err)
	}
	// ноль строк - заказ либо отсутствует, либо успел достаться другому
	if tag.RowsAffected() == 0 {
		return allocation.ErrOrderAlreadyAssigned
	}

	return r.insertStatus(ctx, orderID, status)
}

// FindMissedPickups ищет заказы, всё ещё стоящие в PICKUP_PENDING, чьё окно
// забора закончилось в пределах [dayStart, cutoff].
func (r *Repository) FindMissedPickups(ctx context.Context, dayStart, cutoff time.Time) ([]entities.Order, error) {
	query := `
		SELECT o.id, o.parent_order_id, o.customer_id, o.customer_wa_id, o.service_ids,
			o.count_range, o.latitude, o.longitude, o.time_slot, o.pickup_date,
			o.pickup_start, o.pickup_end, o.provider_id, o.auto_allotted, o.total_price,
			o.match_pending, o.match_after, o.created_at, o.updated_at
		FROM orders o
		JOIN LATERAL (
			SELECT os.status
			FROM order_statuses os
			WHERE os.order_id = o.id
			ORDER BY os.created_on DESC, os.id DESC
			LIMIT 1
		) head ON head.status = 'PICKUP_PENDING'
		WHERE o.pickup_end >= $1 AND o.pickup_end <= $2
		ORDER BY o.pickup_end ASC`

	return r.queryOrders(ctx, query, dayStart, cutoff)
}

// ResetAssignment снимает назначение: записи PICKUP_PENDING удаляются из
// истории, провайдер и флаг авто-приёма очищаются.
func (r *Repository) ResetAssignment(ctx context.Context, orderID string) error {
	query := `DELETE FROM order_statuses WHERE order_id = $1 AND status = 'PICKUP_PENDING'`
	_, err := r.querier.Exec(ctx, query, orderID)
	if err != nil {
		return fmt.Errorf("unexpected order repository reset statuses error: %w", err)
	}

	query = `
		UPDATE orders
		SET provider_id = NULL, auto_allotted = FALSE, updated_at = NOW()
		WHERE id = $1`
	tag, err := r.querier.Exec(ctx, query, orderID)
	if err != nil {
		return fmt.Errorf("unexpected order repository reset assignment error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return matching.ErrOrderNotFound
	}
	return nil
}

func (r *Repository) insertStatus(ctx context.Context, orderID string, status entities.OrderStatus) error {
	query := `INSERT INTO order_statuses (order_id, status, created_on) VALUES ($1, $2, $3)`

	_, err := r.querier.Exec(ctx, query, orderID, status.Status.String(), status.CreatedOn)
	if err != nil {
		return fmt.Errorf("unexpected order repository insert status error: %w", err)
	}
	return nil
}

func (r *Repository) queryOrders(ctx context.Context, query string, args ...interface{}) ([]entities.Order, error) {
	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository query error: %w", err)
	}
	defer rows.Close()

	ordersDB := make([]OrderDB, 0)
	for rows.Next() {
		var orderDB OrderDB
		err := rows.Scan(
			&orderDB.ID,
			&orderDB.ParentOrderID,
			&orderDB.CustomerID,
			&orderDB.CustomerWaID,
			&orderDB.ServiceIDs,
			&orderDB.CountRange,
			&orderDB.Latitude,
			&orderDB.Longitude,
			&orderDB.TimeSlot,
			&orderDB.PickupDate,
			&orderDB.PickupStart,
			&orderDB.PickupEnd,
			&orderDB.ProviderID,
			&orderDB.AutoAllotted,
			&orderDB.TotalPrice,
			&orderDB.MatchPending,
			&orderDB.MatchAfter,
			&orderDB.CreatedAt,
			&orderDB.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("unexpected order repository scan error: %w", err)
		}
		ordersDB = append(ordersDB, orderDB)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected order repository rows error: %w", err)
	}
	if len(ordersDB) == 0 {
		return []entities.Order{}, nil
	}

	orderIDs := make([]string, 0, len(ordersDB))
	for _, orderDB := range ordersDB {
		orderIDs = append(orderIDs, orderDB.ID)
	}
	statuses, err := r.loadStatuses(ctx, orderIDs)
	if err != nil {
		return nil, err
	}

	result := make([]entities.Order, len(ordersDB))
	for i, orderDB := range ordersDB {
		result[i] = *ToDomain(&orderDB, statuses[orderDB.ID])
	}
	return result, nil
}

// loadStatuses читает истории статусов одним запросом, свежие записи первыми.
func (r *Repository) loadStatuses(ctx context.Context, orderIDs []string) (map[string][]OrderStatusDB, error) {
	query := `
		SELECT order_id, status, created_on
		FROM order_statuses
		WHERE order_id = ANY($1)
		ORDER BY created_on DESC, id DESC`

	rows, err := r.querier.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository load statuses error: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]OrderStatusDB, len(orderIDs))
	for rows.Next() {
		var statusDB OrderStatusDB
		if err := rows.Scan(&statusDB.OrderID, &statusDB.Status, &statusDB.CreatedOn); err != nil {
			return nil, fmt.Errorf("unexpected order repository scan status error: %w", err)
		}
		result[statusDB.OrderID] = append(result[statusDB.OrderID], statusDB)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected order repository rows error: %w", err)
	}
	return result, nil
}
