package offer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"service/internal/entities"
	"service/internal/service/offer"
)

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

func (r *Repository) InsertMany(ctx context.Context, offers []entities.Offer) error {
	query := `
		INSERT INTO offers (order_id, delivery_type, provider_id, route_provider_ids,
			distance_meters, rank, trigger_time, is_pending, try_count, resolution)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	for i := range offers {
		offerDB := FromDomain(&offers[i])
		_, err := r.querier.Exec(
			ctx,
			query,
			offerDB.OrderID,
			offerDB.DeliveryType,
			offerDB.ProviderID,
			offerDB.RouteProviderIDs,
			offerDB.DistanceMeters,
			offerDB.Rank,
			offerDB.TriggerTime,
			offerDB.IsPending,
			offerDB.TryCount,
			offerDB.Resolution,
		)
		if err != nil {
			return fmt.Errorf("unexpected offer repository insert error: %w", err)
		}
	}
	return nil
}

func (r *Repository) FindDue(ctx context.Context, now time.Time, tryCap int) ([]entities.Offer, error) {
	query := `
		SELECT id, order_id, delivery_type, provider_id, route_provider_ids,
			distance_meters, rank, trigger_time, is_pending, try_count,
			resolution, created_at
		FROM offers
		WHERE is_pending AND resolution = '' AND trigger_time <= $1 AND try_count < $2
		ORDER BY trigger_time ASC`

	return r.queryOffers(ctx, query, now, tryCap)
}

func (r *Repository) MarkDispatched(ctx context.Context, offerIDs []string) error {
	query := `
		UPDATE offers
		SET is_pending = FALSE, try_count = try_count + 1
		WHERE id = ANY($1)`

	_, err := r.querier.Exec(ctx, query, offerIDs)
	if err != nil {
		return fmt.Errorf("unexpected offer repository mark dispatched error: %w", err)
	}
	return nil
}

func (r *Repository) MarkAttempted(ctx context.Context, offerIDs []string) error {
	query := `UPDATE offers SET try_count = try_count + 1 WHERE id = ANY($1)`

	_, err := r.querier.Exec(ctx, query, offerIDs)
	if err != nil {
		return fmt.Errorf("unexpected offer repository mark attempted error: %w", err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, offerID string) (*entities.Offer, error) {
	query := `
		SELECT id, order_id, delivery_type, provider_id, route_provider_ids,
			distance_meters, rank, trigger_time, is_pending, try_count,
			resolution, created_at
		FROM offers
		WHERE id = $1`

	var offerDB OfferDB
	err := r.querier.QueryRow(ctx, query, offerID).Scan(
		&offerDB.ID,
		&offerDB.OrderID,
		&offerDB.DeliveryType,
		&offerDB.ProviderID,
		&offerDB.RouteProviderIDs,
		&offerDB.DistanceMeters,
		&offerDB.Rank,
		&offerDB.TriggerTime,
		&offerDB.IsPending,
		&offerDB.TryCount,
		&offerDB.Resolution,
		&offerDB.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, offer.ErrOfferNotFound
		}
		return nil, fmt.Errorf("unexpected offer repository get error: %w", err)
	}

	return ToDomain(&offerDB), nil
}

// Resolve гасит offer с вердиктом. Уже разрешённый offer не перетирается.
func (r *Repository) Resolve(ctx context.Context, offerID string, resolution entities.OfferResolution) error {
	query := `
		UPDATE offers
		SET resolution = $2, is_pending = FALSE
		WHERE id = $1 AND resolution = ''`

	tag, err := r.querier.Exec(ctx, query, offerID, resolution.String())
	if err != nil {
		return fmt.Errorf("unexpected offer repository resolve error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return offer.ErrOfferAlreadyResolved
	}
	return nil
}

func (r *Repository) ListByOrder(ctx context.Context, orderID string) ([]entities.Offer, error) {
	query := `
		SELECT id, order_id, delivery_type, provider_id, route_provider_ids,
			distance_meters, rank, trigger_time, is_pending, try_count,
			resolution, created_at
		FROM offers
		WHERE order_id = $1
		ORDER BY trigger_time ASC, rank ASC`

	return r.queryOffers(ctx, query, orderID)
}

func (r *Repository) queryOffers(ctx context.Context, query string, args ...interface{}) ([]entities.Offer, error) {
	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected offer repository query error: %w", err)
	}
	defer rows.Close()

	offersDB := make([]OfferDB, 0)
	for rows.Next() {
		var offerDB OfferDB
		err := rows.Scan(
			&offerDB.ID,
			&offerDB.OrderID,
			&offerDB.DeliveryType,
			&offerDB.ProviderID,
			&offerDB.RouteProviderIDs,
			&offerDB.DistanceMeters,
			&offerDB.Rank,
			&offerDB.TriggerTime,
			&offerDB.IsPending,
			&offerDB.TryCount,
			&offerDB.Resolution,
			&offerDB.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("unexpected offer repository scan error: %w", err)
		}
		offersDB = append(offersDB, offerDB)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected offer repository rows error: %w", err)
	}

	return ToDomainList(offersDB), nil
}
