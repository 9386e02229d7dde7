package provider

import (
	"context"
	"fmt"

	"service/internal/entities"
)

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

// FindCandidates выбирает активных провайдеров, покрывающих точку заказа.
// Расстояние считается хаверсином прямо в запросе: провайдер проходит,
// если он в общем потолке поиска и точка внутри его собственного радиуса.
func (r *Repository) FindCandidates(
	ctx context.Context,
	location entities.GeoPoint,
	serviceIDs []string,
	timeSlot string,
	maxDistanceMeters float64,
	limit int,
) ([]entities.Candidate, error) {
	query := `
		SELECT p.id, p.name, p.wa_id, p.latitude, p.longitude, p.range_meters,
			p.service_ids, p.time_slots, p.delivery_type, p.auto_accept,
			p.daily_limit, p.slot_limits, p.service_limits, p.is_active, p.rating,
			p.created_at, p.updated_at, d.distance
		FROM providers p,
		LATERAL (
			SELECT 2 * 6371000 * asin(sqrt(
				power(sin(radians(($1 - p.latitude) / 2)), 2) +
				cos(radians(p.latitude)) * cos(radians($1)) *
				power(sin(radians(($2 - p.longitude) / 2)), 2)
			)) AS distance
		) d
		WHERE p.is_active
			AND d.distance <= $3
			AND d.distance <= p.range_meters
			AND p.service_ids @> $4
			AND $5 = ANY(p.time_slots)
		ORDER BY d.distance ASC
		LIMIT $6`

	rows, err := r.querier.Query(
		ctx,
		query,
		location.Latitude,
		location.Longitude,
		maxDistanceMeters,
		serviceIDs,
		timeSlot,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("unexpected provider repository find candidates error: %w", err)
	}
	defer rows.Close()

	candidates := make([]CandidateDB, 0, limit)
	for rows.Next() {
		var candidateDB CandidateDB
		err := rows.Scan(
			&candidateDB.Provider.ID,
			&candidateDB.Provider.Name,
			&candidateDB.Provider.WaID,
			&candidateDB.Provider.Latitude,
			&candidateDB.Provider.Longitude,
			&candidateDB.Provider.RangeMeters,
			&candidateDB.Provider.ServiceIDs,
			&candidateDB.Provider.TimeSlots,
			&candidateDB.Provider.DeliveryType,
			&candidateDB.Provider.AutoAccept,
			&candidateDB.Provider.DailyLimit,
			&candidateDB.Provider.SlotLimits,
			&candidateDB.Provider.ServiceLimits,
			&candidateDB.Provider.IsActive,
			&candidateDB.Provider.Rating,
			&candidateDB.Provider.CreatedAt,
			&candidateDB.Provider.UpdatedAt,
			&candidateDB.DistanceMeters,
		)
		if err != nil {
			return nil, fmt.Errorf("unexpected provider repository scan error: %w", err)
		}
		candidates = append(candidates, candidateDB)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected provider repository rows error: %w", err)
	}

	return ToDomainCandidates(candidates), nil
}

func (r *Repository) ListActive(ctx context.Context) ([]entities.Provider, error) {
	query := `
		SELECT id, name, wa_id, latitude, longitude, range_meters,
			service_ids, time_slots, delivery_type, auto_accept,
			daily_limit, slot_limits, service_limits, is_active, rating,
			created_at, updated_at
		FROM providers
		WHERE is_active
		ORDER BY id`

	return r.queryProviders(ctx, query)
}

func (r *Repository) ListByIDs(ctx context.Context, ids []int64) ([]entities.Provider, error) {
	query := `
		SELECT id, name, wa_id, latitude, longitude, range_meters,
			service_ids, time_slots, delivery_type, auto_accept,
			daily_limit, slot_limits, service_limits, is_active, rating,
			created_at, updated_at
		FROM providers
		WHERE id = ANY($1)
		ORDER BY id`

	return r.queryProviders(ctx, query, ids)
}

func (r *Repository) queryProviders(ctx context.Context, query string, args ...interface{}) ([]entities.Provider, error) {
	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected provider repository list error: %w", err)
	}
	defer rows.Close()

	providers := make([]ProviderDB, 0)
	for rows.Next() {
		var providerDB ProviderDB
		err := rows.Scan(
			&providerDB.ID,
			&providerDB.Name,
			&providerDB.WaID,
			&providerDB.Latitude,
			&providerDB.Longitude,
			&providerDB.RangeMeters,
			&providerDB.ServiceIDs,
			&providerDB.TimeSlots,
			&providerDB.DeliveryType,
			&providerDB.AutoAccept,
			&providerDB.DailyLimit,
			&providerDB.SlotLimits,
			&providerDB.ServiceLimits,
			&providerDB.IsActive,
			&providerDB.Rating,
			&providerDB.CreatedAt,
			&providerDB.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("unexpected provider repository scan error: %w", err)
		}
		providers = append(providers, providerDB)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected provider repository rows error: %w", err)
	}

	return ToDomainList(providers), nil
}
