//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=matching_test
package matching

import (
	"context"
	"time"

	"service/internal/entities"
	"service/internal/pkg/snapshot"
)

type OrderRepository interface {
	Insert(ctx context.Context, order *entities.Order) (*entities.Order, error)
	Get(ctx context.Context, orderID string) (*entities.Order, error)
	Update(ctx context.Context, modify entities.OrderModify) error
	FindDueForMatching(ctx context.Context, now time.Time) ([]entities.Order, error)
	MarkMatchScheduled(ctx context.Context, orderIDs []string) error
}

type ProviderRepository interface {
	FindCandidates(ctx context.Context, location entities.GeoPoint, serviceIDs []string, timeSlot string, maxDistanceMeters float64, limit int) ([]entities.Candidate, error)
}

type OfferRepository interface {
	InsertMany(ctx context.Context, offers []entities.Offer) error
}

type Allocator interface {
	TryAllocate(ctx context.Context, order *entities.Order, provider *entities.Provider, autoAllotted bool) (bool, error)
}

type Notifier interface {
	SendTemplate(ctx context.Context, recipientWaID, templateKey string, params map[string]string, correlationID string) error
}

type TriggerTimeFactory interface {
	StaggeredTrigger(base time.Time, rank int) time.Time
	DeliveryTrigger(base time.Time) time.Time
	NoProviderTrigger(base time.Time, staggeredCount int) time.Time
}

type SnapshotSource interface {
	Current() *snapshot.Snapshot
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
