//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=offer_test
package offer

import (
	"context"
	"time"

	"service/internal/entities"
	"service/internal/pkg/snapshot"
)

type Repository interface {
	// FindDue возвращает offer-ы с наступившим trigger_time, ещё не
	// отправленные и не исчерпавшие лимит попыток.
	FindDue(ctx context.Context, now time.Time, tryCap int) ([]entities.Offer, error)
	MarkDispatched(ctx context.Context, offerIDs []string) error
	MarkAttempted(ctx context.Context, offerIDs []string) error

	Get(ctx context.Context, offerID string) (*entities.Offer, error)
	Resolve(ctx context.Context, offerID string, resolution entities.OfferResolution) error
	ListByOrder(ctx context.Context, orderID string) ([]entities.Offer, error)
}

type OrderRepository interface {
	Get(ctx context.Context, orderID string) (*entities.Order, error)
}

type ProviderRepository interface {
	ListByIDs(ctx context.Context, ids []int64) ([]entities.Provider, error)
}

type Allocator interface {
	TryAllocate(ctx context.Context, order *entities.Order, provider *entities.Provider, autoAllotted bool) (bool, error)
}

type Notifier interface {
	SendTemplate(ctx context.Context, recipientWaID, templateKey string, params map[string]string, correlationID string) error
}

type SnapshotSource interface {
	Current() *snapshot.Snapshot
}
