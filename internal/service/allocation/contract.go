//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=allocation_test
package allocation

import (
	"context"
	"time"

	"service/internal/entities"
	"service/internal/pkg/snapshot"
)

type LedgerRepository interface {
	// Debit атомарно списывает cost сразу на трёх гранулярностях
	// (день, тайм-слот, услуга). Либо все счётчики увеличены, либо ни один.
	Debit(ctx context.Context, providerID int64, operationDate time.Time, slotKey, serviceKey string, cost int) error

	MarkResetDone(ctx context.Context, resetDate time.Time) (bool, error)
	ArchiveElapsed(ctx context.Context, before time.Time) (int64, error)
	InsertEntries(ctx context.Context, entries []entities.LedgerEntry) (int64, error)
	GetByProviderAndDate(ctx context.Context, providerID int64, operationDate time.Time) (*entities.LedgerEntry, error)
}

type OrderRepository interface {
	AssignProvider(ctx context.Context, orderID string, providerID int64, autoAllotted bool, status entities.OrderStatus) error
}

type ProviderRepository interface {
	ListActive(ctx context.Context) ([]entities.Provider, error)
}

type SnapshotSource interface {
	Current() *snapshot.Snapshot
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
