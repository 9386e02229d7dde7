//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=reassign_test
package reassign

import (
	"context"
	"time"

	"service/internal/entities"
	"service/internal/pkg/snapshot"
	"service/pkg/logger"
)

type OrderRepository interface {
	// FindMissedPickups возвращает заказы в PICKUP_PENDING, чьё окно
	// забора закончилось раньше cutoff в пределах текущего дня.
	FindMissedPickups(ctx context.Context, dayStart, cutoff time.Time) ([]entities.Order, error)
	ResetAssignment(ctx context.Context, orderID string) error
	Update(ctx context.Context, modify entities.OrderModify) error
}

type Fanout interface {
	CreateOfferFanout(ctx context.Context, order *entities.Order) error
}

type SnapshotSource interface {
	Current() *snapshot.Snapshot
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type reassignLogger interface {
	Warn(msg string, fields ...logger.Field)
}
