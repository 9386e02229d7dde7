package reassign

import (
	"context"
	"errors"
	"fmt"
	"time"

	"service/internal/entities"
	"service/internal/service/matching"
	"service/pkg/logger"
)

type Config struct {
	PickupGrace time.Duration
}

type Reassign struct {
	log             reassignLogger
	orderRepository OrderRepository
	fanout          Fanout
	snapshots       SnapshotSource
	txManager       TxManager
	config          Config
}

func New(
	log reassignLogger,
	orderRepository OrderRepository,
	fanout Fanout,
	snapshots SnapshotSource,
	txManager TxManager,
	config Config,
) *Reassign {
	return &Reassign{
		log:             log,
		orderRepository: orderRepository,
		fanout:          fanout,
		snapshots:       snapshots,
		txManager:       txManager,
		config:          config,
	}
}

// ReassignMissed находит заказы с пропущенным окном забора, снимает
// назначение и перезапускает подбор на следующий слот того же дня.
// Если слотов в дне не осталось, заказ остаётся без назначения:
// следующие шаги решает оператор, автоматика на завтра не переносит.
func (r *Reassign) ReassignMissed(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	cutoff := now.Add(-r.config.PickupGrace)

	orders, err := r.orderRepository.FindMissedPickups(ctx, dayStart, cutoff)
	if err != nil {
		return 0, fmt.Errorf("find missed pickups: %w", err)
	}

	reassigned := 0
	for i := range orders {
		if err := r.internalReassign(ctx, &orders[i], now); err != nil {
			return reassigned, fmt.Errorf("reassign order %s: %w", orders[i].ID, err)
		}
		reassigned++
	}
	return reassigned, nil
}

func (r *Reassign) internalReassign(ctx context.Context, order *entities.Order, now time.Time) error {
	nextSlot, hasNext := r.snapshots.Current().NextTimeSlot(order.TimeSlot)

	err := r.txManager.Do(ctx, func(ctx context.Context) error {
		if err := r.orderRepository.ResetAssignment(ctx, order.ID); err != nil {
			return fmt.Errorf("reset assignment: %w", err)
		}
		stripAssignment(order)

		if !hasNext {
			return nil
		}

		window, err := r.snapshots.Current().SlotWindow(nextSlot.Key, order.PickupWindow.Date)
		if err != nil {
			return fmt.Errorf("materialize next slot: %w", err)
		}

		modify := entities.OrderModify{
			ID:           &order.ID,
			TimeSlot:     &nextSlot.Key,
			PickupWindow: &window,
		}
		if err := r.orderRepository.Update(ctx, modify); err != nil {
			return fmt.Errorf("move to next slot: %w", err)
		}
		order.TimeSlot = nextSlot.Key
		order.PickupWindow = window
		return nil
	})
	if err != nil {
		return err
	}

	if !hasNext {
		r.log.Warn("reassign_skipped_no_slot",
			logger.NewField("order_id", order.ID),
			logger.NewField("time_slot", order.TimeSlot),
		)
		return nil
	}

	// веер вне транзакции: сброс назначения уже зафиксирован, повторный
	// подбор при сбое догонит заказ следующим циклом интейка
	err = r.fanout.CreateOfferFanout(ctx, order)
	if err != nil && !errors.Is(err, matching.ErrNoProvidersAvailable) {
		return fmt.Errorf("fanout: %w", err)
	}
	return nil
}

// stripAssignment убирает из in-memory заказа следы назначения так же,
// как это делает ResetAssignment в хранилище.
func stripAssignment(order *entities.Order) {
	history := make([]entities.OrderStatus, 0, len(order.StatusHistory))
	for _, status := range order.StatusHistory {
		if status.Status == entities.PickupPending {
			continue
		}
		history = append(history, status)
	}
	order.StatusHistory = history
	order.ProviderID = nil
	order.AutoAllotted = false
}
