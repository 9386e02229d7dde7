package allocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"service/internal/entities"
)

type Allocation struct {
	ledgerRepository   LedgerRepository
	orderRepository    OrderRepository
	providerRepository ProviderRepository
	snapshots          SnapshotSource
	txManager          TxManager
}

func New(
	ledgerRepository LedgerRepository,
	orderRepository OrderRepository,
	providerRepository ProviderRepository,
	snapshots SnapshotSource,
	txManager TxManager,
) *Allocation {
	return &Allocation{
		ledgerRepository:   ledgerRepository,
		orderRepository:    orderRepository,
		providerRepository: providerRepository,
		snapshots:          snapshots,
		txManager:          txManager,
	}
}

// TryAllocate пытается закрепить заказ за провайдером: списывает ёмкость
// на всех трёх гранулярностях и переводит заказ в PICKUP_PENDING одной
// транзакцией. false без ошибки означает "ёмкости не хватило" - это
// нормальный результат гонки кандидатов, а не сбой.
func (a *Allocation) TryAllocate(ctx context.Context, order *entities.Order, provider *entities.Provider, autoAllotted bool) (bool, error) {
	if err := validateAllocatable(order); err != nil {
		return false, err
	}
	if order.IsAssigned() {
		return false, ErrOrderAlreadyAssigned
	}

	cost, ok := a.snapshots.Current().CountRangeCost(order.CountRange)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownCountRange, order.CountRange)
	}
	// ёмкость по услуге считается по ведущей услуге заказа;
	// после разделения по услугам она единственная
	serviceKey := order.ServiceIDs[0]

	// невалидный переход отклоняется до любых записей в хранилище
	now := time.Now().UTC()
	if err := order.PushStatus(entities.PickupPending, now); err != nil {
		return false, fmt.Errorf("push status: %w", err)
	}

	err := a.txManager.Do(ctx, func(ctx context.Context) error {
		err := a.ledgerRepository.Debit(ctx, provider.ID, order.PickupWindow.Date, order.TimeSlot, serviceKey, cost)
		if err != nil {
			return fmt.Errorf("debit ledger: %w", err)
		}

		err = a.orderRepository.AssignProvider(ctx, order.ID, provider.ID, autoAllotted, order.StatusHistory[0])
		if err != nil {
			return fmt.Errorf("assign provider: %w", err)
		}
		return nil
	})
	if err != nil {
		// откатываем и in-memory заказ, транзакция его не тронула
		order.StatusHistory = order.StatusHistory[1:]
		if errors.Is(err, ErrCapacityExhausted) {
			return false, nil
		}
		return false, err
	}

	order.ProviderID = &provider.ID
	order.AutoAllotted = autoAllotted
	return true, nil
}

func validateAllocatable(order *entities.Order) error {
	if order.TimeSlot == "" || len(order.ServiceIDs) == 0 {
		return ErrMissingRequiredFields
	}
	return nil
}
