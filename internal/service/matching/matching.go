package matching

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"service/internal/entities"
)

const (
	templateNoProvider = "new_order_no_ironman"
	templateAllotted   = "order_alloted"
)

type Config struct {
	CandidateLimit    int
	MaxDistanceMeters float64
}

type Matching struct {
	orderRepository    OrderRepository
	providerRepository ProviderRepository
	offerRepository    OfferRepository
	allocator          Allocator
	notifier           Notifier
	triggerFactory     TriggerTimeFactory
	snapshots          SnapshotSource
	txManager          TxManager
	config             Config
}

func New(
	orderRepository OrderRepository,
	providerRepository ProviderRepository,
	offerRepository OfferRepository,
	allocator Allocator,
	notifier Notifier,
	triggerFactory TriggerTimeFactory,
	snapshots SnapshotSource,
	txManager TxManager,
	config Config,
) *Matching {
	return &Matching{
		orderRepository:    orderRepository,
		providerRepository: providerRepository,
		offerRepository:    offerRepository,
		allocator:          allocator,
		notifier:           notifier,
		triggerFactory:     triggerFactory,
		snapshots:          snapshots,
		txManager:          txManager,
		config:             config,
	}
}

// OrderIntake - подтверждённая заявка из чат-потока.
type OrderIntake struct {
	CustomerID   string
	CustomerWaID string
	ServiceIDs   []string
	CountRange   string
	Location     entities.GeoPoint
	TimeSlot     string
	PickupDate   time.Time
}

// SubmitOrder сохраняет заказ и ставит его в очередь на подбор провайдера.
// Заказ с несколькими услугами сразу разделяется: подбор идёт по дочерним
// заказам с единственной услугой, родитель в подбор не попадает.
func (m *Matching) SubmitOrder(ctx context.Context, intake OrderIntake) (*entities.Order, error) {
	now := time.Now().UTC()
	snap := m.snapshots.Current()

	if _, ok := snap.CountRangeCost(intake.CountRange); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCountRange, intake.CountRange)
	}
	window, err := snap.SlotWindow(intake.TimeSlot, intake.PickupDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTimeSlot, intake.TimeSlot)
	}

	order := &entities.Order{
		CustomerID:   intake.CustomerID,
		CustomerWaID: intake.CustomerWaID,
		ServiceIDs:   intake.ServiceIDs,
		CountRange:   intake.CountRange,
		Location:     intake.Location,
		TimeSlot:     intake.TimeSlot,
		PickupWindow: window,
		MatchPending: true,
		MatchAfter:   now,
	}
	if !isMatchable(order) {
		return nil, ErrOrderNotMatchable
	}
	if err := order.PushStatus(entities.FindingIronman, now); err != nil {
		return nil, fmt.Errorf("push status: %w", err)
	}

	var created *entities.Order
	err = m.txManager.Do(ctx, func(ctx context.Context) error {
		created, err = m.orderRepository.Insert(ctx, order)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		if len(created.ServiceIDs) > 1 {
			if _, err := m.internalSplit(ctx, created, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (m *Matching) GetOrder(ctx context.Context, orderID string) (*entities.Order, error) {
	if !isValidOrderID(orderID) {
		return nil, ErrOrderNotFound
	}

	order, err := m.orderRepository.Get(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

// SplitByService разделяет заказ с несколькими услугами на дочерние заказы
// по одной услуге. Родитель выводится из очереди подбора.
func (m *Matching) SplitByService(ctx context.Context, orderID string) (*entities.OrderSplit, error) {
	if !isValidOrderID(orderID) {
		return nil, ErrOrderNotFound
	}

	order, err := m.orderRepository.Get(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if len(order.ServiceIDs) <= 1 {
		return nil, ErrNothingToSplit
	}

	now := time.Now().UTC()
	var split *entities.OrderSplit
	err = m.txManager.Do(ctx, func(ctx context.Context) error {
		split, err = m.internalSplit(ctx, order, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return split, nil
}

func (m *Matching) internalSplit(ctx context.Context, parent *entities.Order, now time.Time) (*entities.OrderSplit, error) {
	split := &entities.OrderSplit{ParentOrderID: parent.ID}
	for _, serviceID := range parent.ServiceIDs {
		child := *parent
		child.ID = ""
		child.ParentOrderID = &parent.ID
		child.ServiceIDs = []string{serviceID}
		child.StatusHistory = append([]entities.OrderStatus(nil), parent.StatusHistory...)
		child.MatchPending = true
		child.MatchAfter = now

		inserted, err := m.orderRepository.Insert(ctx, &child)
		if err != nil {
			return nil, fmt.Errorf("insert child order: %w", err)
		}
		split.Children = append(split.Children, *inserted)
	}

	matchPending := false
	modify := entities.OrderModify{ID: &parent.ID, MatchPending: &matchPending}
	if err := m.orderRepository.Update(ctx, modify); err != nil {
		return nil, fmt.Errorf("unschedule parent order: %w", err)
	}
	parent.MatchPending = false
	return split, nil
}

// ProcessDueIntake забирает заказы, дозревшие до подбора, и раскладывает
// по каждому веер offer-ов. Заказы помечаются обработанными до веера,
// чтобы повторный цикл не раздал их второй раз.
func (m *Matching) ProcessDueIntake(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	orders, err := m.orderRepository.FindDueForMatching(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("find due orders: %w", err)
	}
	if len(orders) == 0 {
		return 0, nil
	}

	orderIDs := make([]string, 0, len(orders))
	for _, order := range orders {
		orderIDs = append(orderIDs, order.ID)
	}
	if err := m.orderRepository.MarkMatchScheduled(ctx, orderIDs); err != nil {
		return 0, fmt.Errorf("mark orders scheduled: %w", err)
	}

	processed := 0
	for i := range orders {
		err := m.CreateOfferFanout(ctx, &orders[i])
		if err != nil && !errors.Is(err, ErrNoProvidersAvailable) {
			return processed, fmt.Errorf("fanout order %s: %w", orders[i].ID, err)
		}
		processed++
	}
	return processed, nil
}

// CreateOfferFanout находит кандидатов и строит лесенку offer-ов: авто-приём
// выполняется синхронно, остальные кандидаты получают отложенные offer-ы по
// возрастанию расстояния, delivery-группа - один offer на весь маршрут.
// Терминальный offer "никто не взял" ставится после всей лесенки.
func (m *Matching) CreateOfferFanout(ctx context.Context, order *entities.Order) error {
	if !isMatchable(order) {
		return ErrOrderNotMatchable
	}

	candidates, err := m.providerRepository.FindCandidates(
		ctx,
		order.Location,
		order.ServiceIDs,
		order.TimeSlot,
		m.config.MaxDistanceMeters,
		m.config.CandidateLimit,
	)
	if err != nil {
		return fmt.Errorf("find candidates: %w", err)
	}
	if len(candidates) == 0 {
		m.notifyNoProvider(ctx, order)
		return ErrNoProvidersAvailable
	}

	now := time.Now().UTC()
	offers := make([]entities.Offer, 0, len(candidates)+2)
	routeProviders := make([]int64, 0)
	routeDistance := 0.0
	staggered := 0

	for i := range candidates {
		candidate := &candidates[i]
		if candidate.Provider.DeliveryType == entities.Delivery {
			routeProviders = append(routeProviders, candidate.Provider.ID)
			if candidate.DistanceMeters > routeDistance {
				routeDistance = candidate.DistanceMeters
			}
			continue
		}

		if candidate.Provider.AutoAccept {
			allotted, err := m.allocator.TryAllocate(ctx, order, &candidate.Provider, true)
			if err != nil {
				return fmt.Errorf("auto-allot provider %d: %w", candidate.Provider.ID, err)
			}
			if allotted {
				m.notifyAllotted(ctx, order, &candidate.Provider)
				return nil
			}
			// ёмкость исчерпана, кандидат выбывает из лесенки
			continue
		}

		providerID := candidate.Provider.ID
		offers = append(offers, entities.Offer{
			OrderID:        order.ID,
			DeliveryType:   entities.SelfPickup,
			ProviderID:     &providerID,
			DistanceMeters: candidate.DistanceMeters,
			Rank:           staggered,
			TriggerTime:    m.triggerFactory.StaggeredTrigger(now, staggered),
			IsPending:      true,
		})
		staggered++
	}

	if len(routeProviders) > 0 {
		offers = append(offers, entities.Offer{
			OrderID:        order.ID,
			DeliveryType:   entities.Delivery,
			RouteProviders: routeProviders,
			DistanceMeters: routeDistance,
			TriggerTime:    m.triggerFactory.DeliveryTrigger(now),
			IsPending:      true,
		})
	}

	if len(offers) == 0 {
		m.notifyNoProvider(ctx, order)
		return ErrNoProvidersAvailable
	}

	// терминальный offer ждёт всю лесенку, включая delivery-ветку
	terminalTrigger := m.triggerFactory.NoProviderTrigger(now, staggered)
	if len(routeProviders) > 0 {
		deliveryTerminal := m.triggerFactory.NoProviderTrigger(m.triggerFactory.DeliveryTrigger(now), 0)
		if deliveryTerminal.After(terminalTrigger) {
			terminalTrigger = deliveryTerminal
		}
	}
	offers = append(offers, entities.Offer{
		OrderID:     order.ID,
		TriggerTime: terminalTrigger,
		IsPending:   true,
	})

	if err := m.offerRepository.InsertMany(ctx, offers); err != nil {
		return fmt.Errorf("insert offers: %w", err)
	}
	return nil
}

// уведомления best-effort: сбой доставки не откатывает подбор
func (m *Matching) notifyNoProvider(ctx context.Context, order *entities.Order) {
	//nolint:errcheck // шлюз сам логирует сбои отправки
	_ = m.notifier.SendTemplate(ctx, order.CustomerWaID, templateNoProvider, map[string]string{
		"order_id": order.ID,
	}, order.ID)
}

func (m *Matching) notifyAllotted(ctx context.Context, order *entities.Order, provider *entities.Provider) {
	//nolint:errcheck
	_ = m.notifier.SendTemplate(ctx, order.CustomerWaID, templateAllotted, map[string]string{
		"order_id":      order.ID,
		"provider_name": provider.Name,
		"provider_id":   strconv.FormatInt(provider.ID, 10),
	}, order.ID)
}
