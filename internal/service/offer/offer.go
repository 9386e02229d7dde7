package offer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"service/internal/entities"
)

const (
	templateNewOrderRequest  = "new_order_request"
	templateNoProvider       = "new_order_no_ironman"
	templateAllotted         = "order_alloted"
	templateAlreadyAccepted  = "order_already_accepted"
	templateSlotExpired      = "order_slot_expired"
	templateOrderUnavailable = "order_not_available"
)

type Config struct {
	TryCap       int
	SlotLeadTime time.Duration
	SendParallel int
}

type Offer struct {
	repository         Repository
	orderRepository    OrderRepository
	providerRepository ProviderRepository
	allocator          Allocator
	notifier           Notifier
	snapshots          SnapshotSource
	config             Config
}

func New(
	repository Repository,
	orderRepository OrderRepository,
	providerRepository ProviderRepository,
	allocator Allocator,
	notifier Notifier,
	snapshots SnapshotSource,
	config Config,
) *Offer {
	return &Offer{
		repository:         repository,
		orderRepository:    orderRepository,
		providerRepository: providerRepository,
		allocator:          allocator,
		notifier:           notifier,
		snapshots:          snapshots,
		config:             config,
	}
}

// DispatchResult - итог одного цикла рассылки offer-ов.
type DispatchResult struct {
	Sent   int
	Failed int
}

// DispatchDueOffers рассылает offer-ы с наступившим trigger_time.
// Успешно отправленные гасятся (is_pending=false), неудачные остаются
// pending с инкрементом попыток и уходят в следующий цикл, пока не
// упрутся в лимит попыток.
func (o *Offer) DispatchDueOffers(ctx context.Context) (DispatchResult, error) {
	now := time.Now().UTC()
	due, err := o.repository.FindDue(ctx, now, o.config.TryCap)
	if err != nil {
		return DispatchResult{}, fmt.Errorf("find due offers: %w", err)
	}
	if len(due) == 0 {
		return DispatchResult{}, nil
	}

	dispatches, err := o.loadDispatches(ctx, due)
	if err != nil {
		return DispatchResult{}, err
	}

	// терминальный offer по уже разобранному заказу потерял смысл:
	// гасим его молча, клиент уже получил "order_alloted"
	active := make([]entities.OfferDispatch, 0, len(dispatches))
	for i := range dispatches {
		dispatch := &dispatches[i]
		if dispatch.Offer.IsTerminal() && orderTaken(&dispatch.Order) {
			err := o.repository.Resolve(ctx, dispatch.Offer.ID, entities.OfferLost)
			if err != nil && !errors.Is(err, ErrOfferAlreadyResolved) {
				return DispatchResult{}, fmt.Errorf("resolve stale terminal offer: %w", err)
			}
			continue
		}
		active = append(active, *dispatch)
	}
	dispatches = active

	var mu sync.Mutex
	sentIDs := make([]string, 0, len(dispatches))
	failedIDs := make([]string, 0)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(o.config.SendParallel)
	for i := range dispatches {
		dispatch := &dispatches[i]
		group.Go(func() error {
			if err := o.sendOffer(groupCtx, dispatch); err != nil {
				mu.Lock()
				failedIDs = append(failedIDs, dispatch.Offer.ID)
				mu.Unlock()
				return nil
			}
			mu.Lock()
			sentIDs = append(sentIDs, dispatch.Offer.ID)
			mu.Unlock()
			return nil
		})
	}
	//nolint:errcheck // воркеры не возвращают ошибок, сбои копятся в failedIDs
	_ = group.Wait()

	if len(sentIDs) > 0 {
		if err := o.repository.MarkDispatched(ctx, sentIDs); err != nil {
			return DispatchResult{}, fmt.Errorf("mark dispatched: %w", err)
		}
	}
	if len(failedIDs) > 0 {
		if err := o.repository.MarkAttempted(ctx, failedIDs); err != nil {
			return DispatchResult{}, fmt.Errorf("mark attempted: %w", err)
		}
	}
	return DispatchResult{Sent: len(sentIDs), Failed: len(failedIDs)}, nil
}

// loadDispatches дособирает offer-ы заказами и провайдерами. Провайдеры
// по всем offer-ам цикла читаются одним запросом.
func (o *Offer) loadDispatches(ctx context.Context, offers []entities.Offer) ([]entities.OfferDispatch, error) {
	providerIDs := make([]int64, 0, len(offers))
	for i := range offers {
		providerIDs = append(providerIDs, offerProviderIDs(&offers[i])...)
	}

	providersByID := make(map[int64]entities.Provider)
	if len(providerIDs) > 0 {
		providers, err := o.providerRepository.ListByIDs(ctx, providerIDs)
		if err != nil {
			return nil, fmt.Errorf("list offer providers: %w", err)
		}
		for _, provider := range providers {
			providersByID[provider.ID] = provider
		}
	}

	dispatches := make([]entities.OfferDispatch, 0, len(offers))
	for i := range offers {
		offerEntity := offers[i]
		order, err := o.orderRepository.Get(ctx, offerEntity.OrderID)
		if err != nil {
			return nil, fmt.Errorf("get order %s: %w", offerEntity.OrderID, err)
		}

		dispatch := entities.OfferDispatch{Offer: offerEntity, Order: *order}
		for _, providerID := range offerProviderIDs(&offerEntity) {
			if provider, ok := providersByID[providerID]; ok {
				dispatch.Providers = append(dispatch.Providers, provider)
			}
		}
		dispatches = append(dispatches, dispatch)
	}
	return dispatches, nil
}

func offerProviderIDs(offerEntity *entities.Offer) []int64 {
	if offerEntity.ProviderID != nil {
		return []int64{*offerEntity.ProviderID}
	}
	return offerEntity.RouteProviders
}

// orderTaken - заказ уже разобран: провайдер назначен или статус ушёл
// дальше поиска.
func orderTaken(order *entities.Order) bool {
	return order.IsAssigned() || order.Status().ReachedOrPast(entities.PickupPending)
}

func (o *Offer) sendOffer(ctx context.Context, dispatch *entities.OfferDispatch) error {
	if dispatch.Offer.IsTerminal() {
		return o.notifier.SendTemplate(ctx, dispatch.Order.CustomerWaID, templateNoProvider, map[string]string{
			"order_id": dispatch.Order.ID,
		}, dispatch.Offer.ID)
	}

	params := o.offerParams(dispatch)
	for i := range dispatch.Providers {
		err := o.notifier.SendTemplate(ctx, dispatch.Providers[i].WaID, templateNewOrderRequest, params, dispatch.Offer.ID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (o *Offer) offerParams(dispatch *entities.OfferDispatch) map[string]string {
	snap := o.snapshots.Current()
	slotTitle := dispatch.Order.TimeSlot
	if slot, ok := snap.TimeSlot(dispatch.Order.TimeSlot); ok {
		slotTitle = slot.Title
	}
	return map[string]string{
		"offer_id":    dispatch.Offer.ID,
		"order_id":    dispatch.Order.ID,
		"count_range": dispatch.Order.CountRange,
		"time_slot":   slotTitle,
		"distance_km": strconv.FormatFloat(dispatch.Offer.DistanceMeters/1000, 'f', 1, 64),
	}
}

// ListByOrder возвращает все offer-ы заказа в порядке их лесенки.
func (o *Offer) ListByOrder(ctx context.Context, orderID string) ([]entities.Offer, error) {
	offers, err := o.repository.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	return offers, nil
}
