package offer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"service/internal/entities"
	"service/internal/service/allocation"
)

// ResponseResult - как завершилась обработка ответа провайдера.
type ResponseResult struct {
	OrderID    string
	Resolution entities.OfferResolution
}

// HandleResponse обрабатывает ответ провайдера на offer. Приём проходит
// через те же проверки ёмкости, что и авто-приём: заказ уже занят, слот
// истёк или лимит исчерпан - offer гасится с отказным уведомлением.
// Любая неуверенность трактуется как отказ, заказ не раздаётся дважды.
func (o *Offer) HandleResponse(ctx context.Context, offerID string, outcome entities.OfferOutcome, responderWaID string) (ResponseResult, error) {
	if strings.TrimSpace(offerID) == "" {
		return ResponseResult{}, ErrOfferNotFound
	}
	if outcome != entities.OutcomeAccept && outcome != entities.OutcomeReject {
		return ResponseResult{}, fmt.Errorf("%w: %q", ErrUnknownOutcome, outcome)
	}

	offerEntity, err := o.repository.Get(ctx, offerID)
	if err != nil {
		return ResponseResult{}, fmt.Errorf("get offer: %w", err)
	}
	if offerEntity.Resolution != entities.OfferUnresolved {
		return ResponseResult{}, ErrOfferAlreadyResolved
	}

	dispatches, err := o.loadDispatches(ctx, []entities.Offer{*offerEntity})
	if err != nil {
		return ResponseResult{}, err
	}
	dispatch := &dispatches[0]

	if outcome == entities.OutcomeReject {
		if err := o.repository.Resolve(ctx, offerID, entities.OfferRejected); err != nil {
			return ResponseResult{}, fmt.Errorf("resolve rejected: %w", err)
		}
		return ResponseResult{OrderID: dispatch.Order.ID, Resolution: entities.OfferRejected}, nil
	}

	return o.internalAccept(ctx, dispatch, responderWaID, time.Now().UTC())
}

func (o *Offer) internalAccept(ctx context.Context, dispatch *entities.OfferDispatch, responderWaID string, now time.Time) (ResponseResult, error) {
	order := &dispatch.Order
	responder := o.pickResponder(dispatch, responderWaID)

	if orderTaken(order) {
		o.notifyResponder(ctx, responder, templateAlreadyAccepted, order, dispatch.Offer.ID)
		return o.resolve(ctx, dispatch, entities.OfferLost)
	}

	// принимать поздно, если до конца окна забора меньше lead-буфера
	if now.After(order.PickupWindow.End.Add(-o.config.SlotLeadTime)) {
		o.notifyResponder(ctx, responder, templateSlotExpired, order, dispatch.Offer.ID)
		return o.resolve(ctx, dispatch, entities.OfferExpired)
	}

	if responder == nil {
		return ResponseResult{}, fmt.Errorf("offer %s: responder %q is not among offer providers", dispatch.Offer.ID, responderWaID)
	}

	allotted, err := o.allocator.TryAllocate(ctx, order, responder, false)
	if err != nil {
		if errors.Is(err, allocation.ErrOrderAlreadyAssigned) {
			o.notifyResponder(ctx, responder, templateAlreadyAccepted, order, dispatch.Offer.ID)
			return o.resolve(ctx, dispatch, entities.OfferLost)
		}
		return ResponseResult{}, fmt.Errorf("allocate on accept: %w", err)
	}
	if !allotted {
		o.notifyResponder(ctx, responder, templateOrderUnavailable, order, dispatch.Offer.ID)
		return o.resolve(ctx, dispatch, entities.OfferLost)
	}

	result, err := o.resolve(ctx, dispatch, entities.OfferAccepted)
	if err != nil {
		return ResponseResult{}, err
	}

	//nolint:errcheck // уведомления best-effort, назначение уже зафиксировано
	_ = o.notifier.SendTemplate(ctx, order.CustomerWaID, templateAllotted, map[string]string{
		"order_id":      order.ID,
		"provider_name": responder.Name,
	}, dispatch.Offer.ID)
	o.notifyResponder(ctx, responder, templateAllotted, order, dispatch.Offer.ID)
	return result, nil
}

func (o *Offer) resolve(ctx context.Context, dispatch *entities.OfferDispatch, resolution entities.OfferResolution) (ResponseResult, error) {
	if err := o.repository.Resolve(ctx, dispatch.Offer.ID, resolution); err != nil {
		return ResponseResult{}, fmt.Errorf("resolve offer: %w", err)
	}
	return ResponseResult{OrderID: dispatch.Order.ID, Resolution: resolution}, nil
}

// pickResponder находит ответившего провайдера среди адресатов offer-а.
// Для SELF_PICKUP адресат один, для DELIVERY ответить может любой из маршрута.
func (o *Offer) pickResponder(dispatch *entities.OfferDispatch, responderWaID string) *entities.Provider {
	for i := range dispatch.Providers {
		if dispatch.Providers[i].WaID == responderWaID {
			return &dispatch.Providers[i]
		}
	}
	if len(dispatch.Providers) == 1 && responderWaID == "" {
		return &dispatch.Providers[0]
	}
	return nil
}

func (o *Offer) notifyResponder(ctx context.Context, responder *entities.Provider, templateKey string, order *entities.Order, correlationID string) {
	if responder == nil {
		return
	}
	//nolint:errcheck
	_ = o.notifier.SendTemplate(ctx, responder.WaID, templateKey, map[string]string{
		"order_id":    order.ID,
		"provider_id": strconv.FormatInt(responder.ID, 10),
	}, correlationID)
}
