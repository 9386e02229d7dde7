package entities

import "time"

// Offer - предложение заказа одному кандидату (или маршруту кандидатов
// для delivery-режима). Терминальный offer без провайдеров служит только
// для уведомления клиента "никто не принял".
type Offer struct {
	ID             string
	OrderID        string
	DeliveryType   DeliveryType
	ProviderID     *int64
	RouteProviders []int64
	DistanceMeters float64
	Rank           int
	TriggerTime    time.Time
	IsPending      bool
	TryCount       int
	Resolution     OfferResolution
	CreatedAt      time.Time
}

func (o *Offer) IsTerminal() bool {
	return o.ProviderID == nil && len(o.RouteProviders) == 0
}

type OfferResolution string

const (
	OfferUnresolved OfferResolution = ""
	OfferAccepted   OfferResolution = "ACCEPTED"
	OfferRejected   OfferResolution = "REJECTED"
	OfferLost       OfferResolution = "LOST"
	OfferExpired    OfferResolution = "EXPIRED"
)

func (r OfferResolution) String() string {
	return string(r)
}

type OfferOutcome string

const (
	OutcomeAccept OfferOutcome = "ACCEPT"
	OutcomeReject OfferOutcome = "REJECT"
)

// OfferDispatch - offer вместе с данными для отправки уведомления.
// Для SELF_PICKUP в Providers один кандидат, для DELIVERY - весь маршрут,
// для терминального offer-а срез пуст.
type OfferDispatch struct {
	Offer     Offer
	Order     Order
	Providers []Provider
}
