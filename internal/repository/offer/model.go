package offer

import "time"

type OfferDB struct {
	ID               string
	OrderID          string
	DeliveryType     string
	ProviderID       *int64
	RouteProviderIDs []int64
	DistanceMeters   float64
	Rank             int
	TriggerTime      time.Time
	IsPending        bool
	TryCount         int
	Resolution       string
	CreatedAt        time.Time
}
