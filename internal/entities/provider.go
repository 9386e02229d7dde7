package entities

import "time"

// Provider - точка обслуживания ("ironman"), принимающая заказы на стирку.
type Provider struct {
	ID            int64
	Name          string
	WaID          string
	Coords        GeoPoint
	RangeMeters   float64
	ServiceIDs    []string
	TimeSlots     []string
	DeliveryType  DeliveryType
	AutoAccept    bool
	DailyLimit    int
	SlotLimits    map[string]int
	ServiceLimits map[string]int
	IsActive      bool
	Rating        float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type DeliveryType string

const (
	SelfPickup DeliveryType = "SELF_PICKUP"
	Delivery   DeliveryType = "DELIVERY"
)

func (t DeliveryType) String() string {
	return string(t)
}

// Candidate - провайдер, прошедший геофильтр, с расстоянием до заказа.
type Candidate struct {
	Provider       Provider
	DistanceMeters float64
}
