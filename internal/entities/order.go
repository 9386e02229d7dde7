package entities

import "time"

type Order struct {
	ID            string
	ParentOrderID *string
	CustomerID    string
	CustomerWaID  string
	ServiceIDs    []string
	CountRange    string
	Location      GeoPoint
	TimeSlot      string
	PickupWindow  PickupWindow
	ProviderID    *int64
	AutoAllotted  bool
	TotalPrice    *float64
	StatusHistory []OrderStatus
	MatchPending  bool
	MatchAfter    time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Status возвращает голову истории статусов (самый свежий статус).
func (o *Order) Status() OrderStatusType {
	if len(o.StatusHistory) == 0 {
		return ""
	}
	return o.StatusHistory[0].Status
}

func (o *Order) IsAssigned() bool {
	return o.ProviderID != nil || o.AutoAllotted
}

type PickupWindow struct {
	Date  time.Time
	Start time.Time
	End   time.Time
}

type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

type OrderModify struct {
	ID           *string
	TimeSlot     *string
	PickupWindow *PickupWindow
	ProviderID   *int64
	AutoAllotted *bool
	MatchPending *bool
	MatchAfter   *time.Time
}

// OrderSplit - дочерний заказ после разделения по услугам.
// Родитель остаётся в истории, дочерние записи неизменяемы.
type OrderSplit struct {
	ParentOrderID string
	Children      []Order
}
