package order

import "time"

type OrderDB struct {
	ID            string
	ParentOrderID *string
	CustomerID    string
	CustomerWaID  string
	ServiceIDs    []string
	CountRange    string
	Latitude      float64
	Longitude     float64
	TimeSlot      string
	PickupDate    time.Time
	PickupStart   time.Time
	PickupEnd     time.Time
	ProviderID    *int64
	AutoAllotted  bool
	TotalPrice    *float64
	MatchPending  bool
	MatchAfter    time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type OrderStatusDB struct {
	OrderID   string
	Status    string
	CreatedOn time.Time
}

type OrderModifyDB struct {
	ID           *string
	TimeSlot     *string
	PickupDate   *time.Time
	PickupStart  *time.Time
	PickupEnd    *time.Time
	ProviderID   *int64
	AutoAllotted *bool
	MatchPending *bool
	MatchAfter   *time.Time
}
