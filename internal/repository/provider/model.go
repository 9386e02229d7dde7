package provider

import "time"

type ProviderDB struct {
	ID            int64
	Name          string
	WaID          string
	Latitude      float64
	Longitude     float64
	RangeMeters   float64
	ServiceIDs    []string
	TimeSlots     []string
	DeliveryType  string
	AutoAccept    bool
	DailyLimit    int
	SlotLimits    map[string]int
	ServiceLimits map[string]int
	IsActive      bool
	Rating        float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type CandidateDB struct {
	Provider       ProviderDB
	DistanceMeters float64
}
