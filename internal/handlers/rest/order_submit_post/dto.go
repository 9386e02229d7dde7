package order_submit_post

import "time"

type OrderSubmitRequest struct {
	CustomerID   string   `json:"customer_id"`
	CustomerWaID string   `json:"customer_wa_id"`
	ServiceIDs   []string `json:"service_ids"`
	CountRange   string   `json:"count_range"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	TimeSlot     string   `json:"time_slot"`
	PickupDate   string   `json:"pickup_date"`
}

type OrderSubmitResponse struct {
	OrderID     string    `json:"order_id"`
	Status      string    `json:"status"`
	TimeSlot    string    `json:"time_slot"`
	PickupStart time.Time `json:"pickup_start"`
	PickupEnd   time.Time `json:"pickup_end"`
}
