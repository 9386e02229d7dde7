package matching

import (
	"strings"

	"service/internal/entities"
)

func isValidOrderID(orderID string) bool {
	return strings.TrimSpace(orderID) != ""
}

func isMatchable(order *entities.Order) bool {
	if len(order.ServiceIDs) == 0 || order.TimeSlot == "" {
		return false
	}
	if order.Location.Latitude == 0 && order.Location.Longitude == 0 {
		return false
	}
	return true
}
