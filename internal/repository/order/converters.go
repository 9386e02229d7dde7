package order

import (
	"service/internal/entities"
)

func ToDomain(o *OrderDB, statuses []OrderStatusDB) *entities.Order {
	if o == nil {
		return nil
	}

	history := make([]entities.OrderStatus, 0, len(statuses))
	for _, statusDB := range statuses {
		history = append(history, entities.OrderStatus{
			Status:    entities.OrderStatusType(statusDB.Status),
			CreatedOn: statusDB.CreatedOn,
		})
	}

	return &entities.Order{
		ID:            o.ID,
		ParentOrderID: o.ParentOrderID,
		CustomerID:    o.CustomerID,
		CustomerWaID:  o.CustomerWaID,
		ServiceIDs:    o.ServiceIDs,
		CountRange:    o.CountRange,
		Location:      entities.GeoPoint{Latitude: o.Latitude, Longitude: o.Longitude},
		TimeSlot:      o.TimeSlot,
		PickupWindow: entities.PickupWindow{
			Date:  o.PickupDate,
			Start: o.PickupStart,
			End:   o.PickupEnd,
		},
		ProviderID:    o.ProviderID,
		AutoAllotted:  o.AutoAllotted,
		TotalPrice:    o.TotalPrice,
		StatusHistory: history,
		MatchPending:  o.MatchPending,
		MatchAfter:    o.MatchAfter,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func FromDomain(order *entities.Order) *OrderDB {
	if order == nil {
		return nil
	}

	return &OrderDB{
		ID:            order.ID,
		ParentOrderID: order.ParentOrderID,
		CustomerID:    order.CustomerID,
		CustomerWaID:  order.CustomerWaID,
		ServiceIDs:    order.ServiceIDs,
		CountRange:    order.CountRange,
		Latitude:      order.Location.Latitude,
		Longitude:     order.Location.Longitude,
		TimeSlot:      order.TimeSlot,
		PickupDate:    order.PickupWindow.Date,
		PickupStart:   order.PickupWindow.Start,
		PickupEnd:     order.PickupWindow.End,
		ProviderID:    order.ProviderID,
		AutoAllotted:  order.AutoAllotted,
		TotalPrice:    order.TotalPrice,
		MatchPending:  order.MatchPending,
		MatchAfter:    order.MatchAfter,
	}
}

func FromDomainModify(orderModify *entities.OrderModify) *OrderModifyDB {
	if orderModify == nil {
		return nil
	}
	orderDB := &OrderModifyDB{}

	if orderModify.ID != nil {
		orderDB.ID = orderModify.ID
	}
	if orderModify.TimeSlot != nil {
		orderDB.TimeSlot = orderModify.TimeSlot
	}
	if orderModify.PickupWindow != nil {
		window := *orderModify.PickupWindow
		orderDB.PickupDate = &window.Date
		orderDB.PickupStart = &window.Start
		orderDB.PickupEnd = &window.End
	}
	if orderModify.ProviderID != nil {
		orderDB.ProviderID = orderModify.ProviderID
	}
	if orderModify.AutoAllotted != nil {
		orderDB.AutoAllotted = orderModify.AutoAllotted
	}
	if orderModify.MatchPending != nil {
		orderDB.MatchPending = orderModify.MatchPending
	}
	if orderModify.MatchAfter != nil {
		orderDB.MatchAfter = orderModify.MatchAfter
	}

	return orderDB
}
