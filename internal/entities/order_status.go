package entities

import "time"

type OrderStatusType string

const (
	ServicePending     OrderStatusType = "SERVICE_PENDING"
	LocationPending    OrderStatusType = "LOCATION_PENDING"
	TimeSlotPending    OrderStatusType = "TIME_SLOT_PENDING"
	FindingIronman     OrderStatusType = "FINDING_IRONMAN"
	PickupPending      OrderStatusType = "PICKUP_PENDING"
	PickupUserNoResp   OrderStatusType = "PICKUP_USER_NO_RESP"
	PickupUserRejected OrderStatusType = "PICKUP_USER_REJECTED"
	PickupComplete     OrderStatusType = "PICKUP_COMPLETE"
	WorkInProgress     OrderStatusType = "WORK_IN_PROGRESS"
	WorkDone           OrderStatusType = "WORK_DONE"
	ToBeDelivered      OrderStatusType = "TO_BE_DELIVERED"
	DeliveryPending    OrderStatusType = "DELIVERY_PENDING"
	DeliveryAttempted  OrderStatusType = "DELIVERY_ATTEMPTED"
	Delivered          OrderStatusType = "DELIVERED"
	Closed             OrderStatusType = "CLOSED"
)

func (s OrderStatusType) String() string {
	return string(s)
}

// statusRank задает порядок статусов в жизненном цикле заказа.
var statusRank = map[OrderStatusType]int{
	ServicePending:     0,
	LocationPending:    1,
	TimeSlotPending:    2,
	FindingIronman:     3,
	PickupPending:      4,
	PickupUserNoResp:   5,
	PickupUserRejected: 5,
	PickupComplete:     5,
	WorkInProgress:     6,
	WorkDone:           7,
	ToBeDelivered:      8,
	DeliveryPending:    9,
	DeliveryAttempted:  10,
	Delivered:          11,
	Closed:             12,
}

func (s OrderStatusType) Rank() (int, bool) {
	rank, ok := statusRank[s]
	return rank, ok
}

// ReachedOrPast сообщает, достиг ли статус s стадии other (или прошел её).
func (s OrderStatusType) ReachedOrPast(other OrderStatusType) bool {
	selfRank, okSelf := statusRank[s]
	otherRank, okOther := statusRank[other]
	if !okSelf || !okOther {
		return false
	}
	return selfRank >= otherRank
}

type OrderStatus struct {
	Status    OrderStatusType
	CreatedOn time.Time
}

// PushStatus валидирует переход относительно головы истории и добавляет
// новую запись в начало. История никогда не мутируется по месту.
func (o *Order) PushStatus(to OrderStatusType, now time.Time) error {
	if _, ok := statusRank[to]; !ok {
		return ErrUnknownStatus
	}

	current := o.Status()
	if current == to {
		return ErrInvalidStatusTransition
	}
	if current != "" {
		if _, ok := statusRank[current]; !ok {
			return ErrUnknownStatus
		}
	}

	history := make([]OrderStatus, 0, len(o.StatusHistory)+1)
	history = append(history, OrderStatus{Status: to, CreatedOn: now})
	history = append(history, o.StatusHistory...)
	o.StatusHistory = history
	o.UpdatedAt = now
	return nil
}
