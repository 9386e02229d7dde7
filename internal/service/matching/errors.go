package matching

import "errors"

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderNotMatchable    = errors.New("order is missing fields required for matching")
	ErrNoProvidersAvailable = errors.New("no providers available for order")
	ErrUnknownTimeSlot      = errors.New("unknown time slot")
	ErrUnknownCountRange    = errors.New("unknown count range")
	ErrNothingToSplit       = errors.New("order has a single service, nothing to split")
)
