package allocation

import "errors"

var (
	ErrMissingRequiredFields = errors.New("order has no time slot or services")
	ErrUnknownCountRange     = errors.New("unknown count range")
	ErrOrderAlreadyAssigned  = errors.New("order already assigned")

	// ErrCapacityExhausted - нормальный отрицательный результат списания,
	// репозиторий возвращает его когда лимит не позволяет принять заказ.
	ErrCapacityExhausted = errors.New("provider capacity exhausted")
	ErrLedgerNotFound    = errors.New("capacity ledger entry not found")
)
