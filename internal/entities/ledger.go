package entities

import "time"

// LedgerEntry - счётчики ёмкости провайдера на одну операционную дату.
// Инвариант: Consumed <= Limit на каждой гранулярности, всегда.
type LedgerEntry struct {
	ID            int64
	ProviderID    int64
	OperationDate time.Time
	DailyLimit    int
	DailyConsumed int
	Slots         map[string]Quota
	Services      map[string]Quota
}

type Quota struct {
	Limit    int
	Consumed int
}

func (q Quota) Remaining() int {
	return q.Limit - q.Consumed
}
