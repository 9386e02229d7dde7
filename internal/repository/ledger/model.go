package ledger

import "time"

type LedgerEntryDB struct {
	ID            int64
	ProviderID    int64
	OperationDate time.Time
	DailyLimit    int
	DailyConsumed int
}

type BucketDB struct {
	LedgerID      int64
	BucketType    string
	BucketKey     string
	LimitUnits    int
	ConsumedUnits int
}

const (
	bucketTypeSlot    = "slot"
	bucketTypeService = "service"
)
