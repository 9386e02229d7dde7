package ledger

import (
	"service/internal/entities"
)

func ToDomain(entryDB *LedgerEntryDB, buckets []BucketDB) *entities.LedgerEntry {
	if entryDB == nil {
		return nil
	}

	entry := &entities.LedgerEntry{
		ID:            entryDB.ID,
		ProviderID:    entryDB.ProviderID,
		OperationDate: entryDB.OperationDate,
		DailyLimit:    entryDB.DailyLimit,
		DailyConsumed: entryDB.DailyConsumed,
		Slots:         make(map[string]entities.Quota),
		Services:      make(map[string]entities.Quota),
	}
	for _, bucketDB := range buckets {
		quota := entities.Quota{Limit: bucketDB.LimitUnits, Consumed: bucketDB.ConsumedUnits}
		switch bucketDB.BucketType {
		case bucketTypeSlot:
			entry.Slots[bucketDB.BucketKey] = quota
		case bucketTypeService:
			entry.Services[bucketDB.BucketKey] = quota
		}
	}
	return entry
}
