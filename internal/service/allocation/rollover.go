package allocation

import (
	"context"
	"fmt"
	"time"

	"service/internal/entities"
)

// RolloverResult - итог суточного переключения леджера.
type RolloverResult struct {
	Archived    int64
	Provisioned int64
	Skipped     bool
}

// RolloverDaily архивирует истёкшие записи леджера и создаёт записи на
// завтра из лимитов активных провайдеров. Повторный запуск за ту же дату
// ничего не делает: маркер сброса вставляется первым и атомарно.
func (a *Allocation) RolloverDaily(ctx context.Context) (RolloverResult, error) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	result := RolloverResult{}
	err := a.txManager.Do(ctx, func(ctx context.Context) error {
		// маркер сброса вставляется в той же транзакции: при откате
		// переключение останется невыполненным и повторится следующим циклом
		acquired, err := a.ledgerRepository.MarkResetDone(ctx, today)
		if err != nil {
			return fmt.Errorf("mark reset done: %w", err)
		}
		if !acquired {
			result.Skipped = true
			return nil
		}

		archived, err := a.ledgerRepository.ArchiveElapsed(ctx, today)
		if err != nil {
			return fmt.Errorf("archive elapsed entries: %w", err)
		}
		result.Archived = archived

		providers, err := a.providerRepository.ListActive(ctx)
		if err != nil {
			return fmt.Errorf("list active providers: %w", err)
		}

		tomorrow := today.Add(24 * time.Hour)
		entries := make([]entities.LedgerEntry, 0, len(providers))
		for _, provider := range providers {
			entries = append(entries, seedLedgerEntry(provider, tomorrow))
		}

		provisioned, err := a.ledgerRepository.InsertEntries(ctx, entries)
		if err != nil {
			return fmt.Errorf("provision ledger entries: %w", err)
		}
		result.Provisioned = provisioned
		return nil
	})
	if err != nil {
		return RolloverResult{}, err
	}
	return result, nil
}

func seedLedgerEntry(provider entities.Provider, operationDate time.Time) entities.LedgerEntry {
	slots := make(map[string]entities.Quota, len(provider.SlotLimits))
	for key, limit := range provider.SlotLimits {
		slots[key] = entities.Quota{Limit: limit}
	}
	services := make(map[string]entities.Quota, len(provider.ServiceLimits))
	for key, limit := range provider.ServiceLimits {
		services[key] = entities.Quota{Limit: limit}
	}
	return entities.LedgerEntry{
		ProviderID:    provider.ID,
		OperationDate: operationDate,
		DailyLimit:    provider.DailyLimit,
		Slots:         slots,
		Services:      services,
	}
}
