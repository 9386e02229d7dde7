package snapshot

import (
	"context"
	"fmt"
	"sync/atomic"

	"service/pkg/logger"
)

type Loader interface {
	LoadSnapshot(ctx context.Context) (*Snapshot, error)
}

type holderLogger interface {
	Info(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
}

// Holder хранит текущий Snapshot и подменяет его атомарно по явному
// сигналу reload. Компоненты получают Holder через DI, глобального
// состояния нет.
type Holder struct {
	log     holderLogger
	loader  Loader
	current atomic.Pointer[Snapshot]
}

func NewHolder(ctx context.Context, log holderLogger, loader Loader) (*Holder, error) {
	holder := &Holder{
		log:    log,
		loader: loader,
	}
	if err := holder.Reload(ctx); err != nil {
		return nil, fmt.Errorf("initial snapshot load: %w", err)
	}
	return holder, nil
}

func (h *Holder) Current() *Snapshot {
	return h.current.Load()
}

func (h *Holder) Reload(ctx context.Context) error {
	loaded, err := h.loader.LoadSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	h.current.Store(loaded)
	h.log.Info("config snapshot reloaded",
		logger.NewField("time_slots", len(loaded.slots)),
		logger.NewField("count_ranges", len(loaded.countCosts)),
		logger.NewField("templates", len(loaded.templates)),
	)
	return nil
}
