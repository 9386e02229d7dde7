package daily_rollover

import (
	"context"
	"errors"
	"time"

	"service/internal/repository/joblock"
	"service/internal/service/allocation"
	"service/pkg/logger"
)

const lockName = "daily_rollover"

type Service interface {
	RolloverDaily(ctx context.Context) (allocation.RolloverResult, error)
}

type JobLock interface {
	TryAcquire(ctx context.Context, jobName string) (func(), error)
}

// DailyRollover переключает леджер ёмкости на новые сутки. Сам сервис
// идемпотентен, лок лишь убирает бессмысленную конкуренцию экземпляров.
type DailyRollover struct {
	log      logger.Logger
	service  Service
	lock     JobLock
	interval time.Duration
}

func NewDailyRollover(log logger.Logger, service Service, lock JobLock, interval time.Duration) *DailyRollover {
	return &DailyRollover{
		log:      log,
		service:  service,
		lock:     lock,
		interval: interval,
	}
}

func (d *DailyRollover) TTL() time.Duration {
	return d.interval
}

// SkipWarmup отключает прогрев на старте: переключение суток гоняется
// только по тикеру, чтобы одновременный деплой экземпляров не
// устраивал гонку за лок на ровном месте.
func (d *DailyRollover) SkipWarmup() bool {
	return true
}

func (d *DailyRollover) Do(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, d.interval)
	defer cancel()

	release, err := d.lock.TryAcquire(ctxWithTimeout, lockName)
	if err != nil {
		if errors.Is(err, joblock.ErrLockHeld) {
			d.log.Warn("daily rollover cycle skipped, lock held elsewhere")
			return nil
		}
		return err
	}
	defer release()

	result, err := d.service.RolloverDaily(ctxWithTimeout)
	if err != nil {
		return err
	}

	if !result.Skipped {
		d.log.With(
			logger.NewField("archived", result.Archived),
			logger.NewField("provisioned", result.Provisioned),
		).Info("daily rollover")
	}

	return nil
}

func (d *DailyRollover) Info() string {
	return "daily rollover"
}
