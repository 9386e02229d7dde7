package order_intake

import (
	"context"
	"errors"
	"time"

	"service/internal/repository/joblock"
	"service/pkg/logger"
)

const lockName = "order_intake"

type Service interface {
	ProcessDueIntake(ctx context.Context) (int, error)
}

type JobLock interface {
	TryAcquire(ctx context.Context, jobName string) (func(), error)
}

// OrderIntake забирает дозревшие заказы и запускает подбор провайдера.
// Лок гарантирует один активный цикл на все экземпляры сервиса.
type OrderIntake struct {
	log      logger.Logger
	service  Service
	lock     JobLock
	interval time.Duration
}

func NewOrderIntake(log logger.Logger, service Service, lock JobLock, interval time.Duration) *OrderIntake {
	return &OrderIntake{
		log:      log,
		service:  service,
		lock:     lock,
		interval: interval,
	}
}

func (o *OrderIntake) TTL() time.Duration {
	return o.interval
}

func (o *OrderIntake) Do(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, o.interval)
	defer cancel()

	release, err := o.lock.TryAcquire(ctxWithTimeout, lockName)
	if err != nil {
		if errors.Is(err, joblock.ErrLockHeld) {
			o.log.Warn("order intake cycle skipped, lock held elsewhere")
			return nil
		}
		return err
	}
	defer release()

	processed, err := o.service.ProcessDueIntake(ctxWithTimeout)

	if processed > 0 {
		o.log.With(
			logger.NewField("orders", processed),
		).Info("order intake")
	}

	return err
}

func (o *OrderIntake) Info() string {
	return "order intake"
}
