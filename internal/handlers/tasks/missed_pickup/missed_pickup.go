package missed_pickup

import (
	"context"
	"errors"
	"time"

	"service/internal/repository/joblock"
	"service/pkg/logger"
)

const lockName = "missed_pickup"

type Service interface {
	ReassignMissed(ctx context.Context) (int, error)
}

type JobLock interface {
	TryAcquire(ctx context.Context, jobName string) (func(), error)
}

type MissedPickup struct {
	log      logger.Logger
	service  Service
	lock     JobLock
	interval time.Duration
}

func NewMissedPickup(log logger.Logger, service Service, lock JobLock, interval time.Duration) *MissedPickup {
	return &MissedPickup{
		log:      log,
		service:  service,
		lock:     lock,
		interval: interval,
	}
}

func (m *MissedPickup) TTL() time.Duration {
	return m.interval
}

func (m *MissedPickup) Do(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, m.interval)
	defer cancel()

	release, err := m.lock.TryAcquire(ctxWithTimeout, lockName)
	if err != nil {
		if errors.Is(err, joblock.ErrLockHeld) {
			m.log.Warn("missed pickup cycle skipped, lock held elsewhere")
			return nil
		}
		return err
	}
	defer release()

	reassigned, err := m.service.ReassignMissed(ctxWithTimeout)

	if reassigned > 0 {
		m.log.With(
			logger.NewField("orders", reassigned),
		).Info("missed pickup reassign")
	}

	return err
}

func (m *MissedPickup) Info() string {
	return "missed pickup reassign"
}
