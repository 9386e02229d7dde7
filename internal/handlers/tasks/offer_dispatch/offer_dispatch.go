package offer_dispatch

import (
	"context"
	"errors"
	"time"

	"service/internal/repository/joblock"
	"service/internal/service/offer"
	"service/pkg/logger"
)

const lockName = "offer_dispatch"

type Service interface {
	DispatchDueOffers(ctx context.Context) (offer.DispatchResult, error)
}

type JobLock interface {
	TryAcquire(ctx context.Context, jobName string) (func(), error)
}

type OfferDispatch struct {
	log      logger.Logger
	service  Service
	lock     JobLock
	interval time.Duration
}

func NewOfferDispatch(log logger.Logger, service Service, lock JobLock, interval time.Duration) *OfferDispatch {
	return &OfferDispatch{
		log:      log,
		service:  service,
		lock:     lock,
		interval: interval,
	}
}

func (o *OfferDispatch) TTL() time.Duration {
	return o.interval
}

func (o *OfferDispatch) Do(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, o.interval)
	defer cancel()

	release, err := o.lock.TryAcquire(ctxWithTimeout, lockName)
	if err != nil {
		if errors.Is(err, joblock.ErrLockHeld) {
			o.log.Warn("offer dispatch cycle skipped, lock held elsewhere")
			return nil
		}
		return err
	}
	defer release()

	result, err := o.service.DispatchDueOffers(ctxWithTimeout)

	if result.Sent > 0 || result.Failed > 0 {
		o.log.With(
			logger.NewField("sent", result.Sent),
			logger.NewField("failed", result.Failed),
		).Info("offer dispatch")
	}

	return err
}

func (o *OfferDispatch) Info() string {
	return "offer dispatch"
}
