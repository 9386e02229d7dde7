package offer_response

import (
	"context"

	"service/internal/entities"
	"service/internal/service/offer"
	"service/pkg/logger"
)

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type Service interface {
	HandleResponse(ctx context.Context, offerID string, outcome entities.OfferOutcome, responderWaID string) (offer.ResponseResult, error)
}
