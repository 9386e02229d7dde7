package offer_response

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/IBM/sarama"
	"service/internal/entities"
	offerservice "service/internal/service/offer"
	"service/pkg/logger"
)

type responseEvent struct {
	OfferID     string `json:"offer_id"`
	Outcome     string `json:"outcome"`
	ResponderID string `json:"responder_wa_id"`
}

type Handler struct {
	offerService             Service
	log                      handlerLogger
	messageProcessingTimeout time.Duration
}

func New(log handlerLogger, offerService Service, timeout time.Duration) *Handler {
	handlerLog := log.With()

	return &Handler{
		offerService:             offerService,
		log:                      handlerLog,
		messageProcessingTimeout: timeout,
	}
}

func (h *Handler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *Handler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *Handler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				h.log.Info("offer.response: claim.Messages() closed, exiting ConsumeClaim")
				return nil
			}

			shouldExit := h.messageProcessing(sess, message)
			if shouldExit {
				return nil
			}

		case <-sess.Context().Done():
			h.log.Info("offer.response: session context done, exiting ConsumeClaim")
			return nil
		}
	}
}

// messageProcessing обрабатывает один ответ провайдера.
// Возвращает true, если нужно прервать ConsumeClaim (при отмене контекста).
func (h *Handler) messageProcessing(sess sarama.ConsumerGroupSession, message *sarama.ConsumerMessage) bool {
	ctx, cancel := context.WithTimeout(sess.Context(), h.messageProcessingTimeout)
	defer cancel()

	var event responseEvent
	err := json.Unmarshal(message.Value, &event)
	if err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("offer.response handler received bad message")
		sess.MarkMessage(message, "")
		return false
	}

	msgLog := h.log.With(
		logger.NewField("offer", event.OfferID),
		logger.NewField("outcome", event.Outcome),
		logger.NewField("offset", message.Offset),
	)

	msgLog.Info("offer.response processing")

	result, err := h.offerService.HandleResponse(ctx, event.OfferID, entities.OfferOutcome(event.Outcome), event.ResponderID)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			msgLog.With(
				logger.NewField("error", err),
			).Warn("offer.response handler context cancelled, message will be reprocessed")
			return true

		case errors.Is(err, offerservice.ErrOfferNotFound):
			msgLog.With(
				logger.NewField("error", err),
			).Warn("offer.response handler offer not found")

		case errors.Is(err, offerservice.ErrOfferAlreadyResolved):
			msgLog.Warn("offer.response handler duplicate response, offer already resolved")

		case errors.Is(err, offerservice.ErrUnknownOutcome):
			msgLog.With(
				logger.NewField("error", err),
			).Warn("offer.response handler unknown outcome")

		default:
			msgLog.With(
				logger.NewField("error", err),
			).Warn("offer.response handler failed to process response")
		}
		sess.MarkMessage(message, "")
		return false
	}

	msgLog.With(
		logger.NewField("order", result.OrderID),
		logger.NewField("resolution", result.Resolution.String()),
	).Info("offer.response: processed")

	sess.MarkMessage(message, "")
	return false
}
