package order_submit_post

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"service/internal/entities"
	"service/internal/service/matching"
	"service/pkg/logger"
)

const pickupDateLayout = "2006-01-02"

type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	handlerLog := log.With()

	return &Handler{
		log:     handlerLog,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var orderSubmitDTO OrderSubmitRequest
	err := json.NewDecoder(r.Body).Decode(&orderSubmitDTO)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	pickupDate, err := time.Parse(pickupDateLayout, orderSubmitDTO.PickupDate)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	intake := matching.OrderIntake{
		CustomerID:   orderSubmitDTO.CustomerID,
		CustomerWaID: orderSubmitDTO.CustomerWaID,
		ServiceIDs:   orderSubmitDTO.ServiceIDs,
		CountRange:   orderSubmitDTO.CountRange,
		Location: entities.GeoPoint{
			Latitude:  orderSubmitDTO.Latitude,
			Longitude: orderSubmitDTO.Longitude,
		},
		TimeSlot:   orderSubmitDTO.TimeSlot,
		PickupDate: pickupDate,
	}

	orderEntity, err := h.service.SubmitOrder(r.Context(), intake)
	if err != nil {
		switch {
		case errors.Is(err, matching.ErrOrderNotMatchable),
			errors.Is(err, matching.ErrUnknownTimeSlot),
			errors.Is(err, matching.ErrUnknownCountRange):
			w.WriteHeader(http.StatusBadRequest)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	response := OrderSubmitResponse{
		OrderID:     orderEntity.ID,
		Status:      orderEntity.Status().String(),
		TimeSlot:    orderEntity.TimeSlot,
		PickupStart: orderEntity.PickupWindow.Start,
		PickupEnd:   orderEntity.PickupWindow.End,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	err = json.NewEncoder(w).Encode(response)
	if err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}
