package order_get

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"service/internal/service/matching"
	"service/pkg/logger"
)

type OrderStatusDTO struct {
	Status    string    `json:"status"`
	CreatedOn time.Time `json:"created_on"`
}

type OrderResponse struct {
	OrderID       string           `json:"order_id"`
	ParentOrderID *string          `json:"parent_order_id,omitempty"`
	ServiceIDs    []string         `json:"service_ids"`
	CountRange    string           `json:"count_range"`
	TimeSlot      string           `json:"time_slot"`
	PickupStart   time.Time        `json:"pickup_start"`
	PickupEnd     time.Time        `json:"pickup_end"`
	ProviderID    *int64           `json:"provider_id,omitempty"`
	AutoAllotted  bool             `json:"auto_allotted"`
	Status        string           `json:"status"`
	StatusHistory []OrderStatusDTO `json:"status_history"`
}

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
	orderID := mux.Vars(r)["id"]

	orderEntity, err := h.service.GetOrder(r.Context(), orderID)
	if err != nil {
		switch {
		case errors.Is(err, matching.ErrOrderNotFound):
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	history := make([]OrderStatusDTO, 0, len(orderEntity.StatusHistory))
	for _, status := range orderEntity.StatusHistory {
		history = append(history, OrderStatusDTO{
			Status:    status.Status.String(),
			CreatedOn: status.CreatedOn,
		})
	}

	response := OrderResponse{
		OrderID:       orderEntity.ID,
		ParentOrderID: orderEntity.ParentOrderID,
		ServiceIDs:    orderEntity.ServiceIDs,
		CountRange:    orderEntity.CountRange,
		TimeSlot:      orderEntity.TimeSlot,
		PickupStart:   orderEntity.PickupWindow.Start,
		PickupEnd:     orderEntity.PickupWindow.End,
		ProviderID:    orderEntity.ProviderID,
		AutoAllotted:  orderEntity.AutoAllotted,
		Status:        orderEntity.Status().String(),
		StatusHistory: history,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err = json.NewEncoder(w).Encode(response)
	if err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}
