package order_split_post

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"service/internal/service/matching"
	"service/pkg/logger"
)

type ChildOrderDTO struct {
	OrderID   string `json:"order_id"`
	ServiceID string `json:"service_id"`
}

type OrderSplitResponse struct {
	ParentOrderID string          `json:"parent_order_id"`
	Children      []ChildOrderDTO `json:"children"`
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

	split, err := h.service.SplitByService(r.Context(), orderID)
	if err != nil {
		switch {
		case errors.Is(err, matching.ErrOrderNotFound):
			w.WriteHeader(http.StatusNotFound)
		case errors.Is(err, matching.ErrNothingToSplit):
			w.WriteHeader(http.StatusConflict)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	response := OrderSplitResponse{
		ParentOrderID: split.ParentOrderID,
		Children:      make([]ChildOrderDTO, 0, len(split.Children)),
	}
	for i := range split.Children {
		child := &split.Children[i]
		response.Children = append(response.Children, ChildOrderDTO{
			OrderID:   child.ID,
			ServiceID: child.ServiceIDs[0],
		})
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
