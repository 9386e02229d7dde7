package order_offers_get

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"service/pkg/logger"
)

type OfferDTO struct {
	OfferID        string    `json:"offer_id"`
	DeliveryType   string    `json:"delivery_type,omitempty"`
	ProviderID     *int64    `json:"provider_id,omitempty"`
	RouteProviders []int64   `json:"route_providers,omitempty"`
	DistanceMeters float64   `json:"distance_meters"`
	Rank           int       `json:"rank"`
	TriggerTime    time.Time `json:"trigger_time"`
	IsPending      bool      `json:"is_pending"`
	TryCount       int       `json:"try_count"`
	Resolution     string    `json:"resolution,omitempty"`
}

type OrderOffersResponse struct {
	OrderID string     `json:"order_id"`
	Offers  []OfferDTO `json:"offers"`
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

	offers, err := h.service.ListByOrder(r.Context(), orderID)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	response := OrderOffersResponse{
		OrderID: orderID,
		Offers:  make([]OfferDTO, 0, len(offers)),
	}
	for i := range offers {
		offerEntity := &offers[i]
		response.Offers = append(response.Offers, OfferDTO{
			OfferID:        offerEntity.ID,
			DeliveryType:   offerEntity.DeliveryType.String(),
			ProviderID:     offerEntity.ProviderID,
			RouteProviders: offerEntity.RouteProviders,
			DistanceMeters: offerEntity.DistanceMeters,
			Rank:           offerEntity.Rank,
			TriggerTime:    offerEntity.TriggerTime,
			IsPending:      offerEntity.IsPending,
			TryCount:       offerEntity.TryCount,
			Resolution:     offerEntity.Resolution.String(),
		})
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
