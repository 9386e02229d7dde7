package config_reload_post

import (
	"net/http"

	"service/pkg/logger"
)

type Handler struct {
	log      handlerLogger
	reloader Reloader
}

func New(log handlerLogger, reloader Reloader) *Handler {
	handlerLog := log.With()

	return &Handler{
		log:      handlerLog,
		reloader: reloader,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	err := h.reloader.Reload(r.Context())
	if err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("config snapshot reload failed")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
