package handlers

import (
	"net/http"

	"github.com/campus-events/server/internal/domain/analytics"
)

type AnalyticsHandler struct {
	Analytics *analytics.Service
	Env       string
}

func NewAnalyticsHandler(service *analytics.Service, env string) *AnalyticsHandler {
	return &AnalyticsHandler{Analytics: service, Env: env}
}

func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Analytics.Summary(r.Context())
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
