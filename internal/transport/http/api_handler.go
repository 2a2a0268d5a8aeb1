package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"mbti-quiz-service/internal/app"
	"mbti-quiz-service/internal/domain"

	"go.uber.org/zap"
)

// APIHandler exposes stored results and type descriptions as JSON.
type APIHandler struct {
	service *app.Service
	logger  *zap.Logger
}

func NewAPIHandler(service *app.Service, logger *zap.Logger) *APIHandler {
	return &APIHandler{service: service, logger: logger}
}

// Register mounts the JSON routes on mux.
func (h *APIHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /tiers", h.listTiers)
	mux.HandleFunc("GET /history", h.listHistory)
	mux.HandleFunc("DELETE /history", h.clearHistory)
	mux.HandleFunc("GET /history/{id}", h.report)
	mux.HandleFunc("GET /types/{label}", h.describe)
}

func (h *APIHandler) listTiers(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Tiers())
}

func (h *APIHandler) listHistory(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.History(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if results == nil {
		results = []domain.Result{}
	}
	h.writeJSON(w, http.StatusOK, results)
}

func (h *APIHandler) clearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearHistory(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) report(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Report(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

func (h *APIHandler) describe(w http.ResponseWriter, r *http.Request) {
	d, ok := h.service.Describe(r.PathValue("label"))
	if !ok {
		h.writeJSON(w, http.StatusNotFound, errorPayload{Message: "unknown type"})
		return
	}
	h.writeJSON(w, http.StatusOK, d)
}

func (h *APIHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUnknownTier):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrResultNotFound), errors.Is(err, domain.ErrCatalogNotFound):
		status = http.StatusNotFound
	default:
		h.logger.Error("request failed", zap.Error(err))
	}
	h.writeJSON(w, status, errorPayload{Message: err.Error()})
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Debug("response encode failed", zap.Error(err))
	}
}
