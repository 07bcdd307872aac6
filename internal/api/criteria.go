package api

import (
	"log/slog"
	"net/http"

	"github.com/MikeSquared-Agency/Rankboard/internal/dashboard"
)

type CriteriaHandler struct {
	svc    *dashboard.Service
	logger *slog.Logger
}

func NewCriteriaHandler(svc *dashboard.Service, logger *slog.Logger) *CriteriaHandler {
	return &CriteriaHandler{svc: svc, logger: logger}
}

func (h *CriteriaHandler) Scores(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.CriteriaScores(r.Context())
	if err != nil {
		writeUpstreamErr(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *CriteriaHandler) Compute(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.ComputeCriteriaScores(r.Context())
	if err != nil {
		writeUpstreamErr(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *CriteriaHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.RecomputeCriteriaScores(r.Context())
	if err != nil {
		writeUpstreamErr(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
