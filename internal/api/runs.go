package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/Rankboard/internal/dashboard"
	"github.com/MikeSquared-Agency/Rankboard/internal/scoring"
)

type RunsHandler struct {
	svc    *dashboard.Service
	logger *slog.Logger
}

func NewRunsHandler(svc *dashboard.Service, logger *slog.Logger) *RunsHandler {
	return &RunsHandler{svc: svc, logger: logger}
}

// ScoresResponse is the pivot table plus resolved column labels.
type ScoresResponse struct {
	scoring.PivotTable
	Headers []scoring.ColumnHeader `json:"headers"`
}

func (h *RunsHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := runID(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid run id")
		return
	}
	v, err := h.svc.View(r.Context(), id)
	if err != nil {
		writeUpstreamErr(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *RunsHandler) Scores(w http.ResponseWriter, r *http.Request) {
	id, ok := runID(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid run id")
		return
	}
	table, headers, err := h.svc.Scores(r.Context(), id)
	if err != nil {
		writeUpstreamErr(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ScoresResponse{PivotTable: table, Headers: headers})
}

func (h *RunsHandler) Ranking(w http.ResponseWriter, r *http.Request) {
	id, ok := runID(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid run id")
		return
	}
	var mode scoring.DuplicateMode
	if q := r.URL.Query().Get("duplicates"); q != "" {
		m, err := scoring.ParseDuplicateMode(q)
		if err != nil {
			writeErr(w, http.StatusBadRequest, err.Error())
			return
		}
		mode = m
	}
	ranking, err := h.svc.Ranking(r.Context(), id, mode)
	if err != nil {
		writeUpstreamErr(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ranking)
}

func (h *RunsHandler) Compute(w http.ResponseWriter, r *http.Request) {
	id, ok := runID(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid run id")
		return
	}
	v, err := h.svc.Compute(r.Context(), id, chi.URLParam(r, "method"))
	if err != nil {
		writeUpstreamErr(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *RunsHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	id, ok := runID(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid run id")
		return
	}
	v, err := h.svc.Finalize(r.Context(), id)
	if err != nil {
		writeUpstreamErr(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *RunsHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	id, ok := runID(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid run id")
		return
	}
	v, err := h.svc.Refresh(r.Context(), id)
	if err != nil {
		writeUpstreamErr(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *RunsHandler) Report(w http.ResponseWriter, r *http.Request) {
	id, ok := runID(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid run id")
		return
	}
	period := r.URL.Query().Get("period")
	if period == "" {
		writeErr(w, http.StatusBadRequest, "period is required")
		return
	}
	entries, err := h.svc.Report(r.Context(), id, period)
	if err != nil {
		writeUpstreamErr(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *RunsHandler) Methods(w http.ResponseWriter, r *http.Request) {
	methods, err := h.svc.Methods(r.Context())
	if err != nil {
		writeUpstreamErr(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, methods)
}

func (h *RunsHandler) Timings(w http.ResponseWriter, r *http.Request) {
	id, ok := runID(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid run id")
		return
	}
	timings, err := h.svc.Timings(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to list timings", "run_id", id, "error", err)
		writeErr(w, http.StatusInternalServerError, "failed to list timings")
		return
	}
	writeJSON(w, http.StatusOK, timings)
}
