package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/Rankboard/internal/backend"
	"github.com/MikeSquared-Agency/Rankboard/internal/dashboard"
)

// writeJSON encodes v before writing the header so an encoding failure can
// still be reported as a 500.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
		buf.Reset()
		buf.WriteString(`{"error":"failed to encode response"}` + "\n")
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusClientClosedRequest is the non-standard status nginx logs for a
// client that went away before the response was ready.
const statusClientClosedRequest = 499

// writeUpstreamErr maps service errors onto HTTP statuses. Upstream auth
// failures keep their status so the caller can re-authenticate; any other
// upstream failure is a bad gateway.
func writeUpstreamErr(w http.ResponseWriter, logger *slog.Logger, err error) {
	var se *backend.StatusError
	switch {
	case errors.Is(err, context.Canceled):
		logger.Debug("request cancelled by client", "error", err)
		writeErr(w, statusClientClosedRequest, "request cancelled")
	case errors.Is(err, dashboard.ErrUnknownMethod):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, dashboard.ErrComputeLocked):
		writeErr(w, http.StatusConflict, err.Error())
	case errors.As(err, &se) && (se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden):
		writeErr(w, se.Code, http.StatusText(se.Code))
	case errors.As(err, &se) && se.Code == http.StatusNotFound:
		writeErr(w, http.StatusNotFound, "not found upstream")
	default:
		logger.Error("upstream request failed", "error", err)
		writeErr(w, http.StatusBadGateway, "backend unavailable")
	}
}

func runID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
