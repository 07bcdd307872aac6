package api

import (
	"net/http"

	"github.com/MikeSquared-Agency/Rankboard/internal/dashboard"
)

type AdminHandler struct {
	svc *dashboard.Service
}

func NewAdminHandler(svc *dashboard.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// FlushCache drops every cached view on this instance.
func (h *AdminHandler) FlushCache(w http.ResponseWriter, r *http.Request) {
	h.svc.InvalidateAll()
	writeJSON(w, http.StatusOK, map[string]string{"status": "flushed", "origin": h.svc.Origin()})
}

func (h *AdminHandler) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"origin":     h.svc.Origin(),
		"duplicates": string(h.svc.DuplicateMode()),
	})
}
