package handlers

import (
	"net/http"

	"github.com/crucial707/ems-inventory/internal/service"
)

// AlertsHandler serves the expired and low-stock inventory reports.
type AlertsHandler struct {
	Svc *service.AlertService
}

func (h *AlertsHandler) Expired(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	items, err := h.Svc.Expired(r.Context(), p)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, items)
}

func (h *AlertsHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	items, err := h.Svc.LowStock(r.Context(), p)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, items)
}
