package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/crucial707/ems-inventory/internal/service"
)

// AuditHandler serves audit log endpoints.
type AuditHandler struct {
	Svc *service.AuditService
}

// ListAudit returns recent audit log entries, newest first. Query: limit (default 50, max 200).
func (h *AuditHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 && val <= 200 {
			limit = val
		}
	}

	entries, err := h.Svc.Recent(r.Context(), p, limit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, entries)
}

// ExportAudit streams the full audit log as plain text, one pipe-delimited
// line per entry, newest first.
func (h *AuditHandler) ExportAudit(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if _, err := h.Svc.Export(r.Context(), p, &buf); err != nil {
		WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="audit_log_export.txt"`)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("audit export write failed", "error", err)
	}
}
