// Package authz implements the single role gate wrapped around every exposed
// operation that takes a session principal.
package authz

import (
	"context"
	"log/slog"
	"strings"

	"github.com/crucial707/ems-inventory/internal/apperrors"
	"github.com/crucial707/ems-inventory/internal/metrics"
	"github.com/crucial707/ems-inventory/internal/models"
	"github.com/crucial707/ems-inventory/internal/repo"
)

// Gate checks a principal's role against an operation's allow-list and records
// rejected attempts to the audit log.
type Gate struct {
	audit *repo.AuditRepo
}

func New(audit *repo.AuditRepo) *Gate {
	return &Gate{audit: audit}
}

// Require fails closed. A nil principal or one without a role is rejected
// before any domain logic runs and produces no audit entry — there is no
// identity to attribute the attempt to. A principal whose role is not in
// allowed gets one ACCESS audit entry naming the operation, then the
// authorization error.
//
// Require must run strictly before input validation and storage mutation so
// an unauthorized caller can neither cause a partial mutation nor learn
// schema details from validation messages.
func (g *Gate) Require(ctx context.Context, p *models.Principal, operation string, allowed ...string) error {
	if p == nil || strings.TrimSpace(p.Role) == "" {
		return apperrors.ErrUnauthorized
	}

	for _, role := range allowed {
		if p.Role == role {
			return nil
		}
	}

	metrics.AccessDenied.WithLabelValues(operation).Inc()
	if err := g.audit.Append(ctx, p.Username, operation, models.ActionAccess, "Unauthorized access by user"); err != nil {
		// The caller must still see the authorization error; the lost ACCESS
		// entry is logged here instead.
		slog.Error("failed to record denied access",
			"user", p.Username,
			"operation", operation,
			"error", err)
	}
	return apperrors.ErrUnauthorized
}
