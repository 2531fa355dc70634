package service

import (
	"context"
	"fmt"
	"io"

	"github.com/crucial707/ems-inventory/internal/apperrors"
	"github.com/crucial707/ems-inventory/internal/authz"
	"github.com/crucial707/ems-inventory/internal/models"
	"github.com/crucial707/ems-inventory/internal/repo"
)

// AuditService exposes audit log reads and the append operation. Reads are
// Admin-only; Append is never gated so that any principal, including one that
// just failed authorization, can produce an entry about itself.
type AuditService struct {
	repo *repo.AuditRepo
	gate *authz.Gate
}

func NewAuditService(r *repo.AuditRepo, gate *authz.Gate) *AuditService {
	return &AuditService{repo: r, gate: gate}
}

// Append writes one immutable entry. Unlike the best-effort appends inside
// the mutation pipeline, a storage failure here propagates loudly — audit
// durability is the system's only compliance guarantee.
func (s *AuditService) Append(ctx context.Context, p *models.Principal, updatedObject, actionType, details string) error {
	if p == nil {
		return apperrors.ErrUnauthorized
	}
	return s.repo.Append(ctx, p.Username, updatedObject, actionType, details)
}

// Recent returns up to n entries, newest first. Admin only; n must be
// strictly positive.
func (s *AuditService) Recent(ctx context.Context, p *models.Principal, n int) ([]models.AuditEntry, error) {
	if err := s.gate.Require(ctx, p, "pull_audit_log", models.RoleAdmin); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, apperrors.Invalid("limit", "must be a positive integer")
	}
	return s.repo.Recent(ctx, n)
}

// Export writes every entry to w as pipe-delimited lines, newest first, and
// returns the number of lines written. Admin only. Write errors propagate.
func (s *AuditService) Export(ctx context.Context, p *models.Principal, w io.Writer) (int, error) {
	if err := s.gate.Require(ctx, p, "export_audit_log", models.RoleAdmin); err != nil {
		return 0, err
	}

	entries, err := s.repo.All(ctx)
	if err != nil {
		return 0, err
	}

	for i, e := range entries {
		if _, err := fmt.Fprintln(w, e.ExportLine()); err != nil {
			return i, fmt.Errorf("audit export write: %w", err)
		}
	}
	return len(entries), nil
}
