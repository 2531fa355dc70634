package repo

import (
	"context"
	"database/sql"

	"github.com/crucial707/ems-inventory/internal/apperrors"
	"github.com/crucial707/ems-inventory/internal/models"
	"github.com/crucial707/ems-inventory/internal/validate"
)

const auditColumns = `log_id, username, updated_object, action_type, COALESCE(details, ''), action_timestamp`

// AuditRepo persists audit log entries. The table is append-only: no update
// or delete statement exists anywhere in this package.
type AuditRepo struct {
	DB *sql.DB
}

// NewAuditRepo returns a new AuditRepo.
func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{DB: db}
}

// Append records one audit entry with a server-assigned timestamp. The action
// type must be one of ADD, UPDATE, DELETE, LOGIN, LOGOUT, ACCESS and the
// updated object must be non-empty.
func (r *AuditRepo) Append(ctx context.Context, username, updatedObject, actionType, details string) error {
	if !models.ValidAction(actionType) {
		return apperrors.Invalid("action_type", "must be ADD, UPDATE, DELETE, LOGIN, LOGOUT, or ACCESS")
	}
	if !validate.NonEmptyString(updatedObject) {
		return apperrors.Invalid("updated_object", "must be a non-empty string")
	}
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO audit_log (username, updated_object, action_type, details) VALUES ($1, $2, $3, $4)`,
		username, updatedObject, actionType, details,
	)
	return err
}

// Recent returns up to limit entries, newest first.
func (r *AuditRepo) Recent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+auditColumns+` FROM audit_log ORDER BY action_timestamp DESC, log_id DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

// All returns every entry, newest first. Used by the export operation.
func (r *AuditRepo) All(ctx context.Context) ([]models.AuditEntry, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+auditColumns+` FROM audit_log ORDER BY action_timestamp DESC, log_id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

func collectEntries(rows *sql.Rows) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(&e.ID, &e.Username, &e.UpdatedObject, &e.ActionType, &e.Details, &e.Timestamp); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
