package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/ems-inventory/internal/apperrors"
	"github.com/crucial707/ems-inventory/internal/models"
	"github.com/crucial707/ems-inventory/internal/repo"
)

func newGate(t *testing.T) (*Gate, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	return New(repo.NewAuditRepo(db)), mock, func() { db.Close() }
}

func TestGate_Require_Allowed(t *testing.T) {
	gate, mock, closeDB := newGate(t)
	defer closeDB()

	p := &models.Principal{Username: "alice", Role: models.RoleAdmin}
	if err := gate.Require(context.Background(), p, "delete_item", models.RoleAdmin, models.RoleLeadership); err != nil {
		t.Fatalf("Require: %v", err)
	}
	// An allowed principal produces no audit traffic.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestGate_Require_DeniedRoleIsAudited(t *testing.T) {
	gate, mock, closeDB := newGate(t)
	defer closeDB()

	mock.ExpectExec(`INSERT INTO audit_log \(username, updated_object, action_type, details\)`).
		WithArgs("carol", "delete_item", models.ActionAccess, "Unauthorized access by user").
		WillReturnResult(sqlmock.NewResult(1, 1))

	p := &models.Principal{Username: "carol", Role: models.RoleCommunity}
	err := gate.Require(context.Background(), p, "delete_item", models.RoleAdmin)
	if !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("Require: got %v, want ErrUnauthorized", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestGate_Require_NilPrincipal(t *testing.T) {
	gate, mock, closeDB := newGate(t)
	defer closeDB()

	// No identity to attribute: the denial must not touch the audit log.
	if err := gate.Require(context.Background(), nil, "delete_item", models.RoleAdmin); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("nil principal: got %v, want ErrUnauthorized", err)
	}
	p := &models.Principal{Username: "ghost", Role: "   "}
	if err := gate.Require(context.Background(), p, "delete_item", models.RoleAdmin); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("roleless principal: got %v, want ErrUnauthorized", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestGate_Require_AuditFailureStillDenies(t *testing.T) {
	gate, mock, closeDB := newGate(t)
	defer closeDB()

	mock.ExpectExec(`INSERT INTO audit_log`).
		WillReturnError(errors.New("disk full"))

	p := &models.Principal{Username: "carol", Role: models.RoleCommunity}
	err := gate.Require(context.Background(), p, "delete_item", models.RoleAdmin)
	if !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("Require: got %v, want ErrUnauthorized even when the audit write fails", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
