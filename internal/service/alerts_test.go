package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/ems-inventory/internal/apperrors"
	"github.com/crucial707/ems-inventory/internal/authz"
	"github.com/crucial707/ems-inventory/internal/models"
	"github.com/crucial707/ems-inventory/internal/repo"
)

func newAlertService(t *testing.T) (*AlertService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	auditRepo := repo.NewAuditRepo(db)
	return NewAlertService(repo.NewInventoryRepo(db), authz.New(auditRepo)), mock, func() { db.Close() }
}

func TestAlertService_Expired(t *testing.T) {
	svc, mock, closeDB := newAlertService(t)
	defer closeDB()

	past := time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT item_name, quantity, expiration_date`).
		WillReturnRows(sqlmock.NewRows([]string{"item_name", "quantity", "expiration_date"}).
			AddRow("Epinephrine", 6, past))

	items, err := svc.Expired(context.Background(), responder)
	if err != nil {
		t.Fatalf("Expired: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Epinephrine" {
		t.Errorf("unexpected items: %+v", items)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAlertService_LowStock_CommunityDenied(t *testing.T) {
	svc, mock, closeDB := newAlertService(t)
	defer closeDB()

	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs("carol", "search_for_low_quantity", models.ActionAccess, "Unauthorized access by user").
		WillReturnResult(sqlmock.NewResult(1, 1))

	if _, err := svc.LowStock(context.Background(), community); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("LowStock as Community Member: got %v, want ErrUnauthorized", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
