package repo

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/ems-inventory/internal/apperrors"
)

func TestInventoryRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO inventory \(item_name, category, description, quantity, expiration_date, min_threshold\)`).
		WithArgs("Tourniquet", "Trauma", "CAT gen 7", 25, sqlmock.AnyArg(), 10).
		WillReturnRows(sqlmock.NewRows([]string{"item_id", "item_name", "category", "description", "quantity", "expiration_date", "min_threshold", "last_updated"}).
			AddRow(1, "Tourniquet", "Trauma", "CAT gen 7", 25, nil, 10, now))

	repo := NewInventoryRepo(db)
	item, err := repo.Create(context.Background(), "Tourniquet", "Trauma", "CAT gen 7", 25, nil, 10)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if item.ID != 1 || item.Name != "Tourniquet" || item.Quantity != 25 || item.ExpirationDate != nil {
		t.Errorf("unexpected item: %+v", item)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestInventoryRepo_GetByName(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	exp := time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT item_id, item_name, category, description, quantity, expiration_date, min_threshold, last_updated FROM inventory WHERE item_name = \$1`).
		WithArgs("Saline").
		WillReturnRows(sqlmock.NewRows([]string{"item_id", "item_name", "category", "description", "quantity", "expiration_date", "min_threshold", "last_updated"}).
			AddRow(3, "Saline", "IV Fluids", "", 40, exp, 0, time.Now()))

	repo := NewInventoryRepo(db)
	item, err := repo.GetByName(context.Background(), "Saline")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if item.Name != "Saline" || item.ExpirationDate == nil || !item.ExpirationDate.Equal(exp) {
		t.Errorf("unexpected item: %+v", item)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestInventoryRepo_GetByName_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM inventory WHERE item_name = \$1`).
		WithArgs("Ghost Item").
		WillReturnError(sql.ErrNoRows)

	repo := NewInventoryRepo(db)
	_, err = repo.GetByName(context.Background(), "Ghost Item")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("GetByName: got %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestInventoryRepo_AdjustQuantity(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE inventory`).
		WithArgs(-5, "Gauze").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewInventoryRepo(db)
	rows, err := repo.AdjustQuantity(context.Background(), "Gauze", -5)
	if err != nil {
		t.Fatalf("AdjustQuantity: %v", err)
	}
	if rows != 1 {
		t.Errorf("rows affected: got %d, want 1", rows)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestInventoryRepo_AdjustQuantity_GuardMiss(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	// The WHERE guard rejects a decrease that would cross zero: zero rows match.
	mock.ExpectExec(`UPDATE inventory`).
		WithArgs(-50, "Gauze").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewInventoryRepo(db)
	rows, err := repo.AdjustQuantity(context.Background(), "Gauze", -50)
	if err != nil {
		t.Fatalf("AdjustQuantity: %v", err)
	}
	if rows != 0 {
		t.Errorf("rows affected: got %d, want 0", rows)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestInventoryRepo_SetQuantity_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE inventory SET quantity = \$1`).
		WithArgs(12, "Ghost Item").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewInventoryRepo(db)
	err = repo.SetQuantity(context.Background(), "Ghost Item", 12)
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("SetQuantity: got %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestInventoryRepo_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM inventory WHERE item_name = \$1`).
		WithArgs("Tourniquet").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewInventoryRepo(db)
	if err := repo.Delete(context.Background(), "Tourniquet"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestInventoryRepo_ExistsByNameCategory(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM inventory WHERE item_name = \$1 AND category = \$2`).
		WithArgs("Gauze", "Trauma").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	repo := NewInventoryRepo(db)
	exists, err := repo.ExistsByNameCategory(context.Background(), "Gauze", "Trauma")
	if err != nil {
		t.Fatalf("ExistsByNameCategory: %v", err)
	}
	if !exists {
		t.Error("expected exists = true")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestInventoryRepo_ExpiredAndLowStock(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	past := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT item_name, quantity, expiration_date`).
		WillReturnRows(sqlmock.NewRows([]string{"item_name", "quantity", "expiration_date"}).
			AddRow("Epinephrine", 6, past))
	mock.ExpectQuery(`SELECT item_name, quantity, min_threshold`).
		WillReturnRows(sqlmock.NewRows([]string{"item_name", "quantity", "min_threshold"}).
			AddRow("Gauze", 2, 10))

	repo := NewInventoryRepo(db)

	expired, err := repo.Expired(context.Background())
	if err != nil {
		t.Fatalf("Expired: %v", err)
	}
	if len(expired) != 1 || expired[0].Name != "Epinephrine" {
		t.Errorf("unexpected expired: %+v", expired)
	}

	low, err := repo.LowStock(context.Background())
	if err != nil {
		t.Fatalf("LowStock: %v", err)
	}
	if len(low) != 1 || low[0].Name != "Gauze" || low[0].MinThreshold != 10 {
		t.Errorf("unexpected low stock: %+v", low)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
