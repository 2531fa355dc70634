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

const userCols = "user_id, username, role, email, password_encrypted, created_at, updated_at"

func userRows(t *testing.T) *sqlmock.Rows {
	t.Helper()
	now := time.Now()
	return sqlmock.NewRows([]string{"user_id", "username", "role", "email", "password_encrypted", "created_at", "updated_at"}).
		AddRow(1, "alice", "Admin", "alice@example.org", "ZW5jcnlwdGVk", now, now)
}

func TestUserRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users \(username, password_encrypted, role, email\)`).
		WithArgs("alice", "ZW5jcnlwdGVk", "Admin", "alice@example.org").
		WillReturnRows(userRows(t))

	repo := NewUserRepo(db)
	u, err := repo.Create(context.Background(), "alice", "ZW5jcnlwdGVk", "Admin", "alice@example.org")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID != 1 || u.Username != "alice" || u.Role != "Admin" {
		t.Errorf("unexpected user: %+v", u)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserRepo_GetByUsername_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT `+userCols+` FROM users WHERE username = \$1`).
		WithArgs("nobody").
		WillReturnError(sql.ErrNoRows)

	repo := NewUserRepo(db)
	_, err = repo.GetByUsername(context.Background(), "nobody")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("GetByUsername: got %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserRepo_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT ` + userCols + ` FROM users ORDER BY user_id`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "username", "role", "email", "password_encrypted", "created_at", "updated_at"}).
			AddRow(1, "alice", "Admin", "alice@example.org", "x", now, now).
			AddRow(2, "bob", "Leadership", "bob@example.org", "y", now, now))

	repo := NewUserRepo(db)
	users, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 2 || users[0].Username != "alice" || users[1].Role != "Leadership" {
		t.Errorf("unexpected list: %+v", users)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserRepo_SetRole_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE users SET role = \$1`).
		WithArgs("Leadership", "nobody").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewUserRepo(db)
	err = repo.SetRole(context.Background(), "nobody", "Leadership")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("SetRole: got %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserRepo_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM users WHERE username = \$1`).
		WithArgs("bob").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewUserRepo(db)
	if err := repo.Delete(context.Background(), "bob"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
