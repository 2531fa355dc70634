package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/ems-inventory/internal/authz"
	"github.com/crucial707/ems-inventory/internal/crypto"
	"github.com/crucial707/ems-inventory/internal/models"
	"github.com/crucial707/ems-inventory/internal/repo"
	"github.com/crucial707/ems-inventory/internal/service"
	"github.com/crucial707/ems-inventory/internal/validate"
)

func newUserHandler(t *testing.T) (*UserHandler, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	cipher, err := crypto.New("unit-test-secret")
	if err != nil {
		t.Fatalf("crypto.New: %v", err)
	}
	auditRepo := repo.NewAuditRepo(db)
	roles := validate.NewRoles([]string{models.RoleAdmin, models.RoleLeadership, models.RoleResponder})
	svc := service.NewUserService(repo.NewUserRepo(db), auditRepo, authz.New(auditRepo), cipher, roles)
	return &UserHandler{Svc: svc}, mock, func() { db.Close() }
}

func TestUserHandler_CreateUser(t *testing.T) {
	h, mock, closeDB := newUserHandler(t)
	defer closeDB()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WithArgs("dana").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("dana", sqlmock.AnyArg(), models.RoleResponder, "dana@example.org").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "username", "role", "email", "password_encrypted", "created_at", "updated_at"}).
			AddRow(4, "dana", models.RoleResponder, "dana@example.org", "enc", time.Now(), time.Now()))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	body, _ := json.Marshal(map[string]string{
		"username": "dana", "password": "pass123", "role": models.RoleResponder, "email": "dana@example.org",
	})
	req := requestWithChiURLParams("POST", "/users/", body, adminPrincipal, nil)
	rr := httptest.NewRecorder()
	h.CreateUser(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("CreateUser status: got %d, want 200 (body: %s)", rr.Code, rr.Body.String())
	}
	var u struct {
		Username string `json:"username"`
		Role     string `json:"role"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&u); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if u.Username != "dana" || u.Role != models.RoleResponder {
		t.Errorf("unexpected user: %+v", u)
	}
	if u.Password != "" {
		t.Error("password material must never appear in responses")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserHandler_CreateUser_Duplicate(t *testing.T) {
	h, mock, closeDB := newUserHandler(t)
	defer closeDB()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WithArgs("dana").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	body, _ := json.Marshal(map[string]string{
		"username": "dana", "password": "pass123", "role": models.RoleResponder, "email": "dana@example.org",
	})
	req := requestWithChiURLParams("POST", "/users/", body, adminPrincipal, nil)
	rr := httptest.NewRecorder()
	h.CreateUser(rr, req)

	if rr.Code != http.StatusConflict {
		t.Errorf("CreateUser status: got %d, want 409", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserHandler_ChangeRole(t *testing.T) {
	h, mock, closeDB := newUserHandler(t)
	defer closeDB()

	mock.ExpectExec(`UPDATE users SET role = \$1`).
		WithArgs(models.RoleLeadership, "dana").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	body, _ := json.Marshal(map[string]string{"role": models.RoleLeadership})
	req := requestWithChiURLParams("PUT", "/users/dana/role", body, adminPrincipal, map[string]string{"username": "dana"})
	rr := httptest.NewRecorder()
	h.ChangeRole(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("ChangeRole status: got %d, want 204 (body: %s)", rr.Code, rr.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserHandler_DeleteUser_NotFound(t *testing.T) {
	h, mock, closeDB := newUserHandler(t)
	defer closeDB()

	mock.ExpectExec(`DELETE FROM users WHERE username = \$1`).
		WithArgs("nobody").
		WillReturnResult(sqlmock.NewResult(0, 0))

	req := requestWithChiURLParams("DELETE", "/users/nobody", nil, adminPrincipal, map[string]string{"username": "nobody"})
	rr := httptest.NewRecorder()
	h.DeleteUser(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("DeleteUser status: got %d, want 404", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserHandler_ListUsers_Forbidden(t *testing.T) {
	h, mock, closeDB := newUserHandler(t)
	defer closeDB()

	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs("bob", "show_all_users", models.ActionAccess, "Unauthorized access by user").
		WillReturnResult(sqlmock.NewResult(1, 1))

	req := requestWithChiURLParams("GET", "/users/", nil, leaderPrincipal, nil)
	rr := httptest.NewRecorder()
	h.ListUsers(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("ListUsers status: got %d, want 403", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
