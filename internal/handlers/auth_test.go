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
	"github.com/golang-jwt/jwt/v5"
)

func newAuthHandler(t *testing.T) (*AuthHandler, *crypto.Cipher, sqlmock.Sqlmock, func()) {
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
	roles := validate.NewRoles([]string{models.RoleAdmin, models.RoleLeadership})
	users := service.NewUserService(repo.NewUserRepo(db), auditRepo, authz.New(auditRepo), cipher, roles)
	h := &AuthHandler{Users: users, Secret: []byte("jwt-test-secret"), ExpireHours: 1}
	return h, cipher, mock, func() { db.Close() }
}

func storedUser(t *testing.T, cipher *crypto.Cipher, password string) *sqlmock.Rows {
	t.Helper()
	enc, err := cipher.Encrypt(password)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	now := time.Now()
	return sqlmock.NewRows([]string{"user_id", "username", "role", "email", "password_encrypted", "created_at", "updated_at"}).
		AddRow(1, "alice", models.RoleAdmin, "alice@example.org", enc, now, now)
}

func TestAuthHandler_Login(t *testing.T) {
	h, cipher, mock, closeDB := newAuthHandler(t)
	defer closeDB()

	mock.ExpectQuery(`SELECT .* FROM users WHERE username = \$1`).
		WithArgs("alice").
		WillReturnRows(storedUser(t, cipher, "hunter2"))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs("alice", "alice", models.ActionLogin, "Logged in").
		WillReturnResult(sqlmock.NewResult(1, 1))

	body, _ := json.Marshal(map[string]string{"username": "alice", "password": "hunter2"})
	req := requestWithChiURLParams("POST", "/auth/login", body, nil, nil)
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Login status: got %d, want 200 (body: %s)", rr.Code, rr.Body.String())
	}
	var out struct {
		Token string `json:"token"`
		User  struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Token == "" || out.User.Username != "alice" || out.User.Role != models.RoleAdmin {
		t.Errorf("unexpected response: %+v", out)
	}

	// The token must carry the principal's claims under the configured secret.
	tok, err := jwt.Parse(out.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("jwt-test-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !tok.Valid {
		t.Fatalf("parse issued token: %v", err)
	}
	claims := tok.Claims.(jwt.MapClaims)
	if claims["username"] != "alice" || claims["role"] != models.RoleAdmin {
		t.Errorf("unexpected claims: %+v", claims)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	h, cipher, mock, closeDB := newAuthHandler(t)
	defer closeDB()

	mock.ExpectQuery(`SELECT .* FROM users WHERE username = \$1`).
		WithArgs("alice").
		WillReturnRows(storedUser(t, cipher, "hunter2"))

	body, _ := json.Marshal(map[string]string{"username": "alice", "password": "wrong"})
	req := requestWithChiURLParams("POST", "/auth/login", body, nil, nil)
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Login status: got %d, want 401", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	h, _, mock, closeDB := newAuthHandler(t)
	defer closeDB()

	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs("alice", "alice", models.ActionLogout, "Logged out").
		WillReturnResult(sqlmock.NewResult(1, 1))

	req := requestWithChiURLParams("POST", "/auth/logout", nil, adminPrincipal, nil)
	rr := httptest.NewRecorder()
	h.Logout(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("Logout status: got %d, want 204", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Logout_NoPrincipal(t *testing.T) {
	h, _, mock, closeDB := newAuthHandler(t)
	defer closeDB()

	req := requestWithChiURLParams("POST", "/auth/logout", nil, nil, nil)
	rr := httptest.NewRecorder()
	h.Logout(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Logout status: got %d, want 401", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
