package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/crucial707/ems-inventory/internal/middleware"
	"github.com/crucial707/ems-inventory/internal/service"
	"github.com/golang-jwt/jwt/v5"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Users       *service.UserService
	Secret      []byte
	ExpireHours int
}

// Login authenticates a username/password pair and issues a JWT carrying the
// session principal. All credential failures surface as the same 401.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	principal, err := h.Users.Login(r.Context(), input.Username, input.Password)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	expire := h.ExpireHours
	if expire <= 0 {
		expire = 24
	}
	claims := jwt.MapClaims{
		"username": principal.Username,
		"role":     principal.Role,
		"email":    principal.Email,
		"exp":      time.Now().Add(time.Duration(expire) * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.Secret)
	if err != nil {
		JSONError(w, "failed to issue token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{
		"token": signed,
		"user":  principal,
	})
}

// Logout records a LOGOUT audit entry for the calling principal. The token
// itself simply expires; there is no server-side session to tear down.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		JSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if err := h.Users.Logout(r.Context(), p); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
