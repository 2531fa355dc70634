package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/crucial707/ems-inventory/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// ==========================
// UserHandler
// ==========================
type UserHandler struct {
	Svc *service.UserService
}

// ==========================
// Create User (Admin)
// ==========================
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var input struct {
		Username string `json:"username" validate:"required,max=50"`
		Password string `json:"password" validate:"required"`
		Role     string `json:"role" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		JSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.Svc.Add(r.Context(), p, input.Username, input.Password, input.Role, input.Email)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	writeJSON(w, user)
}

// ==========================
// List Users (Admin)
// ==========================
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	users, err := h.Svc.List(r.Context(), p)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, users)
}

// ==========================
// Get User (Admin)
// ==========================
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	user, err := h.Svc.View(r.Context(), p, chi.URLParam(r, "username"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, user)
}

// ==========================
// Change Role (Admin)
// ==========================
func (h *UserHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var input struct {
		Role string `json:"role" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		JSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Svc.ChangeRole(r.Context(), p, chi.URLParam(r, "username"), input.Role); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ==========================
// Delete User (Admin)
// ==========================
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	if err := h.Svc.Delete(r.Context(), p, chi.URLParam(r, "username")); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ==========================
// Self-service account changes
// ==========================

// selfChangeInput is shared by the password/username/email change endpoints.
// Each requires re-authentication with the current password and a matching
// confirmation of the new value.
type selfChangeInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewValue        string `json:"new_value" validate:"required"`
	Confirm         string `json:"confirm" validate:"required"`
}

func decodeSelfChange(w http.ResponseWriter, r *http.Request) (selfChangeInput, bool) {
	var input selfChangeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return input, false
	}
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		JSONError(w, err.Error(), http.StatusBadRequest)
		return input, false
	}
	return input, true
}

func (h *UserHandler) ChangeOwnPassword(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	input, ok := decodeSelfChange(w, r)
	if !ok {
		return
	}

	if err := h.Svc.ChangeOwnPassword(r.Context(), p, input.CurrentPassword, input.NewValue, input.Confirm); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ChangeOwnUsername renames the caller. The old token's username claim is
// stale afterwards, so the new principal is returned and the client must
// log in again.
func (h *UserHandler) ChangeOwnUsername(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	input, ok := decodeSelfChange(w, r)
	if !ok {
		return
	}

	updated, err := h.Svc.ChangeOwnUsername(r.Context(), p, input.CurrentPassword, input.NewValue, input.Confirm)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, updated)
}

func (h *UserHandler) ChangeOwnEmail(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	input, ok := decodeSelfChange(w, r)
	if !ok {
		return
	}

	updated, err := h.Svc.ChangeOwnEmail(r.Context(), p, input.CurrentPassword, input.NewValue, input.Confirm)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, updated)
}
