package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/crucial707/ems-inventory/internal/middleware"
	"github.com/crucial707/ems-inventory/internal/models"
	"github.com/crucial707/ems-inventory/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type InventoryHandler struct {
	Svc *service.InventoryService
}

// requirePrincipal pulls the session principal installed by the JWT
// middleware. Routes are mounted behind it, so a miss means a wiring bug;
// answer 401 rather than panic.
func requirePrincipal(w http.ResponseWriter, r *http.Request) (*models.Principal, bool) {
	p, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		JSONError(w, "unauthorized", http.StatusUnauthorized)
		return nil, false
	}
	return p, true
}

//
// ==========================
// Create Item
// ==========================
//

func (h *InventoryHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var input struct {
		Name         string `json:"name" validate:"required,max=100"`
		Category     string `json:"category" validate:"required,max=50"`
		Description  string `json:"description" validate:"max=1000"`
		Quantity     int    `json:"quantity" validate:"gte=0"`
		Expiration   string `json:"expiration_date" validate:"omitempty,datetime=2006-01-02"`
		MinThreshold int    `json:"min_threshold" validate:"gte=0"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	// ===== Validate input =====
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		JSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	item, err := h.Svc.Add(r.Context(), p, input.Name, input.Category, input.Description, input.Quantity, input.Expiration, input.MinThreshold)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	writeJSON(w, item)
}

//
// ==========================
// List / Show
// ==========================
//

func (h *InventoryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	items, err := h.Svc.List(r.Context(), p)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, items)
}

func (h *InventoryHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	name := chi.URLParam(r, "name")
	item, err := h.Svc.Show(r.Context(), p, name)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, item)
}

//
// ==========================
// Quantity adjustments
// ==========================
//

func (h *InventoryHandler) IncreaseItem(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, func(p *models.Principal, name string, amount int) error {
		return h.Svc.Increase(r.Context(), p, name, amount)
	})
}

func (h *InventoryHandler) DecreaseItem(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, func(p *models.Principal, name string, amount int) error {
		return h.Svc.Decrease(r.Context(), p, name, amount)
	})
}

func (h *InventoryHandler) adjust(w http.ResponseWriter, r *http.Request, apply func(*models.Principal, string, int) error) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var input struct {
		Amount int `json:"amount" validate:"gt=0"`
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

	if err := apply(p, chi.URLParam(r, "name"), input.Amount); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

//
// ==========================
// Field setters
// ==========================
//

func (h *InventoryHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	var input struct {
		Quantity int `json:"quantity" validate:"gte=0"`
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
	if err := h.Svc.SetQuantity(r.Context(), p, chi.URLParam(r, "name"), input.Quantity); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *InventoryHandler) SetExpiration(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	var input struct {
		Expiration string `json:"expiration_date" validate:"required,datetime=2006-01-02"`
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
	if err := h.Svc.SetExpiration(r.Context(), p, chi.URLParam(r, "name"), input.Expiration); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *InventoryHandler) SetDescription(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	var input struct {
		Description string `json:"description" validate:"max=1000"`
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
	if err := h.Svc.SetDescription(r.Context(), p, chi.URLParam(r, "name"), input.Description); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *InventoryHandler) SetThreshold(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	var input struct {
		MinThreshold int `json:"min_threshold" validate:"gte=0"`
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
	if err := h.Svc.SetThreshold(r.Context(), p, chi.URLParam(r, "name"), input.MinThreshold); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *InventoryHandler) SetCategory(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	var input struct {
		Category string `json:"category" validate:"required,max=50"`
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
	if err := h.Svc.SetCategory(r.Context(), p, chi.URLParam(r, "name"), input.Category); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

//
// ==========================
// Delete Item
// ==========================
//

func (h *InventoryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	if err := h.Svc.Delete(r.Context(), p, chi.URLParam(r, "name")); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
