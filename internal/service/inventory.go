// Package service implements the domain mutation pipeline. Every mutating
// operation runs one fixed sequence: authorize the principal, validate the
// inputs, apply the mutation through the repository, then append an audit
// entry describing the change.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/crucial707/ems-inventory/internal/apperrors"
	"github.com/crucial707/ems-inventory/internal/authz"
	"github.com/crucial707/ems-inventory/internal/metrics"
	"github.com/crucial707/ems-inventory/internal/models"
	"github.com/crucial707/ems-inventory/internal/repo"
	"github.com/crucial707/ems-inventory/internal/validate"
)

// readRoles may view inventory contents and alert reports.
var readRoles = []string{models.RoleAdmin, models.RoleLeadership, models.RoleResponder}

// adjustRoles may change quantities and item metadata.
var adjustRoles = []string{models.RoleAdmin, models.RoleLeadership}

// InventoryService exposes the inventory operations.
type InventoryService struct {
	repo  *repo.InventoryRepo
	audit *repo.AuditRepo
	gate  *authz.Gate
}

func NewInventoryService(r *repo.InventoryRepo, audit *repo.AuditRepo, gate *authz.Gate) *InventoryService {
	return &InventoryService{repo: r, audit: audit, gate: gate}
}

// logAudit appends an audit entry for a mutation that already succeeded. The
// append is best-effort: a failure is logged and counted but does not undo or
// fail the mutation.
func (s *InventoryService) logAudit(ctx context.Context, p *models.Principal, object, action, details string) {
	if err := s.audit.Append(ctx, p.Username, object, action, details); err != nil {
		metrics.AuditAppendFailures.Inc()
		slog.Error("audit append failed after mutation",
			"user", p.Username,
			"object", object,
			"action", action,
			"error", err)
	}
}

// Add creates a new inventory item. Admin only. If an item with the same
// name and category already exists the call returns ErrAlreadyExists and
// performs no mutation and no audit write.
func (s *InventoryService) Add(ctx context.Context, p *models.Principal, name, category, description string, quantity int, expiration string, minThreshold int) (models.InventoryItem, error) {
	if err := s.gate.Require(ctx, p, "add_inventory_item", models.RoleAdmin); err != nil {
		return models.InventoryItem{}, err
	}

	exists, err := s.repo.ExistsByNameCategory(ctx, name, category)
	if err != nil {
		return models.InventoryItem{}, err
	}
	if exists {
		return models.InventoryItem{}, apperrors.ErrAlreadyExists
	}

	if !validate.NonEmptyString(name) {
		return models.InventoryItem{}, apperrors.Invalid("item_name", "must be a non-empty string")
	}
	if !validate.NonEmptyString(category) {
		return models.InventoryItem{}, apperrors.Invalid("category", "must be a non-empty string")
	}
	if !validate.NonNegativeInt(quantity) {
		return models.InventoryItem{}, apperrors.Invalid("quantity", "must be a non-negative integer")
	}
	var exp *time.Time
	if expiration != "" {
		if !validate.ValidDate(expiration) {
			return models.InventoryItem{}, apperrors.Invalid("expiration_date", "must be formatted YYYY-MM-DD")
		}
		t, _ := time.Parse(validate.DateLayout, expiration)
		exp = &t
	}
	if !validate.NonNegativeInt(minThreshold) {
		return models.InventoryItem{}, apperrors.Invalid("min_threshold", "must be a non-negative integer")
	}

	item, err := s.repo.Create(ctx, name, category, description, quantity, exp, minThreshold)
	if err != nil {
		return models.InventoryItem{}, err
	}

	metrics.MutationsTotal.WithLabelValues("inventory", "add").Inc()
	s.logAudit(ctx, p, name, models.ActionAdd, "Added item to inventory")
	return item, nil
}

// Increase raises an item's quantity. Admin and Leadership.
func (s *InventoryService) Increase(ctx context.Context, p *models.Principal, name string, quantity int) error {
	if err := s.gate.Require(ctx, p, "increase_item", adjustRoles...); err != nil {
		return err
	}
	if !validate.NonEmptyString(name) {
		return apperrors.Invalid("item_name", "must be a non-empty string")
	}
	if !validate.NonNegativeInt(quantity) {
		return apperrors.Invalid("quantity", "must be a non-negative integer")
	}

	rows, err := s.repo.AdjustQuantity(ctx, name, quantity)
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperrors.ErrNotFound
	}

	metrics.MutationsTotal.WithLabelValues("inventory", "increase").Inc()
	s.logAudit(ctx, p, name, models.ActionUpdate, fmt.Sprintf("Quantity increased by %d", quantity))
	return nil
}

// Decrease lowers an item's quantity. Admin and Leadership. A decrease that
// would cross zero is rejected with ErrInsufficientQuantity: no mutation, no
// audit entry. The guard is a compare-and-set in the UPDATE itself, so two
// concurrent decreases reading the same stale quantity cannot both succeed.
func (s *InventoryService) Decrease(ctx context.Context, p *models.Principal, name string, quantity int) error {
	if err := s.gate.Require(ctx, p, "decrease_item", adjustRoles...); err != nil {
		return err
	}
	if !validate.NonEmptyString(name) {
		return apperrors.Invalid("item_name", "must be a non-empty string")
	}
	if !validate.NonNegativeInt(quantity) {
		return apperrors.Invalid("quantity", "must be a non-negative integer")
	}

	rows, err := s.repo.AdjustQuantity(ctx, name, -quantity)
	if err != nil {
		return err
	}
	if rows == 0 {
		// CAS miss: distinguish a missing item from insufficient quantity.
		if _, getErr := s.repo.GetByName(ctx, name); getErr != nil {
			return getErr
		}
		return apperrors.ErrInsufficientQuantity
	}

	metrics.MutationsTotal.WithLabelValues("inventory", "decrease").Inc()
	s.logAudit(ctx, p, name, models.ActionUpdate, fmt.Sprintf("Quantity decreased by %d", quantity))
	return nil
}

// SetQuantity sets an item's quantity to an exact value. Admin and Leadership.
func (s *InventoryService) SetQuantity(ctx context.Context, p *models.Principal, name string, quantity int) error {
	if err := s.gate.Require(ctx, p, "set_quantity", adjustRoles...); err != nil {
		return err
	}
	if !validate.NonEmptyString(name) {
		return apperrors.Invalid("item_name", "must be a non-empty string")
	}
	if !validate.NonNegativeInt(quantity) {
		return apperrors.Invalid("quantity", "must be a non-negative integer")
	}

	if err := s.repo.SetQuantity(ctx, name, quantity); err != nil {
		return err
	}

	metrics.MutationsTotal.WithLabelValues("inventory", "set_quantity").Inc()
	s.logAudit(ctx, p, name, models.ActionUpdate, fmt.Sprintf("Quantity set to %d", quantity))
	return nil
}

// SetExpiration sets a new expiration date. Admin and Leadership.
func (s *InventoryService) SetExpiration(ctx context.Context, p *models.Principal, name, expiration string) error {
	if err := s.gate.Require(ctx, p, "set_expiration", adjustRoles...); err != nil {
		return err
	}
	if !validate.NonEmptyString(name) {
		return apperrors.Invalid("item_name", "must be a non-empty string")
	}
	if !validate.ValidDate(expiration) {
		return apperrors.Invalid("expiration_date", "must be formatted YYYY-MM-DD")
	}

	t, _ := time.Parse(validate.DateLayout, expiration)
	if err := s.repo.SetExpiration(ctx, name, t); err != nil {
		return err
	}

	metrics.MutationsTotal.WithLabelValues("inventory", "set_expiration").Inc()
	s.logAudit(ctx, p, name, models.ActionUpdate, "Expiration date set to "+expiration)
	return nil
}

// SetDescription updates an item's free-text description. Admin and Leadership.
func (s *InventoryService) SetDescription(ctx context.Context, p *models.Principal, name, description string) error {
	if err := s.gate.Require(ctx, p, "set_description", adjustRoles...); err != nil {
		return err
	}
	if !validate.NonEmptyString(name) {
		return apperrors.Invalid("item_name", "must be a non-empty string")
	}

	if err := s.repo.SetDescription(ctx, name, description); err != nil {
		return err
	}

	metrics.MutationsTotal.WithLabelValues("inventory", "set_description").Inc()
	s.logAudit(ctx, p, name, models.ActionUpdate, "Description set to "+description)
	return nil
}

// SetThreshold sets an item's minimum low-stock threshold. Admin and Leadership.
func (s *InventoryService) SetThreshold(ctx context.Context, p *models.Principal, name string, threshold int) error {
	if err := s.gate.Require(ctx, p, "set_minimum_threshold", adjustRoles...); err != nil {
		return err
	}
	if !validate.NonEmptyString(name) {
		return apperrors.Invalid("item_name", "must be a non-empty string")
	}
	if !validate.NonNegativeInt(threshold) {
		return apperrors.Invalid("min_threshold", "must be a non-negative integer")
	}

	if err := s.repo.SetThreshold(ctx, name, threshold); err != nil {
		return err
	}

	metrics.MutationsTotal.WithLabelValues("inventory", "set_threshold").Inc()
	s.logAudit(ctx, p, name, models.ActionUpdate, fmt.Sprintf("Minimum threshold set to %d", threshold))
	return nil
}

// SetCategory moves an item to a different category. Admin and Leadership.
func (s *InventoryService) SetCategory(ctx context.Context, p *models.Principal, name, category string) error {
	if err := s.gate.Require(ctx, p, "set_category", adjustRoles...); err != nil {
		return err
	}
	if !validate.NonEmptyString(name) {
		return apperrors.Invalid("item_name", "must be a non-empty string")
	}
	if !validate.NonEmptyString(category) {
		return apperrors.Invalid("category", "must be a non-empty string")
	}

	if err := s.repo.SetCategory(ctx, name, category); err != nil {
		return err
	}

	metrics.MutationsTotal.WithLabelValues("inventory", "set_category").Inc()
	s.logAudit(ctx, p, name, models.ActionUpdate, "Category set to "+category)
	return nil
}

// Delete removes an item. Admin only.
func (s *InventoryService) Delete(ctx context.Context, p *models.Principal, name string) error {
	if err := s.gate.Require(ctx, p, "delete_item", models.RoleAdmin); err != nil {
		return err
	}
	if !validate.NonEmptyString(name) {
		return apperrors.Invalid("item_name", "must be a non-empty string")
	}

	if err := s.repo.Delete(ctx, name); err != nil {
		return err
	}

	metrics.MutationsTotal.WithLabelValues("inventory", "delete").Inc()
	s.logAudit(ctx, p, name, models.ActionDelete, "Deleted item")
	return nil
}

// Show returns one item's details. Admin, Leadership, and General Responder.
func (s *InventoryService) Show(ctx context.Context, p *models.Principal, name string) (models.InventoryItem, error) {
	if err := s.gate.Require(ctx, p, "show_item", readRoles...); err != nil {
		return models.InventoryItem{}, err
	}
	if !validate.NonEmptyString(name) {
		return models.InventoryItem{}, apperrors.Invalid("item_name", "must be a non-empty string")
	}
	return s.repo.GetByName(ctx, name)
}

// List returns all inventory items. Admin, Leadership, and General Responder.
func (s *InventoryService) List(ctx context.Context, p *models.Principal) ([]models.InventoryItem, error) {
	if err := s.gate.Require(ctx, p, "show_all_inventory", readRoles...); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}
