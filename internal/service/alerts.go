package service

import (
	"context"

	"github.com/crucial707/ems-inventory/internal/authz"
	"github.com/crucial707/ems-inventory/internal/models"
	"github.com/crucial707/ems-inventory/internal/repo"
)

// AlertService exposes the expired and low-stock inventory reports.
type AlertService struct {
	repo *repo.InventoryRepo
	gate *authz.Gate
}

func NewAlertService(r *repo.InventoryRepo, gate *authz.Gate) *AlertService {
	return &AlertService{repo: r, gate: gate}
}

// Expired returns items whose expiration date has passed, oldest first.
func (s *AlertService) Expired(ctx context.Context, p *models.Principal) ([]models.ExpiredItem, error) {
	if err := s.gate.Require(ctx, p, "search_for_expiration", readRoles...); err != nil {
		return nil, err
	}
	return s.repo.Expired(ctx)
}

// LowStock returns items below their minimum threshold, lowest quantity first.
func (s *AlertService) LowStock(ctx context.Context, p *models.Principal) ([]models.LowStockItem, error) {
	if err := s.gate.Require(ctx, p, "search_for_low_quantity", readRoles...); err != nil {
		return nil, err
	}
	return s.repo.LowStock(ctx)
}
