package service

import (
	"github.com/magazine-next/internal/models"
	"github.com/magazine-next/internal/repository"
)

// PricingService resolves the effective per-period price for a plan,
// applying per-magazine overrides over the plan default.
type PricingService struct {
	planRepo  repository.PlanRepository
	priceRepo repository.PlanPriceRepository
}

// NewPricingService creates a pricing service.
func NewPricingService(planRepo repository.PlanRepository, priceRepo repository.PlanPriceRepository) *PricingService {
	return &PricingService{
		planRepo:  planRepo,
		priceRepo: priceRepo,
	}
}

// ResolvedPrice is the effective price for one subscription period.
type ResolvedPrice struct {
	PriceCents int64  `json:"price_cents"`
	Currency   string `json:"currency"`
}

// ResolvePrice returns the effective price for the plan. The caller has
// already checked plan existence; a missing override simply means the plan
// default applies.
func (s *PricingService) ResolvePrice(plan *models.Plan, magazineID *uint, deliveryMode string) (ResolvedPrice, error) {
	fallback := ResolvedPrice{PriceCents: plan.PriceCents, Currency: plan.Currency}
	if magazineID == nil || *magazineID == 0 {
		return fallback, nil
	}

	override, err := s.priceRepo.GetActive(*magazineID, plan.ID, deliveryMode)
	if err != nil {
		return ResolvedPrice{}, err
	}
	if override == nil {
		return fallback, nil
	}
	return ResolvedPrice{PriceCents: override.PriceCents, Currency: override.Currency}, nil
}

// SetOverride upserts a per-magazine price override.
func (s *PricingService) SetOverride(price *models.MagazinePlanPrice) error {
	return s.priceRepo.Upsert(price)
}

// RemoveOverride deletes a price override.
func (s *PricingService) RemoveOverride(id uint) error {
	return s.priceRepo.Delete(id)
}

// ListOverridesByMagazine returns a magazine's price overrides.
func (s *PricingService) ListOverridesByMagazine(magazineID uint) ([]models.MagazinePlanPrice, error) {
	return s.priceRepo.ListByMagazine(magazineID)
}

// ListOverridesByPlan returns a plan's price overrides.
func (s *PricingService) ListOverridesByPlan(planID uint) ([]models.MagazinePlanPrice, error) {
	return s.priceRepo.ListByPlan(planID)
}
