package service

import (
	"strings"

	"github.com/magazine-next/internal/models"
	"github.com/magazine-next/internal/repository"

	"github.com/gosimple/slug"
)

// PlanService manages subscription plans.
type PlanService struct {
	planRepo repository.PlanRepository
}

// NewPlanService creates a plan service.
func NewPlanService(planRepo repository.PlanRepository) *PlanService {
	return &PlanService{planRepo: planRepo}
}

// CreatePlan inserts a plan, deriving the slug from the name when none is
// supplied.
func (s *PlanService) CreatePlan(plan *models.Plan) error {
	if strings.TrimSpace(plan.Slug) == "" {
		plan.Slug = slug.Make(plan.Name)
	}
	exist, err := s.planRepo.GetBySlug(plan.Slug)
	if err != nil {
		return err
	}
	if exist != nil {
		return ErrSlugTaken
	}
	if plan.MinMonths <= 0 {
		plan.MinMonths = 1
	}
	return s.planRepo.Create(plan)
}

// UpdatePlan saves plan edits.
func (s *PlanService) UpdatePlan(plan *models.Plan) error {
	return s.planRepo.Update(plan)
}

// GetPlan fetches a plan by id.
func (s *PlanService) GetPlan(id uint) (*models.Plan, error) {
	plan, err := s.planRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

// GetPlanBySlug fetches a plan by slug.
func (s *PlanService) GetPlanBySlug(sg string) (*models.Plan, error) {
	plan, err := s.planRepo.GetBySlug(sg)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

// ListPlans returns plans matching the filter.
func (s *PlanService) ListPlans(filter repository.PlanListFilter) ([]models.Plan, int64, error) {
	return s.planRepo.List(filter)
}

// DeletePlan removes a plan.
func (s *PlanService) DeletePlan(id uint) error {
	return s.planRepo.Delete(id)
}
