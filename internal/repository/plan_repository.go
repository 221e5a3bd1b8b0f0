package repository

import (
	"errors"

	"github.com/magazine-next/internal/models"

	"gorm.io/gorm"
)

// PlanRepository is the subscription plan data access interface.
type PlanRepository interface {
	GetByID(id uint) (*models.Plan, error)
	GetBySlug(slug string) (*models.Plan, error)
	Create(plan *models.Plan) error
	Update(plan *models.Plan) error
	Delete(id uint) error
	List(filter PlanListFilter) ([]models.Plan, int64, error)
	WithTx(tx *gorm.DB) *GormPlanRepository
}

// GormPlanRepository is the GORM implementation.
type GormPlanRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a plan repository.
func NewPlanRepository(db *gorm.DB) *GormPlanRepository {
	return &GormPlanRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormPlanRepository) WithTx(tx *gorm.DB) *GormPlanRepository {
	if tx == nil {
		return r
	}
	return &GormPlanRepository{db: tx}
}

// GetByID fetches a plan by id.
func (r *GormPlanRepository) GetByID(id uint) (*models.Plan, error) {
	var plan models.Plan
	if err := r.db.First(&plan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

// GetBySlug fetches a plan by slug.
func (r *GormPlanRepository) GetBySlug(slug string) (*models.Plan, error) {
	var plan models.Plan
	if err := r.db.Where("slug = ?", slug).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

// Create inserts a plan.
func (r *GormPlanRepository) Create(plan *models.Plan) error {
	return r.db.Create(plan).Error
}

// Update saves a plan.
func (r *GormPlanRepository) Update(plan *models.Plan) error {
	return r.db.Save(plan).Error
}

// Delete removes a plan.
func (r *GormPlanRepository) Delete(id uint) error {
	return r.db.Delete(&models.Plan{}, id).Error
}

// List returns plans matching the filter.
func (r *GormPlanRepository) List(filter PlanListFilter) ([]models.Plan, int64, error) {
	query := r.db.Model(&models.Plan{})

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR slug LIKE ?", like, like)
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var plans []models.Plan
	if err := query.Order("sort_order desc, id desc").Find(&plans).Error; err != nil {
		return nil, 0, err
	}
	return plans, total, nil
}
