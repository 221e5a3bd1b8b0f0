package repository

import (
	"errors"

	"github.com/magazine-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlanPriceRepository is the per-magazine price override data access interface.
type PlanPriceRepository interface {
	GetActive(magazineID, planID uint, deliveryMode string) (*models.MagazinePlanPrice, error)
	Upsert(price *models.MagazinePlanPrice) error
	Delete(id uint) error
	ListByMagazine(magazineID uint) ([]models.MagazinePlanPrice, error)
	ListByPlan(planID uint) ([]models.MagazinePlanPrice, error)
	WithTx(tx *gorm.DB) *GormPlanPriceRepository
}

// GormPlanPriceRepository is the GORM implementation.
type GormPlanPriceRepository struct {
	db *gorm.DB
}

// NewPlanPriceRepository creates a price override repository.
func NewPlanPriceRepository(db *gorm.DB) *GormPlanPriceRepository {
	return &GormPlanPriceRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormPlanPriceRepository) WithTx(tx *gorm.DB) *GormPlanPriceRepository {
	if tx == nil {
		return r
	}
	return &GormPlanPriceRepository{db: tx}
}

// GetActive returns the active override for the key triple, or nil.
func (r *GormPlanPriceRepository) GetActive(magazineID, planID uint, deliveryMode string) (*models.MagazinePlanPrice, error) {
	var price models.MagazinePlanPrice
	if err := r.db.Where(
		"magazine_id = ? AND plan_id = ? AND delivery_mode = ? AND is_active = ?",
		magazineID, planID, deliveryMode, true,
	).First(&price).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &price, nil
}

// Upsert writes the override, overwriting any existing row for the key triple.
func (r *GormPlanPriceRepository) Upsert(price *models.MagazinePlanPrice) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "magazine_id"},
			{Name: "plan_id"},
			{Name: "delivery_mode"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"price_cents", "currency", "is_active", "updated_at"}),
	}).Create(price).Error
}

// Delete removes an override.
func (r *GormPlanPriceRepository) Delete(id uint) error {
	return r.db.Delete(&models.MagazinePlanPrice{}, id).Error
}

// ListByMagazine returns all overrides for a magazine.
func (r *GormPlanPriceRepository) ListByMagazine(magazineID uint) ([]models.MagazinePlanPrice, error) {
	var prices []models.MagazinePlanPrice
	if err := r.db.Where("magazine_id = ?", magazineID).Order("id asc").Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

// ListByPlan returns all overrides for a plan.
func (r *GormPlanPriceRepository) ListByPlan(planID uint) ([]models.MagazinePlanPrice, error) {
	var prices []models.MagazinePlanPrice
	if err := r.db.Where("plan_id = ?", planID).Order("id asc").Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}
