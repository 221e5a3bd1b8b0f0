package repository

import (
	"github.com/magazine-next/internal/models"

	"gorm.io/gorm"
)

// EditionPurchaseRepository is the single-issue ownership data access interface.
type EditionPurchaseRepository interface {
	Exists(userID, editionID uint) (bool, error)
	Create(purchase *models.EditionPurchase) error
	ListByUserID(userID uint) ([]models.EditionPurchase, error)
	WithTx(tx *gorm.DB) *GormEditionPurchaseRepository
}

// GormEditionPurchaseRepository is the GORM implementation.
type GormEditionPurchaseRepository struct {
	db *gorm.DB
}

// NewEditionPurchaseRepository creates an edition purchase repository.
func NewEditionPurchaseRepository(db *gorm.DB) *GormEditionPurchaseRepository {
	return &GormEditionPurchaseRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormEditionPurchaseRepository) WithTx(tx *gorm.DB) *GormEditionPurchaseRepository {
	if tx == nil {
		return r
	}
	return &GormEditionPurchaseRepository{db: tx}
}

// Exists reports whether the user owns the edition.
func (r *GormEditionPurchaseRepository) Exists(userID, editionID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.EditionPurchase{}).
		Where("user_id = ? AND edition_id = ?", userID, editionID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a purchase row.
func (r *GormEditionPurchaseRepository) Create(purchase *models.EditionPurchase) error {
	return r.db.Create(purchase).Error
}

// ListByUserID returns a user's purchased editions.
func (r *GormEditionPurchaseRepository) ListByUserID(userID uint) ([]models.EditionPurchase, error) {
	var purchases []models.EditionPurchase
	if err := r.db.Where("user_id = ?", userID).Order("id desc").Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}
