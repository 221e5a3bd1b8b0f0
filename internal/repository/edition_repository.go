package repository

import (
	"errors"
	"time"

	"github.com/magazine-next/internal/models"

	"gorm.io/gorm"
)

// EditionRepository is the magazine edition data access interface.
type EditionRepository interface {
	GetByID(id uint) (*models.MagazineEdition, error)
	LatestPublishedAtOrBefore(magazineID uint, at time.Time) (*models.MagazineEdition, error)
	Create(edition *models.MagazineEdition) error
	Update(edition *models.MagazineEdition) error
	Delete(id uint) error
	List(filter EditionListFilter) ([]models.MagazineEdition, int64, error)
	WithTx(tx *gorm.DB) *GormEditionRepository
}

// GormEditionRepository is the GORM implementation.
type GormEditionRepository struct {
	db *gorm.DB
}

// NewEditionRepository creates an edition repository.
func NewEditionRepository(db *gorm.DB) *GormEditionRepository {
	return &GormEditionRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormEditionRepository) WithTx(tx *gorm.DB) *GormEditionRepository {
	if tx == nil {
		return r
	}
	return &GormEditionRepository{db: tx}
}

// GetByID fetches an edition by id.
func (r *GormEditionRepository) GetByID(id uint) (*models.MagazineEdition, error) {
	var edition models.MagazineEdition
	if err := r.db.First(&edition, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &edition, nil
}

// LatestPublishedAtOrBefore returns the magazine's most recently published
// edition with published_at <= at, or nil if none qualifies.
func (r *GormEditionRepository) LatestPublishedAtOrBefore(magazineID uint, at time.Time) (*models.MagazineEdition, error) {
	var edition models.MagazineEdition
	if err := r.db.Where("magazine_id = ? AND published_at IS NOT NULL AND published_at <= ?", magazineID, at).
		Order("published_at desc").
		First(&edition).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &edition, nil
}

// Create inserts an edition.
func (r *GormEditionRepository) Create(edition *models.MagazineEdition) error {
	return r.db.Create(edition).Error
}

// Update saves an edition.
func (r *GormEditionRepository) Update(edition *models.MagazineEdition) error {
	return r.db.Save(edition).Error
}

// Delete removes an edition.
func (r *GormEditionRepository) Delete(id uint) error {
	return r.db.Delete(&models.MagazineEdition{}, id).Error
}

// List returns editions matching the filter.
func (r *GormEditionRepository) List(filter EditionListFilter) ([]models.MagazineEdition, int64, error) {
	query := r.db.Model(&models.MagazineEdition{})

	if filter.MagazineID > 0 {
		query = query.Where("magazine_id = ?", filter.MagazineID)
	}
	if filter.OnlyPublished {
		query = query.Where("published_at IS NOT NULL AND published_at <= ?", time.Now())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var editions []models.MagazineEdition
	if err := query.Order("published_at desc, id desc").Find(&editions).Error; err != nil {
		return nil, 0, err
	}
	return editions, total, nil
}
