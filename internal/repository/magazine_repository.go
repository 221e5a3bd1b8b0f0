package repository

import (
	"errors"

	"github.com/magazine-next/internal/models"

	"gorm.io/gorm"
)

// MagazineRepository is the magazine data access interface.
type MagazineRepository interface {
	GetByID(id uint) (*models.Magazine, error)
	GetBySlug(slug string) (*models.Magazine, error)
	Create(magazine *models.Magazine) error
	Update(magazine *models.Magazine) error
	Delete(id uint) error
	List(filter MagazineListFilter) ([]models.Magazine, int64, error)
	WithTx(tx *gorm.DB) *GormMagazineRepository
}

// GormMagazineRepository is the GORM implementation.
type GormMagazineRepository struct {
	db *gorm.DB
}

// NewMagazineRepository creates a magazine repository.
func NewMagazineRepository(db *gorm.DB) *GormMagazineRepository {
	return &GormMagazineRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormMagazineRepository) WithTx(tx *gorm.DB) *GormMagazineRepository {
	if tx == nil {
		return r
	}
	return &GormMagazineRepository{db: tx}
}

// GetByID fetches a magazine by id.
func (r *GormMagazineRepository) GetByID(id uint) (*models.Magazine, error) {
	var magazine models.Magazine
	if err := r.db.First(&magazine, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &magazine, nil
}

// GetBySlug fetches a magazine by slug.
func (r *GormMagazineRepository) GetBySlug(slug string) (*models.Magazine, error) {
	var magazine models.Magazine
	if err := r.db.Where("slug = ?", slug).First(&magazine).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &magazine, nil
}

// Create inserts a magazine.
func (r *GormMagazineRepository) Create(magazine *models.Magazine) error {
	return r.db.Create(magazine).Error
}

// Update saves a magazine.
func (r *GormMagazineRepository) Update(magazine *models.Magazine) error {
	return r.db.Save(magazine).Error
}

// Delete removes a magazine.
func (r *GormMagazineRepository) Delete(id uint) error {
	return r.db.Delete(&models.Magazine{}, id).Error
}

// List returns magazines matching the filter.
func (r *GormMagazineRepository) List(filter MagazineListFilter) ([]models.Magazine, int64, error) {
	query := r.db.Model(&models.Magazine{})

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR slug LIKE ?", like, like)
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var magazines []models.Magazine
	if err := query.Order("sort_order desc, id desc").Find(&magazines).Error; err != nil {
		return nil, 0, err
	}
	return magazines, total, nil
}
