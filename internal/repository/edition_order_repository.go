package repository

import (
	"errors"

	"github.com/magazine-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EditionOrderRepository is the single-issue order data access interface.
type EditionOrderRepository interface {
	GetByID(id uint) (*models.EditionOrder, error)
	GetByIDForUpdate(id uint) (*models.EditionOrder, error)
	Create(order *models.EditionOrder) error
	Update(order *models.EditionOrder) error
	List(filter EditionOrderListFilter) ([]models.EditionOrder, int64, error)
	WithTx(tx *gorm.DB) *GormEditionOrderRepository
}

// GormEditionOrderRepository is the GORM implementation.
type GormEditionOrderRepository struct {
	db *gorm.DB
}

// NewEditionOrderRepository creates an edition order repository.
func NewEditionOrderRepository(db *gorm.DB) *GormEditionOrderRepository {
	return &GormEditionOrderRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormEditionOrderRepository) WithTx(tx *gorm.DB) *GormEditionOrderRepository {
	if tx == nil {
		return r
	}
	return &GormEditionOrderRepository{db: tx}
}

// GetByID fetches an edition order by id.
func (r *GormEditionOrderRepository) GetByID(id uint) (*models.EditionOrder, error) {
	var order models.EditionOrder
	if err := r.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByIDForUpdate fetches an edition order holding a row lock.
func (r *GormEditionOrderRepository) GetByIDForUpdate(id uint) (*models.EditionOrder, error) {
	var order models.EditionOrder
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// Create inserts an edition order.
func (r *GormEditionOrderRepository) Create(order *models.EditionOrder) error {
	return r.db.Create(order).Error
}

// Update saves an edition order.
func (r *GormEditionOrderRepository) Update(order *models.EditionOrder) error {
	return r.db.Save(order).Error
}

// List returns edition orders matching the filter.
func (r *GormEditionOrderRepository) List(filter EditionOrderListFilter) ([]models.EditionOrder, int64, error) {
	query := r.db.Model(&models.EditionOrder{})

	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.EditionID > 0 {
		query = query.Where("edition_id = ?", filter.EditionID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var orders []models.EditionOrder
	if err := query.Order("id desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}
