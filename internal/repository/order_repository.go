package repository

import (
	"errors"

	"github.com/magazine-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository is the subscription order data access interface.
type OrderRepository interface {
	GetByID(id uint) (*models.PaymentOrder, error)
	GetByIDForUpdate(id uint) (*models.PaymentOrder, error)
	GetByOrderNo(orderNo string) (*models.PaymentOrder, error)
	Create(order *models.PaymentOrder) error
	Update(order *models.PaymentOrder) error
	List(filter OrderListFilter) ([]models.PaymentOrder, int64, error)
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// GormOrderRepository is the GORM implementation.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates an order repository.
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// GetByID fetches an order by id.
func (r *GormOrderRepository) GetByID(id uint) (*models.PaymentOrder, error) {
	var order models.PaymentOrder
	if err := r.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByIDForUpdate fetches an order holding a row lock. Must run inside a
// transaction; the lock makes the paid-status check-then-act race free.
func (r *GormOrderRepository) GetByIDForUpdate(id uint) (*models.PaymentOrder, error) {
	var order models.PaymentOrder
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNo fetches an order by order number.
func (r *GormOrderRepository) GetByOrderNo(orderNo string) (*models.PaymentOrder, error) {
	var order models.PaymentOrder
	if err := r.db.Where("order_no = ?", orderNo).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// Create inserts an order.
func (r *GormOrderRepository) Create(order *models.PaymentOrder) error {
	return r.db.Create(order).Error
}

// Update saves an order.
func (r *GormOrderRepository) Update(order *models.PaymentOrder) error {
	return r.db.Save(order).Error
}

// List returns orders matching the filter.
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.PaymentOrder, int64, error) {
	query := r.db.Model(&models.PaymentOrder{})

	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.PlanID > 0 {
		query = query.Where("plan_id = ?", filter.PlanID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OrderNo != "" {
		query = query.Where("order_no = ?", filter.OrderNo)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var orders []models.PaymentOrder
	if err := query.Order("id desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}
