package repository

import (
	"errors"

	"github.com/magazine-next/internal/models"

	"gorm.io/gorm"
)

// DispatchRepository is the dispatch schedule data access interface.
type DispatchRepository interface {
	GetByID(id uint) (*models.DispatchSchedule, error)
	CreateBatch(rows []models.DispatchSchedule) error
	Update(row *models.DispatchSchedule) error
	ListUnassigned(limit int) ([]models.DispatchSchedule, error)
	AssignEdition(id, editionID uint) (bool, error)
	ListBySubscription(subscriptionID uint) ([]models.DispatchSchedule, error)
	List(filter DispatchListFilter) ([]models.DispatchSchedule, int64, error)
	WithTx(tx *gorm.DB) *GormDispatchRepository
}

// GormDispatchRepository is the GORM implementation.
type GormDispatchRepository struct {
	db *gorm.DB
}

// NewDispatchRepository creates a dispatch repository.
func NewDispatchRepository(db *gorm.DB) *GormDispatchRepository {
	return &GormDispatchRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormDispatchRepository) WithTx(tx *gorm.DB) *GormDispatchRepository {
	if tx == nil {
		return r
	}
	return &GormDispatchRepository{db: tx}
}

// GetByID fetches a schedule row by id.
func (r *GormDispatchRepository) GetByID(id uint) (*models.DispatchSchedule, error) {
	var row models.DispatchSchedule
	if err := r.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// CreateBatch inserts a generated dispatch calendar in one statement.
func (r *GormDispatchRepository) CreateBatch(rows []models.DispatchSchedule) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.Create(&rows).Error
}

// Update saves a schedule row.
func (r *GormDispatchRepository) Update(row *models.DispatchSchedule) error {
	return r.db.Save(row).Error
}

// ListUnassigned returns rows still missing an edition, oldest due first.
// Rows whose subscription names no magazine can never be assigned, so the
// query excludes them; only assignable rows count against the limit.
func (r *GormDispatchRepository) ListUnassigned(limit int) ([]models.DispatchSchedule, error) {
	var rows []models.DispatchSchedule
	query := r.db.
		Joins("JOIN user_subscriptions ON user_subscriptions.id = dispatch_schedules.subscription_id").
		Where("dispatch_schedules.edition_id IS NULL").
		Where("user_subscriptions.magazine_id IS NOT NULL").
		Where("user_subscriptions.deleted_at IS NULL").
		Order("dispatch_schedules.scheduled_at asc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// AssignEdition fills in the edition on a still-unassigned row. The
// conditional write makes concurrent reconciliation passes race free;
// the returned bool reports whether this call did the write.
func (r *GormDispatchRepository) AssignEdition(id, editionID uint) (bool, error) {
	result := r.db.Model(&models.DispatchSchedule{}).
		Where("id = ? AND edition_id IS NULL", id).
		Update("edition_id", editionID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListBySubscription returns a subscription's full calendar in date order.
func (r *GormDispatchRepository) ListBySubscription(subscriptionID uint) ([]models.DispatchSchedule, error) {
	var rows []models.DispatchSchedule
	if err := r.db.Where("subscription_id = ?", subscriptionID).
		Order("scheduled_at asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// List returns schedule rows matching the filter.
func (r *GormDispatchRepository) List(filter DispatchListFilter) ([]models.DispatchSchedule, int64, error) {
	query := r.db.Model(&models.DispatchSchedule{})

	if filter.SubscriptionID > 0 {
		query = query.Where("subscription_id = ?", filter.SubscriptionID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Unassigned {
		query = query.Where("edition_id IS NULL")
	}
	if filter.ScheduledFrom != nil {
		query = query.Where("scheduled_at >= ?", *filter.ScheduledFrom)
	}
	if filter.ScheduledTo != nil {
		query = query.Where("scheduled_at <= ?", *filter.ScheduledTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []models.DispatchSchedule
	if err := query.Order("scheduled_at asc, id asc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
