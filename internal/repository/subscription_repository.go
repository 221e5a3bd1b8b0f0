package repository

import (
	"errors"
	"time"

	"github.com/magazine-next/internal/constants"
	"github.com/magazine-next/internal/models"

	"gorm.io/gorm"
)

// SubscriptionRepository is the subscription data access interface.
type SubscriptionRepository interface {
	GetByID(id uint) (*models.UserSubscription, error)
	Create(sub *models.UserSubscription) error
	Update(sub *models.UserSubscription) error
	HasActiveForMagazine(userID, magazineID uint, at time.Time) (bool, error)
	List(filter SubscriptionListFilter) ([]models.UserSubscription, int64, error)
	ExpireEnded(at time.Time) (int64, error)
	WithTx(tx *gorm.DB) *GormSubscriptionRepository
}

// GormSubscriptionRepository is the GORM implementation.
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a subscription repository.
func NewSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormSubscriptionRepository) WithTx(tx *gorm.DB) *GormSubscriptionRepository {
	if tx == nil {
		return r
	}
	return &GormSubscriptionRepository{db: tx}
}

// GetByID fetches a subscription by id.
func (r *GormSubscriptionRepository) GetByID(id uint) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	if err := r.db.First(&sub, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

// Create inserts a subscription.
func (r *GormSubscriptionRepository) Create(sub *models.UserSubscription) error {
	return r.db.Create(sub).Error
}

// Update saves a subscription.
func (r *GormSubscriptionRepository) Update(sub *models.UserSubscription) error {
	return r.db.Save(sub).Error
}

// HasActiveForMagazine reports whether the user holds an ACTIVE subscription
// covering the magazine at the given instant. A nil ends_at never expires.
func (r *GormSubscriptionRepository) HasActiveForMagazine(userID, magazineID uint, at time.Time) (bool, error) {
	var count int64
	if err := r.db.Model(&models.UserSubscription{}).
		Where("user_id = ? AND magazine_id = ? AND status = ?", userID, magazineID, constants.SubscriptionStatusActive).
		Where("ends_at IS NULL OR ends_at > ?", at).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns subscriptions matching the filter.
func (r *GormSubscriptionRepository) List(filter SubscriptionListFilter) ([]models.UserSubscription, int64, error) {
	query := r.db.Model(&models.UserSubscription{})

	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.MagazineID > 0 {
		query = query.Where("magazine_id = ?", filter.MagazineID)
	}
	if filter.PlanID > 0 {
		query = query.Where("plan_id = ?", filter.PlanID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var subs []models.UserSubscription
	if err := query.Order("id desc").Find(&subs).Error; err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

// ExpireEnded marks ACTIVE subscriptions whose window has closed as EXPIRED.
func (r *GormSubscriptionRepository) ExpireEnded(at time.Time) (int64, error) {
	result := r.db.Model(&models.UserSubscription{}).
		Where("status = ? AND ends_at IS NOT NULL AND ends_at <= ?", constants.SubscriptionStatusActive, at).
		Update("status", constants.SubscriptionStatusExpired)
	return result.RowsAffected, result.Error
}
