package repository

import (
	"github.com/magazine-next/internal/models"

	"gorm.io/gorm"
)

// CouponUsageRepository is the coupon usage ledger data access interface.
// The ledger is append only.
type CouponUsageRepository interface {
	Create(usage *models.CouponUsage) error
	CountByCoupon(couponID uint) (int64, error)
	CountByUser(couponID, userID uint) (int64, error)
	ListByCoupon(couponID uint) ([]models.CouponUsage, error)
	WithTx(tx *gorm.DB) *GormCouponUsageRepository
}

// GormCouponUsageRepository is the GORM implementation.
type GormCouponUsageRepository struct {
	db *gorm.DB
}

// NewCouponUsageRepository creates a coupon usage repository.
func NewCouponUsageRepository(db *gorm.DB) *GormCouponUsageRepository {
	return &GormCouponUsageRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormCouponUsageRepository) WithTx(tx *gorm.DB) *GormCouponUsageRepository {
	if tx == nil {
		return r
	}
	return &GormCouponUsageRepository{db: tx}
}

// Create appends a ledger row.
func (r *GormCouponUsageRepository) Create(usage *models.CouponUsage) error {
	return r.db.Create(usage).Error
}

// CountByCoupon returns the global redemption count.
func (r *GormCouponUsageRepository) CountByCoupon(couponID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.CouponUsage{}).
		Where("coupon_id = ?", couponID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByUser returns one user's redemption count.
func (r *GormCouponUsageRepository) CountByUser(couponID, userID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.CouponUsage{}).
		Where("coupon_id = ? AND user_id = ?", couponID, userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListByCoupon returns all ledger rows for a coupon.
func (r *GormCouponUsageRepository) ListByCoupon(couponID uint) ([]models.CouponUsage, error) {
	var usages []models.CouponUsage
	if err := r.db.Where("coupon_id = ?", couponID).Order("id desc").Find(&usages).Error; err != nil {
		return nil, err
	}
	return usages, nil
}
