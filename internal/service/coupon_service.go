package service

import (
	"strings"
	"time"

	"github.com/magazine-next/internal/models"
	"github.com/magazine-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CouponService validates coupon codes and keeps the usage ledger.
type CouponService struct {
	couponRepo repository.CouponRepository
	usageRepo  repository.CouponUsageRepository
}

// NewCouponService creates a coupon service.
func NewCouponService(couponRepo repository.CouponRepository, usageRepo repository.CouponUsageRepository) *CouponService {
	return &CouponService{
		couponRepo: couponRepo,
		usageRepo:  usageRepo,
	}
}

// WithTx binds the service and its repositories to a transaction.
func (s *CouponService) WithTx(tx *gorm.DB) *CouponService {
	if tx == nil {
		return s
	}
	return &CouponService{
		couponRepo: s.couponRepo.WithTx(tx),
		usageRepo:  s.usageRepo.WithTx(tx),
	}
}

// Validate checks a coupon code against the supplied context. Checks run in
// a fixed order and short-circuit on the first failure so callers always see
// a deterministic reason. Read only, never records usage.
func (s *CouponService) Validate(code string, userID, planID, magazineID *uint) (*models.Coupon, error) {
	coupon, err := s.couponRepo.GetByCode(strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	if !coupon.IsActive {
		return coupon, ErrCouponInactive
	}
	if coupon.ExpiresAt != nil && coupon.ExpiresAt.Before(time.Now()) {
		return coupon, ErrCouponExpired
	}
	if coupon.PlanID != nil && planID != nil && *coupon.PlanID != *planID {
		return coupon, ErrCouponInvalidForPlan
	}
	if coupon.MagazineID != nil && magazineID != nil && *coupon.MagazineID != *magazineID {
		return coupon, ErrCouponInvalidForMag
	}
	if coupon.MaxUses != nil {
		count, err := s.usageRepo.CountByCoupon(coupon.ID)
		if err != nil {
			return coupon, err
		}
		if count >= int64(*coupon.MaxUses) {
			return coupon, ErrCouponExhausted
		}
	}
	if userID != nil && coupon.PerUserLimit != nil {
		count, err := s.usageRepo.CountByUser(coupon.ID, *userID)
		if err != nil {
			return coupon, err
		}
		if count >= int64(*coupon.PerUserLimit) {
			return coupon, ErrCouponUserLimitExceeded
		}
	}
	return coupon, nil
}

// Discount applies the coupon to a base amount. A percentage wins when both
// discount fields are set; the result is floored at zero.
func (s *CouponService) Discount(coupon *models.Coupon, baseCents int64) int64 {
	if coupon == nil {
		return baseCents
	}
	final := baseCents
	if coupon.PercentOff != nil {
		base := decimal.NewFromInt(baseCents)
		pct := decimal.NewFromInt(int64(*coupon.PercentOff)).Div(decimal.NewFromInt(100))
		final = baseCents - base.Mul(pct).Round(0).IntPart()
	} else if coupon.DiscountCents != nil {
		final = baseCents - *coupon.DiscountCents
	}
	if final < 0 {
		final = 0
	}
	return final
}

// RecordUsage appends one ledger row. Called only after the paid transition
// inside the same transaction, never during validation.
func (s *CouponService) RecordUsage(couponID uint, userID, subscriptionID *uint) error {
	return s.usageRepo.Create(&models.CouponUsage{
		CouponID:       couponID,
		UserID:         userID,
		SubscriptionID: subscriptionID,
	})
}

// CreateCoupon inserts a coupon, rejecting duplicate codes.
func (s *CouponService) CreateCoupon(coupon *models.Coupon) error {
	coupon.Code = strings.TrimSpace(coupon.Code)
	exist, err := s.couponRepo.GetByCode(coupon.Code)
	if err != nil {
		return err
	}
	if exist != nil {
		return ErrCouponCodeTaken
	}
	return s.couponRepo.Create(coupon)
}

// UpdateCoupon saves coupon edits.
func (s *CouponService) UpdateCoupon(coupon *models.Coupon) error {
	return s.couponRepo.Update(coupon)
}

// DeleteCoupon removes a coupon. The usage ledger is kept.
func (s *CouponService) DeleteCoupon(id uint) error {
	return s.couponRepo.Delete(id)
}

// GetCoupon fetches a coupon by id.
func (s *CouponService) GetCoupon(id uint) (*models.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	return coupon, nil
}

// ListCoupons returns coupons matching the filter.
func (s *CouponService) ListCoupons(filter repository.CouponListFilter) ([]models.Coupon, int64, error) {
	return s.couponRepo.List(filter)
}

// ListUsages returns a coupon's redemption ledger.
func (s *CouponService) ListUsages(couponID uint) ([]models.CouponUsage, error) {
	return s.usageRepo.ListByCoupon(couponID)
}
