package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/magazine-next/internal/models"
	"github.com/magazine-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupCouponServiceTest(t *testing.T) (*CouponService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:coupon_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Coupon{},
		&models.CouponUsage{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return NewCouponService(repository.NewCouponRepository(db), repository.NewCouponUsageRepository(db)), db
}

func createTestCoupon(t *testing.T, db *gorm.DB, coupon *models.Coupon) *models.Coupon {
	t.Helper()
	if coupon.Code == "" {
		coupon.Code = fmt.Sprintf("CODE%d", time.Now().UnixNano())
	}
	coupon.IsActive = true
	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	return coupon
}

func TestValidateCouponNotFound(t *testing.T) {
	svc, _ := setupCouponServiceTest(t)

	if _, err := svc.Validate("NOPE", nil, nil, nil); !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("expected ErrCouponNotFound, got %v", err)
	}
}

func TestValidateCouponInactive(t *testing.T) {
	svc, db := setupCouponServiceTest(t)

	coupon := createTestCoupon(t, db, &models.Coupon{Code: "OFF"})
	if err := db.Model(coupon).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate coupon failed: %v", err)
	}

	if _, err := svc.Validate("OFF", nil, nil, nil); !errors.Is(err, ErrCouponInactive) {
		t.Fatalf("expected ErrCouponInactive, got %v", err)
	}
}

func TestValidateCouponExpiredBeforeExhausted(t *testing.T) {
	svc, db := setupCouponServiceTest(t)

	// Expired and exhausted at once: the expiry check runs first.
	past := time.Now().Add(-time.Hour)
	maxUses := 1
	coupon := createTestCoupon(t, db, &models.Coupon{Code: "OLD", ExpiresAt: &past, MaxUses: &maxUses})
	if err := db.Create(&models.CouponUsage{CouponID: coupon.ID}).Error; err != nil {
		t.Fatalf("create usage failed: %v", err)
	}

	if _, err := svc.Validate("OLD", nil, nil, nil); !errors.Is(err, ErrCouponExpired) {
		t.Fatalf("expected ErrCouponExpired, got %v", err)
	}
}

func TestValidateCouponScopes(t *testing.T) {
	svc, db := setupCouponServiceTest(t)

	planID := uint(5)
	magazineID := uint(9)
	createTestCoupon(t, db, &models.Coupon{Code: "SCOPED", PlanID: &planID, MagazineID: &magazineID})

	otherPlan := uint(6)
	if _, err := svc.Validate("SCOPED", nil, &otherPlan, &magazineID); !errors.Is(err, ErrCouponInvalidForPlan) {
		t.Fatalf("expected ErrCouponInvalidForPlan, got %v", err)
	}

	otherMagazine := uint(10)
	if _, err := svc.Validate("SCOPED", nil, &planID, &otherMagazine); !errors.Is(err, ErrCouponInvalidForMag) {
		t.Fatalf("expected ErrCouponInvalidForMag, got %v", err)
	}

	if _, err := svc.Validate("SCOPED", nil, &planID, &magazineID); err != nil {
		t.Fatalf("expected matching scopes to pass, got %v", err)
	}
}

func TestValidateCouponExhausted(t *testing.T) {
	svc, db := setupCouponServiceTest(t)

	maxUses := 2
	coupon := createTestCoupon(t, db, &models.Coupon{Code: "CAP", MaxUses: &maxUses})
	for i := 0; i < 2; i++ {
		if err := db.Create(&models.CouponUsage{CouponID: coupon.ID}).Error; err != nil {
			t.Fatalf("create usage failed: %v", err)
		}
	}

	if _, err := svc.Validate("CAP", nil, nil, nil); !errors.Is(err, ErrCouponExhausted) {
		t.Fatalf("expected ErrCouponExhausted, got %v", err)
	}
}

func TestValidateCouponPerUserLimit(t *testing.T) {
	svc, db := setupCouponServiceTest(t)

	perUser := 1
	coupon := createTestCoupon(t, db, &models.Coupon{Code: "ONCE", PerUserLimit: &perUser})
	userID := uint(42)
	if err := db.Create(&models.CouponUsage{CouponID: coupon.ID, UserID: &userID}).Error; err != nil {
		t.Fatalf("create usage failed: %v", err)
	}

	if _, err := svc.Validate("ONCE", &userID, nil, nil); !errors.Is(err, ErrCouponUserLimitExceeded) {
		t.Fatalf("expected ErrCouponUserLimitExceeded, got %v", err)
	}

	// A different user is still within the limit.
	otherUser := uint(43)
	if _, err := svc.Validate("ONCE", &otherUser, nil, nil); err != nil {
		t.Fatalf("expected other user to pass, got %v", err)
	}
}

func TestDiscountPercentWinsOverFixed(t *testing.T) {
	svc, _ := setupCouponServiceTest(t)

	percent := 25
	fixed := int64(9999)
	coupon := &models.Coupon{PercentOff: &percent, DiscountCents: &fixed}
	if got := svc.Discount(coupon, 10000); got != 7500 {
		t.Fatalf("expected 7500 after 25%% off, got %d", got)
	}
}

func TestDiscountFlooredAtZero(t *testing.T) {
	svc, _ := setupCouponServiceTest(t)

	fixed := int64(5000)
	coupon := &models.Coupon{DiscountCents: &fixed}
	if got := svc.Discount(coupon, 3000); got != 0 {
		t.Fatalf("expected floor at 0, got %d", got)
	}
	if got := svc.Discount(nil, 3000); got != 3000 {
		t.Fatalf("expected nil coupon to keep base, got %d", got)
	}
}

func TestCreateCouponDuplicateCode(t *testing.T) {
	svc, db := setupCouponServiceTest(t)

	createTestCoupon(t, db, &models.Coupon{Code: "DUP"})

	err := svc.CreateCoupon(&models.Coupon{Code: " DUP ", IsActive: true})
	if !errors.Is(err, ErrCouponCodeTaken) {
		t.Fatalf("expected ErrCouponCodeTaken, got %v", err)
	}
}
