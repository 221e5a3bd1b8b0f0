package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/magazine-next/internal/constants"
	"github.com/magazine-next/internal/models"
	"github.com/magazine-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupSubscribeFlowTest(t *testing.T) (*OrderService, *VerificationService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:subscribe_flow_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Plan{},
		&models.Magazine{},
		&models.MagazineEdition{},
		&models.MagazinePlanPrice{},
		&models.Coupon{},
		&models.CouponUsage{},
		&models.PaymentOrder{},
		&models.EditionOrder{},
		&models.PaymentProof{},
		&models.EditionOrderProof{},
		&models.Address{},
		&models.Reader{},
		&models.UserSubscription{},
		&models.DispatchSchedule{},
		&models.Payment{},
		&models.EditionPurchase{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	planRepo := repository.NewPlanRepository(db)
	pricing := NewPricingService(planRepo, repository.NewPlanPriceRepository(db))
	coupons := NewCouponService(repository.NewCouponRepository(db), repository.NewCouponUsageRepository(db))
	orders := NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewEditionOrderRepository(db),
		repository.NewProofRepository(db),
		repository.NewEditionProofRepository(db),
		planRepo,
		repository.NewMagazineRepository(db),
		repository.NewEditionRepository(db),
		repository.NewAddressRepository(db),
		repository.NewReaderRepository(db),
		pricing,
		coupons,
		UPIAccount{VPA: "merchant@upi", Name: "Magazine Next"},
		0,
	)
	dispatch := NewDispatchService(
		repository.NewDispatchRepository(db),
		repository.NewSubscriptionRepository(db),
		repository.NewEditionRepository(db),
	)
	verification := NewVerificationService(
		repository.NewProofRepository(db),
		repository.NewEditionProofRepository(db),
		repository.NewOrderRepository(db),
		repository.NewEditionOrderRepository(db),
		planRepo,
		repository.NewSubscriptionRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewEditionPurchaseRepository(db),
		coupons,
		dispatch,
	)
	return orders, verification, db
}

// The complete subscribe path, driven through the services the handlers use:
// order creation with a coupon, proof upload, admin verification, and the
// resulting subscription, payment and dispatch calendar.
func TestSubscribeVerifyScheduleFlow(t *testing.T) {
	orders, verification, db := setupSubscribeFlowTest(t)

	plan := createTestPlan(t, db, func(p *models.Plan) {
		p.DeliveryMode = constants.DeliveryModePhysical
		p.AutoDispatch = true
		p.DispatchFrequencyDays = 30
	})
	magazine := &models.Magazine{Slug: "national-review", Title: "National Review", IsActive: true}
	if err := db.Create(magazine).Error; err != nil {
		t.Fatalf("create magazine failed: %v", err)
	}
	address := &models.Address{UserID: 1, Line1: "14 MG Road", City: "Pune", PostalCode: "411001"}
	if err := db.Create(address).Error; err != nil {
		t.Fatalf("create address failed: %v", err)
	}
	percent := 10
	coupon := &models.Coupon{Code: "WELCOME10", PercentOff: &percent, IsActive: true}
	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	summary, err := orders.CreateOrder(CreateOrderParams{
		UserID:     1,
		PlanID:     plan.ID,
		Months:     3,
		MagazineID: &magazine.ID,
		CouponCode: "WELCOME10",
	})
	if err != nil {
		t.Fatalf("CreateOrder error: %v", err)
	}
	if summary.AmountCents != 29700 || summary.FinalCents != 26730 {
		t.Fatalf("expected 29700 discounted to 26730, got %d/%d", summary.AmountCents, summary.FinalCents)
	}

	proof, err := orders.AttachProof(summary.OrderID, 1, "payments/flow.jpg", "")
	if err != nil {
		t.Fatalf("AttachProof error: %v", err)
	}

	result, err := verification.VerifyProof(proof.ID, 42)
	if err != nil {
		t.Fatalf("VerifyProof error: %v", err)
	}

	var subs []models.UserSubscription
	if err := db.Find(&subs).Error; err != nil {
		t.Fatalf("load subscriptions failed: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("expected exactly one subscription, got %d", len(subs))
	}
	sub := subs[0]
	if sub.Status != constants.SubscriptionStatusActive {
		t.Fatalf("expected ACTIVE subscription, got %s", sub.Status)
	}
	if sub.PriceCents != 26730 {
		t.Fatalf("expected discounted price snapshot, got %d", sub.PriceCents)
	}
	if sub.EndsAt == nil {
		t.Fatalf("expected EndsAt set")
	}
	wantEnd := sub.StartsAt.AddDate(0, 3, 0)
	if diff := sub.EndsAt.Sub(wantEnd); diff < -time.Second || diff > time.Second {
		t.Fatalf("expected EndsAt near %v, got %v", wantEnd, *sub.EndsAt)
	}

	var payments []models.Payment
	if err := db.Find(&payments).Error; err != nil {
		t.Fatalf("load payments failed: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("expected exactly one payment, got %d", len(payments))
	}
	if payments[0].Status != constants.PaymentStatusSuccess || payments[0].AmountCents != 26730 {
		t.Fatalf("unexpected payment %+v", payments[0])
	}
	if payments[0].ID != result.PaymentID {
		t.Fatalf("expected payment %d, got %d", result.PaymentID, payments[0].ID)
	}

	var rows []models.DispatchSchedule
	if err := db.Where("subscription_id = ?", sub.ID).Order("scheduled_at asc").Find(&rows).Error; err != nil {
		t.Fatalf("load dispatches failed: %v", err)
	}
	if len(rows) < 3 || len(rows) > 4 {
		t.Fatalf("expected 3-4 dispatch rows for 3 months at 30 days, got %d", len(rows))
	}
	if diff := rows[0].ScheduledAt.Sub(sub.StartsAt); diff < -time.Second || diff > time.Second {
		t.Fatalf("expected first dispatch at the subscription start, got %v vs %v", rows[0].ScheduledAt, sub.StartsAt)
	}
}
