package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/magazine-next/internal/constants"
	"github.com/magazine-next/internal/models"
	"github.com/magazine-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:order_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
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
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	planRepo := repository.NewPlanRepository(db)
	priceRepo := repository.NewPlanPriceRepository(db)
	pricing := NewPricingService(planRepo, priceRepo)
	coupons := NewCouponService(repository.NewCouponRepository(db), repository.NewCouponUsageRepository(db))
	svc := NewOrderService(
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
	return svc, db
}

func createTestPlan(t *testing.T, db *gorm.DB, mutate func(*models.Plan)) *models.Plan {
	t.Helper()
	plan := &models.Plan{
		Slug:                  fmt.Sprintf("plan-%d", time.Now().UnixNano()),
		Name:                  "Digital Monthly",
		PriceCents:            9900,
		Currency:              "INR",
		MinMonths:             1,
		MaxMonths:             12,
		DeliveryMode:          constants.DeliveryModeElectronic,
		DispatchFrequencyDays: 30,
		IsActive:              true,
	}
	if mutate != nil {
		mutate(plan)
	}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("create plan failed: %v", err)
	}
	return plan
}

func createTestEdition(t *testing.T, db *gorm.DB, mutate func(*models.MagazineEdition)) *models.MagazineEdition {
	t.Helper()
	now := time.Now()
	edition := &models.MagazineEdition{
		MagazineID:    1,
		Title:         "Issue 1",
		EditionNumber: 1,
		PriceCents:    14900,
		Currency:      "INR",
		PublishedAt:   &now,
	}
	if mutate != nil {
		mutate(edition)
	}
	if err := db.Create(edition).Error; err != nil {
		t.Fatalf("create edition failed: %v", err)
	}
	return edition
}

func TestCreateOrderMonthsBounds(t *testing.T) {
	svc, db := setupOrderServiceTest(t)

	plan := createTestPlan(t, db, func(p *models.Plan) {
		p.MinMonths = 3
		p.MaxMonths = 12
	})

	_, err := svc.CreateOrder(CreateOrderParams{UserID: 1, PlanID: plan.ID, Months: 2})
	if !errors.Is(err, ErrMonthsBelowMinimum) {
		t.Fatalf("expected ErrMonthsBelowMinimum, got %v", err)
	}

	_, err = svc.CreateOrder(CreateOrderParams{UserID: 1, PlanID: plan.ID, Months: 13})
	if !errors.Is(err, ErrMonthsAboveMaximum) {
		t.Fatalf("expected ErrMonthsAboveMaximum, got %v", err)
	}
}

func TestCreateOrderInactivePlan(t *testing.T) {
	svc, db := setupOrderServiceTest(t)

	plan := createTestPlan(t, db, nil)
	if err := db.Model(plan).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate plan failed: %v", err)
	}

	_, err := svc.CreateOrder(CreateOrderParams{UserID: 1, PlanID: plan.ID, Months: 1})
	if !errors.Is(err, ErrPlanNotFound) {
		t.Fatalf("expected ErrPlanNotFound, got %v", err)
	}
}

func TestCreateOrderPhysicalRequiresAddress(t *testing.T) {
	svc, db := setupOrderServiceTest(t)

	plan := createTestPlan(t, db, func(p *models.Plan) {
		p.DeliveryMode = constants.DeliveryModePhysical
	})

	_, err := svc.CreateOrder(CreateOrderParams{UserID: 1, PlanID: plan.ID, Months: 1})
	if !errors.Is(err, ErrPhysicalAddressRequired) {
		t.Fatalf("expected ErrPhysicalAddressRequired, got %v", err)
	}

	// An address on the account unblocks the order.
	address := &models.Address{UserID: 1, Line1: "12 MG Road", City: "Pune", PostalCode: "411001"}
	if err := db.Create(address).Error; err != nil {
		t.Fatalf("create address failed: %v", err)
	}

	summary, err := svc.CreateOrder(CreateOrderParams{UserID: 1, PlanID: plan.ID, Months: 1})
	if err != nil {
		t.Fatalf("CreateOrder error: %v", err)
	}

	var order models.PaymentOrder
	if err := db.First(&order, summary.OrderID).Error; err != nil {
		t.Fatalf("load order failed: %v", err)
	}
	if order.AddressID == nil || *order.AddressID != address.ID {
		t.Fatalf("expected order pinned to address %d, got %v", address.ID, order.AddressID)
	}
}

func TestCreateOrderReaderAddressPreferred(t *testing.T) {
	svc, db := setupOrderServiceTest(t)

	plan := createTestPlan(t, db, func(p *models.Plan) {
		p.DeliveryMode = constants.DeliveryModePhysical
	})
	reader := &models.Reader{UserID: 1, Name: "Asha"}
	if err := db.Create(reader).Error; err != nil {
		t.Fatalf("create reader failed: %v", err)
	}
	userAddress := &models.Address{UserID: 1, Line1: "12 MG Road", City: "Pune"}
	if err := db.Create(userAddress).Error; err != nil {
		t.Fatalf("create address failed: %v", err)
	}
	readerAddress := &models.Address{UserID: 1, ReaderID: &reader.ID, Line1: "4 Hill View", City: "Nashik"}
	if err := db.Create(readerAddress).Error; err != nil {
		t.Fatalf("create address failed: %v", err)
	}

	summary, err := svc.CreateOrder(CreateOrderParams{UserID: 1, PlanID: plan.ID, Months: 1, ReaderID: &reader.ID})
	if err != nil {
		t.Fatalf("CreateOrder error: %v", err)
	}

	var order models.PaymentOrder
	if err := db.First(&order, summary.OrderID).Error; err != nil {
		t.Fatalf("load order failed: %v", err)
	}
	if order.AddressID == nil || *order.AddressID != readerAddress.ID {
		t.Fatalf("expected reader address %d, got %v", readerAddress.ID, order.AddressID)
	}
}

func TestCreateOrderAmountsWithOverrideAndCoupon(t *testing.T) {
	svc, db := setupOrderServiceTest(t)

	plan := createTestPlan(t, db, nil)
	magazine := &models.Magazine{Slug: "science-today", Title: "Science Today", IsActive: true}
	if err := db.Create(magazine).Error; err != nil {
		t.Fatalf("create magazine failed: %v", err)
	}
	override := &models.MagazinePlanPrice{
		MagazineID:   magazine.ID,
		PlanID:       plan.ID,
		DeliveryMode: constants.DeliveryModeElectronic,
		PriceCents:   7900,
		Currency:     "INR",
		IsActive:     true,
	}
	if err := db.Create(override).Error; err != nil {
		t.Fatalf("create override failed: %v", err)
	}
	percent := 10
	if err := db.Create(&models.Coupon{Code: "WELCOME10", PercentOff: &percent, IsActive: true}).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	summary, err := svc.CreateOrder(CreateOrderParams{
		UserID:     1,
		PlanID:     plan.ID,
		Months:     3,
		MagazineID: &magazine.ID,
		CouponCode: "WELCOME10",
	})
	if err != nil {
		t.Fatalf("CreateOrder error: %v", err)
	}
	if summary.AmountCents != 23700 {
		t.Fatalf("expected amount 3*7900=23700, got %d", summary.AmountCents)
	}
	if summary.FinalCents != 21330 {
		t.Fatalf("expected 10%% off 23700=21330, got %d", summary.FinalCents)
	}
	if !strings.HasPrefix(summary.UPI, "upi://pay?") {
		t.Fatalf("expected upi://pay URI, got %q", summary.UPI)
	}
	if !strings.Contains(summary.UPI, "am=213.30") {
		t.Fatalf("expected amount 213.30 in URI, got %q", summary.UPI)
	}

	var order models.PaymentOrder
	if err := db.First(&order, summary.OrderID).Error; err != nil {
		t.Fatalf("load order failed: %v", err)
	}
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("expected PENDING status, got %s", order.Status)
	}
	if order.CouponID == nil {
		t.Fatalf("expected coupon pinned on the order")
	}
}

func TestCreateOrderRejectedCouponWrapped(t *testing.T) {
	svc, db := setupOrderServiceTest(t)

	plan := createTestPlan(t, db, nil)
	past := time.Now().Add(-time.Hour)
	percent := 10
	if err := db.Create(&models.Coupon{Code: "GONE", PercentOff: &percent, ExpiresAt: &past, IsActive: true}).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	_, err := svc.CreateOrder(CreateOrderParams{UserID: 1, PlanID: plan.ID, Months: 1, CouponCode: "GONE"})
	if !errors.Is(err, ErrCouponExpired) {
		t.Fatalf("expected wrapped ErrCouponExpired, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "invalid_coupon:") {
		t.Fatalf("expected invalid_coupon prefix, got %q", err.Error())
	}

	// The rejection rolls the order back.
	var count int64
	if err := db.Model(&models.PaymentOrder{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no orders, found %d", count)
	}
}

func TestCreateEditionOrderFallbackPrice(t *testing.T) {
	svc, db := setupOrderServiceTest(t)

	edition := createTestEdition(t, db, func(e *models.MagazineEdition) {
		e.PriceCents = 0
		e.Currency = ""
	})

	summary, err := svc.CreateEditionOrder(1, edition.ID)
	if err != nil {
		t.Fatalf("CreateEditionOrder error: %v", err)
	}
	if summary.FinalCents != constants.DefaultEditionPriceCents {
		t.Fatalf("expected fallback price %d, got %d", constants.DefaultEditionPriceCents, summary.FinalCents)
	}
	if summary.Currency != constants.DefaultCurrency {
		t.Fatalf("expected fallback currency %s, got %s", constants.DefaultCurrency, summary.Currency)
	}
}

func TestCreateEditionOrderUnpublished(t *testing.T) {
	svc, db := setupOrderServiceTest(t)

	edition := createTestEdition(t, db, func(e *models.MagazineEdition) {
		e.PublishedAt = nil
	})

	if _, err := svc.CreateEditionOrder(1, edition.ID); !errors.Is(err, ErrEditionNotFound) {
		t.Fatalf("expected ErrEditionNotFound for draft, got %v", err)
	}
	if _, err := svc.CreateEditionOrder(1, 0); !errors.Is(err, ErrEditionIDRequired) {
		t.Fatalf("expected ErrEditionIDRequired, got %v", err)
	}
}

func TestAttachProofGuards(t *testing.T) {
	svc, db := setupOrderServiceTest(t)

	plan := createTestPlan(t, db, nil)
	summary, err := svc.CreateOrder(CreateOrderParams{UserID: 1, PlanID: plan.ID, Months: 1})
	if err != nil {
		t.Fatalf("CreateOrder error: %v", err)
	}

	if _, err := svc.AttachProof(summary.OrderID, 2, "payments/x.jpg", ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign order, got %v", err)
	}
	if _, err := svc.AttachProof(summary.OrderID, 1, "", ""); !errors.Is(err, ErrInvalidUpload) {
		t.Fatalf("expected ErrInvalidUpload with nothing attached, got %v", err)
	}
	if _, err := svc.AttachProof(summary.OrderID+100, 1, "payments/x.jpg", ""); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}

	proof, err := svc.AttachProof(summary.OrderID, 1, "payments/x.jpg", "")
	if err != nil {
		t.Fatalf("AttachProof error: %v", err)
	}
	if proof.ID == 0 || proof.OrderID != summary.OrderID {
		t.Fatalf("unexpected proof %+v", proof)
	}

	if err := db.Model(&models.PaymentOrder{}).Where("id = ?", summary.OrderID).
		Update("status", constants.OrderStatusPaid).Error; err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if _, err := svc.AttachProof(summary.OrderID, 1, "payments/y.jpg", ""); !errors.Is(err, ErrOrderAlreadyPaid) {
		t.Fatalf("expected ErrOrderAlreadyPaid, got %v", err)
	}
}
