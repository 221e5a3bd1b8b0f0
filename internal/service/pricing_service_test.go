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

func setupPricingServiceTest(t *testing.T) (*PricingService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:pricing_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Magazine{},
		&models.Plan{},
		&models.MagazinePlanPrice{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return NewPricingService(repository.NewPlanRepository(db), repository.NewPlanPriceRepository(db)), db
}

func TestResolvePricePlanDefault(t *testing.T) {
	svc, _ := setupPricingServiceTest(t)

	plan := &models.Plan{ID: 1, PriceCents: 9900, Currency: "INR"}
	price, err := svc.ResolvePrice(plan, nil, constants.DeliveryModeElectronic)
	if err != nil {
		t.Fatalf("ResolvePrice error: %v", err)
	}
	if price.PriceCents != 9900 || price.Currency != "INR" {
		t.Fatalf("expected plan default 9900 INR, got %+v", price)
	}
}

func TestResolvePriceMagazineOverrideWins(t *testing.T) {
	svc, db := setupPricingServiceTest(t)

	plan := &models.Plan{Slug: "digital", Name: "Digital", PriceCents: 9900, Currency: "INR", DeliveryMode: constants.DeliveryModeElectronic}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("create plan failed: %v", err)
	}
	override := &models.MagazinePlanPrice{
		MagazineID:   7,
		PlanID:       plan.ID,
		DeliveryMode: constants.DeliveryModeElectronic,
		PriceCents:   5000,
		Currency:     "INR",
		IsActive:     true,
	}
	if err := db.Create(override).Error; err != nil {
		t.Fatalf("create override failed: %v", err)
	}

	magazineID := uint(7)
	price, err := svc.ResolvePrice(plan, &magazineID, constants.DeliveryModeElectronic)
	if err != nil {
		t.Fatalf("ResolvePrice error: %v", err)
	}
	if price.PriceCents != 5000 {
		t.Fatalf("expected override 5000, got %d", price.PriceCents)
	}

	// A different delivery mode has no override and falls back to the plan.
	price, err = svc.ResolvePrice(plan, &magazineID, constants.DeliveryModePhysical)
	if err != nil {
		t.Fatalf("ResolvePrice error: %v", err)
	}
	if price.PriceCents != 9900 {
		t.Fatalf("expected plan default 9900, got %d", price.PriceCents)
	}

	// A different magazine falls back too.
	otherMagazine := uint(8)
	price, err = svc.ResolvePrice(plan, &otherMagazine, constants.DeliveryModeElectronic)
	if err != nil {
		t.Fatalf("ResolvePrice error: %v", err)
	}
	if price.PriceCents != 9900 {
		t.Fatalf("expected plan default 9900, got %d", price.PriceCents)
	}
}

func TestResolvePriceInactiveOverrideIgnored(t *testing.T) {
	svc, db := setupPricingServiceTest(t)

	plan := &models.Plan{Slug: "print", Name: "Print", PriceCents: 19900, Currency: "INR", DeliveryMode: constants.DeliveryModeBoth}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("create plan failed: %v", err)
	}
	override := &models.MagazinePlanPrice{
		MagazineID:   3,
		PlanID:       plan.ID,
		DeliveryMode: constants.DeliveryModeBoth,
		PriceCents:   12000,
		Currency:     "INR",
		IsActive:     false,
	}
	if err := db.Create(override).Error; err != nil {
		t.Fatalf("create override failed: %v", err)
	}

	magazineID := uint(3)
	price, err := svc.ResolvePrice(plan, &magazineID, constants.DeliveryModeBoth)
	if err != nil {
		t.Fatalf("ResolvePrice error: %v", err)
	}
	if price.PriceCents != 19900 {
		t.Fatalf("expected plan default 19900 for inactive override, got %d", price.PriceCents)
	}
}
