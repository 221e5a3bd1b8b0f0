package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/magazine-next/internal/constants"
	"github.com/magazine-next/internal/models"
	"github.com/magazine-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAccessServiceTest(t *testing.T) (*AccessService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:access_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Magazine{},
		&models.MagazineEdition{},
		&models.EditionPurchase{},
		&models.UserSubscription{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return NewAccessService(
		repository.NewEditionRepository(db),
		repository.NewEditionPurchaseRepository(db),
		repository.NewSubscriptionRepository(db),
	), db
}

func TestCanAccessMissingEdition(t *testing.T) {
	svc, _ := setupAccessServiceTest(t)

	if _, err := svc.CanAccess(1, false, 12345); !errors.Is(err, ErrEditionNotFound) {
		t.Fatalf("expected ErrEditionNotFound, got %v", err)
	}
}

func TestCanAccessDeniedWithoutRights(t *testing.T) {
	svc, db := setupAccessServiceTest(t)

	edition := createTestEdition(t, db, nil)
	if _, err := svc.CanAccess(1, false, edition.ID); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}

func TestCanAccessAdminBypass(t *testing.T) {
	svc, db := setupAccessServiceTest(t)

	edition := createTestEdition(t, db, nil)
	got, err := svc.CanAccess(1, true, edition.ID)
	if err != nil {
		t.Fatalf("CanAccess error: %v", err)
	}
	if got.ID != edition.ID {
		t.Fatalf("expected edition %d, got %d", edition.ID, got.ID)
	}
}

func TestCanAccessViaPurchase(t *testing.T) {
	svc, db := setupAccessServiceTest(t)

	edition := createTestEdition(t, db, nil)
	if err := db.Create(&models.EditionPurchase{UserID: 5, EditionID: edition.ID}).Error; err != nil {
		t.Fatalf("create purchase failed: %v", err)
	}

	if _, err := svc.CanAccess(5, false, edition.ID); err != nil {
		t.Fatalf("expected buyer to pass, got %v", err)
	}
	if _, err := svc.CanAccess(6, false, edition.ID); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected other user denied, got %v", err)
	}
}

func TestCanAccessViaSubscription(t *testing.T) {
	svc, db := setupAccessServiceTest(t)

	magazine := &models.Magazine{Slug: "science-today", Title: "Science Today", IsActive: true}
	if err := db.Create(magazine).Error; err != nil {
		t.Fatalf("create magazine failed: %v", err)
	}
	edition := createTestEdition(t, db, func(e *models.MagazineEdition) {
		e.MagazineID = magazine.ID
	})

	future := time.Now().AddDate(0, 1, 0)
	sub := &models.UserSubscription{
		UserID:       9,
		MagazineID:   &magazine.ID,
		PlanID:       1,
		DeliveryMode: constants.DeliveryModeElectronic,
		Status:       constants.SubscriptionStatusActive,
		StartsAt:     time.Now().AddDate(0, -1, 0),
		EndsAt:       &future,
		Currency:     "INR",
	}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("create subscription failed: %v", err)
	}

	if _, err := svc.CanAccess(9, false, edition.ID); err != nil {
		t.Fatalf("expected active subscriber to pass, got %v", err)
	}

	// Expiry takes effect in real time.
	past := time.Now().AddDate(0, 0, -1)
	if err := db.Model(sub).Update("ends_at", past).Error; err != nil {
		t.Fatalf("expire subscription failed: %v", err)
	}
	if _, err := svc.CanAccess(9, false, edition.ID); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected expired subscriber denied, got %v", err)
	}
}
