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

func setupDispatchServiceTest(t *testing.T) (*DispatchService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:dispatch_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Magazine{},
		&models.MagazineEdition{},
		&models.UserSubscription{},
		&models.DispatchSchedule{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return NewDispatchService(
		repository.NewDispatchRepository(db),
		repository.NewSubscriptionRepository(db),
		repository.NewEditionRepository(db),
	), db
}

func createTestSubscription(t *testing.T, db *gorm.DB, magazineID *uint, startsAt time.Time, endsAt *time.Time) *models.UserSubscription {
	t.Helper()
	sub := &models.UserSubscription{
		UserID:       1,
		MagazineID:   magazineID,
		PlanID:       1,
		DeliveryMode: constants.DeliveryModePhysical,
		Status:       constants.SubscriptionStatusActive,
		StartsAt:     startsAt,
		EndsAt:       endsAt,
		Currency:     "INR",
	}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("create subscription failed: %v", err)
	}
	return sub
}

func TestGenerateCalendarRowCount(t *testing.T) {
	svc, db := setupDispatchServiceTest(t)

	starts := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	ends := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
	sub := createTestSubscription(t, db, nil, starts, &ends)

	// Jan 1, Jan 31 and Mar 2 fall inside the window; Apr 1 is excluded.
	count, err := svc.GenerateCalendar(db, sub, 30)
	if err != nil {
		t.Fatalf("GenerateCalendar error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 rows, got %d", count)
	}

	var rows []models.DispatchSchedule
	if err := db.Where("subscription_id = ?", sub.ID).Order("scheduled_at").Find(&rows).Error; err != nil {
		t.Fatalf("load rows failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 persisted rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.EditionID != nil {
			t.Fatalf("expected nil edition without a magazine, got %v", row.EditionID)
		}
		if row.Status != constants.DispatchStatusScheduled {
			t.Fatalf("expected SCHEDULED, got %s", row.Status)
		}
	}
}

func TestGenerateCalendarOpenEnded(t *testing.T) {
	svc, db := setupDispatchServiceTest(t)

	sub := createTestSubscription(t, db, nil, time.Now(), nil)
	count, err := svc.GenerateCalendar(db, sub, 30)
	if err != nil {
		t.Fatalf("GenerateCalendar error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no rows without an end date, got %d", count)
	}
}

func TestGenerateCalendarPreResolvesEditions(t *testing.T) {
	svc, db := setupDispatchServiceTest(t)

	magazine := &models.Magazine{Slug: "science-today", Title: "Science Today", IsActive: true}
	if err := db.Create(magazine).Error; err != nil {
		t.Fatalf("create magazine failed: %v", err)
	}
	published := time.Date(2022, 12, 15, 0, 0, 0, 0, time.UTC)
	edition := &models.MagazineEdition{MagazineID: magazine.ID, Title: "Issue 12", EditionNumber: 12, PublishedAt: &published}
	if err := db.Create(edition).Error; err != nil {
		t.Fatalf("create edition failed: %v", err)
	}

	starts := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	ends := time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)
	sub := createTestSubscription(t, db, &magazine.ID, starts, &ends)

	if _, err := svc.GenerateCalendar(db, sub, 30); err != nil {
		t.Fatalf("GenerateCalendar error: %v", err)
	}

	var rows []models.DispatchSchedule
	if err := db.Where("subscription_id = ?", sub.ID).Find(&rows).Error; err != nil {
		t.Fatalf("load rows failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.EditionID == nil || *row.EditionID != edition.ID {
			t.Fatalf("expected edition %d pre-resolved, got %v", edition.ID, row.EditionID)
		}
	}
}

func TestAssignEditionsFillsAfterPublish(t *testing.T) {
	svc, db := setupDispatchServiceTest(t)

	magazine := &models.Magazine{Slug: "frontline", Title: "Frontline", IsActive: true}
	if err := db.Create(magazine).Error; err != nil {
		t.Fatalf("create magazine failed: %v", err)
	}

	starts := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	ends := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
	sub := createTestSubscription(t, db, &magazine.ID, starts, &ends)

	// No edition exists yet, so the slots stay unassigned.
	if _, err := svc.GenerateCalendar(db, sub, 30); err != nil {
		t.Fatalf("GenerateCalendar error: %v", err)
	}

	published := time.Date(2023, 2, 20, 0, 0, 0, 0, time.UTC)
	edition := &models.MagazineEdition{MagazineID: magazine.ID, Title: "Issue 3", EditionNumber: 3, PublishedAt: &published}
	if err := db.Create(edition).Error; err != nil {
		t.Fatalf("create edition failed: %v", err)
	}

	result, err := svc.AssignEditions(100)
	if err != nil {
		t.Fatalf("AssignEditions error: %v", err)
	}
	if result.Updated != 2 {
		t.Fatalf("expected 2 assignments, got %+v", result)
	}

	// Re-running is a no-op.
	result, err = svc.AssignEditions(100)
	if err != nil {
		t.Fatalf("AssignEditions error: %v", err)
	}
	if result.Scanned != 0 || result.Updated != 0 {
		t.Fatalf("expected nothing left to assign, got %+v", result)
	}
}

func TestAssignEditionsIgnoresMagazinelessBacklog(t *testing.T) {
	svc, db := setupDispatchServiceTest(t)

	magazine := &models.Magazine{Slug: "outlook-weekly", Title: "Outlook Weekly", IsActive: true}
	if err := db.Create(magazine).Error; err != nil {
		t.Fatalf("create magazine failed: %v", err)
	}
	published := time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC)
	edition := &models.MagazineEdition{MagazineID: magazine.ID, Title: "Issue 2", EditionNumber: 2, PublishedAt: &published}
	if err := db.Create(edition).Error; err != nil {
		t.Fatalf("create edition failed: %v", err)
	}

	// A magazineless subscription owns the oldest unassigned slots.
	oldEnds := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	plain := createTestSubscription(t, db, nil, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), &oldEnds)
	if _, err := svc.GenerateCalendar(db, plain, 30); err != nil {
		t.Fatalf("GenerateCalendar error: %v", err)
	}

	newEnds := time.Date(2023, 2, 15, 0, 0, 0, 0, time.UTC)
	scoped := createTestSubscription(t, db, &magazine.ID, time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC), &newEnds)
	if _, err := svc.GenerateCalendar(db, scoped, 30); err != nil {
		t.Fatalf("GenerateCalendar error: %v", err)
	}
	if err := db.Model(&models.DispatchSchedule{}).
		Where("subscription_id = ?", scoped.ID).
		Update("edition_id", nil).Error; err != nil {
		t.Fatalf("clear assignments failed: %v", err)
	}

	// Even with limit 1, the pass must see the assignable row instead of
	// burning the window on rows that can never be assigned.
	result, err := svc.AssignEditions(1)
	if err != nil {
		t.Fatalf("AssignEditions error: %v", err)
	}
	if result.Scanned != 1 || result.Updated != 1 {
		t.Fatalf("expected the assignable row to win the window, got %+v", result)
	}

	result, err = svc.AssignEditions(10)
	if err != nil {
		t.Fatalf("AssignEditions error: %v", err)
	}
	if result.Scanned != 0 || result.Updated != 0 {
		t.Fatalf("expected no remaining candidates, got %+v", result)
	}

	var plainRows []models.DispatchSchedule
	if err := db.Where("subscription_id = ?", plain.ID).Find(&plainRows).Error; err != nil {
		t.Fatalf("load rows failed: %v", err)
	}
	for _, row := range plainRows {
		if row.EditionID != nil {
			t.Fatalf("magazineless row must stay unassigned, got %v", row.EditionID)
		}
	}
}

func TestAssignEditionsSkipsFuturePublished(t *testing.T) {
	svc, db := setupDispatchServiceTest(t)

	magazine := &models.Magazine{Slug: "kahani-mahal", Title: "Kahani Mahal", IsActive: true}
	if err := db.Create(magazine).Error; err != nil {
		t.Fatalf("create magazine failed: %v", err)
	}

	starts := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	ends := time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)
	sub := createTestSubscription(t, db, &magazine.ID, starts, &ends)
	if _, err := svc.GenerateCalendar(db, sub, 30); err != nil {
		t.Fatalf("GenerateCalendar error: %v", err)
	}

	// Published after the scheduled date, so the slot stays empty.
	published := time.Date(2023, 3, 10, 0, 0, 0, 0, time.UTC)
	edition := &models.MagazineEdition{MagazineID: magazine.ID, Title: "Issue 1", EditionNumber: 1, PublishedAt: &published}
	if err := db.Create(edition).Error; err != nil {
		t.Fatalf("create edition failed: %v", err)
	}

	result, err := svc.AssignEditions(100)
	if err != nil {
		t.Fatalf("AssignEditions error: %v", err)
	}
	if result.Scanned != 1 || result.Updated != 0 {
		t.Fatalf("expected scan without assignment, got %+v", result)
	}
}

func TestUpdateStatusStampsTimes(t *testing.T) {
	svc, db := setupDispatchServiceTest(t)

	sub := createTestSubscription(t, db, nil, time.Now(), nil)
	row := &models.DispatchSchedule{
		SubscriptionID: sub.ID,
		ScheduledAt:    time.Now(),
		Status:         constants.DispatchStatusScheduled,
	}
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("create dispatch failed: %v", err)
	}

	updated, err := svc.UpdateStatus(row.ID, UpdateStatusParams{
		Status:       constants.DispatchStatusDelivered,
		Courier:      "India Post",
		TrackingCode: "RR123456789IN",
	})
	if err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}
	if updated.DispatchedAt == nil || updated.DeliveredAt == nil {
		t.Fatalf("expected both timestamps stamped, got %+v", updated)
	}
	if updated.Courier != "India Post" || updated.TrackingCode != "RR123456789IN" {
		t.Fatalf("courier fields not saved: %+v", updated)
	}
}
