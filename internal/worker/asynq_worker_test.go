package worker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/magazine-next/internal/config"
	"github.com/magazine-next/internal/constants"
	"github.com/magazine-next/internal/models"
	"github.com/magazine-next/internal/provider"
	"github.com/magazine-next/internal/queue"
	"github.com/magazine-next/internal/repository"
	"github.com/magazine-next/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func setupConsumerTest(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Magazine{},
		&models.MagazineEdition{},
		&models.UserSubscription{},
		&models.DispatchSchedule{},
		&models.EditionPurchase{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	subRepo := repository.NewSubscriptionRepository(db)
	dispatchRepo := repository.NewDispatchRepository(db)
	editionRepo := repository.NewEditionRepository(db)
	container := &provider.Container{
		Config:              &config.Config{},
		DispatchService:     service.NewDispatchService(dispatchRepo, subRepo, editionRepo),
		SubscriptionService: service.NewSubscriptionService(subRepo, dispatchRepo, repository.NewEditionPurchaseRepository(db)),
	}
	return NewConsumer(container), db
}

func TestHandleDispatchAssignBadPayload(t *testing.T) {
	consumer, _ := setupConsumerTest(t)

	task := asynq.NewTask(queue.TaskDispatchAssign, []byte("{not json"))
	if err := consumer.handleDispatchAssign(context.Background(), task); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}

func TestHandleDispatchAssignFillsSlots(t *testing.T) {
	consumer, db := setupConsumerTest(t)

	magazine := &models.Magazine{Slug: "frontline", Title: "Frontline", IsActive: true}
	if err := db.Create(magazine).Error; err != nil {
		t.Fatalf("create magazine failed: %v", err)
	}
	published := time.Now().AddDate(0, -1, 0)
	edition := &models.MagazineEdition{MagazineID: magazine.ID, Title: "Issue 1", EditionNumber: 1, PublishedAt: &published}
	if err := db.Create(edition).Error; err != nil {
		t.Fatalf("create edition failed: %v", err)
	}
	ends := time.Now().AddDate(0, 1, 0)
	sub := &models.UserSubscription{
		UserID:       1,
		MagazineID:   &magazine.ID,
		PlanID:       1,
		DeliveryMode: constants.DeliveryModePhysical,
		Status:       constants.SubscriptionStatusActive,
		StartsAt:     time.Now().AddDate(0, -1, 0),
		EndsAt:       &ends,
		Currency:     "INR",
	}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("create subscription failed: %v", err)
	}
	row := &models.DispatchSchedule{
		SubscriptionID: sub.ID,
		ScheduledAt:    time.Now().AddDate(0, 0, -7),
		Status:         constants.DispatchStatusScheduled,
	}
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("create dispatch failed: %v", err)
	}

	task, err := queue.NewDispatchAssignTask(queue.DispatchAssignPayload{Limit: 10})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleDispatchAssign(context.Background(), task); err != nil {
		t.Fatalf("handleDispatchAssign error: %v", err)
	}

	var updated models.DispatchSchedule
	if err := db.First(&updated, row.ID).Error; err != nil {
		t.Fatalf("load dispatch failed: %v", err)
	}
	if updated.EditionID == nil || *updated.EditionID != edition.ID {
		t.Fatalf("expected edition %d assigned, got %v", edition.ID, updated.EditionID)
	}
}

func TestHandleSubscriptionExpireSweeps(t *testing.T) {
	consumer, db := setupConsumerTest(t)

	past := time.Now().AddDate(0, -1, 0)
	sub := &models.UserSubscription{
		UserID:       1,
		PlanID:       1,
		DeliveryMode: constants.DeliveryModeElectronic,
		Status:       constants.SubscriptionStatusActive,
		StartsAt:     past.AddDate(0, -3, 0),
		EndsAt:       &past,
		Currency:     "INR",
	}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("create subscription failed: %v", err)
	}

	task, err := queue.NewSubscriptionExpireTask(queue.SubscriptionExpirePayload{})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleSubscriptionExpire(context.Background(), task); err != nil {
		t.Fatalf("handleSubscriptionExpire error: %v", err)
	}

	var reloaded models.UserSubscription
	if err := db.First(&reloaded, sub.ID).Error; err != nil {
		t.Fatalf("load subscription failed: %v", err)
	}
	if reloaded.Status != constants.SubscriptionStatusExpired {
		t.Fatalf("expected EXPIRED, got %s", reloaded.Status)
	}
}

func TestNewServiceRequiresEnabledQueue(t *testing.T) {
	if _, err := NewService(nil, nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
	if _, err := NewService(&config.QueueConfig{Enabled: false}, nil); err == nil {
		t.Fatalf("expected error for disabled queue")
	}
}
