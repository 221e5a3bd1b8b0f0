package main

import (
	"time"

	"github.com/magazine-next/internal/config"
	"github.com/magazine-next/internal/constants"
	"github.com/magazine-next/internal/logger"
	"github.com/magazine-next/internal/models"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	magazines := []models.Magazine{
		{
			Slug:        "science-today",
			Title:       "Science Today",
			Description: "Monthly digest of research, discoveries and interviews.",
			Language:    "en",
			IsActive:    true,
			SortOrder:   1,
		},
		{
			Slug:        "frontline-review",
			Title:       "Frontline Review",
			Description: "Long-form reporting on politics and society.",
			Language:    "en",
			IsActive:    true,
			SortOrder:   2,
		},
		{
			Slug:        "kahani-mahal",
			Title:       "Kahani Mahal",
			Description: "Short fiction and poetry, published every month.",
			Language:    "hi",
			IsActive:    true,
			SortOrder:   3,
		},
	}

	for _, mag := range magazines {
		var existing models.Magazine
		if err := models.DB.Where("slug = ?", mag.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&mag).Error; err != nil {
				stdLog.Printf("Failed to create magazine %s: %v", mag.Slug, err)
			} else {
				stdLog.Printf("Created magazine: %s", mag.Slug)
			}
		} else {
			stdLog.Printf("Magazine already exists: %s", mag.Slug)
		}
	}

	magazineIDs := map[string]uint{}
	var magazineList []models.Magazine
	if err := models.DB.Where("slug IN ?", []string{"science-today", "frontline-review", "kahani-mahal"}).Find(&magazineList).Error; err != nil {
		stdLog.Printf("Failed to load magazines: %v", err)
	}
	for _, mag := range magazineList {
		magazineIDs[mag.Slug] = mag.ID
	}
	scienceID := magazineIDs["science-today"]

	now := time.Now()
	editions := []models.MagazineEdition{
		{
			MagazineID:    scienceID,
			Title:         "Science Today, January",
			EditionNumber: 1,
			Description:   "The year in fusion research.",
			PageCount:     84,
			PriceCents:    14900,
			Currency:      "INR",
			PublishedAt:   &now,
		},
		{
			MagazineID:    scienceID,
			Title:         "Science Today, February",
			EditionNumber: 2,
			Description:   "Deep sea expeditions special.",
			PageCount:     92,
			PriceCents:    14900,
			Currency:      "INR",
		},
	}

	for _, ed := range editions {
		if ed.MagazineID == 0 {
			continue
		}
		var existing models.MagazineEdition
		if err := models.DB.Where("magazine_id = ? AND edition_number = ?", ed.MagazineID, ed.EditionNumber).First(&existing).Error; err != nil {
			if err := models.DB.Create(&ed).Error; err != nil {
				stdLog.Printf("Failed to create edition %d: %v", ed.EditionNumber, err)
			} else {
				stdLog.Printf("Created edition: %s", ed.Title)
			}
		} else {
			stdLog.Printf("Edition already exists: %s", ed.Title)
		}
	}

	plans := []models.Plan{
		{
			Slug:                  "digital-monthly",
			Name:                  "Digital Monthly",
			Description:           "Read every issue in the app, billed per month.",
			PriceCents:            9900,
			Currency:              "INR",
			MinMonths:             1,
			MaxMonths:             12,
			DeliveryMode:          constants.DeliveryModeElectronic,
			AutoDispatch:          false,
			DispatchFrequencyDays: 30,
			IsActive:              true,
			SortOrder:             1,
		},
		{
			Slug:                  "print-and-digital",
			Name:                  "Print and Digital",
			Description:           "Printed copy delivered to your door plus full digital access.",
			PriceCents:            19900,
			Currency:              "INR",
			MinMonths:             3,
			MaxMonths:             24,
			DeliveryMode:          constants.DeliveryModeBoth,
			AutoDispatch:          true,
			DispatchFrequencyDays: 30,
			IsActive:              true,
			SortOrder:             2,
		},
	}

	planIDs := map[string]uint{}
	for _, plan := range plans {
		var existing models.Plan
		if err := models.DB.Where("slug = ?", plan.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&plan).Error; err != nil {
				stdLog.Printf("Failed to create plan %s: %v", plan.Slug, err)
			} else {
				stdLog.Printf("Created plan: %s", plan.Slug)
				planIDs[plan.Slug] = plan.ID
			}
		} else {
			stdLog.Printf("Plan already exists: %s", plan.Slug)
			planIDs[plan.Slug] = existing.ID
		}
	}

	// Science Today carries a promotional digital price.
	if scienceID != 0 && planIDs["digital-monthly"] != 0 {
		override := models.MagazinePlanPrice{
			MagazineID:   scienceID,
			PlanID:       planIDs["digital-monthly"],
			DeliveryMode: constants.DeliveryModeElectronic,
			PriceCents:   7900,
			Currency:     "INR",
			IsActive:     true,
		}
		var existing models.MagazinePlanPrice
		if err := models.DB.Where("magazine_id = ? AND plan_id = ? AND delivery_mode = ?",
			override.MagazineID, override.PlanID, override.DeliveryMode).First(&existing).Error; err != nil {
			if err := models.DB.Create(&override).Error; err != nil {
				stdLog.Printf("Failed to create plan price override: %v", err)
			} else {
				stdLog.Printf("Created plan price override for science-today")
			}
		} else {
			stdLog.Printf("Plan price override already exists for science-today")
		}
	}

	expires := time.Now().AddDate(0, 3, 0)
	percentOff := 10
	maxUses := 500
	perUser := 1
	coupons := []models.Coupon{
		{
			Code:         "WELCOME10",
			PercentOff:   &percentOff,
			ExpiresAt:    &expires,
			MaxUses:      &maxUses,
			PerUserLimit: &perUser,
			IsActive:     true,
		},
	}

	for _, coupon := range coupons {
		var existing models.Coupon
		if err := models.DB.Where("code = ?", coupon.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&coupon).Error; err != nil {
				stdLog.Printf("Failed to create coupon %s: %v", coupon.Code, err)
			} else {
				stdLog.Printf("Created coupon: %s", coupon.Code)
			}
		} else {
			stdLog.Printf("Coupon already exists: %s", coupon.Code)
		}
	}

	stdLog.Printf("Seed finished")
}
