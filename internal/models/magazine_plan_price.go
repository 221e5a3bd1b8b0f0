package models

import (
	"time"

	"gorm.io/gorm"
)

// MagazinePlanPrice overrides a plan's default price for one magazine and
// delivery mode. Absence of a row means the plan default applies.
type MagazinePlanPrice struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                            // primary key
	MagazineID   uint           `gorm:"not null;uniqueIndex:uniq_magazine_plan_mode" json:"magazine_id"` // magazine
	PlanID       uint           `gorm:"not null;uniqueIndex:uniq_magazine_plan_mode" json:"plan_id"`     // plan
	DeliveryMode string         `gorm:"type:varchar(16);not null;uniqueIndex:uniq_magazine_plan_mode" json:"delivery_mode"` // delivery mode
	PriceCents   int64          `gorm:"not null;default:0" json:"price_cents"` // override price in minor units
	Currency     string         `gorm:"type:varchar(8);default:'INR'" json:"currency"` // override currency
	IsActive     bool           `gorm:"not null;default:true" json:"is_active"` // override in effect
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`               // created time
	UpdatedAt    time.Time      `json:"updated_at"`                            // updated time
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                        // soft delete time
}

// TableName sets the table name.
func (MagazinePlanPrice) TableName() string {
	return "magazine_plan_prices"
}
