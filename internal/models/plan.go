package models

import (
	"time"

	"gorm.io/gorm"
)

// Plan is a subscription product definition.
type Plan struct {
	ID                    uint           `gorm:"primarykey" json:"id"`               // primary key
	Slug                  string         `gorm:"uniqueIndex;not null" json:"slug"`   // unique identifier
	Name                  string         `gorm:"not null" json:"name"`               // display name
	Description           string         `gorm:"type:text" json:"description"`       // blurb
	PriceCents            int64          `gorm:"not null;default:0" json:"price_cents"` // default per-period price in minor units
	Currency              string         `gorm:"type:varchar(8);default:'INR'" json:"currency"` // price currency
	MinMonths             int            `gorm:"not null;default:1" json:"min_months"` // minimum commitment in months
	MaxMonths             int            `gorm:"not null;default:12" json:"max_months"` // maximum commitment in months
	DeliveryMode          string         `gorm:"type:varchar(16);not null;default:'BOTH'" json:"delivery_mode"` // default delivery mode
	AutoDispatch          bool           `gorm:"not null;default:true" json:"auto_dispatch"` // generate dispatch calendar on activation
	DispatchFrequencyDays int            `gorm:"not null;default:30" json:"dispatch_frequency_days"` // days between dispatches
	IsActive              bool           `gorm:"default:true;index" json:"is_active"` // purchasable flag
	SortOrder             int            `gorm:"default:0;index" json:"sort_order"`  // listing weight
	CreatedAt             time.Time      `gorm:"index" json:"created_at"`            // created time
	UpdatedAt             time.Time      `json:"updated_at"`                         // updated time
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`                     // soft delete time
}

// TableName sets the table name.
func (Plan) TableName() string {
	return "plans"
}
