package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon is a discount code. PercentOff and DiscountCents may both be set;
// the percentage is the one applied in that case.
type Coupon struct {
	ID            uint           `gorm:"primarykey" json:"id"`                 // primary key
	Code          string         `gorm:"uniqueIndex;not null" json:"code"`     // coupon code, case sensitive
	PercentOff    *int           `json:"percent_off,omitempty"`                // percentage discount 1-100
	DiscountCents *int64         `json:"discount_cents,omitempty"`             // fixed discount in minor units
	ExpiresAt     *time.Time     `gorm:"index" json:"expires_at,omitempty"`    // expiry time, nil means never
	MaxUses       *int           `json:"max_uses,omitempty"`                   // global usage cap, nil means unlimited
	PerUserLimit  *int           `json:"per_user_limit,omitempty"`             // per user usage cap, nil means unlimited
	PlanID        *uint          `gorm:"index" json:"plan_id,omitempty"`       // restrict to one plan
	MagazineID    *uint          `gorm:"index" json:"magazine_id,omitempty"`   // restrict to one magazine
	IsActive      bool           `gorm:"not null;default:true" json:"is_active"` // enabled flag
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`              // created time
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`              // updated time
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                       // soft delete time
}

// TableName sets the table name.
func (Coupon) TableName() string {
	return "coupons"
}
