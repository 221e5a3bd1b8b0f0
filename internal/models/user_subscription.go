package models

import (
	"time"

	"gorm.io/gorm"
)

// UserSubscription is an activated subscription. Created exactly once per
// verified order; PriceCents is a snapshot, not the live plan price.
type UserSubscription struct {
	ID           uint           `gorm:"primarykey" json:"id"`               // primary key
	UserID       uint           `gorm:"index;not null" json:"user_id"`      // subscriber
	ReaderID     *uint          `gorm:"index" json:"reader_id,omitempty"`   // optional reader the subscription is for
	MagazineID   *uint          `gorm:"index" json:"magazine_id,omitempty"` // optional magazine scope
	PlanID       uint           `gorm:"index;not null" json:"plan_id"`      // plan subscribed to
	DeliveryMode string         `gorm:"type:varchar(16);not null" json:"delivery_mode"` // effective delivery mode
	AddressID    *uint          `gorm:"index" json:"address_id,omitempty"`  // shipping address
	Status       string         `gorm:"index;not null" json:"status"`       // ACTIVE, CANCELLED, EXPIRED or PENDING
	StartsAt     time.Time      `gorm:"index;not null" json:"starts_at"`    // activation time
	EndsAt       *time.Time     `gorm:"index" json:"ends_at"`               // expiry time, nil means open ended
	AutoRenew    bool           `gorm:"not null;default:false" json:"auto_renew"` // renewal flag
	PriceCents   int64          `gorm:"not null;default:0" json:"price_cents"` // charged amount snapshot in minor units
	Currency     string         `gorm:"type:varchar(8);not null" json:"currency"` // snapshot currency
	CouponID     *uint          `gorm:"index" json:"coupon_id,omitempty"`   // coupon applied at purchase
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`            // created time
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`            // updated time
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                     // soft delete time

	Dispatches []DispatchSchedule `gorm:"foreignKey:SubscriptionID" json:"dispatches,omitempty"` // dispatch calendar
}

// TableName sets the table name.
func (UserSubscription) TableName() string {
	return "user_subscriptions"
}
