package models

import (
	"time"
)

// CouponUsage is an append-only ledger row backing the usage caps.
// Rows are never updated or deleted.
type CouponUsage struct {
	ID             uint       `gorm:"primarykey" json:"id"`                      // primary key
	CouponID       uint       `gorm:"index;not null" json:"coupon_id"`           // coupon
	UserID         *uint      `gorm:"index" json:"user_id,omitempty"`            // redeeming user
	SubscriptionID *uint      `gorm:"index" json:"subscription_id,omitempty"`    // subscription the discount applied to
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`                   // redemption time
}

// TableName sets the table name.
func (CouponUsage) TableName() string {
	return "coupon_usages"
}
