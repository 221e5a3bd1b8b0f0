package models

import (
	"time"

	"gorm.io/gorm"
)

// PaymentOrder is one subscribe intent awaiting manual payment verification.
// PAID is terminal.
type PaymentOrder struct {
	ID           uint           `gorm:"primarykey" json:"id"`                  // primary key
	OrderNo      string         `gorm:"uniqueIndex;not null" json:"order_no"`  // external order number
	UserID       uint           `gorm:"index;not null" json:"user_id"`         // buyer
	PlanID       uint           `gorm:"index;not null" json:"plan_id"`         // plan bought
	MagazineID   *uint          `gorm:"index" json:"magazine_id,omitempty"`    // optional magazine the plan applies to
	ReaderID     *uint          `gorm:"index" json:"reader_id,omitempty"`      // optional reader the subscription is for
	Months       int            `gorm:"not null" json:"months"`                // commitment length
	DeliveryMode string         `gorm:"type:varchar(16);not null" json:"delivery_mode"` // effective delivery mode
	AddressID    *uint          `gorm:"index" json:"address_id,omitempty"`     // shipping address for physical delivery
	CouponID     *uint          `gorm:"index" json:"coupon_id,omitempty"`      // applied coupon
	AmountCents  int64          `gorm:"not null;default:0" json:"amount_cents"` // pre-discount amount in minor units
	FinalCents   int64          `gorm:"not null;default:0" json:"final_cents"` // post-discount amount in minor units
	Currency     string         `gorm:"type:varchar(8);not null" json:"currency"` // amount currency
	Status       string         `gorm:"index;not null" json:"status"`          // PENDING or PAID
	PaidAt       *time.Time     `gorm:"index" json:"paid_at,omitempty"`        // verification time
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`               // created time
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`               // updated time
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                        // soft delete time

	Proofs []PaymentProof `gorm:"foreignKey:OrderID" json:"proofs,omitempty"` // uploaded payment proofs
}

// TableName sets the table name.
func (PaymentOrder) TableName() string {
	return "payment_orders"
}
