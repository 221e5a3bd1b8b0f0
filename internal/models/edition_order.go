package models

import (
	"time"

	"gorm.io/gorm"
)

// EditionOrder is a single-issue purchase intent, same PENDING to PAID
// lifecycle as PaymentOrder but without subscription or dispatch.
type EditionOrder struct {
	ID          uint           `gorm:"primarykey" json:"id"`                 // primary key
	OrderNo     string         `gorm:"uniqueIndex;not null" json:"order_no"` // external order number
	UserID      uint           `gorm:"index;not null" json:"user_id"`        // buyer
	EditionID   uint           `gorm:"index;not null" json:"edition_id"`     // edition bought
	AmountCents int64          `gorm:"not null;default:0" json:"amount_cents"` // price in minor units
	FinalCents  int64          `gorm:"not null;default:0" json:"final_cents"` // charged amount in minor units
	Currency    string         `gorm:"type:varchar(8);not null" json:"currency"` // amount currency
	Status      string         `gorm:"index;not null" json:"status"`         // PENDING or PAID
	PaidAt      *time.Time     `gorm:"index" json:"paid_at,omitempty"`       // verification time
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`              // created time
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`              // updated time
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                       // soft delete time

	Proofs []EditionOrderProof `gorm:"foreignKey:OrderID" json:"proofs,omitempty"` // uploaded payment proofs
}

// TableName sets the table name.
func (EditionOrder) TableName() string {
	return "edition_orders"
}
