package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment is a money-received record, one per successful verification.
type Payment struct {
	ID                uint           `gorm:"primarykey" json:"id"`                     // primary key
	UserID            uint           `gorm:"index;not null" json:"user_id"`            // payer
	SubscriptionID    *uint          `gorm:"index" json:"subscription_id,omitempty"`   // subscription funded, nil for edition purchases
	EditionOrderID    *uint          `gorm:"index" json:"edition_order_id,omitempty"`  // edition order funded, nil for subscriptions
	AmountCents       int64          `gorm:"not null" json:"amount_cents"`             // amount in minor units
	Currency          string         `gorm:"type:varchar(8);not null" json:"currency"` // amount currency
	Provider          string         `gorm:"type:varchar(32);not null" json:"provider"` // payment rail, UPI
	ProviderPaymentID string         `gorm:"index" json:"provider_payment_id"`         // correlation id, the verified proof id
	Status            string         `gorm:"index;not null" json:"status"`             // PENDING or SUCCESS
	Metadata          JSON           `gorm:"type:json" json:"metadata"`                // rail-specific details
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`                  // created time
	UpdatedAt         time.Time      `gorm:"index" json:"updated_at"`                  // updated time
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                           // soft delete time
}

// TableName sets the table name.
func (Payment) TableName() string {
	return "payments"
}
