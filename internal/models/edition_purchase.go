package models

import (
	"time"

	"gorm.io/gorm"
)

// EditionPurchase grants a user permanent access to one edition.
type EditionPurchase struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                   // primary key
	UserID    uint           `gorm:"not null;uniqueIndex:uniq_user_edition" json:"user_id"`  // buyer
	EditionID uint           `gorm:"not null;uniqueIndex:uniq_user_edition" json:"edition_id"` // edition bought
	OrderID   *uint          `gorm:"index" json:"order_id,omitempty"`                        // originating edition order
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                                // purchase time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                         // soft delete time
}

// TableName sets the table name.
func (EditionPurchase) TableName() string {
	return "edition_purchases"
}
