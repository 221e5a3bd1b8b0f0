package models

import (
	"time"

	"gorm.io/gorm"
)

// Address is a shipping address, owned by a user and optionally pinned to a reader.
type Address struct {
	ID         uint           `gorm:"primarykey" json:"id"`                // primary key
	UserID     uint           `gorm:"index;not null" json:"user_id"`       // owning account
	ReaderID   *uint          `gorm:"index" json:"reader_id,omitempty"`    // optional reader this address belongs to
	Line1      string         `gorm:"not null" json:"line1"`               // street line 1
	Line2      string         `gorm:"default:''" json:"line2"`             // street line 2
	City       string         `gorm:"not null" json:"city"`                // city
	State      string         `gorm:"default:''" json:"state"`             // state or province
	PostalCode string         `gorm:"type:varchar(16)" json:"postal_code"` // postal code
	Country    string         `gorm:"type:varchar(64);default:'India'" json:"country"` // country
	Phone      string         `gorm:"type:varchar(32)" json:"phone"`       // delivery contact phone
	IsDefault  bool           `gorm:"not null;default:false" json:"is_default"` // default address flag
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`             // created time
	UpdatedAt  time.Time      `gorm:"index" json:"updated_at"`             // updated time
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                      // soft delete time
}

// TableName sets the table name.
func (Address) TableName() string {
	return "addresses"
}
