package models

import (
	"time"

	"gorm.io/gorm"
)

// Reader is a profile a subscription can be taken out for, e.g. a child.
type Reader struct {
	ID        uint           `gorm:"primarykey" json:"id"`            // primary key
	UserID    uint           `gorm:"index;not null" json:"user_id"`   // owning account
	Name      string         `gorm:"not null" json:"name"`            // reader name
	BirthDate *time.Time     `json:"birth_date,omitempty"`            // optional date of birth
	Notes     string         `gorm:"type:text" json:"notes"`          // free-form notes
	CreatedAt time.Time      `gorm:"index" json:"created_at"`         // created time
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`         // updated time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                  // soft delete time
}

// TableName sets the table name.
func (Reader) TableName() string {
	return "readers"
}
