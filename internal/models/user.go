package models

import (
	"time"

	"gorm.io/gorm"
)

// User account, readers and subscriptions hang off it.
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`              // primary key
	Email        string         `gorm:"uniqueIndex;not null" json:"email"` // login email
	PasswordHash string         `gorm:"not null" json:"-"`                 // password hash, never serialized
	Name         string         `gorm:"default:''" json:"name"`            // display name
	Phone        string         `gorm:"type:varchar(32)" json:"phone"`     // contact phone
	IsAdmin      bool           `gorm:"not null;default:false" json:"is_admin"` // back-office access flag
	Status       string         `gorm:"default:'active'" json:"status"`    // account status
	LastLoginAt  *time.Time     `json:"last_login_at"`                     // last login time
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`           // created time
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`           // updated time
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                    // soft delete time
}

// TableName sets the table name.
func (User) TableName() string {
	return "users"
}
