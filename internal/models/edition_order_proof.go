package models

import (
	"time"

	"gorm.io/gorm"
)

// EditionOrderProof is the payment proof for a single-issue purchase.
type EditionOrderProof struct {
	ID         uint           `gorm:"primarykey" json:"id"`               // primary key
	OrderID    uint           `gorm:"index;not null" json:"order_id"`     // edition order the proof belongs to
	UserID     uint           `gorm:"index;not null" json:"user_id"`      // uploader
	FileKey    string         `gorm:"type:varchar(500)" json:"file_key"`  // storage key of the uploaded file
	URL        string         `gorm:"type:text" json:"url"`               // external proof URL when no file was uploaded
	Verified   bool           `gorm:"not null;default:false;index" json:"verified"` // verification flag, terminal once true
	VerifiedAt *time.Time     `gorm:"index" json:"verified_at,omitempty"` // verification time
	VerifiedBy *uint          `gorm:"index" json:"verified_by,omitempty"` // verifying admin
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`            // upload time
	UpdatedAt  time.Time      `json:"updated_at"`                         // updated time
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                     // soft delete time
}

// TableName sets the table name.
func (EditionOrderProof) TableName() string {
	return "edition_order_proofs"
}
