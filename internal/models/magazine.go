package models

import (
	"time"

	"gorm.io/gorm"
)

// Magazine is a publication readers subscribe to.
type Magazine struct {
	ID          uint           `gorm:"primarykey" json:"id"`               // primary key
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`   // unique identifier
	Title       string         `gorm:"not null" json:"title"`              // display title
	Description string         `gorm:"type:text" json:"description"`       // blurb
	CoverKey    string         `gorm:"type:varchar(500)" json:"cover_key"` // cover image storage key
	Language    string         `gorm:"type:varchar(16);default:'en'" json:"language"` // content language
	IsActive    bool           `gorm:"default:true;index" json:"is_active"` // listed flag
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`  // listing weight
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`            // created time
	UpdatedAt   time.Time      `json:"updated_at"`                         // updated time
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                     // soft delete time

	Editions []MagazineEdition `gorm:"foreignKey:MagazineID" json:"editions,omitempty"` // published issues
}

// TableName sets the table name.
func (Magazine) TableName() string {
	return "magazines"
}
