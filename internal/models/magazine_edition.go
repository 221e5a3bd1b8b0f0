package models

import (
	"time"

	"gorm.io/gorm"
)

// MagazineEdition is a single issue of a magazine.
type MagazineEdition struct {
	ID            uint           `gorm:"primarykey" json:"id"`                 // primary key
	MagazineID    uint           `gorm:"index;not null" json:"magazine_id"`    // owning magazine
	Title         string         `gorm:"not null" json:"title"`                // issue title
	EditionNumber int            `gorm:"not null;default:0" json:"edition_number"` // issue number within the magazine
	Description   string         `gorm:"type:text" json:"description"`         // issue blurb
	CoverKey      string         `gorm:"type:varchar(500)" json:"cover_key"`   // cover image storage key
	PdfKey        string         `gorm:"type:varchar(500)" json:"pdf_key"`     // PDF storage key
	PageCount     int            `gorm:"not null;default:0" json:"page_count"` // reader page count
	PriceCents    int64          `gorm:"not null;default:0" json:"price_cents"` // single-issue price in minor units
	Currency      string         `gorm:"type:varchar(8);default:'INR'" json:"currency"` // price currency
	PublishedAt   *time.Time     `gorm:"index" json:"published_at"`            // publish time, nil while draft
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`              // created time
	UpdatedAt     time.Time      `json:"updated_at"`                           // updated time
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                       // soft delete time
}

// TableName sets the table name.
func (MagazineEdition) TableName() string {
	return "magazine_editions"
}

// IsPublished reports whether the edition is visible to readers.
func (e MagazineEdition) IsPublished() bool {
	return e.PublishedAt != nil && !e.PublishedAt.After(time.Now())
}
