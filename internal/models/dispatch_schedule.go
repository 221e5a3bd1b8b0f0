package models

import (
	"time"

	"gorm.io/gorm"
)

// DispatchSchedule is one slot in a subscription's dispatch calendar.
// EditionID stays nil until an edition published at or before ScheduledAt
// exists; reconciliation fills it in later.
type DispatchSchedule struct {
	ID             uint           `gorm:"primarykey" json:"id"`                   // primary key
	SubscriptionID uint           `gorm:"index;not null" json:"subscription_id"`  // owning subscription
	EditionID      *uint          `gorm:"index" json:"edition_id,omitempty"`      // assigned edition, nil until resolved
	ScheduledAt    time.Time      `gorm:"index;not null" json:"scheduled_at"`     // planned dispatch date
	Status         string         `gorm:"index;not null" json:"status"`           // SCHEDULED through DELIVERED lifecycle
	Courier        string         `gorm:"type:varchar(64)" json:"courier"`        // courier name
	TrackingCode   string         `gorm:"type:varchar(128)" json:"tracking_code"` // courier tracking code
	DispatchedAt   *time.Time     `gorm:"index" json:"dispatched_at,omitempty"`   // handed to courier time
	DeliveredAt    *time.Time     `gorm:"index" json:"delivered_at,omitempty"`    // delivery confirmation time
	Notes          string         `gorm:"type:text" json:"notes"`                 // operator notes
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                // created time
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`                // updated time
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                         // soft delete time
}

// TableName sets the table name.
func (DispatchSchedule) TableName() string {
	return "dispatch_schedules"
}
