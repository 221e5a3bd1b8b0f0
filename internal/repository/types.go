package repository

import "time"

// PlanListFilter filters plan listings.
type PlanListFilter struct {
	Page       int
	PageSize   int
	Search     string
	OnlyActive bool
}

// MagazineListFilter filters magazine listings.
type MagazineListFilter struct {
	Page       int
	PageSize   int
	Search     string
	OnlyActive bool
}

// EditionListFilter filters edition listings.
type EditionListFilter struct {
	Page          int
	PageSize      int
	MagazineID    uint
	OnlyPublished bool
}

// CouponListFilter filters coupon listings.
type CouponListFilter struct {
	Page     int
	PageSize int
	Code     string
	IsActive *bool
}

// OrderListFilter filters subscription order listings.
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	PlanID      uint
	Status      string
	OrderNo     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// EditionOrderListFilter filters single-issue order listings.
type EditionOrderListFilter struct {
	Page      int
	PageSize  int
	UserID    uint
	EditionID uint
	Status    string
}

// SubscriptionListFilter filters subscription listings.
type SubscriptionListFilter struct {
	Page       int
	PageSize   int
	UserID     uint
	MagazineID uint
	PlanID     uint
	Status     string
}

// DispatchListFilter filters dispatch schedule listings.
type DispatchListFilter struct {
	Page           int
	PageSize       int
	SubscriptionID uint
	Status         string
	Unassigned     bool
	ScheduledFrom  *time.Time
	ScheduledTo    *time.Time
}

// PaymentListFilter filters payment listings.
type PaymentListFilter struct {
	Page           int
	PageSize       int
	UserID         uint
	SubscriptionID uint
	Status         string
}

// UserListFilter filters user listings.
type UserListFilter struct {
	Page     int
	PageSize int
	Search   string
	IsAdmin  *bool
}

// AddressListFilter filters address listings.
type AddressListFilter struct {
	Page     int
	PageSize int
	UserID   uint
	ReaderID uint
}
