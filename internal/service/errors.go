package service

import "errors"

// Business-rule errors. The messages are stable machine-readable codes that
// handlers surface to the client unchanged.
var (
	// order validation
	ErrPlanNotFound            = errors.New("plan_not_found")
	ErrMonthsBelowMinimum      = errors.New("months_below_minimum")
	ErrMonthsAboveMaximum      = errors.New("months_above_maximum")
	ErrPhysicalAddressRequired = errors.New("physical_address_required")
	ErrEditionIDRequired       = errors.New("editionId_required")
	ErrMagazineNotFound        = errors.New("magazine_not_found")
	ErrEditionNotFound         = errors.New("edition_not_found")

	// coupon validation, ordered as checked
	ErrCouponNotFound          = errors.New("not_found")
	ErrCouponInactive          = errors.New("inactive")
	ErrCouponExpired           = errors.New("expired")
	ErrCouponInvalidForPlan    = errors.New("invalid_for_plan")
	ErrCouponInvalidForMag     = errors.New("invalid_for_magazine")
	ErrCouponExhausted         = errors.New("exhausted")
	ErrCouponUserLimitExceeded = errors.New("user_limit_exceeded")

	// idempotency and state
	ErrOrderAlreadyPaid = errors.New("order_already_paid")
	ErrProofNotFound    = errors.New("proof_not_found")
	ErrOrderNotFound    = errors.New("order_not_found")

	// access
	ErrAccessDenied    = errors.New("access_denied")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrAdminRequired   = errors.New("admin_required")
	ErrForbidden       = errors.New("forbidden")

	// auth and account
	ErrEmailTaken         = errors.New("email_taken")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrWeakPassword       = errors.New("weak_password")
	ErrUserNotFound       = errors.New("user_not_found")
	ErrReaderNotFound     = errors.New("reader_not_found")
	ErrAddressNotFound    = errors.New("address_not_found")
	ErrCouponCodeTaken    = errors.New("coupon_code_taken")
	ErrSlugTaken          = errors.New("slug_taken")
	ErrInvalidDeliveryMode = errors.New("invalid_delivery_mode")
	ErrDispatchNotFound    = errors.New("dispatch_not_found")
	ErrInvalidUpload       = errors.New("invalid_upload")
)
