package constants

// Payment order status
const (
	OrderStatusPending = "PENDING"
	OrderStatusPaid    = "PAID"
)

// Subscription status
const (
	SubscriptionStatusActive    = "ACTIVE"
	SubscriptionStatusCancelled = "CANCELLED"
	SubscriptionStatusExpired   = "EXPIRED"
	SubscriptionStatusPending   = "PENDING"
)

// Delivery mode
const (
	DeliveryModeElectronic = "ELECTRONIC"
	DeliveryModePhysical   = "PHYSICAL"
	DeliveryModeBoth       = "BOTH"
)

// Dispatch schedule status
const (
	DispatchStatusScheduled  = "SCHEDULED"
	DispatchStatusDispatched = "DISPATCHED"
	DispatchStatusDelivered  = "DELIVERED"
	DispatchStatusFailed     = "FAILED"
	DispatchStatusCancelled  = "CANCELLED"
)

// Payment record status
const (
	PaymentStatusPending = "PENDING"
	PaymentStatusSuccess = "SUCCESS"
)

// Payment provider
const (
	PaymentProviderUPI = "UPI"
)

// Defaults applied when a plan or order omits the value
const (
	DefaultDispatchFrequencyDays = 30
	DefaultCurrency              = "INR"
	DefaultEditionPriceCents     = 199
)

// Asynq queue names
const (
	QueueDefault = "default"
)

// Asynq task types
const (
	TaskDispatchAssign     = "dispatch:assign"
	TaskSubscriptionExpire = "subscription:expire"
)

// Storage key prefixes
const (
	StoragePrefixProofs   = "payments"
	StoragePrefixEditions = "editions"
	StoragePrefixCovers   = "covers"
)

// IsPhysicalDelivery reports whether the mode requires a shipping address.
func IsPhysicalDelivery(mode string) bool {
	return mode == DeliveryModePhysical || mode == DeliveryModeBoth
}

// IsValidDeliveryMode reports whether the mode is one of the known values.
func IsValidDeliveryMode(mode string) bool {
	switch mode {
	case DeliveryModeElectronic, DeliveryModePhysical, DeliveryModeBoth:
		return true
	}
	return false
}
