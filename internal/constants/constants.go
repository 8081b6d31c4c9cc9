package constants

// Painting kinds
const (
	PaintingKindUnique      = "UNIQUE"
	PaintingKindRecreatable = "RECREATABLE"
)

// Painting orientations
const (
	OrientationPortrait  = "PORTRAIT"
	OrientationLandscape = "PAYSAGE"
	OrientationSquare    = "CARRE"
	OrientationOther     = "AUTRE"
)

// Order statuses. Any status may be set from any other by an admin.
const (
	OrderStatusPendingReview    = "PENDING_REVIEW"
	OrderStatusInProgress       = "IN_PROGRESS"
	OrderStatusReadyForDelivery = "READY_FOR_DELIVERY"
	OrderStatusCompleted        = "COMPLETED"
	OrderStatusCanceled         = "CANCELED"
)

// Derived discount statuses. INACTIVE and EXHAUSTED are reserved and never produced.
const (
	DiscountStatusActive    = "ACTIVE"
	DiscountStatusFuture    = "FUTURE"
	DiscountStatusExpired   = "EXPIRED"
	DiscountStatusInactive  = "INACTIVE"
	DiscountStatusExhausted = "EXHAUSTED"
	DiscountStatusNotFound  = "NOT_FOUND"
)

// User roles
const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)

// Cart limits
const (
	CartMaxQuantity = 20
	CartUniqueMax   = 1
)

// Order defaults
const (
	OrderDefaultCountry     = "MA"
	OrderDefaultShippingFee = 0
	OrderHistoryNoteCreated = "Commande créée"
	OrderHistoryNoteAdmin   = "Mise à jour admin"
)

// OrderStatuses lists the accepted order statuses in lifecycle order.
var OrderStatuses = []string{
	OrderStatusPendingReview,
	OrderStatusInProgress,
	OrderStatusReadyForDelivery,
	OrderStatusCompleted,
	OrderStatusCanceled,
}

// IsValidOrderStatus reports whether s is a known order status.
func IsValidOrderStatus(s string) bool {
	for _, status := range OrderStatuses {
		if status == s {
			return true
		}
	}
	return false
}

// IsValidPaintingKind reports whether s is a known painting kind.
func IsValidPaintingKind(s string) bool {
	return s == PaintingKindUnique || s == PaintingKindRecreatable
}

// IsValidOrientation reports whether s is a known orientation.
func IsValidOrientation(s string) bool {
	switch s {
	case OrientationPortrait, OrientationLandscape, OrientationSquare, OrientationOther:
		return true
	}
	return false
}
