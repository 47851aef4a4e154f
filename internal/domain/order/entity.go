package order

import (
	"time"

	"github.com/google/uuid"
)

// Status drives the order lifecycle: pending → {accepted, rejected};
// accepted → completed. rejected and completed are terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
)

// ValidTarget reports whether a requested target status is one a caller may
// ask for at all. pending is never a valid target.
func ValidTarget(s Status) bool {
	switch s {
	case StatusAccepted, StatusRejected, StatusCompleted:
		return true
	}
	return false
}

// CanTransition reports whether the state machine allows current → target.
func CanTransition(current, target Status) bool {
	switch current {
	case StatusPending:
		return target == StatusAccepted || target == StatusRejected
	case StatusAccepted:
		return target == StatusCompleted
	}
	return false
}

// Order is placed by a trader against a farmer's offer.
type Order struct {
	ID          int64
	TraderID    uuid.UUID
	OfferID     int64
	Quantity    float64
	AgreedPrice float64
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Offer is farmer-owned produce for sale. Quantity is decremented by
// accepted orders; reaching zero forces Active=false.
type Offer struct {
	ID        int64
	FarmerID  uuid.UUID
	Product   string
	Quantity  float64
	MinPrice  float64
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Placeholder waypoints stamped on a route at creation, until real
// pickup and delivery locations are captured.
const (
	DefaultPickupPoint = "Farmer Warehouse"
	DefaultDestination = "Trader Storage"
)

// TransportRoute is created exactly once per accepted order. It links the
// assigned driver (nil when none was available), carries the verification
// token consumed by checkpoint tooling, and is deactivated either by the
// driver's explicit finish or by order completion, whichever comes first.
type TransportRoute struct {
	ID          int64
	DriverID    *uuid.UUID
	OrderID     int64
	PickupPoint string
	Destination string
	DistanceKm  *float64
	// VerificationToken is the plain-text QR payload.
	VerificationToken string
	IsActive          bool
	StartedAt         time.Time
	FinishedAt        *time.Time
}
