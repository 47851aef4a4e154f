package order

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter narrows order listings.
type Filter struct {
	TraderID *uuid.UUID
	OfferID  *int64
	Status   *Status
	Limit    int
	Offset   int
}

// RouteFilter narrows transport route listings.
type RouteFilter struct {
	DriverID *uuid.UUID
	OrderID  *int64
	Active   *bool
	Limit    int
	Offset   int
}

// TxRepository is the view of the store available inside a Transition
// callback. Lock* methods take row-level exclusive locks so that at most
// one transition per order commits at a time.
type TxRepository interface {
	LockOrder(ctx context.Context, id int64) (*Order, error)
	LockOffer(ctx context.Context, id int64) (*Offer, error)
	LockRoute(ctx context.Context, id int64) (*TransportRoute, error)

	UpdateOrderStatus(ctx context.Context, id int64, status Status) error
	UpdateOffer(ctx context.Context, id int64, quantity float64, active bool) error

	// CreateRoute assigns the route ID; SetRouteToken stores the token
	// derived from that ID.
	CreateRoute(ctx context.Context, route *TransportRoute) error
	SetRouteToken(ctx context.Context, routeID int64, token string) error

	DeactivateRoute(ctx context.Context, routeID int64, at time.Time) error
	DeactivateRoutesForOrder(ctx context.Context, orderID int64, at time.Time) (int64, error)

	ActiveRouteForOrder(ctx context.Context, orderID int64) (*TransportRoute, error)
}

// Repository persists orders, offers and transport routes.
type Repository interface {
	CreateOrder(ctx context.Context, o *Order) error
	GetOrder(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context, filter *Filter) ([]*Order, error)

	GetOffer(ctx context.Context, id int64) (*Offer, error)

	GetRoute(ctx context.Context, id int64) (*TransportRoute, error)
	ListRoutes(ctx context.Context, filter *RouteFilter) ([]*TransportRoute, error)

	// Transition runs fn inside a single transaction. The callback is
	// expected to lock the rows it mutates before reading them.
	Transition(ctx context.Context, fn func(tx TxRepository) error) error
}
