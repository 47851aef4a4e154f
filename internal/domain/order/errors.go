package order

import "errors"

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrOfferNotFound = errors.New("offer not found")
	ErrRouteNotFound = errors.New("transport route not found")

	ErrInvalidStatus     = errors.New("invalid target status")
	ErrInvalidTransition = errors.New("order status transition not allowed")
	ErrOfferInactive     = errors.New("offer is no longer active")
	ErrNotOfferOwner     = errors.New("only the offer owner may act on this order")
	ErrNotAssignedDriver = errors.New("route does not belong to this driver")
)
