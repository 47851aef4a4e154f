package order

import (
	"time"

	domainOrder "agri-transport-monitor/internal/domain/order"

	"github.com/google/uuid"
)

type PlaceOrderRequest struct {
	OfferID     int64   `json:"offer_id" validate:"required,gt=0"`
	Quantity    float64 `json:"quantity" validate:"required,gt=0"`
	AgreedPrice float64 `json:"agreed_price" validate:"required,gt=0"`
}

type SetStatusRequest struct {
	Status domainOrder.Status `json:"status" validate:"required,oneof=accepted rejected completed"`
}

type OrderFilterRequest struct {
	TraderID *uuid.UUID          `form:"trader_id"`
	OfferID  *int64              `form:"offer_id"`
	Status   *domainOrder.Status `form:"status" validate:"omitempty,oneof=pending accepted rejected completed"`
	Limit    int                 `form:"limit" validate:"omitempty,min=1,max=500"`
	Offset   int                 `form:"offset" validate:"omitempty,min=0"`
}

type RouteFilterRequest struct {
	DriverID *uuid.UUID `form:"driver_id"`
	OrderID  *int64     `form:"order_id"`
	Active   *bool      `form:"active"`
	Limit    int        `form:"limit" validate:"omitempty,min=1,max=500"`
	Offset   int        `form:"offset" validate:"omitempty,min=0"`
}

type OrderResponse struct {
	ID          int64     `json:"id"`
	TraderID    uuid.UUID `json:"trader_id"`
	OfferID     int64     `json:"offer_id"`
	Quantity    float64   `json:"quantity"`
	AgreedPrice float64   `json:"agreed_price"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type RouteResponse struct {
	ID                int64      `json:"id"`
	DriverID          *uuid.UUID `json:"driver_id,omitempty"`
	OrderID           int64      `json:"order_id"`
	PickupPoint       string     `json:"pickup_point,omitempty"`
	Destination       string     `json:"destination,omitempty"`
	DistanceKm        *float64   `json:"distance_km,omitempty"`
	VerificationToken string     `json:"verification_token,omitempty"`
	IsActive          bool       `json:"is_active"`
	StartedAt         time.Time  `json:"started_at"`
	FinishedAt        *time.Time `json:"finished_at,omitempty"`
}

// SetStatusResponse includes the route when accepting created one.
type SetStatusResponse struct {
	Order *OrderResponse `json:"order"`
	Route *RouteResponse `json:"route,omitempty"`
}

func ToOrderResponse(o *domainOrder.Order) *OrderResponse {
	return &OrderResponse{
		ID:          o.ID,
		TraderID:    o.TraderID,
		OfferID:     o.OfferID,
		Quantity:    o.Quantity,
		AgreedPrice: o.AgreedPrice,
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func ToRouteResponse(r *domainOrder.TransportRoute) *RouteResponse {
	return &RouteResponse{
		ID:                r.ID,
		DriverID:          r.DriverID,
		OrderID:           r.OrderID,
		PickupPoint:       r.PickupPoint,
		Destination:       r.Destination,
		DistanceKm:        r.DistanceKm,
		VerificationToken: r.VerificationToken,
		IsActive:          r.IsActive,
		StartedAt:         r.StartedAt,
		FinishedAt:        r.FinishedAt,
	}
}
