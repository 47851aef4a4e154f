package order

import (
	"context"
	"errors"
	"time"

	domainOrder "agri-transport-monitor/internal/domain/order"
	domainUser "agri-transport-monitor/internal/domain/user"
	"agri-transport-monitor/internal/logger"
	appErrors "agri-transport-monitor/pkg/errors"
	"agri-transport-monitor/pkg/token"
	"agri-transport-monitor/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements order fulfillment: placing orders against offers,
// the farmer-driven status transitions and the driver's route completion.
// Every transition runs in one database transaction with the order row
// locked, so concurrent requests serialize and exactly one wins.
type Service struct {
	orderRepo domainOrder.Repository
	dispatch  DriverDispatcher
}

// NewService creates a new order service
func NewService(orderRepo domainOrder.Repository, dispatch DriverDispatcher) *Service {
	return &Service{
		orderRepo: orderRepo,
		dispatch:  dispatch,
	}
}

func (s *Service) PlaceOrder(ctx context.Context, traderID uuid.UUID, req *PlaceOrderRequest) (*OrderResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("Invalid input", err)
	}

	offer, err := s.orderRepo.GetOffer(ctx, req.OfferID)
	if err != nil {
		if errors.Is(err, domainOrder.ErrOfferNotFound) {
			return nil, appErrors.NotFound("Offer not found", err)
		}
		return nil, err
	}
	if !offer.Active {
		return nil, appErrors.Conflict("Offer is no longer active", domainOrder.ErrOfferInactive)
	}

	order := &domainOrder.Order{
		TraderID:    traderID,
		OfferID:     req.OfferID,
		Quantity:    req.Quantity,
		AgreedPrice: req.AgreedPrice,
	}

	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	logger.Info("Order placed",
		zap.Int64("order_id", order.ID),
		zap.Int64("offer_id", order.OfferID),
		zap.String("trader_id", traderID.String()),
		zap.Float64("quantity", order.Quantity),
	)

	return ToOrderResponse(order), nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*OrderResponse, error) {
	order, err := s.orderRepo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, domainOrder.ErrOrderNotFound) {
			return nil, appErrors.NotFound("Order not found", err)
		}
		return nil, err
	}
	return ToOrderResponse(order), nil
}

func (s *Service) ListOrders(ctx context.Context, req *OrderFilterRequest) ([]*OrderResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("Invalid filter", err)
	}

	orders, err := s.orderRepo.List(ctx, &domainOrder.Filter{
		TraderID: req.TraderID,
		OfferID:  req.OfferID,
		Status:   req.Status,
		Limit:    req.Limit,
		Offset:   req.Offset,
	})
	if err != nil {
		return nil, err
	}

	responses := make([]*OrderResponse, len(orders))
	for i, o := range orders {
		responses[i] = ToOrderResponse(o)
	}
	return responses, nil
}

// SetStatus applies one farmer-requested transition: pending → accepted or
// rejected, accepted → completed. Only the owner of the offer the order was
// placed against may transition it.
//
// Accepting decrements the offer quantity (clamped at zero, which also
// deactivates the offer) and creates the transport route with the first
// available driver and its verification token. Completing deactivates any
// still-active route.
func (s *Service) SetStatus(ctx context.Context, orderID int64, actorID uuid.UUID, req *SetStatusRequest) (*SetStatusResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("Invalid input", err)
	}
	if !domainOrder.ValidTarget(req.Status) {
		return nil, appErrors.Validation("Invalid target status", domainOrder.ErrInvalidStatus)
	}

	var resp SetStatusResponse

	err := s.orderRepo.Transition(ctx, func(tx domainOrder.TxRepository) error {
		order, err := tx.LockOrder(ctx, orderID)
		if err != nil {
			return err
		}

		offer, err := tx.LockOffer(ctx, order.OfferID)
		if err != nil {
			return err
		}
		if offer.FarmerID != actorID {
			return domainOrder.ErrNotOfferOwner
		}

		if !domainOrder.CanTransition(order.Status, req.Status) {
			return domainOrder.ErrInvalidTransition
		}

		switch req.Status {
		case domainOrder.StatusAccepted:
			route, err := s.accept(ctx, tx, order, offer)
			if err != nil {
				return err
			}
			resp.Route = ToRouteResponse(route)

		case domainOrder.StatusRejected:
			if err := tx.UpdateOrderStatus(ctx, order.ID, domainOrder.StatusRejected); err != nil {
				return err
			}

		case domainOrder.StatusCompleted:
			if err := tx.UpdateOrderStatus(ctx, order.ID, domainOrder.StatusCompleted); err != nil {
				return err
			}
			if _, err := tx.DeactivateRoutesForOrder(ctx, order.ID, time.Now()); err != nil {
				return err
			}
		}

		order.Status = req.Status
		order.UpdatedAt = time.Now()
		resp.Order = ToOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, s.mapTransitionError(err)
	}

	logger.Info("Order status changed",
		zap.Int64("order_id", orderID),
		zap.String("status", string(req.Status)),
		zap.String("actor_id", actorID.String()),
	)

	return &resp, nil
}

func (s *Service) accept(ctx context.Context, tx domainOrder.TxRepository, order *domainOrder.Order, offer *domainOrder.Offer) (*domainOrder.TransportRoute, error) {
	// Oversized orders drain the offer instead of going negative.
	remaining := offer.Quantity - order.Quantity
	active := offer.Active
	if remaining <= 0 {
		remaining = 0
		active = false
	}
	if err := tx.UpdateOffer(ctx, offer.ID, remaining, active); err != nil {
		return nil, err
	}

	if err := tx.UpdateOrderStatus(ctx, order.ID, domainOrder.StatusAccepted); err != nil {
		return nil, err
	}

	// Dispatch, or an unassigned route when no driver is available.
	var driverID *uuid.UUID
	driverName := ""
	driver, err := s.dispatch.NextDriver(ctx)
	if err == nil {
		driverID = &driver.ID
		driverName = driver.Username
	} else if !errors.Is(err, domainUser.ErrUserNotFound) {
		return nil, err
	}

	route := &domainOrder.TransportRoute{
		DriverID:    driverID,
		OrderID:     order.ID,
		PickupPoint: domainOrder.DefaultPickupPoint,
		Destination: domainOrder.DefaultDestination,
	}
	if err := tx.CreateRoute(ctx, route); err != nil {
		return nil, err
	}

	route.VerificationToken = token.Encode(token.Payload{
		RouteID: route.ID,
		OrderID: order.ID,
		Driver:  driverName,
	})
	if err := tx.SetRouteToken(ctx, route.ID, route.VerificationToken); err != nil {
		return nil, err
	}

	return route, nil
}

// FinishRoute is the driver's explicit completion. Only the assigned driver
// may finish the route; finishing an already-finished route is a no-op.
// Finishing also completes the order when it is still accepted.
func (s *Service) FinishRoute(ctx context.Context, routeID int64, driverID uuid.UUID) (*RouteResponse, error) {
	// Resolve the order first so the transaction locks order before route,
	// the same order SetStatus uses.
	route, err := s.orderRepo.GetRoute(ctx, routeID)
	if err != nil {
		if errors.Is(err, domainOrder.ErrRouteNotFound) {
			return nil, appErrors.NotFound("Route not found", err)
		}
		return nil, err
	}
	if route.DriverID == nil || *route.DriverID != driverID {
		return nil, appErrors.Permission("Route does not belong to this driver", domainOrder.ErrNotAssignedDriver)
	}

	var resp *RouteResponse

	err = s.orderRepo.Transition(ctx, func(tx domainOrder.TxRepository) error {
		order, err := tx.LockOrder(ctx, route.OrderID)
		if err != nil {
			return err
		}

		locked, err := tx.LockRoute(ctx, routeID)
		if err != nil {
			return err
		}
		if locked.DriverID == nil || *locked.DriverID != driverID {
			return domainOrder.ErrNotAssignedDriver
		}

		if !locked.IsActive {
			resp = ToRouteResponse(locked)
			return nil
		}

		now := time.Now()
		if err := tx.DeactivateRoute(ctx, routeID, now); err != nil {
			return err
		}
		if order.Status == domainOrder.StatusAccepted {
			if err := tx.UpdateOrderStatus(ctx, order.ID, domainOrder.StatusCompleted); err != nil {
				return err
			}
		}

		locked.IsActive = false
		locked.FinishedAt = &now
		resp = ToRouteResponse(locked)
		return nil
	})
	if err != nil {
		return nil, s.mapTransitionError(err)
	}

	logger.Info("Route finished",
		zap.Int64("route_id", routeID),
		zap.String("driver_id", driverID.String()),
	)

	return resp, nil
}

func (s *Service) GetRoute(ctx context.Context, id int64) (*RouteResponse, error) {
	route, err := s.orderRepo.GetRoute(ctx, id)
	if err != nil {
		if errors.Is(err, domainOrder.ErrRouteNotFound) {
			return nil, appErrors.NotFound("Route not found", err)
		}
		return nil, err
	}
	return ToRouteResponse(route), nil
}

func (s *Service) ListRoutes(ctx context.Context, req *RouteFilterRequest) ([]*RouteResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("Invalid filter", err)
	}

	routes, err := s.orderRepo.ListRoutes(ctx, &domainOrder.RouteFilter{
		DriverID: req.DriverID,
		OrderID:  req.OrderID,
		Active:   req.Active,
		Limit:    req.Limit,
		Offset:   req.Offset,
	})
	if err != nil {
		return nil, err
	}

	responses := make([]*RouteResponse, len(routes))
	for i, r := range routes {
		responses[i] = ToRouteResponse(r)
	}
	return responses, nil
}

func (s *Service) mapTransitionError(err error) error {
	switch {
	case errors.Is(err, domainOrder.ErrOrderNotFound):
		return appErrors.NotFound("Order not found", err)
	case errors.Is(err, domainOrder.ErrOfferNotFound):
		return appErrors.NotFound("Offer not found", err)
	case errors.Is(err, domainOrder.ErrRouteNotFound):
		return appErrors.NotFound("Route not found", err)
	case errors.Is(err, domainOrder.ErrNotOfferOwner):
		return appErrors.Permission("Only the offer owner may act on this order", err)
	case errors.Is(err, domainOrder.ErrNotAssignedDriver):
		return appErrors.Permission("Route does not belong to this driver", err)
	case errors.Is(err, domainOrder.ErrInvalidTransition):
		return appErrors.Conflict("Order status transition not allowed", err)
	default:
		return err
	}
}
