package postgres

import (
	domainOrder "agri-transport-monitor/internal/domain/order"
	"agri-transport-monitor/internal/infrastructure/database/postgres/models"
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository implements domain order.Repository interface. Transition
// wraps its callback in a database transaction; the txRepository view issues
// SELECT ... FOR UPDATE through gorm's locking clause so concurrent
// transitions on the same order serialize at the row.
type OrderRepository struct {
	db *DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *DB) domainOrder.Repository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) CreateOrder(ctx context.Context, o *domainOrder.Order) error {
	o.Status = domainOrder.StatusPending
	o.CreatedAt = time.Now()
	o.UpdatedAt = time.Now()

	dbModel := toOrderModel(o)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	o.ID = dbModel.ID

	return nil
}

func (r *OrderRepository) GetOrder(ctx context.Context, id int64) (*domainOrder.Order, error) {
	return getOrder(ctx, r.db.DB, id, false)
}

func (r *OrderRepository) List(ctx context.Context, filter *domainOrder.Filter) ([]*domainOrder.Order, error) {
	var dbModels []models.OrderModel

	db := r.db.DB.WithContext(ctx).Model(&models.OrderModel{})

	if filter.TraderID != nil {
		db = db.Where("trader_id = ?", *filter.TraderID)
	}
	if filter.OfferID != nil {
		db = db.Where("offer_id = ?", *filter.OfferID)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", string(*filter.Status))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	err := db.Order("created_at DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&dbModels).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := make([]*domainOrder.Order, len(dbModels))
	for i := range dbModels {
		orders[i] = toOrderEntity(&dbModels[i])
	}

	return orders, nil
}

func (r *OrderRepository) GetOffer(ctx context.Context, id int64) (*domainOrder.Offer, error) {
	return getOffer(ctx, r.db.DB, id, false)
}

func (r *OrderRepository) GetRoute(ctx context.Context, id int64) (*domainOrder.TransportRoute, error) {
	return getRoute(ctx, r.db.DB, id, false)
}

func (r *OrderRepository) ListRoutes(ctx context.Context, filter *domainOrder.RouteFilter) ([]*domainOrder.TransportRoute, error) {
	var dbModels []models.TransportRouteModel

	db := r.db.DB.WithContext(ctx).Model(&models.TransportRouteModel{})

	if filter.DriverID != nil {
		db = db.Where("driver_id = ?", *filter.DriverID)
	}
	if filter.OrderID != nil {
		db = db.Where("order_id = ?", *filter.OrderID)
	}
	if filter.Active != nil {
		db = db.Where("is_active = ?", *filter.Active)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	err := db.Order("started_at DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&dbModels).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}

	routes := make([]*domainOrder.TransportRoute, len(dbModels))
	for i := range dbModels {
		routes[i] = toRouteEntity(&dbModels[i])
	}

	return routes, nil
}

func (r *OrderRepository) Transition(ctx context.Context, fn func(tx domainOrder.TxRepository) error) error {
	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txRepository{tx: tx})
	})
}

// txRepository is the transactional view handed to Transition callbacks.
type txRepository struct {
	tx *gorm.DB
}

func (t *txRepository) LockOrder(ctx context.Context, id int64) (*domainOrder.Order, error) {
	return getOrder(ctx, t.tx, id, true)
}

func (t *txRepository) LockOffer(ctx context.Context, id int64) (*domainOrder.Offer, error) {
	return getOffer(ctx, t.tx, id, true)
}

func (t *txRepository) LockRoute(ctx context.Context, id int64) (*domainOrder.TransportRoute, error) {
	return getRoute(ctx, t.tx, id, true)
}

func (t *txRepository) UpdateOrderStatus(ctx context.Context, id int64, status domainOrder.Status) error {
	result := t.tx.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update order status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainOrder.ErrOrderNotFound
	}

	return nil
}

func (t *txRepository) UpdateOffer(ctx context.Context, id int64, quantity float64, active bool) error {
	result := t.tx.WithContext(ctx).
		Model(&models.OfferModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"active":     active,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update offer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainOrder.ErrOfferNotFound
	}

	return nil
}

func (t *txRepository) CreateRoute(ctx context.Context, route *domainOrder.TransportRoute) error {
	route.IsActive = true
	route.StartedAt = time.Now()

	dbModel := toRouteModel(route)
	if err := t.tx.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create route: %w", err)
	}

	route.ID = dbModel.ID

	return nil
}

func (t *txRepository) SetRouteToken(ctx context.Context, routeID int64, token string) error {
	result := t.tx.WithContext(ctx).
		Model(&models.TransportRouteModel{}).
		Where("id = ?", routeID).
		Update("verification_token", token)

	if result.Error != nil {
		return fmt.Errorf("failed to set route token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainOrder.ErrRouteNotFound
	}

	return nil
}

func (t *txRepository) DeactivateRoute(ctx context.Context, routeID int64, at time.Time) error {
	result := t.tx.WithContext(ctx).
		Model(&models.TransportRouteModel{}).
		Where("id = ? AND is_active = true", routeID).
		Updates(map[string]interface{}{
			"is_active":   false,
			"finished_at": at,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to deactivate route: %w", result.Error)
	}

	// Zero rows means the route was already finished; the lifecycle treats
	// that as a no-op.
	return nil
}

func (t *txRepository) DeactivateRoutesForOrder(ctx context.Context, orderID int64, at time.Time) (int64, error) {
	result := t.tx.WithContext(ctx).
		Model(&models.TransportRouteModel{}).
		Where("order_id = ? AND is_active = true", orderID).
		Updates(map[string]interface{}{
			"is_active":   false,
			"finished_at": at,
		})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to deactivate routes for order: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (t *txRepository) ActiveRouteForOrder(ctx context.Context, orderID int64) (*domainOrder.TransportRoute, error) {
	var dbModel models.TransportRouteModel
	err := t.tx.WithContext(ctx).
		Where("order_id = ? AND is_active = true", orderID).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainOrder.ErrRouteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active route: %w", err)
	}

	return toRouteEntity(&dbModel), nil
}

// Shared lookups used by both the plain and transactional views.

func getOrder(ctx context.Context, db *gorm.DB, id int64, forUpdate bool) (*domainOrder.Order, error) {
	var dbModel models.OrderModel

	q := db.WithContext(ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	err := q.Where("id = ?", id).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainOrder.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return toOrderEntity(&dbModel), nil
}

func getOffer(ctx context.Context, db *gorm.DB, id int64, forUpdate bool) (*domainOrder.Offer, error) {
	var dbModel models.OfferModel

	q := db.WithContext(ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	err := q.Where("id = ?", id).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainOrder.ErrOfferNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}

	return toOfferEntity(&dbModel), nil
}

func getRoute(ctx context.Context, db *gorm.DB, id int64, forUpdate bool) (*domainOrder.TransportRoute, error) {
	var dbModel models.TransportRouteModel

	q := db.WithContext(ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	err := q.Where("id = ?", id).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainOrder.ErrRouteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get route: %w", err)
	}

	return toRouteEntity(&dbModel), nil
}

// Helper functions to convert between domain entities and database models

func toOrderModel(o *domainOrder.Order) *models.OrderModel {
	return &models.OrderModel{
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

func toOrderEntity(m *models.OrderModel) *domainOrder.Order {
	return &domainOrder.Order{
		ID:          m.ID,
		TraderID:    m.TraderID,
		OfferID:     m.OfferID,
		Quantity:    m.Quantity,
		AgreedPrice: m.AgreedPrice,
		Status:      domainOrder.Status(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toOfferEntity(m *models.OfferModel) *domainOrder.Offer {
	return &domainOrder.Offer{
		ID:        m.ID,
		FarmerID:  m.FarmerID,
		Product:   m.Product,
		Quantity:  m.Quantity,
		MinPrice:  m.MinPrice,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toRouteModel(r *domainOrder.TransportRoute) *models.TransportRouteModel {
	return &models.TransportRouteModel{
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

func toRouteEntity(m *models.TransportRouteModel) *domainOrder.TransportRoute {
	return &domainOrder.TransportRoute{
		ID:                m.ID,
		DriverID:          m.DriverID,
		OrderID:           m.OrderID,
		PickupPoint:       m.PickupPoint,
		Destination:       m.Destination,
		DistanceKm:        m.DistanceKm,
		VerificationToken: m.VerificationToken,
		IsActive:          m.IsActive,
		StartedAt:         m.StartedAt,
		FinishedAt:        m.FinishedAt,
	}
}
