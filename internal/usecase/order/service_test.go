package order

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	domainOrder "agri-transport-monitor/internal/domain/order"
	domainUser "agri-transport-monitor/internal/domain/user"
	appErrors "agri-transport-monitor/pkg/errors"

	"github.com/google/uuid"
)

type fakeStore struct {
	orders      map[int64]*domainOrder.Order
	offers      map[int64]*domainOrder.Offer
	routes      map[int64]*domainOrder.TransportRoute
	nextOrderID int64
	nextRouteID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders:      make(map[int64]*domainOrder.Order),
		offers:      make(map[int64]*domainOrder.Offer),
		routes:      make(map[int64]*domainOrder.TransportRoute),
		nextOrderID: 1,
		nextRouteID: 1,
	}
}

func (s *fakeStore) CreateOrder(_ context.Context, o *domainOrder.Order) error {
	o.ID = s.nextOrderID
	s.nextOrderID++
	o.Status = domainOrder.StatusPending
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	cp := *o
	s.orders[o.ID] = &cp
	return nil
}

func (s *fakeStore) GetOrder(_ context.Context, id int64) (*domainOrder.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, domainOrder.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *fakeStore) List(_ context.Context, filter *domainOrder.Filter) ([]*domainOrder.Order, error) {
	var out []*domainOrder.Order
	for _, o := range s.orders {
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fakeStore) GetOffer(_ context.Context, id int64) (*domainOrder.Offer, error) {
	o, ok := s.offers[id]
	if !ok {
		return nil, domainOrder.ErrOfferNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *fakeStore) GetRoute(_ context.Context, id int64) (*domainOrder.TransportRoute, error) {
	r, ok := s.routes[id]
	if !ok {
		return nil, domainOrder.ErrRouteNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *fakeStore) ListRoutes(_ context.Context, filter *domainOrder.RouteFilter) ([]*domainOrder.TransportRoute, error) {
	var out []*domainOrder.TransportRoute
	for _, r := range s.routes {
		if filter.Active != nil && r.IsActive != *filter.Active {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fakeStore) Transition(_ context.Context, fn func(tx domainOrder.TxRepository) error) error {
	return fn(&fakeTx{store: s})
}

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) LockOrder(ctx context.Context, id int64) (*domainOrder.Order, error) {
	return t.store.GetOrder(ctx, id)
}

func (t *fakeTx) LockOffer(ctx context.Context, id int64) (*domainOrder.Offer, error) {
	return t.store.GetOffer(ctx, id)
}

func (t *fakeTx) LockRoute(ctx context.Context, id int64) (*domainOrder.TransportRoute, error) {
	return t.store.GetRoute(ctx, id)
}

func (t *fakeTx) UpdateOrderStatus(_ context.Context, id int64, status domainOrder.Status) error {
	o, ok := t.store.orders[id]
	if !ok {
		return domainOrder.ErrOrderNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	return nil
}

func (t *fakeTx) UpdateOffer(_ context.Context, id int64, quantity float64, active bool) error {
	o, ok := t.store.offers[id]
	if !ok {
		return domainOrder.ErrOfferNotFound
	}
	o.Quantity = quantity
	o.Active = active
	return nil
}

func (t *fakeTx) CreateRoute(_ context.Context, route *domainOrder.TransportRoute) error {
	route.ID = t.store.nextRouteID
	t.store.nextRouteID++
	route.IsActive = true
	route.StartedAt = time.Now()
	cp := *route
	t.store.routes[route.ID] = &cp
	return nil
}

func (t *fakeTx) SetRouteToken(_ context.Context, routeID int64, token string) error {
	r, ok := t.store.routes[routeID]
	if !ok {
		return domainOrder.ErrRouteNotFound
	}
	r.VerificationToken = token
	return nil
}

func (t *fakeTx) DeactivateRoute(_ context.Context, routeID int64, at time.Time) error {
	r, ok := t.store.routes[routeID]
	if !ok {
		return domainOrder.ErrRouteNotFound
	}
	if !r.IsActive {
		return nil
	}
	r.IsActive = false
	r.FinishedAt = &at
	return nil
}

func (t *fakeTx) DeactivateRoutesForOrder(_ context.Context, orderID int64, at time.Time) (int64, error) {
	var n int64
	for _, r := range t.store.routes {
		if r.OrderID == orderID && r.IsActive {
			r.IsActive = false
			r.FinishedAt = &at
			n++
		}
	}
	return n, nil
}

func (t *fakeTx) ActiveRouteForOrder(_ context.Context, orderID int64) (*domainOrder.TransportRoute, error) {
	for _, r := range t.store.routes {
		if r.OrderID == orderID && r.IsActive {
			cp := *r
			return &cp, nil
		}
	}
	return nil, domainOrder.ErrRouteNotFound
}

type fakeUserRepo struct {
	drivers []*domainUser.User
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domainUser.User, error) {
	for _, u := range r.drivers {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domainUser.ErrUserNotFound
}

func (r *fakeUserRepo) FirstAvailableDriver(_ context.Context) (*domainUser.User, error) {
	if len(r.drivers) == 0 {
		return nil, domainUser.ErrUserNotFound
	}
	return r.drivers[0], nil
}

func seedOffer(store *fakeStore, farmerID uuid.UUID, quantity float64) *domainOrder.Offer {
	offer := &domainOrder.Offer{
		ID:       int64(len(store.offers) + 1),
		FarmerID: farmerID,
		Product:  "rice",
		Quantity: quantity,
		MinPrice: 100,
		Active:   true,
	}
	store.offers[offer.ID] = offer
	return offer
}

func kindOf(t *testing.T, err error) appErrors.Kind {
	t.Helper()
	var appErr *appErrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	return appErr.Kind
}

func TestPlaceOrder(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, NewFirstAvailableDispatcher(&fakeUserRepo{}))
	farmerID := uuid.New()
	traderID := uuid.New()
	offer := seedOffer(store, farmerID, 100)

	resp, err := svc.PlaceOrder(context.Background(), traderID, &PlaceOrderRequest{
		OfferID:     offer.ID,
		Quantity:    20,
		AgreedPrice: 150,
	})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if resp.Status != string(domainOrder.StatusPending) {
		t.Errorf("status = %q, want pending", resp.Status)
	}
	if resp.TraderID != traderID {
		t.Errorf("trader = %s, want %s", resp.TraderID, traderID)
	}
}

func TestPlaceOrderInactiveOffer(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, NewFirstAvailableDispatcher(&fakeUserRepo{}))
	offer := seedOffer(store, uuid.New(), 100)
	offer.Active = false

	_, err := svc.PlaceOrder(context.Background(), uuid.New(), &PlaceOrderRequest{
		OfferID:     offer.ID,
		Quantity:    20,
		AgreedPrice: 150,
	})
	if err == nil {
		t.Fatal("expected error for inactive offer")
	}
	if kind := kindOf(t, err); kind != appErrors.KindConflict {
		t.Errorf("kind = %s, want CONFLICT", kind)
	}
}

func TestPlaceOrderMissingOffer(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, NewFirstAvailableDispatcher(&fakeUserRepo{}))

	_, err := svc.PlaceOrder(context.Background(), uuid.New(), &PlaceOrderRequest{
		OfferID:     42,
		Quantity:    20,
		AgreedPrice: 150,
	})
	if err == nil {
		t.Fatal("expected error for missing offer")
	}
	if kind := kindOf(t, err); kind != appErrors.KindNotFound {
		t.Errorf("kind = %s, want NOT_FOUND", kind)
	}
}

func TestSetStatusAccept(t *testing.T) {
	store := newFakeStore()
	driver := &domainUser.User{ID: uuid.New(), Username: "driver01", Role: domainUser.RoleDriver, IsActive: true}
	svc := NewService(store, NewFirstAvailableDispatcher(&fakeUserRepo{drivers: []*domainUser.User{driver}}))
	farmerID := uuid.New()
	offer := seedOffer(store, farmerID, 100)

	order, _ := place(t, svc, store, offer.ID, 30)

	resp, err := svc.SetStatus(context.Background(), order.ID, farmerID, &SetStatusRequest{Status: domainOrder.StatusAccepted})
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if resp.Order.Status != string(domainOrder.StatusAccepted) {
		t.Errorf("order status = %q, want accepted", resp.Order.Status)
	}
	if resp.Route == nil {
		t.Fatal("expected a route in the response")
	}
	if resp.Route.DriverID == nil || *resp.Route.DriverID != driver.ID {
		t.Errorf("route driver = %v, want %s", resp.Route.DriverID, driver.ID)
	}
	wantToken := fmt.Sprintf("ROUTE_ID:%d|ORDER_ID:%d|DRIVER:driver01", resp.Route.ID, order.ID)
	if resp.Route.VerificationToken != wantToken {
		t.Errorf("token = %q, want %q", resp.Route.VerificationToken, wantToken)
	}
	if resp.Route.PickupPoint != domainOrder.DefaultPickupPoint {
		t.Errorf("pickup point = %q, want %q", resp.Route.PickupPoint, domainOrder.DefaultPickupPoint)
	}
	if resp.Route.Destination != domainOrder.DefaultDestination {
		t.Errorf("destination = %q, want %q", resp.Route.Destination, domainOrder.DefaultDestination)
	}
	if got := store.offers[offer.ID].Quantity; got != 70 {
		t.Errorf("offer quantity = %v, want 70", got)
	}
	if !store.offers[offer.ID].Active {
		t.Error("offer should remain active with quantity left")
	}
}

func TestSetStatusAcceptDrainsOffer(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, NewFirstAvailableDispatcher(&fakeUserRepo{}))
	farmerID := uuid.New()
	offer := seedOffer(store, farmerID, 25)

	order, _ := place(t, svc, store, offer.ID, 40)

	resp, err := svc.SetStatus(context.Background(), order.ID, farmerID, &SetStatusRequest{Status: domainOrder.StatusAccepted})
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if got := store.offers[offer.ID].Quantity; got != 0 {
		t.Errorf("offer quantity = %v, want 0", got)
	}
	if store.offers[offer.ID].Active {
		t.Error("drained offer should be deactivated")
	}
	// No driver available: route still exists, unassigned, token says None.
	if resp.Route == nil {
		t.Fatal("expected a route")
	}
	if resp.Route.DriverID != nil {
		t.Errorf("route driver = %v, want nil", resp.Route.DriverID)
	}
	wantToken := fmt.Sprintf("ROUTE_ID:%d|ORDER_ID:%d|DRIVER:None", resp.Route.ID, order.ID)
	if resp.Route.VerificationToken != wantToken {
		t.Errorf("token = %q, want %q", resp.Route.VerificationToken, wantToken)
	}
}

func TestSetStatusNotOfferOwner(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, NewFirstAvailableDispatcher(&fakeUserRepo{}))
	offer := seedOffer(store, uuid.New(), 100)

	order, _ := place(t, svc, store, offer.ID, 10)

	_, err := svc.SetStatus(context.Background(), order.ID, uuid.New(), &SetStatusRequest{Status: domainOrder.StatusAccepted})
	if err == nil {
		t.Fatal("expected error for non-owner")
	}
	if kind := kindOf(t, err); kind != appErrors.KindPermission {
		t.Errorf("kind = %s, want PERMISSION", kind)
	}
	if got := store.orders[order.ID].Status; got != domainOrder.StatusPending {
		t.Errorf("order status = %q, want pending untouched", got)
	}
}

func TestSetStatusInvalidTransition(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, NewFirstAvailableDispatcher(&fakeUserRepo{}))
	farmerID := uuid.New()
	offer := seedOffer(store, farmerID, 100)

	order, _ := place(t, svc, store, offer.ID, 10)

	if _, err := svc.SetStatus(context.Background(), order.ID, farmerID, &SetStatusRequest{Status: domainOrder.StatusAccepted}); err != nil {
		t.Fatalf("first accept: %v", err)
	}
	_, err := svc.SetStatus(context.Background(), order.ID, farmerID, &SetStatusRequest{Status: domainOrder.StatusAccepted})
	if err == nil {
		t.Fatal("expected error for double accept")
	}
	if kind := kindOf(t, err); kind != appErrors.KindConflict {
		t.Errorf("kind = %s, want CONFLICT", kind)
	}
	// Second accept must not decrement the offer again.
	if got := store.offers[offer.ID].Quantity; got != 90 {
		t.Errorf("offer quantity = %v, want 90", got)
	}
}

func TestSetStatusReject(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, NewFirstAvailableDispatcher(&fakeUserRepo{}))
	farmerID := uuid.New()
	offer := seedOffer(store, farmerID, 100)

	order, _ := place(t, svc, store, offer.ID, 10)

	resp, err := svc.SetStatus(context.Background(), order.ID, farmerID, &SetStatusRequest{Status: domainOrder.StatusRejected})
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if resp.Order.Status != string(domainOrder.StatusRejected) {
		t.Errorf("status = %q, want rejected", resp.Order.Status)
	}
	if resp.Route != nil {
		t.Error("rejecting must not create a route")
	}
	if got := store.offers[offer.ID].Quantity; got != 100 {
		t.Errorf("offer quantity = %v, want untouched 100", got)
	}
}

func TestSetStatusCompleteDeactivatesRoutes(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, NewFirstAvailableDispatcher(&fakeUserRepo{}))
	farmerID := uuid.New()
	offer := seedOffer(store, farmerID, 100)

	order, _ := place(t, svc, store, offer.ID, 10)

	accept, err := svc.SetStatus(context.Background(), order.ID, farmerID, &SetStatusRequest{Status: domainOrder.StatusAccepted})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := svc.SetStatus(context.Background(), order.ID, farmerID, &SetStatusRequest{Status: domainOrder.StatusCompleted}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	route := store.routes[accept.Route.ID]
	if route.IsActive {
		t.Error("route should be deactivated when the order completes")
	}
	if route.FinishedAt == nil {
		t.Error("finished_at should be set")
	}
}

func TestFinishRoute(t *testing.T) {
	store := newFakeStore()
	driver := &domainUser.User{ID: uuid.New(), Username: "driver01", Role: domainUser.RoleDriver, IsActive: true}
	svc := NewService(store, NewFirstAvailableDispatcher(&fakeUserRepo{drivers: []*domainUser.User{driver}}))
	farmerID := uuid.New()
	offer := seedOffer(store, farmerID, 100)

	order, _ := place(t, svc, store, offer.ID, 10)
	accept, err := svc.SetStatus(context.Background(), order.ID, farmerID, &SetStatusRequest{Status: domainOrder.StatusAccepted})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}

	resp, err := svc.FinishRoute(context.Background(), accept.Route.ID, driver.ID)
	if err != nil {
		t.Fatalf("FinishRoute: %v", err)
	}
	if resp.IsActive {
		t.Error("route should be inactive after finish")
	}
	if got := store.orders[order.ID].Status; got != domainOrder.StatusCompleted {
		t.Errorf("order status = %q, want completed", got)
	}

	// Finishing again is a no-op, not an error.
	again, err := svc.FinishRoute(context.Background(), accept.Route.ID, driver.ID)
	if err != nil {
		t.Fatalf("second FinishRoute: %v", err)
	}
	if again.IsActive {
		t.Error("route should stay inactive")
	}
}

func TestFinishRouteWrongDriver(t *testing.T) {
	store := newFakeStore()
	driver := &domainUser.User{ID: uuid.New(), Username: "driver01", Role: domainUser.RoleDriver, IsActive: true}
	svc := NewService(store, NewFirstAvailableDispatcher(&fakeUserRepo{drivers: []*domainUser.User{driver}}))
	farmerID := uuid.New()
	offer := seedOffer(store, farmerID, 100)

	order, _ := place(t, svc, store, offer.ID, 10)
	accept, err := svc.SetStatus(context.Background(), order.ID, farmerID, &SetStatusRequest{Status: domainOrder.StatusAccepted})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}

	_, err = svc.FinishRoute(context.Background(), accept.Route.ID, uuid.New())
	if err == nil {
		t.Fatal("expected error for wrong driver")
	}
	if kind := kindOf(t, err); kind != appErrors.KindPermission {
		t.Errorf("kind = %s, want PERMISSION", kind)
	}
	if !store.routes[accept.Route.ID].IsActive {
		t.Error("route should remain active")
	}
}

func place(t *testing.T, svc *Service, store *fakeStore, offerID int64, quantity float64) (*domainOrder.Order, *OrderResponse) {
	t.Helper()
	resp, err := svc.PlaceOrder(context.Background(), uuid.New(), &PlaceOrderRequest{
		OfferID:     offerID,
		Quantity:    quantity,
		AgreedPrice: 150,
	})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	return store.orders[resp.ID], resp
}
