package orders

import (
	"context"
	"testing"
	"time"

	"github.com/HYPERLOOPFIVER/lakes/pkg/db/models"
	"github.com/HYPERLOOPFIVER/lakes/pkg/enums"
	pkgerrors "github.com/HYPERLOOPFIVER/lakes/pkg/errors"
	"github.com/HYPERLOOPFIVER/lakes/pkg/logger"
	"github.com/HYPERLOOPFIVER/lakes/pkg/outbox"
	"github.com/HYPERLOOPFIVER/lakes/pkg/pagination"
)

type stubOrderStore struct {
	orders []models.Order

	listLimit     int
	cancelCalled  bool
	confirmCalled bool
	confirmAmount float64
	err           error
}

func (s *stubOrderStore) List(ctx context.Context, userID string, limit int, cursor *pagination.Cursor) ([]models.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.listLimit = limit
	var out []models.Order
	for _, order := range s.orders {
		if order.UserID != userID {
			continue
		}
		if cursor != nil && order.OrderID >= cursor.ID {
			continue
		}
		out = append(out, order)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *stubOrderStore) ListActive(ctx context.Context, userID string) ([]models.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.Order
	for _, order := range s.orders {
		if order.UserID == userID {
			out = append(out, order)
		}
	}
	return out, nil
}

func (s *stubOrderStore) FindByID(ctx context.Context, orderID string) (*models.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.orders {
		if s.orders[i].OrderID == orderID {
			return &s.orders[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (s *stubOrderStore) Watch(ctx context.Context, userID string) (<-chan []models.Order, error) {
	updates := make(chan []models.Order, 1)
	orders, _ := s.ListActive(ctx, userID)
	updates <- orders
	close(updates)
	return updates, nil
}

func (s *stubOrderStore) Cancel(ctx context.Context, userID, orderID string, now time.Time, emit EmitFunc) (*models.Order, error) {
	s.cancelCalled = true
	order, err := s.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if err := canCancel(order); err != nil {
		return nil, err
	}
	updated := *order
	updated.Status = enums.OrderStatusCancelled
	updated.CancelledAt = &now
	return &updated, nil
}

func (s *stubOrderStore) ConfirmCashPayment(ctx context.Context, userID, orderID string, amount float64, now time.Time, emit EmitFunc) (*models.Order, error) {
	s.confirmCalled = true
	s.confirmAmount = amount
	order, err := s.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := canConfirmCash(order, amount); err != nil {
		return nil, err
	}
	updated := *order
	updated.PaymentStatus = enums.PaymentStatusPaid
	return &updated, nil
}

type stubShopNamer struct {
	names map[string]string
}

func (s *stubShopNamer) DisplayName(ctx context.Context, shopID string) string {
	if name, ok := s.names[shopID]; ok {
		return name
	}
	return models.UnknownShopName
}

func testOrdersService(t *testing.T, store *stubOrderStore, shops *stubShopNamer) Service {
	t.Helper()
	if shops == nil {
		shops = &stubShopNamer{}
	}
	logg := logger.New(logger.Options{ServiceName: "orders-test"})
	svc, err := NewService(store, shops, outbox.NewService(nil, logg), logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestListOrdersReturnsEmptySlice(t *testing.T) {
	svc := testOrdersService(t, &stubOrderStore{}, nil)

	page, err := svc.ListOrders(context.Background(), "user-1", pagination.Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Orders == nil || len(page.Orders) != 0 {
		t.Fatalf("expected empty slice, got %#v", page.Orders)
	}
	if page.NextCursor != "" {
		t.Fatalf("expected empty cursor, got %q", page.NextCursor)
	}
}

func TestListOrdersPaginates(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store := &stubOrderStore{orders: []models.Order{
		{OrderID: "order-3", UserID: "user-1", CreatedAt: now.Add(2 * time.Hour)},
		{OrderID: "order-2", UserID: "user-1", CreatedAt: now.Add(time.Hour)},
		{OrderID: "order-1", UserID: "user-1", CreatedAt: now},
	}}
	svc := testOrdersService(t, store, nil)

	page, err := svc.ListOrders(context.Background(), "user-1", pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.listLimit != 3 {
		t.Fatalf("expected repo limit 3, got %d", store.listLimit)
	}
	if len(page.Orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(page.Orders))
	}
	if page.NextCursor == "" {
		t.Fatal("expected next cursor on a full page")
	}

	next, err := svc.ListOrders(context.Background(), "user-1", pagination.Params{Limit: 2, Cursor: page.NextCursor})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(next.Orders) != 1 || next.Orders[0].OrderID != "order-1" {
		t.Fatalf("unexpected second page: %#v", next.Orders)
	}
	if next.NextCursor != "" {
		t.Fatalf("expected no cursor on the last page, got %q", next.NextCursor)
	}
}

func TestListOrdersRejectsMalformedCursor(t *testing.T) {
	svc := testOrdersService(t, &stubOrderStore{}, nil)

	_, err := svc.ListOrders(context.Background(), "user-1", pagination.Params{Cursor: "not-base64!"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetOrderHidesOtherUsersOrders(t *testing.T) {
	store := &stubOrderStore{orders: []models.Order{
		{OrderID: "order-1", UserID: "someone-else"},
	}}
	svc := testOrdersService(t, store, nil)

	_, err := svc.GetOrder(context.Background(), "user-1", "order-1")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestActiveOrdersFillsMissingShopNames(t *testing.T) {
	store := &stubOrderStore{orders: []models.Order{
		{OrderID: "order-1", UserID: "user-1", ShopID: "shop-a", ShopName: "Alpha Stores", Status: enums.OrderStatusPlaced},
		{OrderID: "order-2", UserID: "user-1", ShopID: "shop-b", Status: enums.OrderStatusConfirmed},
	}}
	shops := &stubShopNamer{names: map[string]string{"shop-b": "Beta Bazaar"}}
	svc := testOrdersService(t, store, shops)

	orders, err := svc.ActiveOrders(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if orders[0].ShopName != "Alpha Stores" {
		t.Fatalf("stored shop name overwritten: %q", orders[0].ShopName)
	}
	if orders[1].ShopName != "Beta Bazaar" {
		t.Fatalf("expected resolved shop name, got %q", orders[1].ShopName)
	}
}

func TestCancelOrder(t *testing.T) {
	store := &stubOrderStore{orders: []models.Order{
		{OrderID: "order-1", UserID: "user-1", ShopID: "shop-a", Status: enums.OrderStatusPlaced},
	}}
	svc := testOrdersService(t, store, nil)

	order, err := svc.Cancel(context.Background(), "user-1", "order-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != enums.OrderStatusCancelled {
		t.Fatalf("expected cancelled status, got %q", order.Status)
	}
	if order.CancelledAt == nil {
		t.Fatal("expected cancelledAt to be set")
	}
	if !store.cancelCalled {
		t.Fatal("expected repository cancel to run")
	}
}

func TestCancelOrderRejectsLateCancellation(t *testing.T) {
	store := &stubOrderStore{orders: []models.Order{
		{OrderID: "order-1", UserID: "user-1", Status: enums.OrderStatusPreparing},
	}}
	svc := testOrdersService(t, store, nil)

	_, err := svc.Cancel(context.Background(), "user-1", "order-1")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestConfirmCashPayment(t *testing.T) {
	store := &stubOrderStore{orders: []models.Order{
		{
			OrderID:       "order-1",
			UserID:        "user-1",
			PaymentMethod: enums.PaymentMethodCash,
			PaymentStatus: enums.PaymentStatusPending,
			Status:        enums.OrderStatusDelivered,
			Total:         236,
		},
	}}
	svc := testOrdersService(t, store, nil)

	order, err := svc.ConfirmCashPayment(context.Background(), "user-1", "order-1", " 236 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.PaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("expected paid, got %q", order.PaymentStatus)
	}
	if store.confirmAmount != 236 {
		t.Fatalf("expected parsed amount 236, got %v", store.confirmAmount)
	}
}

func TestConfirmCashPaymentRejectsBadAmounts(t *testing.T) {
	store := &stubOrderStore{orders: []models.Order{
		{
			OrderID:       "order-1",
			UserID:        "user-1",
			PaymentMethod: enums.PaymentMethodCash,
			PaymentStatus: enums.PaymentStatusPending,
			Status:        enums.OrderStatusDelivered,
			Total:         236,
		},
	}}
	svc := testOrdersService(t, store, nil)

	_, err := svc.ConfirmCashPayment(context.Background(), "user-1", "order-1", "two hundred")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if store.confirmCalled {
		t.Fatal("expected no repository call for unparseable amount")
	}

	_, err = svc.ConfirmCashPayment(context.Background(), "user-1", "order-1", "235")
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodePayment {
		t.Fatalf("expected payment mismatch, got %v", err)
	}
}

func TestWatchDeliversSnapshots(t *testing.T) {
	store := &stubOrderStore{orders: []models.Order{
		{OrderID: "order-1", UserID: "user-1"},
	}}
	svc := testOrdersService(t, store, nil)

	updates, err := svc.Watch(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snapshot := <-updates
	if len(snapshot) != 1 || snapshot[0].OrderID != "order-1" {
		t.Fatalf("unexpected snapshot: %#v", snapshot)
	}
}
