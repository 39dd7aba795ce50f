package orders

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/HYPERLOOPFIVER/lakes/pkg/db"
	"github.com/HYPERLOOPFIVER/lakes/pkg/db/models"
	"github.com/HYPERLOOPFIVER/lakes/pkg/enums"
	pkgerrors "github.com/HYPERLOOPFIVER/lakes/pkg/errors"
	"github.com/HYPERLOOPFIVER/lakes/pkg/logger"
	"github.com/HYPERLOOPFIVER/lakes/pkg/outbox"
	"github.com/HYPERLOOPFIVER/lakes/pkg/outbox/payloads"
	"github.com/HYPERLOOPFIVER/lakes/pkg/pagination"
)

// Service exposes a customer's order history and the two guarded
// transitions a customer may perform: cancelling early, and confirming a
// cash payment after delivery.
type Service interface {
	ListOrders(ctx context.Context, userID string, params pagination.Params) (*Page, error)
	GetOrder(ctx context.Context, userID, orderID string) (*models.Order, error)
	ActiveOrders(ctx context.Context, userID string) ([]models.Order, error)
	Watch(ctx context.Context, userID string) (<-chan []models.Order, error)
	Cancel(ctx context.Context, userID, orderID string) (*models.Order, error)
	ConfirmCashPayment(ctx context.Context, userID, orderID, amount string) (*models.Order, error)
}

// Page is one window of the user's order history. NextCursor is empty on
// the last page.
type Page struct {
	Orders     []models.Order `json:"orders"`
	NextCursor string         `json:"nextCursor,omitempty"`
}

type orderStore interface {
	List(ctx context.Context, userID string, limit int, cursor *pagination.Cursor) ([]models.Order, error)
	ListActive(ctx context.Context, userID string) ([]models.Order, error)
	FindByID(ctx context.Context, orderID string) (*models.Order, error)
	Watch(ctx context.Context, userID string) (<-chan []models.Order, error)
	Cancel(ctx context.Context, userID, orderID string, now time.Time, emit EmitFunc) (*models.Order, error)
	ConfirmCashPayment(ctx context.Context, userID, orderID string, amount float64, now time.Time, emit EmitFunc) (*models.Order, error)
}

type shopNamer interface {
	DisplayName(ctx context.Context, shopID string) string
}

type service struct {
	repo   orderStore
	shops  shopNamer
	outbox *outbox.Service
	logg   *logger.Logger
	now    func() time.Time
}

// NewService constructs the orders service.
func NewService(repo orderStore, shops shopNamer, ob *outbox.Service, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if shops == nil {
		return nil, fmt.Errorf("shop namer required")
	}
	if ob == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, shops: shops, outbox: ob, logg: logg, now: time.Now}, nil
}

// ListOrders returns one page of the user's orders, newest first.
func (s *service) ListOrders(ctx context.Context, userID string, params pagination.Params) (*Page, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	orders, err := s.repo.List(ctx, userID, limit+1, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	page := &Page{Orders: orders}
	if len(orders) > limit {
		page.Orders = orders[:limit]
		last := page.Orders[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.OrderID,
		})
	}
	if page.Orders == nil {
		page.Orders = []models.Order{}
	}
	return page, nil
}

// GetOrder loads one of the user's orders.
func (s *service) GetOrder(ctx context.Context, userID, orderID string) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

// ActiveOrders returns in-flight orders with shop names resolved for
// documents written before the name was denormalized.
func (s *service) ActiveOrders(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := s.repo.ListActive(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active orders")
	}
	for i := range orders {
		if orders[i].ShopName == "" {
			orders[i].ShopName = s.shops.DisplayName(ctx, orders[i].ShopID)
		}
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// Watch streams snapshot updates of the user's order list.
func (s *service) Watch(ctx context.Context, userID string) (<-chan []models.Order, error) {
	updates, err := s.repo.Watch(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "watch orders")
	}
	return updates, nil
}

// Cancel transitions an eligible order to cancelled and queues the
// cancellation event in the same transaction.
func (s *service) Cancel(ctx context.Context, userID, orderID string) (*models.Order, error) {
	now := s.now()
	order, err := s.repo.Cancel(ctx, userID, orderID, now, func(tx *firestore.Transaction, order *models.Order) error {
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCancelled,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.OrderID,
			Actor:         &outbox.ActorRef{UserID: userID, Email: order.UserEmail},
			Data: payloads.OrderCancelledEvent{
				OrderID:     order.OrderID,
				UserID:      order.UserID,
				ShopID:      order.ShopID,
				CancelledAt: now,
			},
			Version:    1,
			OccurredAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithOrderID(ctx, orderID), "order cancelled")
	return order, nil
}

// ConfirmCashPayment settles a delivered cash order when the entered
// amount parses to exactly the stored total.
func (s *service) ConfirmCashPayment(ctx context.Context, userID, orderID, amount string) (*models.Order, error) {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cash amount must be a number")
	}

	now := s.now()
	order, err := s.repo.ConfirmCashPayment(ctx, userID, orderID, parsed, now, func(tx *firestore.Transaction, order *models.Order) error {
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventCashPaymentConfirmed,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.OrderID,
			Actor:         &outbox.ActorRef{UserID: userID, Email: order.UserEmail},
			Data: payloads.CashPaymentConfirmedEvent{
				OrderID: order.OrderID,
				UserID:  order.UserID,
				ShopID:  order.ShopID,
				Amount:  parsed,
			},
			Version:    1,
			OccurredAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithOrderID(ctx, orderID), "cash payment confirmed")
	return order, nil
}
