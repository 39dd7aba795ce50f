package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/HYPERLOOPFIVER/lakes/internal/checkout/helpers"
	pkgcheckout "github.com/HYPERLOOPFIVER/lakes/pkg/checkout"
	"github.com/HYPERLOOPFIVER/lakes/pkg/config"
	"github.com/HYPERLOOPFIVER/lakes/pkg/db"
	"github.com/HYPERLOOPFIVER/lakes/pkg/db/models"
	"github.com/HYPERLOOPFIVER/lakes/pkg/enums"
	pkgerrors "github.com/HYPERLOOPFIVER/lakes/pkg/errors"
	"github.com/HYPERLOOPFIVER/lakes/pkg/logger"
	"github.com/HYPERLOOPFIVER/lakes/pkg/metrics"
	"github.com/HYPERLOOPFIVER/lakes/pkg/outbox"
	"github.com/HYPERLOOPFIVER/lakes/pkg/outbox/payloads"
)

// Service turns a cart into per-shop orders.
type Service interface {
	Checkout(ctx context.Context, userID string, input CheckoutInput) (*CheckoutResult, error)
	DeliverySlots(ctx context.Context) []helpers.Slot
}

// CheckoutInput is the validated checkout request.
type CheckoutInput struct {
	DeliverySlot  string
	PaymentMethod enums.PaymentMethod
	Card          *pkgcheckout.CardInput
	Notes         string
}

// CheckoutResult reports the orders created by one checkout commit.
type CheckoutResult struct {
	OrderIDs []string        `json:"orderIds"`
	Orders   []*models.Order `json:"orders"`
}

type cartReader interface {
	Get(ctx context.Context, userID string) (*models.Cart, error)
	ProductsByIDs(ctx context.Context, ids []string) (map[string]models.Product, error)
}

type userLoader interface {
	Get(ctx context.Context, userID string) (*models.User, error)
}

type shopLoader interface {
	GetShop(ctx context.Context, shopID string) (*models.Shop, error)
}

type orderCommitter interface {
	CommitOrders(ctx context.Context, input CommitInput, emit func(tx *firestore.Transaction, order *models.Order) error) error
}

// ServiceParams groups the checkout service dependencies.
type ServiceParams struct {
	Carts   cartReader
	Users   userLoader
	Shops   shopLoader
	Repo    orderCommitter
	Outbox  *outbox.Service
	Metrics *metrics.CheckoutMetrics
	Config  config.CheckoutConfig
	Logger  *logger.Logger
}

type service struct {
	carts       cartReader
	users       userLoader
	shops       shopLoader
	repo        orderCommitter
	outbox      *outbox.Service
	metrics     *metrics.CheckoutMetrics
	cfg         config.CheckoutConfig
	deliveryFee decimal.Decimal
	taxRate     decimal.Decimal
	logg        *logger.Logger
	now         func() time.Time
}

// NewService constructs the checkout service, parsing the configured fee
// and tax rate once.
func NewService(params ServiceParams) (Service, error) {
	if params.Carts == nil {
		return nil, fmt.Errorf("cart reader required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user loader required")
	}
	if params.Shops == nil {
		return nil, fmt.Errorf("shop loader required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("checkout repository required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}

	fee, err := decimal.NewFromString(params.Config.DeliveryFee)
	if err != nil {
		return nil, fmt.Errorf("parse delivery fee %q: %w", params.Config.DeliveryFee, err)
	}
	rate, err := decimal.NewFromString(params.Config.TaxRate)
	if err != nil {
		return nil, fmt.Errorf("parse tax rate %q: %w", params.Config.TaxRate, err)
	}

	return &service{
		carts:       params.Carts,
		users:       params.Users,
		shops:       params.Shops,
		repo:        params.Repo,
		outbox:      params.Outbox,
		metrics:     params.Metrics,
		cfg:         params.Config,
		deliveryFee: fee,
		taxRate:     rate,
		logg:        params.Logger,
		now:         time.Now,
	}, nil
}

// DeliverySlots lists the bookable windows from now.
func (s *service) DeliverySlots(ctx context.Context) []helpers.Slot {
	return helpers.GenerateSlots(s.now(), s.cfg.SlotCount, s.cfg.SlotInterval)
}

// Checkout validates the request, prices the cart per shop, and commits
// every order in one transaction. Validation failures perform zero
// writes.
func (s *service) Checkout(ctx context.Context, userID string, input CheckoutInput) (*CheckoutResult, error) {
	started := s.now()
	method := string(input.PaymentMethod)

	result, err := s.checkout(ctx, userID, input)
	s.metrics.ObserveDuration(method, s.now().Sub(started))
	if err != nil {
		s.metrics.IncFailure(method)
		return nil, err
	}
	s.metrics.IncSuccess(method)
	s.metrics.ObserveOrders(method, len(result.Orders))
	return result, nil
}

func (s *service) checkout(ctx context.Context, userID string, input CheckoutInput) (*CheckoutResult, error) {
	lines, err := s.reconcileCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Address == nil || user.Address.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required")
	}

	slot := strings.TrimSpace(input.DeliverySlot)
	if slot == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery slot is required")
	}

	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method must be card or cash")
	}
	card, err := pkgcheckout.ValidateCard(input.PaymentMethod, input.Card)
	if err != nil {
		return nil, err
	}

	now := s.now()
	groups := helpers.GroupByShop(lines)
	orders := make([]*models.Order, 0, len(groups))
	deltas := make([]StockDelta, 0, len(lines))

	shopEmails := make(map[string]string, len(groups))
	for _, shopID := range helpers.SortedShopIDs(groups) {
		group := groups[shopID]
		totals := helpers.ComputeTotals(group, s.deliveryFee, s.taxRate)
		shopName, shopEmail := s.resolveShop(ctx, shopID)
		shopEmails[shopID] = shopEmail

		order := &models.Order{
			OrderID:       uuid.NewString(),
			UserID:        userID,
			UserEmail:     user.Email,
			UserName:      user.DisplayNameOrFallback("Customer"),
			ShopID:        shopID,
			ShopName:      shopName,
			Items:         make([]models.OrderItem, 0, len(group)),
			Subtotal:      totals.Subtotal,
			DeliveryFee:   totals.DeliveryFee,
			Tax:           totals.Tax,
			Total:         totals.Total,
			Status:        enums.OrderStatusPlaced,
			Address:       user.Address,
			DeliverySlot:  slot,
			PaymentMethod: input.PaymentMethod,
			PaymentStatus: enums.PaymentStatusPending,
			Notes:         strings.TrimSpace(input.Notes),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if card != nil {
			// No gateway is wired up; a validated card is treated as
			// settled at order time, matching the legacy behavior.
			order.PaymentStatus = enums.PaymentStatusPaid
			order.PaymentDetails = &models.PaymentDetails{Last4: card.Last4, Brand: card.Brand}
		}

		for _, line := range group {
			order.Items = append(order.Items, models.OrderItem{
				ProductID: line.ProductID,
				Name:      line.Name,
				Quantity:  line.Quantity,
				Price:     line.Price,
				ImageURL:  line.ImageURL,
				ShopID:    line.ShopID,
			})
			if !line.Missing {
				deltas = append(deltas, StockDelta{
					ProductID: line.ProductID,
					Name:      line.Name,
					Quantity:  line.Quantity,
				})
			}
		}
		orders = append(orders, order)
	}

	commit := CommitInput{UserID: userID, Orders: orders, Deltas: deltas, Now: now}
	err = s.repo.CommitOrders(ctx, commit, func(tx *firestore.Transaction, order *models.Order) error {
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderPlaced,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.OrderID,
			Actor:         &outbox.ActorRef{UserID: userID, Email: user.Email},
			Data:          placedEvent(order, user, shopEmails[order.ShopID]),
			Version:       1,
			OccurredAt:    now,
		})
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "commit checkout")
	}

	ids := make([]string, 0, len(orders))
	for _, order := range orders {
		ids = append(ids, order.OrderID)
	}
	logCtx := s.logg.WithFields(ctx, map[string]any{"order_count": len(orders), "payment_method": string(input.PaymentMethod)})
	s.logg.Info(s.logg.WithUserID(logCtx, userID), "checkout committed")

	return &CheckoutResult{OrderIDs: ids, Orders: orders}, nil
}

// reconcileCart loads the cart and prices each valid entry with the live
// product document. Dangling references keep their line at price zero so
// the order record stays auditable.
func (s *service) reconcileCart(ctx context.Context, userID string) ([]helpers.Line, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	valid := make([]models.CartItem, 0, len(cart.Items))
	ids := make([]string, 0, len(cart.Items))
	seen := make(map[string]struct{})
	for _, item := range cart.Items {
		if !item.Valid() {
			continue
		}
		valid = append(valid, item)
		if _, ok := seen[item.ProductID]; !ok {
			seen[item.ProductID] = struct{}{}
			ids = append(ids, item.ProductID)
		}
	}
	if len(valid) == 0 {
		return nil, nil
	}

	products, err := s.carts.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart products")
	}

	lines := make([]helpers.Line, 0, len(valid))
	for _, item := range valid {
		line := helpers.Line{ProductID: item.ProductID, Quantity: item.Quantity}
		if product, ok := products[item.ProductID]; ok {
			line.Name = product.Name
			line.Price = product.Price
			line.ImageURL = product.ImageURL
			line.ShopID = product.ShopID
		} else {
			line.Name = "Product not found"
			line.Price = 0
			line.Missing = true
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (s *service) loadUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

// resolveShop looks up the seller's display name and email, never
// failing the checkout over a bad shop document.
func (s *service) resolveShop(ctx context.Context, shopID string) (string, string) {
	if shopID == models.DefaultShopID {
		return models.UnknownShopName, ""
	}
	shop, err := s.shops.GetShop(ctx, shopID)
	if err != nil {
		return models.UnknownShopName, ""
	}
	return shop.DisplayName(), shop.Email
}

func placedEvent(order *models.Order, user *models.User, shopEmail string) payloads.OrderPlacedEvent {
	event := payloads.OrderPlacedEvent{
		OrderID:   order.OrderID,
		UserID:    order.UserID,
		UserName:  order.UserName,
		UserPhone: user.Phone,
		ShopID:    order.ShopID,
		ShopName:  order.ShopName,
		ShopEmail: shopEmail,
		Total:     order.Total,
		Slot:      order.DeliverySlot,
	}
	for _, item := range order.Items {
		event.Items = append(event.Items, payloads.OrderPlacedItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}
	return event
}
