package checkout

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	pkgcheckout "github.com/HYPERLOOPFIVER/lakes/pkg/checkout"
	"github.com/HYPERLOOPFIVER/lakes/pkg/config"
	"github.com/HYPERLOOPFIVER/lakes/pkg/db/models"
	"github.com/HYPERLOOPFIVER/lakes/pkg/enums"
	pkgerrors "github.com/HYPERLOOPFIVER/lakes/pkg/errors"
	"github.com/HYPERLOOPFIVER/lakes/pkg/logger"
	"github.com/HYPERLOOPFIVER/lakes/pkg/outbox"
	"github.com/HYPERLOOPFIVER/lakes/pkg/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type stubCartReader struct {
	cart     *models.Cart
	products map[string]models.Product
}

func (s *stubCartReader) Get(ctx context.Context, userID string) (*models.Cart, error) {
	if s.cart == nil {
		return nil, status.Error(codes.NotFound, "missing")
	}
	return s.cart, nil
}

func (s *stubCartReader) ProductsByIDs(ctx context.Context, ids []string) (map[string]models.Product, error) {
	found := make(map[string]models.Product)
	for _, id := range ids {
		if product, ok := s.products[id]; ok {
			found[id] = product
		}
	}
	return found, nil
}

type stubUserLoader struct {
	user *models.User
}

func (s *stubUserLoader) Get(ctx context.Context, userID string) (*models.User, error) {
	if s.user == nil {
		return nil, status.Error(codes.NotFound, "missing")
	}
	return s.user, nil
}

type stubShopLoader struct {
	shops map[string]*models.Shop
}

func (s *stubShopLoader) GetShop(ctx context.Context, shopID string) (*models.Shop, error) {
	if shop, ok := s.shops[shopID]; ok {
		return shop, nil
	}
	return nil, status.Error(codes.NotFound, "missing")
}

type stubCommitter struct {
	input  *CommitInput
	err    error
	called int
}

func (s *stubCommitter) CommitOrders(ctx context.Context, input CommitInput, emit func(tx *firestore.Transaction, order *models.Order) error) error {
	s.called++
	s.input = &input
	return s.err
}

func validUser() *models.User {
	return &models.User{
		ID:          "u1",
		DisplayName: "Asha",
		Email:       "asha@example.com",
		Phone:       "9876543210",
		Address:     &types.Address{Street: "12 Lake Rd", City: "Indore", Pincode: "452001"},
	}
}

func testCheckoutService(t *testing.T, carts *stubCartReader, users *stubUserLoader, shops *stubShopLoader, committer *stubCommitter) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Carts:   carts,
		Users:   users,
		Shops:   shops,
		Repo:    committer,
		Outbox:  outbox.NewService(nil, nil),
		Metrics: nil,
		Config: config.CheckoutConfig{
			DeliveryFee:  "20",
			TaxRate:      "0.08",
			SlotCount:    48,
			SlotInterval: 15 * time.Minute,
		},
		Logger: logger.New(logger.Options{}),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCheckoutSplitsOrdersPerShop(t *testing.T) {
	carts := &stubCartReader{
		cart: &models.Cart{Items: []models.CartItem{
			{ProductID: "a1", Quantity: 2},
			{ProductID: "a2", Quantity: 1},
			{ProductID: "b1", Quantity: 1},
		}},
		products: map[string]models.Product{
			"a1": {ID: "a1", Name: "Mug", Price: 50, ShopID: "shop-a", Stock: 10},
			"a2": {ID: "a2", Name: "Kettle", Price: 100, ShopID: "shop-a", Stock: 5},
			"b1": {ID: "b1", Name: "Lamp", Price: 50, ShopID: "shop-b", Stock: 3},
		},
	}
	shops := &stubShopLoader{shops: map[string]*models.Shop{
		"shop-a": {ID: "shop-a", Name: "Alpha Stores", Email: "alpha@example.com"},
	}}
	committer := &stubCommitter{}
	svc := testCheckoutService(t, carts, &stubUserLoader{user: validUser()}, shops, committer)

	result, err := svc.Checkout(context.Background(), "u1", CheckoutInput{
		DeliverySlot:  "10:15 - 10:30",
		PaymentMethod: enums.PaymentMethodCash,
		Notes:         "ring the bell",
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if len(result.Orders) != 2 {
		t.Fatalf("expected one order per shop, got %d", len(result.Orders))
	}

	a, b := result.Orders[0], result.Orders[1]
	if a.ShopID != "shop-a" || b.ShopID != "shop-b" {
		t.Fatalf("expected deterministic shop order, got %s then %s", a.ShopID, b.ShopID)
	}
	if a.Subtotal != 200 || a.DeliveryFee != 20 || a.Tax != 16 || a.Total != 236 {
		t.Fatalf("shop-a totals wrong: %+v", a)
	}
	if b.Subtotal != 50 || b.Total != 74 {
		t.Fatalf("shop-b totals wrong: %+v", b)
	}
	if a.ShopName != "Alpha Stores" {
		t.Fatalf("expected shop name resolved, got %q", a.ShopName)
	}
	if b.ShopName != models.UnknownShopName {
		t.Fatalf("expected unknown-shop fallback, got %q", b.ShopName)
	}
	if a.Status != enums.OrderStatusPlaced || a.PaymentStatus != enums.PaymentStatusPending {
		t.Fatalf("unexpected status fields: %s %s", a.Status, a.PaymentStatus)
	}
	if a.DeliverySlot != "10:15 - 10:30" || a.Notes != "ring the bell" {
		t.Fatalf("slot or notes not carried: %+v", a)
	}
	if a.UserName != "Asha" || a.UserEmail != "asha@example.com" {
		t.Fatalf("user fields not carried: %+v", a)
	}

	if committer.input == nil || committer.input.UserID != "u1" {
		t.Fatalf("expected commit for user, got %+v", committer.input)
	}
	if len(committer.input.Deltas) != 3 {
		t.Fatalf("expected a stock delta per line, got %d", len(committer.input.Deltas))
	}
}

func TestCheckoutPreconditionsWriteNothing(t *testing.T) {
	products := map[string]models.Product{
		"a1": {ID: "a1", Name: "Mug", Price: 50, ShopID: "shop-a", Stock: 10},
	}
	fullCart := func() *models.Cart {
		return &models.Cart{Items: []models.CartItem{{ProductID: "a1", Quantity: 1}}}
	}

	cases := []struct {
		name    string
		cart    *models.Cart
		user    *models.User
		input   CheckoutInput
		message string
	}{
		{
			name:    "emptyCart",
			cart:    &models.Cart{},
			user:    validUser(),
			input:   CheckoutInput{DeliverySlot: "s", PaymentMethod: enums.PaymentMethodCash},
			message: "cart is empty",
		},
		{
			name:    "noAddress",
			cart:    fullCart(),
			user:    &models.User{ID: "u1", Email: "a@example.com"},
			input:   CheckoutInput{DeliverySlot: "s", PaymentMethod: enums.PaymentMethodCash},
			message: "delivery address is required",
		},
		{
			name:    "noSlot",
			cart:    fullCart(),
			user:    validUser(),
			input:   CheckoutInput{PaymentMethod: enums.PaymentMethodCash},
			message: "delivery slot is required",
		},
		{
			name:    "badMethod",
			cart:    fullCart(),
			user:    validUser(),
			input:   CheckoutInput{DeliverySlot: "s", PaymentMethod: enums.PaymentMethod("upi")},
			message: "payment method must be card or cash",
		},
		{
			name:    "cardWithoutDetails",
			cart:    fullCart(),
			user:    validUser(),
			input:   CheckoutInput{DeliverySlot: "s", PaymentMethod: enums.PaymentMethodCard},
			message: "card details are required for card payment",
		},
		{
			name: "cardWithoutExpiry",
			cart: fullCart(),
			user: validUser(),
			input: CheckoutInput{
				DeliverySlot:  "s",
				PaymentMethod: enums.PaymentMethodCard,
				Card:          &pkgcheckout.CardInput{Number: "4242424242424242", CVV: "123", Name: "Asha K"},
			},
			message: "card expiry is required",
		},
		{
			name: "cardWithoutName",
			cart: fullCart(),
			user: validUser(),
			input: CheckoutInput{
				DeliverySlot:  "s",
				PaymentMethod: enums.PaymentMethodCard,
				Card:          &pkgcheckout.CardInput{Number: "4242424242424242", Expiry: "12/27", CVV: "123"},
			},
			message: "cardholder name is required",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			committer := &stubCommitter{}
			svc := testCheckoutService(t,
				&stubCartReader{cart: tc.cart, products: products},
				&stubUserLoader{user: tc.user},
				&stubShopLoader{},
				committer,
			)

			_, err := svc.Checkout(context.Background(), "u1", tc.input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if typed.Message() != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, typed.Message())
			}
			if committer.called != 0 {
				t.Fatal("expected zero writes on validation failure")
			}
		})
	}
}

func TestCheckoutCardPaymentStoresSummaryOnly(t *testing.T) {
	carts := &stubCartReader{
		cart: &models.Cart{Items: []models.CartItem{{ProductID: "a1", Quantity: 1}}},
		products: map[string]models.Product{
			"a1": {ID: "a1", Name: "Mug", Price: 50, ShopID: "shop-a", Stock: 10},
		},
	}
	committer := &stubCommitter{}
	svc := testCheckoutService(t, carts, &stubUserLoader{user: validUser()}, &stubShopLoader{}, committer)

	result, err := svc.Checkout(context.Background(), "u1", CheckoutInput{
		DeliverySlot:  "s",
		PaymentMethod: enums.PaymentMethodCard,
		Card:          &pkgcheckout.CardInput{Number: "4242 4242 4242 4242", Expiry: "12/27", CVV: "123", Name: "Asha K"},
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	order := result.Orders[0]
	if order.PaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("expected card order settled immediately, got %s", order.PaymentStatus)
	}
	if order.PaymentDetails == nil || order.PaymentDetails.Last4 != "4242" || order.PaymentDetails.Brand != enums.CardBrandVisa {
		t.Fatalf("unexpected payment details %+v", order.PaymentDetails)
	}
}

func TestCheckoutKeepsDanglingLineWithoutStockDelta(t *testing.T) {
	carts := &stubCartReader{
		cart: &models.Cart{Items: []models.CartItem{
			{ProductID: "a1", Quantity: 1},
			{ProductID: "gone", Quantity: 2, Price: 99},
		}},
		products: map[string]models.Product{
			"a1": {ID: "a1", Name: "Mug", Price: 50, ShopID: "shop-a", Stock: 10},
		},
	}
	committer := &stubCommitter{}
	svc := testCheckoutService(t, carts, &stubUserLoader{user: validUser()}, &stubShopLoader{}, committer)

	result, err := svc.Checkout(context.Background(), "u1", CheckoutInput{
		DeliverySlot:  "s",
		PaymentMethod: enums.PaymentMethodCash,
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	// The dangling line lands in the default shop group at price zero.
	var defaultOrder *models.Order
	for _, order := range result.Orders {
		if order.ShopID == models.DefaultShopID {
			defaultOrder = order
		}
	}
	if defaultOrder == nil {
		t.Fatalf("expected a default-shop order, got %+v", result.Orders)
	}
	if defaultOrder.Items[0].Name != "Product not found" || defaultOrder.Items[0].Price != 0 {
		t.Fatalf("expected placeholder line, got %+v", defaultOrder.Items[0])
	}
	if defaultOrder.Subtotal != 0 || defaultOrder.Total != 20 {
		t.Fatalf("expected fee-only total for placeholder order, got %+v", defaultOrder)
	}

	if len(committer.input.Deltas) != 1 || committer.input.Deltas[0].ProductID != "a1" {
		t.Fatalf("expected no stock delta for dangling line, got %+v", committer.input.Deltas)
	}
}

func TestDeliverySlotsCount(t *testing.T) {
	svc := testCheckoutService(t, &stubCartReader{}, &stubUserLoader{}, &stubShopLoader{}, &stubCommitter{})
	slots := svc.DeliverySlots(context.Background())
	if len(slots) != 48 {
		t.Fatalf("expected 48 slots, got %d", len(slots))
	}
}
