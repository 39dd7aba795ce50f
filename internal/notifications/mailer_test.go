package notifications

import (
	"context"
	"strings"
	"testing"

	"github.com/HYPERLOOPFIVER/lakes/pkg/db/models"
	pkgerrors "github.com/HYPERLOOPFIVER/lakes/pkg/errors"
	"github.com/HYPERLOOPFIVER/lakes/pkg/logger"
	"github.com/HYPERLOOPFIVER/lakes/pkg/outbox/payloads"
)

type stubSender struct {
	to      string
	subject string
	plain   string
	html    string
	calls   int
	err     error
}

func (s *stubSender) Send(ctx context.Context, to, subject, plainText, htmlBody string) error {
	s.calls++
	s.to = to
	s.subject = subject
	s.plain = plainText
	s.html = htmlBody
	return s.err
}

type stubShopLoader struct {
	shops map[string]*models.Shop
}

func (s *stubShopLoader) GetShop(ctx context.Context, shopID string) (*models.Shop, error) {
	shop, ok := s.shops[shopID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
	}
	return shop, nil
}

func testMailer(t *testing.T, sender *stubSender, shops *stubShopLoader) *Mailer {
	t.Helper()
	if shops == nil {
		shops = &stubShopLoader{}
	}
	logg := logger.New(logger.Options{ServiceName: "notifications-test"})
	mailer, err := NewMailer(sender, shops, logg)
	if err != nil {
		t.Fatalf("new mailer: %v", err)
	}
	return mailer
}

func placedEvent() payloads.OrderPlacedEvent {
	return payloads.OrderPlacedEvent{
		OrderID:   "order-1",
		UserID:    "user-1",
		UserName:  "Asha",
		UserPhone: "+91 99999 00000",
		ShopID:    "shop-a",
		ShopName:  "Alpha Stores",
		ShopEmail: "owner@alpha.example",
		Items: []payloads.OrderPlacedItem{
			{Name: "Steel Pan", Quantity: 2, Price: 50},
			{Name: "Chef Knife", Quantity: 1, Price: 100},
		},
		Total: 236,
		Slot:  "10:15 - 10:30",
	}
}

func TestHandleOrderPlacedSendsToPayloadEmail(t *testing.T) {
	sender := &stubSender{}
	mailer := testMailer(t, sender, nil)

	if err := mailer.HandleOrderPlaced(context.Background(), placedEvent()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sender.calls != 1 {
		t.Fatalf("expected one send, got %d", sender.calls)
	}
	if sender.to != "owner@alpha.example" {
		t.Fatalf("unexpected recipient: %q", sender.to)
	}
	if sender.subject != "New order order-1" {
		t.Fatalf("unexpected subject: %q", sender.subject)
	}
	for _, want := range []string{"Steel Pan", "Chef Knife", "236.00", "+91 99999 00000", "10:15 - 10:30"} {
		if !strings.Contains(sender.plain, want) {
			t.Fatalf("plain body missing %q:\n%s", want, sender.plain)
		}
	}
	if !strings.Contains(sender.html, "<strong>Total: 236.00</strong>") {
		t.Fatalf("html body missing total:\n%s", sender.html)
	}
}

func TestHandleOrderPlacedFallsBackToShopLookup(t *testing.T) {
	sender := &stubSender{}
	shops := &stubShopLoader{shops: map[string]*models.Shop{
		"shop-a": {ID: "shop-a", Name: "Alpha Stores", Email: "fallback@alpha.example"},
	}}
	mailer := testMailer(t, sender, shops)

	event := placedEvent()
	event.ShopEmail = ""
	if err := mailer.HandleOrderPlaced(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sender.to != "fallback@alpha.example" {
		t.Fatalf("unexpected recipient: %q", sender.to)
	}
}

func TestHandleOrderPlacedFailsWithoutRecipient(t *testing.T) {
	sender := &stubSender{}
	shops := &stubShopLoader{shops: map[string]*models.Shop{
		"shop-a": {ID: "shop-a", Name: "Alpha Stores"},
	}}
	mailer := testMailer(t, sender, shops)

	event := placedEvent()
	event.ShopEmail = ""
	err := mailer.HandleOrderPlaced(context.Background(), event)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if sender.calls != 0 {
		t.Fatalf("expected no send, got %d", sender.calls)
	}
}

func TestHandleOrderPlacedWrapsSendFailure(t *testing.T) {
	sender := &stubSender{err: context.DeadlineExceeded}
	mailer := testMailer(t, sender, nil)

	err := mailer.HandleOrderPlaced(context.Background(), placedEvent())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
