package notifications

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/HYPERLOOPFIVER/lakes/pkg/db/models"
	"github.com/HYPERLOOPFIVER/lakes/pkg/email"
	pkgerrors "github.com/HYPERLOOPFIVER/lakes/pkg/errors"
	"github.com/HYPERLOOPFIVER/lakes/pkg/logger"
	"github.com/HYPERLOOPFIVER/lakes/pkg/outbox/payloads"
)

type shopLoader interface {
	GetShop(ctx context.Context, shopID string) (*models.Shop, error)
}

// Mailer turns placed-order events into seller notification emails.
type Mailer struct {
	sender email.Sender
	shops  shopLoader
	logg   *logger.Logger
}

// NewMailer builds the seller notification mailer.
func NewMailer(sender email.Sender, shops shopLoader, logg *logger.Logger) (*Mailer, error) {
	if sender == nil {
		return nil, fmt.Errorf("email sender required")
	}
	if shops == nil {
		return nil, fmt.Errorf("shop loader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Mailer{sender: sender, shops: shops, logg: logg}, nil
}

// HandleOrderPlaced emails the shop that received the order. The event
// carries the shop email captured at checkout; older events fall back to
// a live shop lookup.
func (m *Mailer) HandleOrderPlaced(ctx context.Context, payload payloads.OrderPlacedEvent) error {
	to, err := m.resolveRecipient(ctx, payload)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("New order %s", payload.OrderID)
	plain, htmlBody := renderOrderPlaced(payload)
	if err := m.sender.Send(ctx, to, subject, plain, htmlBody); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send order notification")
	}

	m.logg.Info(m.logg.WithFields(ctx, map[string]any{
		"order_id": payload.OrderID,
		"shop_id":  payload.ShopID,
	}), "seller notified of new order")
	return nil
}

func (m *Mailer) resolveRecipient(ctx context.Context, payload payloads.OrderPlacedEvent) (string, error) {
	if payload.ShopEmail != "" {
		return payload.ShopEmail, nil
	}
	shop, err := m.shops.GetShop(ctx, payload.ShopID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shop for notification")
	}
	if shop.Email == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "shop has no notification email")
	}
	return shop.Email, nil
}

func renderOrderPlaced(payload payloads.OrderPlacedEvent) (plain string, htmlBody string) {
	customer := payload.UserName
	if customer == "" {
		customer = "A customer"
	}

	var text strings.Builder
	fmt.Fprintf(&text, "%s placed order %s.\n\n", customer, payload.OrderID)
	for _, item := range payload.Items {
		fmt.Fprintf(&text, "- %s x%d @ %.2f\n", item.Name, item.Quantity, item.Price)
	}
	fmt.Fprintf(&text, "\nTotal: %.2f\n", payload.Total)
	if payload.Slot != "" {
		fmt.Fprintf(&text, "Delivery slot: %s\n", payload.Slot)
	}
	if payload.UserPhone != "" {
		fmt.Fprintf(&text, "Customer phone: %s\n", payload.UserPhone)
	}

	var body strings.Builder
	fmt.Fprintf(&body, "<h2>New order %s</h2>", html.EscapeString(payload.OrderID))
	fmt.Fprintf(&body, "<p>%s placed a new order.</p><ul>", html.EscapeString(customer))
	for _, item := range payload.Items {
		fmt.Fprintf(&body, "<li>%s &times; %d @ %.2f</li>", html.EscapeString(item.Name), item.Quantity, item.Price)
	}
	fmt.Fprintf(&body, "</ul><p><strong>Total: %.2f</strong></p>", payload.Total)
	if payload.Slot != "" {
		fmt.Fprintf(&body, "<p>Delivery slot: %s</p>", html.EscapeString(payload.Slot))
	}
	if payload.UserPhone != "" {
		fmt.Fprintf(&body, "<p>Customer phone: %s</p>", html.EscapeString(payload.UserPhone))
	}
	return text.String(), body.String()
}
