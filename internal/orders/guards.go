package orders

import (
	"github.com/HYPERLOOPFIVER/lakes/pkg/db/models"
	"github.com/HYPERLOOPFIVER/lakes/pkg/enums"
	pkgerrors "github.com/HYPERLOOPFIVER/lakes/pkg/errors"
)

// canCancel allows cancellation only before the shop starts preparing
// and only once.
func canCancel(order *models.Order) error {
	if order.CancelledAt != nil || !order.Status.Cancellable() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order can no longer be cancelled")
	}
	return nil
}

// canConfirmCash allows settling a cash order only after delivery, only
// once, and only for the exact stored total.
func canConfirmCash(order *models.Order, amount float64) error {
	if order.PaymentMethod != enums.PaymentMethodCash {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order was not paid in cash")
	}
	if order.PaymentStatus != enums.PaymentStatusPending {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "payment is already settled")
	}
	if order.Status != enums.OrderStatusDelivered {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order has not been delivered")
	}
	if amount != order.Total {
		return pkgerrors.New(pkgerrors.CodePayment, "entered amount does not match the order total")
	}
	return nil
}
