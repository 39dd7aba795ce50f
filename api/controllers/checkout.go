package controllers

import (
	"net/http"

	"github.com/HYPERLOOPFIVER/lakes/api/middleware"
	"github.com/HYPERLOOPFIVER/lakes/api/responses"
	"github.com/HYPERLOOPFIVER/lakes/api/validators"
	checkoutsvc "github.com/HYPERLOOPFIVER/lakes/internal/checkout"
	pkgcheckout "github.com/HYPERLOOPFIVER/lakes/pkg/checkout"
	"github.com/HYPERLOOPFIVER/lakes/pkg/enums"
	pkgerrors "github.com/HYPERLOOPFIVER/lakes/pkg/errors"
	"github.com/HYPERLOOPFIVER/lakes/pkg/logger"
)

// Field-level checks stay in the checkout service so its precondition
// order and messages reach the client unchanged.
type checkoutRequest struct {
	DeliverySlot  string             `json:"deliverySlot"`
	PaymentMethod string             `json:"paymentMethod"`
	Card          *checkoutCardInput `json:"card,omitempty"`
	Notes         string             `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type checkoutCardInput struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
	Name   string `json:"name"`
}

// Checkout places one order per shop from the caller's cart.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := checkoutsvc.CheckoutInput{
			DeliverySlot:  payload.DeliverySlot,
			PaymentMethod: enums.PaymentMethod(payload.PaymentMethod),
			Notes:         payload.Notes,
		}
		if payload.Card != nil {
			input.Card = &pkgcheckout.CardInput{
				Number: payload.Card.Number,
				Expiry: payload.Card.Expiry,
				CVV:    payload.Card.CVV,
				Name:   payload.Card.Name,
			}
		}

		result, err := svc.Checkout(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// DeliverySlots lists the selectable delivery windows.
func DeliverySlots(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.DeliverySlots(r.Context()))
	}
}
