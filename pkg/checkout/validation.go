package checkout

import (
	"fmt"
	"strings"

	"github.com/HYPERLOOPFIVER/lakes/pkg/enums"
	pkgerrors "github.com/HYPERLOOPFIVER/lakes/pkg/errors"
)

// StockValidationInput describes the data required to verify a line item
// against live inventory.
type StockValidationInput struct {
	ProductID   string
	ProductName string
	Available   int64
	Requested   int64
}

// StockViolationDetail exposes the data returned to callers when a
// validation fails.
type StockViolationDetail struct {
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name,omitempty"`
	AvailableQty int64  `json:"available_qty"`
	RequestedQty int64  `json:"requested_qty"`
}

// ValidateStock ensures every line item can be covered by the product's
// current stock.
func ValidateStock(items []StockValidationInput) error {
	var violations []StockViolationDetail
	for _, item := range items {
		if item.Requested <= item.Available {
			continue
		}
		violations = append(violations, StockViolationDetail{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			AvailableQty: item.Available,
			RequestedQty: item.Requested,
		})
	}
	if len(violations) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeStock, fmt.Sprintf("insufficient stock for %d item(s)", len(violations))).WithDetails(map[string]any{
		"violations": violations,
	})
}

// CardInput is the card payload accepted at checkout. Only the brand and
// last four digits survive validation; the rest is discarded.
type CardInput struct {
	Number string
	Expiry string
	CVV    string
	Name   string
}

// CardSummary is the storable result of validating a card.
type CardSummary struct {
	Last4 string
	Brand enums.CardBrand
}

// ValidateCard checks the card payload for a card checkout and reduces
// it to the storable summary.
func ValidateCard(method enums.PaymentMethod, card *CardInput) (*CardSummary, error) {
	if method != enums.PaymentMethodCard {
		return nil, nil
	}
	if card == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "card details are required for card payment")
	}
	number := strings.ReplaceAll(strings.TrimSpace(card.Number), " ", "")
	if len(number) < 12 || len(number) > 19 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "card number length is invalid")
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "card number must be numeric")
		}
	}
	if strings.TrimSpace(card.Expiry) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "card expiry is required")
	}
	if strings.TrimSpace(card.CVV) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "card cvv is required")
	}
	if strings.TrimSpace(card.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cardholder name is required")
	}
	return &CardSummary{
		Last4: number[len(number)-4:],
		Brand: enums.InferCardBrand(number),
	}, nil
}
