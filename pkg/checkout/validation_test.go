package checkout

import (
	"testing"

	"github.com/HYPERLOOPFIVER/lakes/pkg/enums"
	pkgerrors "github.com/HYPERLOOPFIVER/lakes/pkg/errors"
)

func TestValidateStock_NoViolations(t *testing.T) {
	items := []StockValidationInput{
		{ProductID: "p1", ProductName: "Milk", Available: 10, Requested: 2},
		{ProductID: "p2", ProductName: "Bread", Available: 3, Requested: 3},
	}
	if err := ValidateStock(items); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateStock_Violations(t *testing.T) {
	items := []StockValidationInput{
		{ProductID: "p1", ProductName: "Milk", Available: 1, Requested: 4},
		{ProductID: "p2", ProductName: "Bread", Available: 0, Requested: 1},
	}
	err := ValidateStock(items)
	if err == nil {
		t.Fatal("expected error for stock violation")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStock {
		t.Fatalf("expected stock error code, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %T", typed.Details())
	}
	violations, ok := details["violations"].([]StockViolationDetail)
	if !ok || len(violations) != 2 {
		t.Fatalf("expected 2 violations, got %v", details["violations"])
	}
}

func TestValidateCard_CashSkipsValidation(t *testing.T) {
	summary, err := ValidateCard(enums.PaymentMethodCash, nil)
	if err != nil {
		t.Fatalf("cash checkout should not validate card: %v", err)
	}
	if summary != nil {
		t.Fatalf("expected nil summary for cash, got %+v", summary)
	}
}

func TestValidateCard_Summary(t *testing.T) {
	tests := []struct {
		number string
		brand  enums.CardBrand
		last4  string
	}{
		{number: "4111 1111 1111 1111", brand: enums.CardBrandVisa, last4: "1111"},
		{number: "5500000000000004", brand: enums.CardBrandMastercard, last4: "0004"},
		{number: "340000000000009", brand: enums.CardBrandAmex, last4: "0009"},
		{number: "6011000000000012", brand: enums.CardBrandOther, last4: "0012"},
	}

	for _, tt := range tests {
		summary, err := ValidateCard(enums.PaymentMethodCard, &CardInput{Number: tt.number, Expiry: "12/30", CVV: "123", Name: "Asha K"})
		if err != nil {
			t.Fatalf("card %q: unexpected error %v", tt.number, err)
		}
		if summary.Brand != tt.brand {
			t.Fatalf("card %q: expected brand %s got %s", tt.number, tt.brand, summary.Brand)
		}
		if summary.Last4 != tt.last4 {
			t.Fatalf("card %q: expected last4 %s got %s", tt.number, tt.last4, summary.Last4)
		}
	}
}

func TestValidateCard_Rejections(t *testing.T) {
	cases := []struct {
		name string
		card *CardInput
	}{
		{name: "nilCard", card: nil},
		{name: "shortNumber", card: &CardInput{Number: "1234", Expiry: "12/30", CVV: "123", Name: "Asha K"}},
		{name: "nonNumeric", card: &CardInput{Number: "4111-1111-1111-1111", Expiry: "12/30", CVV: "123", Name: "Asha K"}},
		{name: "emptyExpiry", card: &CardInput{Number: "4111111111111111", Expiry: "", CVV: "123", Name: "Asha K"}},
		{name: "blankExpiry", card: &CardInput{Number: "4111111111111111", Expiry: "  ", CVV: "123", Name: "Asha K"}},
		{name: "emptyCVV", card: &CardInput{Number: "4111111111111111", Expiry: "12/30", CVV: "", Name: "Asha K"}},
		{name: "emptyName", card: &CardInput{Number: "4111111111111111", Expiry: "12/30", CVV: "123", Name: ""}},
		{name: "blankName", card: &CardInput{Number: "4111111111111111", Expiry: "12/30", CVV: "123", Name: "   "}},
	}
	for _, tt := range cases {
		_, err := ValidateCard(enums.PaymentMethodCard, tt.card)
		if err == nil {
			t.Fatalf("%s: expected validation error", tt.name)
		}
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected validation code, got %v", tt.name, err)
		}
	}
}
