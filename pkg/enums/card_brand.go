package enums

// CardBrand is the issuer network inferred from a card number.
type CardBrand string

const (
	CardBrandVisa       CardBrand = "Visa"
	CardBrandMastercard CardBrand = "Mastercard"
	CardBrandAmex       CardBrand = "American Express"
	CardBrandOther      CardBrand = "Other"
)

// String implements fmt.Stringer.
func (c CardBrand) String() string {
	return string(c)
}

// InferCardBrand classifies a card number by its leading digit. The full
// number is never stored, so a coarse first-digit check is all we need.
func InferCardBrand(number string) CardBrand {
	if number == "" {
		return CardBrandOther
	}
	switch number[0] {
	case '4':
		return CardBrandVisa
	case '5':
		return CardBrandMastercard
	case '3':
		return CardBrandAmex
	default:
		return CardBrandOther
	}
}
