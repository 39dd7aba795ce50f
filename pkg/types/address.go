package types

import "strings"

// Address is the delivery address shape stored on users and orders.
type Address struct {
	Formatted string `firestore:"formatted,omitempty" json:"formatted,omitempty"`
	Street    string `firestore:"street" json:"street"`
	City      string `firestore:"city" json:"city"`
	State     string `firestore:"state" json:"state"`
	Pincode   string `firestore:"pincode" json:"pincode"`
}

// IsZero reports whether no address fields are set.
func (a Address) IsZero() bool {
	return a.Formatted == "" && a.Street == "" && a.City == "" && a.State == "" && a.Pincode == ""
}

// Format joins the component fields into a single display line, skipping
// blanks. Used when the stored formatted string is absent.
func (a Address) Format() string {
	if a.Formatted != "" {
		return a.Formatted
	}
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Street, a.City, a.State, a.Pincode} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, ", ")
}

// DecodeAddress normalizes the historical address shapes found in order
// documents. Legacy writers stored either a map or a single-element array
// wrapping that map; anything else decodes to nil.
func DecodeAddress(raw any) *Address {
	switch v := raw.(type) {
	case nil:
		return nil
	case []any:
		if len(v) == 0 {
			return nil
		}
		return DecodeAddress(v[0])
	case map[string]any:
		addr := &Address{
			Formatted: stringField(v, "formatted"),
			Street:    stringField(v, "street"),
			City:      stringField(v, "city"),
			State:     stringField(v, "state"),
			Pincode:   stringField(v, "pincode"),
		}
		if addr.IsZero() {
			return nil
		}
		return addr
	default:
		return nil
	}
}

func stringField(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}
