package models

import "time"

// Cart is the single cart document stored per user at carts/{userId}.
type Cart struct {
	Items     []CartItem `firestore:"items" json:"items"`
	Total     float64    `firestore:"total" json:"total"`
	CreatedAt time.Time  `firestore:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt time.Time  `firestore:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// CartItem is a line in the cart. Name, price and image are denormalized
// at add time for display, but the catalog remains the source of truth
// when the cart is read back.
type CartItem struct {
	ProductID string    `firestore:"productId" json:"productId"`
	Quantity  int64     `firestore:"quantity" json:"quantity"`
	Name      string    `firestore:"name,omitempty" json:"name,omitempty"`
	Price     float64   `firestore:"price,omitempty" json:"price,omitempty"`
	ImageURL  string    `firestore:"image,omitempty" json:"image,omitempty"`
	AddedAt   time.Time `firestore:"addedAt,omitempty" json:"addedAt,omitempty"`
}

// Valid reports whether the item carries the minimum fields required to
// be reconciled against the catalog. Malformed legacy entries are dropped
// rather than surfaced.
func (i CartItem) Valid() bool {
	return i.ProductID != "" && i.Quantity > 0
}
