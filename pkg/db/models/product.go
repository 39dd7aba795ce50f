package models

import "time"

// Product is a storefront listing owned by a shop. Field names match the
// camelCase document schema written by the mobile clients.
type Product struct {
	ID              string    `firestore:"-" json:"id"`
	Name            string    `firestore:"name" json:"name"`
	Description     string    `firestore:"description,omitempty" json:"description,omitempty"`
	Category        string    `firestore:"category,omitempty" json:"category,omitempty"`
	Price           float64   `firestore:"price" json:"price"`
	ImageURL        string    `firestore:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	ShopID          string    `firestore:"shopId,omitempty" json:"shopId,omitempty"`
	Stock           int64     `firestore:"stock" json:"stock"`
	PurchaseCount   int64     `firestore:"purchaseCount,omitempty" json:"purchaseCount,omitempty"`
	Rating          float64   `firestore:"rating,omitempty" json:"rating,omitempty"`
	Trending        bool      `firestore:"trending,omitempty" json:"trending,omitempty"`
	Tags            []string  `firestore:"tags,omitempty" json:"tags,omitempty"`
	AvailableCities []string  `firestore:"availableCities,omitempty" json:"availableCities,omitempty"`
	CreatedAt       time.Time `firestore:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt       time.Time `firestore:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
