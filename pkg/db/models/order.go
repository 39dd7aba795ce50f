package models

import (
	"time"

	"github.com/HYPERLOOPFIVER/lakes/pkg/enums"
	"github.com/HYPERLOOPFIVER/lakes/pkg/types"
)

// Order is one per-shop order produced by checkout. The same document is
// written to the top-level orders collection and mirrored into the user
// and shop subcollections.
type Order struct {
	ID             string              `firestore:"-" json:"id"`
	OrderID        string              `firestore:"orderId" json:"orderId"`
	UserID         string              `firestore:"userId" json:"userId"`
	UserEmail      string              `firestore:"userEmail,omitempty" json:"userEmail,omitempty"`
	UserName       string              `firestore:"userName,omitempty" json:"userName,omitempty"`
	ShopID         string              `firestore:"shopId" json:"shopId"`
	ShopName       string              `firestore:"shopName" json:"shopName"`
	Items          []OrderItem         `firestore:"items" json:"items"`
	Subtotal       float64             `firestore:"subtotal" json:"subtotal"`
	DeliveryFee    float64             `firestore:"deliveryFee" json:"deliveryFee"`
	Tax            float64             `firestore:"tax" json:"tax"`
	Total          float64             `firestore:"total" json:"total"`
	Status         enums.OrderStatus   `firestore:"status" json:"status"`
	Address        *types.Address      `firestore:"address,omitempty" json:"address,omitempty"`
	DeliverySlot   string              `firestore:"deliverySlot,omitempty" json:"deliverySlot,omitempty"`
	PaymentMethod  enums.PaymentMethod `firestore:"paymentMethod" json:"paymentMethod"`
	PaymentStatus  enums.PaymentStatus `firestore:"paymentStatus" json:"paymentStatus"`
	PaymentDetails *PaymentDetails     `firestore:"paymentDetails,omitempty" json:"paymentDetails,omitempty"`
	Notes          string              `firestore:"notes,omitempty" json:"notes,omitempty"`
	CancelledAt    *time.Time          `firestore:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	CreatedAt      time.Time           `firestore:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `firestore:"updatedAt" json:"updatedAt"`
}

// OrderItem is a snapshot of a cart line at checkout time.
type OrderItem struct {
	ProductID string  `firestore:"productId" json:"productId"`
	Name      string  `firestore:"name" json:"name"`
	Quantity  int64   `firestore:"quantity" json:"quantity"`
	Price     float64 `firestore:"price" json:"price"`
	ImageURL  string  `firestore:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	ShopID    string  `firestore:"shopId,omitempty" json:"shopId,omitempty"`
}

// PaymentDetails keeps only what a support agent needs to identify a
// card payment. The full card number never reaches storage.
type PaymentDetails struct {
	Last4 string          `firestore:"last4" json:"last4"`
	Brand enums.CardBrand `firestore:"brand" json:"brand"`
}
