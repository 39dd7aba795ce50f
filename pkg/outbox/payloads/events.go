package payloads

import "time"

// OrderPlacedEvent signals a checkout that produced one order per shop.
type OrderPlacedEvent struct {
	OrderID   string            `json:"order_id"`
	UserID    string            `json:"user_id"`
	UserName  string            `json:"user_name,omitempty"`
	UserPhone string            `json:"user_phone,omitempty"`
	ShopID    string            `json:"shop_id"`
	ShopName  string            `json:"shop_name"`
	ShopEmail string            `json:"shop_email,omitempty"`
	Items     []OrderPlacedItem `json:"items"`
	Total     float64           `json:"total"`
	Slot      string            `json:"slot,omitempty"`
}

// OrderPlacedItem is one line summarized for notifications.
type OrderPlacedItem struct {
	Name     string  `json:"name"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
}

// OrderCancelledEvent is emitted when a customer cancels a pre-preparation order.
type OrderCancelledEvent struct {
	OrderID     string    `json:"order_id"`
	UserID      string    `json:"user_id"`
	ShopID      string    `json:"shop_id"`
	CancelledAt time.Time `json:"cancelled_at"`
}

// CashPaymentConfirmedEvent reports a delivered cash order being settled.
type CashPaymentConfirmedEvent struct {
	OrderID string  `json:"order_id"`
	UserID  string  `json:"user_id"`
	ShopID  string  `json:"shop_id"`
	Amount  float64 `json:"amount"`
}
