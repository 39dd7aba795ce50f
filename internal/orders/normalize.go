package orders

import (
	"strconv"
	"strings"
	"time"

	"github.com/HYPERLOOPFIVER/lakes/pkg/db/models"
	"github.com/HYPERLOOPFIVER/lakes/pkg/enums"
	"github.com/HYPERLOOPFIVER/lakes/pkg/types"
)

// normalizeOrder decodes a raw order document into the canonical shape.
// Order documents were written by several generations of clients, so the
// read side is forgiving: the address may be stored as an object or a
// single-element array, money fields may be strings, and status fields
// may be missing entirely.
func normalizeOrder(docID string, data map[string]any) models.Order {
	order := models.Order{
		ID:           docID,
		OrderID:      asString(data["orderId"]),
		UserID:       asString(data["userId"]),
		UserEmail:    asString(data["userEmail"]),
		UserName:     asString(data["userName"]),
		ShopID:       asString(data["shopId"]),
		ShopName:     asString(data["shopName"]),
		Subtotal:     asFloat(data["subtotal"]),
		DeliveryFee:  asFloat(data["deliveryFee"]),
		Tax:          asFloat(data["tax"]),
		Total:        asFloat(data["total"]),
		DeliverySlot: asString(data["deliverySlot"]),
		Notes:        asString(data["notes"]),
		CreatedAt:    asTime(data["createdAt"]),
		UpdatedAt:    asTime(data["updatedAt"]),
	}
	if order.OrderID == "" {
		order.OrderID = docID
	}

	status, err := enums.ParseOrderStatus(asString(data["status"]))
	if err != nil {
		status = enums.OrderStatusPlaced
	}
	order.Status = status

	order.PaymentMethod = enums.PaymentMethod(asString(data["paymentMethod"]))
	if !order.PaymentMethod.IsValid() {
		order.PaymentMethod = enums.PaymentMethodCash
	}
	order.PaymentStatus = enums.PaymentStatus(asString(data["paymentStatus"]))
	if !order.PaymentStatus.IsValid() {
		order.PaymentStatus = enums.PaymentStatusPending
	}

	if raw, ok := data["address"]; ok {
		order.Address = types.DecodeAddress(raw)
	}
	if order.Address == nil {
		// Early clients wrote the address under a different key.
		order.Address = types.DecodeAddress(data["deliveryAddress"])
	}

	if cancelled := asTime(data["cancelledAt"]); !cancelled.IsZero() {
		order.CancelledAt = &cancelled
	}

	if rawItems, ok := data["items"].([]any); ok {
		order.Items = make([]models.OrderItem, 0, len(rawItems))
		for _, rawItem := range rawItems {
			item, ok := rawItem.(map[string]any)
			if !ok {
				continue
			}
			order.Items = append(order.Items, models.OrderItem{
				ProductID: asString(item["productId"]),
				Name:      asString(item["name"]),
				Quantity:  int64(asFloat(item["quantity"])),
				Price:     asFloat(item["price"]),
				ImageURL:  asString(item["imageUrl"]),
				ShopID:    asString(item["shopId"]),
			})
		}
	}

	if details, ok := data["paymentDetails"].(map[string]any); ok {
		order.PaymentDetails = &models.PaymentDetails{
			Last4: asString(details["last4"]),
			Brand: enums.CardBrand(asString(details["brand"])),
		}
	}
	return order
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// asFloat coerces the numeric representations Firestore hands back,
// falling back to zero for anything unparseable.
func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func asTime(v any) time.Time {
	t, _ := v.(time.Time)
	return t
}
