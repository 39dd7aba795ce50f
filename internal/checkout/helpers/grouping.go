package helpers

import (
	"sort"

	"github.com/HYPERLOOPFIVER/lakes/pkg/db/models"
	"github.com/shopspring/decimal"
)

// Line is a reconciled cart line priced for checkout with the live
// product document.
type Line struct {
	ProductID string
	Name      string
	Quantity  int64
	Price     float64
	ImageURL  string
	ShopID    string
	Missing   bool
}

// GroupByShop buckets lines by seller. Lines whose product carries no
// shop fall into the default sentinel group.
func GroupByShop(lines []Line) map[string][]Line {
	groups := make(map[string][]Line)
	for _, line := range lines {
		shopID := line.ShopID
		if shopID == "" {
			shopID = models.DefaultShopID
		}
		groups[shopID] = append(groups[shopID], line)
	}
	return groups
}

// SortedShopIDs returns the group keys in deterministic order so a
// checkout always creates orders in the same sequence.
func SortedShopIDs(groups map[string][]Line) []string {
	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Totals is the per-shop money breakdown persisted on the order.
type Totals struct {
	Subtotal    float64
	DeliveryFee float64
	Tax         float64
	Total       float64
}

// ComputeTotals prices one shop group. All arithmetic runs on decimals
// and every component is rounded to 2 places before conversion back to
// the document's float representation.
func ComputeTotals(lines []Line, deliveryFee, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		price := decimal.NewFromFloat(line.Price)
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(line.Quantity)))
	}
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(taxRate).Round(2)
	total := subtotal.Add(deliveryFee).Add(tax).Round(2)

	return Totals{
		Subtotal:    toFloat(subtotal),
		DeliveryFee: toFloat(deliveryFee),
		Tax:         toFloat(tax),
		Total:       toFloat(total),
	}
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
