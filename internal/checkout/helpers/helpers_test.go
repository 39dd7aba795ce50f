package helpers

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestGroupByShopUsesDefaultSentinel(t *testing.T) {
	groups := GroupByShop([]Line{
		{ProductID: "p1", ShopID: "shop-a", Quantity: 1},
		{ProductID: "p2", ShopID: "shop-b", Quantity: 1},
		{ProductID: "p3", ShopID: "", Quantity: 1},
		{ProductID: "p4", ShopID: "shop-a", Quantity: 2},
	})

	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	if len(groups["shop-a"]) != 2 {
		t.Fatalf("expected 2 lines for shop-a, got %d", len(groups["shop-a"]))
	}
	if len(groups["default"]) != 1 || groups["default"][0].ProductID != "p3" {
		t.Fatalf("expected shopless line in default group, got %v", groups["default"])
	}

	ids := SortedShopIDs(groups)
	if len(ids) != 3 || ids[0] != "default" || ids[1] != "shop-a" || ids[2] != "shop-b" {
		t.Fatalf("expected deterministic order, got %v", ids)
	}
}

func TestComputeTotalsWorkedExample(t *testing.T) {
	fee := decimal.NewFromInt(20)
	rate := decimal.NewFromFloat(0.08)

	// Seller A: 2 x 50 + 1 x 100 = 200.
	a := ComputeTotals([]Line{
		{Price: 50, Quantity: 2},
		{Price: 100, Quantity: 1},
	}, fee, rate)
	if a.Subtotal != 200 || a.DeliveryFee != 20 || a.Tax != 16 || a.Total != 236 {
		t.Fatalf("seller A totals wrong: %+v", a)
	}

	// Seller B: 1 x 50 = 50.
	b := ComputeTotals([]Line{{Price: 50, Quantity: 1}}, fee, rate)
	if b.Subtotal != 50 || b.Tax != 4 || b.Total != 74 {
		t.Fatalf("seller B totals wrong: %+v", b)
	}
}

func TestComputeTotalsRoundsToCents(t *testing.T) {
	fee := decimal.NewFromInt(20)
	rate := decimal.NewFromFloat(0.08)

	got := ComputeTotals([]Line{{Price: 33.33, Quantity: 3}}, fee, rate)
	if got.Subtotal != 99.99 {
		t.Fatalf("expected subtotal 99.99, got %v", got.Subtotal)
	}
	// 99.99 * 0.08 = 7.9992 rounds to 8.00.
	if got.Tax != 8 {
		t.Fatalf("expected tax 8, got %v", got.Tax)
	}
	if got.Total != 127.99 {
		t.Fatalf("expected total 127.99, got %v", got.Total)
	}
}

func TestGenerateSlots(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 7, 0, 0, time.UTC)
	slots := GenerateSlots(now, 48, 15*time.Minute)

	if len(slots) != 48 {
		t.Fatalf("expected 48 slots, got %d", len(slots))
	}
	first := slots[0]
	if !first.Start.Equal(time.Date(2025, 6, 1, 10, 15, 0, 0, time.UTC)) {
		t.Fatalf("expected first slot at next boundary, got %v", first.Start)
	}
	if first.Label != "10:15 - 10:30" {
		t.Fatalf("unexpected label %q", first.Label)
	}
	last := slots[47]
	if !last.End.Equal(first.Start.Add(12 * time.Hour)) {
		t.Fatalf("expected slots to span 12 hours, got %v", last.End)
	}
	for i := 1; i < len(slots); i++ {
		if !slots[i].Start.Equal(slots[i-1].End) {
			t.Fatalf("slot %d does not abut previous", i)
		}
	}

	if len(GenerateSlots(now, 0, 15*time.Minute)) != 0 {
		t.Fatal("expected no slots for zero count")
	}
}
