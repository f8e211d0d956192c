package entity

import (
	"math"
	"testing"
)

func testItem() *Item {
	return &Item{
		Name:         "MS Angle 40x40",
		SellingPrice: 62.50, // per kg
		GSTRate:      18,
		Units: []ItemUnit{
			{Name: "kg", ConversionFactor: 1, IsBaseUnit: true},
			{Name: "quintal", ConversionFactor: 100},
			{Name: "tonne", ConversionFactor: 1000},
		},
	}
}

func TestItem_ConvertUnit(t *testing.T) {
	tests := []struct {
		name           string
		unit           string
		quantity       float64
		expectPrice    float64
		expectBaseQty  float64
		expectFallback bool
	}{
		{"base unit", "kg", 250, 62.50, 250, false},
		{"secondary unit", "quintal", 3, 6250, 300, false},
		{"large unit", "tonne", 0.5, 62500, 500, false},
		{"unknown unit falls back to base", "bag", 10, 62.50, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := testItem()
			got := item.ConvertUnit(tt.unit, tt.quantity)
			if math.Abs(got.PricePerUnit-tt.expectPrice) > 1e-9 {
				t.Errorf("price per unit = %v, want %v", got.PricePerUnit, tt.expectPrice)
			}
			if math.Abs(got.QuantityInBaseUnit-tt.expectBaseQty) > 1e-9 {
				t.Errorf("base quantity = %v, want %v", got.QuantityInBaseUnit, tt.expectBaseQty)
			}
			if got.UsedFallback != tt.expectFallback {
				t.Errorf("fallback = %v, want %v", got.UsedFallback, tt.expectFallback)
			}
		})
	}
}

func TestItem_ConvertUnit_BrokenFactor(t *testing.T) {
	// A zero conversion factor must surface as zero price and quantity so
	// the caller can treat it as bad data instead of charging nothing.
	item := &Item{
		SellingPrice: 100,
		Units:        []ItemUnit{{Name: "box", ConversionFactor: 0, IsBaseUnit: true}},
	}
	got := item.ConvertUnit("box", 5)
	if got.PricePerUnit != 0 || got.QuantityInBaseUnit != 0 {
		t.Errorf("broken factor should zero the conversion, got %+v", got)
	}
}

func TestItem_ConvertUnit_NoUnits(t *testing.T) {
	item := &Item{SellingPrice: 100}
	got := item.ConvertUnit("kg", 5)
	if !got.UsedFallback || got.PricePerUnit != 0 || got.QuantityInBaseUnit != 0 {
		t.Errorf("item without units should report fallback with zeroes, got %+v", got)
	}
}

func TestItem_ConvertUnit_DoesNotMutate(t *testing.T) {
	item := testItem()
	before := item.Units[1].ConversionFactor
	item.ConvertUnit("quintal", 7)
	if item.Units[1].ConversionFactor != before {
		t.Error("ConvertUnit must never mutate the item")
	}
}

func TestItem_BaseUnit_FirstUnitFallback(t *testing.T) {
	// Data without an explicit base flag still resolves to the first unit.
	item := &Item{Units: []ItemUnit{{Name: "piece", ConversionFactor: 1}, {Name: "dozen", ConversionFactor: 12}}}
	base := item.BaseUnit()
	if base == nil || base.Name != "piece" {
		t.Errorf("expected first unit as base fallback, got %+v", base)
	}
}

func TestItem_IsLowStock(t *testing.T) {
	tests := []struct {
		name     string
		quantity float64
		alert    float64
		expect   bool
	}{
		{"above alert", 50, 10, false},
		{"at alert", 10, 10, true},
		{"below alert", 5, 10, true},
		{"alert disabled", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &Item{Quantity: tt.quantity, QuantityAlert: tt.alert}
			if got := item.IsLowStock(); got != tt.expect {
				t.Errorf("IsLowStock() = %v, want %v", got, tt.expect)
			}
		})
	}
}
