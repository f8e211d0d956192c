package gst

import (
	"math"
	"testing"
)

const tolerance = 1e-6

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func TestSameState(t *testing.T) {
	tests := []struct {
		name         string
		billingState string
		homeState    string
		expect       bool
	}{
		{"exact match", "Maharashtra", "Maharashtra", true},
		{"case insensitive", "maharashtra", "MAHARASHTRA", true},
		{"surrounding whitespace", " Maharashtra ", "Maharashtra", true},
		{"different states", "Gujarat", "Maharashtra", false},
		{"both empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameState(tt.billingState, tt.homeState); got != tt.expect {
				t.Errorf("SameState(%q, %q) = %v, want %v", tt.billingState, tt.homeState, got, tt.expect)
			}
		})
	}
}

func TestCompute_IntraState(t *testing.T) {
	// Worked invoice: two lines at 18%, one at 0%, billed in the home state.
	lines := []Line{
		{Amount: 2000, Rate: 18}, // 1000 x 2
		{Amount: 500, Rate: 18},
		{Amount: 2000, Rate: 0},
	}

	b := Compute(lines, "Maharashtra", "Maharashtra")

	if !b.SameState {
		t.Fatal("expected same-state mode")
	}
	if len(b.Groups) != 2 {
		t.Fatalf("expected 2 groups (0%% group must not be omitted), got %d", len(b.Groups))
	}

	zero := b.Groups[0]
	if zero.Rate != 0 || !approxEqual(zero.TaxableAmount, 2000) || zero.TotalTax != 0 {
		t.Errorf("0%% group = %+v, want taxable 2000 and zero tax", zero)
	}
	if zero.CGSTAmount == nil || *zero.CGSTAmount != 0 {
		t.Errorf("0%% group should carry an explicit zero CGST amount, got %v", zero.CGSTAmount)
	}

	eighteen := b.Groups[1]
	if !approxEqual(eighteen.TaxableAmount, 2500) {
		t.Errorf("18%% taxable = %v, want 2500", eighteen.TaxableAmount)
	}
	if *eighteen.CGSTRate != 9 || *eighteen.SGSTRate != 9 {
		t.Errorf("split rates = %v/%v, want 9/9", *eighteen.CGSTRate, *eighteen.SGSTRate)
	}
	if !approxEqual(*eighteen.CGSTAmount, 225) || !approxEqual(*eighteen.SGSTAmount, 225) {
		t.Errorf("split amounts = %v/%v, want 225/225", *eighteen.CGSTAmount, *eighteen.SGSTAmount)
	}
	if eighteen.IGSTRate != nil || eighteen.IGSTAmount != nil {
		t.Error("IGST fields must stay nil in same-state mode")
	}
	if !approxEqual(eighteen.TotalTax, 450) {
		t.Errorf("18%% group tax = %v, want 450", eighteen.TotalTax)
	}

	if !approxEqual(b.TotalTax, 450) {
		t.Errorf("final GST amount = %v, want 450", b.TotalTax)
	}
	if !approxEqual(b.TotalValue, 4500) {
		t.Errorf("total taxable = %v, want 4500", b.TotalValue)
	}
	if b.TotalIGST != 0 {
		t.Errorf("total IGST = %v, want 0", b.TotalIGST)
	}
}

func TestCompute_InterState(t *testing.T) {
	lines := []Line{
		{Amount: 2500, Rate: 18},
		{Amount: 1000, Rate: 12},
	}

	b := Compute(lines, "Gujarat", "Maharashtra")

	if b.SameState {
		t.Fatal("expected inter-state mode")
	}
	for _, g := range b.Groups {
		if g.CGSTRate != nil || g.CGSTAmount != nil || g.SGSTRate != nil || g.SGSTAmount != nil {
			t.Errorf("rate %v: CGST/SGST fields must stay nil in inter-state mode", g.Rate)
		}
		if g.IGSTRate == nil || g.IGSTAmount == nil {
			t.Fatalf("rate %v: IGST fields must be set in inter-state mode", g.Rate)
		}
		if *g.IGSTRate != g.Rate {
			t.Errorf("rate %v: IGST rate = %v, want full rate", g.Rate, *g.IGSTRate)
		}
	}

	if !approxEqual(b.TotalIGST, 450+120) {
		t.Errorf("total IGST = %v, want 570", b.TotalIGST)
	}
	if b.TotalCGST != 0 || b.TotalSGST != 0 {
		t.Errorf("CGST/SGST totals = %v/%v, want both 0", b.TotalCGST, b.TotalSGST)
	}
	if !approxEqual(b.TotalTax, 570) {
		t.Errorf("final GST amount = %v, want 570", b.TotalTax)
	}
}

func TestCompute_GroupTotalsReconcile(t *testing.T) {
	// The document totals must equal the sums over the displayed groups,
	// whatever the rounding did inside each group.
	lines := []Line{
		{Amount: 33.33, Rate: 18},
		{Amount: 66.67, Rate: 18},
		{Amount: 10.01, Rate: 5},
		{Amount: 7.77, Rate: 12},
		{Amount: 123.45, Rate: 28},
	}

	for _, billing := range []string{"Maharashtra", "Karnataka"} {
		b := Compute(lines, billing, "Maharashtra")

		var taxable, tax float64
		for _, g := range b.Groups {
			taxable += g.TaxableAmount
			tax += g.TotalTax
		}
		if !approxEqual(taxable, b.TotalValue) {
			t.Errorf("billing %s: sum of group taxable %v != total %v", billing, taxable, b.TotalValue)
		}
		if !approxEqual(tax, b.TotalTax) {
			t.Errorf("billing %s: sum of group tax %v != final GST %v", billing, tax, b.TotalTax)
		}
		if !approxEqual(b.TotalCGST+b.TotalSGST+b.TotalIGST, b.TotalTax) {
			t.Errorf("billing %s: component totals do not sum to final GST", billing)
		}
	}
}

func TestCompute_EmptyLines(t *testing.T) {
	b := Compute(nil, "Maharashtra", "Maharashtra")
	if len(b.Groups) != 0 || b.TotalTax != 0 || b.TotalValue != 0 {
		t.Errorf("empty input should yield an empty breakdown, got %+v", b)
	}
}
