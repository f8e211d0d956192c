package gst

import (
	"math"
	"testing"
)

func TestRoundInvoiceTotal(t *testing.T) {
	tests := []struct {
		name          string
		totalAmount   float64
		taxAmount     float64
		expectRounded float64
		expectOff     float64
		expectDir     RoundDirection
	}{
		{"already whole", 4500, 450, 4950, 0, RoundUp},
		{"rounds down", 4500, 450.40, 4950, -0.40, RoundDown},
		{"rounds up", 4500, 450.60, 4951, 0.40, RoundUp},
		{"half rounds up", 4500, 450.50, 4951, 0.50, RoundUp},
		{"zero total", 0, 0, 0, 0, RoundUp},
		{"small fraction down", 0.49, 0, 0, -0.49, RoundDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundInvoiceTotal(tt.totalAmount, tt.taxAmount)
			if !approxEqual(got.RoundedTotal, tt.expectRounded) {
				t.Errorf("rounded = %v, want %v", got.RoundedTotal, tt.expectRounded)
			}
			if !approxEqual(got.RoundOff, tt.expectOff) {
				t.Errorf("round-off = %v, want %v", got.RoundOff, tt.expectOff)
			}
			if got.Direction != tt.expectDir {
				t.Errorf("direction = %v, want %v", got.Direction, tt.expectDir)
			}
		})
	}
}

func TestRoundInvoiceTotal_Identity(t *testing.T) {
	// RoundedTotal - RoundOff must reconstruct the exact grand total for any
	// input; this is the reconciliation check invoices rely on.
	totals := []struct{ amount, tax float64 }{
		{4500, 450},
		{4500, 450.40},
		{0.01, 0},
		{999.99, 180.004},
		{123456.78, 22222.2204},
		{1, 0.18},
		{2.5, 0.45},
	}

	for _, tc := range totals {
		got := RoundInvoiceTotal(tc.amount, tc.tax)
		reconstructed := got.RoundedTotal - got.RoundOff
		if math.Abs(reconstructed-got.GrandTotal) >= tolerance {
			t.Errorf("RoundInvoiceTotal(%v, %v): rounded %v - off %v = %v, want grand %v",
				tc.amount, tc.tax, got.RoundedTotal, got.RoundOff, reconstructed, got.GrandTotal)
		}
	}
}
