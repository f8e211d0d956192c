// Package gst computes the GST breakdown and invoice rounding for sales
// documents. It is pure computation: callers pass taxable lines and state
// codes, and get back the per-rate tax table and document-level totals.
package gst

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Line is a single taxable line fed into the breakdown.
type Line struct {
	Amount float64 // taxable amount for the line
	Rate   float64 // GST rate as a percentage, e.g. 18 for 18%
}

// Group is one row of the breakdown table, covering every line at one rate.
// Either the CGST/SGST pair or the IGST pair is populated, never both.
type Group struct {
	Rate          float64  `json:"gst_rate"`
	TaxableAmount float64  `json:"taxable_amount"`
	CGSTRate      *float64 `json:"cgst_rate,omitempty"`
	CGSTAmount    *float64 `json:"cgst_amount,omitempty"`
	SGSTRate      *float64 `json:"sgst_rate,omitempty"`
	SGSTAmount    *float64 `json:"sgst_amount,omitempty"`
	IGSTRate      *float64 `json:"igst_rate,omitempty"`
	IGSTAmount    *float64 `json:"igst_amount,omitempty"`
	TotalTax      float64  `json:"total_tax"`
}

// Breakdown aggregates the per-rate groups into document-level tax totals.
// TotalTax is the sum of the group tax totals as displayed, so the breakdown
// table always reconciles with the document totals to the cent.
type Breakdown struct {
	SameState  bool    `json:"same_state"`
	Groups     []Group `json:"groups"`
	TotalCGST  float64 `json:"total_cgst_amount"`
	TotalSGST  float64 `json:"total_sgst_amount"`
	TotalIGST  float64 `json:"total_igst_amount"`
	TotalTax   float64 `json:"final_gst_amount"`
	TotalValue float64 `json:"total_taxable_amount"`
}

// SameState reports whether billing happens in the seller's home state,
// which selects the CGST+SGST split over IGST. Comparison ignores case and
// surrounding whitespace so that "Maharashtra" and " maharashtra " match.
func SameState(billingState, homeState string) bool {
	return strings.EqualFold(strings.TrimSpace(billingState), strings.TrimSpace(homeState))
}

// Compute groups the lines by GST rate and produces the breakdown table.
// The tax mode is decided once for the whole document: intra-state billing
// splits each rate evenly into CGST and SGST, inter-state billing charges
// IGST at the full rate. Lines at a 0% rate still produce a group with zero
// tax so the table stays complete for audit. Rounding happens once, at the
// group level, to two decimals; document totals are sums of the rounded
// group figures.
func Compute(lines []Line, billingState, homeState string) Breakdown {
	sameState := SameState(billingState, homeState)

	taxable := make(map[float64]decimal.Decimal)
	rates := make([]float64, 0)
	for _, line := range lines {
		if _, seen := taxable[line.Rate]; !seen {
			rates = append(rates, line.Rate)
		}
		taxable[line.Rate] = taxable[line.Rate].Add(decimal.NewFromFloat(line.Amount))
	}
	sort.Float64s(rates)

	b := Breakdown{SameState: sameState, Groups: make([]Group, 0, len(rates))}

	totalCGST := decimal.Zero
	totalSGST := decimal.Zero
	totalIGST := decimal.Zero
	totalTax := decimal.Zero
	totalValue := decimal.Zero

	for _, rate := range rates {
		amount := taxable[rate]
		rateDec := decimal.NewFromFloat(rate)

		group := Group{
			Rate:          rate,
			TaxableAmount: round2(amount),
		}

		if sameState {
			// Even split: each half is taxable × rate / 200.
			halfRate := rateDec.Div(decimal.NewFromInt(2))
			halfTax := amount.Mul(rateDec).Div(decimal.NewFromInt(200)).Round(2)
			groupTax := halfTax.Add(halfTax)

			group.CGSTRate = floatPtr(halfRate.InexactFloat64())
			group.SGSTRate = floatPtr(halfRate.InexactFloat64())
			group.CGSTAmount = floatPtr(halfTax.InexactFloat64())
			group.SGSTAmount = floatPtr(halfTax.InexactFloat64())
			group.TotalTax = groupTax.InexactFloat64()

			totalCGST = totalCGST.Add(halfTax)
			totalSGST = totalSGST.Add(halfTax)
			totalTax = totalTax.Add(groupTax)
		} else {
			tax := amount.Mul(rateDec).Div(decimal.NewFromInt(100)).Round(2)

			group.IGSTRate = floatPtr(rate)
			group.IGSTAmount = floatPtr(tax.InexactFloat64())
			group.TotalTax = tax.InexactFloat64()

			totalIGST = totalIGST.Add(tax)
			totalTax = totalTax.Add(tax)
		}

		totalValue = totalValue.Add(amount)
		b.Groups = append(b.Groups, group)
	}

	b.TotalCGST = totalCGST.InexactFloat64()
	b.TotalSGST = totalSGST.InexactFloat64()
	b.TotalIGST = totalIGST.InexactFloat64()
	b.TotalTax = totalTax.InexactFloat64()
	b.TotalValue = round2(totalValue)

	return b
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func floatPtr(f float64) *float64 {
	return &f
}
