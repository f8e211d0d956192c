package gst

import "github.com/shopspring/decimal"

// RoundDirection indicates which way the grand total moved when rounded.
type RoundDirection string

const (
	RoundUp   RoundDirection = "up"
	RoundDown RoundDirection = "down"
)

// InvoiceTotal is the rounded, ledger-ready grand total of a document.
// RoundedTotal − RoundOff always reconstructs the exact GrandTotal, so the
// displayed invoice and the ledger reconcile to the paisa.
type InvoiceTotal struct {
	GrandTotal   float64        `json:"grand_total"`
	RoundedTotal float64        `json:"final_rounded_amount"`
	RoundOff     float64        `json:"round_off"`
	Direction    RoundDirection `json:"round_off_direction"`
}

// RoundInvoiceTotal rounds totalAmount + taxAmount to the nearest whole
// currency unit (half rounds up) and records the signed adjustment.
func RoundInvoiceTotal(totalAmount, taxAmount float64) InvoiceTotal {
	grand := decimal.NewFromFloat(totalAmount).Add(decimal.NewFromFloat(taxAmount))
	rounded := grand.Round(0)
	roundOff := rounded.Sub(grand)

	direction := RoundUp
	if roundOff.IsNegative() {
		direction = RoundDown
	}

	return InvoiceTotal{
		GrandTotal:   grand.InexactFloat64(),
		RoundedTotal: rounded.InexactFloat64(),
		RoundOff:     roundOff.InexactFloat64(),
		Direction:    direction,
	}
}
