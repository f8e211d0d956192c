package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/maheshwarig/ticketflow-api/internal/domain/enum"
	"github.com/maheshwarig/ticketflow-api/pkg/apperror"
	"github.com/maheshwarig/ticketflow-api/pkg/gst"
	"github.com/shopspring/decimal"
)

// The lifecycle operations below are the only way the ticket's audit arrays
// and totals change. They mutate the in-memory aggregate only; persistence
// is the caller's concern. A ticket must be treated as single-writer: the
// transfer check and the running balance are only correct when appends are
// serialized per ticket.

// ── Goods lines ──────────────────────────────────────────────────────────────

func (t *Ticket) ensureEditable() error {
	if t.Status.IsTerminal() {
		return apperror.NewConflictError("Ticket is closed; goods lines can no longer be edited")
	}
	return nil
}

// AddGoodsLine validates and appends a line, assigning the next serial
// number and recomputing the line amount.
func (t *Ticket) AddGoodsLine(line GoodsLineItem) error {
	if err := t.ensureEditable(); err != nil {
		return err
	}
	if line.Quantity <= 0 {
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "quantity", Message: "quantity must be greater than zero"},
		})
	}
	if line.UnitPrice < 0 {
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "unit_price", Message: "unit price cannot be negative"},
		})
	}

	line.TicketID = t.ID
	line.SrNo = len(t.Goods) + 1
	line.Amount = roundMoney(line.Quantity * line.UnitPrice)
	t.Goods = append(t.Goods, line)
	return nil
}

// ValidatePriceEdit enforces the item's discount policy on a price change.
// Increases above the original price are always allowed; with a discount
// ceiling the floor is originalPrice × (1 − maxDiscount/100), and without
// one no price below the original is permitted.
func (g *GoodsLineItem) ValidatePriceEdit(newPrice float64) error {
	if g.OriginalPrice <= 0 {
		return nil
	}
	floor := g.OriginalPrice
	if g.MaxDiscountPercent > 0 {
		floor = roundMoney(g.OriginalPrice * (1 - g.MaxDiscountPercent/100))
	}
	if newPrice < floor {
		return apperror.NewDiscountExceededError(g.Description, floor)
	}
	return nil
}

// UpdateGoodsLine changes the quantity and unit price of the line at srNo,
// recomputing its amount. Price cuts go through ValidatePriceEdit.
func (t *Ticket) UpdateGoodsLine(srNo int, quantity, unitPrice float64) error {
	if err := t.ensureEditable(); err != nil {
		return err
	}
	idx := t.goodsIndex(srNo)
	if idx < 0 {
		return apperror.NewNotFoundError("Goods line")
	}
	if quantity <= 0 {
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "quantity", Message: "quantity must be greater than zero"},
		})
	}
	if unitPrice < 0 {
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "unit_price", Message: "unit price cannot be negative"},
		})
	}

	line := &t.Goods[idx]
	if err := line.ValidatePriceEdit(unitPrice); err != nil {
		return err
	}

	line.Quantity = quantity
	line.UnitPrice = unitPrice
	line.Amount = roundMoney(quantity * unitPrice)
	return nil
}

// RemoveGoodsLine deletes the line at srNo and renumbers the remaining
// lines densely from 1.
func (t *Ticket) RemoveGoodsLine(srNo int) error {
	if err := t.ensureEditable(); err != nil {
		return err
	}
	idx := t.goodsIndex(srNo)
	if idx < 0 {
		return apperror.NewNotFoundError("Goods line")
	}
	t.Goods = append(t.Goods[:idx], t.Goods[idx+1:]...)
	t.renumberGoods()
	return nil
}

func (t *Ticket) goodsIndex(srNo int) int {
	for i := range t.Goods {
		if t.Goods[i].SrNo == srNo {
			return i
		}
	}
	return -1
}

func (t *Ticket) renumberGoods() {
	for i := range t.Goods {
		t.Goods[i].SrNo = i + 1
	}
}

// ── Totals ───────────────────────────────────────────────────────────────────

// GSTBreakdown computes the per-rate tax table for the current goods lines.
// homeState is the seller's state; billing in the same state splits tax into
// CGST+SGST, otherwise IGST applies.
func (t *Ticket) GSTBreakdown(homeState string) gst.Breakdown {
	lines := make([]gst.Line, 0, len(t.Goods))
	for i := range t.Goods {
		lines = append(lines, gst.Line{Amount: t.Goods[i].Amount, Rate: t.Goods[i].GSTRate})
	}
	return gst.Compute(lines, t.BillingAddress.State, homeState)
}

// RecomputeTotals refreshes every aggregate total from the goods lines and
// returns the breakdown it was derived from. Must be called after every
// line mutation so that grandTotal = totalAmount + finalGstAmount and
// finalRoundedAmount − roundOff = grandTotal keep holding.
func (t *Ticket) RecomputeTotals(homeState string) gst.Breakdown {
	breakdown := t.GSTBreakdown(homeState)

	totalQty := decimal.Zero
	for i := range t.Goods {
		totalQty = totalQty.Add(decimal.NewFromFloat(t.Goods[i].Quantity))
	}

	t.TotalQuantity = totalQty.InexactFloat64()
	t.TotalAmount = breakdown.TotalValue
	t.TotalCGSTAmount = breakdown.TotalCGST
	t.TotalSGSTAmount = breakdown.TotalSGST
	t.TotalIGSTAmount = breakdown.TotalIGST
	t.FinalGSTAmount = breakdown.TotalTax

	total := gst.RoundInvoiceTotal(t.TotalAmount, t.FinalGSTAmount)
	t.GrandTotal = total.GrandTotal
	t.RoundOff = total.RoundOff
	t.FinalRoundedAmount = total.RoundedTotal

	return breakdown
}

// ── Status workflow ──────────────────────────────────────────────────────────

// ApplyStatus transitions the ticket to newStatus, appending an immutable
// status-history entry. A status outside the fixed set, or any transition
// out of Closed, fails and leaves the ticket unchanged.
func (t *Ticket) ApplyStatus(newStatus enum.TicketStatus, actor uuid.UUID, comment *string) error {
	if !newStatus.IsValid() || !t.Status.CanTransitionTo(newStatus) {
		return apperror.NewIllegalTransitionError(t.Status.String(), newStatus.String())
	}

	t.StatusHistory = append(t.StatusHistory, StatusHistoryEntry{
		TicketID:  t.ID,
		Status:    newStatus,
		ChangedBy: actor,
		ChangedAt: time.Now().UTC(),
		Comment:   comment,
	})
	t.Status = newStatus
	return nil
}

// ProgressPercent returns the ticket's display progress. A held ticket
// reports the progress of its last non-Hold status so the figure stays
// informative while the ticket is parked.
func (t *Ticket) ProgressPercent() float64 {
	if !t.Status.IsHold() {
		return t.Status.ProgressPercent()
	}
	for i := len(t.StatusHistory) - 1; i >= 0; i-- {
		if !t.StatusHistory[i].Status.IsHold() {
			return t.StatusHistory[i].Status.ProgressPercent()
		}
	}
	return 0
}

// ── Assignment ───────────────────────────────────────────────────────────────

// TransferTo moves ownership from fromUser to toUser. fromUser must still
// be the current assignee; a mismatch means the caller acted on stale state.
func (t *Ticket) TransferTo(fromUser, toUser, transferredBy uuid.UUID, note *string) error {
	if fromUser != t.CurrentAssignee {
		return apperror.NewStaleAssignmentError(t.CurrentAssignee.String())
	}

	t.TransferHistory = append(t.TransferHistory, TransferHistoryEntry{
		TicketID:      t.ID,
		FromUserID:    fromUser,
		ToUserID:      toUser,
		TransferredBy: transferredBy,
		TransferredAt: time.Now().UTC(),
		Note:          note,
	})
	t.CurrentAssignee = toUser
	return nil
}

// LogAssignment appends an assignment event without moving ownership.
func (t *Ticket) LogAssignment(assignedTo, assignedBy uuid.UUID, action string) {
	t.AssignmentLog = append(t.AssignmentLog, AssignmentLogEntry{
		TicketID:   t.ID,
		AssignedTo: assignedTo,
		AssignedBy: assignedBy,
		Action:     action,
		CreatedAt:  time.Now().UTC(),
	})
}

// ── Payments ─────────────────────────────────────────────────────────────────

// RecordPayment appends a payment. Overpaying is allowed; a negative
// outstanding balance surfaces the reconciliation need.
func (t *Ticket) RecordPayment(amount float64, date time.Time, reference *string, recordedBy uuid.UUID) error {
	if amount <= 0 {
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "amount", Message: "payment amount must be greater than zero"},
		})
	}

	t.Payments = append(t.Payments, Payment{
		TicketID:    t.ID,
		Amount:      amount,
		PaymentDate: date,
		Reference:   reference,
		RecordedBy:  recordedBy,
	})
	return nil
}

// OutstandingBalance is the rounded grand total minus everything paid so
// far. Negative means overpaid.
func (t *Ticket) OutstandingBalance() float64 {
	balance := decimal.NewFromFloat(t.FinalRoundedAmount)
	for i := range t.Payments {
		balance = balance.Sub(decimal.NewFromFloat(t.Payments[i].Amount))
	}
	return balance.InexactFloat64()
}

// ── Documents ────────────────────────────────────────────────────────────────

// AttachDocument records an uploaded file in the slot for docType. Single-
// slot types replace any existing document; the "other" type appends.
func (t *Ticket) AttachDocument(docType enum.DocumentType, path, originalName string, actor uuid.UUID) error {
	if !docType.IsValid() {
		return apperror.NewBadRequestError("Unknown document type '" + string(docType) + "'")
	}

	slot := DocumentSlot{
		TicketID:     t.ID,
		Type:         docType,
		Path:         path,
		OriginalName: originalName,
		UploadedBy:   actor,
		UploadedAt:   time.Now().UTC(),
	}

	if docType.IsSingleSlot() {
		for i := range t.Documents {
			if t.Documents[i].Type == docType {
				t.Documents[i] = slot
				return nil
			}
		}
	}
	t.Documents = append(t.Documents, slot)
	return nil
}

// RemoveDocument clears the slot for a single-slot type. For the "other"
// type documentID selects which entry to drop and must match one.
func (t *Ticket) RemoveDocument(docType enum.DocumentType, documentID *uuid.UUID) error {
	if !docType.IsValid() {
		return apperror.NewBadRequestError("Unknown document type '" + string(docType) + "'")
	}

	if docType.IsSingleSlot() {
		for i := range t.Documents {
			if t.Documents[i].Type == docType {
				t.Documents = append(t.Documents[:i], t.Documents[i+1:]...)
				return nil
			}
		}
		return apperror.NewNotFoundError("Document")
	}

	if documentID == nil {
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "document_id", Message: "document_id is required for 'other' documents"},
		})
	}
	for i := range t.Documents {
		if t.Documents[i].Type == docType && t.Documents[i].ID == *documentID {
			t.Documents = append(t.Documents[:i], t.Documents[i+1:]...)
			return nil
		}
	}
	return apperror.NewNotFoundError("Document")
}

// Document returns the slot for a single-slot type, or nil when empty.
func (t *Ticket) Document(docType enum.DocumentType) *DocumentSlot {
	for i := range t.Documents {
		if t.Documents[i].Type == docType {
			return &t.Documents[i]
		}
	}
	return nil
}

func roundMoney(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
