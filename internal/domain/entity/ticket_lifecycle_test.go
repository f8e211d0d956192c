package entity

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/maheshwarig/ticketflow-api/internal/domain/enum"
	"github.com/maheshwarig/ticketflow-api/pkg/apperror"
)

const homeState = "Maharashtra"

func testTicket() *Ticket {
	t := &Ticket{
		ID:              uuid.New(),
		TicketNo:        "TKT-TEST0001",
		Status:          enum.TicketStatusQuotationSent,
		CurrentAssignee: uuid.New(),
		BillingAddress:  Address{City: "Pune", State: "Maharashtra"},
	}
	t.ShippingAddress = t.BillingAddress
	return t
}

func mustAddLine(t *testing.T, tk *Ticket, desc string, qty, price, rate float64) {
	t.Helper()
	err := tk.AddGoodsLine(GoodsLineItem{Description: desc, Quantity: qty, UnitPrice: price, GSTRate: rate})
	if err != nil {
		t.Fatalf("AddGoodsLine(%s): %v", desc, err)
	}
}

func appErrCode(t *testing.T, err error) int {
	t.Helper()
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	return appErr.Code
}

// ── Goods lines & totals ─────────────────────────────────────────────────────

func TestTicket_RecomputeTotals_WorkedInvoice(t *testing.T) {
	// Three lines, same-state billing: 18% group taxes 2500 at 9+9,
	// the 0% group contributes nothing, grand total lands on a whole rupee.
	tk := testTicket()
	mustAddLine(t, tk, "MS Angle", 2, 1000, 18)
	mustAddLine(t, tk, "Fasteners", 1, 500, 18)
	mustAddLine(t, tk, "Scrap offcuts", 1, 2000, 0)

	breakdown := tk.RecomputeTotals(homeState)

	if tk.TotalQuantity != 4 {
		t.Errorf("total quantity = %v, want 4", tk.TotalQuantity)
	}
	if tk.TotalAmount != 4500 {
		t.Errorf("total amount = %v, want 4500", tk.TotalAmount)
	}
	if tk.FinalGSTAmount != 450 {
		t.Errorf("final GST = %v, want 450", tk.FinalGSTAmount)
	}
	if tk.GrandTotal != 4950 || tk.FinalRoundedAmount != 4950 || tk.RoundOff != 0 {
		t.Errorf("grand/rounded/off = %v/%v/%v, want 4950/4950/0",
			tk.GrandTotal, tk.FinalRoundedAmount, tk.RoundOff)
	}
	if len(breakdown.Groups) != 2 {
		t.Fatalf("expected 2 breakdown groups, got %d", len(breakdown.Groups))
	}

	var lineSum float64
	for _, g := range tk.Goods {
		lineSum += g.Amount
	}
	if math.Abs(lineSum-tk.TotalAmount) > 1e-6 {
		t.Errorf("sum of line amounts %v != total amount %v", lineSum, tk.TotalAmount)
	}
	if math.Abs((tk.FinalRoundedAmount-tk.RoundOff)-(tk.TotalAmount+tk.FinalGSTAmount)) > 1e-6 {
		t.Error("rounding identity broken")
	}
}

func TestTicket_RecomputeTotals_RoundsDown(t *testing.T) {
	tk := testTicket()
	mustAddLine(t, tk, "Machining", 1, 4195.25, 18) // tax 755.15, grand 4950.40

	tk.RecomputeTotals(homeState)

	if tk.FinalRoundedAmount != 4950 {
		t.Errorf("rounded = %v, want 4950", tk.FinalRoundedAmount)
	}
	if math.Abs(tk.RoundOff-(-0.40)) > 1e-6 {
		t.Errorf("round-off = %v, want -0.40", tk.RoundOff)
	}
}

func TestTicket_AddGoodsLine_Validation(t *testing.T) {
	tests := []struct {
		name  string
		qty   float64
		price float64
	}{
		{"zero quantity", 0, 100},
		{"negative quantity", -1, 100},
		{"negative price", 1, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := testTicket()
			err := tk.AddGoodsLine(GoodsLineItem{Description: "x", Quantity: tt.qty, UnitPrice: tt.price})
			if err == nil {
				t.Fatal("expected validation error")
			}
			if len(tk.Goods) != 0 {
				t.Error("rejected line must not be appended")
			}
		})
	}
}

func TestTicket_AddGoodsLine_AllowsFreeOfChargeLine(t *testing.T) {
	tk := testTicket()
	line := GoodsLineItem{Description: "warranty replacement", Quantity: 1, UnitPrice: 0, GSTRate: 18}
	if err := tk.AddGoodsLine(line); err != nil {
		t.Fatalf("zero-priced line rejected: %v", err)
	}
	if len(tk.Goods) != 1 {
		t.Fatal("line not appended")
	}
}

func TestTicket_RemoveGoodsLine_Renumbers(t *testing.T) {
	tk := testTicket()
	mustAddLine(t, tk, "first", 1, 10, 18)
	mustAddLine(t, tk, "second", 1, 20, 18)
	mustAddLine(t, tk, "third", 1, 30, 18)

	if err := tk.RemoveGoodsLine(2); err != nil {
		t.Fatalf("RemoveGoodsLine: %v", err)
	}

	if len(tk.Goods) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(tk.Goods))
	}
	for i, g := range tk.Goods {
		if g.SrNo != i+1 {
			t.Errorf("line %d has srNo %d, want dense numbering from 1", i, g.SrNo)
		}
	}
	if tk.Goods[1].Description != "third" {
		t.Errorf("expected 'third' renumbered to srNo 2, got %q", tk.Goods[1].Description)
	}

	// Delete everything and re-add: numbering restarts at 1.
	if err := tk.RemoveGoodsLine(1); err != nil {
		t.Fatal(err)
	}
	if err := tk.RemoveGoodsLine(1); err != nil {
		t.Fatal(err)
	}
	mustAddLine(t, tk, "fresh", 1, 5, 0)
	if tk.Goods[0].SrNo != 1 {
		t.Errorf("fresh line srNo = %d, want 1", tk.Goods[0].SrNo)
	}
}

func TestTicket_RemoveGoodsLine_NotFound(t *testing.T) {
	tk := testTicket()
	mustAddLine(t, tk, "only", 1, 10, 18)
	if err := tk.RemoveGoodsLine(5); appErrCode(t, err) != 404 {
		t.Error("expected 404 for unknown srNo")
	}
}

func TestTicket_LinesLockedWhenClosed(t *testing.T) {
	tk := testTicket()
	mustAddLine(t, tk, "line", 1, 10, 18)
	tk.Status = enum.TicketStatusClosed

	if err := tk.AddGoodsLine(GoodsLineItem{Description: "x", Quantity: 1, UnitPrice: 1}); err == nil {
		t.Error("AddGoodsLine must fail on a closed ticket")
	}
	if err := tk.UpdateGoodsLine(1, 2, 10); err == nil {
		t.Error("UpdateGoodsLine must fail on a closed ticket")
	}
	if err := tk.RemoveGoodsLine(1); err == nil {
		t.Error("RemoveGoodsLine must fail on a closed ticket")
	}
}

// ── Price edits ──────────────────────────────────────────────────────────────

func TestGoodsLineItem_ValidatePriceEdit(t *testing.T) {
	tests := []struct {
		name        string
		original    float64
		maxDiscount float64
		newPrice    float64
		wantErr     bool
	}{
		{"within discount", 1000, 5, 960, false},
		{"exactly at floor", 1000, 5, 950, false},
		{"below floor", 1000, 5, 900, true},
		{"no discount allowed, below original", 1000, 0, 999, true},
		{"no discount allowed, at original", 1000, 0, 1000, false},
		{"increase always allowed", 1000, 5, 1200, false},
		{"increase with no discount policy", 1000, 0, 1100, false},
		{"free-form line without original price", 0, 0, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := &GoodsLineItem{
				Description:        "MS Angle",
				OriginalPrice:      tt.original,
				MaxDiscountPercent: tt.maxDiscount,
			}
			err := line.ValidatePriceEdit(tt.newPrice)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePriceEdit(%v) error = %v, wantErr %v", tt.newPrice, err, tt.wantErr)
			}
		})
	}
}

func TestGoodsLineItem_ValidatePriceEdit_ReportsFloor(t *testing.T) {
	line := &GoodsLineItem{Description: "MS Angle", OriginalPrice: 1000, MaxDiscountPercent: 5}
	err := line.ValidatePriceEdit(900)
	if err == nil {
		t.Fatal("expected discount-exceeded error")
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("unexpected error type %T", err)
	}
	const want = "950.00"
	found := false
	for _, fe := range appErr.Errors {
		if fe.Field == "price" && contains(fe.Message, want) {
			found = true
		}
	}
	if !found || !contains(appErr.Message, want) {
		t.Errorf("error should cite floor %s, got %v / %v", want, appErr.Message, appErr.Errors)
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

// ── Status workflow ──────────────────────────────────────────────────────────

func TestTicket_ApplyStatus(t *testing.T) {
	actor := uuid.New()

	t.Run("linear progression appends history", func(t *testing.T) {
		tk := testTicket()
		for _, next := range []enum.TicketStatus{
			enum.TicketStatusPOReceived,
			enum.TicketStatusPaymentPending,
			enum.TicketStatusInspection,
			enum.TicketStatusPackingList,
			enum.TicketStatusInvoiceSent,
			enum.TicketStatusClosed,
		} {
			if err := tk.ApplyStatus(next, actor, nil); err != nil {
				t.Fatalf("transition to %s: %v", next, err)
			}
		}
		if len(tk.StatusHistory) != 6 {
			t.Errorf("history length = %d, want 6", len(tk.StatusHistory))
		}
		for _, h := range tk.StatusHistory {
			if h.ChangedBy != actor || h.ChangedAt.IsZero() {
				t.Error("history entries must be timestamped and actor-attributed")
			}
		}
	})

	t.Run("hold round-trips", func(t *testing.T) {
		tk := testTicket()
		tk.Status = enum.TicketStatusInspection
		if err := tk.ApplyStatus(enum.TicketStatusHold, actor, nil); err != nil {
			t.Fatalf("into hold: %v", err)
		}
		if err := tk.ApplyStatus(enum.TicketStatusInspection, actor, nil); err != nil {
			t.Fatalf("out of hold: %v", err)
		}
	})

	t.Run("closed is terminal", func(t *testing.T) {
		tk := testTicket()
		tk.Status = enum.TicketStatusClosed
		err := tk.ApplyStatus(enum.TicketStatusQuotationSent, actor, nil)
		if appErrCode(t, err) != 409 {
			t.Error("expected conflict for transition out of Closed")
		}
		if tk.Status != enum.TicketStatusClosed || len(tk.StatusHistory) != 0 {
			t.Error("failed transition must leave the ticket unchanged")
		}
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		tk := testTicket()
		err := tk.ApplyStatus(enum.TicketStatus(42), actor, nil)
		if appErrCode(t, err) != 409 {
			t.Error("expected conflict for a status outside the fixed set")
		}
		if len(tk.StatusHistory) != 0 {
			t.Error("failed transition must not append history")
		}
	})
}

func TestTicket_ProgressPercent_HoldUsesHistory(t *testing.T) {
	tk := testTicket()
	actor := uuid.New()
	if err := tk.ApplyStatus(enum.TicketStatusPaymentPending, actor, nil); err != nil {
		t.Fatal(err)
	}
	if err := tk.ApplyStatus(enum.TicketStatusHold, actor, nil); err != nil {
		t.Fatal(err)
	}

	want := enum.TicketStatusPaymentPending.ProgressPercent()
	if got := tk.ProgressPercent(); math.Abs(got-want) > 1e-9 {
		t.Errorf("held ticket progress = %v, want last non-hold %v", got, want)
	}
}

// ── Assignment ───────────────────────────────────────────────────────────────

func TestTicket_TransferTo(t *testing.T) {
	tk := testTicket()
	owner := tk.CurrentAssignee
	next := uuid.New()
	admin := uuid.New()

	if err := tk.TransferTo(owner, next, admin, nil); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if tk.CurrentAssignee != next {
		t.Error("transfer must move ownership")
	}
	if len(tk.TransferHistory) != 1 {
		t.Fatal("transfer must append history")
	}
	entry := tk.TransferHistory[0]
	if entry.FromUserID != owner || entry.ToUserID != next || entry.TransferredBy != admin {
		t.Errorf("bad transfer entry: %+v", entry)
	}

	// Stale transfer: owner no longer holds the ticket.
	err := tk.TransferTo(owner, uuid.New(), admin, nil)
	if appErrCode(t, err) != 409 {
		t.Error("expected stale-assignment conflict")
	}
	if len(tk.TransferHistory) != 1 || tk.CurrentAssignee != next {
		t.Error("failed transfer must leave ticket unchanged")
	}
}

func TestTicket_LogAssignment_DoesNotMoveOwnership(t *testing.T) {
	tk := testTicket()
	owner := tk.CurrentAssignee
	tk.LogAssignment(uuid.New(), uuid.New(), "created")

	if tk.CurrentAssignee != owner {
		t.Error("LogAssignment must not change the current assignee")
	}
	if len(tk.AssignmentLog) != 1 || tk.AssignmentLog[0].Action != "created" {
		t.Errorf("bad assignment log: %+v", tk.AssignmentLog)
	}
}

// ── Payments ─────────────────────────────────────────────────────────────────

func TestTicket_Payments(t *testing.T) {
	tk := testTicket()
	tk.FinalRoundedAmount = 4950
	recorder := uuid.New()
	now := time.Now()

	if got := tk.OutstandingBalance(); got != 4950 {
		t.Errorf("balance before payments = %v, want 4950", got)
	}

	if err := tk.RecordPayment(2000, now, nil, recorder); err != nil {
		t.Fatal(err)
	}
	ref := "NEFT-001"
	if err := tk.RecordPayment(950.50, now, &ref, recorder); err != nil {
		t.Fatal(err)
	}

	if got := tk.OutstandingBalance(); math.Abs(got-1999.50) > 1e-6 {
		t.Errorf("balance = %v, want 1999.50", got)
	}

	// Overpayment is surfaced, not rejected.
	if err := tk.RecordPayment(3000, now, nil, recorder); err != nil {
		t.Fatalf("overpayment must be accepted: %v", err)
	}
	if got := tk.OutstandingBalance(); math.Abs(got-(-1000.50)) > 1e-6 {
		t.Errorf("balance after overpayment = %v, want -1000.50", got)
	}
}

func TestTicket_RecordPayment_RejectsNonPositive(t *testing.T) {
	tk := testTicket()
	for _, amount := range []float64{0, -100} {
		if err := tk.RecordPayment(amount, time.Now(), nil, uuid.New()); err == nil {
			t.Errorf("amount %v must be rejected", amount)
		}
	}
	if len(tk.Payments) != 0 {
		t.Error("rejected payments must not be appended")
	}
}

// ── Documents ────────────────────────────────────────────────────────────────

func TestTicket_Documents_SingleSlotReplaces(t *testing.T) {
	tk := testTicket()
	actor := uuid.New()

	if err := tk.AttachDocument(enum.DocumentTypePurchaseOrder, "/store/po-v1.pdf", "po.pdf", actor); err != nil {
		t.Fatal(err)
	}
	if err := tk.AttachDocument(enum.DocumentTypePurchaseOrder, "/store/po-v2.pdf", "po-final.pdf", actor); err != nil {
		t.Fatal(err)
	}

	var poSlots int
	for _, d := range tk.Documents {
		if d.Type == enum.DocumentTypePurchaseOrder {
			poSlots++
			if d.Path != "/store/po-v2.pdf" {
				t.Errorf("slot should hold the replacement, got %s", d.Path)
			}
		}
	}
	if poSlots != 1 {
		t.Errorf("single-slot type holds %d slots, want 1", poSlots)
	}
}

func TestTicket_Documents_OtherAppends(t *testing.T) {
	tk := testTicket()
	actor := uuid.New()

	for i, name := range []string{"site-photo.jpg", "measurements.xlsx", "note.txt"} {
		if err := tk.AttachDocument(enum.DocumentTypeOther, "/store/other-"+name, name, actor); err != nil {
			t.Fatalf("attach %d: %v", i, err)
		}
	}

	var others int
	for _, d := range tk.Documents {
		if d.Type == enum.DocumentTypeOther {
			others++
		}
	}
	if others != 3 {
		t.Errorf("'other' slots = %d, want 3 (append, never replace)", others)
	}
}

func TestTicket_RemoveDocument(t *testing.T) {
	tk := testTicket()
	actor := uuid.New()

	if err := tk.AttachDocument(enum.DocumentTypeChallan, "/store/challan.pdf", "challan.pdf", actor); err != nil {
		t.Fatal(err)
	}
	if err := tk.RemoveDocument(enum.DocumentTypeChallan, nil); err != nil {
		t.Fatalf("clearing a filled single slot: %v", err)
	}
	if tk.Document(enum.DocumentTypeChallan) != nil {
		t.Error("slot should be empty after removal")
	}
	if err := tk.RemoveDocument(enum.DocumentTypeChallan, nil); appErrCode(t, err) != 404 {
		t.Error("clearing an empty slot should be NotFound")
	}

	// "other" requires a matching document ID.
	if err := tk.AttachDocument(enum.DocumentTypeOther, "/store/a.pdf", "a.pdf", actor); err != nil {
		t.Fatal(err)
	}
	tk.Documents[len(tk.Documents)-1].ID = uuid.New()
	docID := tk.Documents[len(tk.Documents)-1].ID

	if err := tk.RemoveDocument(enum.DocumentTypeOther, nil); err == nil {
		t.Error("'other' delete without an ID must fail")
	}
	missing := uuid.New()
	if err := tk.RemoveDocument(enum.DocumentTypeOther, &missing); appErrCode(t, err) != 404 {
		t.Error("'other' delete with an unknown ID must be NotFound")
	}
	if err := tk.RemoveDocument(enum.DocumentTypeOther, &docID); err != nil {
		t.Errorf("'other' delete with matching ID: %v", err)
	}
}

func TestTicket_AttachDocument_UnknownType(t *testing.T) {
	tk := testTicket()
	if err := tk.AttachDocument(enum.DocumentType("warranty"), "/x", "x", uuid.New()); err == nil {
		t.Error("unknown document type must be rejected")
	}
}
