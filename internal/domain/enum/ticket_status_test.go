package enum

import (
	"encoding/json"
	"math"
	"testing"
)

func TestTicketStatus_ProgressPercent(t *testing.T) {
	tests := []struct {
		status TicketStatus
		expect float64
	}{
		{TicketStatusQuotationSent, 100.0 / 7},
		{TicketStatusPOReceived, 200.0 / 7},
		{TicketStatusInvoiceSent, 600.0 / 7},
		{TicketStatusClosed, 100},
		{TicketStatusHold, 0},
		{TicketStatus(99), 0},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			if got := tt.status.ProgressPercent(); math.Abs(got-tt.expect) > 1e-9 {
				t.Errorf("ProgressPercent() = %v, want %v", got, tt.expect)
			}
		})
	}
}

func TestTicketStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name   string
		from   TicketStatus
		to     TicketStatus
		expect bool
	}{
		{"forward step", TicketStatusQuotationSent, TicketStatusPOReceived, true},
		{"backward step", TicketStatusInspection, TicketStatusPOReceived, true},
		{"into hold", TicketStatusPackingList, TicketStatusHold, true},
		{"out of hold", TicketStatusHold, TicketStatusPackingList, true},
		{"into closed", TicketStatusInvoiceSent, TicketStatusClosed, true},
		{"out of closed", TicketStatusClosed, TicketStatusQuotationSent, false},
		{"closed to hold", TicketStatusClosed, TicketStatusHold, false},
		{"to unknown value", TicketStatusInspection, TicketStatus(42), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.expect {
				t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.expect)
			}
		})
	}
}

func TestParseTicketStatus(t *testing.T) {
	for s := TicketStatusQuotationSent; s <= TicketStatusHold; s++ {
		parsed, ok := ParseTicketStatus(s.String())
		if !ok || parsed != s {
			t.Errorf("ParseTicketStatus(%q) = %v, %v", s.String(), parsed, ok)
		}
	}
	if _, ok := ParseTicketStatus("Shipped"); ok {
		t.Error("names outside the fixed set must not parse")
	}
}

func TestTicketStatus_JSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(TicketStatusPaymentPending)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"Payment Pending"` {
		t.Errorf("marshal = %s", data)
	}

	var s TicketStatus
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatal(err)
	}
	if s != TicketStatusPaymentPending {
		t.Errorf("round-trip = %v", s)
	}

	// Integer form still accepted for legacy rows.
	if err := json.Unmarshal([]byte("6"), &s); err != nil || s != TicketStatusClosed {
		t.Errorf("numeric unmarshal = %v, %v", s, err)
	}
}

func TestTicketStatus_UnmarshalRejectsUnknownName(t *testing.T) {
	s := TicketStatusInspection
	if err := json.Unmarshal([]byte(`"Shipped"`), &s); err == nil {
		t.Fatal("unknown status name must not unmarshal")
	}
	if s != TicketStatusInspection {
		t.Errorf("receiver changed on failed unmarshal: %v", s)
	}
}
