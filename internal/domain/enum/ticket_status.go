package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// TicketStatus represents a ticket's position in the fulfilment workflow.
// The ordered statuses track linear progress; Hold is a side-state a ticket
// can enter from and leave to any ordered status. Closed is terminal.
type TicketStatus int

const (
	TicketStatusQuotationSent  TicketStatus = 0
	TicketStatusPOReceived     TicketStatus = 1
	TicketStatusPaymentPending TicketStatus = 2
	TicketStatusInspection     TicketStatus = 3
	TicketStatusPackingList    TicketStatus = 4
	TicketStatusInvoiceSent    TicketStatus = 5
	TicketStatusClosed         TicketStatus = 6
	TicketStatusHold           TicketStatus = 7
)

var ticketStatusNames = [...]string{
	"Quotation Sent",
	"PO Received",
	"Payment Pending",
	"Inspection",
	"Packing List",
	"Invoice Sent",
	"Closed",
	"Hold",
}

// orderedTicketStatusCount counts the linear workflow statuses (Hold excluded).
const orderedTicketStatusCount = 7

func (s TicketStatus) String() string {
	if !s.IsValid() {
		return "Unknown"
	}
	return ticketStatusNames[s]
}

// IsValid reports whether the status belongs to the fixed set.
func (s TicketStatus) IsValid() bool {
	return s >= TicketStatusQuotationSent && s <= TicketStatusHold
}

// IsTerminal reports whether no further transitions are permitted.
func (s TicketStatus) IsTerminal() bool {
	return s == TicketStatusClosed
}

// IsHold reports whether the ticket is parked outside the linear workflow.
func (s TicketStatus) IsHold() bool {
	return s == TicketStatusHold
}

// CanTransitionTo reports whether the workflow permits moving to target.
// Closed admits nothing; every other status may move to any valid status,
// including in and out of Hold.
func (s TicketStatus) CanTransitionTo(target TicketStatus) bool {
	if !target.IsValid() {
		return false
	}
	return !s.IsTerminal()
}

// ProgressPercent returns the display progress through the ordered workflow.
// Hold reports 0; callers that want an informative figure for held tickets
// use the last non-Hold status from the history.
func (s TicketStatus) ProgressPercent() float64 {
	if !s.IsValid() || s.IsHold() {
		return 0
	}
	return float64(int(s)+1) / float64(orderedTicketStatusCount) * 100
}

// ParseTicketStatus resolves a display name to a status. The second return
// is false for names outside the fixed set.
func ParseTicketStatus(name string) (TicketStatus, bool) {
	for i, n := range ticketStatusNames {
		if n == name {
			return TicketStatus(i), true
		}
	}
	return TicketStatus(-1), false
}

func (s TicketStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *TicketStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = TicketStatus(i)
		return nil
	}
	parsed, ok := ParseTicketStatus(str)
	if !ok {
		return fmt.Errorf("unknown ticket status %q", str)
	}
	*s = parsed
	return nil
}

func (s TicketStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *TicketStatus) Scan(value interface{}) error {
	if value == nil {
		*s = TicketStatusQuotationSent
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = TicketStatus(v)
	case int:
		*s = TicketStatus(v)
	}
	return nil
}
