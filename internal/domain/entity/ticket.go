package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/maheshwarig/ticketflow-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Ticket is the order-fulfilment aggregate. It is created once from an
// accepted quotation (a snapshot of client, addresses and goods at that
// moment) and then only appended to: status history, transfer history,
// assignment log, payments and document slots grow, they never shrink.
// Goods lines may be edited until the ticket reaches Closed.
type Ticket struct {
	ID              uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	UserID          uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	CompanyID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"company_id"`
	QuotationID     *uuid.UUID        `gorm:"type:uuid;index" json:"quotation_id,omitempty"`
	TicketNo        string            `gorm:"size:100;unique;not null" json:"ticket_no"`
	QuotationNo     string            `gorm:"size:100" json:"quotation_no"`
	Status          enum.TicketStatus `gorm:"default:0" json:"status"`
	Deadline        time.Time         `gorm:"type:date" json:"deadline"`
	CurrentAssignee uuid.UUID         `gorm:"type:uuid;index" json:"current_assignee"`
	SameAsBilling   bool              `gorm:"default:true" json:"same_as_billing"`
	BillingAddress  Address           `gorm:"embedded;embeddedPrefix:billing_" json:"billing_address"`
	ShippingAddress Address           `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`

	// Aggregate totals, recomputed from the goods lines on every edit.
	TotalQuantity      float64 `gorm:"type:decimal(15,3);default:0" json:"total_quantity"`
	TotalAmount        float64 `gorm:"type:decimal(15,2);default:0" json:"total_amount"`
	TotalCGSTAmount    float64 `gorm:"type:decimal(15,2);default:0;column:total_cgst_amount" json:"total_cgst_amount"`
	TotalSGSTAmount    float64 `gorm:"type:decimal(15,2);default:0;column:total_sgst_amount" json:"total_sgst_amount"`
	TotalIGSTAmount    float64 `gorm:"type:decimal(15,2);default:0;column:total_igst_amount" json:"total_igst_amount"`
	FinalGSTAmount     float64 `gorm:"type:decimal(15,2);default:0;column:final_gst_amount" json:"final_gst_amount"`
	GrandTotal         float64 `gorm:"type:decimal(15,2);default:0" json:"grand_total"`
	RoundOff           float64 `gorm:"type:decimal(15,2);default:0" json:"round_off"`
	FinalRoundedAmount float64 `gorm:"type:decimal(15,2);default:0" json:"final_rounded_amount"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User            User                   `gorm:"foreignKey:UserID" json:"-"`
	Company         *Company               `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Goods           []GoodsLineItem        `gorm:"foreignKey:TicketID" json:"goods,omitempty"`
	StatusHistory   []StatusHistoryEntry   `gorm:"foreignKey:TicketID" json:"status_history,omitempty"`
	TransferHistory []TransferHistoryEntry `gorm:"foreignKey:TicketID" json:"transfer_history,omitempty"`
	AssignmentLog   []AssignmentLogEntry   `gorm:"foreignKey:TicketID" json:"assignment_log,omitempty"`
	Payments        []Payment              `gorm:"foreignKey:TicketID" json:"payments,omitempty"`
	Documents       []DocumentSlot         `gorm:"foreignKey:TicketID" json:"documents,omitempty"`
}

// BeforeCreate generates a UUID before creating a new ticket
func (t *Ticket) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Ticket model
func (Ticket) TableName() string {
	return "tickets"
}

// GoodsLineItem is one priced line on a ticket. SrNo is 1-based and dense;
// deleting a line renumbers the rest. Amount is always recomputed from
// quantity and unit price, never mutated independently.
type GoodsLineItem struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TicketID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"ticket_id"`
	ItemID             *uuid.UUID     `gorm:"type:uuid;index" json:"item_id,omitempty"`
	SrNo               int            `gorm:"not null" json:"sr_no"`
	Description        string         `gorm:"size:255;not null" json:"description"`
	HSNCode            string         `gorm:"size:20;column:hsn_code" json:"hsn_code"`
	Quantity           float64        `gorm:"type:decimal(15,3);not null" json:"quantity"`
	UnitName           string         `gorm:"size:100" json:"unit_name"`
	UnitPrice          float64        `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	Amount             float64        `gorm:"type:decimal(15,2);not null" json:"amount"`
	GSTRate            float64        `gorm:"type:decimal(5,2);default:0;column:gst_rate" json:"gst_rate"`
	OriginalPrice      float64        `gorm:"type:decimal(15,2);default:0" json:"original_price"`
	MaxDiscountPercent float64        `gorm:"type:decimal(5,2);default:0" json:"max_discount_percent"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new goods line
func (g *GoodsLineItem) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the GoodsLineItem model
func (GoodsLineItem) TableName() string {
	return "ticket_goods_lines"
}

// StatusHistoryEntry records one status change. Entries are immutable once
// appended.
type StatusHistoryEntry struct {
	ID        uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	TicketID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"ticket_id"`
	Status    enum.TicketStatus `gorm:"not null" json:"status"`
	ChangedBy uuid.UUID         `gorm:"type:uuid;not null" json:"changed_by"`
	ChangedAt time.Time         `gorm:"not null" json:"changed_at"`
	Comment   *string           `gorm:"type:text" json:"comment,omitempty"`
}

// BeforeCreate generates a UUID before creating a new status history entry
func (s *StatusHistoryEntry) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StatusHistoryEntry model
func (StatusHistoryEntry) TableName() string {
	return "ticket_status_history"
}

// TransferHistoryEntry records one ownership transfer.
type TransferHistoryEntry struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TicketID      uuid.UUID `gorm:"type:uuid;not null;index" json:"ticket_id"`
	FromUserID    uuid.UUID `gorm:"type:uuid;not null" json:"from_user_id"`
	ToUserID      uuid.UUID `gorm:"type:uuid;not null" json:"to_user_id"`
	TransferredBy uuid.UUID `gorm:"type:uuid;not null" json:"transferred_by"`
	TransferredAt time.Time `gorm:"not null" json:"transferred_at"`
	Note          *string   `gorm:"type:text" json:"note,omitempty"`
}

// BeforeCreate generates a UUID before creating a new transfer entry
func (e *TransferHistoryEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the TransferHistoryEntry model
func (TransferHistoryEntry) TableName() string {
	return "ticket_transfer_history"
}

// AssignmentLogEntry records a non-transfer assignment event, e.g. the
// initial assignment at creation. It never moves ownership by itself.
type AssignmentLogEntry struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TicketID   uuid.UUID `gorm:"type:uuid;not null;index" json:"ticket_id"`
	AssignedTo uuid.UUID `gorm:"type:uuid;not null" json:"assigned_to"`
	AssignedBy uuid.UUID `gorm:"type:uuid;not null" json:"assigned_by"`
	Action     string    `gorm:"size:100;not null" json:"action"`
	CreatedAt  time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new assignment log entry
func (e *AssignmentLogEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the AssignmentLogEntry model
func (AssignmentLogEntry) TableName() string {
	return "ticket_assignment_log"
}

// Payment records money received against the ticket's rounded grand total.
type Payment struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TicketID    uuid.UUID `gorm:"type:uuid;not null;index" json:"ticket_id"`
	Amount      float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	PaymentDate time.Time `gorm:"type:date;not null" json:"payment_date"`
	Reference   *string   `gorm:"size:255" json:"reference,omitempty"`
	RecordedBy  uuid.UUID `gorm:"type:uuid;not null" json:"recorded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "ticket_payments"
}

// DocumentSlot stores one attached document. Single-slot types hold at most
// one row per ticket; the "other" type holds an ordered list.
type DocumentSlot struct {
	ID           uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	TicketID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"ticket_id"`
	Type         enum.DocumentType `gorm:"size:50;not null;index" json:"type"`
	Path         string            `gorm:"size:500;not null" json:"path"`
	OriginalName string            `gorm:"size:255;not null" json:"original_name"`
	UploadedBy   uuid.UUID         `gorm:"type:uuid;not null" json:"uploaded_by"`
	UploadedAt   time.Time         `gorm:"not null" json:"uploaded_at"`
}

// BeforeCreate generates a UUID before creating a new document slot
func (d *DocumentSlot) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DocumentSlot model
func (DocumentSlot) TableName() string {
	return "ticket_documents"
}
