package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/maheshwarig/ticketflow-api/internal/domain/entity"
	"github.com/maheshwarig/ticketflow-api/internal/domain/enum"
	"github.com/maheshwarig/ticketflow-api/pkg/pagination"
)

// TicketRepository defines the interface for ticket data operations
type TicketRepository interface {
	Create(ctx context.Context, ticket *entity.Ticket) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Ticket, error)
	GetByTicketNo(ctx context.Context, ticketNo string) (*entity.Ticket, error)
	// GetWithDetails loads the ticket with goods lines, histories, payments
	// and document slots preloaded.
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Ticket, error)
	Update(ctx context.Context, ticket *entity.Ticket) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params *TicketFilterParams) ([]entity.Ticket, int64, error)
	ListWithCursor(ctx context.Context, userID uuid.UUID, params *TicketCursorFilterParams) ([]entity.Ticket, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.TicketStatus) error
	// UpdateTotals persists only the aggregate total columns.
	UpdateTotals(ctx context.Context, ticket *entity.Ticket) error
	UpdateAssignee(ctx context.Context, id uuid.UUID, assignee uuid.UUID) error
	// GetApproachingDeadline returns open tickets whose deadline falls on or
	// before the cutoff, oldest deadline first.
	GetApproachingDeadline(ctx context.Context, userID uuid.UUID, cutoff time.Time, params *pagination.PaginationParams) ([]entity.Ticket, int64, error)
	GetNextTicketNumber(ctx context.Context) (int, error)
}

// TicketFilterParams contains filtering parameters for ticket queries
type TicketFilterParams struct {
	Pagination     *pagination.PaginationParams
	Search         string
	Status         *enum.TicketStatus
	CompanyID      *uuid.UUID
	AssigneeID     *uuid.UUID
	StartDate      *time.Time
	EndDate        *time.Time
	SortBy         string
	SortOrder      string
	SkipUserFilter bool // If true, returns all tickets (for super-admin)
}

// TicketCursorFilterParams contains cursor-based filtering for ticket queries
type TicketCursorFilterParams struct {
	Cursor         *pagination.CursorParams
	Search         string
	Status         *enum.TicketStatus
	CompanyID      *uuid.UUID
	AssigneeID     *uuid.UUID
	StartDate      *time.Time
	EndDate        *time.Time
	SkipUserFilter bool // If true, returns all tickets (for super-admin)
}

// GoodsLineRepository defines the interface for ticket goods line data operations
type GoodsLineRepository interface {
	Create(ctx context.Context, line *entity.GoodsLineItem) error
	CreateBatch(ctx context.Context, lines []entity.GoodsLineItem) error
	GetByTicketID(ctx context.Context, ticketID uuid.UUID) ([]entity.GoodsLineItem, error)
	Update(ctx context.Context, line *entity.GoodsLineItem) error
	// ReplaceForTicket deletes the ticket's existing lines and inserts the
	// given set in a single transaction, preserving serial numbers.
	ReplaceForTicket(ctx context.Context, ticketID uuid.UUID, lines []entity.GoodsLineItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TicketEventRepository persists the append-only ticket event trails.
type TicketEventRepository interface {
	CreateStatusEntry(ctx context.Context, entry *entity.StatusHistoryEntry) error
	CreateTransferEntry(ctx context.Context, entry *entity.TransferHistoryEntry) error
	CreateAssignmentEntry(ctx context.Context, entry *entity.AssignmentLogEntry) error
	GetStatusHistory(ctx context.Context, ticketID uuid.UUID) ([]entity.StatusHistoryEntry, error)
	GetTransferHistory(ctx context.Context, ticketID uuid.UUID) ([]entity.TransferHistoryEntry, error)
	GetAssignmentLog(ctx context.Context, ticketID uuid.UUID) ([]entity.AssignmentLogEntry, error)
}

// PaymentRepository defines the interface for ticket payment data operations
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByTicketID(ctx context.Context, ticketID uuid.UUID) ([]entity.Payment, error)
	// SumByTicketID returns the total amount received against a ticket.
	SumByTicketID(ctx context.Context, ticketID uuid.UUID) (float64, error)
}

// DocumentSlotRepository defines the interface for ticket document slot operations
type DocumentSlotRepository interface {
	Create(ctx context.Context, slot *entity.DocumentSlot) error
	Update(ctx context.Context, slot *entity.DocumentSlot) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.DocumentSlot, error)
	GetByTicketID(ctx context.Context, ticketID uuid.UUID) ([]entity.DocumentSlot, error)
	GetByTicketAndType(ctx context.Context, ticketID uuid.UUID, docType enum.DocumentType) (*entity.DocumentSlot, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
