package service

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/maheshwarig/ticketflow-api/internal/config"
	"github.com/maheshwarig/ticketflow-api/internal/domain/entity"
	"github.com/maheshwarig/ticketflow-api/internal/domain/enum"
	"github.com/maheshwarig/ticketflow-api/internal/domain/repository"
	"github.com/maheshwarig/ticketflow-api/pkg/apperror"
	"github.com/maheshwarig/ticketflow-api/pkg/email"
	"github.com/maheshwarig/ticketflow-api/pkg/gst"
	"github.com/maheshwarig/ticketflow-api/pkg/pagination"
	"github.com/maheshwarig/ticketflow-api/pkg/utils"
)

// TicketService handles the ticket lifecycle: creation from an accepted
// quotation, goods line edits with tax recomputation, status transitions,
// ownership transfers, payments and document slots.
type TicketService struct {
	ticketRepo    repository.TicketRepository
	goodsLineRepo repository.GoodsLineRepository
	eventRepo     repository.TicketEventRepository
	paymentRepo   repository.PaymentRepository
	documentRepo  repository.DocumentSlotRepository
	quotationRepo repository.QuotationRepository
	itemRepo      repository.ItemRepository
	userRepo      repository.UserRepository
	emailService  *email.EmailService
	cfg           *config.Config
}

// NewTicketService creates a new ticket service
func NewTicketService(
	ticketRepo repository.TicketRepository,
	goodsLineRepo repository.GoodsLineRepository,
	eventRepo repository.TicketEventRepository,
	paymentRepo repository.PaymentRepository,
	documentRepo repository.DocumentSlotRepository,
	quotationRepo repository.QuotationRepository,
	itemRepo repository.ItemRepository,
	userRepo repository.UserRepository,
	emailService *email.EmailService,
	cfg *config.Config,
) *TicketService {
	return &TicketService{
		ticketRepo:    ticketRepo,
		goodsLineRepo: goodsLineRepo,
		eventRepo:     eventRepo,
		paymentRepo:   paymentRepo,
		documentRepo:  documentRepo,
		quotationRepo: quotationRepo,
		itemRepo:      itemRepo,
		userRepo:      userRepo,
		emailService:  emailService,
		cfg:           cfg,
	}
}

// CreateTicketInput represents the create-from-quotation input
type CreateTicketInput struct {
	UserID      uuid.UUID
	QuotationID uuid.UUID
	AssigneeID  uuid.UUID
	Deadline    *time.Time
}

// CreateFromQuotation converts an accepted quotation into a ticket. The
// company, addresses and goods lines are snapshotted as they stand; later
// edits to the quotation or item catalog do not touch the ticket.
func (s *TicketService) CreateFromQuotation(ctx context.Context, input *CreateTicketInput) (*entity.Ticket, error) {
	quotation, err := s.quotationRepo.GetWithDetails(ctx, input.QuotationID)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, apperror.NewNotFoundError("Quotation")
	}
	if quotation.Status == enum.QuotationStatusConverted {
		return nil, apperror.NewConflictError("Quotation has already been converted to a ticket")
	}
	if quotation.Status != enum.QuotationStatusAccepted {
		return nil, apperror.NewConflictError("Only accepted quotations can be converted to tickets")
	}

	assignee, err := s.userRepo.GetByID(ctx, input.AssigneeID)
	if err != nil {
		return nil, err
	}
	if assignee == nil {
		return nil, apperror.NewNotFoundError("Assignee")
	}

	seq, err := s.ticketRepo.GetNextTicketNumber(ctx)
	if err != nil {
		return nil, err
	}

	deadline := time.Now().AddDate(0, 0, s.cfg.Ticket.DeadlineDays)
	if input.Deadline != nil {
		deadline = *input.Deadline
	}

	ticket := &entity.Ticket{
		ID:              uuid.New(),
		UserID:          input.UserID,
		CompanyID:       quotation.CompanyID,
		QuotationID:     &quotation.ID,
		TicketNo:        utils.GenerateTicketNo(seq),
		QuotationNo:     quotation.QuotationNo,
		Status:          enum.TicketStatusQuotationSent,
		Deadline:        deadline,
		CurrentAssignee: input.AssigneeID,
		SameAsBilling:   quotation.SameAsBilling,
		BillingAddress:  quotation.BillingAddress,
		ShippingAddress: quotation.ShippingAddress,
	}

	for _, detail := range quotation.Goods {
		line := entity.GoodsLineItem{
			ItemID:             detail.ItemID,
			Description:        detail.Description,
			HSNCode:            detail.HSNCode,
			Quantity:           detail.Quantity,
			UnitName:           detail.UnitName,
			UnitPrice:          detail.UnitPrice,
			GSTRate:            detail.GSTRate,
			OriginalPrice:      detail.OriginalPrice,
			MaxDiscountPercent: detail.MaxDiscountPercent,
		}
		if err := ticket.AddGoodsLine(line); err != nil {
			return nil, err
		}
	}
	ticket.RecomputeTotals(s.cfg.GST.HomeState)

	if err := ticket.ApplyStatus(enum.TicketStatusQuotationSent, input.UserID, nil); err != nil {
		return nil, err
	}
	ticket.LogAssignment(input.AssigneeID, input.UserID, "initial assignment")

	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, err
	}

	if err := s.quotationRepo.UpdateStatus(ctx, quotation.ID, enum.QuotationStatusConverted); err != nil {
		return nil, err
	}

	// Committed goods come out of stock. A failed decrement is logged, not
	// fatal; the ticket already exists and stock can be reconciled.
	for i := range ticket.Goods {
		line := &ticket.Goods[i]
		if line.ItemID == nil {
			continue
		}
		item, err := s.itemRepo.GetWithUnits(ctx, *line.ItemID)
		if err != nil || item == nil {
			continue
		}
		conv := item.ConvertUnit(line.UnitName, line.Quantity)
		if conv.QuantityInBaseUnit <= 0 {
			continue
		}
		if err := s.itemRepo.UpdateQuantity(ctx, item.ID, item.Quantity-conv.QuantityInBaseUnit); err != nil {
			log.Printf("Warning: failed to decrement stock for item %s: %v", item.Code, err)
		}
	}

	return s.ticketRepo.GetWithDetails(ctx, ticket.ID)
}

// GetTicket retrieves a ticket with all its details
func (s *TicketService) GetTicket(ctx context.Context, id uuid.UUID) (*entity.Ticket, error) {
	ticket, err := s.ticketRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, apperror.NewNotFoundError("Ticket")
	}
	return ticket, nil
}

// ListTickets lists tickets with filtering
func (s *TicketService) ListTickets(ctx context.Context, userID uuid.UUID, params *repository.TicketFilterParams) (*pagination.PaginatedResult[entity.Ticket], error) {
	tickets, total, err := s.ticketRepo.List(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(tickets, pag), nil
}

// ListTicketsWithCursor lists tickets with cursor-based pagination
func (s *TicketService) ListTicketsWithCursor(ctx context.Context, userID uuid.UUID, params *repository.TicketCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Ticket], error) {
	tickets, err := s.ticketRepo.ListWithCursor(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(tickets, params.Cursor.Limit,
		func(t entity.Ticket) string { return t.ID.String() },
		func(t entity.Ticket) time.Time { return t.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// GoodsLineInput represents one goods line being added or updated
type GoodsLineInput struct {
	ItemID             *uuid.UUID
	Description        string
	HSNCode            string
	Quantity           float64
	UnitName           string
	UnitPrice          float64
	GSTRate            float64
	OriginalPrice      float64
	MaxDiscountPercent float64
}

// AddGoodsLine appends a line to an open ticket and recomputes totals
func (s *TicketService) AddGoodsLine(ctx context.Context, ticketID uuid.UUID, input *GoodsLineInput) (*entity.Ticket, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	line := entity.GoodsLineItem{
		ItemID:             input.ItemID,
		Description:        input.Description,
		HSNCode:            input.HSNCode,
		Quantity:           input.Quantity,
		UnitName:           input.UnitName,
		UnitPrice:          input.UnitPrice,
		GSTRate:            input.GSTRate,
		OriginalPrice:      input.OriginalPrice,
		MaxDiscountPercent: input.MaxDiscountPercent,
	}
	if err := ticket.AddGoodsLine(line); err != nil {
		return nil, err
	}

	return s.persistGoodsLines(ctx, ticket)
}

// UpdateGoodsLine changes quantity and unit price of the line at srNo.
// Price cuts below the item's discount floor are rejected.
func (s *TicketService) UpdateGoodsLine(ctx context.Context, ticketID uuid.UUID, srNo int, quantity, unitPrice float64) (*entity.Ticket, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if err := ticket.UpdateGoodsLine(srNo, quantity, unitPrice); err != nil {
		return nil, err
	}

	return s.persistGoodsLines(ctx, ticket)
}

// RemoveGoodsLine deletes the line at srNo and renumbers the rest
func (s *TicketService) RemoveGoodsLine(ctx context.Context, ticketID uuid.UUID, srNo int) (*entity.Ticket, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if err := ticket.RemoveGoodsLine(srNo); err != nil {
		return nil, err
	}

	return s.persistGoodsLines(ctx, ticket)
}

func (s *TicketService) persistGoodsLines(ctx context.Context, ticket *entity.Ticket) (*entity.Ticket, error) {
	ticket.RecomputeTotals(s.cfg.GST.HomeState)

	if err := s.goodsLineRepo.ReplaceForTicket(ctx, ticket.ID, ticket.Goods); err != nil {
		return nil, err
	}
	if err := s.ticketRepo.UpdateTotals(ctx, ticket); err != nil {
		return nil, err
	}

	return s.ticketRepo.GetWithDetails(ctx, ticket.ID)
}

// GetTaxBreakdown returns the per-rate GST table for a ticket
func (s *TicketService) GetTaxBreakdown(ctx context.Context, ticketID uuid.UUID) (*gst.Breakdown, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	breakdown := ticket.GSTBreakdown(s.cfg.GST.HomeState)
	return &breakdown, nil
}

// UpdateStatus transitions the ticket to a new workflow status, recording
// the change in the status history
func (s *TicketService) UpdateStatus(ctx context.Context, ticketID, actor uuid.UUID, status enum.TicketStatus, comment *string) (*entity.Ticket, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if err := ticket.ApplyStatus(status, actor, comment); err != nil {
		return nil, err
	}

	entry := ticket.StatusHistory[len(ticket.StatusHistory)-1]
	if err := s.eventRepo.CreateStatusEntry(ctx, &entry); err != nil {
		return nil, err
	}
	if err := s.ticketRepo.UpdateStatus(ctx, ticketID, status); err != nil {
		return nil, err
	}

	return s.ticketRepo.GetWithDetails(ctx, ticketID)
}

// TransferInput represents a ticket ownership transfer
type TransferInput struct {
	FromUserID    uuid.UUID
	ToUserID      uuid.UUID
	TransferredBy uuid.UUID
	Note          *string
}

// Transfer moves ticket ownership. FromUserID must still be the current
// assignee; a stale transfer is rejected so two concurrent handovers
// cannot both win.
func (s *TicketService) Transfer(ctx context.Context, ticketID uuid.UUID, input *TransferInput) (*entity.Ticket, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	toUser, err := s.userRepo.GetByID(ctx, input.ToUserID)
	if err != nil {
		return nil, err
	}
	if toUser == nil {
		return nil, apperror.NewNotFoundError("Target user")
	}

	if err := ticket.TransferTo(input.FromUserID, input.ToUserID, input.TransferredBy, input.Note); err != nil {
		return nil, err
	}

	entry := ticket.TransferHistory[len(ticket.TransferHistory)-1]
	if err := s.eventRepo.CreateTransferEntry(ctx, &entry); err != nil {
		return nil, err
	}

	ticket.LogAssignment(input.ToUserID, input.TransferredBy, "transfer")
	logEntry := ticket.AssignmentLog[len(ticket.AssignmentLog)-1]
	if err := s.eventRepo.CreateAssignmentEntry(ctx, &logEntry); err != nil {
		return nil, err
	}

	if err := s.ticketRepo.UpdateAssignee(ctx, ticketID, input.ToUserID); err != nil {
		return nil, err
	}

	// Notify the new assignee; a mail failure must not fail the transfer.
	if s.emailService != nil {
		if err := s.emailService.SendTicketTransferEmail(toUser.Email, ticket.TicketNo, ticket.QuotationNo); err != nil {
			log.Printf("Warning: failed to send transfer notification for %s: %v", ticket.TicketNo, err)
		}
	}

	return s.ticketRepo.GetWithDetails(ctx, ticketID)
}

// PaymentInput represents money received against a ticket
type PaymentInput struct {
	Amount      float64
	PaymentDate time.Time
	Reference   *string
	RecordedBy  uuid.UUID
}

// RecordPayment appends a payment and returns the refreshed ticket.
// Overpayment is allowed; the outstanding balance simply goes negative.
func (s *TicketService) RecordPayment(ctx context.Context, ticketID uuid.UUID, input *PaymentInput) (*entity.Ticket, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if err := ticket.RecordPayment(input.Amount, input.PaymentDate, input.Reference, input.RecordedBy); err != nil {
		return nil, err
	}

	payment := ticket.Payments[len(ticket.Payments)-1]
	if err := s.paymentRepo.Create(ctx, &payment); err != nil {
		return nil, err
	}

	return s.ticketRepo.GetWithDetails(ctx, ticketID)
}

// TicketHistory bundles the ticket's append-only audit trails.
type TicketHistory struct {
	StatusHistory   []entity.StatusHistoryEntry   `json:"status_history"`
	TransferHistory []entity.TransferHistoryEntry `json:"transfer_history"`
	AssignmentLog   []entity.AssignmentLogEntry   `json:"assignment_log"`
}

// GetHistory returns the status, transfer and assignment trails for a ticket
func (s *TicketService) GetHistory(ctx context.Context, ticketID uuid.UUID) (*TicketHistory, error) {
	if _, err := s.GetTicket(ctx, ticketID); err != nil {
		return nil, err
	}

	statusHistory, err := s.eventRepo.GetStatusHistory(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	transferHistory, err := s.eventRepo.GetTransferHistory(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	assignmentLog, err := s.eventRepo.GetAssignmentLog(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	return &TicketHistory{
		StatusHistory:   statusHistory,
		TransferHistory: transferHistory,
		AssignmentLog:   assignmentLog,
	}, nil
}

// PaymentSummary lists a ticket's payments with the running totals.
type PaymentSummary struct {
	Payments      []entity.Payment `json:"payments"`
	TotalReceived float64          `json:"total_received"`
	Outstanding   float64          `json:"outstanding"`
}

// ListPayments returns the payments recorded against a ticket
func (s *TicketService) ListPayments(ctx context.Context, ticketID uuid.UUID) (*PaymentSummary, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.GetByTicketID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	received, err := s.paymentRepo.SumByTicketID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	return &PaymentSummary{
		Payments:      payments,
		TotalReceived: received,
		Outstanding:   ticket.FinalRoundedAmount - received,
	}, nil
}

// AttachDocument stores an uploaded file in the ticket's slot for docType.
// Single-slot types replace the previous file; "other" appends.
func (s *TicketService) AttachDocument(ctx context.Context, ticketID uuid.UUID, docType enum.DocumentType, path, originalName string, actor uuid.UUID) (*entity.Ticket, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if err := ticket.AttachDocument(docType, path, originalName, actor); err != nil {
		return nil, err
	}

	if docType.IsSingleSlot() {
		existing, err := s.documentRepo.GetByTicketAndType(ctx, ticketID, docType)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			oldPath := existing.Path
			existing.Path = path
			existing.OriginalName = originalName
			existing.UploadedBy = actor
			existing.UploadedAt = time.Now().UTC()
			if err := s.documentRepo.Update(ctx, existing); err != nil {
				return nil, err
			}
			if oldPath != path {
				if err := os.Remove(oldPath); err != nil {
					log.Printf("Warning: failed to remove replaced document %s: %v", oldPath, err)
				}
			}
			return s.ticketRepo.GetWithDetails(ctx, ticketID)
		}
	}

	slot := ticket.Documents[len(ticket.Documents)-1]
	if err := s.documentRepo.Create(ctx, &slot); err != nil {
		return nil, err
	}

	return s.ticketRepo.GetWithDetails(ctx, ticketID)
}

// RemoveDocument clears a document slot and deletes the stored file
func (s *TicketService) RemoveDocument(ctx context.Context, ticketID uuid.UUID, docType enum.DocumentType, documentID *uuid.UUID) error {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return err
	}

	var target *entity.DocumentSlot
	if docType.IsSingleSlot() {
		target = ticket.Document(docType)
	} else if documentID != nil {
		for i := range ticket.Documents {
			if ticket.Documents[i].Type == docType && ticket.Documents[i].ID == *documentID {
				target = &ticket.Documents[i]
				break
			}
		}
	}

	// Runs the same validation the persistence below relies on.
	if err := ticket.RemoveDocument(docType, documentID); err != nil {
		return err
	}

	if err := s.documentRepo.Delete(ctx, target.ID); err != nil {
		return err
	}
	if err := os.Remove(target.Path); err != nil {
		log.Printf("Warning: failed to remove document file %s: %v", target.Path, err)
	}
	return nil
}

// GetApproachingDeadline returns open tickets due within warningDays
func (s *TicketService) GetApproachingDeadline(ctx context.Context, userID uuid.UUID, warningDays int, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Ticket], error) {
	cutoff := time.Now().AddDate(0, 0, warningDays)
	tickets, total, err := s.ticketRepo.GetApproachingDeadline(ctx, userID, cutoff, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(tickets, pag), nil
}
