package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/maheshwarig/ticketflow-api/internal/domain/entity"
	"github.com/maheshwarig/ticketflow-api/internal/domain/enum"
	domainRepo "github.com/maheshwarig/ticketflow-api/internal/domain/repository"
	"github.com/maheshwarig/ticketflow-api/pkg/pagination"
	"gorm.io/gorm"
)

type ticketRepository struct {
	db *gorm.DB
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *gorm.DB) domainRepo.TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *entity.Ticket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

func (r *ticketRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Ticket, error) {
	var ticket entity.Ticket
	err := r.db.WithContext(ctx).
		Preload("Company").
		First(&ticket, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ticket, err
}

func (r *ticketRepository) GetByTicketNo(ctx context.Context, ticketNo string) (*entity.Ticket, error) {
	var ticket entity.Ticket
	err := r.db.WithContext(ctx).First(&ticket, "ticket_no = ?", ticketNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ticket, err
}

func (r *ticketRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Ticket, error) {
	var ticket entity.Ticket
	err := r.db.WithContext(ctx).
		Preload("Company").
		Preload("Goods", func(db *gorm.DB) *gorm.DB {
			return db.Order("sr_no ASC")
		}).
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("changed_at ASC")
		}).
		Preload("TransferHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("transferred_at ASC")
		}).
		Preload("AssignmentLog", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_date ASC")
		}).
		Preload("Documents", func(db *gorm.DB) *gorm.DB {
			return db.Order("uploaded_at ASC")
		}).
		First(&ticket, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ticket, err
}

func (r *ticketRepository) Update(ctx context.Context, ticket *entity.Ticket) error {
	return r.db.WithContext(ctx).Save(ticket).Error
}

func (r *ticketRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Ticket{}, "id = ?", id).Error
}

func (r *ticketRepository) List(ctx context.Context, userID uuid.UUID, params *domainRepo.TicketFilterParams) ([]entity.Ticket, int64, error) {
	var tickets []entity.Ticket
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Ticket{})
	if !params.SkipUserFilter && userID != uuid.Nil {
		query = query.Where("current_assignee = ?", userID)
	}

	if params.Search != "" {
		query = query.Where("ticket_no ILIKE ? OR quotation_no ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.CompanyID != nil {
		query = query.Where("company_id = ?", *params.CompanyID)
	}

	if params.AssigneeID != nil {
		query = query.Where("current_assignee = ?", *params.AssigneeID)
	}

	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Sorting
	sortBy := "created_at"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder != "" && (params.SortOrder == "ASC" || params.SortOrder == "asc") {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Company").
		Order(sortBy + " " + sortOrder).
		Find(&tickets).Error

	return tickets, total, err
}

// ListWithCursor returns tickets using cursor-based pagination
func (r *ticketRepository) ListWithCursor(ctx context.Context, userID uuid.UUID, params *domainRepo.TicketCursorFilterParams) ([]entity.Ticket, error) {
	var tickets []entity.Ticket

	params.Cursor.Validate()
	query := r.db.WithContext(ctx).Model(&entity.Ticket{})
	if !params.SkipUserFilter {
		query = query.Where("current_assignee = ?", userID)
	}

	if params.Search != "" {
		query = query.Where("ticket_no ILIKE ? OR quotation_no ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.CompanyID != nil {
		query = query.Where("company_id = ?", *params.CompanyID)
	}

	if params.AssigneeID != nil {
		query = query.Where("current_assignee = ?", *params.AssigneeID)
	}

	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	cursor, err := params.Cursor.DecodeCursor()
	if err != nil {
		return nil, err
	}

	if cursor != nil {
		if params.Cursor.Direction == pagination.CursorDirectionNext {
			query = query.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
		} else {
			query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
		}
	}

	err = query.Limit(params.Cursor.Limit + 1).
		Preload("Company").
		Order("created_at ASC, id ASC").
		Find(&tickets).Error

	return tickets, err
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.TicketStatus) error {
	return r.db.WithContext(ctx).Model(&entity.Ticket{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *ticketRepository) UpdateTotals(ctx context.Context, ticket *entity.Ticket) error {
	return r.db.WithContext(ctx).Model(&entity.Ticket{}).
		Where("id = ?", ticket.ID).
		Updates(map[string]interface{}{
			"total_quantity":       ticket.TotalQuantity,
			"total_amount":         ticket.TotalAmount,
			"total_cgst_amount":    ticket.TotalCGSTAmount,
			"total_sgst_amount":    ticket.TotalSGSTAmount,
			"total_igst_amount":    ticket.TotalIGSTAmount,
			"final_gst_amount":     ticket.FinalGSTAmount,
			"grand_total":          ticket.GrandTotal,
			"round_off":            ticket.RoundOff,
			"final_rounded_amount": ticket.FinalRoundedAmount,
		}).Error
}

func (r *ticketRepository) UpdateAssignee(ctx context.Context, id uuid.UUID, assignee uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.Ticket{}).
		Where("id = ?", id).
		Update("current_assignee", assignee).Error
}

func (r *ticketRepository) GetApproachingDeadline(ctx context.Context, userID uuid.UUID, cutoff time.Time, params *pagination.PaginationParams) ([]entity.Ticket, int64, error) {
	var tickets []entity.Ticket
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Ticket{}).
		Where("status <> ?", enum.TicketStatusClosed).
		Where("deadline <= ?", cutoff)
	if userID != uuid.Nil {
		query = query.Where("current_assignee = ?", userID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Company").
		Order("deadline ASC").
		Find(&tickets).Error

	return tickets, total, err
}

func (r *ticketRepository) GetNextTicketNumber(ctx context.Context) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Ticket{}).Unscoped().Count(&count).Error
	return int(count) + 1, err
}

type goodsLineRepository struct {
	db *gorm.DB
}

// NewGoodsLineRepository creates a new goods line repository
func NewGoodsLineRepository(db *gorm.DB) domainRepo.GoodsLineRepository {
	return &goodsLineRepository{db: db}
}

func (r *goodsLineRepository) Create(ctx context.Context, line *entity.GoodsLineItem) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *goodsLineRepository) CreateBatch(ctx context.Context, lines []entity.GoodsLineItem) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&lines).Error
}

func (r *goodsLineRepository) GetByTicketID(ctx context.Context, ticketID uuid.UUID) ([]entity.GoodsLineItem, error) {
	var lines []entity.GoodsLineItem
	err := r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("sr_no ASC").
		Find(&lines).Error
	return lines, err
}

func (r *goodsLineRepository) Update(ctx context.Context, line *entity.GoodsLineItem) error {
	return r.db.WithContext(ctx).Save(line).Error
}

func (r *goodsLineRepository) ReplaceForTicket(ctx context.Context, ticketID uuid.UUID, lines []entity.GoodsLineItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Delete(&entity.GoodsLineItem{}, "ticket_id = ?", ticketID).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		return tx.Create(&lines).Error
	})
}

func (r *goodsLineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.GoodsLineItem{}, "id = ?", id).Error
}

type ticketEventRepository struct {
	db *gorm.DB
}

// NewTicketEventRepository creates a new ticket event repository
func NewTicketEventRepository(db *gorm.DB) domainRepo.TicketEventRepository {
	return &ticketEventRepository{db: db}
}

func (r *ticketEventRepository) CreateStatusEntry(ctx context.Context, entry *entity.StatusHistoryEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *ticketEventRepository) CreateTransferEntry(ctx context.Context, entry *entity.TransferHistoryEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *ticketEventRepository) CreateAssignmentEntry(ctx context.Context, entry *entity.AssignmentLogEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *ticketEventRepository) GetStatusHistory(ctx context.Context, ticketID uuid.UUID) ([]entity.StatusHistoryEntry, error) {
	var entries []entity.StatusHistoryEntry
	err := r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("changed_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *ticketEventRepository) GetTransferHistory(ctx context.Context, ticketID uuid.UUID) ([]entity.TransferHistoryEntry, error) {
	var entries []entity.TransferHistoryEntry
	err := r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("transferred_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *ticketEventRepository) GetAssignmentLog(ctx context.Context, ticketID uuid.UUID) ([]entity.AssignmentLogEntry, error) {
	var entries []entity.AssignmentLogEntry
	err := r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) GetByTicketID(ctx context.Context, ticketID uuid.UUID) ([]entity.Payment, error) {
	var payments []entity.Payment
	err := r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("payment_date ASC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) SumByTicketID(ctx context.Context, ticketID uuid.UUID) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&entity.Payment{}).
		Where("ticket_id = ?", ticketID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

type documentSlotRepository struct {
	db *gorm.DB
}

// NewDocumentSlotRepository creates a new document slot repository
func NewDocumentSlotRepository(db *gorm.DB) domainRepo.DocumentSlotRepository {
	return &documentSlotRepository{db: db}
}

func (r *documentSlotRepository) Create(ctx context.Context, slot *entity.DocumentSlot) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *documentSlotRepository) Update(ctx context.Context, slot *entity.DocumentSlot) error {
	return r.db.WithContext(ctx).Save(slot).Error
}

func (r *documentSlotRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.DocumentSlot, error) {
	var slot entity.DocumentSlot
	err := r.db.WithContext(ctx).First(&slot, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &slot, err
}

func (r *documentSlotRepository) GetByTicketID(ctx context.Context, ticketID uuid.UUID) ([]entity.DocumentSlot, error) {
	var slots []entity.DocumentSlot
	err := r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("uploaded_at ASC").
		Find(&slots).Error
	return slots, err
}

func (r *documentSlotRepository) GetByTicketAndType(ctx context.Context, ticketID uuid.UUID, docType enum.DocumentType) (*entity.DocumentSlot, error) {
	var slot entity.DocumentSlot
	err := r.db.WithContext(ctx).
		First(&slot, "ticket_id = ? AND type = ?", ticketID, docType).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &slot, err
}

func (r *documentSlotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.DocumentSlot{}, "id = ?", id).Error
}
