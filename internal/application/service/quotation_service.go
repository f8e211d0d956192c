package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/maheshwarig/ticketflow-api/internal/config"
	"github.com/maheshwarig/ticketflow-api/internal/domain/entity"
	"github.com/maheshwarig/ticketflow-api/internal/domain/enum"
	"github.com/maheshwarig/ticketflow-api/internal/domain/repository"
	"github.com/maheshwarig/ticketflow-api/pkg/apperror"
	"github.com/maheshwarig/ticketflow-api/pkg/gst"
	"github.com/maheshwarig/ticketflow-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// QuotationService handles quotation-related operations
type QuotationService struct {
	quotationRepo       repository.QuotationRepository
	quotationDetailRepo repository.QuotationDetailRepository
	itemRepo            repository.ItemRepository
	companyRepo         repository.CompanyRepository
	cfg                 *config.Config
}

// NewQuotationService creates a new quotation service
func NewQuotationService(
	quotationRepo repository.QuotationRepository,
	quotationDetailRepo repository.QuotationDetailRepository,
	itemRepo repository.ItemRepository,
	companyRepo repository.CompanyRepository,
	cfg *config.Config,
) *QuotationService {
	return &QuotationService{
		quotationRepo:       quotationRepo,
		quotationDetailRepo: quotationDetailRepo,
		itemRepo:            itemRepo,
		companyRepo:         companyRepo,
		cfg:                 cfg,
	}
}

// QuotationItemInput represents a line item input. UnitPrice overrides the
// catalog price when set; it may not undercut the item's discount floor.
type QuotationItemInput struct {
	ItemID    uuid.UUID
	Quantity  float64
	UnitName  string
	UnitPrice *float64
}

// CreateQuotationInput represents the input for creating a quotation
type CreateQuotationInput struct {
	UserID     uuid.UUID
	CompanyID  uuid.UUID
	Date       time.Time
	ValidUntil *time.Time
	Note       *string
	Status     enum.QuotationStatus
	Items      []QuotationItemInput
}

// CreateQuotation creates a new quotation, pricing each line from the item
// catalog in the selected unit and snapshotting the company's addresses.
func (s *QuotationService) CreateQuotation(ctx context.Context, input *CreateQuotationInput) (*entity.Quotation, error) {
	company, err := s.companyRepo.GetByID(ctx, input.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, apperror.NewNotFoundError("Company")
	}

	nextNum, err := s.quotationRepo.GetNextQuotationNumber(ctx)
	if err != nil {
		return nil, err
	}

	details, err := s.buildDetails(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	quotation := &entity.Quotation{
		UserID:          input.UserID,
		CompanyID:       input.CompanyID,
		QuotationNo:     fmt.Sprintf("QT-%06d", nextNum),
		Date:            input.Date,
		ValidUntil:      input.ValidUntil,
		Status:          input.Status,
		SameAsBilling:   true,
		BillingAddress:  company.BillingAddress,
		ShippingAddress: company.ShippingAddress,
		Note:            input.Note,
	}
	applyQuotationTotals(quotation, details, s.cfg.GST.HomeState)

	if err := s.quotationRepo.Create(ctx, quotation); err != nil {
		return nil, err
	}

	for i := range details {
		details[i].QuotationID = quotation.ID
	}
	if err := s.quotationDetailRepo.CreateBatch(ctx, details); err != nil {
		return nil, err
	}

	return s.quotationRepo.GetWithDetails(ctx, quotation.ID)
}

// buildDetails prices the requested items in their selected units and
// enforces each item's discount floor on overridden prices.
func (s *QuotationService) buildDetails(ctx context.Context, items []QuotationItemInput) ([]entity.QuotationDetail, error) {
	if len(items) == 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "items", Message: "at least one item is required"},
		})
	}

	details := make([]entity.QuotationDetail, 0, len(items))
	for i, in := range items {
		if in.Quantity <= 0 {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "quantity", Message: "quantity must be greater than zero"},
			})
		}

		item, err := s.itemRepo.GetWithUnits(ctx, in.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Item %s", in.ItemID))
		}

		conv := item.ConvertUnit(in.UnitName, in.Quantity)
		unitPrice := conv.PricePerUnit
		if in.UnitPrice != nil {
			unitPrice = *in.UnitPrice
		}
		if unitPrice < 0 {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "unit_price", Message: "unit price cannot be negative"},
			})
		}

		detail := entity.QuotationDetail{
			ItemID:             &item.ID,
			SrNo:               i + 1,
			Description:        item.Name,
			HSNCode:            item.HSNCode,
			Quantity:           in.Quantity,
			UnitName:           conv.UnitName,
			UnitPrice:          unitPrice,
			GSTRate:            item.GSTRate,
			OriginalPrice:      conv.PricePerUnit,
			MaxDiscountPercent: item.MaxDiscountPercent,
		}
		detail.Amount = decimal.NewFromFloat(in.Quantity).
			Mul(decimal.NewFromFloat(unitPrice)).Round(2).InexactFloat64()

		if err := (&entity.GoodsLineItem{
			Description:        detail.Description,
			OriginalPrice:      detail.OriginalPrice,
			MaxDiscountPercent: detail.MaxDiscountPercent,
		}).ValidatePriceEdit(unitPrice); err != nil {
			return nil, err
		}

		details = append(details, detail)
	}
	return details, nil
}

// applyQuotationTotals derives the quotation's aggregate totals from its
// lines using the same tax and rounding rules tickets use.
func applyQuotationTotals(q *entity.Quotation, details []entity.QuotationDetail, homeState string) {
	lines := make([]gst.Line, 0, len(details))
	totalQty := decimal.Zero
	for i := range details {
		lines = append(lines, gst.Line{Amount: details[i].Amount, Rate: details[i].GSTRate})
		totalQty = totalQty.Add(decimal.NewFromFloat(details[i].Quantity))
	}

	breakdown := gst.Compute(lines, q.BillingAddress.State, homeState)
	total := gst.RoundInvoiceTotal(breakdown.TotalValue, breakdown.TotalTax)

	q.TotalQuantity = totalQty.InexactFloat64()
	q.TotalAmount = breakdown.TotalValue
	q.FinalGSTAmount = breakdown.TotalTax
	q.GrandTotal = total.GrandTotal
	q.RoundOff = total.RoundOff
	q.FinalRoundedAmount = total.RoundedTotal
}

// GetQuotation retrieves a quotation by ID
func (s *QuotationService) GetQuotation(ctx context.Context, id uuid.UUID) (*entity.Quotation, error) {
	quotation, err := s.quotationRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, apperror.NewNotFoundError("Quotation")
	}
	return quotation, nil
}

// ListQuotationsInput represents the input for listing quotations
type ListQuotationsInput struct {
	UserID       uuid.UUID
	IsSuperAdmin bool
	Pagination   *pagination.PaginationParams
	Search       string
	Status       *enum.QuotationStatus
	CompanyID    *uuid.UUID
}

// ListQuotations lists quotations with filtering
func (s *QuotationService) ListQuotations(ctx context.Context, input *ListQuotationsInput) (*pagination.PaginatedResult[entity.Quotation], error) {
	params := &repository.QuotationFilterParams{
		Pagination: input.Pagination,
		Search:     input.Search,
		Status:     input.Status,
		CompanyID:  input.CompanyID,
	}

	var userID uuid.UUID
	if !input.IsSuperAdmin {
		userID = input.UserID
	}

	quotations, total, err := s.quotationRepo.List(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(quotations, pag), nil
}

// UpdateQuotationInput represents the input for updating a quotation
type UpdateQuotationInput struct {
	UserID       uuid.UUID
	ID           uuid.UUID
	IsSuperAdmin bool
	Date         time.Time
	ValidUntil   *time.Time
	Note         *string
	Status       enum.QuotationStatus
	Items        []QuotationItemInput
}

// UpdateQuotation replaces the lines of a quotation and recomputes its
// totals. Converted quotations are frozen.
func (s *QuotationService) UpdateQuotation(ctx context.Context, input *UpdateQuotationInput) (*entity.Quotation, error) {
	quotation, err := s.quotationRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, apperror.NewNotFoundError("Quotation")
	}

	if !input.IsSuperAdmin && quotation.UserID != input.UserID {
		return nil, apperror.ErrForbidden
	}

	if quotation.Status == enum.QuotationStatusConverted {
		return nil, apperror.NewConflictError("Quotation has been converted and can no longer be edited")
	}

	details, err := s.buildDetails(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	quotation.Date = input.Date
	quotation.ValidUntil = input.ValidUntil
	quotation.Status = input.Status
	quotation.Note = input.Note
	applyQuotationTotals(quotation, details, s.cfg.GST.HomeState)

	if err := s.quotationRepo.Update(ctx, quotation); err != nil {
		return nil, err
	}

	if err := s.quotationDetailRepo.DeleteByQuotationID(ctx, quotation.ID); err != nil {
		return nil, err
	}
	for i := range details {
		details[i].QuotationID = quotation.ID
	}
	if err := s.quotationDetailRepo.CreateBatch(ctx, details); err != nil {
		return nil, err
	}

	return s.quotationRepo.GetWithDetails(ctx, quotation.ID)
}

// DeleteQuotation deletes a quotation
func (s *QuotationService) DeleteQuotation(ctx context.Context, userID, id uuid.UUID, isSuperAdmin bool) error {
	quotation, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if quotation == nil {
		return apperror.NewNotFoundError("Quotation")
	}

	if !isSuperAdmin && quotation.UserID != userID {
		return apperror.ErrForbidden
	}

	if quotation.Status == enum.QuotationStatusConverted {
		return apperror.NewConflictError("Quotation has been converted and can no longer be deleted")
	}

	if err := s.quotationDetailRepo.DeleteByQuotationID(ctx, id); err != nil {
		return err
	}

	return s.quotationRepo.Delete(ctx, id)
}

// UpdateQuotationStatus updates the status of a quotation. Converted is a
// terminal status reserved for ticket conversion.
func (s *QuotationService) UpdateQuotationStatus(ctx context.Context, userID, id uuid.UUID, status enum.QuotationStatus, isSuperAdmin bool) error {
	quotation, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if quotation == nil {
		return apperror.NewNotFoundError("Quotation")
	}

	if !isSuperAdmin && quotation.UserID != userID {
		return apperror.ErrForbidden
	}

	if quotation.Status == enum.QuotationStatusConverted {
		return apperror.NewConflictError("Quotation has been converted; its status is final")
	}
	if status == enum.QuotationStatusConverted {
		return apperror.NewBadRequestError("Converted is set by ticket conversion, not directly")
	}

	return s.quotationRepo.UpdateStatus(ctx, id, status)
}
