package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/maheshwarig/ticketflow-api/internal/domain/entity"
	"github.com/maheshwarig/ticketflow-api/internal/domain/repository"
	"github.com/maheshwarig/ticketflow-api/pkg/apperror"
	"github.com/maheshwarig/ticketflow-api/pkg/pagination"
	"github.com/maheshwarig/ticketflow-api/pkg/utils"
)

// ItemService handles the goods catalog: items, their unit definitions and
// unit-based pricing.
type ItemService struct {
	itemRepo     repository.ItemRepository
	itemUnitRepo repository.ItemUnitRepository
}

// NewItemService creates a new item service
func NewItemService(
	itemRepo repository.ItemRepository,
	itemUnitRepo repository.ItemUnitRepository,
) *ItemService {
	return &ItemService{
		itemRepo:     itemRepo,
		itemUnitRepo: itemUnitRepo,
	}
}

// ItemUnitInput defines one sellable unit for an item
type ItemUnitInput struct {
	Name             string
	ConversionFactor float64
	IsBaseUnit       bool
}

// CreateItemInput represents the create item input
type CreateItemInput struct {
	UserID             uuid.UUID
	Name               string
	Code               string
	HSNCode            string
	Description        *string
	Quantity           float64
	QuantityAlert      float64
	BuyingPrice        float64
	SellingPrice       float64
	GSTRate            float64
	MaxDiscountPercent float64
	Units              []ItemUnitInput
}

func validateUnits(units []ItemUnitInput) error {
	baseCount := 0
	seen := make(map[string]bool, len(units))
	for _, u := range units {
		if u.Name == "" {
			return apperror.NewValidationError([]apperror.FieldError{
				{Field: "units", Message: "unit name is required"},
			})
		}
		if seen[u.Name] {
			return apperror.NewValidationError([]apperror.FieldError{
				{Field: "units", Message: "duplicate unit name '" + u.Name + "'"},
			})
		}
		seen[u.Name] = true
		if u.ConversionFactor <= 0 {
			return apperror.NewValidationError([]apperror.FieldError{
				{Field: "units", Message: "conversion factor for '" + u.Name + "' must be greater than zero"},
			})
		}
		if u.IsBaseUnit {
			if u.ConversionFactor != 1 {
				return apperror.NewValidationError([]apperror.FieldError{
					{Field: "units", Message: "base unit '" + u.Name + "' must have a conversion factor of 1"},
				})
			}
			baseCount++
		}
	}
	if len(units) > 0 && baseCount != 1 {
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "units", Message: "exactly one unit must be marked as the base unit"},
		})
	}
	return nil
}

func buildUnits(itemID uuid.UUID, inputs []ItemUnitInput) []entity.ItemUnit {
	units := make([]entity.ItemUnit, 0, len(inputs))
	for _, u := range inputs {
		units = append(units, entity.ItemUnit{
			ItemID:           itemID,
			Name:             u.Name,
			ConversionFactor: u.ConversionFactor,
			IsBaseUnit:       u.IsBaseUnit,
		})
	}
	return units
}

// CreateItem creates a new catalog item with its unit definitions
func (s *ItemService) CreateItem(ctx context.Context, input *CreateItemInput) (*entity.Item, error) {
	code := input.Code
	if code == "" {
		code = utils.GenerateItemCode()
	}

	existingItem, err := s.itemRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existingItem != nil {
		return nil, apperror.NewConflictError("Item code already exists")
	}

	if err := validateUnits(input.Units); err != nil {
		return nil, err
	}

	item := &entity.Item{
		UserID:             input.UserID,
		Name:               input.Name,
		Slug:               utils.Slugify(input.Name),
		Code:               code,
		HSNCode:            input.HSNCode,
		Description:        input.Description,
		Quantity:           input.Quantity,
		QuantityAlert:      input.QuantityAlert,
		BuyingPrice:        input.BuyingPrice,
		SellingPrice:       input.SellingPrice,
		GSTRate:            input.GSTRate,
		MaxDiscountPercent: input.MaxDiscountPercent,
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	if len(input.Units) > 0 {
		if err := s.itemUnitRepo.CreateBatch(ctx, buildUnits(item.ID, input.Units)); err != nil {
			return nil, err
		}
	}

	return s.itemRepo.GetWithUnits(ctx, item.ID)
}

// GetItem retrieves an item by slug
func (s *ItemService) GetItem(ctx context.Context, slug string) (*entity.Item, error) {
	item, err := s.itemRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Item")
	}
	return s.itemRepo.GetWithUnits(ctx, item.ID)
}

// GetItemByID retrieves an item by ID
func (s *ItemService) GetItemByID(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	item, err := s.itemRepo.GetWithUnits(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Item")
	}
	return item, nil
}

// ListItems lists items with filtering
func (s *ItemService) ListItems(ctx context.Context, userID uuid.UUID, params *repository.ItemFilterParams) (*pagination.PaginatedResult[entity.Item], error) {
	items, total, err := s.itemRepo.List(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(items, pag), nil
}

// ListItemsWithCursor lists items with cursor-based pagination
func (s *ItemService) ListItemsWithCursor(ctx context.Context, userID uuid.UUID, params *repository.ItemCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Item], error) {
	items, err := s.itemRepo.ListWithCursor(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor.Cursor != ""

	cursorPag, list := pagination.NewCursorPagination(items, params.Cursor.Limit,
		func(i entity.Item) string { return i.ID.String() },
		func(i entity.Item) time.Time { return i.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(list, cursorPag), nil
}

// UpdateItemInput represents the update item input
type UpdateItemInput struct {
	UserID             uuid.UUID
	ItemSlug           string
	SkipUserCheck      bool // If true (super-admin), skip ownership check
	Name               *string
	Code               *string
	HSNCode            *string
	Description        *string
	Quantity           *float64
	QuantityAlert      *float64
	BuyingPrice        *float64
	SellingPrice       *float64
	GSTRate            *float64
	MaxDiscountPercent *float64
	Units              []ItemUnitInput // nil leaves units untouched
}

// UpdateItem updates an item and, when provided, replaces its units
func (s *ItemService) UpdateItem(ctx context.Context, input *UpdateItemInput) (*entity.Item, error) {
	item, err := s.itemRepo.GetBySlug(ctx, input.ItemSlug)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Item")
	}

	if !input.SkipUserCheck && item.UserID != input.UserID {
		return nil, apperror.ErrForbidden
	}

	if input.Code != nil && *input.Code != item.Code {
		existingItem, err := s.itemRepo.GetByCode(ctx, *input.Code)
		if err != nil {
			return nil, err
		}
		if existingItem != nil && existingItem.ID != item.ID {
			return nil, apperror.NewConflictError("Item code already exists")
		}
		item.Code = *input.Code
	}

	if input.Name != nil {
		item.Name = *input.Name
		item.Slug = utils.Slugify(*input.Name)
	}
	if input.HSNCode != nil {
		item.HSNCode = *input.HSNCode
	}
	if input.Description != nil {
		item.Description = input.Description
	}
	if input.Quantity != nil {
		item.Quantity = *input.Quantity
	}
	if input.QuantityAlert != nil {
		item.QuantityAlert = *input.QuantityAlert
	}
	if input.BuyingPrice != nil {
		item.BuyingPrice = *input.BuyingPrice
	}
	if input.SellingPrice != nil {
		item.SellingPrice = *input.SellingPrice
	}
	if input.GSTRate != nil {
		item.GSTRate = *input.GSTRate
	}
	if input.MaxDiscountPercent != nil {
		item.MaxDiscountPercent = *input.MaxDiscountPercent
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	if input.Units != nil {
		if err := validateUnits(input.Units); err != nil {
			return nil, err
		}
		if err := s.itemUnitRepo.ReplaceForItem(ctx, item.ID, buildUnits(item.ID, input.Units)); err != nil {
			return nil, err
		}
	}

	return s.itemRepo.GetWithUnits(ctx, item.ID)
}

// DeleteItem deletes an item
// If skipOwnerCheck is true (e.g., for super-admins), ownership check is bypassed
func (s *ItemService) DeleteItem(ctx context.Context, userID uuid.UUID, slug string, skipOwnerCheck bool) error {
	item, err := s.itemRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if item == nil {
		return apperror.NewNotFoundError("Item")
	}

	if !skipOwnerCheck && item.UserID != userID {
		return apperror.ErrForbidden
	}

	if err := s.itemUnitRepo.DeleteByItemID(ctx, item.ID); err != nil {
		return err
	}

	return s.itemRepo.Delete(ctx, item.ID)
}

// GetLowStockItems returns items at or below their alert quantity
func (s *ItemService) GetLowStockItems(ctx context.Context, userID uuid.UUID) ([]entity.Item, error) {
	return s.itemRepo.GetLowStock(ctx, userID)
}

// ConvertUnit prices a quantity of an item in the named unit. Unknown unit
// names fall back to the base unit; the result flags the substitution.
func (s *ItemService) ConvertUnit(ctx context.Context, itemID uuid.UUID, unitName string, quantity float64) (*entity.UnitConversion, error) {
	item, err := s.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "quantity", Message: "quantity must be greater than zero"},
		})
	}

	conv := item.ConvertUnit(unitName, quantity)
	return &conv, nil
}
