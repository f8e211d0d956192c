package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/maheshwarig/ticketflow-api/internal/application/service"
	"github.com/maheshwarig/ticketflow-api/internal/domain/repository"
	"github.com/maheshwarig/ticketflow-api/internal/presentation/http/dto/request"
	"github.com/maheshwarig/ticketflow-api/internal/presentation/http/dto/response"
	"github.com/maheshwarig/ticketflow-api/pkg/pagination"
)

// ItemHandler handles item catalog HTTP requests
type ItemHandler struct {
	itemService *service.ItemService
}

// NewItemHandler creates a new item handler
func NewItemHandler(itemService *service.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// List handles listing items (supports both page-based and cursor-based pagination)
func (h *ItemHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	isSuperAdmin := IsSuperAdmin(c)

	// Check if cursor-based pagination is requested
	if cursor := c.Query("cursor"); cursor != "" || c.Query("limit") != "" {
		h.listWithCursor(c, *userID, isSuperAdmin)
		return
	}

	var filter request.ItemFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.ItemFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:         filter.Search,
		HSNCode:        filter.HSNCode,
		LowStock:       filter.LowStock,
		SortBy:         filter.SortBy,
		SortOrder:      filter.SortOrder,
		SkipUserFilter: isSuperAdmin,
	}

	result, err := h.itemService.ListItems(c.Request.Context(), *userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Items retrieved successfully", result)
}

// listWithCursor handles listing items with cursor-based pagination
func (h *ItemHandler) listWithCursor(c *gin.Context, userID uuid.UUID, isSuperAdmin bool) {
	var filter request.ItemFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	limit := 15
	if filter.Limit > 0 {
		limit = filter.Limit
	}
	cursor := c.Query("cursor")
	direction := c.DefaultQuery("direction", "next")

	params := &repository.ItemCursorFilterParams{
		Cursor: &pagination.CursorParams{
			Cursor:    cursor,
			Direction: pagination.CursorDirection(direction),
			Limit:     limit,
		},
		Search:         filter.Search,
		HSNCode:        filter.HSNCode,
		LowStock:       filter.LowStock,
		SkipUserFilter: isSuperAdmin,
	}

	result, err := h.itemService.ListItemsWithCursor(c.Request.Context(), userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, 200, "Items retrieved successfully", result)
}

// Create handles creating an item
func (h *ItemHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	item, err := h.itemService.CreateItem(c.Request.Context(), &service.CreateItemInput{
		UserID:             *userID,
		Name:               req.Name,
		Code:               req.Code,
		HSNCode:            req.HSNCode,
		Description:        req.Description,
		Quantity:           req.Quantity,
		QuantityAlert:      req.QuantityAlert,
		BuyingPrice:        req.BuyingPrice,
		SellingPrice:       req.SellingPrice,
		GSTRate:            req.GSTRate,
		MaxDiscountPercent: req.MaxDiscountPercent,
		Units:              toUnitInputs(req.Units),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Item created successfully", item)
}

// Get handles getting a single item by slug
func (h *ItemHandler) Get(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		response.BadRequest(c, "Item slug is required")
		return
	}

	item, err := h.itemService.GetItem(c.Request.Context(), slug)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item retrieved successfully", item)
}

// Update handles updating an item
func (h *ItemHandler) Update(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	isSuperAdmin := IsSuperAdmin(c)

	slug := c.Param("slug")
	if slug == "" {
		response.BadRequest(c, "Item slug is required")
		return
	}

	var req request.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.UpdateItemInput{
		UserID:             *userID,
		ItemSlug:           slug,
		SkipUserCheck:      isSuperAdmin,
		Name:               req.Name,
		Code:               req.Code,
		HSNCode:            req.HSNCode,
		Description:        req.Description,
		Quantity:           req.Quantity,
		QuantityAlert:      req.QuantityAlert,
		BuyingPrice:        req.BuyingPrice,
		SellingPrice:       req.SellingPrice,
		GSTRate:            req.GSTRate,
		MaxDiscountPercent: req.MaxDiscountPercent,
	}
	if req.Units != nil {
		input.Units = toUnitInputs(req.Units)
	}

	item, err := h.itemService.UpdateItem(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item updated successfully", item)
}

// Delete handles deleting an item by slug
func (h *ItemHandler) Delete(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	slug := c.Param("slug")
	if slug == "" {
		response.BadRequest(c, "Item slug is required")
		return
	}

	isSuperAdmin := IsSuperAdmin(c)

	if err := h.itemService.DeleteItem(c.Request.Context(), *userID, slug, isSuperAdmin); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// GetLowStock handles getting low stock items
func (h *ItemHandler) GetLowStock(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	items, err := h.itemService.GetLowStockItems(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Low stock items retrieved successfully", items)
}

// ConvertUnit handles converting a quantity of an item between units
func (h *ItemHandler) ConvertUnit(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		response.BadRequest(c, "Item slug is required")
		return
	}

	var req struct {
		UnitName string  `json:"unit_name" binding:"required"`
		Quantity float64 `json:"quantity" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	item, err := h.itemService.GetItem(c.Request.Context(), slug)
	if err != nil {
		response.Error(c, err)
		return
	}

	conversion, err := h.itemService.ConvertUnit(c.Request.Context(), item.ID, req.UnitName, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Unit conversion computed successfully", conversion)
}

func toUnitInputs(units []request.ItemUnitRequest) []service.ItemUnitInput {
	inputs := make([]service.ItemUnitInput, len(units))
	for i, u := range units {
		inputs[i] = service.ItemUnitInput{
			Name:             u.Name,
			ConversionFactor: u.ConversionFactor,
			IsBaseUnit:       u.IsBaseUnit,
		}
	}
	return inputs
}
