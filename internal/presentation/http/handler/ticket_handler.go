package handler

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/maheshwarig/ticketflow-api/internal/application/service"
	"github.com/maheshwarig/ticketflow-api/internal/config"
	"github.com/maheshwarig/ticketflow-api/internal/domain/enum"
	"github.com/maheshwarig/ticketflow-api/internal/domain/repository"
	"github.com/maheshwarig/ticketflow-api/internal/presentation/http/dto/response"
	"github.com/maheshwarig/ticketflow-api/pkg/pagination"
)

// TicketHandler handles ticket lifecycle HTTP requests
type TicketHandler struct {
	ticketService *service.TicketService
	cfg           *config.Config
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(ticketService *service.TicketService, cfg *config.Config) *TicketHandler {
	return &TicketHandler{ticketService: ticketService, cfg: cfg}
}

// TicketFilterRequest represents ticket filter parameters
type TicketFilterRequest struct {
	Search     string `form:"search"`
	Status     string `form:"status"`
	CompanyID  string `form:"company_id"`
	AssigneeID string `form:"assignee_id"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
	Limit      int    `form:"limit"` // For cursor-based pagination
}

// List handles listing tickets (supports both page-based and cursor-based pagination)
func (h *TicketHandler) List(c *gin.Context) {
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

	var filter TicketFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.TicketFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:         filter.Search,
		SortBy:         filter.SortBy,
		SortOrder:      filter.SortOrder,
		SkipUserFilter: isSuperAdmin,
	}
	if !h.applyTicketFilters(c, &filter, params, nil) {
		return
	}

	result, err := h.ticketService.ListTickets(c.Request.Context(), *userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Tickets retrieved successfully", result)
}

// listWithCursor handles listing tickets with cursor-based pagination
func (h *TicketHandler) listWithCursor(c *gin.Context, userID uuid.UUID, isSuperAdmin bool) {
	var filter TicketFilterRequest
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

	params := &repository.TicketCursorFilterParams{
		Cursor: &pagination.CursorParams{
			Cursor:    cursor,
			Direction: pagination.CursorDirection(direction),
			Limit:     limit,
		},
		Search:         filter.Search,
		SkipUserFilter: isSuperAdmin,
	}
	if !h.applyTicketFilters(c, &filter, nil, params) {
		return
	}

	result, err := h.ticketService.ListTicketsWithCursor(c.Request.Context(), userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, 200, "Tickets retrieved successfully", result)
}

// applyTicketFilters parses the shared status/company/assignee/date filters
// into whichever params struct is non-nil. Returns false after writing an
// error response when a filter value is malformed.
func (h *TicketHandler) applyTicketFilters(c *gin.Context, filter *TicketFilterRequest, pageParams *repository.TicketFilterParams, cursorParams *repository.TicketCursorFilterParams) bool {
	var status *enum.TicketStatus
	if filter.Status != "" {
		parsed, ok := enum.ParseTicketStatus(filter.Status)
		if !ok {
			response.BadRequest(c, "Unknown ticket status: "+filter.Status)
			return false
		}
		status = &parsed
	}

	var companyID *uuid.UUID
	if filter.CompanyID != "" {
		parsed, err := uuid.Parse(filter.CompanyID)
		if err != nil {
			response.BadRequest(c, "Invalid company ID")
			return false
		}
		companyID = &parsed
	}

	var assigneeID *uuid.UUID
	if filter.AssigneeID != "" {
		parsed, err := uuid.Parse(filter.AssigneeID)
		if err != nil {
			response.BadRequest(c, "Invalid assignee ID")
			return false
		}
		assigneeID = &parsed
	}

	var startDate, endDate *time.Time
	if filter.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", filter.StartDate)
		if err != nil {
			response.BadRequest(c, "Invalid start_date format. Use YYYY-MM-DD")
			return false
		}
		startDate = &parsed
	}
	if filter.EndDate != "" {
		parsed, err := time.Parse("2006-01-02", filter.EndDate)
		if err != nil {
			response.BadRequest(c, "Invalid end_date format. Use YYYY-MM-DD")
			return false
		}
		endDate = &parsed
	}

	if pageParams != nil {
		pageParams.Status = status
		pageParams.CompanyID = companyID
		pageParams.AssigneeID = assigneeID
		pageParams.StartDate = startDate
		pageParams.EndDate = endDate
	}
	if cursorParams != nil {
		cursorParams.Status = status
		cursorParams.CompanyID = companyID
		cursorParams.AssigneeID = assigneeID
		cursorParams.StartDate = startDate
		cursorParams.EndDate = endDate
	}
	return true
}

// Get handles getting a single ticket with its full detail
func (h *TicketHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid ticket ID")
		return
	}

	ticket, err := h.ticketService.GetTicket(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Ticket retrieved successfully", ticket)
}

// Create handles converting an accepted quotation into a ticket
func (h *TicketHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		QuotationID string  `json:"quotation_id" binding:"required"`
		AssigneeID  string  `json:"assignee_id" binding:"required"`
		Deadline    *string `json:"deadline"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	quotationID, err := uuid.Parse(req.QuotationID)
	if err != nil {
		response.BadRequest(c, "Invalid quotation ID")
		return
	}
	assigneeID, err := uuid.Parse(req.AssigneeID)
	if err != nil {
		response.BadRequest(c, "Invalid assignee ID")
		return
	}

	var deadline *time.Time
	if req.Deadline != nil && *req.Deadline != "" {
		parsed, err := time.Parse("2006-01-02", *req.Deadline)
		if err != nil {
			response.BadRequest(c, "Invalid deadline format. Use YYYY-MM-DD")
			return
		}
		deadline = &parsed
	}

	ticket, err := h.ticketService.CreateFromQuotation(c.Request.Context(), &service.CreateTicketInput{
		UserID:      *userID,
		QuotationID: quotationID,
		AssigneeID:  assigneeID,
		Deadline:    deadline,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Ticket created successfully", ticket)
}

// GoodsLineRequest represents a goods line being added to a ticket
type GoodsLineRequest struct {
	ItemID             *string `json:"item_id"`
	Description        string  `json:"description" binding:"required"`
	HSNCode            string  `json:"hsn_code"`
	Quantity           float64 `json:"quantity" binding:"required,gt=0"`
	UnitName           string  `json:"unit_name"`
	UnitPrice          float64 `json:"unit_price" binding:"min=0"`
	GSTRate            float64 `json:"gst_rate" binding:"min=0,max=100"`
	OriginalPrice      float64 `json:"original_price"`
	MaxDiscountPercent float64 `json:"max_discount_percent" binding:"min=0,max=100"`
}

// AddGoodsLine handles appending a goods line to a ticket
func (h *TicketHandler) AddGoodsLine(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid ticket ID")
		return
	}

	var req GoodsLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.GoodsLineInput{
		Description:        req.Description,
		HSNCode:            req.HSNCode,
		Quantity:           req.Quantity,
		UnitName:           req.UnitName,
		UnitPrice:          req.UnitPrice,
		GSTRate:            req.GSTRate,
		OriginalPrice:      req.OriginalPrice,
		MaxDiscountPercent: req.MaxDiscountPercent,
	}
	if req.ItemID != nil && *req.ItemID != "" {
		itemID, err := uuid.Parse(*req.ItemID)
		if err != nil {
			response.BadRequest(c, "Invalid item ID")
			return
		}
		input.ItemID = &itemID
	}

	ticket, err := h.ticketService.AddGoodsLine(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Goods line added successfully", ticket)
}

// UpdateGoodsLine handles changing quantity or price of an existing line
func (h *TicketHandler) UpdateGoodsLine(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid ticket ID")
		return
	}

	srNo, err := parsePositiveInt(c.Param("sr_no"))
	if err != nil {
		response.BadRequest(c, "Invalid serial number")
		return
	}

	var req struct {
		Quantity  float64 `json:"quantity" binding:"required,gt=0"`
		UnitPrice float64 `json:"unit_price" binding:"min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	ticket, err := h.ticketService.UpdateGoodsLine(c.Request.Context(), id, srNo, req.Quantity, req.UnitPrice)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Goods line updated successfully", ticket)
}

// RemoveGoodsLine handles removing a goods line from a ticket
func (h *TicketHandler) RemoveGoodsLine(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid ticket ID")
		return
	}

	srNo, err := parsePositiveInt(c.Param("sr_no"))
	if err != nil {
		response.BadRequest(c, "Invalid serial number")
		return
	}

	ticket, err := h.ticketService.RemoveGoodsLine(c.Request.Context(), id, srNo)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Goods line removed successfully", ticket)
}

// GetTaxBreakdown handles returning the GST breakdown for a ticket
func (h *TicketHandler) GetTaxBreakdown(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid ticket ID")
		return
	}

	breakdown, err := h.ticketService.GetTaxBreakdown(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tax breakdown computed successfully", breakdown)
}

// UpdateStatus handles moving a ticket through its workflow
func (h *TicketHandler) UpdateStatus(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid ticket ID")
		return
	}

	var req struct {
		Status  string  `json:"status" binding:"required"`
		Comment *string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	status, ok := enum.ParseTicketStatus(req.Status)
	if !ok {
		response.BadRequest(c, "Unknown ticket status: "+req.Status)
		return
	}

	ticket, err := h.ticketService.UpdateStatus(c.Request.Context(), id, *userID, status, req.Comment)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Ticket status updated successfully", ticket)
}

// Transfer handles handing ticket ownership to another user
func (h *TicketHandler) Transfer(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid ticket ID")
		return
	}

	var req struct {
		FromUserID string  `json:"from_user_id" binding:"required"`
		ToUserID   string  `json:"to_user_id" binding:"required"`
		Note       *string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	fromUserID, err := uuid.Parse(req.FromUserID)
	if err != nil {
		response.BadRequest(c, "Invalid from_user_id")
		return
	}
	toUserID, err := uuid.Parse(req.ToUserID)
	if err != nil {
		response.BadRequest(c, "Invalid to_user_id")
		return
	}

	ticket, err := h.ticketService.Transfer(c.Request.Context(), id, &service.TransferInput{
		FromUserID:    fromUserID,
		ToUserID:      toUserID,
		TransferredBy: *userID,
		Note:          req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Ticket transferred successfully", ticket)
}

// RecordPayment handles recording money received against a ticket
func (h *TicketHandler) RecordPayment(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid ticket ID")
		return
	}

	var req struct {
		Amount      float64 `json:"amount" binding:"required,gt=0"`
		PaymentDate string  `json:"payment_date" binding:"required"`
		Reference   *string `json:"reference"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	paymentDate, err := time.Parse("2006-01-02", req.PaymentDate)
	if err != nil {
		response.BadRequest(c, "Invalid payment_date format. Use YYYY-MM-DD")
		return
	}

	ticket, err := h.ticketService.RecordPayment(c.Request.Context(), id, &service.PaymentInput{
		Amount:      req.Amount,
		PaymentDate: paymentDate,
		Reference:   req.Reference,
		RecordedBy:  *userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment recorded successfully", ticket)
}

// GetHistory returns the status, transfer and assignment trails for a ticket
func (h *TicketHandler) GetHistory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid ticket ID")
		return
	}

	history, err := h.ticketService.GetHistory(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Ticket history retrieved successfully", history)
}

// ListPayments returns the payments recorded against a ticket
func (h *TicketHandler) ListPayments(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid ticket ID")
		return
	}

	summary, err := h.ticketService.ListPayments(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payments retrieved successfully", summary)
}

// UploadDocument handles a multipart document upload into a ticket slot
func (h *TicketHandler) UploadDocument(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid ticket ID")
		return
	}

	docType := enum.DocumentType(c.PostForm("type"))
	if !docType.IsValid() {
		response.BadRequest(c, "Unknown document type")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Document file is required")
		return
	}
	if h.cfg.Storage.UploadMaxSize > 0 && file.Size > h.cfg.Storage.UploadMaxSize {
		response.BadRequest(c, "Uploaded file exceeds the maximum allowed size")
		return
	}

	dir := filepath.Join(h.cfg.Storage.Path, "tickets", id.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		response.Error(c, err)
		return
	}

	// Stored name is unique per upload; the original name is kept on the slot.
	storedName := fmt.Sprintf("%s-%s%s", docType, uuid.New().String()[:8], filepath.Ext(file.Filename))
	dst := filepath.Join(dir, storedName)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		response.Error(c, err)
		return
	}

	ticket, err := h.ticketService.AttachDocument(c.Request.Context(), id, docType, dst, file.Filename, *userID)
	if err != nil {
		// The slot rejected the file; don't leave it on disk.
		os.Remove(dst)
		response.Error(c, err)
		return
	}

	response.Created(c, "Document uploaded successfully", ticket)
}

// DeleteDocument handles clearing a document slot
func (h *TicketHandler) DeleteDocument(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid ticket ID")
		return
	}

	docType := enum.DocumentType(c.Param("type"))
	if !docType.IsValid() {
		response.BadRequest(c, "Unknown document type")
		return
	}

	var documentID *uuid.UUID
	if d := c.Query("document_id"); d != "" {
		parsed, err := uuid.Parse(d)
		if err != nil {
			response.BadRequest(c, "Invalid document ID")
			return
		}
		documentID = &parsed
	}

	if err := h.ticketService.RemoveDocument(c.Request.Context(), id, docType, documentID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// GetApproachingDeadline handles listing open tickets due soon
func (h *TicketHandler) GetApproachingDeadline(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	warningDays := h.cfg.Ticket.DeadlineDays
	if d := c.Query("days"); d != "" {
		if parsed, err := parsePositiveInt(d); err == nil {
			warningDays = parsed
		}
	}

	page := 1
	perPage := 15
	if p := c.Query("page"); p != "" {
		if parsed, err := parsePositiveInt(p); err == nil {
			page = parsed
		}
	}
	if pp := c.Query("per_page"); pp != "" {
		if parsed, err := parsePositiveInt(pp); err == nil {
			perPage = parsed
		}
	}

	scopeID := *userID
	if IsSuperAdmin(c) {
		scopeID = uuid.Nil
	}

	result, err := h.ticketService.GetApproachingDeadline(c.Request.Context(), scopeID, warningDays, &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Tickets retrieved successfully", result)
}
