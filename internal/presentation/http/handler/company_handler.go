package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/maheshwarig/ticketflow-api/internal/application/service"
	"github.com/maheshwarig/ticketflow-api/internal/presentation/http/dto/response"
	"github.com/maheshwarig/ticketflow-api/pkg/pagination"
)

// CompanyHandler handles client company HTTP requests
type CompanyHandler struct {
	companyService *service.CompanyService
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(companyService *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// AddressRequest represents a postal address in a request body
type AddressRequest struct {
	Line1   string  `json:"line1" binding:"required"`
	Line2   *string `json:"line2"`
	City    string  `json:"city" binding:"required"`
	State   string  `json:"state" binding:"required"`
	PinCode string  `json:"pin_code" binding:"required"`
}

func (r *AddressRequest) toInput() service.AddressInput {
	return service.AddressInput{
		Line1:   r.Line1,
		Line2:   r.Line2,
		City:    r.City,
		State:   r.State,
		PinCode: r.PinCode,
	}
}

// CreateCompanyRequest represents the create company request body
type CreateCompanyRequest struct {
	Name            string          `json:"name" binding:"required,min=2,max=255"`
	GSTIN           *string         `json:"gstin" binding:"omitempty,len=15"`
	Email           *string         `json:"email" binding:"omitempty,email"`
	Phone           *string         `json:"phone"`
	ContactPerson   *string         `json:"contact_person"`
	BillingAddress  AddressRequest  `json:"billing_address" binding:"required"`
	ShippingAddress *AddressRequest `json:"shipping_address"`
}

// UpdateCompanyRequest represents the update company request body
type UpdateCompanyRequest struct {
	Name            *string         `json:"name" binding:"omitempty,min=2,max=255"`
	GSTIN           *string         `json:"gstin" binding:"omitempty,len=15"`
	Email           *string         `json:"email" binding:"omitempty,email"`
	Phone           *string         `json:"phone"`
	ContactPerson   *string         `json:"contact_person"`
	BillingAddress  *AddressRequest `json:"billing_address"`
	ShippingAddress *AddressRequest `json:"shipping_address"`
}

// List handles listing companies (supports both page-based and cursor-based pagination)
func (h *CompanyHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	isSuperAdmin := IsSuperAdmin(c)
	search := c.Query("search")

	// Check if cursor-based pagination is requested
	if cursor := c.Query("cursor"); cursor != "" || c.Query("limit") != "" {
		limit := 15
		if l := c.Query("limit"); l != "" {
			if parsed, err := parsePositiveInt(l); err == nil {
				limit = parsed
			}
		}
		direction := c.DefaultQuery("direction", "next")

		params := &pagination.CursorParams{
			Cursor:    cursor,
			Direction: pagination.CursorDirection(direction),
			Limit:     limit,
		}

		result, err := h.companyService.ListCompaniesWithCursor(c.Request.Context(), *userID, params, search, isSuperAdmin)
		if err != nil {
			response.Error(c, err)
			return
		}

		response.Success(c, 200, "Companies retrieved successfully", result)
		return
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

	result, err := h.companyService.ListCompanies(c.Request.Context(), *userID, &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	}, search, isSuperAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Companies retrieved successfully", result)
}

// Get handles getting a single company
func (h *CompanyHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid company ID")
		return
	}

	company, err := h.companyService.GetCompany(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Company retrieved successfully", company)
}

// Create handles creating a company
func (h *CompanyHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.CreateCompanyInput{
		UserID:         *userID,
		Name:           req.Name,
		GSTIN:          req.GSTIN,
		Email:          req.Email,
		Phone:          req.Phone,
		ContactPerson:  req.ContactPerson,
		BillingAddress: req.BillingAddress.toInput(),
	}
	if req.ShippingAddress != nil {
		shipping := req.ShippingAddress.toInput()
		input.ShippingAddress = &shipping
	}

	company, err := h.companyService.CreateCompany(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Company created successfully", company)
}

// Update handles updating a company
func (h *CompanyHandler) Update(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	isSuperAdmin := IsSuperAdmin(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid company ID")
		return
	}

	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.UpdateCompanyInput{
		UserID:        *userID,
		ID:            id,
		IsSuperAdmin:  isSuperAdmin,
		Name:          req.Name,
		GSTIN:         req.GSTIN,
		Email:         req.Email,
		Phone:         req.Phone,
		ContactPerson: req.ContactPerson,
	}
	if req.BillingAddress != nil {
		billing := req.BillingAddress.toInput()
		input.BillingAddress = &billing
	}
	if req.ShippingAddress != nil {
		shipping := req.ShippingAddress.toInput()
		input.ShippingAddress = &shipping
	}

	company, err := h.companyService.UpdateCompany(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Company updated successfully", company)
}

// Delete handles deleting a company
func (h *CompanyHandler) Delete(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	isSuperAdmin := IsSuperAdmin(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid company ID")
		return
	}

	if err := h.companyService.DeleteCompany(c.Request.Context(), *userID, id, isSuperAdmin); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
