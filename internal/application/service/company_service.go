package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/maheshwarig/ticketflow-api/internal/domain/entity"
	"github.com/maheshwarig/ticketflow-api/internal/domain/repository"
	"github.com/maheshwarig/ticketflow-api/pkg/apperror"
	"github.com/maheshwarig/ticketflow-api/pkg/pagination"
)

// CompanyService handles client company operations
type CompanyService struct {
	companyRepo repository.CompanyRepository
}

// NewCompanyService creates a new company service
func NewCompanyService(companyRepo repository.CompanyRepository) *CompanyService {
	return &CompanyService{companyRepo: companyRepo}
}

// AddressInput represents a postal address
type AddressInput struct {
	Line1   string
	Line2   *string
	City    string
	State   string
	PinCode string
}

func (a *AddressInput) toAddress() entity.Address {
	return entity.Address{
		Line1:   a.Line1,
		Line2:   a.Line2,
		City:    a.City,
		State:   a.State,
		PinCode: a.PinCode,
	}
}

// CreateCompanyInput represents the create company input
type CreateCompanyInput struct {
	UserID          uuid.UUID
	Name            string
	GSTIN           *string
	Email           *string
	Phone           *string
	ContactPerson   *string
	BillingAddress  AddressInput
	ShippingAddress *AddressInput // nil copies the billing address
}

// CreateCompany creates a new client company
func (s *CompanyService) CreateCompany(ctx context.Context, input *CreateCompanyInput) (*entity.Company, error) {
	if input.GSTIN != nil && *input.GSTIN != "" {
		existing, err := s.companyRepo.GetByGSTIN(ctx, *input.GSTIN)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("A company with this GSTIN already exists")
		}
	}

	company := &entity.Company{
		UserID:         input.UserID,
		Name:           input.Name,
		GSTIN:          input.GSTIN,
		Email:          input.Email,
		Phone:          input.Phone,
		ContactPerson:  input.ContactPerson,
		BillingAddress: input.BillingAddress.toAddress(),
	}
	if input.ShippingAddress != nil {
		company.ShippingAddress = input.ShippingAddress.toAddress()
	} else {
		company.ShippingAddress = company.BillingAddress
	}

	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, err
	}

	return company, nil
}

// GetCompany retrieves a company by ID
func (s *CompanyService) GetCompany(ctx context.Context, id uuid.UUID) (*entity.Company, error) {
	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, apperror.NewNotFoundError("Company")
	}
	return company, nil
}

// ListCompanies lists companies. If isSuperAdmin is true, returns all companies.
func (s *CompanyService) ListCompanies(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string, isSuperAdmin bool) (*pagination.PaginatedResult[entity.Company], error) {
	companies, total, err := s.companyRepo.List(ctx, userID, params, search, isSuperAdmin)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(companies, pag), nil
}

// ListCompaniesWithCursor lists companies using cursor-based pagination. If isSuperAdmin is true, returns all companies.
func (s *CompanyService) ListCompaniesWithCursor(ctx context.Context, userID uuid.UUID, params *pagination.CursorParams, search string, isSuperAdmin bool) (*pagination.CursorPaginatedResult[entity.Company], error) {
	companies, err := s.companyRepo.ListWithCursor(ctx, userID, params, search, isSuperAdmin)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(companies, params.Limit,
		func(c entity.Company) string { return c.ID.String() },
		func(c entity.Company) time.Time { return c.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// UpdateCompanyInput represents the update company input
type UpdateCompanyInput struct {
	UserID          uuid.UUID
	ID              uuid.UUID
	IsSuperAdmin    bool
	Name            *string
	GSTIN           *string
	Email           *string
	Phone           *string
	ContactPerson   *string
	BillingAddress  *AddressInput
	ShippingAddress *AddressInput
}

// UpdateCompany updates a company. Address changes affect only future
// quotations and tickets; existing documents keep their snapshots.
func (s *CompanyService) UpdateCompany(ctx context.Context, input *UpdateCompanyInput) (*entity.Company, error) {
	company, err := s.companyRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, apperror.NewNotFoundError("Company")
	}

	// Super-admin can update any company, regular users can only update their own
	if !input.IsSuperAdmin && company.UserID != input.UserID {
		return nil, apperror.ErrForbidden
	}

	if input.GSTIN != nil && (company.GSTIN == nil || *input.GSTIN != *company.GSTIN) {
		if *input.GSTIN != "" {
			existing, err := s.companyRepo.GetByGSTIN(ctx, *input.GSTIN)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != company.ID {
				return nil, apperror.NewConflictError("A company with this GSTIN already exists")
			}
		}
		company.GSTIN = input.GSTIN
	}

	if input.Name != nil {
		company.Name = *input.Name
	}
	if input.Email != nil {
		company.Email = input.Email
	}
	if input.Phone != nil {
		company.Phone = input.Phone
	}
	if input.ContactPerson != nil {
		company.ContactPerson = input.ContactPerson
	}
	if input.BillingAddress != nil {
		company.BillingAddress = input.BillingAddress.toAddress()
	}
	if input.ShippingAddress != nil {
		company.ShippingAddress = input.ShippingAddress.toAddress()
	}

	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, err
	}

	return company, nil
}

// DeleteCompany deletes a company
func (s *CompanyService) DeleteCompany(ctx context.Context, userID, id uuid.UUID, isSuperAdmin bool) error {
	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if company == nil {
		return apperror.NewNotFoundError("Company")
	}

	// Super-admin can delete any company, regular users can only delete their own
	if !isSuperAdmin && company.UserID != userID {
		return apperror.ErrForbidden
	}

	return s.companyRepo.Delete(ctx, id)
}
