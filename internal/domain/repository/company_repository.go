package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/maheshwarig/ticketflow-api/internal/domain/entity"
	"github.com/maheshwarig/ticketflow-api/pkg/pagination"
)

// CompanyRepository defines the interface for company data operations
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Company, error)
	GetByGSTIN(ctx context.Context, gstin string) (*entity.Company, error)
	GetByEmail(ctx context.Context, email string) (*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns companies with page-based pagination. If skipUserFilter is true, returns all companies.
	List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string, skipUserFilter bool) ([]entity.Company, int64, error)
	// ListWithCursor returns companies using cursor-based pagination. If skipUserFilter is true, returns all companies.
	ListWithCursor(ctx context.Context, userID uuid.UUID, params *pagination.CursorParams, search string, skipUserFilter bool) ([]entity.Company, error)
}
