package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/maheshwarig/ticketflow-api/internal/domain/entity"
	"github.com/maheshwarig/ticketflow-api/pkg/pagination"
)

// ItemRepository defines the interface for item data operations
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Item, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Item, error)
	GetByCode(ctx context.Context, code string) (*entity.Item, error)
	// GetWithUnits loads the item with its unit definitions preloaded.
	GetWithUnits(ctx context.Context, id uuid.UUID) (*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params *ItemFilterParams) ([]entity.Item, int64, error)
	ListWithCursor(ctx context.Context, userID uuid.UUID, params *ItemCursorFilterParams) ([]entity.Item, error)
	GetLowStock(ctx context.Context, userID uuid.UUID) ([]entity.Item, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity float64) error
}

// ItemFilterParams contains filtering parameters for item queries
type ItemFilterParams struct {
	Pagination     *pagination.PaginationParams
	Search         string
	HSNCode        string
	LowStock       bool
	SortBy         string
	SortOrder      string
	SkipUserFilter bool // If true, returns all items (for super-admin)
}

// ItemCursorFilterParams contains cursor-based filtering parameters for item queries
type ItemCursorFilterParams struct {
	Cursor         *pagination.CursorParams
	Search         string
	HSNCode        string
	LowStock       bool
	SkipUserFilter bool // If true, returns all items (for super-admin)
}

// ItemUnitRepository defines the interface for item unit data operations
type ItemUnitRepository interface {
	CreateBatch(ctx context.Context, units []entity.ItemUnit) error
	// ReplaceForItem deletes the item's existing units and inserts the given
	// set in a single transaction.
	ReplaceForItem(ctx context.Context, itemID uuid.UUID, units []entity.ItemUnit) error
	DeleteByItemID(ctx context.Context, itemID uuid.UUID) error
}
