package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/maheshwarig/ticketflow-api/internal/domain/entity"
	domainRepo "github.com/maheshwarig/ticketflow-api/internal/domain/repository"
	"github.com/maheshwarig/ticketflow-api/pkg/pagination"
	"gorm.io/gorm"
)

type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *gorm.DB) domainRepo.ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *entity.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	var item entity.Item
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *itemRepository) GetBySlug(ctx context.Context, slug string) (*entity.Item, error) {
	var item entity.Item
	err := r.db.WithContext(ctx).First(&item, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *itemRepository) GetByCode(ctx context.Context, code string) (*entity.Item, error) {
	var item entity.Item
	err := r.db.WithContext(ctx).First(&item, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *itemRepository) GetWithUnits(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	var item entity.Item
	err := r.db.WithContext(ctx).
		Preload("Units").
		First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *itemRepository) Update(ctx context.Context, item *entity.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Item{}, "id = ?", id).Error
}

func (r *itemRepository) List(ctx context.Context, userID uuid.UUID, params *domainRepo.ItemFilterParams) ([]entity.Item, int64, error) {
	var items []entity.Item
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Item{})
	if !params.SkipUserFilter && userID != uuid.Nil {
		query = query.Where("user_id = ?", userID)
	}

	if params.Search != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ? OR hsn_code ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.HSNCode != "" {
		query = query.Where("hsn_code = ?", params.HSNCode)
	}

	if params.LowStock {
		query = query.Where("quantity <= quantity_alert")
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
		Preload("Units").
		Order(sortBy + " " + sortOrder).
		Find(&items).Error

	return items, total, err
}

// ListWithCursor returns items using cursor-based pagination
func (r *itemRepository) ListWithCursor(ctx context.Context, userID uuid.UUID, params *domainRepo.ItemCursorFilterParams) ([]entity.Item, error) {
	var items []entity.Item

	params.Cursor.Validate()
	query := r.db.WithContext(ctx).Model(&entity.Item{})
	if !params.SkipUserFilter {
		query = query.Where("user_id = ?", userID)
	}

	if params.Search != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ? OR hsn_code ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.HSNCode != "" {
		query = query.Where("hsn_code = ?", params.HSNCode)
	}

	if params.LowStock {
		query = query.Where("quantity <= quantity_alert")
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
		Preload("Units").
		Order("created_at ASC, id ASC").
		Find(&items).Error

	return items, err
}

func (r *itemRepository) GetLowStock(ctx context.Context, userID uuid.UUID) ([]entity.Item, error) {
	var items []entity.Item
	query := r.db.WithContext(ctx).
		Where("quantity <= quantity_alert")
	if userID != uuid.Nil {
		query = query.Where("user_id = ?", userID)
	}
	err := query.Order("quantity ASC").Find(&items).Error
	return items, err
}

func (r *itemRepository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity float64) error {
	return r.db.WithContext(ctx).Model(&entity.Item{}).
		Where("id = ?", id).
		Update("quantity", quantity).Error
}

type itemUnitRepository struct {
	db *gorm.DB
}

// NewItemUnitRepository creates a new item unit repository
func NewItemUnitRepository(db *gorm.DB) domainRepo.ItemUnitRepository {
	return &itemUnitRepository{db: db}
}

func (r *itemUnitRepository) CreateBatch(ctx context.Context, units []entity.ItemUnit) error {
	if len(units) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&units).Error
}

func (r *itemUnitRepository) ReplaceForItem(ctx context.Context, itemID uuid.UUID, units []entity.ItemUnit) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Delete(&entity.ItemUnit{}, "item_id = ?", itemID).Error; err != nil {
			return err
		}
		if len(units) == 0 {
			return nil
		}
		return tx.Create(&units).Error
	})
}

func (r *itemUnitRepository) DeleteByItemID(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.ItemUnit{}, "item_id = ?", itemID).Error
}
