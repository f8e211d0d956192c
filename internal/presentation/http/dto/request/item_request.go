package request

// ItemUnitRequest represents one unit definition on an item
type ItemUnitRequest struct {
	Name             string  `json:"name" binding:"required,min=1,max=50"`
	ConversionFactor float64 `json:"conversion_factor" binding:"required,gt=0"`
	IsBaseUnit       bool    `json:"is_base_unit"`
}

// CreateItemRequest represents an item creation request
type CreateItemRequest struct {
	Name               string            `json:"name" binding:"required,min=2,max=255"`
	Code               string            `json:"code" binding:"omitempty,max=100"`
	HSNCode            string            `json:"hsn_code" binding:"omitempty,max=20"`
	Description        *string           `json:"description"`
	Quantity           float64           `json:"quantity" binding:"min=0"`
	QuantityAlert      float64           `json:"quantity_alert" binding:"min=0"`
	BuyingPrice        float64           `json:"buying_price" binding:"min=0"`
	SellingPrice       float64           `json:"selling_price" binding:"min=0"`
	GSTRate            float64           `json:"gst_rate" binding:"min=0,max=100"`
	MaxDiscountPercent float64           `json:"max_discount_percent" binding:"min=0,max=100"`
	Units              []ItemUnitRequest `json:"units"`
}

// UpdateItemRequest represents an item update request
type UpdateItemRequest struct {
	Name               *string           `json:"name" binding:"omitempty,min=2,max=255"`
	Code               *string           `json:"code" binding:"omitempty,min=1,max=100"`
	HSNCode            *string           `json:"hsn_code" binding:"omitempty,max=20"`
	Description        *string           `json:"description"`
	Quantity           *float64          `json:"quantity" binding:"omitempty,min=0"`
	QuantityAlert      *float64          `json:"quantity_alert" binding:"omitempty,min=0"`
	BuyingPrice        *float64          `json:"buying_price" binding:"omitempty,min=0"`
	SellingPrice       *float64          `json:"selling_price" binding:"omitempty,min=0"`
	GSTRate            *float64          `json:"gst_rate" binding:"omitempty,min=0,max=100"`
	MaxDiscountPercent *float64          `json:"max_discount_percent" binding:"omitempty,min=0,max=100"`
	Units              []ItemUnitRequest `json:"units"` // nil leaves units untouched
}

// ItemFilterRequest represents item filter parameters
type ItemFilterRequest struct {
	Search    string `form:"search"`
	HSNCode   string `form:"hsn_code"`
	LowStock  bool   `form:"low_stock"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
	Limit     int    `form:"limit"` // For cursor-based pagination
}
