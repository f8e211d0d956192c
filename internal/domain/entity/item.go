package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Item represents a sellable inventory item. Prices are quoted per base
// unit; secondary units carry a conversion factor back to the base unit.
type Item struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID             uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name               string         `gorm:"size:255;not null" json:"name"`
	Slug               string         `gorm:"size:255;unique;not null" json:"slug"`
	Code               string         `gorm:"size:100;unique;not null" json:"code"`
	HSNCode            string         `gorm:"size:20;column:hsn_code" json:"hsn_code"`
	Description        *string        `gorm:"type:text" json:"description,omitempty"`
	Quantity           float64        `gorm:"type:decimal(15,3);default:0" json:"quantity"` // stock, in base units
	QuantityAlert      float64        `gorm:"type:decimal(15,3);default:0" json:"quantity_alert"`
	BuyingPrice        float64        `gorm:"type:decimal(15,2);default:0" json:"buying_price"`  // per base unit
	SellingPrice       float64        `gorm:"type:decimal(15,2);default:0" json:"selling_price"` // per base unit
	GSTRate            float64        `gorm:"type:decimal(5,2);default:0;column:gst_rate" json:"gst_rate"`
	MaxDiscountPercent float64        `gorm:"type:decimal(5,2);default:0" json:"max_discount_percent"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User  User       `gorm:"foreignKey:UserID" json:"-"`
	Units []ItemUnit `gorm:"foreignKey:ItemID" json:"units,omitempty"`
}

// BeforeCreate generates a UUID before creating a new item
func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Item model
func (Item) TableName() string {
	return "items"
}

// ItemUnit defines one unit an item can be quoted in. Exactly one unit per
// item is the base unit with a conversion factor of 1; every other factor
// converts that unit into base units.
type ItemUnit struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ItemID           uuid.UUID `gorm:"type:uuid;not null;index" json:"item_id"`
	Name             string    `gorm:"size:100;not null" json:"name"`
	ConversionFactor float64   `gorm:"type:decimal(15,6);not null" json:"conversion_factor"`
	IsBaseUnit       bool      `gorm:"default:false" json:"is_base_unit"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new item unit
func (u *ItemUnit) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ItemUnit model
func (ItemUnit) TableName() string {
	return "item_units"
}

// UnitConversion is the result of pricing an item in a selected unit.
// A zero PricePerUnit or QuantityInBaseUnit signals a broken conversion
// factor on the unit definition; callers must treat it as a data-quality
// error rather than accept it.
type UnitConversion struct {
	UnitName           string  `json:"unit_name"`
	ConversionFactor   float64 `json:"conversion_factor"`
	PricePerUnit       float64 `json:"price_per_unit"`
	QuantityInBaseUnit float64 `json:"quantity_in_base_unit"`
	// UsedFallback is set when the requested unit was not defined on the
	// item and the base unit was substituted. Non-fatal, but worth logging.
	UsedFallback bool `json:"used_fallback"`
}

// BaseUnit returns the unit flagged as base, or the first defined unit when
// the flag is missing from the data.
func (i *Item) BaseUnit() *ItemUnit {
	for idx := range i.Units {
		if i.Units[idx].IsBaseUnit {
			return &i.Units[idx]
		}
	}
	if len(i.Units) > 0 {
		return &i.Units[0]
	}
	return nil
}

// UnitByName looks up a unit definition by name.
func (i *Item) UnitByName(name string) *ItemUnit {
	for idx := range i.Units {
		if i.Units[idx].Name == name {
			return &i.Units[idx]
		}
	}
	return nil
}

// ConvertUnit prices a quantity expressed in the named unit. An unknown
// unit name falls back to the base unit; the item itself is never mutated.
func (i *Item) ConvertUnit(unitName string, quantity float64) UnitConversion {
	unit := i.UnitByName(unitName)
	usedFallback := false
	if unit == nil {
		unit = i.BaseUnit()
		usedFallback = true
	}
	if unit == nil {
		// No units defined at all; report the request back with zeroes.
		return UnitConversion{UnitName: unitName, UsedFallback: true}
	}

	return UnitConversion{
		UnitName:           unit.Name,
		ConversionFactor:   unit.ConversionFactor,
		PricePerUnit:       i.SellingPrice * unit.ConversionFactor,
		QuantityInBaseUnit: quantity * unit.ConversionFactor,
		UsedFallback:       usedFallback,
	}
}

// IsLowStock reports whether the stock quantity has fallen to the alert level.
func (i *Item) IsLowStock() bool {
	return i.QuantityAlert > 0 && i.Quantity <= i.QuantityAlert
}
