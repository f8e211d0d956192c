package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Address is a postal address embedded into companies and sales documents.
// State drives the CGST/SGST-versus-IGST decision, so it is the one field
// that must be populated for tax computation to be meaningful.
type Address struct {
	Line1   string  `gorm:"size:255" json:"line1"`
	Line2   *string `gorm:"size:255" json:"line2,omitempty"`
	City    string  `gorm:"size:100" json:"city"`
	State   string  `gorm:"size:100" json:"state"`
	PinCode string  `gorm:"size:10" json:"pin_code"`
}

// Company represents a client company tickets are billed to.
type Company struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name            string         `gorm:"size:255;not null" json:"name"`
	GSTIN           *string        `gorm:"size:20;column:gstin" json:"gstin,omitempty"`
	Email           *string        `gorm:"size:255" json:"email,omitempty"`
	Phone           *string        `gorm:"size:50" json:"phone,omitempty"`
	ContactPerson   *string        `gorm:"size:255" json:"contact_person,omitempty"`
	BillingAddress  Address        `gorm:"embedded;embeddedPrefix:billing_" json:"billing_address"`
	ShippingAddress Address        `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User       User        `gorm:"foreignKey:UserID" json:"-"`
	Quotations []Quotation `gorm:"foreignKey:CompanyID" json:"-"`
	Tickets    []Ticket    `gorm:"foreignKey:CompanyID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new company
func (c *Company) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Company model
func (Company) TableName() string {
	return "companies"
}
