package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/maheshwarig/ticketflow-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Quotation is a pre-sale price offer. An accepted quotation is the seed
// document for a Ticket: conversion snapshots the company, addresses and
// goods lines as they stand at that moment.
type Quotation struct {
	ID              uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	UserID          uuid.UUID            `gorm:"type:uuid;not null;index" json:"user_id"`
	CompanyID       uuid.UUID            `gorm:"type:uuid;not null;index" json:"company_id"`
	QuotationNo     string               `gorm:"size:100;unique;not null" json:"quotation_no"`
	Date            time.Time            `gorm:"type:date;not null" json:"date"`
	ValidUntil      *time.Time           `gorm:"type:date" json:"valid_until,omitempty"`
	Status          enum.QuotationStatus `gorm:"default:0" json:"status"`
	SameAsBilling   bool                 `gorm:"default:true" json:"same_as_billing"`
	BillingAddress  Address              `gorm:"embedded;embeddedPrefix:billing_" json:"billing_address"`
	ShippingAddress Address              `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`

	TotalQuantity      float64 `gorm:"type:decimal(15,3);default:0" json:"total_quantity"`
	TotalAmount        float64 `gorm:"type:decimal(15,2);default:0" json:"total_amount"`
	FinalGSTAmount     float64 `gorm:"type:decimal(15,2);default:0;column:final_gst_amount" json:"final_gst_amount"`
	GrandTotal         float64 `gorm:"type:decimal(15,2);default:0" json:"grand_total"`
	RoundOff           float64 `gorm:"type:decimal(15,2);default:0" json:"round_off"`
	FinalRoundedAmount float64 `gorm:"type:decimal(15,2);default:0" json:"final_rounded_amount"`

	Note      *string        `gorm:"type:text" json:"note,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User    User              `gorm:"foreignKey:UserID" json:"-"`
	Company *Company          `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Goods   []QuotationDetail `gorm:"foreignKey:QuotationID" json:"goods,omitempty"`
}

// BeforeCreate generates a UUID before creating a new quotation
func (q *Quotation) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Quotation model
func (Quotation) TableName() string {
	return "quotations"
}

// QuotationDetail is a priced line on a quotation. It carries the same
// pricing metadata as a ticket goods line so conversion is a field-for-field
// snapshot.
type QuotationDetail struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	QuotationID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"quotation_id"`
	ItemID             *uuid.UUID     `gorm:"type:uuid;index" json:"item_id,omitempty"`
	SrNo               int            `gorm:"not null" json:"sr_no"`
	Description        string         `gorm:"size:255;not null" json:"description"`
	HSNCode            string         `gorm:"size:20;column:hsn_code" json:"hsn_code"`
	Quantity           float64        `gorm:"type:decimal(15,3);not null" json:"quantity"`
	UnitName           string         `gorm:"size:100" json:"unit_name"`
	UnitPrice          float64        `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	Amount             float64        `gorm:"type:decimal(15,2);not null" json:"amount"`
	GSTRate            float64        `gorm:"type:decimal(5,2);default:0;column:gst_rate" json:"gst_rate"`
	OriginalPrice      float64        `gorm:"type:decimal(15,2);default:0" json:"original_price"`
	MaxDiscountPercent float64        `gorm:"type:decimal(5,2);default:0" json:"max_discount_percent"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new quotation detail
func (qd *QuotationDetail) BeforeCreate(tx *gorm.DB) error {
	if qd.ID == uuid.Nil {
		qd.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the QuotationDetail model
func (QuotationDetail) TableName() string {
	return "quotation_details"
}
