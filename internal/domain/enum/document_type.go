package enum

// DocumentType identifies a document attachment slot on a ticket.
// Every type except DocumentTypeOther holds at most one document; uploading
// again replaces the previous file. DocumentTypeOther is a growable list.
type DocumentType string

const (
	DocumentTypeQuotation       DocumentType = "quotation"
	DocumentTypePurchaseOrder   DocumentType = "purchase_order"
	DocumentTypeProformaInvoice DocumentType = "proforma_invoice"
	DocumentTypeChallan         DocumentType = "challan"
	DocumentTypePackingList     DocumentType = "packing_list"
	DocumentTypeFeedback        DocumentType = "feedback"
	DocumentTypeOther           DocumentType = "other"
)

// documentSlotKinds is the type-to-kind lookup: true means single-slot.
var documentSlotKinds = map[DocumentType]bool{
	DocumentTypeQuotation:       true,
	DocumentTypePurchaseOrder:   true,
	DocumentTypeProformaInvoice: true,
	DocumentTypeChallan:         true,
	DocumentTypePackingList:     true,
	DocumentTypeFeedback:        true,
	DocumentTypeOther:           false,
}

// IsValid reports whether the type is a known slot.
func (d DocumentType) IsValid() bool {
	_, ok := documentSlotKinds[d]
	return ok
}

// IsSingleSlot reports whether the type holds at most one document.
func (d DocumentType) IsSingleSlot() bool {
	return documentSlotKinds[d]
}

func (d DocumentType) String() string {
	return string(d)
}
