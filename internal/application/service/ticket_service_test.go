package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/maheshwarig/ticketflow-api/internal/config"
	"github.com/maheshwarig/ticketflow-api/internal/domain/entity"
	"github.com/maheshwarig/ticketflow-api/internal/domain/enum"
	"github.com/maheshwarig/ticketflow-api/internal/domain/repository"
	"github.com/maheshwarig/ticketflow-api/pkg/apperror"
)

// Fakes embed the repository interface so only the methods the conversion
// path touches need implementations; anything else panics loudly.

type fakeQuotationRepo struct {
	repository.QuotationRepository
	quotation     *entity.Quotation
	updatedStatus *enum.QuotationStatus
}

func (f *fakeQuotationRepo) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Quotation, error) {
	if f.quotation != nil && f.quotation.ID == id {
		return f.quotation, nil
	}
	return nil, nil
}

func (f *fakeQuotationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.QuotationStatus) error {
	f.updatedStatus = &status
	return nil
}

type fakeTicketRepo struct {
	repository.TicketRepository
	nextNumber int
	created    *entity.Ticket
}

func (f *fakeTicketRepo) GetNextTicketNumber(ctx context.Context) (int, error) {
	return f.nextNumber, nil
}

func (f *fakeTicketRepo) Create(ctx context.Context, ticket *entity.Ticket) error {
	f.created = ticket
	return nil
}

func (f *fakeTicketRepo) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Ticket, error) {
	if f.created != nil && f.created.ID == id {
		return f.created, nil
	}
	return nil, nil
}

type fakeUserRepo struct {
	repository.UserRepository
	users map[uuid.UUID]*entity.User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return f.users[id], nil
}

type fakeItemRepo struct {
	repository.ItemRepository
	items      map[uuid.UUID]*entity.Item
	quantities map[uuid.UUID]float64
}

func (f *fakeItemRepo) GetWithUnits(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	return f.items[id], nil
}

func (f *fakeItemRepo) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity float64) error {
	if f.quantities == nil {
		f.quantities = make(map[uuid.UUID]float64)
	}
	f.quantities[id] = quantity
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		GST:    config.GSTConfig{HomeState: "Karnataka"},
		Ticket: config.TicketConfig{DeadlineDays: 30},
	}
}

func acceptedQuotation(itemID uuid.UUID) *entity.Quotation {
	return &entity.Quotation{
		ID:            uuid.New(),
		CompanyID:     uuid.New(),
		QuotationNo:   "QT-000042",
		Status:        enum.QuotationStatusAccepted,
		SameAsBilling: true,
		BillingAddress: entity.Address{
			Line1:   "12 MG Road",
			City:    "Bengaluru",
			State:   "Karnataka",
			PinCode: "560001",
		},
		Goods: []entity.QuotationDetail{
			{
				ItemID:             &itemID,
				SrNo:               1,
				Description:        "Control panel",
				HSNCode:            "8537",
				Quantity:           2,
				UnitName:           "Box",
				UnitPrice:          100,
				GSTRate:            18,
				OriginalPrice:      100,
				MaxDiscountPercent: 10,
			},
		},
	}
}

func newConversionFixture(t *testing.T) (*TicketService, *fakeQuotationRepo, *fakeTicketRepo, *fakeItemRepo, *entity.Quotation, uuid.UUID) {
	t.Helper()

	itemID := uuid.New()
	assigneeID := uuid.New()

	quotationRepo := &fakeQuotationRepo{quotation: acceptedQuotation(itemID)}
	ticketRepo := &fakeTicketRepo{nextNumber: 7}
	userRepo := &fakeUserRepo{users: map[uuid.UUID]*entity.User{
		assigneeID: {ID: assigneeID, Email: "assignee@example.com"},
	}}
	itemRepo := &fakeItemRepo{items: map[uuid.UUID]*entity.Item{
		itemID: {
			ID:       itemID,
			Name:     "Control panel",
			Code:     "ITM-CP01",
			Quantity: 100,
			Units: []entity.ItemUnit{
				{Name: "Nos", ConversionFactor: 1, IsBaseUnit: true},
				{Name: "Box", ConversionFactor: 10},
			},
		},
	}}

	svc := NewTicketService(ticketRepo, nil, nil, nil, nil, quotationRepo, itemRepo, userRepo, nil, testConfig())
	return svc, quotationRepo, ticketRepo, itemRepo, quotationRepo.quotation, assigneeID
}

func TestCreateFromQuotationSnapshotsGoodsAndTotals(t *testing.T) {
	svc, quotationRepo, ticketRepo, itemRepo, quotation, assigneeID := newConversionFixture(t)

	ticket, err := svc.CreateFromQuotation(context.Background(), &CreateTicketInput{
		UserID:      uuid.New(),
		QuotationID: quotation.ID,
		AssigneeID:  assigneeID,
	})
	if err != nil {
		t.Fatalf("CreateFromQuotation: %v", err)
	}

	if ticket.QuotationNo != "QT-000042" {
		t.Errorf("quotation number not snapshotted: got %q", ticket.QuotationNo)
	}
	if ticket.CompanyID != quotation.CompanyID {
		t.Errorf("company not snapshotted")
	}
	if ticket.Status != enum.TicketStatusQuotationSent {
		t.Errorf("initial status = %v, want Quotation Sent", ticket.Status)
	}
	if ticket.CurrentAssignee != assigneeID {
		t.Errorf("assignee = %v, want %v", ticket.CurrentAssignee, assigneeID)
	}

	if len(ticket.Goods) != 1 {
		t.Fatalf("goods lines = %d, want 1", len(ticket.Goods))
	}
	line := ticket.Goods[0]
	if line.SrNo != 1 || line.Description != "Control panel" || line.HSNCode != "8537" {
		t.Errorf("line not snapshotted field-for-field: %+v", line)
	}

	// 2 x 100 @ 18% intra-state: taxable 200, CGST 18 + SGST 18, total 236
	if ticket.TotalAmount != 200 {
		t.Errorf("TotalAmount = %v, want 200", ticket.TotalAmount)
	}
	if ticket.TotalCGSTAmount != 18 || ticket.TotalSGSTAmount != 18 || ticket.TotalIGSTAmount != 0 {
		t.Errorf("tax split = CGST %v SGST %v IGST %v, want 18/18/0",
			ticket.TotalCGSTAmount, ticket.TotalSGSTAmount, ticket.TotalIGSTAmount)
	}
	if ticket.FinalRoundedAmount != 236 || ticket.RoundOff != 0 {
		t.Errorf("rounded total = %v (round-off %v), want 236 (0)", ticket.FinalRoundedAmount, ticket.RoundOff)
	}

	if len(ticket.StatusHistory) != 1 || ticket.StatusHistory[0].Status != enum.TicketStatusQuotationSent {
		t.Errorf("status history not seeded: %+v", ticket.StatusHistory)
	}
	if len(ticket.AssignmentLog) != 1 || ticket.AssignmentLog[0].AssignedTo != assigneeID {
		t.Errorf("assignment log not seeded: %+v", ticket.AssignmentLog)
	}

	if quotationRepo.updatedStatus == nil || *quotationRepo.updatedStatus != enum.QuotationStatusConverted {
		t.Errorf("quotation not marked converted: %v", quotationRepo.updatedStatus)
	}
	if ticketRepo.created == nil {
		t.Fatal("ticket never persisted")
	}

	// 2 boxes of 10 come out of a stock of 100
	itemID := *quotation.Goods[0].ItemID
	if got := itemRepo.quantities[itemID]; got != 80 {
		t.Errorf("stock after conversion = %v, want 80", got)
	}
}

func TestCreateFromQuotationTicketNumberAndDeadline(t *testing.T) {
	svc, _, _, _, quotation, assigneeID := newConversionFixture(t)

	before := time.Now()
	ticket, err := svc.CreateFromQuotation(context.Background(), &CreateTicketInput{
		UserID:      uuid.New(),
		QuotationID: quotation.ID,
		AssigneeID:  assigneeID,
	})
	if err != nil {
		t.Fatalf("CreateFromQuotation: %v", err)
	}

	want := "TKT-" + before.Format("2006") + "-00007"
	if ticket.TicketNo != want {
		t.Errorf("ticket number = %q, want %q", ticket.TicketNo, want)
	}

	wantDeadline := before.AddDate(0, 0, 30)
	if ticket.Deadline.Before(wantDeadline.Add(-time.Minute)) || ticket.Deadline.After(wantDeadline.Add(time.Minute)) {
		t.Errorf("deadline = %v, want ~%v", ticket.Deadline, wantDeadline)
	}
}

func TestCreateFromQuotationHonorsExplicitDeadline(t *testing.T) {
	svc, _, _, _, quotation, assigneeID := newConversionFixture(t)

	deadline := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	ticket, err := svc.CreateFromQuotation(context.Background(), &CreateTicketInput{
		UserID:      uuid.New(),
		QuotationID: quotation.ID,
		AssigneeID:  assigneeID,
		Deadline:    &deadline,
	})
	if err != nil {
		t.Fatalf("CreateFromQuotation: %v", err)
	}
	if !ticket.Deadline.Equal(deadline) {
		t.Errorf("deadline = %v, want %v", ticket.Deadline, deadline)
	}
}

func TestCreateFromQuotationRejectsWrongStatus(t *testing.T) {
	tests := []struct {
		name   string
		status enum.QuotationStatus
	}{
		{"draft", enum.QuotationStatusDraft},
		{"sent", enum.QuotationStatusSent},
		{"rejected", enum.QuotationStatusRejected},
		{"already converted", enum.QuotationStatusConverted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, quotationRepo, ticketRepo, _, quotation, assigneeID := newConversionFixture(t)
			quotation.Status = tt.status

			_, err := svc.CreateFromQuotation(context.Background(), &CreateTicketInput{
				UserID:      uuid.New(),
				QuotationID: quotation.ID,
				AssigneeID:  assigneeID,
			})
			if err == nil {
				t.Fatal("expected conversion to be rejected")
			}
			appErr, ok := err.(*apperror.AppError)
			if !ok || appErr.Code != 409 {
				t.Errorf("error = %v, want 409 conflict", err)
			}
			if ticketRepo.created != nil {
				t.Error("ticket created despite rejection")
			}
			if quotationRepo.updatedStatus != nil {
				t.Error("quotation status changed despite rejection")
			}
		})
	}
}

func TestCreateFromQuotationUnknownAssignee(t *testing.T) {
	svc, _, _, _, quotation, _ := newConversionFixture(t)

	_, err := svc.CreateFromQuotation(context.Background(), &CreateTicketInput{
		UserID:      uuid.New(),
		QuotationID: quotation.ID,
		AssigneeID:  uuid.New(),
	})
	if err == nil {
		t.Fatal("expected unknown assignee to be rejected")
	}
	appErr, ok := err.(*apperror.AppError)
	if !ok || appErr.Code != 404 {
		t.Errorf("error = %v, want 404 not found", err)
	}
}
