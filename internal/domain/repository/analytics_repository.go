package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/maheshwarig/ticketflow-api/internal/domain/enum"
)

// StatusCountResult represents the number of tickets in one workflow status
type StatusCountResult struct {
	Status enum.TicketStatus
	Count  int
}

// TopItemResult represents an item's sales performance across tickets
type TopItemResult struct {
	ItemName     string
	HSNCode      string
	QuantitySold float64
	Revenue      float64
}

// TopCompanyResult represents a company's business volume
type TopCompanyResult struct {
	CompanyID   uuid.UUID
	CompanyName string
	TotalValue  float64
	TicketCount int
}

// DailyBusinessResult represents ticket value booked on a single day
type DailyBusinessResult struct {
	Date     time.Time
	Value    float64
	Received float64
}

// AnalyticsRepository defines interface for analytics/aggregation queries
type AnalyticsRepository interface {
	// GetTicketsByStatus returns open ticket counts per workflow status
	GetTicketsByStatus(ctx context.Context) ([]StatusCountResult, error)

	// GetTopItems returns top selling items by revenue across ticket lines
	GetTopItems(ctx context.Context, limit int) ([]TopItemResult, error)

	// GetTopCompanies returns top companies by total ticket value
	GetTopCompanies(ctx context.Context, limit int) ([]TopCompanyResult, error)

	// GetDailyBusiness returns booked value and payments for the last N days
	GetDailyBusiness(ctx context.Context, days int) ([]DailyBusinessResult, error)

	// GetTotalBusinessValue returns the summed grand total of closed tickets
	GetTotalBusinessValue(ctx context.Context) (float64, error)

	// GetMonthlyBusinessValue returns booked value for the current month
	GetMonthlyBusinessValue(ctx context.Context) (float64, error)

	// GetTotalOutstanding returns invoiced value not yet covered by payments
	GetTotalOutstanding(ctx context.Context) (float64, error)
}
