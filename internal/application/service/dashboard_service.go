package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/maheshwarig/ticketflow-api/internal/domain/repository"
	"github.com/maheshwarig/ticketflow-api/pkg/pagination"
)

// DashboardService provides dashboard statistics
type DashboardService struct {
	ticketRepo    repository.TicketRepository
	quotationRepo repository.QuotationRepository
	itemRepo      repository.ItemRepository
	companyRepo   repository.CompanyRepository
	analyticsRepo repository.AnalyticsRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	ticketRepo repository.TicketRepository,
	quotationRepo repository.QuotationRepository,
	itemRepo repository.ItemRepository,
	companyRepo repository.CompanyRepository,
	analyticsRepo repository.AnalyticsRepository,
) *DashboardService {
	return &DashboardService{
		ticketRepo:    ticketRepo,
		quotationRepo: quotationRepo,
		itemRepo:      itemRepo,
		companyRepo:   companyRepo,
		analyticsRepo: analyticsRepo,
	}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	TotalCompanies       int64                `json:"total_companies"`
	TotalItems           int64                `json:"total_items"`
	TotalQuotations      int64                `json:"total_quotations"`
	TotalTickets         int64                `json:"total_tickets"`
	TicketsByStatus      []StatusCountPoint   `json:"tickets_by_status"`
	TotalBusinessValue   float64              `json:"total_business_value"`
	MonthlyBusinessValue float64              `json:"monthly_business_value"`
	TotalOutstanding     float64              `json:"total_outstanding"`
	LowStockCount        int64                `json:"low_stock_count"`
	DueSoonCount         int64                `json:"due_soon_count"`
	DailyBusinessData    []DailyBusinessPoint `json:"daily_business_data"`
	TopItems             []TopItemPoint       `json:"top_items"`
	TopCompanies         []TopCompanyPoint    `json:"top_companies"`
}

// StatusCountPoint represents the ticket count in one workflow status
type StatusCountPoint struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// DailyBusinessPoint represents booked value and payments received on one day
type DailyBusinessPoint struct {
	Date     string  `json:"date"`
	Value    float64 `json:"value"`
	Received float64 `json:"received"`
}

// TopItemPoint represents an item's sales performance
type TopItemPoint struct {
	Name         string  `json:"name"`
	HSNCode      string  `json:"hsn_code"`
	QuantitySold float64 `json:"quantity_sold"`
	Revenue      float64 `json:"revenue"`
}

// TopCompanyPoint represents a company's business volume
type TopCompanyPoint struct {
	Name        string  `json:"name"`
	TotalValue  float64 `json:"total_value"`
	TicketCount int     `json:"ticket_count"`
}

// GetDashboardStats returns dashboard statistics across the whole organization
func (s *DashboardService) GetDashboardStats(ctx context.Context, userID uuid.UUID, deadlineWarningDays int) (*DashboardStats, error) {
	stats := &DashboardStats{}

	countParams := pagination.DefaultPagination()
	countParams.PerPage = 1 // only the count is needed

	_, companyCount, err := s.companyRepo.List(ctx, userID, countParams, "", true)
	if err != nil {
		return nil, err
	}
	stats.TotalCompanies = companyCount

	_, itemCount, err := s.itemRepo.List(ctx, userID, &repository.ItemFilterParams{
		Pagination:     countParams,
		SkipUserFilter: true,
	})
	if err != nil {
		return nil, err
	}
	stats.TotalItems = itemCount

	lowStock, err := s.itemRepo.GetLowStock(ctx, uuid.Nil)
	if err != nil {
		return nil, err
	}
	stats.LowStockCount = int64(len(lowStock))

	_, quotationCount, err := s.quotationRepo.List(ctx, uuid.Nil, &repository.QuotationFilterParams{
		Pagination: countParams,
	})
	if err != nil {
		return nil, err
	}
	stats.TotalQuotations = quotationCount

	_, ticketCount, err := s.ticketRepo.List(ctx, userID, &repository.TicketFilterParams{
		Pagination:     countParams,
		SkipUserFilter: true,
	})
	if err != nil {
		return nil, err
	}
	stats.TotalTickets = ticketCount

	statusCounts, err := s.analyticsRepo.GetTicketsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	stats.TicketsByStatus = make([]StatusCountPoint, 0, len(statusCounts))
	for _, sc := range statusCounts {
		stats.TicketsByStatus = append(stats.TicketsByStatus, StatusCountPoint{
			Status: sc.Status.String(),
			Count:  sc.Count,
		})
	}

	stats.TotalBusinessValue, err = s.analyticsRepo.GetTotalBusinessValue(ctx)
	if err != nil {
		return nil, err
	}

	stats.MonthlyBusinessValue, err = s.analyticsRepo.GetMonthlyBusinessValue(ctx)
	if err != nil {
		return nil, err
	}

	stats.TotalOutstanding, err = s.analyticsRepo.GetTotalOutstanding(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().AddDate(0, 0, deadlineWarningDays)
	_, dueSoonCount, err := s.ticketRepo.GetApproachingDeadline(ctx, uuid.Nil, cutoff, countParams)
	if err != nil {
		return nil, err
	}
	stats.DueSoonCount = dueSoonCount

	daily, err := s.analyticsRepo.GetDailyBusiness(ctx, 7)
	if err != nil {
		return nil, err
	}
	stats.DailyBusinessData = make([]DailyBusinessPoint, 0, len(daily))
	for _, d := range daily {
		stats.DailyBusinessData = append(stats.DailyBusinessData, DailyBusinessPoint{
			Date:     d.Date.Format("Jan 02"),
			Value:    d.Value,
			Received: d.Received,
		})
	}

	topItems, err := s.analyticsRepo.GetTopItems(ctx, 5)
	if err != nil {
		return nil, err
	}
	stats.TopItems = make([]TopItemPoint, 0, len(topItems))
	for _, ti := range topItems {
		stats.TopItems = append(stats.TopItems, TopItemPoint{
			Name:         ti.ItemName,
			HSNCode:      ti.HSNCode,
			QuantitySold: ti.QuantitySold,
			Revenue:      ti.Revenue,
		})
	}

	topCompanies, err := s.analyticsRepo.GetTopCompanies(ctx, 5)
	if err != nil {
		return nil, err
	}
	stats.TopCompanies = make([]TopCompanyPoint, 0, len(topCompanies))
	for _, tc := range topCompanies {
		stats.TopCompanies = append(stats.TopCompanies, TopCompanyPoint{
			Name:        tc.CompanyName,
			TotalValue:  tc.TotalValue,
			TicketCount: tc.TicketCount,
		})
	}

	return stats, nil
}
