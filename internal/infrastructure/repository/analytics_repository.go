package repository

import (
	"context"
	"database/sql"
	"time"

	domainRepo "github.com/maheshwarig/ticketflow-api/internal/domain/repository"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) GetTicketsByStatus(ctx context.Context) ([]domainRepo.StatusCountResult, error) {
	var results []domainRepo.StatusCountResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			status,
			COUNT(*) as count
		FROM tickets
		WHERE deleted_at IS NULL
		GROUP BY status
		ORDER BY status
	`).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetTopItems(ctx context.Context, limit int) ([]domainRepo.TopItemResult, error) {
	var results []domainRepo.TopItemResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			gl.description as item_name,
			gl.hsn_code as hsn_code,
			COALESCE(SUM(gl.quantity), 0) as quantity_sold,
			COALESCE(SUM(gl.amount), 0) as revenue
		FROM ticket_goods_lines gl
		JOIN tickets t ON t.id = gl.ticket_id
		WHERE gl.deleted_at IS NULL AND t.deleted_at IS NULL
		GROUP BY gl.description, gl.hsn_code
		ORDER BY revenue DESC
		LIMIT ?
	`, limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetTopCompanies(ctx context.Context, limit int) ([]domainRepo.TopCompanyResult, error) {
	var results []domainRepo.TopCompanyResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			c.id as company_id,
			c.name as company_name,
			COALESCE(SUM(t.final_rounded_amount), 0) as total_value,
			COUNT(t.id) as ticket_count
		FROM tickets t
		JOIN companies c ON c.id = t.company_id
		WHERE t.deleted_at IS NULL
		GROUP BY c.id, c.name
		ORDER BY total_value DESC
		LIMIT ?
	`, limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetDailyBusiness(ctx context.Context, days int) ([]domainRepo.DailyBusinessResult, error) {
	results := make([]domainRepo.DailyBusinessResult, 0, days)
	now := time.Now()

	// Generate dates for the last N days and aggregate each one
	for i := days - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i)
		startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		endOfDay := startOfDay.Add(24 * time.Hour)

		var value sql.NullFloat64
		err := r.db.WithContext(ctx).Raw(`
			SELECT COALESCE(SUM(final_rounded_amount), 0)
			FROM tickets
			WHERE deleted_at IS NULL
			AND created_at >= ? AND created_at < ?
		`, startOfDay, endOfDay).Scan(&value).Error
		if err != nil {
			return nil, err
		}

		var received sql.NullFloat64
		err = r.db.WithContext(ctx).Raw(`
			SELECT COALESCE(SUM(amount), 0)
			FROM ticket_payments
			WHERE payment_date >= ? AND payment_date < ?
		`, startOfDay, endOfDay).Scan(&received).Error
		if err != nil {
			return nil, err
		}

		results = append(results, domainRepo.DailyBusinessResult{
			Date:     startOfDay,
			Value:    value.Float64,
			Received: received.Float64,
		})
	}

	return results, nil
}

func (r *analyticsRepository) GetTotalBusinessValue(ctx context.Context) (float64, error) {
	var value float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(final_rounded_amount), 0)
		FROM tickets
		WHERE deleted_at IS NULL AND status = 6
	`).Scan(&value).Error

	return value, err
}

func (r *analyticsRepository) GetMonthlyBusinessValue(ctx context.Context) (float64, error) {
	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var value float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(final_rounded_amount), 0)
		FROM tickets
		WHERE deleted_at IS NULL AND created_at >= ?
	`, startOfMonth).Scan(&value).Error

	return value, err
}

func (r *analyticsRepository) GetTotalOutstanding(ctx context.Context) (float64, error) {
	var outstanding float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(t.final_rounded_amount), 0) - COALESCE((
			SELECT SUM(p.amount)
			FROM ticket_payments p
			JOIN tickets tp ON tp.id = p.ticket_id
			WHERE tp.deleted_at IS NULL
		), 0)
		FROM tickets t
		WHERE t.deleted_at IS NULL
	`).Scan(&outstanding).Error

	return outstanding, err
}
