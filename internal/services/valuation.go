package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/retroshelf/retroshelf/internal/metrics"
	"github.com/retroshelf/retroshelf/internal/models"
)

// ValuationService computes day-by-day cumulative valuations of a user's
// purchase collection. Read-only: it never writes and tolerates read skew
// with concurrent transaction inserts.
type ValuationService struct {
	db *gorm.DB
}

func NewValuationService(db *gorm.DB) *ValuationService {
	return &ValuationService{db: db}
}

// valuationPriceExpr selects the per-unit market price for a transaction by
// its recorded condition. Unknown or missing conditions value as loose.
const valuationPriceExpr = `
	CASE transactions.condition_id
		WHEN 2 THEN games.cib_avg_price
		WHEN 3 THEN games.new_avg_price
		WHEN 1 THEN games.loose_avg_price
		ELSE games.loose_avg_price
	END`

type valuationAggregate struct {
	Value float64
	Cost  float64
	Count int
}

type dailyAggregate struct {
	Date  string
	Value float64
	Cost  float64
	Count int
}

// ComputeMetrics returns one entry per calendar day from start to end
// inclusive, each carrying running totals over all of the user's purchases
// up to and including that day. Totals are seeded by an aggregate over
// everything strictly before start, so the series reflects the whole
// collection, not just the window.
func (s *ValuationService) ComputeMetrics(ctx context.Context, userID uint, startDate, endDate string) ([]models.DailyMetric, error) {
	start, end, err := parseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	timer := time.Now()

	initial, err := s.initialAggregate(ctx, userID, startDate)
	if err != nil {
		return nil, err
	}

	daily, err := s.dailyAggregates(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]dailyAggregate, len(daily))
	for _, d := range daily {
		byDate[d.Date] = d
	}

	runningValue := initial.Value
	runningCost := initial.Cost
	runningCount := initial.Count

	series := make([]models.DailyMetric, 0, int(end.Sub(start).Hours()/24)+1)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format("2006-01-02")
		if agg, ok := byDate[date]; ok {
			runningValue += agg.Value
			runningCost += agg.Cost
			runningCount += agg.Count
		}
		series = append(series, models.DailyMetric{
			Date:       date,
			TotalValue: round2(runningValue),
			TotalCost:  round2(runningCost),
			TotalCount: runningCount,
			Profit:     round2(runningValue - runningCost),
		})
	}

	// Every range produces at least one entry and the walk always lands on
	// the end date, but the series must close on it even if the boundary
	// arithmetic ever changes.
	if last := len(series) - 1; last < 0 || series[last].Date != endDate {
		carry := models.DailyMetric{Date: endDate}
		if last >= 0 {
			carry = series[last]
			carry.Date = endDate
		}
		series = append(series, carry)
	}

	metrics.ValuationDuration.Observe(time.Since(timer).Seconds())
	return series, nil
}

// initialAggregate sums value, cost and quantity over all purchases strictly
// before the range.
func (s *ValuationService) initialAggregate(ctx context.Context, userID uint, startDate string) (valuationAggregate, error) {
	var agg valuationAggregate
	err := s.db.WithContext(ctx).
		Table("transactions").
		Select(fmt.Sprintf(`
			COALESCE(SUM((%s) * transactions.quantity), 0) as value,
			COALESCE(SUM(transactions.price), 0) as cost,
			COALESCE(SUM(transactions.quantity), 0) as count
		`, valuationPriceExpr)).
		Joins("JOIN games ON games.id = transactions.game_id").
		Where("transactions.user_id = ?", userID).
		Where("transactions.transaction_type = ?", models.TransactionTypePurchase).
		Where("transactions.transaction_date < ?", startDate).
		Scan(&agg).Error
	if err != nil {
		return valuationAggregate{}, fmt.Errorf("failed to compute initial aggregate: %w", err)
	}
	return agg, nil
}

// dailyAggregates groups the in-range purchases by calendar day.
func (s *ValuationService) dailyAggregates(ctx context.Context, userID uint, startDate, endDate string) ([]dailyAggregate, error) {
	var daily []dailyAggregate
	err := s.db.WithContext(ctx).
		Table("transactions").
		Select(fmt.Sprintf(`
			transactions.transaction_date as date,
			COALESCE(SUM((%s) * transactions.quantity), 0) as value,
			COALESCE(SUM(transactions.price), 0) as cost,
			COALESCE(SUM(transactions.quantity), 0) as count
		`, valuationPriceExpr)).
		Joins("JOIN games ON games.id = transactions.game_id").
		Where("transactions.user_id = ?", userID).
		Where("transactions.transaction_type = ?", models.TransactionTypePurchase).
		Where("transactions.transaction_date BETWEEN ? AND ?", startDate, endDate).
		Group("transactions.transaction_date").
		Scan(&daily).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute daily aggregates: %w", err)
	}
	return daily, nil
}

// parseDateRange validates both bounds before any query runs. Dates are pure
// calendar dates; parsing in UTC keeps the day walk free of DST artifacts.
func parseDateRange(startDate, endDate string) (time.Time, time.Time, error) {
	if startDate == "" || endDate == "" {
		return time.Time{}, time.Time{}, validationErrorf("start_date and end_date are required")
	}
	start, err := time.ParseInLocation("2006-01-02", startDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, validationErrorf("start_date must be a YYYY-MM-DD date")
	}
	end, err := time.ParseInLocation("2006-01-02", endDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, validationErrorf("end_date must be a YYYY-MM-DD date")
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, validationErrorf("start_date must not be after end_date")
	}
	return start, end, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
