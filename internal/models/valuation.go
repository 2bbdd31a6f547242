package models

// DailyMetric is one day of the cumulative collection valuation series.
// TotalValue and TotalCount include every purchase up to and including Date;
// Profit is TotalValue minus TotalCost. Monetary fields are rounded to two
// decimals.
type DailyMetric struct {
	Date       string  `json:"date"`
	TotalValue float64 `json:"total_value"`
	TotalCost  float64 `json:"total_cost"`
	TotalCount int     `json:"total_count"`
	Profit     float64 `json:"profit"`
}
