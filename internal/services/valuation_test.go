package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/retroshelf/retroshelf/internal/models"
)

func createPurchase(t *testing.T, db *gorm.DB, userID, gameID uint, date string, quantity int, price float64, conditionID int) {
	t.Helper()

	require.NoError(t, db.Create(&models.Transaction{
		UserID:          userID,
		GameID:          gameID,
		TransactionType: models.TransactionTypePurchase,
		Quantity:        quantity,
		Price:           price,
		TransactionDate: date,
		ConditionID:     conditionID,
	}).Error)
}

func TestComputeMetricsValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewValuationService(db)
	ctx := context.Background()

	cases := []struct {
		name  string
		start string
		end   string
	}{
		{"missing start", "", "2024-01-05"},
		{"missing end", "2024-01-01", ""},
		{"malformed start", "01/01/2024", "2024-01-05"},
		{"malformed end", "2024-01-01", "2024-13-40"},
		{"inverted range", "2024-01-05", "2024-01-01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ComputeMetrics(ctx, 1, tc.start, tc.end)
			var validation *ValidationError
			require.ErrorAs(t, err, &validation)
		})
	}
}

func TestComputeMetricsEmptyCollection(t *testing.T) {
	db := setupTestDB(t)
	svc := NewValuationService(db)
	user := createUser(t, db, "alice")

	series, err := svc.ComputeMetrics(context.Background(), user.ID, "2024-01-01", "2024-01-05")
	require.NoError(t, err)
	require.Len(t, series, 5)

	wantDates := []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05"}
	for i, entry := range series {
		assert.Equal(t, wantDates[i], entry.Date)
		assert.Zero(t, entry.TotalValue)
		assert.Zero(t, entry.TotalCost)
		assert.Zero(t, entry.TotalCount)
		assert.Zero(t, entry.Profit)
	}
}

func TestComputeMetricsInitialAggregateSeedsSeries(t *testing.T) {
	db := setupTestDB(t)
	svc := NewValuationService(db)
	user := createUser(t, db, "alice")
	console := createConsole(t, db)
	game := createGameItem(t, db, console.ID, "Tetris") // new_avg_price 60

	// One purchase before the window: 2 sealed copies, 45.00 paid in total.
	createPurchase(t, db, user.ID, game.ID, "2023-12-31", 2, 45, models.ConditionNew)

	series, err := svc.ComputeMetrics(context.Background(), user.ID, "2024-01-01", "2024-01-03")
	require.NoError(t, err)
	require.Len(t, series, 3)

	for _, entry := range series {
		assert.Equal(t, 120.0, entry.TotalValue) // 2 × new_avg_price
		assert.Equal(t, 45.0, entry.TotalCost)
		assert.Equal(t, 2, entry.TotalCount)
		assert.Equal(t, 75.0, entry.Profit)
	}
}

func TestComputeMetricsCumulativeWalk(t *testing.T) {
	db := setupTestDB(t)
	svc := NewValuationService(db)
	user := createUser(t, db, "alice")
	console := createConsole(t, db)
	game := createGameItem(t, db, console.ID, "Tetris") // loose 10, cib 25

	createPurchase(t, db, user.ID, game.ID, "2024-01-02", 1, 8, models.ConditionLoose)
	createPurchase(t, db, user.ID, game.ID, "2024-01-04", 2, 40, models.ConditionCIB)
	// Same day, second purchase: aggregates within the day must sum.
	createPurchase(t, db, user.ID, game.ID, "2024-01-04", 1, 9, models.ConditionLoose)

	series, err := svc.ComputeMetrics(context.Background(), user.ID, "2024-01-01", "2024-01-05")
	require.NoError(t, err)
	require.Len(t, series, 5)

	want := []models.DailyMetric{
		{Date: "2024-01-01", TotalValue: 0, TotalCost: 0, TotalCount: 0, Profit: 0},
		{Date: "2024-01-02", TotalValue: 10, TotalCost: 8, TotalCount: 1, Profit: 2},
		{Date: "2024-01-03", TotalValue: 10, TotalCost: 8, TotalCount: 1, Profit: 2},
		{Date: "2024-01-04", TotalValue: 70, TotalCost: 57, TotalCount: 4, Profit: 13},
		{Date: "2024-01-05", TotalValue: 70, TotalCost: 57, TotalCount: 4, Profit: 13},
	}
	assert.Equal(t, want, series)
}

func TestComputeMetricsCountMonotonic(t *testing.T) {
	db := setupTestDB(t)
	svc := NewValuationService(db)
	user := createUser(t, db, "alice")
	console := createConsole(t, db)
	game := createGameItem(t, db, console.ID, "Tetris")

	createPurchase(t, db, user.ID, game.ID, "2024-01-01", 3, 10, models.ConditionLoose)
	createPurchase(t, db, user.ID, game.ID, "2024-01-03", 1, 10, models.ConditionLoose)
	createPurchase(t, db, user.ID, game.ID, "2024-01-07", 5, 10, models.ConditionLoose)

	series, err := svc.ComputeMetrics(context.Background(), user.ID, "2024-01-01", "2024-01-10")
	require.NoError(t, err)
	require.Len(t, series, 10)

	prev := 0
	for _, entry := range series {
		assert.GreaterOrEqual(t, entry.TotalCount, prev)
		prev = entry.TotalCount
	}
	assert.Equal(t, 9, series[len(series)-1].TotalCount)
}

func TestComputeMetricsConditionPriceMapping(t *testing.T) {
	db := setupTestDB(t)
	svc := NewValuationService(db)
	user := createUser(t, db, "alice")
	console := createConsole(t, db)
	game := createGameItem(t, db, console.ID, "Tetris") // loose 10, cib 25, new 60

	createPurchase(t, db, user.ID, game.ID, "2024-01-01", 1, 0, models.ConditionLoose)
	createPurchase(t, db, user.ID, game.ID, "2024-01-01", 1, 0, models.ConditionCIB)
	createPurchase(t, db, user.ID, game.ID, "2024-01-01", 1, 0, models.ConditionNew)
	// Unknown condition falls back to loose.
	createPurchase(t, db, user.ID, game.ID, "2024-01-01", 1, 0, 7)

	series, err := svc.ComputeMetrics(context.Background(), user.ID, "2024-01-01", "2024-01-01")
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, 105.0, series[0].TotalValue) // 10 + 25 + 60 + 10
	assert.Equal(t, 4, series[0].TotalCount)
}

func TestComputeMetricsIgnoresOtherUsersAndSales(t *testing.T) {
	db := setupTestDB(t)
	svc := NewValuationService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	console := createConsole(t, db)
	game := createGameItem(t, db, console.ID, "Tetris")

	createPurchase(t, db, alice.ID, game.ID, "2024-01-01", 1, 10, models.ConditionLoose)
	createPurchase(t, db, bob.ID, game.ID, "2024-01-01", 5, 50, models.ConditionLoose)
	require.NoError(t, db.Create(&models.Transaction{
		UserID:          alice.ID,
		GameID:          game.ID,
		TransactionType: models.TransactionTypeSale,
		Quantity:        1,
		Price:           20,
		TransactionDate: "2024-01-02",
		ConditionID:     models.ConditionLoose,
	}).Error)

	series, err := svc.ComputeMetrics(context.Background(), alice.ID, "2024-01-01", "2024-01-03")
	require.NoError(t, err)
	for _, entry := range series {
		assert.Equal(t, 1, entry.TotalCount)
		assert.Equal(t, 10.0, entry.TotalValue)
	}
}

func TestComputeMetricsRoundsToTwoDecimals(t *testing.T) {
	db := setupTestDB(t)
	svc := NewValuationService(db)
	user := createUser(t, db, "alice")
	console := createConsole(t, db)

	item := models.Item{Kind: models.ItemKindGame}
	require.NoError(t, db.Create(&item).Error)
	game := models.Game{
		ID:            item.ID,
		ConsoleID:     console.ID,
		Title:         "Odd Pricing",
		Region:        "PAL",
		LooseAvgPrice: 3.333,
		Currency:      "EUR",
	}
	require.NoError(t, db.Create(&game).Error)

	createPurchase(t, db, user.ID, game.ID, "2024-01-01", 3, 9.999, models.ConditionLoose)

	series, err := svc.ComputeMetrics(context.Background(), user.ID, "2024-01-01", "2024-01-01")
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, 10.0, series[0].TotalValue) // 3 × 3.333 = 9.999 → 10.00
	assert.Equal(t, 10.0, series[0].TotalCost)
	assert.Equal(t, 0.0, series[0].Profit)
}

func TestComputeMetricsSingleDayEndsOnEndDate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewValuationService(db)
	user := createUser(t, db, "alice")

	series, err := svc.ComputeMetrics(context.Background(), user.ID, "2024-02-29", "2024-02-29")
	require.NoError(t, err)
	// Exactly one entry: the guard must not duplicate the end date.
	require.Len(t, series, 1)
	assert.Equal(t, "2024-02-29", series[0].Date)
}

func TestComputeMetricsCrossesMonthBoundary(t *testing.T) {
	db := setupTestDB(t)
	svc := NewValuationService(db)
	user := createUser(t, db, "alice")

	series, err := svc.ComputeMetrics(context.Background(), user.ID, "2024-01-30", "2024-02-02")
	require.NoError(t, err)
	require.Len(t, series, 4)
	assert.Equal(t, "2024-01-30", series[0].Date)
	assert.Equal(t, "2024-01-31", series[1].Date)
	assert.Equal(t, "2024-02-01", series[2].Date)
	assert.Equal(t, "2024-02-02", series[3].Date)
}
