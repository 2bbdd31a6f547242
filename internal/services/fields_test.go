package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retroshelf/retroshelf/internal/models"
)

func applyGameField(t *testing.T, game *models.Game, field string, value any) error {
	t.Helper()
	setter, ok := gameFieldSetters[field]
	require.True(t, ok, "field %q not in allow-list", field)
	return setter(game, value)
}

func TestGameFieldSetters(t *testing.T) {
	var game models.Game

	require.NoError(t, applyGameField(t, &game, "title", "Tetris DX"))
	assert.Equal(t, "Tetris DX", game.Title)

	require.NoError(t, applyGameField(t, &game, "loose_avg_price", 12.5))
	assert.Equal(t, 12.5, game.LooseAvgPrice)

	// JSON numbers decode to float64; whole ones land in int columns.
	require.NoError(t, applyGameField(t, &game, "disc_count", float64(2)))
	require.NotNil(t, game.DiscCount)
	assert.Equal(t, 2, *game.DiscCount)

	require.NoError(t, applyGameField(t, &game, "upc_number", "0045496730413"))
	require.NotNil(t, game.UPCNumber)
	assert.Equal(t, "0045496730413", *game.UPCNumber)

	// Nil clears nullable columns.
	require.NoError(t, applyGameField(t, &game, "upc_number", nil))
	assert.Nil(t, game.UPCNumber)

	require.NoError(t, applyGameField(t, &game, "release_date", "1995-11-21"))
	require.NotNil(t, game.ReleaseDate)
	assert.Equal(t, 1995, game.ReleaseDate.Year())
}

func TestGameFieldSettersRejectBadValues(t *testing.T) {
	var game models.Game

	cases := []struct {
		field string
		value any
	}{
		{"title", 42},
		{"title", ""},
		{"title", "   "},
		{"loose_avg_price", "12.5"},
		{"loose_avg_price", -1.0},
		{"disc_count", 1.5},
		{"pegi_rating", "3"},
		{"genre_id", float64(-2)},
		{"release_date", "21/11/1995"},
		{"upc_number", 12345},
	}
	for _, tc := range cases {
		err := applyGameField(t, &game, tc.field, tc.value)
		var validation *ValidationError
		assert.ErrorAs(t, err, &validation, "field %q value %v", tc.field, tc.value)
	}
}

func TestImmutableFieldsNotInAllowList(t *testing.T) {
	for _, field := range []string{"id", "console_id", "created_at", "updated_at", "prices"} {
		_, ok := gameFieldSetters[field]
		assert.False(t, ok, "field %q must not be editable", field)
	}
	for _, field := range []string{"id", "created_at"} {
		_, ok := cardFieldSetters[field]
		assert.False(t, ok, "card field %q must not be editable", field)
	}
}
