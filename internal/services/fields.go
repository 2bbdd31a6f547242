package services

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/retroshelf/retroshelf/internal/models"
)

// Proposed changes arrive as JSON, so every value is a string, a float64, a
// bool or nil. The setters below coerce and validate into the concrete
// column types; a mismatch fails the whole proposal.

type gameSetter func(*models.Game, any) error
type cardSetter func(*models.Card, any) error

var gameFieldSetters = map[string]gameSetter{
	"title": func(g *models.Game, v any) error {
		s, err := asString("title", v)
		if err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			return validationErrorf("field 'title' cannot be empty")
		}
		g.Title = s
		return nil
	},
	"region": func(g *models.Game, v any) error {
		return setString("region", v, &g.Region)
	},
	"description": func(g *models.Game, v any) error {
		return setString("description", v, &g.Description)
	},
	"developer": func(g *models.Game, v any) error {
		return setString("developer", v, &g.Developer)
	},
	"publisher": func(g *models.Game, v any) error {
		return setString("publisher", v, &g.Publisher)
	},
	"cover_url": func(g *models.Game, v any) error {
		return setString("cover_url", v, &g.CoverURL)
	},
	"compatible_on": func(g *models.Game, v any) error {
		return setString("compatible_on", v, &g.CompatibleOn)
	},
	"cartridge_number": func(g *models.Game, v any) error {
		return setString("cartridge_number", v, &g.CartridgeNumber)
	},
	"package_number": func(g *models.Game, v any) error {
		return setString("package_number", v, &g.PackageNumber)
	},
	"currency": func(g *models.Game, v any) error {
		return setString("currency", v, &g.Currency)
	},
	"release_date": func(g *models.Game, v any) error {
		if v == nil {
			g.ReleaseDate = nil
			return nil
		}
		s, err := asString("release_date", v)
		if err != nil {
			return err
		}
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return validationErrorf("field 'release_date' must be a YYYY-MM-DD date")
		}
		g.ReleaseDate = &t
		return nil
	},
	"genre_id": func(g *models.Game, v any) error {
		return setUintPtr("genre_id", v, &g.GenreID)
	},
	"pegi_rating": func(g *models.Game, v any) error {
		return setIntPtr("pegi_rating", v, &g.PegiRating)
	},
	"disc_count": func(g *models.Game, v any) error {
		return setIntPtr("disc_count", v, &g.DiscCount)
	},
	"player_count": func(g *models.Game, v any) error {
		return setIntPtr("player_count", v, &g.PlayerCount)
	},
	"upc_number": func(g *models.Game, v any) error {
		return setStringPtr("upc_number", v, &g.UPCNumber)
	},
	"gtin_number": func(g *models.Game, v any) error {
		return setStringPtr("gtin_number", v, &g.GTINNumber)
	},
	"asin_number": func(g *models.Game, v any) error {
		return setStringPtr("asin_number", v, &g.ASINNumber)
	},
	"loose_avg_price": func(g *models.Game, v any) error {
		return setPrice("loose_avg_price", v, &g.LooseAvgPrice)
	},
	"cib_avg_price": func(g *models.Game, v any) error {
		return setPrice("cib_avg_price", v, &g.CIBAvgPrice)
	},
	"new_avg_price": func(g *models.Game, v any) error {
		return setPrice("new_avg_price", v, &g.NewAvgPrice)
	},
}

var cardFieldSetters = map[string]cardSetter{
	"title": func(c *models.Card, v any) error {
		s, err := asString("title", v)
		if err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			return validationErrorf("field 'title' cannot be empty")
		}
		c.Title = s
		return nil
	},
	"card_number": func(c *models.Card, v any) error {
		return setString("card_number", v, &c.CardNumber)
	},
	"rarity": func(c *models.Card, v any) error {
		return setString("rarity", v, &c.Rarity)
	},
	"edition_id": func(c *models.Card, v any) error {
		return setUintPtr("edition_id", v, &c.EditionID)
	},
}

func asString(field string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", validationErrorf("field '%s' must be a string", field)
	}
	return s, nil
}

func asFloat(field string, v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, validationErrorf("field '%s' must be a number", field)
		}
		return f, nil
	default:
		return 0, validationErrorf("field '%s' must be a number", field)
	}
}

func asInt(field string, v any) (int, error) {
	f, err := asFloat(field, v)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, validationErrorf("field '%s' must be an integer", field)
	}
	return int(f), nil
}

func setString(field string, v any, dst *string) error {
	s, err := asString(field, v)
	if err != nil {
		return err
	}
	*dst = s
	return nil
}

func setStringPtr(field string, v any, dst **string) error {
	if v == nil {
		*dst = nil
		return nil
	}
	s, err := asString(field, v)
	if err != nil {
		return err
	}
	*dst = &s
	return nil
}

func setIntPtr(field string, v any, dst **int) error {
	if v == nil {
		*dst = nil
		return nil
	}
	n, err := asInt(field, v)
	if err != nil {
		return err
	}
	*dst = &n
	return nil
}

func setUintPtr(field string, v any, dst **uint) error {
	if v == nil {
		*dst = nil
		return nil
	}
	n, err := asInt(field, v)
	if err != nil {
		return err
	}
	if n < 0 {
		return validationErrorf("field '%s' must not be negative", field)
	}
	u := uint(n)
	*dst = &u
	return nil
}

func setPrice(field string, v any, dst *float64) error {
	f, err := asFloat(field, v)
	if err != nil {
		return err
	}
	if f < 0 {
		return validationErrorf("field '%s' must not be negative", field)
	}
	*dst = f
	return nil
}

func changeIDField(id uint) zap.Field {
	return zap.Uint("change_id", id)
}
