package gacha

import (
	"strconv"

	"github.com/cardclub/gacha-backend/internal/models"
)

// Draw performs one weighted draw against a version's rarity table:
// a cumulative-weight pick over the categories in declaration order,
// then a uniform pick of the card index within the selected category.
func Draw(version *models.GachaVersion, rng RandomSource) (*models.DrawResult, error) {
	if err := Validate(version); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = DefaultRNG()
	}

	r := rng.Intn(version.TotalWeight())
	var selected *models.RarityCategory
	for i := range version.Categories {
		r -= version.Categories[i].Weight
		if r < 0 {
			selected = &version.Categories[i]
			break
		}
	}
	// Unreachable when r starts in [0, totalWeight), kept as a guard
	if selected == nil {
		selected = &version.Categories[len(version.Categories)-1]
	}

	// Card indices are 1-based: prefix "SSR" with itemCount 5 yields SSR1..SSR5
	index := rng.Intn(selected.ItemCount) + 1

	return &models.DrawResult{
		Rarity:    selected.Name,
		ItemKey:   selected.Prefix + strconv.Itoa(index),
		VersionID: version.ID,
	}, nil
}
