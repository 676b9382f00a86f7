package gacha

import (
	"fmt"

	"github.com/cardclub/gacha-backend/internal/models"
)

// Validate checks a version's rarity table for the invariants the engine
// relies on. Run at startup for every configured version; a failure is fatal
// and the process must not serve traffic.
func Validate(version *models.GachaVersion) error {
	if version.ID == "" {
		return &models.ConfigError{VersionID: version.ID, Reason: "missing version id"}
	}
	if len(version.Categories) == 0 {
		return &models.ConfigError{VersionID: version.ID, Reason: "no rarity categories"}
	}
	for i, c := range version.Categories {
		if c.Weight <= 0 {
			return &models.ConfigError{
				VersionID: version.ID,
				Reason:    fmt.Sprintf("category %d (%s): weight must be positive, got %d", i, c.Name, c.Weight),
			}
		}
		if c.ItemCount < 1 {
			return &models.ConfigError{
				VersionID: version.ID,
				Reason:    fmt.Sprintf("category %d (%s): itemCount must be >= 1, got %d", i, c.Name, c.ItemCount),
			}
		}
	}
	if version.TotalWeight() <= 0 {
		return &models.ConfigError{VersionID: version.ID, Reason: "total weight must be positive"}
	}
	return nil
}
