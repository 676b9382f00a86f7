package services

import (
	"github.com/cardclub/gacha-backend/internal/config"
	"github.com/cardclub/gacha-backend/internal/gacha"
	"github.com/cardclub/gacha-backend/internal/models"
)

// VersionRegistry is the immutable set of gacha versions loaded from
// configuration at startup. It is built once, validated, and passed
// explicitly to the services that need it; there is no mutable global table.
type VersionRegistry struct {
	versions map[string]*models.GachaVersion
	order    []string
}

// NewVersionRegistry converts and validates the configured versions.
// Any malformed rarity table aborts startup with a ConfigError.
func NewVersionRegistry(cfg config.GachaConfig) (*VersionRegistry, error) {
	r := &VersionRegistry{versions: make(map[string]*models.GachaVersion)}
	for _, vc := range cfg.Versions {
		version := &models.GachaVersion{
			ID:             vc.ID,
			DisplayTitle:   vc.DisplayTitle,
			PackArtworkKey: vc.PackArtworkKey,
		}
		for _, cc := range vc.Categories {
			version.Categories = append(version.Categories, models.RarityCategory{
				Name:      models.RarityTier(cc.Name),
				Weight:    cc.Weight,
				ItemCount: cc.ItemCount,
				Prefix:    cc.Prefix,
			})
		}
		if err := gacha.Validate(version); err != nil {
			return nil, err
		}
		if _, exists := r.versions[version.ID]; exists {
			return nil, &models.ConfigError{VersionID: version.ID, Reason: "duplicate version id"}
		}
		r.versions[version.ID] = version
		r.order = append(r.order, version.ID)
	}
	if len(r.order) == 0 {
		return nil, &models.ConfigError{Reason: "no gacha versions configured"}
	}
	return r, nil
}

// Get looks up a version by id
func (r *VersionRegistry) Get(id string) (*models.GachaVersion, bool) {
	v, ok := r.versions[id]
	return v, ok
}

// List returns all versions in configuration order
func (r *VersionRegistry) List() []*models.GachaVersion {
	out := make([]*models.GachaVersion, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.versions[id])
	}
	return out
}
