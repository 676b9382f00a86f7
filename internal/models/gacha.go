package models

// RarityTier is the named category of a draw outcome (e.g. "COMMON", "SSR")
type RarityTier string

// RarityCategory declares one tier of a gacha version: its relative weight,
// how many distinct cards it contains, and the prefix used to enumerate them
type RarityCategory struct {
	Name      RarityTier `json:"name"`
	Weight    int        `json:"weight"`
	ItemCount int        `json:"itemCount"`
	Prefix    string     `json:"prefix"`
}

// GachaVersion is one card pack: an ordered rarity table plus display data.
// Versions are immutable, defined at deploy time in configuration.
type GachaVersion struct {
	ID             string           `json:"id"`
	DisplayTitle   string           `json:"displayTitle"`
	PackArtworkKey string           `json:"packArtworkKey,omitempty"`
	Categories     []RarityCategory `json:"categories"`
}

// TotalWeight sums the relative weights of all categories
func (v *GachaVersion) TotalWeight() int {
	total := 0
	for _, c := range v.Categories {
		total += c.Weight
	}
	return total
}

// DrawResult is the outcome of a single draw, ephemeral until persisted
// as a CollectionEntry
type DrawResult struct {
	Rarity    RarityTier `json:"rarity"`
	ItemKey   string     `json:"itemKey"`
	VersionID string     `json:"versionId"`
}
