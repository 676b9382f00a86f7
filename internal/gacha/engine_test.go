package gacha

import (
	"strconv"
	"strings"
	"testing"

	"github.com/cardclub/gacha-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRNG replays a fixed sequence of values so draws are exact
type scriptedRNG struct {
	values []int
	pos    int
}

func (s *scriptedRNG) Intn(n int) int {
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v % n
}

func testVersion() *models.GachaVersion {
	return &models.GachaVersion{
		ID:           "v1",
		DisplayTitle: "First Pack",
		Categories: []models.RarityCategory{
			{Name: "COMMON", Weight: 225, ItemCount: 20, Prefix: "C"},
			{Name: "SECRET", Weight: 1, ItemCount: 1, Prefix: "X"},
		},
	}
}

func TestDrawSelectsFirstCategoryDeterministically(t *testing.T) {
	// First value picks within COMMON's [0,225) weight range, second picks
	// inner index 5 (0-based 4 -> card 5).
	rng := &scriptedRNG{values: []int{0, 4}}

	result, err := Draw(testVersion(), rng)
	require.NoError(t, err)
	assert.Equal(t, models.RarityTier("COMMON"), result.Rarity)
	assert.Equal(t, "C5", result.ItemKey)
	assert.Equal(t, "v1", result.VersionID)
}

func TestDrawSelectsLastCategoryAtWeightBoundary(t *testing.T) {
	// 225 is the first value in SECRET's cumulative range
	rng := &scriptedRNG{values: []int{225, 0}}

	result, err := Draw(testVersion(), rng)
	require.NoError(t, err)
	assert.Equal(t, models.RarityTier("SECRET"), result.Rarity)
	assert.Equal(t, "X1", result.ItemKey)
}

func TestDrawItemKeyAlwaysInRange(t *testing.T) {
	version := &models.GachaVersion{
		ID: "v2",
		Categories: []models.RarityCategory{
			{Name: "R", Weight: 10, ItemCount: 3, Prefix: "R"},
			{Name: "SR", Weight: 5, ItemCount: 7, Prefix: "SR"},
			{Name: "SSR", Weight: 1, ItemCount: 2, Prefix: "SSR"},
		},
	}
	counts := map[string]int{"R": 3, "SR": 7, "SSR": 2}

	rng := NewSeededRNG(42)
	for i := 0; i < 5000; i++ {
		result, err := Draw(version, rng)
		require.NoError(t, err)

		var prefix string
		for p := range counts {
			if strings.HasPrefix(result.ItemKey, p) && len(p) > len(prefix) {
				prefix = p
			}
		}
		require.NotEmpty(t, prefix, "item key %q has no known prefix", result.ItemKey)

		index, err := strconv.Atoi(result.ItemKey[len(prefix):])
		require.NoError(t, err, "item key %q has non-numeric index", result.ItemKey)
		assert.GreaterOrEqual(t, index, 1)
		assert.LessOrEqual(t, index, counts[prefix])
	}
}

func TestDrawFrequenciesConvergeToWeights(t *testing.T) {
	version := &models.GachaVersion{
		ID: "v3",
		Categories: []models.RarityCategory{
			{Name: "COMMON", Weight: 70, ItemCount: 10, Prefix: "C"},
			{Name: "RARE", Weight: 25, ItemCount: 5, Prefix: "R"},
			{Name: "SSR", Weight: 5, ItemCount: 2, Prefix: "S"},
		},
	}

	const samples = 200000
	rng := NewSeededRNG(7)
	tally := map[models.RarityTier]int{}
	for i := 0; i < samples; i++ {
		result, err := Draw(version, rng)
		require.NoError(t, err)
		tally[result.Rarity]++
	}

	total := float64(version.TotalWeight())
	for _, c := range version.Categories {
		expected := float64(c.Weight) / total
		observed := float64(tally[c.Name]) / samples
		assert.InDelta(t, expected, observed, 0.01, "category %s", c.Name)
	}
}

func TestDrawSameSeedSameSequence(t *testing.T) {
	version := testVersion()
	a := NewSeededRNG(99)
	b := NewSeededRNG(99)
	for i := 0; i < 100; i++ {
		ra, err := Draw(version, a)
		require.NoError(t, err)
		rb, err := Draw(version, b)
		require.NoError(t, err)
		assert.Equal(t, ra, rb)
	}
}

func TestValidateRejectsMalformedTables(t *testing.T) {
	tests := []struct {
		name    string
		version *models.GachaVersion
	}{
		{
			name:    "no categories",
			version: &models.GachaVersion{ID: "bad"},
		},
		{
			name: "zero weight",
			version: &models.GachaVersion{ID: "bad", Categories: []models.RarityCategory{
				{Name: "C", Weight: 0, ItemCount: 1, Prefix: "C"},
			}},
		},
		{
			name: "negative weight",
			version: &models.GachaVersion{ID: "bad", Categories: []models.RarityCategory{
				{Name: "C", Weight: -3, ItemCount: 1, Prefix: "C"},
			}},
		},
		{
			name: "zero item count",
			version: &models.GachaVersion{ID: "bad", Categories: []models.RarityCategory{
				{Name: "C", Weight: 1, ItemCount: 0, Prefix: "C"},
			}},
		},
		{
			name: "missing id",
			version: &models.GachaVersion{Categories: []models.RarityCategory{
				{Name: "C", Weight: 1, ItemCount: 1, Prefix: "C"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.version)
			require.Error(t, err)
			var cfgErr *models.ConfigError
			assert.ErrorAs(t, err, &cfgErr)

			_, drawErr := Draw(tt.version, NewSeededRNG(1))
			assert.Error(t, drawErr)
		})
	}
}
