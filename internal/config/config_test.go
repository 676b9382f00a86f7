package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Server.Port)
	assert.Equal(t, 3, cfg.Gacha.MaxDrawsPerDay)
	assert.Equal(t, "Asia/Tokyo", cfg.Gacha.Timezone)
	assert.True(t, cfg.Storage.MockStorage)
}

func TestEnvOverridesNestedKeys(t *testing.T) {
	// Nested keys bind as SECTION_FIELD, e.g. MEDIA_SIGNINGSECRET
	t.Setenv("MEDIA_SIGNINGSECRET", "secret-from-env")
	t.Setenv("GACHA_MAXDRAWSPERDAY", "5")
	t.Setenv("MONGODB_URI", "mongodb://db.internal:27017")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "secret-from-env", cfg.Media.SigningSecret)
	assert.Equal(t, 5, cfg.Gacha.MaxDrawsPerDay)
	assert.Equal(t, "mongodb://db.internal:27017", cfg.MongoDB.URI)
}
