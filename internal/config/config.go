package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Gacha    GachaConfig
	Media    MediaConfig
	Storage  StorageConfig
	Admin    AdminConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds session-token configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int // seconds
}

// GachaConfig holds the rarity tables and the daily quota. Versions are
// immutable after load; there is no runtime mutation path.
type GachaConfig struct {
	MaxDrawsPerDay int
	Timezone       string // IANA name for the site-local quota day
	Versions       []VersionConfig
}

// VersionConfig mirrors models.GachaVersion for viper unmarshalling
type VersionConfig struct {
	ID             string           `mapstructure:"id"`
	DisplayTitle   string           `mapstructure:"displayTitle"`
	PackArtworkKey string           `mapstructure:"packArtworkKey"`
	Categories     []CategoryConfig `mapstructure:"categories"`
}

// CategoryConfig is one rarity tier entry of a version's table
type CategoryConfig struct {
	Name      string `mapstructure:"name"`
	Weight    int    `mapstructure:"weight"`
	ItemCount int    `mapstructure:"itemCount"`
	Prefix    string `mapstructure:"prefix"`
}

// MediaConfig holds the signed-URL scheme settings. The secret is loaded
// once at startup and never logged or transmitted.
type MediaConfig struct {
	SigningSecret string
	TokenTTL      time.Duration
}

// StorageConfig holds the object storage backend settings
type StorageConfig struct {
	BaseURL     string
	ServiceKey  string
	Bucket      string
	MockStorage bool
}

// AdminConfig holds the single administrative account used to gate the
// quota-bypass draw path
type AdminConfig struct {
	Email        string
	PasswordHash string // bcrypt
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// MEDIA_SIGNINGSECRET and friends map onto the nested keys
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	// Missing config file is fine, environment variables take over
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "cardclub-gacha")
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("Gacha.MaxDrawsPerDay", 3)
	viper.SetDefault("Gacha.Timezone", "Asia/Tokyo")
	viper.SetDefault("Media.TokenTTL", time.Hour)
	viper.SetDefault("Storage.Bucket", "card-artwork")
	viper.SetDefault("Storage.MockStorage", true)
	viper.SetDefault("LogLevel", "info")

	// Secret-bearing keys default to empty so they stay visible to
	// Unmarshal when supplied only through the environment
	viper.SetDefault("JWT.Secret", "")
	viper.SetDefault("Media.SigningSecret", "")
	viper.SetDefault("Storage.BaseURL", "")
	viper.SetDefault("Storage.ServiceKey", "")
	viper.SetDefault("Admin.Email", "")
	viper.SetDefault("Admin.PasswordHash", "")
}
