package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // shop time zone must resolve on hosts without zoneinfo

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	GRPC     GRPCConfig
	Auth     AuthConfig
	Shop     ShopConfig
	Kafka    KafkaConfig
	Metrics  MetricsConfig
}

// AppConfig selects the runtime environment ("development" or "production").
type AppConfig struct {
	Env string
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	Driver string // sqlite3 or pgx
	DSN    string // file path for sqlite3, connection string for pgx
}

// GRPCConfig contains gRPC server settings.
type GRPCConfig struct {
	Address string // gRPC server listen address (e.g., ":50051")
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret string // JWT signing secret shared with the identity provider
	TokenTTL  time.Duration
}

// ShopConfig describes the workshop itself.
type ShopConfig struct {
	Timezone string // IANA zone that defines a calendar day in the queue
	Lat      float64
	Lng      float64
}

// KafkaConfig enables order events when Brokers is non-empty.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// MetricsConfig contains the prometheus listener; empty disables it.
type MetricsConfig struct {
	Address string
}

// Load loads configuration from the environment (and an optional .env file)
// and requires JWT_SECRET to be set.
func Load() (*Config, error) {
	cfg, err := load("")
	if err != nil {
		return nil, err
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set; required for production")
	}
	return cfg, nil
}

// LoadWithDefaults is like Load but uses a safe default for JWT_SECRET in development.
// WARNING: Only use in development! Use Load() in production.
func LoadWithDefaults() (*Config, error) {
	return load("dev-secret-change-me")
}

// LoadFile reads settings from a config file first; environment variables still win.
func LoadFile(path string) (*Config, error) {
	v := newViper("")
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return fromViper(v)
}

func load(defaultSecret string) (*Config, error) {
	// A missing .env file is normal outside development.
	_ = godotenv.Load()
	return fromViper(newViper(defaultSecret))
}

func newViper(defaultSecret string) *viper.Viper {
	v := viper.New()
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_DRIVER", "sqlite3")
	v.SetDefault("DB_DSN", "app.db")
	v.SetDefault("GRPC_ADDRESS", ":50051")
	v.SetDefault("METRICS_ADDRESS", "")
	v.SetDefault("JWT_SECRET", defaultSecret)
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("SHOP_TIMEZONE", "Asia/Jakarta")
	v.SetDefault("SHOP_LAT", -7.5629)
	v.SetDefault("SHOP_LNG", 110.8251)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "garage.orders")
	v.AutomaticEnv()
	return v
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{Env: v.GetString("APP_ENV")},
		Database: DatabaseConfig{
			Driver: v.GetString("DB_DRIVER"),
			DSN:    v.GetString("DB_DSN"),
		},
		GRPC: GRPCConfig{Address: v.GetString("GRPC_ADDRESS")},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
			TokenTTL:  v.GetDuration("TOKEN_TTL"),
		},
		Shop: ShopConfig{
			Timezone: v.GetString("SHOP_TIMEZONE"),
			Lat:      v.GetFloat64("SHOP_LAT"),
			Lng:      v.GetFloat64("SHOP_LNG"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC"),
		},
		Metrics: MetricsConfig{Address: v.GetString("METRICS_ADDRESS")},
	}
	if cfg.Auth.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive, got %s", cfg.Auth.TokenTTL)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Location resolves the shop time zone used for day boundaries.
func (c *Config) Location() (*time.Location, error) {
	if c.Shop.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Shop.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid SHOP_TIMEZONE %q: %w", c.Shop.Timezone, err)
	}
	return loc, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	return fmt.Sprintf("Config{Env: %s, DB: %s, gRPC: %s, Shop TZ: %s, Kafka: %v, Auth: *** (masked) ***}",
		c.App.Env, c.Database.Driver, c.GRPC.Address, c.Shop.Timezone, c.Kafka.Brokers)
}
