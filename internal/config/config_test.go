package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadWithDefaults_Succeeds(t *testing.T) {
	// Ensure envs are clean to use defaults
	for _, k := range []string{"DB_DRIVER", "DB_DSN", "GRPC_ADDRESS", "JWT_SECRET", "SHOP_TIMEZONE", "KAFKA_BROKERS", "TOKEN_TTL"} {
		os.Unsetenv(k)
	}
	cfg, err := LoadWithDefaults()
	if err != nil {
		t.Fatalf("LoadWithDefaults: %v", err)
	}
	if cfg.GRPC.Address == "" || cfg.Database.DSN == "" || cfg.Auth.JWTSecret == "" {
		t.Fatalf("unexpected empty defaults: %+v", cfg)
	}
	if cfg.Database.Driver != "sqlite3" || cfg.Auth.TokenTTL != 24*time.Hour || len(cfg.Kafka.Brokers) != 0 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	os.Unsetenv("JWT_SECRET")
	t.Setenv("DB_DSN", "test.db")
	t.Setenv("GRPC_ADDRESS", ":1234")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when JWT_SECRET is not set")
	}
	t.Setenv("JWT_SECRET", "x")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with secret set: %v", err)
	}
	if cfg.GRPC.Address != ":1234" || cfg.Database.DSN != "test.db" {
		t.Fatalf("env not applied: %+v", cfg)
	}
}

func TestLoad_KafkaBrokersAndTimezone(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("SHOP_TIMEZONE", "UTC")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Fatalf("brokers = %v", cfg.Kafka.Brokers)
	}
	loc, err := cfg.Location()
	if err != nil || loc != time.UTC {
		t.Fatalf("location = %v err=%v", loc, err)
	}

	t.Setenv("SHOP_TIMEZONE", "Mars/Olympus")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown time zone")
	}
}

func TestLoadFile_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garage.yaml")
	if err := os.WriteFile(path, []byte("GRPC_ADDRESS: \":7000\"\nJWT_SECRET: file-secret\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	os.Unsetenv("GRPC_ADDRESS")
	t.Setenv("JWT_SECRET", "env-secret")
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.GRPC.Address != ":7000" || cfg.Auth.JWTSecret != "env-secret" {
		t.Fatalf("unexpected merge: %+v", cfg)
	}
	if strings.Contains(cfg.String(), "env-secret") {
		t.Fatalf("String() leaks the secret")
	}
}
