package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("server.port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Database.Name != "data_fusion_hub" {
		t.Errorf("database.name = %s, want data_fusion_hub", cfg.Database.Name)
	}
	if cfg.Auth.TokenExpiry != 30*time.Minute {
		t.Errorf("auth.token_expiry = %s, want 30m", cfg.Auth.TokenExpiry)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("logging.format = %s, want json", cfg.Logging.Format)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9000
database:
  host: db.internal
  name: catalog
  ssl_mode: require
logging:
  level: debug
  format: text
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("server.port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("database.host = %s, want db.internal", cfg.Database.Host)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging.level = %s, want debug", cfg.Logging.Level)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("DFH_DATABASE_HOST", "env-db")
	t.Setenv("DFH_SERVER_PORT", "8443")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Database.Host != "env-db" {
		t.Errorf("database.host = %s, want env-db", cfg.Database.Host)
	}
	if cfg.Server.Port != 8443 {
		t.Errorf("server.port = %d, want 8443", cfg.Server.Port)
	}
}

func TestDatabaseURLWinsOverComposedDSN(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/catalog?sslmode=disable")
	t.Setenv("DFH_DATABASE_HOST", "ignored")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := cfg.Database.GetDSN(); got != "postgres://u:p@db:5432/catalog?sslmode=disable" {
		t.Errorf("GetDSN = %s, want DATABASE_URL verbatim", got)
	}
}

func TestGetDSNComposed(t *testing.T) {
	c := DatabaseConfig{
		Host: "localhost", Port: 5432, User: "fusion", Password: "secret",
		Name: "data_fusion_hub", SSLMode: "disable",
	}
	want := "host=localhost port=5432 user=fusion password=secret dbname=data_fusion_hub sslmode=disable"
	if got := c.GetDSN(); got != want {
		t.Errorf("GetDSN = %q, want %q", got, want)
	}
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Server.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for port 0")
	}
}

func TestValidateRejectsNonPositiveExpiry(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Auth.TokenExpiry = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for zero token expiry")
	}
}
