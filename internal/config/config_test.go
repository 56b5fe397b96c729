package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigLayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlBody := `
server:
  port: "9090"
database:
  driver: memory
jwt:
  secret: from-file
students:
  id_prefix: PFX
rate_limit:
  requests: 50
  window: 30s
`
	if err := os.WriteFile(path, []byte(yamlBody), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("SERVER_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("RATE_LIMIT_WINDOW", "2m")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("port = %q, want value from file", cfg.Server.Port)
	}
	if cfg.JWT.Secret != "from-env" {
		t.Errorf("secret = %q, env must override file", cfg.JWT.Secret)
	}
	if cfg.Students.IDPrefix != "PFX" {
		t.Errorf("prefix = %q", cfg.Students.IDPrefix)
	}
	if cfg.RateLimit.Requests != 50 || cfg.RateLimit.Window != 2*time.Minute {
		t.Errorf("rate limit = %d per %s", cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "http://b.test" {
		t.Errorf("origins = %v", cfg.Server.AllowedOrigins)
	}
	if cfg.AccessTokenTTL() != 24*time.Hour {
		t.Errorf("default token ttl = %s", cfg.AccessTokenTTL())
	}
}

func TestValidateConfig(t *testing.T) {
	base := func() *Config {
		c := &Config{}
		setDefaults(c)
		c.JWT.Secret = "secret"
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"missing secret", func(c *Config) { c.JWT.Secret = "" }, true},
		{"unknown driver", func(c *Config) { c.Database.Driver = "sqlite" }, true},
		{"memory needs no host", func(c *Config) { c.Database.Driver = DriverMemory; c.Database.Host = "" }, false},
		{"bad expiration", func(c *Config) { c.JWT.AccessTokenExpiration = "soon" }, true},
		{"empty prefix", func(c *Config) { c.Students.IDPrefix = "" }, true},
		{"zero rate limit", func(c *Config) { c.RateLimit.Requests = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := validateConfig(c)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
