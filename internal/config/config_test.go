package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 8080 || !cfg.IsDevelopment() {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.API.CORSOrigins) != 1 || cfg.API.CORSOrigins[0] != cfg.BaseURL {
		t.Errorf("CORS origins should default to BASE_URL, got %v", cfg.API.CORSOrigins)
	}
	if cfg.API.TokenCacheTTL != 10*time.Minute {
		t.Errorf("TokenCacheTTL = %v", cfg.API.TokenCacheTTL)
	}
}

func TestLoad_ReadsEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, ,https://b.example.com")
	t.Setenv("API_RATE_LIMIT", "0")
	t.Setenv("TOKEN_CACHE_TTL", "90s")
	t.Setenv("CALENDAR_TIMEZONE", "Europe/Berlin")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("Port = %d", cfg.Port)
	}
	if strings.Join(cfg.API.CORSOrigins, "|") != "https://a.example.com|https://b.example.com" {
		t.Errorf("CORSOrigins = %v", cfg.API.CORSOrigins)
	}
	if cfg.API.RateLimit != 0 || cfg.API.TokenCacheTTL != 90*time.Second {
		t.Errorf("API = %+v", cfg.API)
	}
	if cfg.Calendar.Location().String() != "Europe/Berlin" {
		t.Errorf("Location = %v", cfg.Calendar.Location())
	}
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad timezone", map[string]string{"CALENDAR_TIMEZONE": "Nowhere/Town"}},
		{"negative rate limit", map[string]string{"API_RATE_LIMIT": "-1"}},
		{"dev password in production", map[string]string{"ENV": "production"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", User: "u", Password: "p@ss:word", Name: "cal"}
	dsn := d.DSN()
	if !strings.Contains(dsn, "tcp(db:3306)/cal") || !strings.Contains(dsn, "parseTime=true") {
		t.Errorf("DSN = %q", dsn)
	}
	if !strings.HasPrefix(dsn, "u:p@ss:word@") {
		t.Errorf("password not kept verbatim: %q", dsn)
	}

	d.dsnOverride = "override"
	if d.DSN() != "override" {
		t.Error("DATABASE_URL should win")
	}
}
