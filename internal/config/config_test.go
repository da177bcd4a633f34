package config

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadWriteRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.APIURL = "https://api.example.test"
	cfg.PageSize = 25
	cfg.DataDir = "/tmp/indbo"
	cfg.Auth.Domain = "idp.example.test"
	cfg.Auth.ClientID = "client-123"
	cfg.Auth.Audience = "mit-indbo-backend"

	var buf bytes.Buffer
	if err := Write(&buf, cfg); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if *got != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestReadAppliesDefaults(t *testing.T) {
	cfg, err := Read(strings.NewReader(`api_url = "https://api.example.test"`))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if cfg.PageSize != DefaultPageSize {
		t.Errorf("expected default page size %d, got %d", DefaultPageSize, cfg.PageSize)
	}
	if cfg.Auth.RedirectURL == "" {
		t.Error("expected default redirect URL")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			APIURL:   "https://api.example.test",
			PageSize: 10,
			DataDir:  "/tmp/indbo",
			Auth:     Auth{Domain: "idp.example.test", ClientID: "client-123"},
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing api url", func(c *Config) { c.APIURL = "" }},
		{"zero page size", func(c *Config) { c.PageSize = 0 }},
		{"missing data dir", func(c *Config) { c.DataDir = "" }},
		{"missing domain", func(c *Config) { c.Auth.Domain = "" }},
		{"missing client id", func(c *Config) { c.Auth.ClientID = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestInitRefusesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := Init(path, Default()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := Init(path, Default()); err == nil {
		t.Error("expected error when config already exists")
	}
}
