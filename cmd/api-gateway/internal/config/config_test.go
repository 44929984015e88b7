package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api-gateway.yaml")
	body := `
http:
  port: 9090
cors:
  allowed_origins:
    - https://dashboard.example
clients:
  league:
    address: league-stats:44046
    timeout: 2s
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTP.Port != 9090 || cfg.HTTP.MaxUploadBytes != 10<<20 {
		t.Fatalf("unexpected http config %+v", cfg.HTTP)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "https://dashboard.example" {
		t.Fatalf("unexpected cors origins %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.Clients.League.Address != "league-stats:44046" || cfg.Clients.League.Timeout != 2*time.Second {
		t.Fatalf("unexpected league client config %+v", cfg.Clients.League)
	}
	if cfg.Clients.League.UploadTimeout != 30*time.Second {
		t.Fatalf("expected default upload timeout, got %s", cfg.Clients.League.UploadTimeout)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config")
	}
}
