package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.ListenAddr != ":8080" {
		t.Fatalf("expected :8080, got %q", cfg.Server.ListenAddr)
	}
	if cfg.Database.Path != "cyberblog.db" {
		t.Fatalf("unexpected database path %q", cfg.Database.Path)
	}
	if cfg.Admin.Mode != AdminModeAccount {
		t.Fatalf("expected account mode, got %q", cfg.Admin.Mode)
	}
	if cfg.Session.Secret != DevSessionSecret {
		t.Fatalf("expected dev session secret, got %q", cfg.Session.Secret)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cyberblog.yml")
	body := strings.Join([]string{
		"server:",
		"  port: \"9000\"",
		"  cors_origins: [\"https://a.example\"]",
		"admin:",
		"  mode: secret",
		"  secret: from-file",
		"content:",
		"  page_size: 10",
		"store:",
		"  project_id: cyber-blog",
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("ADMIN_PASSWORD", "from-plain-env")
	t.Setenv("CYBERBLOG_ADMIN_SECRET", "from-prefixed-env")
	t.Setenv("CYBERBLOG_SERVER_CORS_ORIGINS", "https://b.example, https://c.example")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.ListenAddr != ":9000" {
		t.Fatalf("expected listen addr from port, got %q", cfg.Server.ListenAddr)
	}
	if cfg.Admin.Mode != AdminModeSecret {
		t.Fatalf("expected secret mode, got %q", cfg.Admin.Mode)
	}
	if cfg.Admin.Secret != "from-prefixed-env" {
		t.Fatalf("expected prefixed env to win, got %q", cfg.Admin.Secret)
	}
	if cfg.Content.PageSize != 10 {
		t.Fatalf("expected page size 10, got %d", cfg.Content.PageSize)
	}
	if cfg.Database.Path != "cyber-blog.db" {
		t.Fatalf("expected database named after project, got %q", cfg.Database.Path)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://c.example" {
		t.Fatalf("unexpected cors origins %v", cfg.Server.CORSOrigins)
	}
}

func TestLoad_PlainEnvNames(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("DATABASE_PATH", "/tmp/blog.db")
	t.Setenv("ADMIN_PASSWORD", "plain")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.ListenAddr != ":7070" || cfg.Database.Path != "/tmp/blog.db" || cfg.Admin.Secret != "plain" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{name: "admin mode", mutate: func(c *AppConfig) { c.Admin.Mode = "oauth" }},
		{name: "page size", mutate: func(c *AppConfig) { c.Content.PageSize = 0 }},
		{name: "unsupported page size", mutate: func(c *AppConfig) { c.Content.PageSize = 7 }},
		{name: "session secret", mutate: func(c *AppConfig) { c.Session.Secret = "" }},
		{name: "gin mode", mutate: func(c *AppConfig) { c.Server.GinMode = "fast" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.normalize()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yml")
	cfg := Default()
	cfg.Admin.Mode = AdminModeSecret
	cfg.Content.InboxDir = "inbox"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Admin.Mode != AdminModeSecret || loaded.Content.InboxDir != "inbox" {
		t.Fatalf("unexpected reloaded config %+v", loaded)
	}
}
