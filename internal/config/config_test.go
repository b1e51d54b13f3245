package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Port != 22880 {
		t.Errorf("Server.Port = %d, want 22880", cfg.Server.Port)
	}
	if cfg.Catalog.Seed != "" {
		t.Errorf("Catalog.Seed = %q, want empty", cfg.Catalog.Seed)
	}
	if cfg.Search.Limit != 100 {
		t.Errorf("Search.Limit = %d, want 100", cfg.Search.Limit)
	}
	if !cfg.GraphQL.Introspection {
		t.Error("GraphQL.Introspection = false, want true")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want \"info\"", cfg.Log.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
}

func TestLoadMissingDefaultFile(t *testing.T) {
	dir := t.TempDir()
	oldWd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to chdir: %v", err)
	}
	defer os.Chdir(oldWd)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err == nil {
		t.Fatal("Load() error = nil, want error for missing explicit file")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	content := `server:
  port: 3000
catalog:
  seed: ./books.yml
graphql:
  introspection: false
log:
  level: debug
  development: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port = %d, want 3000", cfg.Server.Port)
	}
	if cfg.Catalog.Seed != "./books.yml" {
		t.Errorf("Catalog.Seed = %q, want \"./books.yml\"", cfg.Catalog.Seed)
	}
	if cfg.GraphQL.Introspection {
		t.Error("GraphQL.Introspection = true, want false")
	}
	if cfg.Log.Level != "debug" || !cfg.Log.Development {
		t.Errorf("Log = %+v, want debug development", cfg.Log)
	}
	// Not in the file, so the default applies
	if cfg.Search.Limit != DefaultSearchLimit {
		t.Errorf("Search.Limit = %d, want %d", cfg.Search.Limit, DefaultSearchLimit)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	if err := os.WriteFile(path, []byte("server:\n  port: 3000\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	t.Setenv("SHELF_PORT", "4000")
	t.Setenv("SHELF_SEARCH_LIMIT", "5")
	t.Setenv("SHELF_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 4000 {
		t.Errorf("Server.Port = %d, want 4000", cfg.Server.Port)
	}
	if cfg.Search.Limit != 5 {
		t.Errorf("Search.Limit = %d, want 5", cfg.Search.Limit)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want \"warn\"", cfg.Log.Level)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "server: [", "parsing"},
		{"port out of range", "server:\n  port: 70000\n", "invalid server port"},
		{"bad log level", "log:\n  level: loud\n", "invalid log level"},
		{"negative search limit", "search:\n  limit: -1\n", "invalid search limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ConfigFile)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatalf("Load() error = nil, want %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	cfg := Default()
	cfg.Server.Port = 8080
	cfg.Catalog.Seed = "seed.yml"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Server.Port != 8080 || loaded.Catalog.Seed != "seed.yml" {
		t.Errorf("Load() after Save() = %+v", loaded)
	}
}
