package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hmans/shelf/internal/config"
)

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.ConfigFile)

	if err := writeDefaultConfig(path, false); err != nil {
		t.Fatalf("writeDefaultConfig() error = %v", err)
	}

	loaded, err := config.Load(path)
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}
	if loaded.Server.Port != config.DefaultPort {
		t.Errorf("Server.Port = %d, want %d", loaded.Server.Port, config.DefaultPort)
	}
}

func TestWriteDefaultConfigExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.ConfigFile)
	if err := os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	err := writeDefaultConfig(path, false)
	if err == nil {
		t.Fatal("writeDefaultConfig() error = nil, want error for existing file")
	}
	if !strings.Contains(err.Error(), "--force") {
		t.Errorf("error = %q, want hint about --force", err)
	}

	if err := writeDefaultConfig(path, true); err != nil {
		t.Fatalf("writeDefaultConfig(force) error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read config: %v", err)
	}
	if strings.Contains(string(data), "9000") {
		t.Error("forced write kept the old port")
	}
}
