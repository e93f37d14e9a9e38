package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)
}

func TestLoadConfig_Defaults(t *testing.T) {
	writeConfig(t, "http:\n  addr: \":5000\"\n")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Chat.DefaultRoom != "general" {
		t.Fatalf("defaultRoom = %q", cfg.Chat.DefaultRoom)
	}
	if cfg.Chat.HistoryLimit != 200 {
		t.Fatalf("historyLimit = %d", cfg.Chat.HistoryLimit)
	}
	if cfg.Logging.Service != "chat-service" || cfg.Logging.Backend != "std" {
		t.Fatalf("logging defaults = %+v", cfg.Logging)
	}
}

func TestLoadConfig_AddrRequired(t *testing.T) {
	writeConfig(t, "logging:\n  env: dev\n")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("missing http.addr accepted")
	}
}

func TestLoadConfig_ExplicitValues(t *testing.T) {
	writeConfig(t, `
http:
  addr: ":8080"
  clientOrigin: "http://localhost:5173"
chat:
  defaultRoom: lobby
  historyLimit: 50
`)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.ClientOrigin != "http://localhost:5173" {
		t.Fatalf("clientOrigin = %q", cfg.HTTP.ClientOrigin)
	}
	if cfg.Chat.DefaultRoom != "lobby" || cfg.Chat.HistoryLimit != 50 {
		t.Fatalf("chat = %+v", cfg.Chat)
	}
}
