package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "artcor.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
env: development
listenAddr: "127.0.0.1:9000"
backend: badger
dataDir: /tmp/artcor-test
uniqueMemberNames: false
locale: en
log:
  level: debug
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Env != EnvDevelopment || !cfg.IsDevelopment() {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if cfg.ListenAddr != "127.0.0.1:9000" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.Backend != BackendBadger {
		t.Errorf("Backend = %q, want badger", cfg.Backend)
	}
	if cfg.UniqueMemberNames {
		t.Error("UniqueMemberNames = true, want false from file")
	}
	if cfg.Locale != "en" || cfg.Log.Level != "debug" {
		t.Errorf("Locale = %q, Log.Level = %q", cfg.Locale, cfg.Log.Level)
	}
	// Untouched fields keep their defaults.
	if cfg.MembersKey != "artcor_members" || cfg.EventsKey != "artcor_events" {
		t.Errorf("keys = %q, %q", cfg.MembersKey, cfg.EventsKey)
	}
	if cfg.Log.MaxBackups != 5 {
		t.Errorf("Log.MaxBackups = %d, want 5", cfg.Log.MaxBackups)
	}
	if cfg.DatabasePath != filepath.Join("/tmp/artcor-test", "artcor.db") {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "backend: badger\nlocale: en\n")
	t.Setenv("ARTCOR_BACKEND", "memory")
	t.Setenv("ARTCOR_ALLOW_EMPTY_EVENT_NAME", "true")
	t.Setenv("ARTCOR_LOG_LEVEL", "warn")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Backend != BackendMemory {
		t.Errorf("Backend = %q, want memory", cfg.Backend)
	}
	if !cfg.AllowEmptyEventName {
		t.Error("AllowEmptyEventName not taken from environment")
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
	if cfg.Locale != "en" {
		t.Errorf("Locale = %q, want en from file", cfg.Locale)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"backend", "backend: postgres\n", "invalid backend"},
		{"locale", "locale: fr\n", "invalid locale"},
		{"env", "env: staging\n", "invalid env"},
		{"same keys", "membersKey: k\neventsKey: k\n", "must differ"},
		{"csrf", "csrfKey: abc\n", "invalid csrfKey"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestCSRFKeyBytes(t *testing.T) {
	cfg := Defaults()
	cfg.CSRFKey = strings.Repeat("ab", 32)
	key, err := cfg.CSRFKeyBytes()
	if err != nil {
		t.Fatalf("CSRFKeyBytes: %v", err)
	}
	if len(key) != 32 {
		t.Errorf("len(key) = %d, want 32", len(key))
	}
}

func TestContextRoundTrip(t *testing.T) {
	if FromContext(context.Background()) != nil {
		t.Error("FromContext on empty context should be nil")
	}
	cfg := Defaults()
	if got := FromContext(WithContext(context.Background(), cfg)); got != cfg {
		t.Error("FromContext did not return the attached config")
	}
}

func TestLoadConfig_TrustedOrigins(t *testing.T) {
	path := writeConfig(t, `
trustedOrigins:
  - coro.example.org
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(cfg.TrustedOrigins) != 1 || cfg.TrustedOrigins[0] != "coro.example.org" {
		t.Errorf("TrustedOrigins = %v, want [coro.example.org]", cfg.TrustedOrigins)
	}

	t.Setenv("ARTCOR_TRUSTED_ORIGINS", "a.example.org,b.example.org")
	cfg, err = LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if strings.Join(cfg.TrustedOrigins, ",") != "a.example.org,b.example.org" {
		t.Errorf("TrustedOrigins = %v, want env override", cfg.TrustedOrigins)
	}
}
