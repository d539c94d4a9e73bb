package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAPIURL(t *testing.T) {
	tests := []struct {
		name     string
		domain   string
		appKey   string
		path     string
		expected string
	}{
		{
			name:     "bare domain gets https scheme",
			domain:   "api.flashcat.cloud",
			appKey:   "secret",
			path:     "/person/infos",
			expected: "https://api.flashcat.cloud/person/infos?app_key=secret",
		},
		{
			name:     "trailing slash trimmed",
			domain:   "https://api.flashcat.cloud/",
			appKey:   "secret",
			path:     "/team/infos",
			expected: "https://api.flashcat.cloud/team/infos?app_key=secret",
		},
		{
			name:     "http scheme preserved",
			domain:   "http://localhost:8080",
			appKey:   "k",
			path:     "/channel/escalate/rule/list",
			expected: "http://localhost:8080/channel/escalate/rule/list?app_key=k",
		},
		{
			name:     "empty domain falls back to default",
			domain:   "",
			appKey:   "k",
			path:     "/schedule/infos",
			expected: "https://api.flashcat.cloud/schedule/infos?app_key=k",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{APIDomain: tt.domain, AppKey: tt.appKey}
			if got := cfg.APIURL(tt.path); got != tt.expected {
				t.Errorf("APIURL(%q) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestLoadConfig_RoundTrip(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "dutybridge-config")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	cfg := &Config{
		PushURL:   "https://api.flashcat.cloud/event/push/servicenow/abc",
		APIDomain: "api.flashcat.cloud",
		AppKey:    "app-key",
		ChannelID: 42,
		TeamsID:   "team-7",
	}

	if err := SaveConfig(tmpDir, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded.PushURL != cfg.PushURL {
		t.Errorf("push_url = %q, want %q", loaded.PushURL, cfg.PushURL)
	}
	if loaded.ChannelID != 42 {
		t.Errorf("channel_id = %d, want 42", loaded.ChannelID)
	}
	if !loaded.HasAppKey() {
		t.Error("expected HasAppKey to be true")
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "dutybridge-config-missing")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	if _, err := LoadConfig(tmpDir); err == nil {
		t.Error("expected error for missing config file")
	}

	// LoadOrDefault degrades to an empty, unconfigured config instead.
	cfg := LoadOrDefault(tmpDir)
	if cfg.HasAppKey() || cfg.HasPushURL() {
		t.Error("expected unconfigured defaults")
	}
}

func TestEnvOverrides(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "dutybridge-config-env")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	if err := SaveConfig(tmpDir, &Config{AppKey: "file-key", ChannelID: 1}); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	t.Setenv("DUTYBRIDGE_APP_KEY", "env-key")
	t.Setenv("DUTYBRIDGE_CHANNEL_ID", "99")

	cfg, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.AppKey != "env-key" {
		t.Errorf("app key = %q, want env override", cfg.AppKey)
	}
	if cfg.ChannelID != 99 {
		t.Errorf("channel id = %d, want 99", cfg.ChannelID)
	}

	// File permissions keep the secret out of group/world reach.
	info, err := os.Stat(filepath.Join(tmpDir, ".dutybridge", "config.json"))
	if err != nil {
		t.Fatalf("stat config: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config mode = %v, want 0600", info.Mode().Perm())
	}
}
