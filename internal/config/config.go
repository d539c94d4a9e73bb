package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultAPIDomain is used when flashduty.api_domain is not set.
const DefaultAPIDomain = "api.flashcat.cloud"

// Config holds the bridge settings. The JSON layout mirrors the
// flashduty.* / servicenow.* system properties of the source deployment.
type Config struct {
	PushURL   string `json:"push_url,omitempty"`   // Flashduty integration (webhook) URL
	APIDomain string `json:"api_domain,omitempty"` // Flashduty API domain, e.g. api.flashcat.cloud
	AppKey    string `json:"app_key,omitempty"`    // Flashduty App Key (API secret)
	ChannelID int64  `json:"channel_id,omitempty"` // Flashduty channel scoping escalation rules
	TeamsID   string `json:"teams_id,omitempty"`   // Teams integration ID (optional)

	// ServiceNow Table API access for directory lookups.
	InstanceURL string `json:"instance_url,omitempty"`
	Username    string `json:"username,omitempty"`
	Password    string `json:"password,omitempty"`
}

// LoadConfig reads .dutybridge/config.json from the specified directory and
// applies DUTYBRIDGE_* environment overrides on top.
// Returns error if no config found - caller should handle accordingly.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ".dutybridge", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()
	return &cfg, nil
}

// LoadOrDefault loads config from dir, falling back to env-only settings
// when no config file exists. A missing file is not an error here: the
// services degrade to their "not configured" states instead.
func LoadOrDefault(dir string) *Config {
	cfg, err := LoadConfig(dir)
	if err != nil {
		cfg = &Config{}
		cfg.applyEnv()
	}
	return cfg
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	bridgeDir := filepath.Join(dir, ".dutybridge")
	if err := os.MkdirAll(bridgeDir, 0755); err != nil {
		return fmt.Errorf("failed to create .dutybridge dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(bridgeDir, "config.json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DUTYBRIDGE_PUSH_URL"); v != "" {
		c.PushURL = v
	}
	if v := os.Getenv("DUTYBRIDGE_API_DOMAIN"); v != "" {
		c.APIDomain = v
	}
	if v := os.Getenv("DUTYBRIDGE_APP_KEY"); v != "" {
		c.AppKey = v
	}
	if v := os.Getenv("DUTYBRIDGE_CHANNEL_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.ChannelID = id
		}
	}
	if v := os.Getenv("DUTYBRIDGE_TEAMS_ID"); v != "" {
		c.TeamsID = v
	}
	if v := os.Getenv("DUTYBRIDGE_SN_INSTANCE_URL"); v != "" {
		c.InstanceURL = v
	}
	if v := os.Getenv("DUTYBRIDGE_SN_USERNAME"); v != "" {
		c.Username = v
	}
	if v := os.Getenv("DUTYBRIDGE_SN_PASSWORD"); v != "" {
		c.Password = v
	}
}

// APIURL builds a Flashduty endpoint URL for the given path, appending the
// app_key query parameter. The domain may be given with or without scheme
// and with or without a trailing slash.
func (c *Config) APIURL(path string) string {
	domain := c.APIDomain
	if domain == "" {
		domain = DefaultAPIDomain
	}
	domain = strings.TrimSuffix(domain, "/")
	if !strings.HasPrefix(domain, "http://") && !strings.HasPrefix(domain, "https://") {
		domain = "https://" + domain
	}
	return domain + path + "?app_key=" + c.AppKey
}

// HasAppKey reports whether the Flashduty API secret is configured.
func (c *Config) HasAppKey() bool { return c.AppKey != "" }

// HasPushURL reports whether the webhook endpoint is configured.
func (c *Config) HasPushURL() bool { return c.PushURL != "" }
