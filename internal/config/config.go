// Package config provides YAML-based configuration loading for Attaché.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Providers selectable for follow-up generation.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config is the top-level Attaché configuration, loaded from config.yaml.
type Config struct {
	Server ServerConfig `yaml:"server"`
	DB     DBConfig     `yaml:"db"`
	AI     AIConfig     `yaml:"ai"`
	Push   PushConfig   `yaml:"push"`
	Sweep  SweepConfig  `yaml:"sweep"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// TestToken gates the debug delivery endpoints when non-empty.
	// Overridable via ATTACHE_TEST_TOKEN.
	TestToken string `yaml:"test_token"`
}

// DBConfig holds connection settings for the MySQL server.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// AIConfig selects and configures the generation backend.
type AIConfig struct {
	Provider string `yaml:"provider"` // "openai" or "anthropic"
	Model    string `yaml:"model"`    // empty means provider default
	// API keys come from OPENAI_API_KEY / ANTHROPIC_API_KEY when unset.
	OpenAIKey    string `yaml:"openai_api_key"`
	AnthropicKey string `yaml:"anthropic_api_key"`
	MaxTokens    int    `yaml:"max_tokens"`
}

// PushConfig holds Web Push VAPID settings.
type PushConfig struct {
	VAPIDPublicKey string `yaml:"vapid_public_key"`
	// VAPIDPrivateKey comes from VAPID_PRIVATE_KEY when unset.
	VAPIDPrivateKey string `yaml:"vapid_private_key"`
	Subscriber      string `yaml:"subscriber"` // mailto: contact for the push service
	TTLSeconds      int    `yaml:"ttl_seconds"`
}

// SweepConfig controls the scheduled waiting-thread sweep.
type SweepConfig struct {
	Cron           string `yaml:"cron"` // 5-field cron expression
	MinDaysWaiting int    `yaml:"min_days_waiting"`
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.DB.Host == "" {
		c.DB.Host = "127.0.0.1"
	}
	if c.DB.Port == 0 {
		c.DB.Port = 3306
	}
	if c.DB.User == "" {
		c.DB.User = "root"
	}
	if c.DB.Database == "" {
		c.DB.Database = "attache"
	}
	if c.AI.Provider == "" {
		c.AI.Provider = ProviderOpenAI
	}
	if c.AI.MaxTokens == 0 {
		c.AI.MaxTokens = 1024
	}
	if c.Push.TTLSeconds == 0 {
		c.Push.TTLSeconds = 60
	}
	if c.Sweep.Cron == "" {
		c.Sweep.Cron = "0 8 * * *"
	}
	if c.Sweep.MinDaysWaiting == 0 {
		c.Sweep.MinDaysWaiting = 3
	}
}

// applyEnv overlays secrets from the environment over YAML values.
func (c *Config) applyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && c.AI.OpenAIKey == "" {
		c.AI.OpenAIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && c.AI.AnthropicKey == "" {
		c.AI.AnthropicKey = v
	}
	if v := os.Getenv("VAPID_PRIVATE_KEY"); v != "" && c.Push.VAPIDPrivateKey == "" {
		c.Push.VAPIDPrivateKey = v
	}
	if v := os.Getenv("ATTACHE_TEST_TOKEN"); v != "" && c.Server.TestToken == "" {
		c.Server.TestToken = v
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if c.AI.Provider != ProviderOpenAI && c.AI.Provider != ProviderAnthropic {
		errs = append(errs, fmt.Sprintf("ai.provider %q must be %q or %q", c.AI.Provider, ProviderOpenAI, ProviderAnthropic))
	}
	if c.AI.MaxTokens < 0 {
		errs = append(errs, "ai.max_tokens must not be negative")
	}
	if c.Sweep.MinDaysWaiting < 0 {
		errs = append(errs, "sweep.min_days_waiting must not be negative")
	}
	if (c.Push.VAPIDPublicKey == "") != (c.Push.VAPIDPrivateKey == "") {
		errs = append(errs, "push: vapid_public_key and vapid_private_key must be set together")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// PushEnabled reports whether Web Push delivery is configured.
func (c *Config) PushEnabled() bool {
	return c.Push.VAPIDPublicKey != "" && c.Push.VAPIDPrivateKey != ""
}
