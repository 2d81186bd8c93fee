package config

import (
	"strings"
	"testing"
)

func TestParse_Minimal(t *testing.T) {
	cfg, err := Parse([]byte(`
db:
  database: attache_test
ai:
  provider: openai
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want default 8080", cfg.Server.Port)
	}
	if cfg.DB.Host != "127.0.0.1" {
		t.Errorf("DB.Host = %q, want default 127.0.0.1", cfg.DB.Host)
	}
	if cfg.DB.Database != "attache_test" {
		t.Errorf("DB.Database = %q", cfg.DB.Database)
	}
	if cfg.AI.MaxTokens != 1024 {
		t.Errorf("AI.MaxTokens = %d, want default 1024", cfg.AI.MaxTokens)
	}
	if cfg.Sweep.Cron != "0 8 * * *" {
		t.Errorf("Sweep.Cron = %q, want default daily", cfg.Sweep.Cron)
	}
	if cfg.Sweep.MinDaysWaiting != 3 {
		t.Errorf("Sweep.MinDaysWaiting = %d, want default 3", cfg.Sweep.MinDaysWaiting)
	}
}

func TestParse_DefaultProvider(t *testing.T) {
	cfg, err := Parse([]byte(`{}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.AI.Provider != ProviderOpenAI {
		t.Errorf("AI.Provider = %q, want %q", cfg.AI.Provider, ProviderOpenAI)
	}
}

func TestParse_InvalidProvider(t *testing.T) {
	_, err := Parse([]byte(`
ai:
  provider: gemini
`))
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if !strings.Contains(err.Error(), "ai.provider") {
		t.Errorf("error = %q, want to mention ai.provider", err.Error())
	}
}

func TestParse_AnthropicProvider(t *testing.T) {
	cfg, err := Parse([]byte(`
ai:
  provider: anthropic
  model: claude-sonnet-4-5
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.AI.Provider != ProviderAnthropic {
		t.Errorf("AI.Provider = %q", cfg.AI.Provider)
	}
	if cfg.AI.Model != "claude-sonnet-4-5" {
		t.Errorf("AI.Model = %q", cfg.AI.Model)
	}
}

func TestParse_MismatchedVAPIDKeys(t *testing.T) {
	_, err := Parse([]byte(`
push:
  vapid_public_key: BPub
`))
	if err == nil {
		t.Fatal("expected error for public key without private key")
	}
	if !strings.Contains(err.Error(), "vapid") {
		t.Errorf("error = %q, want to mention vapid keys", err.Error())
	}
}

func TestParse_BadYAML(t *testing.T) {
	_, err := Parse([]byte("ai: [unclosed"))
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "config: parse") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestPushEnabled(t *testing.T) {
	cfg := &Config{}
	if cfg.PushEnabled() {
		t.Error("PushEnabled() = true with no keys")
	}
	cfg.Push.VAPIDPublicKey = "BPub"
	cfg.Push.VAPIDPrivateKey = "priv"
	if !cfg.PushEnabled() {
		t.Error("PushEnabled() = false with both keys set")
	}
}

func TestParse_EnvOverlay(t *testing.T) {
	t.Setenv("ATTACHE_TEST_TOKEN", "sekrit")
	cfg, err := Parse([]byte(`{}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Server.TestToken != "sekrit" {
		t.Errorf("Server.TestToken = %q, want env value", cfg.Server.TestToken)
	}
}

func TestParse_YAMLWinsOverNothing_EnvDoesNotClobber(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")
	cfg, err := Parse([]byte(`
ai:
  openai_api_key: yaml-key
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.AI.OpenAIKey != "yaml-key" {
		t.Errorf("OpenAIKey = %q, explicit YAML value should win", cfg.AI.OpenAIKey)
	}
}
