package config

import (
	"os"
	"testing"
	"time"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir()) // no .env here

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8550" {
		t.Fatalf("port = %q", cfg.Port)
	}
	if cfg.NewsSource != "html" || cfg.NewsLimit != 10 {
		t.Fatalf("news defaults = %q/%d", cfg.NewsSource, cfg.NewsLimit)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Fatalf("timeout = %v", cfg.HTTPTimeout)
	}
	if cfg.LLMEnabled() {
		t.Fatal("llm should be disabled without endpoint and key")
	}
}

func TestLoad_Overrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9000")
	t.Setenv("NEWS_SOURCE", "rss")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("SEASONAL_LIMIT", "oops")
	t.Setenv("LLM_ENDPOINT", "http://llm.local")
	t.Setenv("LLM_API_KEY", "k")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9000" || cfg.NewsSource != "rss" || cfg.HTTPTimeout != 3*time.Second {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.SeasonalLimit != 10 {
		t.Fatalf("bad integer should fall back to default, got %d", cfg.SeasonalLimit)
	}
	if !cfg.LLMEnabled() {
		t.Fatal("llm should be enabled")
	}
}

func TestLoad_RejectsUnknownNewsSource(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("NEWS_SOURCE", "telegram")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error")
	}
}
