package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validYAML = `
environment: test
server:
  port: 8000
window:
  capacity: 100
source:
  type: reddit
backend:
  type: none
classifier:
  service_url: http://localhost:8500
reddit:
  subreddit: wallstreetbets
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Window.Capacity != 100 {
		t.Fatalf("unexpected capacity %d", cfg.Window.Capacity)
	}
	if cfg.Reddit.Subreddit != "wallstreetbets" {
		t.Fatalf("unexpected subreddit %q", cfg.Reddit.Subreddit)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
environment: test
source:
  type: none
backend:
  type: none
classifier:
  service_url: http://localhost:8500
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Window.Capacity != 100 {
		t.Fatalf("expected default capacity 100, got %d", cfg.Window.Capacity)
	}
	if cfg.Ingest.MaxTextLength != 512 {
		t.Fatalf("expected default max text length 512, got %d", cfg.Ingest.MaxTextLength)
	}
	if cfg.Reddit.PollInterval != time.Minute {
		t.Fatalf("expected default poll interval 1m, got %s", cfg.Reddit.PollInterval)
	}
}

func TestLoadRejectsInvalidCapacity(t *testing.T) {
	_, err := Load(writeConfig(t, `
environment: test
window:
  capacity: -5
source:
  type: none
backend:
  type: none
classifier:
  service_url: http://localhost:8500
`))
	if err == nil {
		t.Fatalf("expected error for negative capacity")
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	_, err := Load(writeConfig(t, `
environment: test
source:
  type: none
backend:
  type: postgres
classifier:
  service_url: http://localhost:8500
`))
	if err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestLoadRequiresStreamURLForWebsocket(t *testing.T) {
	_, err := Load(writeConfig(t, `
environment: test
source:
  type: websocket
backend:
  type: none
classifier:
  service_url: http://localhost:8500
`))
	if err == nil {
		t.Fatalf("expected error for websocket source without url")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("SENTIMENT_API_URL", "http://model:9000")
	t.Setenv("SUBREDDIT", "stocks")
	t.Setenv("BATCH_SIZE", "25")
	t.Setenv("POLL_INTERVAL", "30")
	t.Setenv("SOURCE", "none")

	cfg, err := LoadWithEnv(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Classifier.ServiceURL != "http://model:9000" {
		t.Fatalf("env override missed for service url: %q", cfg.Classifier.ServiceURL)
	}
	if cfg.Reddit.Subreddit != "stocks" {
		t.Fatalf("env override missed for subreddit: %q", cfg.Reddit.Subreddit)
	}
	if cfg.Reddit.BatchSize != 25 {
		t.Fatalf("env override missed for batch size: %d", cfg.Reddit.BatchSize)
	}
	if cfg.Reddit.PollInterval != 30*time.Second {
		t.Fatalf("env override missed for poll interval: %s", cfg.Reddit.PollInterval)
	}
	if cfg.Source.Type != "none" {
		t.Fatalf("env override missed for source: %q", cfg.Source.Type)
	}
}
