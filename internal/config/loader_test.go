package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Orchestrator.MaxIterations != 20 {
		t.Errorf("expected max_iterations 20, got %d", cfg.Orchestrator.MaxIterations)
	}
	if cfg.Breaker.Timeout != 30*time.Second {
		t.Errorf("expected breaker timeout 30s, got %v", cfg.Breaker.Timeout)
	}
}

func TestLoadYAMLOverride(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "test.yaml")

	content := `
server:
  port: "9090"
  cors_origin: "http://example.com"
orchestrator:
  max_iterations: 50
logging:
  level: "debug"
`
	if err := os.WriteFile(yamlPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Defaults()
	if err := loadYAML(&cfg, yamlPath); err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Server.CORSOrigin != "http://example.com" {
		t.Errorf("expected cors http://example.com, got %s", cfg.Server.CORSOrigin)
	}
	if cfg.Orchestrator.MaxIterations != 50 {
		t.Errorf("expected max_iterations 50, got %d", cfg.Orchestrator.MaxIterations)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}
	// Unchanged fields keep defaults
	if cfg.Reasoner.URL != "http://localhost:4000" {
		t.Errorf("expected default reasoner URL, got %s", cfg.Reasoner.URL)
	}
}

func TestLoadYAMLMissing(t *testing.T) {
	cfg := Defaults()
	err := loadYAML(&cfg, "/nonexistent/path.yaml")
	if err != nil {
		t.Errorf("missing YAML should not error, got %v", err)
	}
}

func TestEnvOverride(t *testing.T) {
	cfg := Defaults()

	t.Setenv("OVERSEER_PORT", "7070")
	t.Setenv("OVERSEER_REASONER_URL", "http://reasoner:4000")
	t.Setenv("OVERSEER_MAX_ITERATIONS", "35")
	t.Setenv("OVERSEER_LOG_LEVEL", "warn")
	t.Setenv("OVERSEER_BREAKER_TIMEOUT", "1m")

	loadEnv(&cfg)

	if cfg.Server.Port != "7070" {
		t.Errorf("expected port 7070, got %s", cfg.Server.Port)
	}
	if cfg.Reasoner.URL != "http://reasoner:4000" {
		t.Errorf("expected env reasoner URL, got %s", cfg.Reasoner.URL)
	}
	if cfg.Orchestrator.MaxIterations != 35 {
		t.Errorf("expected max_iterations 35, got %d", cfg.Orchestrator.MaxIterations)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level warn, got %s", cfg.Logging.Level)
	}
	if cfg.Breaker.Timeout != time.Minute {
		t.Errorf("expected breaker timeout 1m, got %v", cfg.Breaker.Timeout)
	}
}

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{
			name:   "empty port",
			modify: func(c *Config) { c.Server.Port = "" },
			errMsg: "server.port is required",
		},
		{
			name:   "empty reasoner URL",
			modify: func(c *Config) { c.Reasoner.URL = "" },
			errMsg: "reasoner.url is required",
		},
		{
			name:   "empty reasoner model",
			modify: func(c *Config) { c.Reasoner.Model = "" },
			errMsg: "reasoner.model is required",
		},
		{
			name:   "zero breaker failures",
			modify: func(c *Config) { c.Breaker.MaxFailures = 0 },
			errMsg: "breaker.max_failures must be >= 1",
		},
		{
			name:   "zero max iterations",
			modify: func(c *Config) { c.Orchestrator.MaxIterations = 0 },
			errMsg: "orchestrator.max_iterations must be >= 1",
		},
		{
			name:   "zero concurrent runs",
			modify: func(c *Config) { c.Orchestrator.MaxConcurrentRuns = 0 },
			errMsg: "orchestrator.max_concurrent_runs must be >= 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(&cfg)
			err := validate(&cfg)
			if err == nil {
				t.Fatalf("expected error %q, got nil", tt.errMsg)
			}
			if err.Error() != tt.errMsg {
				t.Errorf("expected %q, got %q", tt.errMsg, err.Error())
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Defaults()
	if err := validate(&cfg); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}
