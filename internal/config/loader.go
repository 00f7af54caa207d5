package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "overseer.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "OVERSEER_PORT")
	setString(&cfg.Server.CORSOrigin, "OVERSEER_CORS_ORIGIN")
	setString(&cfg.Reasoner.URL, "OVERSEER_REASONER_URL")
	setString(&cfg.Reasoner.APIKey, "OVERSEER_REASONER_API_KEY")
	setString(&cfg.Reasoner.Model, "OVERSEER_REASONER_MODEL")
	setString(&cfg.NATS.URL, "NATS_URL")
	setBool(&cfg.MCP.Enabled, "OVERSEER_MCP_ENABLED")
	setString(&cfg.MCP.Port, "OVERSEER_MCP_PORT")
	setInt64(&cfg.Cache.MaxSizeMB, "OVERSEER_CACHE_SIZE_MB")
	setDuration(&cfg.Cache.TTL, "OVERSEER_CACHE_TTL")
	setString(&cfg.Telemetry.OTLPEndpoint, "OVERSEER_OTLP_ENDPOINT")
	setString(&cfg.Logging.Level, "OVERSEER_LOG_LEVEL")
	setString(&cfg.Logging.Service, "OVERSEER_LOG_SERVICE")
	setBool(&cfg.Logging.Async, "OVERSEER_LOG_ASYNC")
	setInt(&cfg.Logging.AsyncBuffer, "OVERSEER_LOG_ASYNC_BUFFER")
	setInt(&cfg.Logging.AsyncWorkers, "OVERSEER_LOG_ASYNC_WORKERS")
	setInt(&cfg.Breaker.MaxFailures, "OVERSEER_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "OVERSEER_BREAKER_TIMEOUT")
	setInt(&cfg.Orchestrator.MaxIterations, "OVERSEER_MAX_ITERATIONS")
	setInt64(&cfg.Orchestrator.MaxConcurrentRuns, "OVERSEER_MAX_CONCURRENT_RUNS")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Reasoner.URL == "" {
		return errors.New("reasoner.url is required")
	}
	if cfg.Reasoner.Model == "" {
		return errors.New("reasoner.model is required")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	if cfg.Orchestrator.MaxIterations < 1 {
		return errors.New("orchestrator.max_iterations must be >= 1")
	}
	if cfg.Orchestrator.MaxConcurrentRuns < 1 {
		return errors.New("orchestrator.max_concurrent_runs must be >= 1")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
