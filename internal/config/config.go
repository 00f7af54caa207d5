// Package config provides hierarchical configuration loading for Overseer.
// Precedence: defaults < YAML file < environment variables.
package config

import "time"

// Config holds all runtime configuration for the Overseer service.
type Config struct {
	Server       Server       `yaml:"server"`
	Reasoner     Reasoner     `yaml:"reasoner"`
	NATS         NATS         `yaml:"nats"`
	MCP          MCP          `yaml:"mcp"`
	Cache        Cache        `yaml:"cache"`
	Telemetry    Telemetry    `yaml:"telemetry"`
	Logging      Logging      `yaml:"logging"`
	Breaker      Breaker      `yaml:"breaker"`
	Orchestrator Orchestrator `yaml:"orchestrator"`
}

// Server holds HTTP server configuration.
type Server struct {
	Port       string `yaml:"port"`
	CORSOrigin string `yaml:"cors_origin"`
}

// Reasoner holds the chat completions endpoint configuration for the
// external reasoning collaborator.
type Reasoner struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// NATS holds NATS JetStream configuration. An empty URL disables the queue.
type NATS struct {
	URL string `yaml:"url"`
}

// MCP holds the Model Context Protocol server configuration.
type MCP struct {
	Enabled bool   `yaml:"enabled"`
	Port    string `yaml:"port"`
}

// Cache holds the in-process idempotency cache configuration.
type Cache struct {
	MaxSizeMB int64         `yaml:"max_size_mb"`
	TTL       time.Duration `yaml:"ttl"`
}

// Telemetry holds the OTLP export configuration. An empty endpoint leaves
// the no-op global providers installed.
type Telemetry struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"`
}

// Logging holds structured logging configuration. AsyncBuffer and
// AsyncWorkers size the async handler's record queue; zero selects the
// handler defaults.
type Logging struct {
	Level        string `yaml:"level"`
	Service      string `yaml:"service"`
	Async        bool   `yaml:"async"`
	AsyncBuffer  int    `yaml:"async_buffer"`
	AsyncWorkers int    `yaml:"async_workers"`
}

// Breaker holds circuit breaker configuration for collaborator calls.
type Breaker struct {
	MaxFailures int           `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Orchestrator holds run loop configuration.
type Orchestrator struct {
	MaxIterations     int   `yaml:"max_iterations"`      // per-run loop cap (default: 20)
	MaxConcurrentRuns int64 `yaml:"max_concurrent_runs"` // simultaneous orchestration loops (default: 4)
}

// Defaults returns a Config with sensible default values for local development.
func Defaults() Config {
	return Config{
		Server: Server{
			Port:       "8080",
			CORSOrigin: "http://localhost:3000",
		},
		Reasoner: Reasoner{
			URL:   "http://localhost:4000",
			Model: "openai/gpt-4o-mini",
		},
		NATS: NATS{
			URL: "",
		},
		MCP: MCP{
			Enabled: false,
			Port:    "8081",
		},
		Cache: Cache{
			MaxSizeMB: 64,
			TTL:       10 * time.Minute,
		},
		Telemetry: Telemetry{
			OTLPEndpoint: "",
		},
		Logging: Logging{
			Level:        "info",
			Service:      "overseer",
			AsyncBuffer:  1024,
			AsyncWorkers: 2,
		},
		Breaker: Breaker{
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		},
		Orchestrator: Orchestrator{
			MaxIterations:     20,
			MaxConcurrentRuns: 4,
		},
	}
}
