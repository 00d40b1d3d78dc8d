// Package config loads proxy configuration from a TOML file, overlaid
// with environment variables, matching the teacher's envOr/strconv.Atoi
// overlay pattern (cmd/gateway/main.go's loadConfig).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// WorkerConfig is one entry of the [[workers]] array.
type WorkerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Address returns the worker's dial target in host:port form.
func (w WorkerConfig) Address() string {
	return fmt.Sprintf("%s:%d", w.Host, w.Port)
}

// Config holds every recognized option from spec.md §6.
type Config struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`

	MaxQueueSize            int `toml:"max_queue_size"`
	MaxReqPerSec            int `toml:"max_req_per_sec"`
	TimeoutSecs             int `toml:"timeout_secs"`
	HealthCheckIntervalSecs int `toml:"health_check_interval_secs"`
	MaxRetriesPerRequest    int `toml:"max_retries_per_request"`

	Workers []WorkerConfig `toml:"workers"`

	// MetricsPort is the auxiliary HTTP endpoint for Prometheus scraping
	// and the control endpoint, supplementing spec.md §6's Configuration
	// section (see SPEC_FULL.md §3).
	MetricsPort int `toml:"metrics_port"`

	// ConsulAddress, if non-empty, enables the optional Consul-backed
	// worker discovery/reconciliation loop (SPEC_FULL.md §4).
	ConsulAddress string `toml:"consul_address"`
	ConsulTag     string `toml:"consul_tag"`

	// EventsAMQPURL, if non-empty, enables publishing worker lifecycle
	// and request-outcome events (SPEC_FULL.md §4).
	EventsAMQPURL string `toml:"events_amqp_url"`
}

// Default returns the baseline configuration before file/env overlay is
// applied.
func Default() Config {
	return Config{
		Host:                    "0.0.0.0",
		Port:                    50051,
		MaxQueueSize:            128,
		MaxReqPerSec:            10,
		TimeoutSecs:             30,
		HealthCheckIntervalSecs: 5,
		MaxRetriesPerRequest:    3,
		MetricsPort:             9090,
		ConsulTag:               "miden-prover",
	}
}

// Load reads path (if non-empty) as TOML over the defaults, then applies
// environment variable overrides, matching the teacher's envOr pattern.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PROXY_HOST"); v != "" {
		cfg.Host = v
	}
	if v, err := strconv.Atoi(os.Getenv("PROXY_PORT")); err == nil && v > 0 {
		cfg.Port = v
	}
	if v, err := strconv.Atoi(os.Getenv("PROXY_MAX_QUEUE_SIZE")); err == nil && v > 0 {
		cfg.MaxQueueSize = v
	}
	if v, err := strconv.Atoi(os.Getenv("PROXY_MAX_REQ_PER_SEC")); err == nil && v > 0 {
		cfg.MaxReqPerSec = v
	}
	if v, err := strconv.Atoi(os.Getenv("PROXY_TIMEOUT_SECS")); err == nil && v > 0 {
		cfg.TimeoutSecs = v
	}
	if v, err := strconv.Atoi(os.Getenv("PROXY_HEALTH_CHECK_INTERVAL_SECS")); err == nil && v > 0 {
		cfg.HealthCheckIntervalSecs = v
	}
	if v, err := strconv.Atoi(os.Getenv("PROXY_MAX_RETRIES_PER_REQUEST")); err == nil && v > 0 {
		cfg.MaxRetriesPerRequest = v
	}
	if v, err := strconv.Atoi(os.Getenv("PROXY_METRICS_PORT")); err == nil && v > 0 {
		cfg.MetricsPort = v
	}
	if v := os.Getenv("PROXY_CONSUL_ADDRESS"); v != "" {
		cfg.ConsulAddress = v
	}
	if v := os.Getenv("PROXY_CONSUL_TAG"); v != "" {
		cfg.ConsulTag = v
	}
	if v := os.Getenv("PROXY_EVENTS_AMQP_URL"); v != "" {
		cfg.EventsAMQPURL = v
	}
}

// TimeoutDuration returns the per-request deadline as a time.Duration.
func (c Config) TimeoutDuration() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// HealthCheckInterval returns the base probe interval as a
// time.Duration.
func (c Config) HealthCheckInterval() time.Duration {
	return time.Duration(c.HealthCheckIntervalSecs) * time.Second
}

// ListenAddress returns the proxy's gRPC listen address in host:port form.
func (c Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
