package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for the application
type Config struct {
	Server        ServerConfig   `json:"server"`
	Database      DatabaseConfig `json:"database"`
	Upstream      UpstreamConfig `json:"upstream"`
	TargetArtists []string       `json:"target_artists"`
	Poll          PollConfig     `json:"poll"`
}

// ServerConfig for HTTP server settings
type ServerConfig struct {
	Port         string `json:"port"`
	ReadTimeout  int    `json:"read_timeout_seconds"`
	WriteTimeout int    `json:"write_timeout_seconds"`
}

// DatabaseConfig for the sqlite snapshot store
type DatabaseConfig struct {
	Path string `json:"path"`
}

// UpstreamConfig for the two FortuneMusic endpoints
type UpstreamConfig struct {
	EventsURL      string `json:"events_url"`
	WaitingRoomURL string `json:"waiting_room_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// PollConfig for the background catalog refresh loop
type PollConfig struct {
	IntervalSeconds int `json:"interval_seconds"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values using the pattern MEETS_SECTION_KEY
func Load(configPath string) (*Config, error) {
	config := &Config{}

	// Load from file if it exists
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Apply defaults
	applyDefaults(config)

	// Override with environment variables
	applyEnvOverrides(config)

	return config, nil
}

func applyDefaults(config *Config) {
	if config.Server.Port == "" {
		config.Server.Port = "8080"
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = 30
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = 30
	}
	if config.Database.Path == "" {
		config.Database.Path = "./meets-dashboard.db"
	}
	if config.Upstream.TimeoutSeconds == 0 {
		config.Upstream.TimeoutSeconds = 10
	}
	// The fixed upstream URLs and artist allow-list live as defaults in the
	// integration clients; empty values here mean "use those".
	if config.Poll.IntervalSeconds == 0 {
		config.Poll.IntervalSeconds = 20
	}
}

func applyEnvOverrides(config *Config) {
	if v := os.Getenv("MEETS_SERVER_PORT"); v != "" {
		config.Server.Port = v
	}
	if v := os.Getenv("MEETS_DATABASE_PATH"); v != "" {
		config.Database.Path = v
	}
	if v := os.Getenv("MEETS_UPSTREAM_EVENTS_URL"); v != "" {
		config.Upstream.EventsURL = v
	}
	if v := os.Getenv("MEETS_UPSTREAM_WAITING_ROOM_URL"); v != "" {
		config.Upstream.WaitingRoomURL = v
	}
	if v := os.Getenv("MEETS_POLL_INTERVAL_SECONDS"); v != "" {
		if interval, err := strconv.Atoi(v); err == nil && interval > 0 {
			config.Poll.IntervalSeconds = interval
		}
	}
}

// Validate checks if required configurations are present
func (c *Config) Validate() error {
	if c.Poll.IntervalSeconds <= 0 {
		return fmt.Errorf("poll interval must be positive, got %d", c.Poll.IntervalSeconds)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	return nil
}
