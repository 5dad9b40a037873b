// Package config loads server and shell settings from defaults, an optional
// TOML file and environment variables, in that order of precedence.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Rate    RateConfig    `toml:"rate-limit"`
	Store   StoreConfig   `toml:"store"`
	Logging LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: all interfaces)
	Host string `toml:"host" env:"SERVER_HOST"`

	// Port is the port to listen on (default: 8080)
	Port int `toml:"port" env:"SERVER_PORT" default:"8080"`

	ReadTimeout     time.Duration `toml:"read-timeout" env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `toml:"write-timeout" env:"SERVER_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `toml:"shutdown-timeout" env:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
}

// RateConfig limits requests per client IP.
type RateConfig struct {
	Enabled           bool    `toml:"enabled" env:"RATE_LIMIT_ENABLED" default:"true"`
	RequestsPerSecond float64 `toml:"requests-per-second" env:"RATE_LIMIT_RPS" default:"20"`
}

// StoreConfig holds the in-memory table settings.
type StoreConfig struct {
	// Capacity is the fixed number of table slots (default: 512)
	Capacity int `toml:"capacity" env:"STORE_CAPACITY" default:"512"`

	// DataFile is loaded at startup when set
	DataFile string `toml:"data-file" env:"STORE_DATA_FILE"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error (default: info)
	Level string `toml:"level" env:"LOG_LEVEL" default:"info"`

	// Format is console or json (default: console)
	Format string `toml:"format" env:"LOG_FORMAT" default:"console"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
