// Package config provides configuration management for the connector.
package config

import (
	"time"

	"github.com/solatis/sdlc-connector/internal/types"
)

// Sink modes.
const (
	SinkModePersist = "persist"
	SinkModeForward = "forward"
)

// Forward transports.
const (
	TransportHTTP = "http"
	TransportGRPC = "grpc"
)

// Config is the full runtime configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Sink     SinkConfig
	Log      LogConfig
}

// ServerConfig holds configuration for the HTTP webhook server.
type ServerConfig struct {
	Host               string
	Port               int
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	MaxPayloadBytes    int64
	// RateLimitPerMinute caps webhook requests per project. Zero disables it;
	// senders do not redeliver throttled events.
	RateLimitPerMinute int
}

// DatabaseConfig points at the token, user mapping and message store.
// URL scheme selects the driver: sqlite:// or postgres://.
type DatabaseConfig struct {
	URL string
}

// SinkConfig selects where envelopes go.
type SinkConfig struct {
	Mode    string
	Forward ForwardConfig
}

// ForwardConfig configures the downstream content service.
type ForwardConfig struct {
	Transport        string
	URL              string
	GRPCTarget       string
	Timeout          time.Duration
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// LogConfig mirrors logging.Config.
type LogConfig struct {
	Level  string
	Format string
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:               "0.0.0.0",
			Port:               8080,
			ReadTimeout:        30 * time.Second,
			WriteTimeout:       30 * time.Second,
			MaxPayloadBytes:    types.MaxPayloadSize,
			RateLimitPerMinute: 0,
		},
		Database: DatabaseConfig{
			URL: "sqlite://./data/sdlc-connector.db",
		},
		Sink: SinkConfig{
			Mode: SinkModePersist,
			Forward: ForwardConfig{
				Transport:        TransportHTTP,
				Timeout:          10 * time.Second,
				FailureThreshold: 5,
				OpenTimeout:      30 * time.Second,
			},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
