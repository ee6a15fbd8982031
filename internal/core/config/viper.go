package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// secretKeys must never appear in a config file. Webhook secrets live in
// the token store and are provisioned with `sdlcconnector token add`.
var secretKeys = []string{
	"webhook_secret",
	"secret",
	"secrets",
	"github.webhook_secret",
	"server.webhook_secret",
}

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence.
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWith(viper.New(), configPath)
}

// LoadConfigWith is LoadConfig over a caller-owned viper instance so cobra
// flags bound with BindPFlag take precedence.
func LoadConfigWith(v *viper.Viper, configPath string) (*Config, error) {
	setDefaults(v)

	// Bind environment variables with SDLC_ prefix
	v.SetEnvPrefix("SDLC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := validateNoSecretsInConfig(v); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:               v.GetString("server.host"),
			Port:               v.GetInt("server.port"),
			ReadTimeout:        v.GetDuration("server.read_timeout"),
			WriteTimeout:       v.GetDuration("server.write_timeout"),
			MaxPayloadBytes:    v.GetInt64("server.max_payload_bytes"),
			RateLimitPerMinute: v.GetInt("server.rate_limit_per_minute"),
		},
		Database: DatabaseConfig{
			URL: v.GetString("database.url"),
		},
		Sink: SinkConfig{
			Mode: strings.ToLower(v.GetString("sink.mode")),
			Forward: ForwardConfig{
				Transport:        strings.ToLower(v.GetString("sink.forward.transport")),
				URL:              strings.TrimRight(v.GetString("sink.forward.url"), "/"),
				GRPCTarget:       v.GetString("sink.forward.grpc_target"),
				Timeout:          v.GetDuration("sink.forward.timeout"),
				FailureThreshold: v.GetUint32("sink.forward.failure_threshold"),
				OpenTimeout:      v.GetDuration("sink.forward.open_timeout"),
			},
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout.String())
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout.String())
	v.SetDefault("server.max_payload_bytes", d.Server.MaxPayloadBytes)
	v.SetDefault("server.rate_limit_per_minute", d.Server.RateLimitPerMinute)
	v.SetDefault("database.url", d.Database.URL)
	v.SetDefault("sink.mode", d.Sink.Mode)
	v.SetDefault("sink.forward.transport", d.Sink.Forward.Transport)
	v.SetDefault("sink.forward.url", "")
	v.SetDefault("sink.forward.grpc_target", "")
	v.SetDefault("sink.forward.timeout", d.Sink.Forward.Timeout.String())
	v.SetDefault("sink.forward.failure_threshold", d.Sink.Forward.FailureThreshold)
	v.SetDefault("sink.forward.open_timeout", d.Sink.Forward.OpenTimeout.String())
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Validate checks ranges and cross-field requirements. Errors name the key.
func Validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive, got %v", cfg.Server.WriteTimeout)
	}
	if cfg.Server.MaxPayloadBytes <= 0 {
		return fmt.Errorf("server.max_payload_bytes must be positive, got %d", cfg.Server.MaxPayloadBytes)
	}
	if cfg.Server.RateLimitPerMinute < 0 {
		return fmt.Errorf("server.rate_limit_per_minute must not be negative, got %d", cfg.Server.RateLimitPerMinute)
	}

	// Secrets and user mappings live in the database in every mode.
	if cfg.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}

	switch cfg.Sink.Mode {
	case SinkModePersist:
	case SinkModeForward:
		if err := validateForward(&cfg.Sink.Forward); err != nil {
			return err
		}
	default:
		return fmt.Errorf("sink.mode must be %q or %q, got %q", SinkModePersist, SinkModeForward, cfg.Sink.Mode)
	}
	return nil
}

func validateForward(f *ForwardConfig) error {
	switch f.Transport {
	case TransportHTTP:
		if f.URL == "" {
			return fmt.Errorf("sink.forward.url is required for the http transport")
		}
	case TransportGRPC:
		if f.GRPCTarget == "" {
			return fmt.Errorf("sink.forward.grpc_target is required for the grpc transport")
		}
	default:
		return fmt.Errorf("sink.forward.transport must be %q or %q, got %q", TransportHTTP, TransportGRPC, f.Transport)
	}
	if f.Timeout <= 0 {
		return fmt.Errorf("sink.forward.timeout must be positive, got %v", f.Timeout)
	}
	if f.FailureThreshold == 0 {
		return fmt.Errorf("sink.forward.failure_threshold must be positive")
	}
	if f.OpenTimeout <= 0 {
		return fmt.Errorf("sink.forward.open_timeout must be positive, got %v", f.OpenTimeout)
	}
	return nil
}

// validateNoSecretsInConfig enforces store-only webhook secrets.
func validateNoSecretsInConfig(v *viper.Viper) error {
	for _, key := range secretKeys {
		if v.InConfig(key) {
			return fmt.Errorf("webhook secrets not allowed in config files (found %q; use `sdlcconnector token add`)", key)
		}
	}
	return nil
}
