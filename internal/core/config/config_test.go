package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/solatis/sdlc-connector/internal/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.Server.Host != "0.0.0.0" {
			t.Errorf("expected host 0.0.0.0, got %s", cfg.Server.Host)
		}
		if cfg.Server.Port != 8080 {
			t.Errorf("expected port 8080, got %d", cfg.Server.Port)
		}
		if cfg.Server.ReadTimeout != 30*time.Second {
			t.Errorf("expected read_timeout 30s, got %v", cfg.Server.ReadTimeout)
		}
		if cfg.Server.MaxPayloadBytes != types.MaxPayloadSize {
			t.Errorf("expected max_payload_bytes %d, got %d", types.MaxPayloadSize, cfg.Server.MaxPayloadBytes)
		}
		if cfg.Server.RateLimitPerMinute != 0 {
			t.Errorf("expected rate limiting off by default, got %d/min", cfg.Server.RateLimitPerMinute)
		}
		if cfg.Sink.Mode != SinkModePersist {
			t.Errorf("expected sink mode persist, got %s", cfg.Sink.Mode)
		}
		if cfg.Sink.Forward.FailureThreshold != 5 {
			t.Errorf("expected failure_threshold 5, got %d", cfg.Sink.Forward.FailureThreshold)
		}
	})

	t.Run("environment override", func(t *testing.T) {
		t.Setenv("SDLC_SERVER_PORT", "9999")
		t.Setenv("SDLC_SERVER_HOST", "127.0.0.1")

		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.Server.Port != 9999 {
			t.Errorf("expected port 9999, got %d", cfg.Server.Port)
		}
		if cfg.Server.Host != "127.0.0.1" {
			t.Errorf("expected host 127.0.0.1, got %s", cfg.Server.Host)
		}
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("SDLC_SERVER_PORT", "8081")
		path := writeConfig(t, "server:\n  port: 9090\n")

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.Server.Port != 8081 {
			t.Errorf("expected env port 8081 over file 9090, got %d", cfg.Server.Port)
		}
	})

	t.Run("forward sink from file", func(t *testing.T) {
		path := writeConfig(t, `sink:
  mode: forward
  forward:
    transport: http
    url: "http://content.internal:8000/"
    timeout: 2s
`)
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.Sink.Mode != SinkModeForward {
			t.Errorf("expected forward mode, got %s", cfg.Sink.Mode)
		}
		if cfg.Sink.Forward.URL != "http://content.internal:8000" {
			t.Errorf("expected trailing slash trimmed, got %s", cfg.Sink.Forward.URL)
		}
		if cfg.Sink.Forward.Timeout != 2*time.Second {
			t.Errorf("expected timeout 2s, got %v", cfg.Sink.Forward.Timeout)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantKey string
	}{
		{name: "port too large", env: map[string]string{"SDLC_SERVER_PORT": "70000"}, wantKey: "server.port"},
		{name: "zero payload limit", env: map[string]string{"SDLC_SERVER_MAX_PAYLOAD_BYTES": "0"}, wantKey: "server.max_payload_bytes"},
		{name: "negative rate limit", env: map[string]string{"SDLC_SERVER_RATE_LIMIT_PER_MINUTE": "-1"}, wantKey: "server.rate_limit_per_minute"},
		{name: "unknown sink mode", env: map[string]string{"SDLC_SINK_MODE": "queue"}, wantKey: "sink.mode"},
		{name: "forward without url", env: map[string]string{"SDLC_SINK_MODE": "forward"}, wantKey: "sink.forward.url"},
		{
			name:    "grpc without target",
			env:     map[string]string{"SDLC_SINK_MODE": "forward", "SDLC_SINK_FORWARD_TRANSPORT": "grpc"},
			wantKey: "sink.forward.grpc_target",
		},
		{
			name:    "unknown transport",
			env:     map[string]string{"SDLC_SINK_MODE": "forward", "SDLC_SINK_FORWARD_TRANSPORT": "amqp"},
			wantKey: "sink.forward.transport",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig("")
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantKey) {
				t.Errorf("error %q does not name %s", err, tt.wantKey)
			}
		})
	}
}

func TestLoadConfig_RejectsSecrets(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "top-level", content: "webhook_secret: \"should_be_rejected\"\n"},
		{name: "nested under github", content: "github:\n  webhook_secret: \"should_be_rejected\"\n"},
		{name: "nested under server", content: "server:\n  port: 8080\n  webhook_secret: \"should_be_rejected\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error for secret in config file")
			}
			if !strings.Contains(err.Error(), "webhook secrets not allowed in config files") {
				t.Errorf("wrong error message: %v", err)
			}
		})
	}
}

func TestValidate_RequiresDatabase(t *testing.T) {
	for _, mode := range []string{SinkModePersist, SinkModeForward} {
		t.Run(mode, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Sink.Mode = mode
			cfg.Sink.Forward.URL = "http://content:8000"
			cfg.Database.URL = ""

			err := Validate(cfg)
			if err == nil || !strings.Contains(err.Error(), "database.url") {
				t.Errorf("Validate() error = %v, expected database.url error", err)
			}

			cfg.Database.URL = "sqlite://./data/test.db"
			if err := Validate(cfg); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}
