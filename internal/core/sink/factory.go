package sink

import (
	"fmt"
	"net/http"

	"github.com/solatis/sdlc-connector/internal/core/config"
)

// New builds the sink selected by cfg.Mode. messages is only used in
// persist mode and may be nil otherwise.
func New(cfg *config.SinkConfig, messages MessageSaver) (Sink, error) {
	switch cfg.Mode {
	case config.SinkModePersist:
		if messages == nil {
			return nil, fmt.Errorf("persist sink requires a message store")
		}
		return NewPersist(messages), nil

	case config.SinkModeForward:
		transport, err := newTransport(&cfg.Forward)
		if err != nil {
			return nil, err
		}
		return NewForward(transport, cfg.Forward.Timeout, BreakerConfig{
			FailureThreshold: cfg.Forward.FailureThreshold,
			OpenTimeout:      cfg.Forward.OpenTimeout,
		}), nil

	default:
		return nil, fmt.Errorf("unknown sink mode %q", cfg.Mode)
	}
}

func newTransport(cfg *config.ForwardConfig) (Transport, error) {
	switch cfg.Transport {
	case config.TransportHTTP:
		return NewHTTPTransport(cfg.URL, &http.Client{Timeout: cfg.Timeout}), nil
	case config.TransportGRPC:
		return DialGRPC(cfg.GRPCTarget)
	default:
		return nil, fmt.Errorf("unknown forward transport %q", cfg.Transport)
	}
}
