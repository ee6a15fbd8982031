package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/solatis/sdlc-connector/internal/core/api"
	"github.com/solatis/sdlc-connector/internal/core/auth"
	"github.com/solatis/sdlc-connector/internal/core/config"
	"github.com/solatis/sdlc-connector/internal/core/db"
	"github.com/solatis/sdlc-connector/internal/core/pipeline"
	"github.com/solatis/sdlc-connector/internal/core/server"
	"github.com/solatis/sdlc-connector/internal/core/sink"
	"github.com/solatis/sdlc-connector/internal/core/store"
	"github.com/solatis/sdlc-connector/internal/logging"
	"github.com/solatis/sdlc-connector/internal/rules"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("host", "0.0.0.0", "HTTP server host")
	serveCmd.Flags().Int("port", 8080, "HTTP server port")
	serveCmd.Flags().String("sink", config.SinkModePersist, "sink mode (persist, forward)")

	_ = v.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = v.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	_ = v.BindPFlag("sink.mode", serveCmd.Flags().Lookup("sink"))
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	database, queries, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	statuses, err := db.MigrateStatus(database)
	if err != nil {
		return fmt.Errorf("failed to check migrations: %w", err)
	}
	for _, s := range statuses {
		if !s.Applied {
			return fmt.Errorf("migration %s not applied - run 'sdlcconnector migrate up' first", s.ID)
		}
	}

	var messages *store.Messages
	if cfg.Sink.Mode == config.SinkModePersist {
		messages = store.NewMessages(queries)
	}

	out, err := sink.New(&cfg.Sink, messageSaver(messages))
	if err != nil {
		return fmt.Errorf("failed to create sink: %w", err)
	}
	if c, ok := out.(io.Closer); ok {
		defer c.Close()
	}

	processor, err := pipeline.NewProcessor(
		auth.NewAuthenticator(store.NewTokens(queries)),
		rules.GitHub(),
		store.NewUsers(queries),
		out,
	)
	if err != nil {
		return fmt.Errorf("failed to create processor: %w", err)
	}

	opts := api.Options{
		MaxPayloadBytes:    cfg.Server.MaxPayloadBytes,
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		Health:             database,
	}
	if messages != nil {
		opts.Messages = messages
	}
	handler, err := api.NewHandler(processor, opts)
	if err != nil {
		return fmt.Errorf("failed to create handler: %w", err)
	}

	httpServer, err := server.NewHTTPServer(&cfg.Server, handler.Routes())
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logging.Info().
		Str("version", Version).
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("sink", cfg.Sink.Mode).
		Int("event_types", rules.GitHub().Len()).
		Msg("Starting sdlc-connector")

	errChan := make(chan error, 1)
	go func() {
		errChan <- httpServer.Start(ctx)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logging.Info().Msg("Shutting down gracefully...")
		return httpServer.Shutdown(context.Background())
	}
}

// messageSaver keeps a nil *store.Messages from becoming a non-nil interface.
func messageSaver(m *store.Messages) sink.MessageSaver {
	if m == nil {
		return nil
	}
	return m
}
