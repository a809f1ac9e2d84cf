package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/promptdeck/deckhand/internal/client"
	"github.com/promptdeck/deckhand/internal/config"
	"github.com/promptdeck/deckhand/internal/connectivity"
	"github.com/promptdeck/deckhand/internal/console"
	"github.com/promptdeck/deckhand/internal/metrics"
	"github.com/promptdeck/deckhand/internal/notifier"
	"github.com/promptdeck/deckhand/internal/ratelimit"
	"github.com/promptdeck/deckhand/internal/session"
)

// app bundles the wired collaborators every subcommand runs on.
type app struct {
	cfg     *config.GlobalConfig
	client  *client.Client
	console *console.Console
	store   session.Store
}

// newApp loads configuration and wires the API client for a one-shot command.
// Command output stays on stdout; diagnostics go to stderr at warning level.
func newApp(cmd *cobra.Command) (*app, error) {
	_ = godotenv.Load()

	configPath, _ := cmd.Flags().GetString("config")
	gCfg, err := config.LoadGlobalConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.ValidateConfig(gCfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	zLogger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.WarnLevel).
		With().Timestamp().Logger()

	var store session.Store
	switch gCfg.SessionConfig.Store {
	case "memory":
		store = session.NewMemoryStore()
	default:
		store = session.NewKeyringStore(gCfg.SessionConfig.KeyringService)
	}

	prober := connectivity.NewHTTPProber(
		gCfg.ClientConfig.BaseURL,
		gCfg.ConnectivityConfig.ProbePath,
		gCfg.ConnectivityConfig.ProbeTimeout(),
	)
	monitor := connectivity.NewMonitor(gCfg.ConnectivityConfig, prober, zLogger, metrics.Nop())

	apiClient, err := client.NewBuilder(zLogger).
		WithClientConfig(gCfg.ClientConfig).
		WithRetryConfig(gCfg.RetryConfig).
		WithRateLimitConfig(gCfg.RateLimitConfig).
		WithTracker(ratelimit.NewTracker(zLogger)).
		WithConnectivity(monitor).
		WithSessionStore(store).
		WithNotifier(notifier.NewNop()).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build API client: %w", err)
	}

	apiConsole := console.New(apiClient, console.WithRenewPath(gCfg.SessionConfig.RenewPath))
	apiClient.SetRenewer(apiConsole.Auth)

	return &app{
		cfg:     gCfg,
		client:  apiClient,
		console: apiConsole,
		store:   store,
	}, nil
}
