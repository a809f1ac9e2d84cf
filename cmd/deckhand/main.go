package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/promptdeck/deckhand/internal/client"
	"github.com/promptdeck/deckhand/internal/config"
	"github.com/promptdeck/deckhand/internal/connectivity"
	"github.com/promptdeck/deckhand/internal/console"
	"github.com/promptdeck/deckhand/internal/logger"
	"github.com/promptdeck/deckhand/internal/metrics"
	"github.com/promptdeck/deckhand/internal/notifier"
	"github.com/promptdeck/deckhand/internal/ratelimit"
	"github.com/promptdeck/deckhand/internal/session"
)

func main() {
	flags := parseFlags()

	if flags.Mode != "check" && flags.Mode != "watch" {
		log.Fatalln("[FATAL] --mode argument is required (check or watch)")
	}

	// Local .env values feed the config loader's env lookups; absence is fine.
	_ = godotenv.Load()

	gCfg, err := config.LoadGlobalConfig(flags.ConfigFile)
	if err != nil {
		log.Fatalf("[FATAL] Could not load global config using path '%s': %v", flags.ConfigFile, err)
	}
	if flags.LogLevel != "" {
		gCfg.LogConfig.LogLevel = flags.LogLevel
	}

	zLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		log.Fatalf("[FATAL] Could not initialize logger: %v", err)
	}

	if err := config.ValidateConfig(gCfg); err != nil {
		zLogger.Fatal().Err(err).Msg("Configuration validation failed")
	}
	zLogger.Info().Str("mode", flags.Mode).Msg("Configuration loaded and validated")

	var registry *prometheus.Registry
	appMetrics := metrics.Nop()
	if gCfg.MetricsConfig.Enabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector())
		appMetrics = metrics.New(registry)
	}

	deps, err := wire(gCfg, zLogger, appMetrics)
	if err != nil {
		zLogger.Fatal().Err(err).Msg("Failed to wire API client")
	}

	switch flags.Mode {
	case "check":
		os.Exit(runCheck(deps, zLogger))
	case "watch":
		runWatch(gCfg, deps, zLogger, registry)
	}
}

// dependencies bundles the wired collaborators the modes run on.
type dependencies struct {
	Client   *client.Client
	Console  *console.Console
	Monitor  *connectivity.Monitor
	Notifier notifier.Notifier
}

func wire(gCfg *config.GlobalConfig, zLogger zerolog.Logger, appMetrics *metrics.Metrics) (*dependencies, error) {
	var sinks []notifier.Notifier
	if gCfg.NotificationConfig.Enabled {
		if gCfg.NotificationConfig.LogNotifications {
			sinks = append(sinks, notifier.NewLogNotifier(zLogger))
		}
		if gCfg.NotificationConfig.WebhookURL != "" {
			webhook, err := notifier.NewWebhookNotifier(gCfg.NotificationConfig.WebhookURL, zLogger, &http.Client{Timeout: 20 * time.Second})
			if err != nil {
				return nil, fmt.Errorf("failed to initialize webhook notifier: %w", err)
			}
			sinks = append(sinks, webhook)
		}
	}
	var notify notifier.Notifier = notifier.NewNop()
	if len(sinks) > 0 {
		notify = notifier.NewMulti(sinks...)
	}

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
	monitor := connectivity.NewMonitor(gCfg.ConnectivityConfig, prober, zLogger, appMetrics)

	apiClient, err := client.NewBuilder(zLogger).
		WithClientConfig(gCfg.ClientConfig).
		WithRetryConfig(gCfg.RetryConfig).
		WithRateLimitConfig(gCfg.RateLimitConfig).
		WithTracker(ratelimit.NewTracker(zLogger)).
		WithConnectivity(monitor).
		WithSessionStore(store).
		WithNotifier(notify).
		WithMetrics(appMetrics).
		Build()
	if err != nil {
		return nil, err
	}

	apiConsole := console.New(apiClient, console.WithRenewPath(gCfg.SessionConfig.RenewPath))
	apiClient.SetRenewer(apiConsole.Auth)

	return &dependencies{Client: apiClient, Console: apiConsole, Monitor: monitor, Notifier: notify}, nil
}

// subscribeTransitions logs every connectivity transition and delivers it as
// a user-facing notification through the configured sinks.
func subscribeTransitions(monitor *connectivity.Monitor, notify notifier.Notifier, zLogger zerolog.Logger) func() {
	return monitor.Subscribe(func(state connectivity.State) {
		event := zLogger.Info()
		if !state.Online {
			event = zLogger.Warn()
		}
		event.Bool("online", state.Online).Msg("Connectivity transition")

		notify.Notify(context.Background(), notifier.FromConnectivity(state.Online))
	})
}

// runCheck performs a one-shot diagnosis: an immediate connectivity probe
// followed by an API health call. Exit code 0 means both passed, 1 means the
// backend is unreachable, 2 means it is reachable but unhealthy.
func runCheck(deps *dependencies, zLogger zerolog.Logger) int {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	online := deps.Console.CheckConnectivity(ctx)
	if !online {
		zLogger.Error().Str("base_url", deps.Client.BaseURL()).Msg("Backend unreachable")
		fmt.Println("connectivity: OFFLINE")
		return 1
	}
	fmt.Println("connectivity: online")

	if err := deps.Console.Health(ctx); err != nil {
		zLogger.Error().Err(err).Msg("API health check failed")
		fmt.Printf("health: FAILED (%v)\n", err)
		return 2
	}
	fmt.Println("health: ok")
	return 0
}

// runWatch runs the connectivity monitor until interrupted, logging every
// transition and optionally serving Prometheus metrics.
func runWatch(gCfg *config.GlobalConfig, deps *dependencies, zLogger zerolog.Logger, registry *prometheus.Registry) {
	unsubscribe := subscribeTransitions(deps.Monitor, deps.Notifier, zLogger)
	defer unsubscribe()

	deps.Monitor.Start()
	defer deps.Monitor.Stop()
	zLogger.Info().Str("base_url", deps.Client.BaseURL()).Msg("Connectivity watch started")

	var metricsServer *http.Server
	if registry != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		metricsServer = &http.Server{Addr: gCfg.MetricsConfig.ListenAddr, Handler: mux}
		go func() {
			zLogger.Info().Str("addr", metricsServer.Addr).Msg("Serving metrics")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				zLogger.Error().Err(err).Msg("Metrics server stopped")
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	zLogger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}
}
