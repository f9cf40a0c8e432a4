package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/instameet/instameet/internal/calendar"
	"github.com/instameet/instameet/internal/config"
	"github.com/instameet/instameet/internal/google"
	"github.com/instameet/instameet/internal/instrumentation"
	"github.com/instameet/instameet/internal/logging"
	"github.com/instameet/instameet/internal/server"
	"github.com/instameet/instameet/internal/session"
)

const metricsStartupTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	var (
		addr           string
		baseURL        string
		logLevel       string
		logFile        string
		production     bool
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the instameet web server",
		Long: `Start the HTTP server that handles Google sign-in and meeting creation.

Configuration is read from the environment (and an optional .env file);
flags override it. Google OAuth credentials are required:

  GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET

along with a signing secret of at least 32 bytes:

  INSTAMEET_SESSION_SECRET`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			// Flags override environment when explicitly set.
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("base-url") {
				cfg.BaseURL = baseURL
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if cmd.Flags().Changed("log-file") {
				cfg.LogFile = logFile
			}
			if cmd.Flags().Changed("production") {
				cfg.Production = production
			}
			if cmd.Flags().Changed("metrics-enabled") {
				cfg.MetricsEnabled = metricsEnabled
			}
			if cmd.Flags().Changed("metrics-addr") {
				cfg.MetricsAddr = metricsAddr
			}

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			return runServe(cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "HTTP server address. Can also use INSTAMEET_ADDR env var.")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Public base URL of the deployment, used for OAuth redirects. Can also use INSTAMEET_BASE_URL env var.")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error). Can also use INSTAMEET_LOG_LEVEL env var.")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Log file path with rotation; stderr when empty. Can also use INSTAMEET_LOG_FILE env var.")
	cmd.Flags().BoolVar(&production, "production", false, "Production mode: requires an https base URL and marks cookies Secure. Can also use INSTAMEET_PRODUCTION env var.")
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

func runServe(cfg *config.Config) error {
	logger := logging.Setup(cfg.LogLevel, cfg.LogFile)

	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Error("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	// Start metrics server if enabled
	var metricsServer *server.MetricsServer
	if cfg.MetricsEnabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    cfg.MetricsAddr,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		// Confirm the metrics listener is bound before serving traffic.
		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && !errors.Is(err, http.ErrServerClosed) {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		select {
		case <-metricsReady:
			logger.Info("metrics server started", "addr", metricsServer.Addr())
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(metricsStartupTimeout):
			return fmt.Errorf("metrics server startup timed out")
		}
	}

	sessions := session.NewManager([]byte(cfg.SessionSecret), cfg.SessionLifetime, cfg.Production)
	identity := google.NewAdapter(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.CallbackURL())
	meetings := calendar.NewClient(identity.OAuthConfig())

	srv, err := server.New(server.Config{
		Addr:     cfg.Addr,
		SiteURL:  cfg.SiteURL(),
		Sessions: sessions,
		Identity: identity,
		Meetings: meetings,
		Logger:   logger,
		Metrics:  provider.Metrics(),
		Tracer:   provider.Tracer("instameet/server"),
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	logger.Info("instameet running",
		"addr", cfg.Addr,
		"base_url", cfg.BaseURL,
		"version", version,
	)

	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	case <-shutdownCtx.Done():
	}

	logger.Info("shutdown signal received, draining connections")

	drainCtx, drainCancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
	defer drainCancel()

	var shutdownErrs []error
	if err := srv.Shutdown(drainCtx); err != nil {
		shutdownErrs = append(shutdownErrs, fmt.Errorf("server shutdown: %w", err))
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(drainCtx); err != nil {
			shutdownErrs = append(shutdownErrs, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}
	if len(shutdownErrs) > 0 {
		return errors.Join(shutdownErrs...)
	}

	logger.Info("shutdown complete")
	return nil
}
