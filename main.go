package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"legaluplift/pkg/api"
	"legaluplift/pkg/clients/leadmarket"
	"legaluplift/pkg/clients/trustedform"
	"legaluplift/pkg/config"
	"legaluplift/pkg/middleware"
	"legaluplift/pkg/services"
	"legaluplift/pkg/sessions"
	"legaluplift/pkg/telemetry"
	"legaluplift/pkg/wizard"
)

const serviceName = "legaluplift"

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			ProvideLogger,
			ProvideHTTPClient,
			ProvideLeadMarketClient,
			ProvideTrustedFormClient,
			services.NewLogReporter,
			ProvideSubmissionService,
			ProvideSessionManager,
			ProvideHandlers,
			ProvideRouter,
		),
		fx.Invoke(StartTelemetry, StartJanitor, StartServer),
	)

	app.Run()
}

func ProvideLogger(cfg *config.Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	return logger
}

func ProvideHTTPClient(cfg *config.Config) *http.Client {
	return &http.Client{Timeout: cfg.HTTPTimeout}
}

func ProvideLeadMarketClient(cfg *config.Config, httpClient *http.Client) leadmarket.Client {
	return leadmarket.NewClient(cfg.LeadMarketURL, httpClient)
}

func ProvideTrustedFormClient(cfg *config.Config, httpClient *http.Client) trustedform.Client {
	return trustedform.NewClient(cfg.TrustedFormAPIKey, cfg.TrustedFormCertHost, httpClient)
}

func ProvideSubmissionService(
	cfg *config.Config,
	marketClient leadmarket.Client,
	consentClient trustedform.Client,
	reporter services.Reporter,
	logger *slog.Logger,
) services.LeadSubmissionService {
	settings := services.SubmissionSettings{
		Campaign:         cfg.Campaign(),
		TCPALanguage:     cfg.TCPALanguage,
		DefaultIPAddress: cfg.DefaultIPAddress,
		LandingPageURL:   cfg.LandingPageURL,
	}
	return services.NewLeadSubmissionService(marketClient, consentClient, reporter, settings, logger)
}

func ProvideSessionManager(cfg *config.Config, leads services.LeadSubmissionService, logger *slog.Logger) *sessions.Manager {
	options := wizard.Options{
		TimingCutoff: cfg.Cutoff(),
		Compensation: cfg.Compensation(),
	}
	return sessions.NewManager(leads, options, cfg.SessionTTL, cfg.MaxSessions, logger)
}

func ProvideHandlers(manager *sessions.Manager, logger *slog.Logger) *api.Handlers {
	return api.NewHandlers(manager, logger)
}

func ProvideRouter(handlers *api.Handlers) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.TraceID())

	handlers.RegisterRoutes(r)

	return r
}

func StartTelemetry(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger) {
	var shutdown func(context.Context) error
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			var err error
			shutdown, err = telemetry.Setup(ctx, serviceName, cfg.OTelEndpoint, cfg.OTelEnabled)
			if err != nil {
				logger.Warn("tracing disabled", "error", err)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if shutdown == nil {
				return nil
			}
			return shutdown(ctx)
		},
	})
}

// StartJanitor sweeps idle sessions and drains in-flight submissions on stop.
func StartJanitor(lc fx.Lifecycle, cfg *config.Config, manager *sessions.Manager) {
	ctx, cancel := context.WithCancel(context.Background())
	interval := cfg.SessionTTL / 2
	if interval < time.Second {
		interval = time.Second
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go manager.RunJanitor(ctx, interval)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			manager.Wait()
			return nil
		},
	})
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine, logger *slog.Logger) {
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("Server starting", "port", cfg.Port)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Error starting server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server")
			return server.Shutdown(ctx)
		},
	})
}
