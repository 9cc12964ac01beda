package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/verifycheck/leads-api/cmd/mainconfig"
	"github.com/verifycheck/leads-api/internal/api/router"
	appconfig "github.com/verifycheck/leads-api/internal/config"
	"github.com/verifycheck/leads-api/internal/http/handlers"
	"github.com/verifycheck/leads-api/internal/leads"
	"github.com/verifycheck/leads-api/internal/notify"
	"github.com/verifycheck/leads-api/internal/observability/metrics"
	"github.com/verifycheck/leads-api/internal/storage"
	"github.com/verifycheck/leads-api/pkg/logging"
)

func main() {
	// Load .env in development; real deployments set env vars directly.
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting leads-api server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	// Lead storage: MongoDB when configured, in-memory otherwise.
	var (
		b2bRepo leads.Repository
		b2cRepo leads.Repository
		conn    *storage.Conn
	)
	if cfg.MongoURI != "" {
		conn = storage.NewConn(cfg.MongoURI, cfg.MongoDatabase, logger)
		b2bRepo = leads.NewMongoRepository(conn, leads.KindB2B)
		b2cRepo = leads.NewMongoRepository(conn, leads.KindB2C)
		logger.Info("using mongodb lead store", "database", cfg.MongoDatabase)
	} else {
		b2bRepo = leads.NewInMemoryRepository(leads.KindB2B)
		b2cRepo = leads.NewInMemoryRepository(leads.KindB2C)
		logger.Warn("MONGODB_URI not set; leads are held in memory and lost on restart")
	}

	sender, err := buildEmailSender(cfg, logger)
	if err != nil {
		logger.Error("failed to configure email transport", "error", err)
		os.Exit(1)
	}
	notifySvc := notify.NewService(sender, cfg.EmailTo, logger)
	notifyHandler := notify.NewHandler(notifySvc, logger, cfg.NotifyTimeout)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	leadMetrics := metrics.NewLeadMetrics(registry)

	leadsHandler := leads.NewHandler(b2bRepo, b2cRepo, notifySvc, leadMetrics, logger, cfg.StoreTimeout, cfg.NotifyTimeout)

	var pinger handlers.Pinger
	if conn != nil {
		pinger = conn
	}
	diagnostics := handlers.NewDiagnosticsHandler(pinger, emailInfo(cfg), logger)

	routerCfg := &router.Config{
		Logger:             logger,
		LeadsHandler:       leadsHandler,
		NotifyHandler:      notifyHandler,
		Diagnostics:        diagnostics,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		AdminToken:         cfg.AdminToken,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		IntakeRateLimit:    2,
		IntakeBurst:        10,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	if conn != nil {
		if err := conn.Close(ctx); err != nil {
			logger.Warn("mongodb disconnect failed", "error", err)
		}
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// buildEmailSender picks the notification transport from EMAIL_PROVIDER.
func buildEmailSender(cfg *appconfig.Config, logger *logging.Logger) (notify.EmailSender, error) {
	switch cfg.EmailProvider {
	case "smtp":
		sender := notify.NewSMTPSender(notify.SMTPConfig{
			Host:      cfg.SMTPHost,
			Port:      cfg.SMTPPort,
			Username:  cfg.SMTPUser,
			Password:  cfg.SMTPPass,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		}, logger)
		if sender == nil {
			logger.Warn("SMTP_HOST not set; email notifications disabled")
			return notify.NewStubEmailSender(logger), nil
		}
		return sender, nil
	case "sendgrid":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		}, logger)
		if sender == nil {
			logger.Warn("SENDGRID_API_KEY not set; email notifications disabled")
			return notify.NewStubEmailSender(logger), nil
		}
		return sender, nil
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(context.Background(), cfg)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		}, logger), nil
	case "stub", "none", "":
		return notify.NewStubEmailSender(logger), nil
	default:
		return nil, fmt.Errorf("unknown EMAIL_PROVIDER %q", cfg.EmailProvider)
	}
}

func emailInfo(cfg *appconfig.Config) handlers.EmailInfo {
	hasCredential := false
	switch cfg.EmailProvider {
	case "smtp":
		hasCredential = cfg.SMTPHost != ""
	case "sendgrid":
		hasCredential = cfg.SendGridAPIKey != ""
	case "ses":
		hasCredential = cfg.AWSRegion != ""
	}
	return handlers.EmailInfo{
		Provider:      cfg.EmailProvider,
		From:          cfg.EmailFrom,
		Recipient:     cfg.EmailTo,
		HasCredential: hasCredential,
	}
}
