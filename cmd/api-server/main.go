package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/payslice/sms-relay/internal/api"
	"github.com/payslice/sms-relay/internal/config"
	"github.com/payslice/sms-relay/internal/idempotency"
	"github.com/payslice/sms-relay/internal/ingest"
	"github.com/payslice/sms-relay/internal/logger"
	"github.com/payslice/sms-relay/internal/provider"
	"github.com/payslice/sms-relay/internal/queue"
	"github.com/payslice/sms-relay/internal/secrets"
)

// version defaults to the build-time -ldflags value; the SMS_RELAY_VERSION
// environment variable overrides it.
var version = "dev"

func main() {
	if v := os.Getenv("SMS_RELAY_VERSION"); v != "" {
		version = v
	}
	cfg, err := config.Load("config")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewFromConfig(cfg.Logging)
	log.Info().Str("version", version).Msg("starting api server")

	ctx := context.Background()

	// Load provider credentials. Without them no request path works.
	loader, err := secrets.NewLoader(cfg.Secrets.Region, cfg.Secrets.Name, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create secrets loader")
	}
	bundle, err := loader.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load credential bundle")
	}
	// The worker runs without a bearer token; the api-server cannot.
	if err := bundle.RequireBearerToken(); err != nil {
		log.Fatal().Err(err).Msg("credential bundle unusable for api-server")
	}

	httpClient := provider.NewHTTPClient(cfg.Provider.Timeout)
	twilio := provider.NewTwilio(provider.TwilioConfig{
		AccountSID:          bundle.AccountSID,
		AuthToken:           bundle.AuthToken,
		MessagingServiceSID: bundle.MessagingServiceSID,
		Endpoint:            cfg.Provider.Endpoint,
	}, httpClient)

	enqueuer, err := queue.NewSQSEnqueuer(cfg.Queue.QueueURL, cfg.Queue.Region, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create enqueuer")
	}

	guard := idempotency.New(cfg.Idempotency, log)
	if guard != nil {
		log.Info().Str("redis_addr", cfg.Idempotency.RedisAddr).Msg("idempotency guard enabled")
	}

	svc := ingest.NewService(twilio, enqueuer, guard, cfg.Ingest.DelaySeconds, log)

	var reproc queue.Reprocessor
	if cfg.Queue.DLQueueURL != "" {
		dlq, err := queue.NewSQSDLQ(cfg.Queue.DLQueueURL, cfg.Queue.Region, enqueuer, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create dlq reprocessor")
		}
		reproc = dlq
	}

	router := api.NewRouter(svc, reproc, bundle.BearerToken, version, log)

	addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.API.ReadTimeout,
		WriteTimeout: cfg.API.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("api server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
