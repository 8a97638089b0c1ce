package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/payslice/sms-relay/internal/config"
	"github.com/payslice/sms-relay/internal/logger"
	"github.com/payslice/sms-relay/internal/provider"
	"github.com/payslice/sms-relay/internal/queue"
	"github.com/payslice/sms-relay/internal/secrets"
	"github.com/payslice/sms-relay/internal/worker"
)

func main() {
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
	log.Info().Msg("starting queue worker")

	ctx := context.Background()

	loader, err := secrets.NewLoader(cfg.Secrets.Region, cfg.Secrets.Name, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create secrets loader")
	}
	bundle, err := loader.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load credential bundle")
	}

	httpClient := provider.NewHTTPClient(cfg.Provider.Timeout)
	twilio := provider.NewTwilio(provider.TwilioConfig{
		AccountSID:          bundle.AccountSID,
		AuthToken:           bundle.AuthToken,
		MessagingServiceSID: bundle.MessagingServiceSID,
		Endpoint:            cfg.Provider.Endpoint,
	}, httpClient)

	handler := worker.NewHandler(twilio, log)

	dequeuer, err := queue.NewSQSDequeuer(cfg.Queue, handler, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create dequeuer")
	}

	if err := dequeuer.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start dequeuer")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down queue worker")

	if err := dequeuer.Stop(context.Background()); err != nil {
		log.Error().Err(err).Msg("worker shutdown error")
	}

	log.Info().Msg("queue worker stopped")
}
