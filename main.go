package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/sigcheck/signature-compare/config"
	"github.com/sigcheck/signature-compare/internal/compare"
	"github.com/sigcheck/signature-compare/internal/llm"
	"github.com/sigcheck/signature-compare/internal/server"
	"github.com/sigcheck/signature-compare/internal/session"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var analyzer llm.Analyzer
	if cfg.CredentialsPresent() {
		switch cfg.Provider {
		case config.ProviderGemini:
			analyzer, err = llm.NewGeminiAnalyzer(ctx, cfg.GeminiAPIKey)
			if err != nil {
				log.Fatal().Err(err).Msg("failed to initialize gemini vision analyzer")
			}
			log.Info().Msg("gemini vision analyzer initialized")
		default:
			analyzer, err = llm.NewAzureAnalyzer(llm.AzureConfig{
				Endpoint:   cfg.Azure.Endpoint,
				APIKey:     cfg.Azure.APIKey,
				Deployment: cfg.Azure.Deployment,
				APIVersion: cfg.Azure.APIVersion,
			})
			if err != nil {
				log.Fatal().Err(err).Msg("failed to initialize azure vision analyzer")
			}
			log.Info().Str("deployment", cfg.Azure.Deployment).Msg("azure vision analyzer initialized")
		}
	} else {
		log.Warn().Msg("model credentials are not set; comparisons will fail until configured")
	}

	store := session.NewStore(cfg.SessionTTL)
	service := compare.NewService(analyzer, cfg.CredentialsPresent())
	srv := server.New(store, service)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", cfg.ListenAddr).Msg("server starting")
		return srv.Listen(cfg.ListenAddr)
	})

	g.Go(func() error {
		store.Run(ctx)
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return srv.Shutdown()
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Error().Err(err).Msg("shutdown with error")
	} else {
		log.Info().Msg("shutdown complete")
	}
}
