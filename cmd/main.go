package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/laneadvisory/lanesite/internal/api"
	"github.com/laneadvisory/lanesite/internal/cache"
	"github.com/laneadvisory/lanesite/internal/config"
	"github.com/laneadvisory/lanesite/internal/content"
	"github.com/laneadvisory/lanesite/internal/enquiry"
	"github.com/laneadvisory/lanesite/internal/logger"
	"github.com/laneadvisory/lanesite/internal/mail"
	"github.com/laneadvisory/lanesite/internal/middleware"
)

func main() {
	// Load and validate configuration
	cfg := config.Load()

	// Initialize logger
	output := cfg.LogFile
	if output == "" {
		output = "stdout"
	}
	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: output,
		Pretty: cfg.LogPretty,
	}); err != nil {
		panic(err)
	}

	log := logger.Get()
	log.Info().Str("env", cfg.Env).Str("site", cfg.SiteTag).Msg("Starting application...")

	// Revalidation cache: Redis when configured, otherwise in process
	var store cache.Store
	if cfg.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Redis client")
		}
		store = redisClient
	} else {
		log.Info().Msg("REDIS_URL not set, using in-memory content cache")
		store = cache.NewMemoryStore()
	}
	defer func() {
		log.Info().Msg("Closing content cache...")
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing content cache")
		}
	}()

	// Outbound email
	if cfg.SMTPHost == "" {
		log.Warn().Msg("SMTP_HOST not set, form submissions will fail to send")
	}
	sender := mail.NewSMTPSender(mail.SMTPConfig{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		Username:    cfg.SMTPUser,
		Password:    cfg.SMTPPass,
		From:        cfg.SMTPFrom,
		ImplicitTLS: cfg.SMTPImplicitTLS,
		Timeout:     cfg.SMTPTimeout,
	})

	var relay mail.Relay
	if cfg.FormRelayURL != "" {
		relay = mail.NewFormRelay(cfg.FormRelayURL, cfg.HTTPTimeout)
	}

	// Validate already proved the zone loads
	loc, _ := time.LoadLocation(cfg.SiteTimezone)
	intake := enquiry.NewService(sender, enquiry.Options{
		From:        cfg.SMTPFrom,
		DefaultSite: cfg.SiteTag,
		Location:    loc,
		PhoneRegion: cfg.PhoneRegion,
		Relay:       relay,
	})

	// Content store
	var cms content.Store = content.NopStore{}
	if cfg.SanityProjectID != "" {
		sanity, err := content.NewSanityStore(content.SanityConfig{
			ProjectID:  cfg.SanityProjectID,
			Dataset:    cfg.SanityDataset,
			APIVersion: cfg.SanityAPIVersion,
			Token:      cfg.SanityToken,
			UseCDN:     cfg.SanityUseCDN,
			Timeout:    cfg.CMSTimeout,
			Retries:    3,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize content store")
		}
		log.Info().Str("endpoint", sanity.Endpoint()).Msg("Content store configured")
		cms = sanity
	} else {
		log.Warn().Msg("SANITY_PROJECT_ID not set, content endpoints will return empty results")
	}
	posts := content.NewService(cms, store, cfg.RevalidateWindow)

	// Create Fiber app with custom config
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: middleware.ErrorHandler,
	})

	// Setup routes
	api.SetupRoutes(app, api.NewHandlers(cfg, intake, posts))

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Create a deadline for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	// Shutdown the server
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
