package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/scamtrap-poc/server/internal/core"
	"github.com/scamtrap-poc/server/internal/honeypot/detect"
	"github.com/scamtrap-poc/server/internal/honeypot/engage"
	"github.com/scamtrap-poc/server/internal/honeypot/intel"
	"github.com/scamtrap-poc/server/internal/honeypot/model"
	"github.com/scamtrap-poc/server/internal/honeypot/persona"
	"github.com/scamtrap-poc/server/internal/honeypot/repo"
	"github.com/scamtrap-poc/server/internal/honeypot/report"
	"github.com/scamtrap-poc/server/internal/server"
	logx "github.com/scamtrap-poc/server/pkg/logger"
	pkgredis "github.com/scamtrap-poc/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the honeypot service,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"APP_ENV" default:"development"`
	Port        string `envconfig:"PORT" default:"8000"`

	// Inbound auth
	SecretKey string `envconfig:"SECRET_API_KEY" required:"true"`

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Infrastructure
	Redis pkgredis.Config

	// Honeypot configs
	Detector      model.DetectorConfig
	Extractor     model.ExtractorConfig
	Engagement    model.EngagementConfig
	PersonaModel  model.PersonaModelConfig
	PersonaPrompt model.PersonaPromptConfig
	Report        model.ReportConfig
	Session       model.SessionConfig
}

func main() {
	ctx := context.Background()

	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load structured config from env
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	env := core.ParseEnvironment(cfg.Environment)
	logx.Init(logx.LoggerOpts{Environment: env, Service: "scam-honeypot"})

	ttl, err := time.ParseDuration(cfg.Session.TTL)
	if err != nil {
		logx.Fatal().Err(err).Str("ttl", cfg.Session.TTL).Msg("Invalid SESSION_TTL")
	}

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store model.SessionStore
	switch cfg.Session.Backend {
	case "redis":
		rdb, err := cfg.Redis.New()
		if err != nil {
			logx.Fatal().Err(err).Msg("Failed to initialise Redis client")
		}
		defer rdb.Close()
		logx.Info().Msg("Connected to Redis successfully")
		store = repo.NewRedisSessionStore(rdb, ttl)
	default:
		mem := repo.NewMemorySessionStore(ttl, cfg.Session.MaxSessions)
		mem.StartSweeper(runCtx)
		store = mem
	}

	var generator model.ReplyGenerator
	if cfg.APIKey == "" {
		logx.Warn().Msg("GEMINI_API_KEY not set; persona reply generation is disabled and every engagement will fail")
		generator = persona.Disabled{}
	} else {
		generator, err = persona.New(ctx, persona.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.PersonaModel,
			Prompt:  cfg.PersonaPrompt,
		})
		if err != nil {
			logx.Fatal().Err(err).Msg("Failed to initialise persona generator")
		}
	}

	orchestrator := engage.NewOrchestrator(
		detect.NewDetector(cfg.Detector),
		intel.NewExtractor(cfg.Extractor),
		store,
		generator,
		report.NewHTTPSink(cfg.Report),
		cfg.Engagement,
	)

	handler := server.NewHandler(orchestrator)
	router := server.NewRouter(handler, cfg.SecretKey)

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 30 * time.Second,
		// Persona model calls are synchronous and network-bound; the write
		// timeout has to outlive them.
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info().Str("addr", srv.Addr).Str("env", env.String()).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-runCtx.Done()
	stop()
	logx.Info().Msg("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logx.Error().Err(err).Msg("Server forced to shutdown")
	} else {
		logx.Info().Msg("Server stopped gracefully")
	}
}
