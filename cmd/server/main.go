package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	ginapi "github.com/himuexe/Utsavia/api/gin"
	"github.com/himuexe/Utsavia/cache"
	redisstore "github.com/himuexe/Utsavia/cache/redis"
	"github.com/himuexe/Utsavia/config"
	"github.com/himuexe/Utsavia/domain"
	"github.com/himuexe/Utsavia/internal/auth"
	"github.com/himuexe/Utsavia/internal/federation"
	"github.com/himuexe/Utsavia/internal/metrics"
	"github.com/himuexe/Utsavia/internal/server"
	"github.com/himuexe/Utsavia/internal/telemetry"
	"github.com/himuexe/Utsavia/mongodb"
	"github.com/himuexe/Utsavia/services"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("http_port", cfg.HTTPPort).
		Str("environment", cfg.Environment).
		Str("mongo_db", cfg.MongoDBName).
		Bool("google_login", cfg.GoogleEnabled()).
		Str("token_cache", cfg.TokenCache).
		Msg("Starting utsavia auth server")

	ctx := context.Background()

	tp, err := telemetry.InitTracerProvider(ctx, cfg.OtelServiceName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize tracer provider")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics.Register(registry)

	if err := mongodb.InitMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	db := mongodb.GetDB()

	userRepo, err := mongodb.NewUserRepository(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize user repository")
	}
	stateRepo, err := mongodb.NewAuthStateRepository(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize auth state repository")
	}

	tokenStore := newTokenStore(cfg)
	defer tokenStore.Close()

	hasher := auth.NewBcryptPasswordHasher(bcrypt.DefaultCost)
	tokenService := services.NewTokenService(cfg.JWTSecretKey, cfg.TokenIssuer, cfg.TokenTTL(), tokenStore)
	authService := services.NewAuthService(userRepo, hasher, tokenService)

	var fedService *federation.Service
	var states domain.AuthStateRepository
	if cfg.GoogleEnabled() {
		google, gerr := federation.NewGoogleProvider(federation.GoogleConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleCallbackURL,
		})
		if gerr != nil {
			log.Fatal().Err(gerr).Msg("Failed to configure the Google provider")
		}
		fedService = federation.NewService()
		fedService.RegisterProvider(google)
		states = stateRepo
	} else {
		log.Warn().Msg("Google login is disabled: client id/secret not configured")
	}

	authAPI := ginapi.NewAuthAPI(authService, tokenService, fedService, states, ginapi.Config{
		FrontendURL:   cfg.FrontendURL,
		SessionSecret: cfg.SessionSecret,
		SecureCookies: cfg.IsProduction(),
		TokenTTL:      cfg.TokenTTL(),
	})

	httpServer := server.NewHTTPServer(cfg, authAPI, registry)
	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("HTTP server listening")
		if serveErr := httpServer.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
			log.Fatal().Err(serveErr).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	telemetry.Shutdown(shutdownCtx, tp)
	mongodb.CloseMongoDB(shutdownCtx)

	log.Info().Msg("Server stopped")
}

func setupLogger(cfg *config.ServerConfig) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// newTokenStore selects the verified-token cache backend. The memory store
// is per-process; redis shares verification results across replicas.
func newTokenStore(cfg *config.ServerConfig) cache.TokenStore {
	if cfg.TokenCache == "redis" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		log.Info().Str("addr", cfg.RedisAddr).Msg("Using redis token cache")
		return redisstore.NewTokenStore(client, cfg.RedisKeyPrefix)
	}
	return cache.NewMemoryTokenStore(cfg.TokenTTL())
}
