package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/money-tracker-web/services/web-console/internal/client"
	"github.com/vasapolrittideah/money-tracker-web/services/web-console/internal/config"
	"github.com/vasapolrittideah/money-tracker-web/services/web-console/internal/handler"
	"github.com/vasapolrittideah/money-tracker-web/services/web-console/internal/repository"
	"github.com/vasapolrittideah/money-tracker-web/services/web-console/internal/usecase"
	"github.com/vasapolrittideah/money-tracker-web/shared/discovery"
	"github.com/vasapolrittideah/money-tracker-web/shared/logger"
	"github.com/vasapolrittideah/money-tracker-web/shared/utilities"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewWebConsoleConfig()
	if err != nil {
		bootLogger := logger.New("web-console", "info")
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New("web-console", cfg.LogLevel)

	storage, closeStorage := newStorage(ctx, log, cfg)
	defer closeStorage()

	tokens, err := repository.NewTokenRepository(ctx, storage)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load session tokens")
	}

	session := usecase.NewSessionUsecase(log, tokens)
	api := client.NewProvider(resolveAPIBaseURL(ctx, log, cfg), session, log)
	validator := usecase.NewStartupValidator(log, session, api)
	authUsecase := usecase.NewAuthUsecase(log, session, validator, api)

	payloadValidator, err := utilities.NewValidator()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create payload validator")
	}

	// The first navigation must see the validated session.
	validator.Startup(ctx)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler.NewRouter(log, session, authUsecase, payloadValidator, handler.DefaultPages),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shut down web console")
		}
	}()

	log.Info().
		Str("addr", cfg.Addr).
		Bool("authenticated", session.IsAuthenticated()).
		Msg("web console listening")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("web console stopped")
	}
}

func newStorage(ctx context.Context, log *zerolog.Logger, cfg *config.WebConsoleConfig) (repository.Storage, func()) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMongo:
		mongoClient, err := mongo.Connect(options.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to mongo")
		}
		closeFn := func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				log.Error().Err(err).Msg("failed to disconnect from mongo")
			}
		}
		storage, err := repository.NewMongoStorage(ctx, mongoClient.Database(cfg.Mongo.Database))
		if err != nil {
			closeFn()
			log.Fatal().Err(err).Msg("failed to reach console storage database")
		}
		return storage, closeFn
	case config.StorageDriverMemory:
		log.Warn().Msg("session tokens will not survive a restart")
		return repository.NewMemoryStorage(), func() {}
	default:
		log.Info().Str("path", cfg.Storage.Path).Msg("persisting session tokens to file")
		return repository.NewFileStorage(cfg.Storage.Path), func() {}
	}
}

// resolveAPIBaseURL swaps the scheme and host of API_BASE_URL for a healthy Consul
// instance when API_CONSUL_SERVICE is set.
func resolveAPIBaseURL(ctx context.Context, log *zerolog.Logger, cfg *config.WebConsoleConfig) string {
	if cfg.APIConsulService == "" {
		return cfg.APIBaseURL
	}

	resolver, err := discovery.NewResolver(cfg.ConsulAddr)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create consul resolver")
	}

	addr, err := resolver.ResolveHTTP(ctx, cfg.APIConsulService)
	if err != nil {
		log.Fatal().Err(err).Str("service", cfg.APIConsulService).Msg("failed to resolve API service")
	}

	base, err := url.Parse(cfg.APIBaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid API_BASE_URL")
	}

	resolved := addr + base.Path
	log.Info().Str("base_url", resolved).Msg("resolved API service from consul")

	return resolved
}
