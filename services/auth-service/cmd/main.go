package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/money-tracker-web/services/auth-service/internal/config"
	"github.com/vasapolrittideah/money-tracker-web/services/auth-service/internal/handler"
	"github.com/vasapolrittideah/money-tracker-web/services/auth-service/internal/repository"
	"github.com/vasapolrittideah/money-tracker-web/services/auth-service/internal/usecase"
	"github.com/vasapolrittideah/money-tracker-web/shared/auth"
	"github.com/vasapolrittideah/money-tracker-web/shared/logger"
	"github.com/vasapolrittideah/money-tracker-web/shared/utilities"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewAuthServiceConfig()
	if err != nil {
		bootLogger := logger.New("auth-service", "info")
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New("auth-service", cfg.LogLevel)

	userRepo, sessionRepo, closeRepos := newRepositories(ctx, log, cfg)
	defer closeRepos()

	jwtAuth := auth.NewJWTAuthenticator(cfg.Token.Issuer, cfg.Token.Issuer)
	authUsecase := usecase.NewAuthUsecase(sessionRepo, userRepo, jwtAuth, cfg)

	validator, err := utilities.NewValidator()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create payload validator")
	}

	server := &http.Server{
		Addr: cfg.Addr,
		Handler: handler.NewRouter(
			log,
			authUsecase,
			validator,
			jwtAuth,
			cfg.Token.AccessTokenSecret,
			cfg.BasePath,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shut down auth service")
		}
	}()

	log.Info().Str("addr", cfg.Addr).Str("base_path", cfg.BasePath).Msg("auth service listening")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("auth service stopped")
	}
}

func newRepositories(
	ctx context.Context,
	log *zerolog.Logger,
	cfg *config.AuthServiceConfig,
) (repository.UserRepository, repository.SessionRepository, func()) {
	if cfg.MongoURI == "" {
		log.Warn().Msg("MONGO_URI not set, users and sessions are kept in memory")
		return repository.NewUserMemoryRepository(), repository.NewSessionMemoryRepository(), func() {}
	}

	mongoClient, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongo")
	}
	closeFn := func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to disconnect from mongo")
		}
	}

	db := mongoClient.Database(cfg.MongoDatabase)

	return repository.NewUserMongoRepository(ctx, log, db), repository.NewSessionMongoRepository(db), closeFn
}
