package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yukikurage/note-api/internal/authprovider"
	"github.com/yukikurage/note-api/internal/config"
	"github.com/yukikurage/note-api/internal/database"
	"github.com/yukikurage/note-api/internal/logging"
	"github.com/yukikurage/note-api/internal/server"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger, err := logging.New().FromPath(cfg.LogFile).WithLevel(cfg.LogLevel).Make()
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("failed to open log file")
	}
	defer logger.Close()
	log := logger.Logger

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	db := database.GetDB()

	// Run migrations
	if err := database.Migrate(db, log); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	provider := newProvider(cfg, db, log)

	store, err := server.NewSessionStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create session store")
	}

	router, err := server.NewRouter(server.Deps{
		Config:   cfg,
		DB:       db,
		Provider: provider,
		Sessions: store,
		Logger:   log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func newProvider(cfg *config.Config, db *gorm.DB, log zerolog.Logger) authprovider.Provider {
	if cfg.AuthProvider == config.AuthProviderSupabase {
		log.Info().Str("url", cfg.SupabaseURL).Msg("using supabase identity provider")
		return authprovider.NewSupabase(cfg.SupabaseURL, cfg.SupabaseAnonKey)
	}

	local := authprovider.NewLocal(db, cfg.TokenTTL)
	purged, err := local.PurgeExpired(context.Background())
	if err != nil {
		log.Warn().Err(err).Msg("failed to purge expired tokens")
	} else {
		log.Info().Int64("purged", purged).Msg("using local identity provider")
	}
	return local
}
