package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/masjid-annur/dashboard-server-go/internal/config"
	"github.com/masjid-annur/dashboard-server-go/internal/database"
	"github.com/masjid-annur/dashboard-server-go/internal/handler"
	"github.com/masjid-annur/dashboard-server-go/internal/jobs"
	"github.com/masjid-annur/dashboard-server-go/internal/middleware"
	"github.com/masjid-annur/dashboard-server-go/internal/redis"
	"github.com/masjid-annur/dashboard-server-go/internal/repository"
	"github.com/masjid-annur/dashboard-server-go/internal/service"
	"github.com/masjid-annur/dashboard-server-go/internal/sse"
	"github.com/masjid-annur/dashboard-server-go/internal/upload"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	isProduction := os.Getenv("APP_ENV") == "production"
	if err := cfg.Validate(isProduction); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Msg("database connected")

	if err := db.Migrate(cfg.MigrationsDir); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	log.Info().Msg("migrations applied")

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	adminRepo := repository.NewAdminRepository(db.DB)
	kajianRepo := repository.NewKajianRepository(db.DB)
	adminSessionRepo := repository.NewAdminSessionRepository(db.DB)

	broker := sse.NewBroker(redisClient)
	defer broker.Close()

	adminService := service.NewAdminService(db, adminRepo, cfg.DefaultAdminEmail, cfg.DefaultAdminPassword)
	kajianService := service.NewKajianService(kajianRepo, broker)
	authService := service.NewAuthService(adminService, adminSessionRepo, cfg.SessionSecret)
	prayerService := service.NewPrayerService(redisClient, cfg.PrayerAPIBaseURL, cfg.PrayerLocationCode)
	hijriService := service.NewHijriService(redisClient, cfg.HijriAPIBaseURL)
	dashboardService := service.NewDashboardService(kajianService, prayerService, hijriService)
	statsService := service.NewStatsService(adminService, kajianService)

	var uploader upload.Uploader
	if cfg.UploadEnabled() {
		s3Uploader, err := upload.NewS3Uploader(context.Background(), cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to configure object storage")
		}
		uploader = s3Uploader
		log.Info().Str("bucket", cfg.S3Bucket).Msg("artwork upload enabled")
	} else {
		log.Warn().Msg("S3_BUCKET not set: artwork upload disabled")
	}

	sessionMiddleware := middleware.NewAdminSessionMiddleware(adminSessionRepo, cfg.SessionSecret)
	securityHeadersMiddleware := middleware.NewSecurityHeadersMiddleware(isProduction)
	loginRateLimiter := middleware.NewLoginRateLimiter(config.LoginMaxAttempts, config.LoginWindow)

	authHandler := handler.NewAuthHandler(authService, sessionMiddleware.Handler, loginRateLimiter, isProduction)
	adminHandler := handler.NewAdminHandler(adminService, kajianService, statsService, uploader, sessionMiddleware.Handler)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, kajianService, prayerService, hijriService)
	eventsHandler := handler.NewEventsHandler(broker)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(securityHeadersMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/events", eventsHandler.ServeHTTP)
		r.Mount("/", dashboardHandler.Routes())
	})

	r.Route("/auth", func(r chi.Router) {
		r.Mount("/", authHandler.Routes())
	})

	r.Route("/admin", func(r chi.Router) {
		r.Mount("/", adminHandler.Routes())
	})

	cleanupJob := jobs.NewCleanupJob(adminSessionRepo, config.CleanupJobInterval)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: 0,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
