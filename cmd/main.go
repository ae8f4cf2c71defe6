package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/leaguedesk/officiating-system/cache"
	"github.com/leaguedesk/officiating-system/config"
	"github.com/leaguedesk/officiating-system/db"
	"github.com/leaguedesk/officiating-system/handlers"
	"github.com/leaguedesk/officiating-system/live"
	"github.com/leaguedesk/officiating-system/repositories"
	api "github.com/leaguedesk/officiating-system/routes"
	"github.com/leaguedesk/officiating-system/services"
	"github.com/leaguedesk/officiating-system/storage"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Инициализация загрузчика файлов (Cloudflare R2)
	cloudflareUploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Cloudflare R2 uploader initialized")

	// Инициализация WebSocket Hub
	wsHub := live.NewHub()
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	// Read-кэш с инвалидацией по тенанту
	readCache := cache.New(true)

	// Инициализация репозиториев
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	leagueRepo := repositories.NewPostgresLeagueRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	matchdayRepo := repositories.NewPostgresMatchdayRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	refereeRepo := repositories.NewPostgresRefereeRepository(dbConn)
	logger.Info("Repositories initialized")

	// Инициализация сервисов
	authService := services.NewAuthService(userRepo, cfg.JWTSecretKey)
	refereeService := services.NewRefereeService(refereeRepo, cloudflareUploader, readCache)
	matchService := services.NewMatchService(matchRepo, readCache)
	emailService := services.NewEmailService(cfg)
	difficultyProvider := services.NewTeamDifficultyProvider(teamRepo)

	assignmentService := services.NewAssignmentService(
		dbConn, // для транзакции батч-подтверждения
		matchRepo,
		refereeRepo,
		leagueRepo,
		difficultyProvider,
		readCache,
		wsHub,
		emailService,
		logger,
	)

	fixtureService := services.NewFixtureService(
		dbConn,
		teamRepo,
		matchdayRepo,
		matchRepo,
		readCache,
		logger,
	)
	logger.Info("Services initialized")

	// Инициализация обработчиков HTTP
	authHandler := handlers.NewAuthHandler(authService)
	refereeHandler := handlers.NewRefereeHandler(refereeService)
	matchHandler := handlers.NewMatchHandler(matchService)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentService)
	fixtureHandler := handlers.NewFixtureHandler(fixtureService)
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		authHandler,
		refereeHandler,
		matchHandler,
		assignmentHandler,
		fixtureHandler,
		wsHub,
	)
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		} else {
			logger.Info("server stopped gracefully")
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	}
}
