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

	"github.com/sarathaj/User-Management/internal/application/services"
	"github.com/sarathaj/User-Management/internal/config"
	"github.com/sarathaj/User-Management/internal/infrastructure"
	"github.com/sarathaj/User-Management/internal/infrastructure/db/postgres"
	"github.com/sarathaj/User-Management/internal/infrastructure/storage"
	"github.com/sarathaj/User-Management/internal/interface/rest"
	"github.com/sarathaj/User-Management/internal/messaging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log.SetPrefix("[userhub] ")
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := run(); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := postgres.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	redisService := infrastructure.NewRedisService(cfg)
	defer redisService.Close()

	files, err := storage.NewFileStorage(cfg.MediaRoot, cfg.MediaURL, cfg.MaxUploadBytes)
	if err != nil {
		return err
	}

	publisher, err := messaging.Connect(cfg.NATSURL)
	if err != nil {
		return err
	}
	defer publisher.Close()

	userRepo := postgres.NewUserRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	taskRepo := postgres.NewTaskRepository(db)
	tokenRepo := postgres.NewTokenRepository(db)

	jwtService := infrastructure.NewJWTService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	rateLimiter := infrastructure.NewRateLimiter(cfg.LoginRatePerMinute, cfg.LoginBurst)
	mailer := infrastructure.NewMailer(cfg.SendGridAPIKey, cfg.EmailSender)

	authService := services.NewUserService(userRepo, profileRepo, tokenRepo, redisService, jwtService, rateLimiter, mailer, publisher)
	profileService := services.NewProfileService(userRepo, profileRepo, redisService)
	taskService := services.NewTaskService(taskRepo, files, publisher)

	e := rest.NewRouter(rest.RouterConfig{
		Prefix:         cfg.APIPrefix,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}, rest.NewHandler(authService, profileService, taskService))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server running on %s", cfg.HTTPAddr)
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
