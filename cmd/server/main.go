package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/hr_backend/internal/config"
	"github.com/Skotchmaster/hr_backend/internal/es"
	"github.com/Skotchmaster/hr_backend/internal/handlers"
	"github.com/Skotchmaster/hr_backend/internal/logging"
	"github.com/Skotchmaster/hr_backend/internal/mykafka"
	"github.com/Skotchmaster/hr_backend/internal/repo"
	authsvc "github.com/Skotchmaster/hr_backend/internal/service/auth"
	tokensvc "github.com/Skotchmaster/hr_backend/internal/service/token"
	httpserver "github.com/Skotchmaster/hr_backend/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LogLevel)
	slog.SetDefault(logger)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("DB init error: %v", err)
	}

	prod := mykafka.NewProducer([]string{configuration.KafkaAddress})

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatal(err)
	}

	jwtSecret := []byte(configuration.JWTSecret)

	tokenService := &tokensvc.Service{
		Tokens:     &repo.TokenRepo{DB: db},
		Secret:     jwtSecret,
		Issuer:     configuration.JWTIssuer,
		Audience:   configuration.JWTAudience,
		AccessTTL:  configuration.AccessTokenTTL,
		RefreshTTL: configuration.RefreshTokenTTL,
	}
	authService := &authsvc.Service{
		DB:     db,
		Users:  &repo.UserRepo{DB: db},
		Tokens: tokenService,
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Validator = handlers.NewValidator()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := logging.IntoContext(c.Request().Context(), logger)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})

	deps := httpserver.Deps{
		JWTSecret:         jwtSecret,
		AuthHandler:       &handlers.AuthHandler{Auth: authService, Producer: prod},
		EmployeeHandler:   &handlers.EmployeeHandler{DB: db, Producer: prod, ES: esClient, Index: "employees"},
		DepartmentHandler: &handlers.DepartmentHandler{DB: db},
		AttendanceHandler: &handlers.AttendanceHandler{DB: db, Producer: prod},
		LeaveHandler:      &handlers.LeaveHandler{DB: db, Producer: prod},
		SearchHandler:     &handlers.SearchHandler{ES: esClient, Index: "employees"},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.Port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
