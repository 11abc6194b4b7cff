package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/productdb/backend/internal/config"
	"github.com/productdb/backend/internal/db"
	"github.com/productdb/backend/internal/handler"
	"github.com/productdb/backend/internal/server"
	"github.com/productdb/backend/internal/service"
)

//go:generate swag init -g main.go -o docs --outputTypes go

// @title Product API
// @version 1.0
// @description Authenticated CRUD over the products table.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token from /login.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.UsesDefaultSecret() {
		logger.Warn("JWT_SECRET is not set; tokens are signed with the insecure default secret")
	}

	// The process must not serve requests without a working store.
	connectCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := db.Open(connectCtx, cfg.DB)
	cancel()
	if err != nil {
		logger.Error("failed to connect to database",
			slog.String("driver", cfg.DB.Driver),
			slog.String("target", cfg.DB.Redacted()),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}
	logger.Info("connected to database",
		slog.String("driver", cfg.DB.Driver),
		slog.String("target", cfg.DB.Redacted()),
	)

	credential, err := service.NewCredential(cfg.Auth.AdminUsername, cfg.Auth.AdminPassword)
	if err != nil {
		store.Close()
		logger.Error("failed to build credential", "error", err)
		os.Exit(1)
	}
	authService, err := service.NewAuthService(credential, cfg.Auth)
	if err != nil {
		store.Close()
		logger.Error("failed to init auth service", "error", err)
		os.Exit(1)
	}
	productService := service.NewProductService(store)

	router := handler.NewRouter(handler.RouterConfig{
		Auth:     authService,
		Products: productService,
		Store:    store,
		Logger:   logger,
		CORS: handler.CORSOptions{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowCredentials: cfg.CORSAllowCredentials,
			MaxAge:           cfg.CORSMaxAge,
		},
	})

	srv := server.New(router, server.Options{
		Port:            cfg.Port,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)
	srv.OnShutdown("product store", func(context.Context) error {
		store.Close()
		return nil
	})

	logger.Info("starting server", "port", cfg.Port, "env", cfg.AppEnv)
	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
