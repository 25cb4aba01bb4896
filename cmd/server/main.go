package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/motorpool/backend/internal/auth"
	"github.com/motorpool/backend/internal/catalog"
	"github.com/motorpool/backend/internal/config"
	"github.com/motorpool/backend/internal/server"
	"github.com/motorpool/backend/internal/service"
	"github.com/motorpool/backend/internal/storage/sqlite"
	"github.com/motorpool/backend/pkg/logging"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		slog.Error("Failed to load .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogLevel)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	cat, err := catalog.Load()
	if err != nil {
		slog.Error("Failed to load car catalog", "error", err)
		os.Exit(1)
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	srv := server.New(
		service.NewAccountService(authenticator, store, jwtManager),
		service.NewGroupService(store),
		service.NewPaymentService(store),
		service.NewPreferenceService(store),
		service.NewOfferService(store),
		service.NewAnalyticsService(store),
		cat,
		jwtManager,
	)

	slog.Info("Server starting", "address", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, srv.Routes(cfg.CORSAllowedOrigins)); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
