package main

//go:generate swag init -g cmd/api-server/ngoadmin-server.go -d ../../ -o ../../docs

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	httpSwagger "github.com/swaggo/http-swagger"

	"ngoadmin/config"
	"ngoadmin/db"
	"ngoadmin/db/migrations"
	_ "ngoadmin/docs"
	"ngoadmin/internal/files"
	"ngoadmin/internal/handlers"
)

// @title           NGO Administration API
// @version         1.0.0
// @description     Fixed assets, supplies stock, aid, donations, purchases, projects, deliberations and users.
// @BasePath        /api
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	dbConn, err := sqlx.Connect("postgres", cfg.PostgresConn)
	if err != nil {
		slog.Error("cannot connect to database", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	if cfg.MigrationsEnabled {
		if err := migrations.Run(dbConn.DB); err != nil {
			slog.Error("migrations failed", "error", err)
			os.Exit(1)
		}
	}

	attachments, err := files.NewStore(cfg.UploadDir)
	if err != nil {
		slog.Error("cannot prepare upload directory", "dir", cfg.UploadDir, "error", err)
		os.Exit(1)
	}

	store := db.NewStorage(dbConn)
	h := handlers.NewHandler(store, attachments,
		handlers.WithLocation(cfg.Location),
		handlers.WithMaxUpload(cfg.MaxUploadBytes))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Mount("/api", h.Routes())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	srv := config.NewHTTPServer(cfg, r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "address", cfg.ServerAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
