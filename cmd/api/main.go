package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dashboard-platform/internal/audit"
	"dashboard-platform/internal/auth"
	"dashboard-platform/internal/clients"
	"dashboard-platform/internal/config"
	"dashboard-platform/internal/membership"
	"dashboard-platform/internal/userctx"
	"dashboard-platform/pkg/logger"
	"dashboard-platform/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	// Resolution pipeline: both resolver arms over Postgres, snapshots in
	// redis, append-only audit trail.
	auditSvc := audit.NewService(audit.NewPGRepo(db))
	memberships := membership.NewService(membership.NewPGRepo(db), logger.Component(log, "membership"))
	clientAccess := clients.NewService(clients.NewPGRepo(db), logger.Component(log, "clients"))
	resolver := userctx.NewResolver(memberships, clientAccess, cfg.Resolve.Timeout, logger.Component(log, "userctx"))
	cache := userctx.NewCache(rdb, cfg.Resolve.CacheTTL)

	nav := userctx.NavigatorFunc(func(path string) {
		log.Debug("navigation issued", "path", path)
	})

	registry := userctx.NewRegistry(resolver, nav, cache, auditSvc, logger.Component(log, "userctx"))
	sessions := auth.NewMemoryProvider()
	detach := registry.Attach(sessions)
	defer detach()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, routeDeps{
		Auth:     authManager,
		Sessions: sessions,
		Contexts: registry,
		Audit:    auditSvc,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
