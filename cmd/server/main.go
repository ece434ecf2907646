package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"supermercado-backend/internal/auth"
	"supermercado-backend/internal/config"
	"supermercado-backend/internal/database"
	"supermercado-backend/internal/inventory"
	"supermercado-backend/internal/logger"
	"supermercado-backend/internal/sales"
	"supermercado-backend/internal/server"
	"supermercado-backend/internal/users"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "json").Fatal("failed to load config", "error", err)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	for _, w := range cfg.Warnings() {
		log.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect database", "error", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal("failed to run migrations", "error", err)
	}

	userStore := users.NewPostgresStore(db)
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL)
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)

	app := server.New(server.Deps{
		Log:         log,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Tokens:      tokens,
		Lookup:      userStore,
		Auth:        auth.NewService(userStore, hasher, tokens, log.With("component", "auth")),
		Users:       users.NewService(userStore, log.With("component", "users")),
		Inventory:   inventory.NewService(inventory.NewPostgresStore(db), log.With("component", "inventory")),
		Sales:       sales.NewService(sales.NewPostgresStore(db), cfg.Sales.TrustClientPrice, log.With("component", "sales")),
	})

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("shutdown failed", "error", err)
		}
	}()

	log.Info("server listening", "port", cfg.HTTP.Port)
	if err := app.Listen(":" + cfg.HTTP.Port); err != nil {
		log.Fatal("server stopped", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
