package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"novatrade/internal/config"
	"novatrade/internal/database"
	"novatrade/internal/logger"
	"novatrade/internal/market"
	"novatrade/internal/oracle"
	"novatrade/internal/store"
	"novatrade/internal/trading"

	"go.uber.org/zap"
)

func main() {
	// Load application configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		// We can't use the logger here because it's not initialized yet.
		panic(fmt.Sprintf("could not load config: %v", err))
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("Configuration loaded")

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connection successful and schema migrated.")
	st := store.New(db, log)

	// Seed the simulated market and the session clock
	sim := market.NewSimulator(log, cfg.Market, market.DefaultListings, rand.Int63())
	clock := market.NewClock(cfg.Market.OpenHour, cfg.Market.CloseHour)

	// External price oracle is an optional, best-effort overlay
	var src oracle.PriceSource
	if cfg.Oracle.Enabled {
		src = oracle.NewClient(cfg.Oracle, log)
		log.Info("External price oracle enabled", zap.String("base_url", cfg.Oracle.BaseURL))
	}

	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigchan := make(chan os.Signal, 1)
		signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
		<-sigchan
		log.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	// Initialize and run the trading engine
	engine := trading.NewEngine(log, &cfg, sim, clock, st, src)

	apiServer := trading.NewAPIServer(engine, log)
	apiServer.Start()

	engine.Run(ctx)

	if err := apiServer.Stop(context.Background()); err != nil {
		log.Error("Failed to stop API server", zap.Error(err))
	}
	log.Info("Platform has been shut down.")
}
