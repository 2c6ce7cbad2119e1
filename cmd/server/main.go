package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/whaleradar/backend/internal/adapters/config"
	"github.com/whaleradar/backend/internal/adapters/market"
	"github.com/whaleradar/backend/internal/adapters/validators"
	"github.com/whaleradar/backend/internal/api"
	"github.com/whaleradar/backend/internal/swaps"
	"github.com/whaleradar/backend/internal/workers"
	"github.com/whaleradar/backend/pkg/logger"
	"github.com/whaleradar/backend/pkg/worker"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Setup signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	// Run application
	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := initConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("Whale Radar API starting...",
		zap.String("port", cfg.Server.Port),
		zap.Duration("refresh_interval", cfg.Server.RefreshInterval),
	)

	nodes, source := buildNodeProvider(cfg)
	logger.Info("account source selected", zap.String("source", source))

	marketClient := market.NewCoinGeckoClient(
		cfg.Market.CoinID,
		cfg.Market.HistoryDays,
		cfg.Market.HTTPTimeout,
	)

	state := api.NewState()

	refresh := workers.NewSnapshotRefreshWorker(state, nodes, marketClient, source, cfg.Market.HistoryDays)
	refreshRunner := worker.RunBackground(ctx, refresh, cfg.Server.RefreshInterval)

	server := api.NewServer(cfg, state, nodes)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("API server failed: %w", err)
		}
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stopCancel()

	if err := server.Stop(stopCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	refreshRunner.Stop(shutdownTimeout)

	logger.Info("shutdown complete")
	return nil
}

// buildNodeProvider picks the account source: a configured swap table takes
// priority, otherwise accounts are derived from the validator API.
func buildNodeProvider(cfg *config.Config) (api.NodeProvider, string) {
	if cfg.Data.HasCSVSource() {
		var src swaps.Source
		if cfg.Data.CSVPath != "" {
			src = &swaps.FileSource{Path: cfg.Data.CSVPath}
		} else {
			src = swaps.NewHTTPSource(cfg.Data.CSVURL)
		}
		return swaps.NewLoader(src), "csv"
	}

	client := validators.NewClient(cfg.Data.LCDBaseURL, cfg.Data.ValidatorLimit)
	return validators.NewProvider(client, cfg.Data.ValidatorLimit), "lcd"
}

func initConfig() (*config.Config, error) {
	// A missing .env file is fine, env vars win either way
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, nil
}
