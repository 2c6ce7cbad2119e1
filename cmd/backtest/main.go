package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/whaleradar/backend/internal/adapters/market"
	"github.com/whaleradar/backend/internal/backtest"
	"github.com/whaleradar/backend/internal/swaps"
	"github.com/whaleradar/backend/pkg/logger"
	"github.com/whaleradar/backend/pkg/models"
)

// slotFlags collects repeated -slot address:weight flags, up to three
type slotFlags []models.SimulationSlot

func (s *slotFlags) String() string {
	parts := make([]string, 0, len(*s))
	for _, slot := range *s {
		parts = append(parts, fmt.Sprintf("%s:%g", slot.ID, slot.Weight))
	}
	return strings.Join(parts, ",")
}

func (s *slotFlags) Set(raw string) error {
	if len(*s) >= 3 {
		return fmt.Errorf("at most three slots are supported")
	}

	addr, weightRaw, ok := strings.Cut(raw, ":")
	if !ok || addr == "" {
		return fmt.Errorf("expected address:weight, got %q", raw)
	}
	weight, err := strconv.ParseFloat(weightRaw, 64)
	if err != nil || weight <= 0 {
		return fmt.Errorf("weight must be a positive number, got %q", weightRaw)
	}

	*s = append(*s, models.SimulationSlot{
		ID:     fmt.Sprintf("slot%d", len(*s)+1),
		Weight: weight,
		// Node is resolved after the swap table is loaded
		Node: &models.NodeData{Address: addr},
	})
	return nil
}

func main() {
	// Parse flags
	var slots slotFlags
	var (
		csvPath  = flag.String("csv", "", "Swap table CSV path (required)")
		fromDate = flag.String("from", "2024-01-01", "Start date (YYYY-MM-DD)")
		toDate   = flag.String("to", "2024-03-01", "End date (YYYY-MM-DD)")
		balance  = flag.Float64("balance", 1000, "Initial allocation")
		asset    = flag.String("asset", "ATOM", "Allocation asset (ATOM/USDC)")
		mode     = flag.String("mode", "COPY_TRADING", "Strategy mode (LONG_ONLY/COPY_TRADING)")
	)
	flag.Var(&slots, "slot", "Slot as address:weight, repeat up to three times")
	flag.Parse()

	// Initialize logger
	if err := logger.Init("info", ""); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(*csvPath, *fromDate, *toDate, *balance, *asset, *mode, slots); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(csvPath, fromDate, toDate string, balance float64, asset, mode string, slots slotFlags) error {
	if csvPath == "" {
		return fmt.Errorf("-csv is required")
	}
	if len(slots) == 0 {
		return fmt.Errorf("at least one -slot address:weight is required")
	}
	if balance <= 0 {
		return fmt.Errorf("balance must be positive")
	}

	strategyMode := models.StrategyMode(mode)
	if strategyMode != models.ModeLongOnly && strategyMode != models.ModeCopyTrading {
		return fmt.Errorf("mode must be LONG_ONLY or COPY_TRADING, got %q", mode)
	}

	dateRange, err := models.ParseDateRange(fromDate, toDate)
	if err != nil {
		return fmt.Errorf("invalid date range: %w", err)
	}

	// Load and aggregate the swap table
	loader := swaps.NewLoader(&swaps.FileSource{Path: csvPath})
	nodes, err := loader.LoadAccounts(context.Background(), dateRange)
	if err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}

	byAddress := make(map[string]*models.NodeData, len(nodes))
	for i := range nodes {
		byAddress[nodes[i].Address] = &nodes[i]
	}

	// Resolve slot addresses against the aggregated accounts
	for i := range slots {
		addr := slots[i].Node.Address
		node, ok := byAddress[addr]
		if !ok {
			return fmt.Errorf("address %s has no activity in %s..%s", addr, fromDate, toDate)
		}
		slots[i].Node = node
	}

	cfg := &models.SimulationConfig{
		InitialCapital: balance,
		Asset:          models.Asset(asset),
		Mode:           strategyMode,
		Slots:          slots,
	}

	result := backtest.Simulate(cfg, market.LocalMarket(dateRange))
	backtest.WriteReport(os.Stdout, cfg, result)
	return nil
}
