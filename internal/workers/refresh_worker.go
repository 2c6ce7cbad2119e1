package workers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/whaleradar/backend/internal/adapters/market"
	"github.com/whaleradar/backend/internal/api"
	"github.com/whaleradar/backend/pkg/logger"
	"github.com/whaleradar/backend/pkg/models"
)

// SnapshotRefreshWorker periodically rebuilds the serving snapshot. Every
// run is a wholesale recompute: accounts and market data are loaded fresh
// and replace the previous snapshot atomically. Runs are sequential, so a
// slow load can never be overwritten by an older one.
type SnapshotRefreshWorker struct {
	state       *api.State
	nodes       api.NodeProvider
	market      api.MarketProvider
	source      string
	historyDays int
}

// NewSnapshotRefreshWorker creates the refresh worker. source labels the
// snapshot's account origin ("csv" or "lcd") for the market endpoint.
func NewSnapshotRefreshWorker(
	state *api.State,
	nodes api.NodeProvider,
	marketProvider api.MarketProvider,
	source string,
	historyDays int,
) *SnapshotRefreshWorker {
	return &SnapshotRefreshWorker{
		state:       state,
		nodes:       nodes,
		market:      marketProvider,
		source:      source,
		historyDays: historyDays,
	}
}

// Name returns worker name for logging
func (w *SnapshotRefreshWorker) Name() string {
	return "snapshot_refresh"
}

// Run executes one refresh
func (w *SnapshotRefreshWorker) Run(ctx context.Context) error {
	now := time.Now().UTC()
	dateRange := &models.DateRange{
		Start: now.AddDate(0, 0, -(w.historyDays - 1)),
		End:   now,
	}

	nodes, err := w.nodes.LoadAccounts(ctx, dateRange)
	if err != nil {
		// Keep serving the previous snapshot rather than wiping it
		return err
	}

	marketData, err := w.market.FetchMarketData(ctx)
	if err != nil {
		logger.Warn("market fetch failed, using fallback history", zap.Error(err))
		marketData = market.FallbackMarketData(w.historyDays)
	}

	w.state.Set(&api.Snapshot{
		Nodes:     nodes,
		Market:    marketData,
		Source:    w.source,
		UpdatedAt: now,
	})

	logger.Info("snapshot refreshed",
		zap.Int("accounts", len(nodes)),
		zap.Int("market_days", len(marketData.History)),
		zap.String("source", w.source),
	)

	return nil
}
