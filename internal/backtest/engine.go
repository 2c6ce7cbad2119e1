package backtest

import (
	"fmt"
	"io"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/whaleradar/backend/pkg/logger"
	"github.com/whaleradar/backend/pkg/models"
)

// Simulate runs the copy-trading backtest. All portfolio math is in coin
// quantity, not currency: the question answered is "what if I mirrored
// these whales' buy/sell pattern starting from N coins", independent of
// price. The market history supplies the canonical date timeline; the
// engine never generates its own calendar.
//
// A result with an empty timeline and zero metrics is the valid "nothing
// to simulate" outcome: every slot empty, or no market history.
func Simulate(cfg *models.SimulationConfig, market *models.MarketData) *models.SimulationResult {
	empty := true
	for _, slot := range cfg.Slots {
		if slot.Node != nil {
			empty = false
			break
		}
	}
	if empty || len(market.History) == 0 {
		return &models.SimulationResult{Timeline: []models.TimelinePoint{}}
	}

	dates := make([]string, len(market.History))
	for i, p := range market.History {
		dates[i] = p.Date
	}

	// Each slot is simulated independently over the shared timeline
	slotTimelines := make([][]float64, len(cfg.Slots))
	for i, slot := range cfg.Slots {
		slotTimelines[i] = simulateSlot(slot, cfg, dates)
	}

	benchmark := cfg.InitialCapital
	timeline := make([]models.TimelinePoint, len(dates))
	for i, date := range dates {
		var total float64
		for _, slotTimeline := range slotTimelines {
			total += slotTimeline[i]
		}
		timeline[i] = models.TimelinePoint{
			Date:           date,
			PortfolioValue: total,
			BenchmarkValue: benchmark,
		}
	}

	finalValue := timeline[len(timeline)-1].PortfolioValue
	totalPnL := finalValue - cfg.InitialCapital
	roi := totalPnL / cfg.InitialCapital * 100

	logger.Debug("simulation completed",
		zap.String("mode", string(cfg.Mode)),
		zap.Int("days", len(timeline)),
		zap.Float64("final_value", finalValue),
		zap.Float64("roi", roi),
	)

	return &models.SimulationResult{
		Timeline:   timeline,
		FinalValue: finalValue,
		ROI:        roi,
		TotalPnL:   totalPnL,
	}
}

// simulateSlot walks one slot's coin quantity across the timeline. An empty
// slot (or LONG_ONLY mode) holds its allocation flat, behaving like idle
// coins parked in that slot.
func simulateSlot(slot models.SimulationSlot, cfg *models.SimulationConfig, dates []string) []float64 {
	quantities := make([]float64, len(dates))
	coins := cfg.InitialCapital * slot.Weight / 100

	if slot.Node == nil || cfg.Mode == models.ModeLongOnly {
		for i := range quantities {
			quantities[i] = coins
		}
		return quantities
	}

	// Account history is sparse: days without an entry carry the quantity
	// over unchanged.
	flowByDate := make(map[string]float64, len(slot.Node.History))
	for _, h := range slot.Node.History {
		flowByDate[h.Date] = h.NetFlow
	}

	for i, date := range dates {
		if netFlow, ok := flowByDate[date]; ok {
			// 0.1 scales raw net flow into a bounded daily adjustment
			coins += coins * (netFlow * 0.1)
			coins = math.Max(0, coins)
		}
		quantities[i] = coins
	}

	return quantities
}

// WriteReport writes a human-readable summary of a simulation run
func WriteReport(w io.Writer, cfg *models.SimulationConfig, res *models.SimulationResult) {
	line := strings.Repeat("=", 60)

	fmt.Fprintln(w, line)
	fmt.Fprintln(w, "COPY-TRADING SIMULATION")
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "Asset: %s  Mode: %s\n", cfg.Asset, cfg.Mode)
	fmt.Fprintf(w, "Initial: %.4f coins\n", cfg.InitialCapital)

	for _, slot := range cfg.Slots {
		if slot.Node != nil {
			fmt.Fprintf(w, "  Slot %s: %s (weight %.0f%%)\n", slot.ID, slot.Node.Name, slot.Weight)
		} else {
			fmt.Fprintf(w, "  Slot %s: empty (weight %.0f%%)\n", slot.ID, slot.Weight)
		}
	}

	if len(res.Timeline) == 0 {
		fmt.Fprintln(w, "\nNothing to simulate.")
		fmt.Fprintln(w, line)
		return
	}

	fmt.Fprintf(w, "\nDays simulated: %d (%s to %s)\n",
		len(res.Timeline),
		res.Timeline[0].Date,
		res.Timeline[len(res.Timeline)-1].Date,
	)
	fmt.Fprintf(w, "Final:     %.4f coins\n", res.FinalValue)
	fmt.Fprintf(w, "Total PnL: %+.4f coins\n", res.TotalPnL)
	fmt.Fprintf(w, "ROI:       %+.2f%%\n", res.ROI)
	fmt.Fprintln(w, line)
}
