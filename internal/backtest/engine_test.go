package backtest

import (
	"math"
	"os"
	"strings"
	"testing"

	"github.com/whaleradar/backend/pkg/logger"
	"github.com/whaleradar/backend/pkg/models"
)

func TestMain(m *testing.M) {
	if err := logger.Init("error", ""); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func marketWith(dates ...string) *models.MarketData {
	history := make([]models.MarketPoint, len(dates))
	for i, d := range dates {
		history[i] = models.MarketPoint{Date: d, Price: 1 + 0.01*float64(i)}
	}
	return &models.MarketData{History: history}
}

func nodeWithFlows(flows map[string]float64) *models.NodeData {
	node := &models.NodeData{ID: "whale1", Name: "whale1", Address: "whale1"}
	for date, flow := range flows {
		node.History = append(node.History, models.HistoryPoint{Date: date, NetFlow: flow})
	}
	return node
}

func threeSlots(node *models.NodeData, weight float64) []models.SimulationSlot {
	rest := (100 - weight) / 2
	return []models.SimulationSlot{
		{ID: "A", Node: node, Weight: weight},
		{ID: "B", Weight: rest},
		{ID: "C", Weight: rest},
	}
}

func TestSimulate_AllSlotsEmpty(t *testing.T) {
	cfg := &models.SimulationConfig{
		InitialCapital: 500,
		Mode:           models.ModeCopyTrading,
		Slots:          threeSlots(nil, 40),
	}

	res := Simulate(cfg, marketWith("2024-01-01", "2024-01-02"))

	if len(res.Timeline) != 0 || res.FinalValue != 0 || res.ROI != 0 || res.TotalPnL != 0 {
		t.Errorf("expected zero sentinel result, got %+v", res)
	}
}

func TestSimulate_NoMarketHistory(t *testing.T) {
	cfg := &models.SimulationConfig{
		InitialCapital: 100,
		Mode:           models.ModeCopyTrading,
		Slots:          threeSlots(nodeWithFlows(nil), 100),
	}

	res := Simulate(cfg, &models.MarketData{})

	if len(res.Timeline) != 0 || res.FinalValue != 0 {
		t.Errorf("expected zero sentinel result, got %+v", res)
	}
}

func TestSimulate_HoldOnlyIsFlat(t *testing.T) {
	node := nodeWithFlows(map[string]float64{"2024-01-01": 9, "2024-01-02": -9})
	cfg := &models.SimulationConfig{
		InitialCapital: 250,
		Mode:           models.ModeLongOnly,
		Slots:          threeSlots(node, 50),
	}

	res := Simulate(cfg, marketWith("2024-01-01", "2024-01-02", "2024-01-03"))

	for _, p := range res.Timeline {
		if p.PortfolioValue != 250 {
			t.Errorf("hold-only portfolio on %s = %v, want 250", p.Date, p.PortfolioValue)
		}
		if p.BenchmarkValue != 250 {
			t.Errorf("benchmark on %s = %v, want 250", p.Date, p.BenchmarkValue)
		}
	}
	if res.ROI != 0 || res.TotalPnL != 0 {
		t.Errorf("hold-only roi/pnl = %v/%v, want 0/0", res.ROI, res.TotalPnL)
	}
}

func TestSimulate_CopyTradingScenario(t *testing.T) {
	// Single flow of +5 on the first market date: 100 * (1 + 5*0.1) = 150,
	// then flat for the rest of the timeline.
	node := nodeWithFlows(map[string]float64{"2024-01-01": 5})
	cfg := &models.SimulationConfig{
		InitialCapital: 100,
		Mode:           models.ModeCopyTrading,
		Slots: []models.SimulationSlot{
			{ID: "A", Node: node, Weight: 100},
			{ID: "B"},
			{ID: "C"},
		},
	}

	res := Simulate(cfg, marketWith("2024-01-01", "2024-01-02", "2024-01-03"))

	if len(res.Timeline) != 3 {
		t.Fatalf("timeline length = %d, want 3", len(res.Timeline))
	}
	for i, p := range res.Timeline {
		if math.Abs(p.PortfolioValue-150) > 1e-9 {
			t.Errorf("day %d portfolio = %v, want 150", i, p.PortfolioValue)
		}
	}
	if math.Abs(res.FinalValue-150) > 1e-9 || math.Abs(res.TotalPnL-50) > 1e-9 || math.Abs(res.ROI-50) > 1e-9 {
		t.Errorf("final/pnl/roi = %v/%v/%v, want 150/50/50", res.FinalValue, res.TotalPnL, res.ROI)
	}
}

func TestSimulate_QuantityNeverNegative(t *testing.T) {
	// A -20 net flow would multiply the quantity by -1 without the floor
	node := nodeWithFlows(map[string]float64{"2024-01-02": -20, "2024-01-03": 3})
	cfg := &models.SimulationConfig{
		InitialCapital: 100,
		Mode:           models.ModeCopyTrading,
		Slots:          threeSlots(node, 100),
	}

	res := Simulate(cfg, marketWith("2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04"))

	for _, p := range res.Timeline {
		if p.PortfolioValue < 0 {
			t.Errorf("portfolio on %s = %v, must never be negative", p.Date, p.PortfolioValue)
		}
	}
	// Once floored at zero the slot stays at zero
	if last := res.Timeline[len(res.Timeline)-1].PortfolioValue; last != 0 {
		t.Errorf("final value = %v, want 0 after wipeout", last)
	}
}

func TestSimulate_EmptySlotHoldsAllocation(t *testing.T) {
	node := nodeWithFlows(map[string]float64{"2024-01-01": 5})
	cfg := &models.SimulationConfig{
		InitialCapital: 100,
		Mode:           models.ModeCopyTrading,
		Slots: []models.SimulationSlot{
			{ID: "A", Node: node, Weight: 50},
			{ID: "B", Weight: 30},
			{ID: "C", Weight: 20},
		},
	}

	res := Simulate(cfg, marketWith("2024-01-01", "2024-01-02"))

	// Slot A: 50 * 1.5 = 75; slots B and C idle at 30 and 20
	want := 75.0 + 30 + 20
	for _, p := range res.Timeline {
		if math.Abs(p.PortfolioValue-want) > 1e-9 {
			t.Errorf("portfolio on %s = %v, want %v", p.Date, p.PortfolioValue, want)
		}
	}
}

func TestSimulate_SparseHistoryCarriesOver(t *testing.T) {
	// Flows on day 1 and day 3 only; day 2 carries the day-1 quantity
	node := nodeWithFlows(map[string]float64{"2024-01-01": 2, "2024-01-03": -1})
	cfg := &models.SimulationConfig{
		InitialCapital: 100,
		Mode:           models.ModeCopyTrading,
		Slots:          threeSlots(node, 100),
	}

	res := Simulate(cfg, marketWith("2024-01-01", "2024-01-02", "2024-01-03"))

	day1 := 100 * (1 + 2*0.1)   // 120
	day3 := day1 * (1 - 1*0.1)  // 108
	wants := []float64{day1, day1, day3}
	for i, want := range wants {
		if got := res.Timeline[i].PortfolioValue; math.Abs(got-want) > 1e-9 {
			t.Errorf("day %d portfolio = %v, want %v", i, got, want)
		}
	}
}

func TestWriteReport_EmptyResult(t *testing.T) {
	cfg := &models.SimulationConfig{
		InitialCapital: 100,
		Asset:          models.AssetAtom,
		Mode:           models.ModeCopyTrading,
		Slots:          threeSlots(nil, 40),
	}

	var sb strings.Builder
	WriteReport(&sb, cfg, &models.SimulationResult{Timeline: []models.TimelinePoint{}})

	if !strings.Contains(sb.String(), "Nothing to simulate") {
		t.Errorf("report should mention the empty outcome:\n%s", sb.String())
	}
}
