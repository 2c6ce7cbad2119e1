package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// NewDecimal creates decimal from float64
func NewDecimal(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value)
}

// ChainBias represents which of the two tracked chains an account's volume favors
type ChainBias string

const (
	BiasAtom    ChainBias = "ATOM"
	BiasAtomOne ChainBias = "ATOMONE"
	BiasMixed   ChainBias = "MIXED"
)

// TimingType classifies an account's apparent market timing behavior
type TimingType string

const (
	TimingLeading TimingType = "LEADING"
	TimingSync    TimingType = "SYNC"
	TimingLagging TimingType = "LAGGING"
)

// StrategyMode represents simulation strategy
type StrategyMode string

const (
	ModeLongOnly    StrategyMode = "LONG_ONLY"
	ModeCopyTrading StrategyMode = "COPY_TRADING"
)

// Asset represents the coin a simulation is denominated in
type Asset string

const (
	AssetAtom    Asset = "ATOM"
	AssetAtomOne Asset = "ATOMONE"
)

// HistoryPoint is one day of an account's activity: synthetic price plus the
// net flow accumulated that day. Positive net flow = net buy.
type HistoryPoint struct {
	Date    string  `json:"date"`
	Price   float64 `json:"price"`
	NetFlow float64 `json:"netFlow"`
}

// Composition breaks an account's volume into transfer-type percentages.
// Percentages are independently rounded and may not sum to exactly 100.
type Composition struct {
	Swap  int `json:"swap"`
	IBC   int `json:"ibc"`
	Stake int `json:"stake"`
}

// NodeData is one aggregated whale account. Built once per load by the
// aggregation pipeline (or a validator-API derivation) and never mutated.
type NodeData struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`

	// Size is the composite impact score, 10-100
	Size float64   `json:"size"`
	Bias ChainBias `json:"bias"`

	// Filterable metrics
	TotalVolume     float64 `json:"totalVolume"`
	AvgTradeSize    float64 `json:"avgTradeSize"`
	NetBuyRatio     float64 `json:"netBuyRatio"` // -1 to 1
	TxCount         int     `json:"txCount"`
	AtomVolumeShare float64 `json:"atomVolumeShare"` // 0-1
	OneVolumeShare  float64 `json:"oneVolumeShare"`  // 0-1
	IBCVolumeShare  float64 `json:"ibcVolumeShare"`  // 0-1
	ActiveDays      int     `json:"activeDays"`
	LastActiveDate  string  `json:"lastActiveDate"`
	ROI             float64 `json:"roi,omitempty"`

	// Impact sub-scores
	Timing           TimingType `json:"timing"`
	TimingScore      float64    `json:"timingScore"`
	CorrelationScore float64    `json:"correlationScore"` // -1 to 1
	ScaleScore       float64    `json:"scaleScore"`       // 0-100

	Composition Composition    `json:"composition"`
	History     []HistoryPoint `json:"history,omitempty"`
	Description string         `json:"description,omitempty"`
}

// MarketPoint is one day of benchmark price history
type MarketPoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// MarketData holds current ticker values plus daily price history. The
// history supplies the canonical date timeline for simulations.
type MarketData struct {
	Price     decimal.Decimal `json:"price"`
	Change24h decimal.Decimal `json:"change24h"`
	MarketCap decimal.Decimal `json:"marketCap"`
	Volume24h decimal.Decimal `json:"volume24h"`
	History   []MarketPoint   `json:"history"`
}

// DateRange is an inclusive calendar-date range (no time component)
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DateLayout is the calendar-date format used across the API and CSV data
const DateLayout = "2006-01-02"

// ParseDateRange parses "YYYY-MM-DD" bounds into a DateRange
func ParseDateRange(start, end string) (*DateRange, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return nil, err
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return nil, err
	}
	return &DateRange{Start: s.UTC(), End: e.UTC()}, nil
}

// Bounds returns the half-open [from, to) millisecond-timestamp window the
// range covers. The upper bound is midnight after End so the whole end date
// is included.
func (r *DateRange) Bounds() (fromMs, toMs int64) {
	from := time.Date(r.Start.Year(), r.Start.Month(), r.Start.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(r.End.Year(), r.End.Month(), r.End.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return from.UnixMilli(), to.UnixMilli()
}

// SimulationSlot is one of three weighted account assignments. Node is nil
// for an empty slot; an empty slot's allocation behaves like idle coins.
type SimulationSlot struct {
	ID     string    `json:"id"` // "A", "B" or "C"
	Node   *NodeData `json:"node,omitempty"`
	Weight float64   `json:"weight"` // 0-100
}

// SimulationConfig configures a copy-trading simulation run
type SimulationConfig struct {
	InitialCapital float64          `json:"initialCapital"`
	Asset          Asset            `json:"asset"`
	Mode           StrategyMode     `json:"mode"`
	Slots          []SimulationSlot `json:"slots"`
}

// TimelinePoint is one simulated day. Both values are coin quantities,
// not currency.
type TimelinePoint struct {
	Date           string  `json:"date"`
	PortfolioValue float64 `json:"portfolioValue"`
	BenchmarkValue float64 `json:"benchmarkValue"`
}

// SimulationResult is the outcome of a simulation run, derived once and
// never mutated. An empty timeline with zero metrics signals "nothing to
// simulate" and is a valid non-error outcome.
type SimulationResult struct {
	Timeline   []TimelinePoint `json:"timeline"`
	FinalValue float64         `json:"finalValue"`
	ROI        float64         `json:"roi"`
	TotalPnL   float64         `json:"totalPnL"`
}
