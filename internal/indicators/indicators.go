package indicators

import (
	"fmt"
	"math"

	"github.com/cinar/indicator"

	"github.com/whaleradar/backend/pkg/models"
)

// MarketIndicators summarizes the benchmark price series for the
// intelligence panel
type MarketIndicators struct {
	RSI14      float64 `json:"rsi14"`
	SMA7       float64 `json:"sma7"`
	EMA7       float64 `json:"ema7"`
	Trend      string  `json:"trend"`
	Volatility float64 `json:"volatility"`
}

// Calculator derives technical indicators from daily market history
type Calculator struct{}

// NewCalculator creates new indicator calculator
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Calculate computes the indicator set over a daily price history. Needs at
// least 15 points for the RSI warmup.
func (c *Calculator) Calculate(history []models.MarketPoint) (*MarketIndicators, error) {
	if len(history) < 15 {
		return nil, fmt.Errorf("insufficient history for indicators (need at least 15, got %d)", len(history))
	}

	closes := make([]float64, len(history))
	for i, p := range history {
		closes[i] = p.Price
	}

	_, rsi := indicator.Rsi(closes)
	if len(rsi) < 14 {
		return nil, fmt.Errorf("insufficient RSI data")
	}

	sma := indicator.Sma(7, closes)
	ema := indicator.Ema(7, closes)

	trend, err := c.DetectTrend(history)
	if err != nil {
		trend = "unknown"
	}

	return &MarketIndicators{
		RSI14:      rsi[len(rsi)-1],
		SMA7:       sma[len(sma)-1],
		EMA7:       ema[len(ema)-1],
		Trend:      trend,
		Volatility: c.volatility(closes),
	}, nil
}

// DetectTrend classifies the series from short and long moving averages
func (c *Calculator) DetectTrend(history []models.MarketPoint) (string, error) {
	if len(history) < 14 {
		return "unknown", fmt.Errorf("insufficient data for trend detection")
	}

	closes := make([]float64, len(history))
	for i, p := range history {
		closes[i] = p.Price
	}

	ema7 := indicator.Ema(7, closes)
	ema14 := indicator.Ema(14, closes)

	current := closes[len(closes)-1]
	short := ema7[len(ema7)-1]
	long := ema14[len(ema14)-1]

	if current > short && short > long {
		return "uptrend", nil
	}
	if current < short && short < long {
		return "downtrend", nil
	}
	return "sideways", nil
}

// volatility is the standard deviation of daily returns
func (c *Calculator) volatility(closes []float64) float64 {
	if len(closes) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, closes[i]/closes[i-1]-1)
	}
	if len(returns) == 0 {
		return 0
	}

	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns))

	return math.Sqrt(variance)
}
