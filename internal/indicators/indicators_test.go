package indicators

import (
	"fmt"
	"testing"

	"github.com/whaleradar/backend/pkg/models"
)

func generateHistory(n int, start, dailyChange float64) []models.MarketPoint {
	history := make([]models.MarketPoint, n)
	price := start
	for i := range history {
		price *= 1 + dailyChange
		history[i] = models.MarketPoint{
			Date:  fmt.Sprintf("2024-01-%02d", i+1),
			Price: price,
		}
	}
	return history
}

func TestCalculator_Calculate(t *testing.T) {
	calc := NewCalculator()

	ind, err := calc.Calculate(generateHistory(30, 6.0, 0.01))
	if err != nil {
		t.Fatalf("failed to calculate indicators: %v", err)
	}

	if ind.RSI14 < 0 || ind.RSI14 > 100 {
		t.Errorf("RSI should be between 0-100, got %.2f", ind.RSI14)
	}
	if ind.SMA7 <= 0 || ind.EMA7 <= 0 {
		t.Errorf("moving averages should be positive, got SMA=%.4f EMA=%.4f", ind.SMA7, ind.EMA7)
	}
	if ind.Volatility < 0 {
		t.Errorf("volatility should be non-negative, got %.6f", ind.Volatility)
	}
}

func TestCalculator_InsufficientData(t *testing.T) {
	calc := NewCalculator()

	if _, err := calc.Calculate(generateHistory(10, 6.0, 0.01)); err == nil {
		t.Error("should error with insufficient data")
	}
}

func TestCalculator_DetectTrend(t *testing.T) {
	calc := NewCalculator()

	t.Run("uptrend", func(t *testing.T) {
		trend, err := calc.DetectTrend(generateHistory(30, 6.0, 0.02))
		if err != nil {
			t.Fatalf("failed to detect trend: %v", err)
		}
		if trend != "uptrend" {
			t.Errorf("trend = %s, want uptrend", trend)
		}
	})

	t.Run("downtrend", func(t *testing.T) {
		trend, err := calc.DetectTrend(generateHistory(30, 6.0, -0.02))
		if err != nil {
			t.Fatalf("failed to detect trend: %v", err)
		}
		if trend != "downtrend" {
			t.Errorf("trend = %s, want downtrend", trend)
		}
	})

	t.Run("flat is sideways", func(t *testing.T) {
		trend, err := calc.DetectTrend(generateHistory(30, 6.0, 0))
		if err != nil {
			t.Fatalf("failed to detect trend: %v", err)
		}
		if trend != "sideways" {
			t.Errorf("trend = %s, want sideways", trend)
		}
	})
}
