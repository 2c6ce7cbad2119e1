package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/whaleradar/backend/pkg/models"
)

const coingeckoAPIURL = "https://api.coingecko.com/api/v3"

// CoinGeckoClient fetches benchmark market data from CoinGecko (free, no
// API key needed)
type CoinGeckoClient struct {
	baseURL     string
	coinID      string
	historyDays int
	client      *http.Client
}

// NewCoinGeckoClient creates a client for the given CoinGecko coin id
func NewCoinGeckoClient(coinID string, historyDays int, timeout time.Duration) *CoinGeckoClient {
	return &CoinGeckoClient{
		baseURL:     coingeckoAPIURL,
		coinID:      coinID,
		historyDays: historyDays,
		client:      &http.Client{Timeout: timeout},
	}
}

type simplePriceEntry struct {
	USD          float64 `json:"usd"`
	USDMarketCap float64 `json:"usd_market_cap"`
	USD24hVol    float64 `json:"usd_24h_vol"`
	USD24hChange float64 `json:"usd_24h_change"`
}

type marketChartResponse struct {
	Prices [][]float64 `json:"prices"`
}

// FetchMarketData fetches current ticker values plus daily price history
func (cg *CoinGeckoClient) FetchMarketData(ctx context.Context) (*models.MarketData, error) {
	current, err := cg.fetchTicker(ctx)
	if err != nil {
		return nil, err
	}

	history, err := cg.fetchHistory(ctx)
	if err != nil {
		return nil, err
	}

	return &models.MarketData{
		Price:     decimal.NewFromFloat(current.USD),
		Change24h: decimal.NewFromFloat(current.USD24hChange),
		MarketCap: decimal.NewFromFloat(current.USDMarketCap),
		Volume24h: decimal.NewFromFloat(current.USD24hVol),
		History:   history,
	}, nil
}

func (cg *CoinGeckoClient) fetchTicker(ctx context.Context) (*simplePriceEntry, error) {
	url := fmt.Sprintf(
		"%s/simple/price?ids=%s&vs_currencies=usd&include_24hr_vol=true&include_24hr_change=true&include_market_cap=true",
		cg.baseURL, cg.coinID,
	)

	var result map[string]simplePriceEntry
	if err := cg.getJSON(ctx, url, &result); err != nil {
		return nil, err
	}

	entry, ok := result[cg.coinID]
	if !ok {
		return nil, fmt.Errorf("price not found for %s", cg.coinID)
	}
	return &entry, nil
}

func (cg *CoinGeckoClient) fetchHistory(ctx context.Context) ([]models.MarketPoint, error) {
	url := fmt.Sprintf(
		"%s/coins/%s/market_chart?vs_currency=usd&days=%d&interval=daily",
		cg.baseURL, cg.coinID, cg.historyDays,
	)

	var chart marketChartResponse
	if err := cg.getJSON(ctx, url, &chart); err != nil {
		return nil, err
	}

	history := make([]models.MarketPoint, 0, len(chart.Prices))
	for _, item := range chart.Prices {
		if len(item) < 2 {
			continue
		}
		history = append(history, models.MarketPoint{
			Date:  time.UnixMilli(int64(item[0])).UTC().Format(models.DateLayout),
			Price: item[1],
		})
	}
	return history, nil
}

func (cg *CoinGeckoClient) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := cg.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
