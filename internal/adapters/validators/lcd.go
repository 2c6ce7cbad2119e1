package validators

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/whaleradar/backend/pkg/logger"
	"github.com/whaleradar/backend/pkg/models"
)

// Client derives whale accounts from the Cosmos LCD staking API. This is
// the documented alternate data source: staked tokens and commission rate
// substitute for swap volume and flow, but the output shape is the same
// Account set the aggregation pipeline emits.
type Client struct {
	baseURL string
	limit   int
	client  *http.Client
}

// NewClient creates an LCD client
func NewClient(baseURL string, limit int) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		limit:   limit,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type validatorsResponse struct {
	Validators []struct {
		OperatorAddress string `json:"operator_address"`
		Tokens          string `json:"tokens"`
		Description     struct {
			Moniker string `json:"moniker"`
			Details string `json:"details"`
		} `json:"description"`
		Commission struct {
			CommissionRates struct {
				Rate string `json:"rate"`
			} `json:"commission_rates"`
		} `json:"commission"`
	} `json:"validators"`
}

// FetchValidators fetches bonded validators and derives account profiles
// from them. Derived metrics are deterministic per address, so repeated
// fetches of the same validator set stay stable.
func (c *Client) FetchValidators(ctx context.Context) ([]models.NodeData, error) {
	url := fmt.Sprintf(
		"%s/cosmos/staking/v1beta1/validators?pagination.limit=%d&status=BOND_STATUS_BONDED",
		c.baseURL, c.limit,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("validator fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("LCD API error %d: %s", resp.StatusCode, string(body))
	}

	var data validatorsResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode validators: %w", err)
	}
	if len(data.Validators) == 0 {
		return nil, fmt.Errorf("LCD API returned no validators")
	}

	now := time.Now().UTC()
	nodes := make([]models.NodeData, 0, len(data.Validators))
	for _, v := range data.Validators {
		moniker := strings.TrimSpace(v.Description.Moniker)
		if moniker == "" || strings.Contains(strings.ToLower(moniker), "infra") {
			continue
		}

		rawTokens, _ := strconv.ParseFloat(v.Tokens, 64)
		rate, _ := strconv.ParseFloat(v.Commission.CommissionRates.Rate, 64)

		nodes = append(nodes, deriveNode(v.OperatorAddress, moniker, v.Description.Details, rawTokens/1e6, rate, now))
	}

	logger.Info("validator accounts derived",
		zap.Int("validators", len(data.Validators)),
		zap.Int("accounts", len(nodes)),
	)

	return nodes, nil
}
