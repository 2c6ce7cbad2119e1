package validators

import (
	"context"

	"go.uber.org/zap"

	"github.com/whaleradar/backend/pkg/logger"
	"github.com/whaleradar/backend/pkg/models"
)

// Provider adapts the LCD client to the account-provider contract used by
// the API server. The staking derivation has no transaction-level history,
// so the date range is ignored. When the LCD API is unreachable it falls
// back to the randomized mock set rather than failing the load; the
// aggregation pipeline itself makes no such guarantee, this is a product
// choice at the source layer.
type Provider struct {
	client    *Client
	mockCount int
}

// NewProvider wraps an LCD client with the mock fallback
func NewProvider(client *Client, mockCount int) *Provider {
	return &Provider{client: client, mockCount: mockCount}
}

// LoadAccounts implements the account-provider contract
func (p *Provider) LoadAccounts(ctx context.Context, _ *models.DateRange) ([]models.NodeData, error) {
	nodes, err := p.client.FetchValidators(ctx)
	if err != nil {
		logger.Warn("validator fetch failed, falling back to mock data", zap.Error(err))
		return GenerateMockValidators(p.mockCount), nil
	}
	return nodes, nil
}
