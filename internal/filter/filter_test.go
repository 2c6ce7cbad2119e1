package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whaleradar/backend/pkg/models"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func node(id string, mutate func(*models.NodeData)) models.NodeData {
	n := models.NodeData{
		ID:              id,
		Address:         id,
		Size:            50,
		Bias:            models.BiasAtom,
		TotalVolume:     1000,
		AvgTradeSize:    100,
		NetBuyRatio:     0.2,
		TxCount:         10,
		AtomVolumeShare: 0.8,
		OneVolumeShare:  0.2,
		ActiveDays:      5,
		LastActiveDate:  now.Add(-48 * time.Hour).Format(time.RFC3339),
		Timing:          models.TimingLeading,
	}
	if mutate != nil {
		mutate(&n)
	}
	return n
}

func TestApply_NilStateReturnsAll(t *testing.T) {
	nodes := []models.NodeData{node("a", nil), node("b", nil)}
	assert.Len(t, Apply(nodes, nil, now), 2)
}

func TestApply_RangePredicatesAreANDed(t *testing.T) {
	nodes := []models.NodeData{
		node("in", nil),
		node("lowVolume", func(n *models.NodeData) { n.TotalVolume = 10 }),
		node("highRatio", func(n *models.NodeData) { n.NetBuyRatio = 0.9 }),
	}
	state := &models.FilterState{
		TotalVolume: models.Range{Min: 100, Max: 10000},
		NetBuyRatio: models.Range{Min: -0.5, Max: 0.5},
	}

	got := Apply(nodes, state, now)

	require.Len(t, got, 1)
	assert.Equal(t, "in", got[0].ID)
}

func TestApply_ZeroRangeMeansUnbounded(t *testing.T) {
	nodes := []models.NodeData{node("a", func(n *models.NodeData) { n.TotalVolume = 1e9 })}
	state := &models.FilterState{TxCount: models.Range{Min: 1, Max: 100}}

	assert.Len(t, Apply(nodes, state, now), 1)
}

func TestApply_TimingEnum(t *testing.T) {
	nodes := []models.NodeData{
		node("lead", nil),
		node("lag", func(n *models.NodeData) { n.Timing = models.TimingLagging }),
	}

	got := Apply(nodes, &models.FilterState{Timing: models.TimingLagging}, now)
	require.Len(t, got, 1)
	assert.Equal(t, "lag", got[0].ID)

	assert.Len(t, Apply(nodes, &models.FilterState{Timing: "ALL"}, now), 2)
}

func TestApply_RecentActivityWindow(t *testing.T) {
	nodes := []models.NodeData{
		node("fresh", nil), // active 2 days ago
		node("stale", func(n *models.NodeData) {
			n.LastActiveDate = now.Add(-20 * 24 * time.Hour).Format(time.RFC3339)
		}),
		node("broken", func(n *models.NodeData) { n.LastActiveDate = "not-a-date" }),
	}

	got := Apply(nodes, &models.FilterState{RecentActivity: models.Activity3D}, now)
	require.Len(t, got, 1)
	assert.Equal(t, "fresh", got[0].ID)

	assert.Len(t, Apply(nodes, &models.FilterState{RecentActivity: models.Activity30D}, now), 2)
	assert.Len(t, Apply(nodes, &models.FilterState{RecentActivity: models.ActivityAll}, now), 3)
}

func TestApply_InclusiveBounds(t *testing.T) {
	nodes := []models.NodeData{node("edge", func(n *models.NodeData) { n.Size = 100 })}
	state := &models.FilterState{ImpactScore: models.Range{Min: 10, Max: 100}}

	assert.Len(t, Apply(nodes, state, now), 1)
}
