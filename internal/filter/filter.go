package filter

import (
	"time"

	"github.com/whaleradar/backend/pkg/models"
)

// Apply returns the accounts matching every predicate in the filter state.
// Predicates are ANDed; a zero-valued Range (Min == Max == 0) is treated as
// "no bound" so partially-populated states from the API work naturally.
func Apply(nodes []models.NodeData, state *models.FilterState, now time.Time) []models.NodeData {
	if state == nil {
		return nodes
	}

	out := make([]models.NodeData, 0, len(nodes))
	for _, n := range nodes {
		if matches(&n, state, now) {
			out = append(out, n)
		}
	}
	return out
}

func matches(n *models.NodeData, state *models.FilterState, now time.Time) bool {
	checks := []struct {
		r models.Range
		v float64
	}{
		{state.TotalVolume, n.TotalVolume},
		{state.AvgTradeSize, n.AvgTradeSize},
		{state.NetBuyRatio, n.NetBuyRatio},
		{state.TxCount, float64(n.TxCount)},
		{state.AtomShare, n.AtomVolumeShare},
		{state.OneShare, n.OneVolumeShare},
		{state.IBCShare, n.IBCVolumeShare},
		{state.ActiveDays, float64(n.ActiveDays)},
		{state.ImpactScore, n.Size},
		{state.Correlation, n.CorrelationScore},
	}
	for _, c := range checks {
		if c.r == (models.Range{}) {
			continue
		}
		if !c.r.Contains(c.v) {
			return false
		}
	}

	if state.Timing != "" && state.Timing != "ALL" && n.Timing != state.Timing {
		return false
	}

	return withinActivityWindow(n.LastActiveDate, state.RecentActivity, now)
}

// withinActivityWindow checks the last-active timestamp against the
// requested recency window. Unparseable timestamps only pass the ALL
// window.
func withinActivityWindow(lastActive string, window models.ActivityWindow, now time.Time) bool {
	var days int
	switch window {
	case models.Activity3D:
		days = 3
	case models.Activity7D:
		days = 7
	case models.Activity30D:
		days = 30
	default:
		return true
	}

	ts, err := time.Parse(time.RFC3339, lastActive)
	if err != nil {
		return false
	}
	return now.Sub(ts) <= time.Duration(days)*24*time.Hour
}
