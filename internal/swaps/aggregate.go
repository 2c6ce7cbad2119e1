package swaps

import (
	"math"
	"sort"
	"time"

	"github.com/whaleradar/backend/pkg/models"
)

// accountAggregate is the mutable per-sender accumulator built during the
// row scan. It is owned by a single LoadAccounts call and converted into an
// immutable models.NodeData once the scan completes.
//
// Invariant: buyVolume and sellVolume are non-negative and
// buyVolume - sellVolume equals the sum of dailyNetFlow values.
type accountAggregate struct {
	address string

	txCount     int
	totalVolume float64
	buyVolume   float64
	sellVolume  float64
	netFlowSum  float64

	atomVolume  float64
	oneVolume   float64
	swapVolume  float64
	ibcVolume   float64
	stakeVolume float64

	lastActiveMs int64
	dailyNetFlow map[string]float64
}

func newAccountAggregate(address string) *accountAggregate {
	return &accountAggregate{
		address:      address,
		dailyNetFlow: make(map[string]float64),
	}
}

// add folds one transaction into the aggregate
func (a *accountAggregate) add(rec TransactionRecord) {
	var inSum, outSum float64
	var hasAtom, hasAtomOne bool

	account := func(t TokenAmount) {
		if t.Amount <= 0 {
			return
		}
		switch {
		case isAtomDenom(t.Denom):
			a.atomVolume += t.Amount
			hasAtom = true
		case isAtomOneDenom(t.Denom):
			a.oneVolume += t.Amount
			hasAtomOne = true
		}
	}

	for _, t := range rec.In {
		inSum += t.Amount
		account(t)
	}
	for _, t := range rec.Out {
		outSum += t.Amount
		account(t)
	}

	rowVolume := inSum + outSum
	netFlow := outSum - inSum

	a.txCount++
	a.totalVolume += rowVolume
	a.netFlowSum += netFlow
	if netFlow > 0 {
		a.buyVolume += netFlow
	} else {
		a.sellVolume += -netFlow
	}

	// Route the row's volume into exactly one transfer-type bucket.
	// Cross-chain takes priority over the one-sided stake heuristic.
	switch {
	case hasAtom && hasAtomOne:
		a.ibcVolume += rowVolume
	case inSum == 0 || outSum == 0:
		a.stakeVolume += rowVolume
	default:
		a.swapVolume += rowVolume
	}

	if rec.TimestampMs > a.lastActiveMs {
		a.lastActiveMs = rec.TimestampMs
	}
	day := time.UnixMilli(rec.TimestampMs).UTC().Format(models.DateLayout)
	a.dailyNetFlow[day] += netFlow
}

// finalize converts the aggregates into the output account set. Each
// account is a pure function of its own aggregate plus the global maxima,
// so the result is independent of map iteration order; the slice is sorted
// by address to keep repeated loads bit-identical.
func finalize(aggs map[string]*accountAggregate) []models.NodeData {
	if len(aggs) == 0 {
		return []models.NodeData{}
	}

	var maxTotalVolume float64
	maxTxCount := 1
	for _, a := range aggs {
		if a.totalVolume > maxTotalVolume {
			maxTotalVolume = a.totalVolume
		}
		if a.txCount > maxTxCount {
			maxTxCount = a.txCount
		}
	}

	nodes := make([]models.NodeData, 0, len(aggs))
	for _, a := range aggs {
		nodes = append(nodes, a.toNode(maxTotalVolume, maxTxCount))
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Address < nodes[j].Address })

	return nodes
}

// toNode runs the post-scan normalization for one account
func (a *accountAggregate) toNode(maxTotalVolume float64, maxTxCount int) models.NodeData {
	netBuyRatio := (a.buyVolume - a.sellVolume) / math.Max(1, a.buyVolume+a.sellVolume)

	var atomShare, oneShare, ibcShare float64
	if a.totalVolume > 0 {
		atomShare = a.atomVolume / a.totalVolume
		oneShare = a.oneVolume / a.totalVolume
		ibcShare = a.ibcVolume / a.totalVolume
	}

	bias := models.BiasMixed
	switch {
	case atomShare > oneShare && atomShare >= 0.5:
		bias = models.BiasAtom
	case oneShare > atomShare && oneShare >= 0.5:
		bias = models.BiasAtomOne
	}

	var scaleScore float64
	if maxTotalVolume > 0 {
		scaleScore = math.Min(100, 100*a.totalVolume/maxTotalVolume)
	}
	timingScore := 50 + 40*netBuyRatio

	correlationScore := clamp(netBuyRatio*a.flowConsistency(), -1, 1)

	size := clamp(
		scaleScore*0.5+float64(a.txCount)/float64(maxTxCount)*40+math.Abs(correlationScore)*10,
		10, 100,
	)

	timing := models.TimingSync
	switch {
	case netBuyRatio > 0.1:
		timing = models.TimingLeading
	case netBuyRatio < -0.1:
		timing = models.TimingLagging
	}

	return models.NodeData{
		ID:      a.address,
		Name:    a.address,
		Address: a.address,

		Size: size,
		Bias: bias,

		TotalVolume:     a.totalVolume,
		AvgTradeSize:    a.totalVolume / float64(a.txCount),
		NetBuyRatio:     netBuyRatio,
		TxCount:         a.txCount,
		AtomVolumeShare: atomShare,
		OneVolumeShare:  oneShare,
		IBCVolumeShare:  ibcShare,
		ActiveDays:      len(a.dailyNetFlow),
		LastActiveDate:  time.UnixMilli(a.lastActiveMs).UTC().Format(time.RFC3339),
		ROI:             a.netFlowSum,

		Timing:           timing,
		TimingScore:      timingScore,
		CorrelationScore: correlationScore,
		ScaleScore:       scaleScore,

		Composition: a.composition(),
		History:     a.history(),
	}
}

// flowConsistency measures how stable the account's daily flow direction
// is: 1 for perfectly steady flows, falling toward 0 as daily variance
// grows relative to the mean.
func (a *accountAggregate) flowConsistency() float64 {
	n := float64(len(a.dailyNetFlow))
	if n == 0 {
		return 0
	}

	var mean float64
	for _, f := range a.dailyNetFlow {
		mean += f
	}
	mean /= n

	var variance float64
	for _, f := range a.dailyNetFlow {
		variance += (f - mean) * (f - mean)
	}
	variance /= n
	stdDev := math.Sqrt(variance)

	if mean == 0 && stdDev == 0 {
		// Single flat day of activity carries no directional signal either way
		return 0.5
	}
	return math.Max(0, 1-stdDev/(math.Abs(mean)+1))
}

// composition derives transfer-type percentages. Buckets are rounded
// independently, so the three values may not sum to exactly 100.
func (a *accountAggregate) composition() models.Composition {
	denom := a.swapVolume + a.ibcVolume + a.stakeVolume
	if denom == 0 {
		denom = a.totalVolume
	}
	if denom == 0 {
		return models.Composition{}
	}
	return models.Composition{
		Swap:  int(math.Round(a.swapVolume / denom * 100)),
		IBC:   int(math.Round(a.ibcVolume / denom * 100)),
		Stake: int(math.Round(a.stakeVolume / denom * 100)),
	}
}

// history emits one point per day with recorded activity, ascending by
// date. Gaps for inactive days are not filled. The price is a monotonic
// placeholder curve, not a market price.
func (a *accountAggregate) history() []models.HistoryPoint {
	days := make([]string, 0, len(a.dailyNetFlow))
	for day := range a.dailyNetFlow {
		days = append(days, day)
	}
	sort.Strings(days)

	points := make([]models.HistoryPoint, len(days))
	for i, day := range days {
		flow := a.dailyNetFlow[day]
		points[i] = models.HistoryPoint{
			Date:    day,
			Price:   1 + 0.02*float64(i) + 0.0001*math.Abs(flow),
			NetFlow: flow,
		}
	}
	return points
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
