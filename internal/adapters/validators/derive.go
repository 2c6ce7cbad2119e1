package validators

import (
	"math"
	"time"

	"github.com/whaleradar/backend/pkg/models"
)

// addressHash sums the address bytes. It seeds the deterministic
// pseudo-randoms below so a validator's derived profile is stable across
// loads.
func addressHash(address string) int {
	var hash int
	for _, ch := range address {
		hash += int(ch)
	}
	return hash
}

func deterministicRand(hash, seed int) float64 {
	x := math.Sin(float64(hash+seed)) * 10000
	return x - math.Floor(x)
}

func deterministicRange(hash, seed int, min, max float64) float64 {
	return min + deterministicRand(hash, seed)*(max-min)
}

// deriveNode maps one validator's on-chain ground truth (staked tokens,
// commission rate) onto the account metric set. Tokens drive scale,
// commission drives the timing score (lower commission reads as a more
// aggressive operator); the remaining behavioral metrics are generated
// deterministically from the address so the profile set is varied but
// stable.
func deriveNode(address, moniker, details string, tokens, commissionRate float64, now time.Time) models.NodeData {
	hash := addressHash(address)

	scaleScore := math.Min(100, math.Max(10, math.Log10(math.Max(1, tokens))*14))

	timingScore := 40 + (1-math.Min(1, commissionRate*5))*60
	timing := models.TimingSync
	switch {
	case timingScore > 80:
		timing = models.TimingLeading
	case timingScore < 60:
		timing = models.TimingLagging
	}

	correlationScore := -0.4 + scaleScore/100*1.2

	// Composite impact: 60% scale, 25% timing, 15% correlation
	size := scaleScore*0.6 + timingScore*0.25 + ((correlationScore+1)/2)*100*0.15
	size = math.Min(100, math.Max(10, size))

	var atomShare, oneShare float64
	switch biasType := hash % 5; biasType {
	case 0, 1, 3:
		atomShare = deterministicRange(hash, 1, 0.65, 0.95)
		oneShare = 1 - atomShare
	case 2:
		oneShare = deterministicRange(hash, 2, 0.65, 0.95)
		atomShare = 1 - oneShare
	default:
		atomShare = deterministicRange(hash, 3, 0.4, 0.6)
		oneShare = 1 - atomShare
	}

	bias := models.BiasMixed
	switch {
	case atomShare > 0.65:
		bias = models.BiasAtom
	case oneShare > 0.65:
		bias = models.BiasAtomOne
	}

	history := make([]models.HistoryPoint, 30)
	for i := range history {
		direction := -1.0
		if deterministicRand(hash, i+100) > 0.5 {
			direction = 1.0
		}
		history[i] = models.HistoryPoint{
			Date:    now.AddDate(0, 0, -(29 - i)).Format(models.DateLayout),
			Price:   6.5 * (1 + deterministicRange(hash, i, -0.15, 0.15)),
			NetFlow: direction * deterministicRange(hash, i+200, 1000, 50000) * (scaleScore / 50),
		}
	}

	if details == "" {
		details = "No description provided."
	}

	return models.NodeData{
		ID:      address,
		Name:    moniker,
		Address: address,

		Size: size,
		Bias: bias,

		TotalVolume:     math.Log10(math.Max(1, tokens)) * 15,
		AvgTradeSize:    deterministicRange(hash, 6, 10, 900),
		NetBuyRatio:     deterministicRange(hash, 5, -1, 1),
		TxCount:         int(deterministicRange(hash, 4, 50, 500) * (scaleScore / 50)),
		AtomVolumeShare: atomShare,
		OneVolumeShare:  oneShare,
		IBCVolumeShare:  deterministicRand(hash, 7),
		ActiveDays:      int(deterministicRange(hash, 8, 1, 30)),
		LastActiveDate:  now.Format(time.RFC3339),

		Timing:           timing,
		TimingScore:      timingScore,
		CorrelationScore: correlationScore,
		ScaleScore:       scaleScore,

		Composition: models.Composition{
			Swap:  int(deterministicRange(hash, 9, 20, 80)),
			IBC:   int(deterministicRange(hash, 10, 10, 40)),
			Stake: int(deterministicRange(hash, 11, 5, 30)),
		},
		History:     history,
		Description: details,
	}
}
