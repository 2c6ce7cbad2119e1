package validators

import (
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/whaleradar/backend/pkg/logger"
	"github.com/whaleradar/backend/pkg/models"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base36[rand.Intn(len(base36))]
	}
	return string(b)
}

// GenerateMockValidators builds a randomized placeholder account set, used
// as a product-level fallback when the LCD API is unreachable. Unlike the
// CSV and LCD paths this output is intentionally non-deterministic.
func GenerateMockValidators(count int) []models.NodeData {
	logger.Warn("generating mock validator data as a fallback",
		zap.Int("count", count),
	)

	now := time.Now().UTC()
	randRange := func(min, max float64) float64 { return min + rand.Float64()*(max-min) }

	nodes := make([]models.NodeData, count)
	for i := range nodes {
		var atomShare, oneShare float64
		bias := models.BiasMixed
		switch i % 4 {
		case 0, 2:
			atomShare = randRange(0.65, 0.95)
			oneShare = 1 - atomShare
			bias = models.BiasAtom
		case 1:
			oneShare = randRange(0.65, 0.95)
			atomShare = 1 - oneShare
			bias = models.BiasAtomOne
		default:
			atomShare = randRange(0.4, 0.6)
			oneShare = 1 - atomShare
		}

		scaleScore := randRange(30, 98)
		timingScore := randRange(20, 95)
		correlationScore := randRange(-0.8, 0.8)
		size := scaleScore*0.5 + timingScore*0.3 + (correlationScore+1)*50*0.2

		timings := []models.TimingType{models.TimingLeading, models.TimingSync, models.TimingLagging}

		history := make([]models.HistoryPoint, 31)
		price := randRange(5, 8)
		for d := range history {
			price *= 1 + (rand.Float64()*0.06 - 0.03)
			direction := -1.0
			if rand.Float64() > 0.5 {
				direction = 1.0
			}
			history[d] = models.HistoryPoint{
				Date:    now.AddDate(0, 0, -(30 - d)).Format(models.DateLayout),
				Price:   price,
				NetFlow: direction * randRange(5000, 50000) * (scaleScore / 50),
			}
		}

		nodes[i] = models.NodeData{
			ID:      fmt.Sprintf("validator-mock-%d", i),
			Name:    fmt.Sprintf("Whale Account #%d (Simulated)", i+1),
			Address: "cosmosvaloper" + randomSuffix(9),

			Size: size,
			Bias: bias,

			TotalVolume:     scaleScore,
			AvgTradeSize:    randRange(100, 2000),
			NetBuyRatio:     randRange(-0.8, 0.8),
			TxCount:         int(randRange(50, 400)),
			AtomVolumeShare: atomShare,
			OneVolumeShare:  oneShare,
			IBCVolumeShare:  rand.Float64() * 0.5,
			ActiveDays:      int(randRange(15, 30)),
			LastActiveDate:  now.Format(time.RFC3339),

			Timing:           timings[i%3],
			TimingScore:      timingScore,
			CorrelationScore: correlationScore,
			ScaleScore:       scaleScore,

			Composition: models.Composition{
				Swap:  int(randRange(40, 70)),
				IBC:   int(randRange(10, 30)),
				Stake: int(randRange(10, 30)),
			},
			History:     history,
			Description: fmt.Sprintf("This is a simulated high-impact account with a focus on the %s ecosystem.", bias),
		}
	}

	return nodes
}
