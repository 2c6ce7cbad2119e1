package models

// Range is an inclusive [min, max] bound on a numeric metric
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies inside the range
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// ActivityWindow restricts accounts by how recently they were active
type ActivityWindow string

const (
	Activity3D  ActivityWindow = "3D"
	Activity7D  ActivityWindow = "7D"
	Activity30D ActivityWindow = "30D"
	ActivityAll ActivityWindow = "ALL"
)

// FilterState holds the dashboard's multi-dimensional account filters.
// Every predicate is an inclusive range or set-membership check; they are
// ANDed together when applied.
type FilterState struct {
	TotalVolume    Range          `json:"totalVolume"`
	AvgTradeSize   Range          `json:"avgTradeSize"`
	NetBuyRatio    Range          `json:"netBuyRatio"`
	TxCount        Range          `json:"txCount"`
	AtomShare      Range          `json:"atomShare"`
	OneShare       Range          `json:"oneShare"`
	IBCShare       Range          `json:"ibcShare"`
	ActiveDays     Range          `json:"activeDays"`
	ImpactScore    Range          `json:"aiiScore"`
	Correlation    Range          `json:"correlation"`
	Timing         TimingType     `json:"timingType"`     // empty or "ALL" matches everything
	RecentActivity ActivityWindow `json:"recentActivity"` // empty defaults to ALL
}
