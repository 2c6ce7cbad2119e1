package api

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/whaleradar/backend/internal/backtest"
	"github.com/whaleradar/backend/internal/filter"
	"github.com/whaleradar/backend/pkg/logger"
	"github.com/whaleradar/backend/pkg/models"
)

// handleNodes serves GET /api/nodes. With start/end query params a fresh
// load for that range is performed; otherwise the cached snapshot is
// served. Results are ordered by impact score and capped by the configured
// node limit (overridable with ?limit=).
func (s *Server) handleNodes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := s.cfg.Data.NodeLimit
	if raw := q.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	var nodes []models.NodeData
	start, end := q.Get("start"), q.Get("end")
	switch {
	case start != "" && end != "":
		dateRange, err := models.ParseDateRange(start, end)
		if err != nil {
			respondError(w, http.StatusBadRequest, "start and end must be YYYY-MM-DD dates")
			return
		}
		loaded, err := s.nodes.LoadAccounts(r.Context(), dateRange)
		if err != nil {
			logger.Error("account load failed", zap.Error(err))
			respondError(w, http.StatusBadGateway, "failed to load accounts")
			return
		}
		nodes = loaded
	case start != "" || end != "":
		respondError(w, http.StatusBadRequest, "start and end must be provided together")
		return
	default:
		snap := s.state.Get()
		if snap == nil {
			respondError(w, http.StatusServiceUnavailable, "data not loaded yet")
			return
		}
		nodes = snap.Nodes
	}

	respondJSON(w, http.StatusOK, capBySize(nodes, limit))
}

// handleFilterNodes serves POST /api/nodes/filter: the dashboard's filter
// state applied against the current snapshot.
func (s *Server) handleFilterNodes(w http.ResponseWriter, r *http.Request) {
	var state models.FilterState
	if err := parseJSONBody(r, &state); err != nil {
		respondError(w, http.StatusBadRequest, "invalid filter state")
		return
	}

	snap := s.state.Get()
	if snap == nil {
		respondError(w, http.StatusServiceUnavailable, "data not loaded yet")
		return
	}

	nodes := filter.Apply(snap.Nodes, &state, time.Now().UTC())
	respondJSON(w, http.StatusOK, capBySize(nodes, s.cfg.Data.NodeLimit))
}

func (s *Server) handleNodeDetail(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	node, ok := s.state.Node(id)
	if !ok {
		respondError(w, http.StatusNotFound, "node not found")
		return
	}
	respondJSON(w, http.StatusOK, node)
}

type marketResponse struct {
	*models.MarketData
	Indicators any    `json:"indicators,omitempty"`
	Source     string `json:"source"`
	UpdatedAt  string `json:"updatedAt"`
}

func (s *Server) handleMarket(w http.ResponseWriter, _ *http.Request) {
	snap := s.state.Get()
	if snap == nil || snap.Market == nil {
		respondError(w, http.StatusServiceUnavailable, "market data not loaded yet")
		return
	}

	resp := marketResponse{
		MarketData: snap.Market,
		Source:     snap.Source,
		UpdatedAt:  snap.UpdatedAt.UTC().Format(time.RFC3339),
	}
	// Indicators are best-effort: short histories simply omit them
	if ind, err := s.calc.Calculate(snap.Market.History); err == nil {
		resp.Indicators = ind
	}

	respondJSON(w, http.StatusOK, resp)
}

// simulateRequest references slot accounts by id so clients never round-trip
// full node payloads
type simulateRequest struct {
	InitialCapital float64             `json:"initialCapital"`
	Asset          models.Asset        `json:"asset"`
	Mode           models.StrategyMode `json:"mode"`
	Slots          []struct {
		ID     string  `json:"id"`
		NodeID string  `json:"nodeId"`
		Weight float64 `json:"weight"`
	} `json:"slots"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid simulation request")
		return
	}
	if req.InitialCapital <= 0 {
		respondError(w, http.StatusBadRequest, "initialCapital must be positive")
		return
	}
	if req.Mode != models.ModeLongOnly && req.Mode != models.ModeCopyTrading {
		respondError(w, http.StatusBadRequest, "mode must be LONG_ONLY or COPY_TRADING")
		return
	}

	snap := s.state.Get()
	if snap == nil || snap.Market == nil {
		respondError(w, http.StatusServiceUnavailable, "data not loaded yet")
		return
	}

	cfg := &models.SimulationConfig{
		InitialCapital: req.InitialCapital,
		Asset:          req.Asset,
		Mode:           req.Mode,
	}
	for _, slot := range req.Slots {
		simSlot := models.SimulationSlot{ID: slot.ID, Weight: slot.Weight}
		if slot.NodeID != "" {
			node, ok := s.state.Node(slot.NodeID)
			if !ok {
				respondError(w, http.StatusNotFound, "unknown node in slot "+slot.ID)
				return
			}
			simSlot.Node = node
		}
		cfg.Slots = append(cfg.Slots, simSlot)
	}

	respondJSON(w, http.StatusOK, backtest.Simulate(cfg, snap.Market))
}

// capBySize orders accounts by impact score descending and keeps the top n
func capBySize(nodes []models.NodeData, n int) []models.NodeData {
	sorted := make([]models.NodeData, len(nodes))
	copy(sorted, nodes)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Size > sorted[j].Size })

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
