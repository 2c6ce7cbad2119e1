package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/whaleradar/backend/internal/adapters/config"
	"github.com/whaleradar/backend/internal/indicators"
	"github.com/whaleradar/backend/pkg/logger"
	"github.com/whaleradar/backend/pkg/models"
)

// NodeProvider loads the account set for a date range. The CSV loader and
// the validator-API derivation both satisfy it; the Account shape is the
// stable boundary, not the source format.
type NodeProvider interface {
	LoadAccounts(ctx context.Context, dateRange *models.DateRange) ([]models.NodeData, error)
}

// MarketProvider fetches benchmark market data
type MarketProvider interface {
	FetchMarketData(ctx context.Context) (*models.MarketData, error)
}

// Server exposes the dashboard API
type Server struct {
	cfg        *config.Config
	httpServer *http.Server
	state      *State
	nodes      NodeProvider
	calc       *indicators.Calculator
	startTime  time.Time
}

// NewServer creates the API server around the shared snapshot state
func NewServer(cfg *config.Config, state *State, nodes NodeProvider) *Server {
	s := &Server{
		cfg:       cfg,
		state:     state,
		nodes:     nodes,
		calc:      indicators.NewCalculator(),
		startTime: time.Now(),
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/nodes", s.handleNodes).Methods(http.MethodGet)
	r.HandleFunc("/api/nodes/filter", s.handleFilterNodes).Methods(http.MethodPost)
	r.HandleFunc("/api/nodes/{id}", s.handleNodeDetail).Methods(http.MethodGet)
	r.HandleFunc("/api/market", s.handleMarket).Methods(http.MethodGet)
	r.HandleFunc("/api/simulate", s.handleSimulate).Methods(http.MethodPost)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/ready", s.handleReadiness).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Start starts the API server and blocks until it shuts down
func (s *Server) Start() error {
	logger.Info("API server starting",
		zap.String("addr", s.httpServer.Addr),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	logger.Info("stopping API server...")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"uptime": time.Since(s.startTime).String(),
	})
}

func (s *Server) handleReadiness(w http.ResponseWriter, _ *http.Request) {
	if s.state.Get() == nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]bool{"ready": false})
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ready": true})
}
