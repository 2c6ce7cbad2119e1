package swaps

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/whaleradar/backend/pkg/logger"
	"github.com/whaleradar/backend/pkg/models"
)

// Source retrieves the raw swap table. Any transport exposing the 16-column
// row layout satisfies the loader contract.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// FileSource reads the swap table from a local CSV file
type FileSource struct {
	Path string
}

func (s *FileSource) Fetch(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read swap table %s: %w", s.Path, err)
	}
	return data, nil
}

// HTTPSource fetches the swap table from a remote endpoint
type HTTPSource struct {
	URL    string
	client *http.Client
}

func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{
		URL:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch swap table: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("swap table fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read swap table body: %w", err)
	}
	return data, nil
}

// Loader turns raw swap rows into aggregated whale accounts
type Loader struct {
	source Source
}

// NewLoader creates a loader over the given source
func NewLoader(source Source) *Loader {
	return &Loader{source: source}
}

// LoadAccounts fetches the raw table, aggregates rows by sender and returns
// the derived account set. Only a transport failure is an error; a table
// that yields zero rows after parsing and date filtering returns an empty
// slice. Each call owns its working aggregates, so concurrent calls are
// safe.
func (l *Loader) LoadAccounts(ctx context.Context, dateRange *models.DateRange) ([]models.NodeData, error) {
	raw, err := l.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	var fromMs, toMs int64
	if dateRange != nil {
		fromMs, toMs = dateRange.Bounds()
	}

	aggs := make(map[string]*accountAggregate)
	var parsed, skipped int

	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}

		rec, ok := parseRecord(splitFields(line))
		if !ok {
			// Malformed row policy: skip, never fail the whole load.
			// The header row falls out here via its non-numeric timestamp.
			skipped++
			continue
		}
		if dateRange != nil && (rec.TimestampMs < fromMs || rec.TimestampMs >= toMs) {
			continue
		}

		agg, ok := aggs[rec.Sender]
		if !ok {
			agg = newAccountAggregate(rec.Sender)
			aggs[rec.Sender] = agg
		}
		agg.add(rec)
		parsed++
	}

	nodes := finalize(aggs)

	logger.Debug("swap table aggregated",
		zap.Int("rows", parsed),
		zap.Int("skipped", skipped),
		zap.Int("accounts", len(nodes)),
	)

	return nodes, nil
}
