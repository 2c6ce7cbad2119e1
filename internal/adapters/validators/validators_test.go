package validators

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/whaleradar/backend/pkg/logger"
	"github.com/whaleradar/backend/pkg/models"
)

func TestMain(m *testing.M) {
	if err := logger.Init("error", ""); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestDeriveNode_Deterministic(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	first := deriveNode("cosmosvaloper1abc", "Big Whale", "", 5_000_000, 0.05, now)
	second := deriveNode("cosmosvaloper1abc", "Big Whale", "", 5_000_000, 0.05, now)

	if !reflect.DeepEqual(first, second) {
		t.Error("derivation from the same ground truth should be identical")
	}
}

func TestDeriveNode_Bounds(t *testing.T) {
	now := time.Now().UTC()

	for _, tokens := range []float64{0, 1, 1e3, 1e9} {
		n := deriveNode("cosmosvaloper1xyz", "Whale", "", tokens, 0.1, now)

		if n.Size < 10 || n.Size > 100 {
			t.Errorf("tokens=%v: size = %v, want [10,100]", tokens, n.Size)
		}
		if n.ScaleScore < 10 || n.ScaleScore > 100 {
			t.Errorf("tokens=%v: scaleScore = %v, want [10,100]", tokens, n.ScaleScore)
		}
		if share := n.AtomVolumeShare + n.OneVolumeShare; share < 0.999 || share > 1.001 {
			t.Errorf("tokens=%v: chain shares sum to %v, want 1", tokens, share)
		}
		if len(n.History) != 30 {
			t.Errorf("tokens=%v: history length = %d, want 30", tokens, len(n.History))
		}
	}
}

func TestDeriveNode_TimingFromCommission(t *testing.T) {
	now := time.Now().UTC()

	// rate 0 -> timingScore 100 -> LEADING; rate 1 -> timingScore 40 -> LAGGING
	if n := deriveNode("addr", "Whale", "", 1000, 0, now); n.Timing != models.TimingLeading {
		t.Errorf("zero commission timing = %s, want LEADING", n.Timing)
	}
	if n := deriveNode("addr", "Whale", "", 1000, 1, now); n.Timing != models.TimingLagging {
		t.Errorf("full commission timing = %s, want LAGGING", n.Timing)
	}
}

func TestClient_FetchValidators(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cosmos/staking/v1beta1/validators" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"validators":[
			{"operator_address":"cosmosvaloper1aaa","tokens":"5000000000000","description":{"moniker":"Whale One","details":"a validator"},"commission":{"commission_rates":{"rate":"0.050000000000000000"}}},
			{"operator_address":"cosmosvaloper1bbb","tokens":"1000000","description":{"moniker":"Infra Services","details":""},"commission":{"commission_rates":{"rate":"0.1"}}},
			{"operator_address":"cosmosvaloper1ccc","tokens":"1000000","description":{"moniker":"","details":""},"commission":{"commission_rates":{"rate":"0.1"}}}
		]}`)
	}))
	defer srv.Close()

	nodes, err := NewClient(srv.URL, 150).FetchValidators(context.Background())
	if err != nil {
		t.Fatalf("FetchValidators failed: %v", err)
	}

	// Empty and "infra" monikers are filtered out
	if len(nodes) != 1 {
		t.Fatalf("expected 1 account, got %d", len(nodes))
	}
	if nodes[0].Name != "Whale One" || nodes[0].Address != "cosmosvaloper1aaa" {
		t.Errorf("unexpected account: %+v", nodes[0])
	}
	if nodes[0].Description != "a validator" {
		t.Errorf("description = %q", nodes[0].Description)
	}
}

func TestClient_EmptyValidatorSetIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"validators":[]}`)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, 150).FetchValidators(context.Background()); err == nil {
		t.Fatal("expected error for empty validator set")
	}
}

func TestGenerateMockValidators(t *testing.T) {
	nodes := GenerateMockValidators(80)

	if len(nodes) != 80 {
		t.Fatalf("expected 80 accounts, got %d", len(nodes))
	}
	var sawAtom, sawAtomOne, sawMixed bool
	for _, n := range nodes {
		switch n.Bias {
		case models.BiasAtom:
			sawAtom = true
		case models.BiasAtomOne:
			sawAtomOne = true
		case models.BiasMixed:
			sawMixed = true
		}
		if len(n.History) != 31 {
			t.Errorf("history length = %d, want 31", len(n.History))
		}
	}
	if !sawAtom || !sawAtomOne || !sawMixed {
		t.Error("mock set should span all three bias classes")
	}
}
