package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"papertradev1/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(StoreConfig{DBPath: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadPositionsEmpty(t *testing.T) {
	s := newTestStore(t)

	positions, err := s.LoadPositions()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(positions) != 0 {
		t.Errorf("fresh store returned %d positions, want 0", len(positions))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	in := []model.Position{
		{
			ID:           "eq_1_1756600000000",
			StrategyName: "Momentum Breakout",
			Symbol:       "RELIANCE",
			Segment:      model.SegmentEquity,
			Status:       model.StatusActive,
			Quantity:     10,
			EntryPrice:   decimal.NewFromFloat(2520.75),
		},
		{
			ID:      "opt_1_1756600100000",
			Segment: model.SegmentFNO,
			Status:     model.StatusClosed,
			Legs: []model.Leg{
				{Action: model.ActionBuy, Symbol: "NIFTY26SEP22800CE", Quantity: 1, LotSize: 50,
					EntryPrice: decimal.NewFromInt(180), ExitPrice: decimal.NewFromInt(210)},
			},
		},
	}
	if err := s.SavePositions(in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := s.LoadPositions()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("loaded %d positions, want 2", len(out))
	}
	if out[0].ID != in[0].ID || out[0].Symbol != "RELIANCE" {
		t.Errorf("first position mangled: %+v", out[0])
	}
	if !out[0].EntryPrice.Equal(in[0].EntryPrice) {
		t.Errorf("entry price got %s, want %s", out[0].EntryPrice, in[0].EntryPrice)
	}
	if len(out[1].Legs) != 1 || out[1].Legs[0].LotSize != 50 {
		t.Errorf("legs mangled: %+v", out[1].Legs)
	}
	if out[1].Status != model.StatusClosed {
		t.Errorf("status got %q, want closed", out[1].Status)
	}
}

func TestSavePositionsReplaces(t *testing.T) {
	s := newTestStore(t)

	if err := s.SavePositions([]model.Position{{ID: "a"}, {ID: "b"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.SavePositions([]model.Position{{ID: "c"}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := s.LoadPositions()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 1 || out[0].ID != "c" {
		t.Errorf("save did not replace collection: %+v", out)
	}
}

func TestMalformedPortfolioRecoversToEmpty(t *testing.T) {
	s := newTestStore(t)

	if err := s.put(keyPortfolio, "{not json"); err != nil {
		t.Fatalf("seed corrupt doc: %v", err)
	}

	positions, err := s.LoadPositions()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(positions) != 0 {
		t.Errorf("corrupt document returned %d positions, want 0", len(positions))
	}
}

func TestCapitalFallbackAndRoundTrip(t *testing.T) {
	s := newTestStore(t)
	fallback := decimal.NewFromInt(1000000)

	got, err := s.LoadCapital(fallback)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.Equal(fallback) {
		t.Errorf("unset capital got %s, want fallback %s", got, fallback)
	}

	if err := s.SaveCapital(decimal.NewFromFloat(1250000.50)); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err = s.LoadCapital(fallback)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.Equal(decimal.NewFromFloat(1250000.50)) {
		t.Errorf("capital got %s, want 1250000.5", got)
	}
}

func TestMalformedCapitalRecoversToFallback(t *testing.T) {
	s := newTestStore(t)
	fallback := decimal.NewFromInt(1000000)

	if err := s.put(keyCapital, "NaN-ish"); err != nil {
		t.Fatalf("seed corrupt value: %v", err)
	}

	got, err := s.LoadCapital(fallback)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.Equal(fallback) {
		t.Errorf("corrupt capital got %s, want fallback %s", got, fallback)
	}
}

func TestReset(t *testing.T) {
	s := newTestStore(t)

	if err := s.SavePositions([]model.Position{{ID: "a"}}); err != nil {
		t.Fatalf("save positions: %v", err)
	}
	if err := s.SaveCapital(decimal.NewFromInt(42)); err != nil {
		t.Fatalf("save capital: %v", err)
	}
	if err := s.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}

	positions, err := s.LoadPositions()
	if err != nil {
		t.Fatalf("load positions: %v", err)
	}
	if len(positions) != 0 {
		t.Errorf("positions survived reset: %+v", positions)
	}
	capital, err := s.LoadCapital(decimal.NewFromInt(1000000))
	if err != nil {
		t.Fatalf("load capital: %v", err)
	}
	if !capital.Equal(decimal.NewFromInt(1000000)) {
		t.Errorf("capital after reset got %s, want fallback", capital)
	}
}
