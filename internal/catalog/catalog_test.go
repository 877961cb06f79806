package catalog

import (
	"testing"

	"github.com/shopspring/decimal"

	"papertradev1/internal/model"
)

func TestSegments(t *testing.T) {
	c := New()
	segments := c.Segments()
	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(segments))
	}
	if segments[0].ID != model.SegmentEquity || segments[1].ID != model.SegmentFNO {
		t.Errorf("segment IDs: %+v", segments)
	}
}

func TestStrategiesPerSegment(t *testing.T) {
	c := New()

	if got := c.Strategies(model.SegmentEquity); len(got) == 0 {
		t.Error("no equity strategies")
	}
	if got := c.Strategies(model.SegmentFNO); len(got) == 0 {
		t.Error("no fno strategies")
	}
	if got := c.Strategies(model.Segment("commodity")); len(got) != 0 {
		t.Errorf("unknown segment yielded %d strategies", len(got))
	}
}

func TestStrategyLookupAcrossSegments(t *testing.T) {
	c := New()

	tests := []struct {
		id      string
		segment model.Segment
	}{
		{"eq_1", model.SegmentEquity},
		{"opt_1", model.SegmentFNO},
		{"hybrid_1", model.SegmentFNO},
	}
	for _, tt := range tests {
		s, ok := c.Strategy(tt.id)
		if !ok {
			t.Errorf("strategy %s not found", tt.id)
			continue
		}
		if s.Segment != tt.segment {
			t.Errorf("%s: segment got %q, want %q", tt.id, s.Segment, tt.segment)
		}
	}

	if _, ok := c.Strategy("no_such"); ok {
		t.Error("unknown strategy found")
	}
}

func TestFNOStrategiesCarryLegs(t *testing.T) {
	c := New()
	for _, s := range c.Strategies(model.SegmentFNO) {
		if len(s.Legs) == 0 {
			t.Errorf("fno strategy %s has no legs", s.ID)
		}
		for _, l := range s.Legs {
			if l.LotSize <= 0 {
				t.Errorf("%s leg %s has lot size %d", s.ID, l.ID, l.LotSize)
			}
		}
	}
}

func TestBasePrice(t *testing.T) {
	c := New()

	if got := c.BasePrice("RELIANCE"); !got.Equal(decimal.NewFromFloat(2520.75)) {
		t.Errorf("RELIANCE base got %s, want 2520.75", got)
	}
	if got := c.BasePrice("UNKNOWN"); !got.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("unknown base got %s, want 1000", got)
	}
}

func TestSymbolsCoverStrategySymbols(t *testing.T) {
	c := New()
	symbols := make(map[string]bool)
	for _, s := range c.Symbols() {
		symbols[s] = true
	}
	for _, seg := range []model.Segment{model.SegmentEquity, model.SegmentFNO} {
		for _, s := range c.Strategies(seg) {
			if !symbols[s.Symbol] {
				t.Errorf("strategy %s symbol %s has no base price", s.ID, s.Symbol)
			}
		}
	}
}

func TestMarketOverview(t *testing.T) {
	c := New()
	overview := c.MarketOverview()
	if len(overview.Indices) != 3 {
		t.Errorf("got %d indices, want 3", len(overview.Indices))
	}
	if overview.MarketStatus != "open" && overview.MarketStatus != "closed" {
		t.Errorf("market status got %q", overview.MarketStatus)
	}
}

func TestRiskAnalysisBounds(t *testing.T) {
	c := New()
	for i := 0; i < 50; i++ {
		ra := c.RiskAnalysis("eq_1")
		if ra.RiskScore < 30 || ra.RiskScore >= 70 {
			t.Fatalf("risk score %d out of range", ra.RiskScore)
		}
		if ra.ProbabilityOfProfit < 60 || ra.ProbabilityOfProfit >= 90 {
			t.Fatalf("probability %d out of range", ra.ProbabilityOfProfit)
		}
		if len(ra.Recommendations) == 0 {
			t.Fatal("no recommendations")
		}
	}
}
