package portfolio

import (
	"testing"

	"github.com/shopspring/decimal"

	"papertradev1/internal/model"
)

func TestAllocationPct(t *testing.T) {
	tests := []struct {
		level model.RiskLevel
		want  float64
	}{
		{model.RiskVeryLow, 0.50},
		{model.RiskLow, 0.25},
		{model.RiskMid, 0.15},
		{model.RiskHigh, 0.10},
		{model.RiskVeryHigh, 0.05},
		{model.RiskLevel(""), 0.15},        // missing
		{model.RiskLevel("EXTREME"), 0.15}, // unknown
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			if got := AllocationPct(tt.level); !got.Equal(d(tt.want)) {
				t.Errorf("AllocationPct(%q): got %s, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestSuggestQuantityVeryHigh(t *testing.T) {
	// 5% of 100,000 is 5,000, which buys 0 units at 10,000 each; the
	// advisor clamps up to 1 rather than recommending nothing.
	advice := SuggestQuantity(d(100000), d(10000), model.RiskVeryHigh)

	if advice.MaxQuantity != 10 {
		t.Errorf("maxQuantity: got %d, want 10", advice.MaxQuantity)
	}
	if advice.SuggestedQuantity != 1 {
		t.Errorf("suggestedQuantity: got %d, want 1", advice.SuggestedQuantity)
	}
}

func TestSuggestQuantityBounds(t *testing.T) {
	capitals := []float64{1, 500, 10000, 99999.99, 1000000}
	costs := []float64{0.05, 1, 999, 2520.75, 100000}
	levels := []model.RiskLevel{model.RiskVeryLow, model.RiskLow, model.RiskMid, model.RiskHigh, model.RiskVeryHigh, ""}

	for _, c := range capitals {
		for _, u := range costs {
			for _, lvl := range levels {
				advice := SuggestQuantity(d(c), d(u), lvl)
				if advice.SuggestedQuantity < 1 || advice.SuggestedQuantity > advice.MaxQuantity {
					t.Errorf("capital=%v cost=%v level=%q: suggested %d outside [1, %d]",
						c, u, lvl, advice.SuggestedQuantity, advice.MaxQuantity)
				}
				if advice.MaxQuantity < 1 {
					t.Errorf("capital=%v cost=%v: maxQuantity %d < 1", c, u, advice.MaxQuantity)
				}
			}
		}
	}
}

func TestSuggestQuantityMidAllocation(t *testing.T) {
	// 15% of 1,000,000 = 150,000 → 59 units at 2,520.75
	advice := SuggestQuantity(d(1000000), d(2520.75), model.RiskMid)

	if advice.SuggestedQuantity != 59 {
		t.Errorf("suggestedQuantity: got %d, want 59", advice.SuggestedQuantity)
	}
	if advice.MaxQuantity != 396 {
		t.Errorf("maxQuantity: got %d, want 396", advice.MaxQuantity)
	}
}

// TestSuggestQuantityExhaustedCapital verifies the advisor still floors to 1
// when available capital is zero or negative — oversubscription is allowed.
func TestSuggestQuantityExhaustedCapital(t *testing.T) {
	for _, capital := range []float64{0, -50000} {
		advice := SuggestQuantity(d(capital), d(10000), model.RiskLow)
		if advice.SuggestedQuantity != 1 || advice.MaxQuantity != 1 {
			t.Errorf("capital=%v: got suggested=%d max=%d, want 1/1",
				capital, advice.SuggestedQuantity, advice.MaxQuantity)
		}
	}
}

func TestSuggestQuantityZeroUnitCost(t *testing.T) {
	// A degenerate per-unit cost falls back to the default unit cost
	// instead of dividing by zero.
	advice := SuggestQuantity(d(100000), decimal.Zero, model.RiskVeryLow)
	if !advice.CapitalPerUnit.Equal(model.DefaultUnitCost) {
		t.Errorf("capitalPerUnit: got %s, want %s", advice.CapitalPerUnit, model.DefaultUnitCost)
	}
	if advice.MaxQuantity != 100 {
		t.Errorf("maxQuantity: got %d, want 100", advice.MaxQuantity)
	}
	if advice.SuggestedQuantity != 50 {
		t.Errorf("suggestedQuantity: got %d, want 50", advice.SuggestedQuantity)
	}
}
