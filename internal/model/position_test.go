package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func d(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

// TestPositionDefaultResolution pins down the default-substitution table for
// missing numeric fields: the fallback chains are explicit methods, not
// scattered ad hoc checks.
func TestPositionDefaultResolution(t *testing.T) {
	tests := []struct {
		name        string
		pos         Position
		wantCurrent float64
		wantExit    float64
	}{
		{
			name:        "all_set",
			pos:         Position{EntryPrice: d(100), CurrentPrice: d(110), ExitPrice: d(105)},
			wantCurrent: 110,
			wantExit:    105,
		},
		{
			name:        "missing_exit_uses_current",
			pos:         Position{EntryPrice: d(100), CurrentPrice: d(110)},
			wantCurrent: 110,
			wantExit:    110,
		},
		{
			name:        "missing_current_uses_entry",
			pos:         Position{EntryPrice: d(100)},
			wantCurrent: 100,
			wantExit:    100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pos.EffectiveCurrentPrice(); !got.Equal(d(tt.wantCurrent)) {
				t.Errorf("current: got %s, want %v", got, tt.wantCurrent)
			}
			if got := tt.pos.EffectiveExitPrice(); !got.Equal(d(tt.wantExit)) {
				t.Errorf("exit: got %s, want %v", got, tt.wantExit)
			}
		})
	}
}

func TestLegDefaultResolution(t *testing.T) {
	leg := Leg{EntryPrice: d(50)}

	if got := leg.EffectiveCurrentPrice(); !got.Equal(d(50)) {
		t.Errorf("current: got %s, want 50", got)
	}
	if got := leg.EffectiveExitPrice(); !got.Equal(d(50)) {
		t.Errorf("exit: got %s, want 50", got)
	}
	if got := leg.EffectiveLotSize(); got != 1 {
		t.Errorf("lotSize: got %d, want 1", got)
	}
	if got := leg.EffectiveQuantity(); got != 1 {
		t.Errorf("quantity: got %d, want 1", got)
	}
}

// TestLegacyStatusDefaultsToActive: records persisted before the status
// field existed must behave as active positions.
func TestLegacyStatusDefaultsToActive(t *testing.T) {
	var p Position
	if err := json.Unmarshal([]byte(`{"id":"eq_1_123","symbol":"RELIANCE","quantity":10}`), &p); err != nil {
		t.Fatalf("unmarshal legacy record: %v", err)
	}
	if !p.IsActive() {
		t.Error("legacy record without status should be active")
	}

	p.Status = StatusClosed
	if p.IsActive() {
		t.Error("closed record reported active")
	}
}

func TestStrategyPerUnitCost(t *testing.T) {
	tests := []struct {
		name string
		s    Strategy
		want decimal.Decimal
	}{
		{"equity_current", Strategy{Segment: SegmentEquity, CurrentPrice: d(2545.30), EntryPrice: d(2520.75)}, d(2545.30)},
		{"equity_entry_fallback", Strategy{Segment: SegmentEquity, EntryPrice: d(2520.75)}, d(2520.75)},
		{"equity_default", Strategy{Segment: SegmentEquity}, DefaultUnitCost},
		{"fno_capital_per_lot", Strategy{Segment: SegmentFNO, CapitalRequired: d(25000), CurrentPrice: d(195)}, d(25000)},
		{"fno_default", Strategy{Segment: SegmentFNO}, DefaultUnitCost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.PerUnitCost(); !got.Equal(tt.want) {
				t.Errorf("PerUnitCost: got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestStrategyEntryBasis(t *testing.T) {
	eq := Strategy{Segment: SegmentEquity, EntryPrice: d(2520.75), CurrentPrice: d(2545.30)}
	if got := eq.EntryBasis(); !got.Equal(d(2545.30)) {
		t.Errorf("equity enters at market: got %s, want 2545.30", got)
	}

	fno := Strategy{Segment: SegmentFNO, EntryPrice: d(22850), CurrentPrice: d(22950)}
	if got := fno.EntryBasis(); !got.Equal(d(22850)) {
		t.Errorf("F&O enters at reference entry: got %s, want 22850", got)
	}
}
