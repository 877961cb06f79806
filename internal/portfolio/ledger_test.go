package portfolio

import (
	"testing"

	"github.com/shopspring/decimal"

	"papertradev1/internal/model"
)

func TestRecomputeOneActiveEquity(t *testing.T) {
	base := d(1000000)
	positions := []model.Position{
		{
			Segment:              model.SegmentEquity,
			Status:               model.StatusActive,
			Quantity:             10,
			EntryPrice:           d(100),
			CurrentPrice:         d(120),
			TotalCapitalRequired: d(1000),
		},
	}

	s := Recompute(base, positions)

	if !s.ActivePnL.Equal(d(200)) {
		t.Errorf("activePnL: got %s, want 200", s.ActivePnL)
	}
	if !s.AllocatedCapital.Equal(d(1000)) {
		t.Errorf("allocatedCapital: got %s, want 1000", s.AllocatedCapital)
	}
	if !s.AdjustedCapital.Equal(d(1000000)) {
		t.Errorf("adjustedCapital: got %s, want 1000000", s.AdjustedCapital)
	}
	if !s.AvailableCapital.Equal(d(999000)) {
		t.Errorf("availableCapital: got %s, want 999000", s.AvailableCapital)
	}
	if !s.BookedPnL.IsZero() {
		t.Errorf("bookedPnL: got %s, want 0", s.BookedPnL)
	}
}

func TestRecomputeOneClosedEquity(t *testing.T) {
	base := d(1000000)
	positions := []model.Position{
		{
			Segment:              model.SegmentEquity,
			Status:               model.StatusClosed,
			Quantity:             10,
			EntryPrice:           d(100),
			ExitPrice:            d(90),
			TotalCapitalRequired: d(1000), // closed positions must not allocate
		},
	}

	s := Recompute(base, positions)

	if !s.BookedPnL.Equal(d(-100)) {
		t.Errorf("bookedPnL: got %s, want -100", s.BookedPnL)
	}
	if !s.AdjustedCapital.Equal(d(999900)) {
		t.Errorf("adjustedCapital: got %s, want 999900", s.AdjustedCapital)
	}
	if !s.AllocatedCapital.IsZero() {
		t.Errorf("allocatedCapital: got %s, want 0", s.AllocatedCapital)
	}
	if !s.AvailableCapital.Equal(d(999900)) {
		t.Errorf("availableCapital: got %s, want 999900", s.AvailableCapital)
	}
	if !s.ActivePnL.IsZero() {
		t.Errorf("activePnL: got %s, want 0", s.ActivePnL)
	}
}

// TestRecomputeZeroBaseCapital ensures a zero base never produces
// NaN/Infinity-style artifacts: ROI must be exactly zero.
func TestRecomputeZeroBaseCapital(t *testing.T) {
	positions := []model.Position{
		{Segment: model.SegmentEquity, Status: model.StatusClosed, Quantity: 5, EntryPrice: d(100), ExitPrice: d(150)},
		{Segment: model.SegmentEquity, Status: model.StatusActive, Quantity: 5, EntryPrice: d(100), CurrentPrice: d(90)},
	}

	s := Recompute(decimal.Zero, positions)
	if !s.OverallROI.IsZero() {
		t.Errorf("overallROI with zero base: got %s, want 0", s.OverallROI)
	}
}

func TestRecomputeUtilizationGuard(t *testing.T) {
	// Booked losses wipe out the base: adjusted capital goes negative and
	// utilization must report 0 rather than a division artifact.
	positions := []model.Position{
		{Segment: model.SegmentEquity, Status: model.StatusClosed, Quantity: 100, EntryPrice: d(100), ExitPrice: d(50)},
		{Segment: model.SegmentEquity, Status: model.StatusActive, Quantity: 1, EntryPrice: d(10), CurrentPrice: d(10), TotalCapitalRequired: d(10)},
	}

	s := Recompute(d(1000), positions)
	if !s.AdjustedCapital.IsNegative() {
		t.Fatalf("test setup: adjusted capital should be negative, got %s", s.AdjustedCapital)
	}
	if !s.UtilizationPct.IsZero() {
		t.Errorf("utilizationPct: got %s, want 0", s.UtilizationPct)
	}
}

func TestRecomputeMissingStatusIsActive(t *testing.T) {
	positions := []model.Position{
		{Segment: model.SegmentEquity, Quantity: 10, EntryPrice: d(100), CurrentPrice: d(110), TotalCapitalRequired: d(1000)},
	}

	s := Recompute(d(100000), positions)
	if s.OpenPositions != 1 {
		t.Errorf("openPositions: got %d, want 1", s.OpenPositions)
	}
	if !s.AllocatedCapital.Equal(d(1000)) {
		t.Errorf("allocatedCapital: got %s, want 1000", s.AllocatedCapital)
	}
	if !s.ActivePnL.Equal(d(100)) {
		t.Errorf("activePnL: got %s, want 100", s.ActivePnL)
	}
}

// TestRecomputeOrderIndependence verifies the aggregates are a pure fold
// over the collection regardless of position ordering.
func TestRecomputeOrderIndependence(t *testing.T) {
	positions := []model.Position{
		{ID: "a", Segment: model.SegmentEquity, Status: model.StatusActive, Quantity: 10, EntryPrice: d(100), CurrentPrice: d(105), TotalCapitalRequired: d(1000)},
		{ID: "b", Segment: model.SegmentEquity, Status: model.StatusClosed, Quantity: 4, EntryPrice: d(200), ExitPrice: d(250)},
		{ID: "c", Segment: model.SegmentFNO, Status: model.StatusActive, TotalCapitalRequired: d(25000), Legs: []model.Leg{
			{Action: model.ActionBuy, EntryPrice: d(180.50), CurrentPrice: d(195), LotSize: 50, Quantity: 1},
			{Action: model.ActionSell, EntryPrice: d(120), CurrentPrice: d(135), LotSize: 50, Quantity: 1},
		}},
	}
	reversed := []model.Position{positions[2], positions[1], positions[0]}

	base := d(500000)
	a := Recompute(base, positions)
	b := Recompute(base, reversed)

	if !a.AllocatedCapital.Equal(b.AllocatedCapital) || !a.ActivePnL.Equal(b.ActivePnL) ||
		!a.BookedPnL.Equal(b.BookedPnL) || !a.AvailableCapital.Equal(b.AvailableCapital) {
		t.Errorf("ledger depends on ordering:\n  fwd: %+v\n  rev: %+v", a, b)
	}
}

// TestRecomputeAvailableIdentity checks availableCapital = adjustedCapital −
// allocatedCapital as an algebraic identity over a mixed portfolio.
func TestRecomputeAvailableIdentity(t *testing.T) {
	positions := []model.Position{
		{Segment: model.SegmentEquity, Status: model.StatusActive, Quantity: 10, EntryPrice: d(2520.75), CurrentPrice: d(2545.30), TotalCapitalRequired: d(25207.50)},
		{Segment: model.SegmentEquity, Status: model.StatusClosed, Quantity: 47, EntryPrice: d(1580), ExitPrice: d(1650)},
		{Segment: model.SegmentFNO, TotalCapitalRequired: d(100000), Legs: []model.Leg{
			{Action: model.ActionBuy, EntryPrice: d(22850), CurrentPrice: d(22950), LotSize: 50, Quantity: 1},
		}},
	}

	s := Recompute(d(1000000), positions)
	want := s.AdjustedCapital.Sub(s.AllocatedCapital)
	if !s.AvailableCapital.Equal(want) {
		t.Errorf("availableCapital identity: got %s, want %s", s.AvailableCapital, want)
	}
}
