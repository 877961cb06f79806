package portfolio

import (
	"github.com/shopspring/decimal"

	"papertradev1/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Summary is the capital ledger's derived view of the portfolio. It is
// never stored; every field is recomputed from scratch on each call.
type Summary struct {
	BaseCapital      decimal.Decimal `json:"baseCapital"`
	BookedPnL        decimal.Decimal `json:"bookedPnL"`
	ActivePnL        decimal.Decimal `json:"activePnL"`
	AdjustedCapital  decimal.Decimal `json:"adjustedCapital"`
	AllocatedCapital decimal.Decimal `json:"allocatedCapital"`
	AvailableCapital decimal.Decimal `json:"availableCapital"`
	UtilizationPct   decimal.Decimal `json:"utilizationPct"`
	OverallROI       decimal.Decimal `json:"overallROI"`
	OpenPositions    int             `json:"openPositions"`
	ClosedPositions  int             `json:"closedPositions"`
}

// Recompute derives the full capital ledger from the base capital and the
// position collection.
//
//	adjustedCapital  = baseCapital + Σ booked P&L over closed positions
//	allocatedCapital = Σ totalCapitalRequired over active positions
//	availableCapital = adjustedCapital − allocatedCapital
//
// Utilization is 0 when adjusted capital is non-positive and ROI is 0 when
// base capital is zero, so a fresh or wiped-out account never produces
// NaN/Infinity artifacts.
func Recompute(baseCapital decimal.Decimal, positions []model.Position) Summary {
	s := Summary{BaseCapital: baseCapital}

	for i := range positions {
		p := &positions[i]
		if p.IsActive() {
			s.OpenPositions++
			s.ActivePnL = s.ActivePnL.Add(ComputeActivePnL(p))
			s.AllocatedCapital = s.AllocatedCapital.Add(p.TotalCapitalRequired)
		} else {
			s.ClosedPositions++
			s.BookedPnL = s.BookedPnL.Add(ComputePnL(p))
		}
	}

	s.AdjustedCapital = baseCapital.Add(s.BookedPnL)
	s.AvailableCapital = s.AdjustedCapital.Sub(s.AllocatedCapital)

	if s.AdjustedCapital.IsPositive() {
		s.UtilizationPct = s.AllocatedCapital.Div(s.AdjustedCapital).Mul(hundred)
	}
	if !baseCapital.IsZero() {
		s.OverallROI = s.BookedPnL.Add(s.ActivePnL).Div(baseCapital).Mul(hundred)
	}
	return s
}
