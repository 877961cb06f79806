// Package portfolio implements the paper trading accounting core: the P&L
// calculator, the capital ledger, and the position sizing advisor.
//
// Everything here is a pure function over (baseCapital, positions). Callers
// re-derive all aggregates from the authoritative position collection on
// every read; nothing is incrementally patched, so repeated calls can never
// accumulate drift.
package portfolio

import (
	"github.com/shopspring/decimal"

	"papertradev1/internal/model"
)

// legPnL computes one leg's P&L marked at price. A SELL leg is a short: its
// sign is flipped.
func legPnL(l *model.Leg, price decimal.Decimal) decimal.Decimal {
	mult := decimal.NewFromInt(l.EffectiveLotSize() * l.EffectiveQuantity())
	pnl := price.Sub(l.EntryPrice).Mul(mult)
	if l.Action == model.ActionSell {
		return pnl.Neg()
	}
	return pnl
}

// ComputeActivePnL returns the mark-to-market (unrealized) P&L of a
// position at its latest current prices.
//
// Equity: (current − entry) · quantity. F&O: sum over legs of
// (legCurrent − legEntry) · lotSize · legQuantity, sign-flipped on SELL
// legs. An F&O position without legs has no P&L.
func ComputeActivePnL(p *model.Position) decimal.Decimal {
	switch p.Segment {
	case model.SegmentEquity:
		qty := decimal.NewFromInt(p.Quantity)
		return p.EffectiveCurrentPrice().Sub(p.EntryPrice).Mul(qty)
	case model.SegmentFNO:
		total := decimal.Zero
		for i := range p.Legs {
			leg := &p.Legs[i]
			total = total.Add(legPnL(leg, leg.EffectiveCurrentPrice()))
		}
		return total
	}
	return decimal.Zero
}

// ComputePnL returns the realized (booked) P&L of a position. Active
// positions contribute zero: booked and active P&L are mutually exclusive,
// a position is never counted in both.
//
// The exit basis follows the fallback chain exitPrice → currentPrice →
// entryPrice, per position for equity and per leg for F&O.
func ComputePnL(p *model.Position) decimal.Decimal {
	if p.Status != model.StatusClosed {
		return decimal.Zero
	}
	switch p.Segment {
	case model.SegmentEquity:
		qty := decimal.NewFromInt(p.Quantity)
		return p.EffectiveExitPrice().Sub(p.EntryPrice).Mul(qty)
	case model.SegmentFNO:
		total := decimal.Zero
		for i := range p.Legs {
			leg := &p.Legs[i]
			total = total.Add(legPnL(leg, leg.EffectiveExitPrice()))
		}
		return total
	}
	return decimal.Zero
}
