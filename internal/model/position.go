// Package model defines the core domain types for the paper trading desk:
// positions, legs, strategies, and the port interfaces that decouple the
// accounting core from storage and messaging.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Segment is the top-level trading category.
type Segment string

const (
	SegmentEquity Segment = "equity"
	SegmentFNO    Segment = "fno"
)

// Status is the position lifecycle state. The transition active → closed is
// one-way; records persisted without a status are treated as active.
type Status string

const (
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

// Action is the direction of a single F&O leg.
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
)

// RiskLevel is the qualitative risk taxonomy used for position sizing.
type RiskLevel string

const (
	RiskVeryLow  RiskLevel = "VERY_LOW"
	RiskLow      RiskLevel = "LOW"
	RiskMid      RiskLevel = "MID"
	RiskHigh     RiskLevel = "HIGH"
	RiskVeryHigh RiskLevel = "VERY_HIGH"
)

// Leg is one constituent order of a multi-leg F&O strategy.
type Leg struct {
	ID           string          `json:"id,omitempty"`
	Action       Action          `json:"action"`
	Type         string          `json:"type,omitempty"` // futures, options
	Symbol       string          `json:"symbol,omitempty"`
	Quantity     int64           `json:"quantity"` // number of lots
	EntryPrice   decimal.Decimal `json:"entryPrice"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	ExitPrice    decimal.Decimal `json:"exitPrice,omitempty"`
	LotSize      int64           `json:"lotSize"` // contract multiplier
}

// EffectiveCurrentPrice resolves the mark price: currentPrice, falling back
// to entryPrice when the feed never supplied one.
func (l *Leg) EffectiveCurrentPrice() decimal.Decimal {
	if !l.CurrentPrice.IsZero() {
		return l.CurrentPrice
	}
	return l.EntryPrice
}

// EffectiveExitPrice resolves the exit basis: exitPrice → currentPrice →
// entryPrice.
func (l *Leg) EffectiveExitPrice() decimal.Decimal {
	if !l.ExitPrice.IsZero() {
		return l.ExitPrice
	}
	return l.EffectiveCurrentPrice()
}

// EffectiveLotSize returns the contract multiplier, defaulting to 1 when the
// record was persisted without one.
func (l *Leg) EffectiveLotSize() int64 {
	if l.LotSize > 0 {
		return l.LotSize
	}
	return 1
}

// EffectiveQuantity returns the lot count, defaulting to 1.
func (l *Leg) EffectiveQuantity() int64 {
	if l.Quantity > 0 {
		return l.Quantity
	}
	return 1
}

// Position is a single entry in the user's paper portfolio. JSON field names
// match the persisted userPortfolio document.
type Position struct {
	ID           string    `json:"id"`
	Symbol       string    `json:"symbol"`
	Name         string    `json:"name"`
	StrategyName string    `json:"strategy"`
	Segment      Segment   `json:"segment"`
	Status       Status    `json:"status,omitempty"`
	Quantity     int64     `json:"quantity"` // shares (equity) or lot multiplier (F&O)
	RiskLevel    RiskLevel `json:"riskLevel,omitempty"`
	Confidence   int       `json:"confidence,omitempty"`
	Reasoning    string    `json:"reasoning,omitempty"`

	EntryPrice           decimal.Decimal `json:"entryPrice"`
	CurrentPrice         decimal.Decimal `json:"currentPrice"`
	ExitPrice            decimal.Decimal `json:"exitPrice,omitempty"`
	TotalCapitalRequired decimal.Decimal `json:"totalCapitalRequired"` // fixed at add-time

	Legs []Leg `json:"legs,omitempty"`

	AddedAt  time.Time `json:"addedAt"`
	ClosedAt time.Time `json:"closedAt,omitempty"`
}

// IsActive reports whether the position still allocates capital. Legacy
// records without a status are active.
func (p *Position) IsActive() bool {
	return p.Status != StatusClosed
}

// EffectiveCurrentPrice resolves the position-level mark price, falling back
// to the entry price.
func (p *Position) EffectiveCurrentPrice() decimal.Decimal {
	if !p.CurrentPrice.IsZero() {
		return p.CurrentPrice
	}
	return p.EntryPrice
}

// EffectiveExitPrice resolves the exit basis: exitPrice → currentPrice →
// entryPrice.
func (p *Position) EffectiveExitPrice() decimal.Decimal {
	if !p.ExitPrice.IsZero() {
		return p.ExitPrice
	}
	return p.EffectiveCurrentPrice()
}
