package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultUnitCost is the per-unit capital fallback when a strategy carries
// neither a current nor an entry price.
var DefaultUnitCost = decimal.NewFromInt(1000)

// Target is a price objective attached to a strategy. Level is a string
// because option strategies use labels like "Max Profit" instead of a price.
type Target struct {
	Level       string          `json:"level"`
	Profit      decimal.Decimal `json:"profit"`
	Probability int             `json:"probability"`
}

// Strategy is one entry in the advisory catalog: a ready-made trade idea the
// user can add to the portfolio.
type Strategy struct {
	ID            string    `json:"id"`
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	StrategyName  string    `json:"strategy"`
	Segment       Segment   `json:"segment"`
	StrategyType  string    `json:"strategyType,omitempty"` // Futures, Options, Hybrid
	Confidence    int       `json:"confidence"`
	RiskLevel     RiskLevel `json:"riskLevel"`
	ExpectedRet   float64   `json:"expectedReturn"`
	RiskReward    string    `json:"riskReward"`
	HoldingPeriod string    `json:"holdingPeriod"`
	EntryType     string    `json:"entryType"` // market, limit
	Reasoning     string    `json:"reasoning"`
	Indicators    []string  `json:"technicalIndicators,omitempty"`
	Sector        string    `json:"sector,omitempty"`
	MarketCap     string    `json:"marketCap,omitempty"`
	Expiry        string    `json:"expiry,omitempty"`
	Status        Status    `json:"status"`

	CapitalRequired decimal.Decimal `json:"capitalRequired"` // per lot for F&O
	EntryPrice      decimal.Decimal `json:"entryPrice,omitempty"`
	CurrentPrice    decimal.Decimal `json:"currentPrice,omitempty"`
	TargetPrice     decimal.Decimal `json:"targetPrice,omitempty"`
	StopLoss        decimal.Decimal `json:"stopLoss,omitempty"`
	MaxProfit       decimal.Decimal `json:"maxProfit"`
	MaxLoss         decimal.Decimal `json:"maxLoss"`

	Legs    []Leg    `json:"legs,omitempty"`
	Targets []Target `json:"targets,omitempty"`
}

// PerUnitCost returns the capital needed for one unit: the current price for
// an equity share (entry price, then DefaultUnitCost as fallbacks), or the
// strategy's capital-required-per-lot for F&O.
func (s *Strategy) PerUnitCost() decimal.Decimal {
	if s.Segment == SegmentEquity {
		if !s.CurrentPrice.IsZero() {
			return s.CurrentPrice
		}
		if !s.EntryPrice.IsZero() {
			return s.EntryPrice
		}
		return DefaultUnitCost
	}
	if !s.CapitalRequired.IsZero() {
		return s.CapitalRequired
	}
	return DefaultUnitCost
}

// EntryBasis returns the price recorded as a new position's entry. Equity
// enters at the current market price; F&O enters at the strategy's reference
// entry price since its legs carry their own entries.
func (s *Strategy) EntryBasis() decimal.Decimal {
	if s.Segment == SegmentEquity {
		return s.PerUnitCost()
	}
	if !s.EntryPrice.IsZero() {
		return s.EntryPrice
	}
	if !s.CurrentPrice.IsZero() {
		return s.CurrentPrice
	}
	return DefaultUnitCost
}

// SegmentInfo describes a selectable trading segment.
type SegmentInfo struct {
	ID          Segment `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
}

// Quote is a point-in-time mock price for a symbol.
type Quote struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"changePercent"`
	Timestamp     time.Time       `json:"timestamp"`
}

// IndexQuote is one market-overview index row.
type IndexQuote struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"changePercent"`
}

// MarketOverview is the dashboard's index/VIX snapshot.
type MarketOverview struct {
	Indices      []IndexQuote `json:"indices"`
	VIX          float64      `json:"vix"`
	MarketStatus string       `json:"marketStatus"`
}

// RiskAnalysis is a jittered mock risk report for a strategy.
type RiskAnalysis struct {
	StrategyID          string   `json:"strategyId"`
	RiskScore           int      `json:"riskScore"`
	MaxLoss             int64    `json:"maxLoss"`
	ProbabilityOfProfit int      `json:"probabilityOfProfit"`
	VaR95               int64    `json:"var95"`
	SharpeRatio         string   `json:"sharpeRatio"`
	Recommendations     []string `json:"recommendations"`
}
