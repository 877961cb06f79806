// Package catalog serves the advisory data the dashboard browses: trading
// segments, ready-made strategies per segment, base prices for the mock
// feed, and the market overview. All data is canned; there is no upstream
// advisory service behind it.
package catalog

import (
	"fmt"
	"math/rand"

	"github.com/shopspring/decimal"

	"papertradev1/internal/markethours"
	"papertradev1/internal/model"
)

// Catalog is an immutable in-memory strategy catalog.
type Catalog struct {
	segments   []model.SegmentInfo
	strategies map[model.Segment][]model.Strategy
	basePrices map[string]decimal.Decimal
}

// New builds the catalog with the built-in fixture set.
func New() *Catalog {
	return &Catalog{
		segments: []model.SegmentInfo{
			{ID: model.SegmentEquity, Name: "Equity", Description: "Direct equity investments"},
			{ID: model.SegmentFNO, Name: "F&O", Description: "Futures & Options trading"},
		},
		strategies: map[model.Segment][]model.Strategy{
			model.SegmentEquity: equityStrategies(),
			model.SegmentFNO:    fnoStrategies(),
		},
		basePrices: map[string]decimal.Decimal{
			"RELIANCE":  d(2520.75),
			"INFY":      d(1580.00),
			"NIFTY50":   d(22850.00),
			"NIFTY":     d(22850.00),
			"BANKNIFTY": d(48520.00),
			"GOLD":      d(62500.00),
			"CRUDE":     d(5200.00),
		},
	}
}

// Segments returns the selectable trading segments.
func (c *Catalog) Segments() []model.SegmentInfo {
	return c.segments
}

// Strategies returns the strategies for one segment. Unknown segments yield
// an empty list.
func (c *Catalog) Strategies(seg model.Segment) []model.Strategy {
	return c.strategies[seg]
}

// Strategy looks a strategy up by ID across all segments.
func (c *Catalog) Strategy(id string) (model.Strategy, bool) {
	for _, list := range c.strategies {
		for _, s := range list {
			if s.ID == id {
				return s, true
			}
		}
	}
	return model.Strategy{}, false
}

// BasePrice returns the reference price the mock feed jitters around.
// Unknown symbols get a flat 1000.
func (c *Catalog) BasePrice(symbol string) decimal.Decimal {
	if p, ok := c.basePrices[symbol]; ok {
		return p
	}
	return model.DefaultUnitCost
}

// Symbols returns every symbol with a base price, for the feed to poll.
func (c *Catalog) Symbols() []string {
	syms := make([]string, 0, len(c.basePrices))
	for s := range c.basePrices {
		syms = append(syms, s)
	}
	return syms
}

// MarketOverview returns the dashboard's index snapshot with the current
// session status.
func (c *Catalog) MarketOverview() model.MarketOverview {
	return model.MarketOverview{
		Indices: []model.IndexQuote{
			{Symbol: "NIFTY50", Price: d(22850.25), Change: d(125.50), ChangePercent: d(0.55)},
			{Symbol: "BANKNIFTY", Price: d(48520.75), Change: d(-85.25), ChangePercent: d(-0.18)},
			{Symbol: "SENSEX", Price: d(75250.30), Change: d(245.80), ChangePercent: d(0.33)},
		},
		VIX:          18.5,
		MarketStatus: markethours.StatusString(markethours.Now()),
	}
}

// RiskAnalysis returns a jittered mock risk report for a strategy.
func (c *Catalog) RiskAnalysis(strategyID string) model.RiskAnalysis {
	return model.RiskAnalysis{
		StrategyID:          strategyID,
		RiskScore:           rand.Intn(40) + 30,
		MaxLoss:             int64(rand.Intn(10000) + 5000),
		ProbabilityOfProfit: rand.Intn(30) + 60,
		VaR95:               int64(rand.Intn(5000) + 2000),
		SharpeRatio:         fmt.Sprintf("%.2f", rand.Float64()*2+0.5),
		Recommendations: []string{
			"Consider position sizing based on risk tolerance",
			"Monitor stop-loss levels closely",
			"Review strategy performance regularly",
		},
	}
}

func d(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func equityStrategies() []model.Strategy {
	return []model.Strategy{
		{
			ID: "eq_1", Symbol: "RELIANCE", Name: "Reliance Industries Ltd",
			StrategyName: "Momentum Breakout", Segment: model.SegmentEquity,
			Confidence: 85, RiskLevel: model.RiskMid,
			CapitalRequired: d(50000), ExpectedRet: 12.5, RiskReward: "1:2.5",
			MaxProfit: d(129250), MaxLoss: d(70725),
			HoldingPeriod: "7-10 days", EntryType: "market",
			EntryPrice: d(2520.75), CurrentPrice: d(2545.30),
			TargetPrice: d(2700), StopLoss: d(2400),
			Reasoning:  "Strong quarterly results, technical breakout above resistance level",
			Indicators: []string{"RSI: 65", "MACD: Bullish", "Volume: High"},
			MarketCap:  "Large Cap", Sector: "Oil & Gas", Status: model.StatusActive,
			Targets: []model.Target{
				{Level: "2700", Profit: d(129250), Probability: 75},
				{Level: "2750", Profit: d(179250), Probability: 60},
			},
		},
		{
			ID: "eq_2", Symbol: "INFY", Name: "Infosys Ltd",
			StrategyName: "Value Buy", Segment: model.SegmentEquity,
			Confidence: 78, RiskLevel: model.RiskLow,
			CapitalRequired: d(75000), ExpectedRet: 8.5, RiskReward: "1:3",
			MaxProfit: d(125000), MaxLoss: d(50000),
			HoldingPeriod: "15-20 days", EntryType: "limit",
			EntryPrice: d(1580), CurrentPrice: d(1650),
			TargetPrice: d(1680), StopLoss: d(1500),
			Reasoning:  "Undervalued with strong fundamentals, good dividend yield",
			Indicators: []string{"RSI: 45", "P/E: 18.5", "Volume: Moderate"},
			MarketCap:  "Large Cap", Sector: "IT Services", Status: model.StatusActive,
			Targets: []model.Target{
				{Level: "1680", Profit: d(5000), Probability: 80},
			},
		},
	}
}

func fnoStrategies() []model.Strategy {
	return []model.Strategy{
		{
			ID: "ft_1", Symbol: "NIFTY50", Name: "Nifty 50 Future",
			StrategyName: "Trend Following", Segment: model.SegmentFNO, StrategyType: "Futures",
			Confidence: 82, RiskLevel: model.RiskHigh,
			CapitalRequired: d(100000), ExpectedRet: 15.0, RiskReward: "1:1.5",
			MaxProfit: d(325000), MaxLoss: d(225000),
			HoldingPeriod: "3-5 days", EntryType: "market",
			EntryPrice:  d(22850),
			TargetPrice: d(23500), StopLoss: d(22400), Expiry: "2024-01-25",
			Reasoning:  "Strong uptrend with increasing volume, momentum indicators bullish",
			Indicators: []string{"Moving Average: Bullish", "Volume: Rising", "Momentum: Strong"},
			Status:     model.StatusActive,
			Legs: []model.Leg{
				{ID: "ft_1_leg_1", Action: model.ActionBuy, Type: "futures", Symbol: "NIFTY50-JAN",
					Quantity: 1, EntryPrice: d(22850), CurrentPrice: d(22950), LotSize: 50},
			},
			Targets: []model.Target{
				{Level: "23500", Profit: d(325000), Probability: 70},
				{Level: "23800", Profit: d(475000), Probability: 50},
			},
		},
		{
			ID: "ft_2", Symbol: "BANKNIFTY", Name: "Bank Nifty Future",
			StrategyName: "Mean Reversion", Segment: model.SegmentFNO, StrategyType: "Futures",
			Confidence: 75, RiskLevel: model.RiskMid,
			CapitalRequired: d(80000), ExpectedRet: 10.5, RiskReward: "1:1.2",
			MaxProfit: d(175000), MaxLoss: d(150000),
			HoldingPeriod: "2-3 days", EntryType: "limit",
			EntryPrice:  d(48500),
			TargetPrice: d(49200), StopLoss: d(47800), Expiry: "2024-01-25",
			Reasoning:  "Oversold condition, approaching support level",
			Indicators: []string{"RSI: 35", "Support: Strong", "Volume: Low"},
			Status:     model.StatusActive,
			Legs: []model.Leg{
				{ID: "ft_2_leg_1", Action: model.ActionSell, Type: "futures", Symbol: "BANKNIFTY-JAN",
					Quantity: 1, EntryPrice: d(48500), CurrentPrice: d(48650), LotSize: 25},
			},
			Targets: []model.Target{
				{Level: "49200", Profit: d(175000), Probability: 65},
			},
		},
		{
			ID: "opt_1", Symbol: "NIFTY", Name: "Nifty Bull Call Spread",
			StrategyName: "Bull Call Spread", Segment: model.SegmentFNO, StrategyType: "Options",
			Confidence: 88, RiskLevel: model.RiskMid,
			CapitalRequired: d(25000), ExpectedRet: 25.0, RiskReward: "1:3",
			MaxProfit: d(5000), MaxLoss: d(20000),
			HoldingPeriod: "5-7 days", EntryType: "market", Expiry: "2024-01-25",
			Reasoning:  "Strong bullish momentum with high volatility",
			Indicators: []string{"IV: High", "Delta: 0.65", "Theta: -2.5"},
			Status:     model.StatusActive,
			Legs: []model.Leg{
				{ID: "opt_1_leg_1", Action: model.ActionBuy, Type: "options", Symbol: "NIFTY50-CALL-23000",
					Quantity: 1, EntryPrice: d(180.50), CurrentPrice: d(195), LotSize: 50},
				{ID: "opt_1_leg_2", Action: model.ActionSell, Type: "options", Symbol: "NIFTY50-CALL-23200",
					Quantity: 1, EntryPrice: d(120), CurrentPrice: d(135), LotSize: 50},
			},
			Targets: []model.Target{
				{Level: "Max Profit", Profit: d(5000), Probability: 65},
			},
		},
		{
			ID: "opt_2", Symbol: "BANKNIFTY", Name: "Bank Nifty Protective Put",
			StrategyName: "Protective Put", Segment: model.SegmentFNO, StrategyType: "Options",
			Confidence: 72, RiskLevel: model.RiskVeryLow,
			CapitalRequired: d(15000), ExpectedRet: 18.5, RiskReward: "1:2",
			MaxProfit: d(3000), MaxLoss: d(15000),
			HoldingPeriod: "3-5 days", EntryType: "limit", Expiry: "2024-01-25",
			Reasoning:  "Hedge against market volatility, defensive play",
			Indicators: []string{"IV: Moderate", "Delta: -0.45", "Theta: -1.8"},
			Status:     model.StatusActive,
			Legs: []model.Leg{
				{ID: "opt_2_leg_1", Action: model.ActionBuy, Type: "options", Symbol: "BANKNIFTY-PUT-48500",
					Quantity: 1, EntryPrice: d(95), CurrentPrice: d(105), LotSize: 25},
			},
			Targets: []model.Target{
				{Level: "140", Profit: d(3000), Probability: 60},
			},
		},
		{
			ID: "ft_3", Symbol: "NIFTY50", Name: "Nifty Calendar Spread",
			StrategyName: "Calendar Spread", Segment: model.SegmentFNO, StrategyType: "Futures",
			Confidence: 88, RiskLevel: model.RiskLow,
			CapitalRequired: d(50000), ExpectedRet: 8.0, RiskReward: "1:3",
			MaxProfit: d(50000), MaxLoss: d(25000),
			HoldingPeriod: "10-15 days", EntryType: "limit",
			TargetPrice: d(23200), StopLoss: d(22700), Expiry: "2024-01-25",
			Reasoning:  "Time decay strategy, selling near month, buying far month",
			Indicators: []string{"Theta: High", "Volatility: Moderate", "Time Decay: Favorable"},
			Status:     model.StatusActive,
			Legs: []model.Leg{
				{ID: "ft_3_leg_1", Action: model.ActionBuy, Type: "futures", Symbol: "NIFTY50-FEB",
					Quantity: 1, EntryPrice: d(23100), CurrentPrice: d(23150), LotSize: 50},
				{ID: "ft_3_leg_2", Action: model.ActionSell, Type: "futures", Symbol: "NIFTY50-JAN",
					Quantity: 1, EntryPrice: d(22900), CurrentPrice: d(22950), LotSize: 50},
			},
			Targets: []model.Target{
				{Level: "23200", Profit: d(50000), Probability: 80},
			},
		},
		{
			ID: "hybrid_1", Symbol: "NIFTY50", Name: "Nifty Protective Put Strategy",
			StrategyName: "Protective Put with Futures", Segment: model.SegmentFNO, StrategyType: "Hybrid",
			Confidence: 92, RiskLevel: model.RiskVeryHigh,
			CapitalRequired: d(75000), ExpectedRet: 12.0, RiskReward: "1:2.5",
			MaxProfit: d(87500), MaxLoss: d(25000),
			HoldingPeriod: "7-10 days", EntryType: "limit",
			TargetPrice: d(23500), StopLoss: d(22500), Expiry: "2024-01-25",
			Reasoning:  "Long futures with protective put hedge, limited downside risk",
			Indicators: []string{"Trend: Bullish", "Volatility: Moderate", "Support: Strong"},
			Status:     model.StatusActive,
			Legs: []model.Leg{
				{ID: "hybrid_1_leg_1", Action: model.ActionBuy, Type: "futures", Symbol: "NIFTY50-FEB",
					Quantity: 1, EntryPrice: d(23100), CurrentPrice: d(23150), LotSize: 50},
				{ID: "hybrid_1_leg_2", Action: model.ActionBuy, Type: "options", Symbol: "NIFTY50-PUT-23000",
					Quantity: 1, EntryPrice: d(120), CurrentPrice: d(95), LotSize: 50},
			},
			Targets: []model.Target{
				{Level: "23500", Profit: d(87500), Probability: 75},
			},
		},
	}
}
