package portfolio

import (
	"github.com/shopspring/decimal"

	"papertradev1/internal/model"
)

// Risk-to-allocation table. Fixed at compile time, not configurable.
var allocationTable = map[model.RiskLevel]decimal.Decimal{
	model.RiskVeryLow:  decimal.NewFromFloat(0.50),
	model.RiskLow:      decimal.NewFromFloat(0.25),
	model.RiskMid:      decimal.NewFromFloat(0.15),
	model.RiskHigh:     decimal.NewFromFloat(0.10),
	model.RiskVeryHigh: decimal.NewFromFloat(0.05),
}

// AllocationPct returns the fraction of available capital a risk level may
// consume. Unknown or missing levels fall back to the MID allocation.
func AllocationPct(level model.RiskLevel) decimal.Decimal {
	if pct, ok := allocationTable[level]; ok {
		return pct
	}
	return allocationTable[model.RiskMid]
}

// SizeAdvice is the advisor's quantity recommendation for one strategy.
type SizeAdvice struct {
	SuggestedQuantity int64           `json:"suggestedQuantity"`
	MaxQuantity       int64           `json:"maxQuantity"`
	AllocationPct     decimal.Decimal `json:"allocationPct"`
	CapitalPerUnit    decimal.Decimal `json:"capitalPerUnit"`
}

// SuggestQuantity maps available capital and a per-unit cost to a suggested
// and maximum quantity for the given risk level.
//
// Both quantities are clamped to [1, maxQuantity]: the advisor never returns
// zero or negative, even when available capital is itself zero or negative.
// Oversubscription is therefore possible by design; rejecting it is the
// caller's product decision, not the advisor's.
func SuggestQuantity(availableCapital, perUnitCost decimal.Decimal, level model.RiskLevel) SizeAdvice {
	if !perUnitCost.IsPositive() {
		perUnitCost = model.DefaultUnitCost
	}

	maxQty := availableCapital.Div(perUnitCost).IntPart()
	if maxQty < 1 {
		maxQty = 1
	}

	pct := AllocationPct(level)
	suggested := availableCapital.Mul(pct).Div(perUnitCost).IntPart()
	if suggested > maxQty {
		suggested = maxQty
	}
	if suggested < 1 {
		suggested = 1
	}

	return SizeAdvice{
		SuggestedQuantity: suggested,
		MaxQuantity:       maxQty,
		AllocationPct:     pct,
		CapitalPerUnit:    perUnitCost,
	}
}
