// Package money formats rupee amounts for display surfaces (CLI output,
// log lines). Accounting math stays in decimals; this is presentation only.
package money

import (
	money "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var paise = decimal.NewFromInt(100)

// INR renders a decimal rupee amount as a localized currency string,
// e.g. "₹1,000,000.00". Amounts round to the paisa.
func INR(amount decimal.Decimal) string {
	minor := amount.Mul(paise).Round(0).IntPart()
	return money.New(minor, money.INR).Display()
}

// Signed renders an amount with an explicit sign so P&L columns line up:
// "+₹547.00" for gains, the currency's own minus for losses.
func Signed(amount decimal.Decimal) string {
	s := INR(amount)
	if amount.IsPositive() {
		return "+" + s
	}
	return s
}
