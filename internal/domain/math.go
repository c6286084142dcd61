package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CryptoPrecision is the number of decimal places shown for crypto amounts.
const CryptoPrecision = 4

// SafeParse parses a string into a decimal, returning zero for invalid or empty input.
func SafeParse(value string) decimal.Decimal {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// MulQty multiplies a unit price by an integer quantity.
func MulQty(price decimal.Decimal, qty int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(qty)))
}

// DivideCrypto divides a fiat amount by a unit price, rounded to CryptoPrecision.
// Returns zero for division by zero or a non-positive price.
func DivideCrypto(fiat, unitPrice decimal.Decimal) decimal.Decimal {
	if !unitPrice.IsPositive() {
		return decimal.Zero
	}
	return fiat.DivRound(unitPrice, CryptoPrecision)
}

// FormatCrypto renders a crypto amount with exactly CryptoPrecision decimals.
func FormatCrypto(d decimal.Decimal) string {
	return d.StringFixed(CryptoPrecision)
}

// PercentOf returns pct percent of amount rounded to whole units.
func PercentOf(amount decimal.Decimal, pct int) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(int64(pct))).Div(decimal.NewFromInt(100)).Round(0)
}
