package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Balances are in Argentine pesos and are shown the way the wallet screen does.
var fiatPrinter = message.NewPrinter(language.MustParse("es-AR"))

// FormatFiat renders a peso amount with two decimals and es-AR separators, e.g. "$ 1.234.567,50".
func FormatFiat(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return fiatPrinter.Sprintf("$ %v", number.Decimal(f, number.Scale(2)))
}

// FormatSignedFiat prefixes FormatFiat with the direction of a transaction.
func FormatSignedFiat(t Transaction) string {
	if t.Type.IsCredit() {
		return "+" + FormatFiat(t.Amount)
	}
	return "-" + FormatFiat(t.Amount)
}
