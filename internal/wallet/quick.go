package wallet

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/g7food/client/internal/domain"
)

// Preset amounts offered by the deposit and purchase forms.
var (
	depositPresets      = []int64{500, 1000, 2000, 5000, 10000}
	PurchasePercentages = []int{25, 50, 75, 100}
)

// DepositQuickAmounts returns the one-tap deposit amounts.
func DepositQuickAmounts() []decimal.Decimal {
	return lo.Map(depositPresets, func(v int64, _ int) decimal.Decimal {
		return decimal.NewFromInt(v)
	})
}

// PercentOfBalance returns pct percent of the fiat balance rounded to whole pesos.
func PercentOfBalance(snap domain.WalletSnapshot, pct int) decimal.Decimal {
	return domain.PercentOf(snap.BalanceFiat, pct)
}
