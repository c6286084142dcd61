package validate

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/g7food/client/internal/apperr"
)

// FieldAmount is the form field amount errors are attached to.
const FieldAmount = "amount"

func amountErr(msg string) *apperr.AppError {
	return apperr.InvalidErr(msg, map[string]string{FieldAmount: msg})
}

// ParseAmount parses user input as a positive, finite amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, amountErr(MsgInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, amountErr(MsgInvalidAmount)
	}
	return d, nil
}

// DepositAmount checks a wallet top-up against [DepositMin, DepositMax].
func DepositAmount(d decimal.Decimal) error {
	switch {
	case !d.IsPositive():
		return amountErr(MsgInvalidAmount)
	case d.LessThan(DepositMin):
		return amountErr(MsgDepositMinimum)
	case d.GreaterThan(DepositMax):
		return amountErr(MsgDepositMaximum)
	}
	return nil
}

// CryptoPurchaseAmount checks a crypto purchase against [PurchaseMin, balance].
func CryptoPurchaseAmount(d, balance decimal.Decimal) error {
	switch {
	case !d.IsPositive():
		return amountErr(MsgInvalidAmount)
	case d.LessThan(PurchaseMin):
		return amountErr(MsgPurchaseMinimum)
	case d.GreaterThan(balance):
		return amountErr(MsgInsufficientFunds)
	}
	return nil
}
