// Package validate holds the input checks run before any backend call.
package validate

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// PasswordSymbols is the set of symbols accepted by the password rules.
const PasswordSymbols = "@$!%*?&"

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Password rule messages, in evaluation order.
const (
	MsgPasswordRequired  = "Password is required"
	MsgPasswordTooShort  = "Password must be at least 8 characters long"
	MsgPasswordUpper     = "Password must contain at least one uppercase letter"
	MsgPasswordLower     = "Password must contain at least one lowercase letter"
	MsgPasswordDigit     = "Password must contain at least one number"
	MsgPasswordSymbol    = "Password must contain at least one special character (" + PasswordSymbols + ")"
	MsgInvalidEmail      = "Please enter a valid email"
	MsgInvalidAmount     = "Please enter a valid amount"
	MsgDepositMinimum    = "The minimum amount is $100"
	MsgDepositMaximum    = "The maximum amount is $50,000"
	MsgPurchaseMinimum   = "The minimum amount to buy crypto is $100"
	MsgInsufficientFunds = "Insufficient balance"
)

// Email reports whether s looks like name@domain.tld.
func Email(s string) bool {
	return emailRe.MatchString(s)
}

type passwordRule struct {
	msg string
	ok  func(string) bool
}

var passwordRules = []passwordRule{
	{MsgPasswordTooShort, func(s string) bool { return len([]rune(s)) >= MinPasswordLength }},
	{MsgPasswordUpper, func(s string) bool { return strings.IndexFunc(s, isASCIIUpper) >= 0 }},
	{MsgPasswordLower, func(s string) bool { return strings.IndexFunc(s, isASCIILower) >= 0 }},
	{MsgPasswordDigit, func(s string) bool { return strings.IndexFunc(s, isASCIIDigit) >= 0 }},
	{MsgPasswordSymbol, func(s string) bool { return strings.ContainsAny(s, PasswordSymbols) }},
}

func isASCIIUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isASCIILower(r rune) bool { return r >= 'a' && r <= 'z' }
func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }

// PasswordProblem returns the first unmet password rule, or "" if s is acceptable.
func PasswordProblem(s string) string {
	if s == "" {
		return MsgPasswordRequired
	}
	for _, r := range passwordRules {
		if !r.ok(s) {
			return r.msg
		}
	}
	return ""
}

// Amount bounds in pesos.
var (
	DepositMin  = decimal.NewFromInt(100)
	DepositMax  = decimal.NewFromInt(50000)
	PurchaseMin = decimal.NewFromInt(100)
)
