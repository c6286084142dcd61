package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the kind of money movement recorded by the backend.
type TransactionType string

const (
	TransactionDeposit      TransactionType = "DEPOSIT"
	TransactionCryptoBuy    TransactionType = "CRYPTO_BUY"
	TransactionCryptoSell   TransactionType = "CRYPTO_SELL"
	TransactionOrderPayment TransactionType = "ORDER_PAYMENT"
	TransactionUnknown      TransactionType = "UNKNOWN"
)

// TransactionStatus is the backend-owned lifecycle state of a transaction.
type TransactionStatus string

const (
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusPending   TransactionStatus = "PENDING"
	StatusFailed    TransactionStatus = "FAILED"
	StatusCancelled TransactionStatus = "CANCELLED"
	StatusUnknown   TransactionStatus = "UNKNOWN"
)

// Wire values used by the backend API.
var (
	wireTransactionTypes = map[string]TransactionType{
		"CARGA_SALDO":   TransactionDeposit,
		"COMPRA_CRYPTO": TransactionCryptoBuy,
		"VENTA_CRYPTO":  TransactionCryptoSell,
		"PAGO_PEDIDO":   TransactionOrderPayment,
	}
	wireTransactionStatuses = map[string]TransactionStatus{
		"COMPLETADA": StatusCompleted,
		"PENDIENTE":  StatusPending,
		"FALLIDA":    StatusFailed,
		"CANCELADA":  StatusCancelled,
	}
)

// ParseTransactionType maps a backend "tipo" value. Unknown values map to TransactionUnknown.
func ParseTransactionType(wire string) TransactionType {
	if t, ok := wireTransactionTypes[wire]; ok {
		return t
	}
	return TransactionUnknown
}

// ParseTransactionStatus maps a backend "estado" value. Unknown values map to StatusUnknown.
func ParseTransactionStatus(wire string) TransactionStatus {
	if s, ok := wireTransactionStatuses[wire]; ok {
		return s
	}
	return StatusUnknown
}

// IsCredit reports whether transactions of this type add fiat to the wallet.
func (t TransactionType) IsCredit() bool {
	return t == TransactionDeposit
}

// IsFinal reports whether the backend will not move the transaction any further.
func (s TransactionStatus) IsFinal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// WalletSnapshot is the balance view reported by the backend. The client never
// computes these values itself.
type WalletSnapshot struct {
	BalanceFiat     decimal.Decimal `json:"balanceFiat"`
	BalanceCrypto   decimal.Decimal `json:"balanceCrypto"`
	CryptoUnitPrice decimal.Decimal `json:"cryptoUnitPrice"`
}

// Transaction is a single wallet history entry.
type Transaction struct {
	ID           string            `json:"id,omitempty"`
	Type         TransactionType   `json:"type"`
	Status       TransactionStatus `json:"status"`
	Amount       decimal.Decimal   `json:"amount"`
	CreatedAt    time.Time         `json:"createdAt"`
	CryptoAmount *decimal.Decimal  `json:"cryptoAmount,omitempty"`
	Description  string            `json:"description,omitempty"`
}

// SignedAmount returns Amount with the sign it has on the fiat balance.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type.IsCredit() {
		return t.Amount
	}
	return t.Amount.Neg()
}

// WalletState is everything the wallet screen displays, as of FetchedAt.
type WalletState struct {
	Snapshot     WalletSnapshot `json:"snapshot"`
	Transactions []Transaction  `json:"transactions"`
	FetchedAt    time.Time      `json:"fetchedAt"`
}

// Loaded reports whether the state was ever filled from the backend.
func (s WalletState) Loaded() bool {
	return !s.FetchedAt.IsZero()
}

// MarshalState encodes a wallet state for persistence.
func MarshalState(s WalletState) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// UnmarshalState decodes a persisted wallet state.
func UnmarshalState(data string) (WalletState, error) {
	var s WalletState
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return WalletState{}, err
	}
	return s, nil
}
