package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/g7food/client/internal/apperr"
	"github.com/g7food/client/internal/domain"
)

func errMissing(field string) error {
	return fmt.Errorf("response has no %s", field)
}

// Wallet fetches the current balances.
func (c *Client) Wallet(ctx context.Context) (domain.WalletSnapshot, error) {
	var w WalletPayload
	if err := c.get(ctx, "/wallet", &w); err != nil {
		return domain.WalletSnapshot{}, err
	}
	return domain.WalletSnapshot{
		BalanceFiat:     w.BalanceFiat,
		BalanceCrypto:   w.BalanceCrypto,
		CryptoUnitPrice: w.CryptoUnitPrice,
	}, nil
}

// Transactions fetches the wallet history, newest first as the backend sends it.
func (c *Client) Transactions(ctx context.Context) ([]domain.Transaction, error) {
	var payload []TransactionPayload
	if err := c.get(ctx, "/wallet/transacciones", &payload); err != nil {
		return nil, err
	}

	txs := make([]domain.Transaction, 0, len(payload))
	for _, p := range payload {
		createdAt, err := parseTime(p.CreatedAt)
		if err != nil {
			slog.Warn("skipping transaction timestamp", "id", string(p.ID), "error", err)
		}
		txs = append(txs, domain.Transaction{
			ID:           string(p.ID),
			Type:         domain.ParseTransactionType(p.Type),
			Status:       domain.ParseTransactionStatus(p.Status),
			Amount:       p.Amount,
			CreatedAt:    createdAt,
			CryptoAmount: p.CryptoAmount,
			Description:  p.Description,
		})
	}
	return txs, nil
}

// CreateDepositPreference starts an external checkout for amount and returns
// the URL the user has to visit.
func (c *Client) CreateDepositPreference(ctx context.Context, amount decimal.Decimal) (string, error) {
	var resp PreferenceResponse
	if err := c.post(ctx, "/wallet/create-preference", depositRequest{Amount: json.Number(amount.String())}, &resp); err != nil {
		return "", err
	}
	if resp.Status == "error" {
		msg := resp.Error
		if msg == "" {
			msg = "Could not create the payment preference."
		}
		return "", apperr.ServerErr(200, msg)
	}
	if resp.InitPoint == "" {
		return "", apperr.MalformedErr("", errMissing("init_point"))
	}
	return resp.InitPoint, nil
}

// BuyCrypto converts fiat from the wallet into crypto. The returned amount is
// the one the backend actually credited.
func (c *Client) BuyCrypto(ctx context.Context, fiat decimal.Decimal) (decimal.Decimal, error) {
	var resp CryptoPurchaseResponse
	if err := c.post(ctx, "/wallet/comprar-crypto", cryptoPurchaseRequest{FiatAmount: json.Number(fiat.String())}, &resp); err != nil {
		return decimal.Zero, err
	}
	return resp.CryptoAmount, nil
}

// CryptoPrice fetches the current crypto unit price in fiat.
func (c *Client) CryptoPrice(ctx context.Context) (decimal.Decimal, error) {
	var resp cryptoPriceResponse
	if err := c.get(ctx, "/wallet/precio-crypto", &resp); err != nil {
		return decimal.Zero, err
	}
	if !resp.Price.IsPositive() {
		return decimal.Zero, apperr.MalformedErr("", errMissing("precio"))
	}
	return resp.Price, nil
}
