package export

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/g7food/client/internal/domain"
)

// sheetName is the tab transaction history is written to.
const sheetName = "Transactions"

const dateLayout = "2006-01-02 15:04"

// Writer writes the transaction history to a spreadsheet destination.
type Writer interface {
	Write(ctx context.Context, txs []domain.Transaction) error
}

// StateSource provides the wallet state to export after a refresh.
type StateSource interface {
	State() domain.WalletState
}

// Service exports wallet history through a Writer.
type Service struct {
	writer Writer
	source StateSource // optional, needed for AfterRefresh
}

// NewService creates a new export Service. source may be nil when the service
// is only called through Export.
func NewService(writer Writer, source StateSource) *Service {
	return &Service{writer: writer, source: source}
}

// Export writes txs, newest first as they were fetched.
func (s *Service) Export(ctx context.Context, txs []domain.Transaction) error {
	if err := s.writer.Write(ctx, txs); err != nil {
		return fmt.Errorf("exporting transactions: %w", err)
	}
	slog.Info("exported transactions", "count", len(txs))
	return nil
}

// AfterRefresh re-exports the current history. Implements worker.AfterRefreshHook.
func (s *Service) AfterRefresh(ctx context.Context) error {
	if s.source == nil {
		return nil
	}
	return s.Export(ctx, s.source.State().Transactions)
}

var transactionHeader = []any{"Date", "Type", "Status", "Amount", "Crypto amount", "Description"}

// buildTransactionValues returns the header row followed by one row per
// transaction. Amounts carry the sign they have on the fiat balance.
func buildTransactionValues(txs []domain.Transaction) [][]any {
	data := make([][]any, 0, len(txs)+1)
	data = append(data, transactionHeader)

	for _, tx := range txs {
		date := ""
		if !tx.CreatedAt.IsZero() {
			date = tx.CreatedAt.UTC().Format(dateLayout)
		}
		data = append(data, []any{
			date,
			string(tx.Type),
			string(tx.Status),
			toFloat(tx.SignedAmount()),
			ptrFloat(tx.CryptoAmount),
			tx.Description,
		})
	}

	return data
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func ptrFloat(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	f, _ := d.Float64()
	return f
}
