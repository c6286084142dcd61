package export

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/g7food/client/internal/domain"
)

func sampleTransactions() []domain.Transaction {
	crypto := decimal.RequireFromString("0.0333")
	return []domain.Transaction{
		{
			ID: "2", Type: domain.TransactionCryptoBuy, Status: domain.StatusPending,
			Amount: decimal.NewFromInt(200), CreatedAt: time.Date(2024, 3, 2, 11, 0, 0, 0, time.UTC),
			CryptoAmount: &crypto,
		},
		{
			ID: "1", Type: domain.TransactionDeposit, Status: domain.StatusCompleted,
			Amount: decimal.NewFromInt(500), CreatedAt: time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
			Description: "Carga de saldo",
		},
	}
}

func TestBuildTransactionValues(t *testing.T) {
	data := buildTransactionValues(sampleTransactions())

	if len(data) != 3 {
		t.Fatalf("rows = %d, want 3", len(data))
	}
	if data[0][0] != "Date" || len(data[0]) != 6 {
		t.Errorf("header = %v", data[0])
	}

	buy := data[1]
	if buy[0] != "2024-03-02 11:00" || buy[1] != "CRYPTO_BUY" || buy[2] != "PENDING" {
		t.Errorf("buy row = %v", buy)
	}
	if buy[3] != float64(-200) {
		t.Errorf("buy amount = %v, want -200", buy[3])
	}
	if buy[4] != 0.0333 {
		t.Errorf("crypto = %v", buy[4])
	}

	deposit := data[2]
	if deposit[3] != float64(500) || deposit[4] != nil || deposit[5] != "Carga de saldo" {
		t.Errorf("deposit row = %v", deposit)
	}
}

func TestXLSXWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.xlsx")
	w := NewXLSXWriter(path)

	if err := w.Write(context.Background(), sampleTransactions()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0][3] != "Amount" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][3] != "-200" || rows[2][3] != "500" {
		t.Errorf("amounts = %q, %q", rows[1][3], rows[2][3])
	}
	if rows[2][5] != "Carga de saldo" {
		t.Errorf("description = %q", rows[2][5])
	}
}

type mockWriter struct {
	callCount atomic.Int32
	lastLen   atomic.Int32
	err       error
}

func (m *mockWriter) Write(_ context.Context, txs []domain.Transaction) error {
	m.callCount.Add(1)
	m.lastLen.Store(int32(len(txs)))
	return m.err
}

type staticSource struct {
	state domain.WalletState
}

func (s staticSource) State() domain.WalletState { return s.state }

func TestServiceAfterRefresh(t *testing.T) {
	w := &mockWriter{}
	svc := NewService(w, staticSource{state: domain.WalletState{Transactions: sampleTransactions()}})

	if err := svc.AfterRefresh(context.Background()); err != nil {
		t.Fatalf("AfterRefresh: %v", err)
	}
	if w.callCount.Load() != 1 || w.lastLen.Load() != 2 {
		t.Errorf("calls = %d, len = %d", w.callCount.Load(), w.lastLen.Load())
	}

	noSource := NewService(w, nil)
	if err := noSource.AfterRefresh(context.Background()); err != nil {
		t.Errorf("AfterRefresh without source: %v", err)
	}
	if w.callCount.Load() != 1 {
		t.Error("writer called without a source")
	}
}

func TestServiceExportWrapsError(t *testing.T) {
	boom := errors.New("quota exceeded")
	svc := NewService(&mockWriter{err: boom}, nil)

	if err := svc.Export(context.Background(), nil); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapping %v", err, boom)
	}
}
