// Package wallet keeps the wallet view eventually consistent with the backend
// and submits deposit and crypto purchase requests. Balances are never
// computed locally: every change is observed through a refresh.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/g7food/client/internal/domain"
	"github.com/g7food/client/internal/storage"
	"github.com/g7food/client/internal/validate"
	"github.com/g7food/client/internal/worker"
)

// ErrBalanceUnknown indicates a purchase was attempted before any balance was loaded.
var ErrBalanceUnknown = errors.New("wallet balance not loaded yet")

// DefaultMaxAge is how long a refreshed view is served from cache.
const DefaultMaxAge = 30 * time.Second

// maxTrackedRequests bounds the request history kept for reconciliation.
const maxTrackedRequests = 20

// Backend is the part of the API the wallet talks to.
type Backend interface {
	Wallet(ctx context.Context) (domain.WalletSnapshot, error)
	Transactions(ctx context.Context) ([]domain.Transaction, error)
	CreateDepositPreference(ctx context.Context, amount decimal.Decimal) (string, error)
	BuyCrypto(ctx context.Context, fiat decimal.Decimal) (decimal.Decimal, error)
	CryptoPrice(ctx context.Context) (decimal.Decimal, error)
}

// Sync is a read-through cache over the remote wallet.
type Sync struct {
	backend Backend
	store   storage.Store // optional
	maxAge  time.Duration
	quotes  *quoteCache
	now     func() time.Time

	// refreshMu serializes refreshes so an older response never replaces a newer one.
	refreshMu sync.Mutex
	persistMu sync.Mutex

	mu       sync.RWMutex
	state    domain.WalletState
	stale    bool
	lastErr  error
	requests []*Request
}

// NewSync creates a Sync. When store is not nil the last persisted state is
// loaded as a stale warm start together with the tracked requests, and both
// are saved back as they change.
func NewSync(ctx context.Context, backend Backend, store storage.Store, maxAge time.Duration) *Sync {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	s := &Sync{
		backend: backend,
		store:   store,
		maxAge:  maxAge,
		now:     time.Now,
	}
	s.quotes = newQuoteCache(func() time.Time { return s.now() })
	if store != nil {
		s.loadPersisted(ctx)
	}
	return s
}

// Refresh reads the balance and the transaction history concurrently and, if
// both succeed, replaces the cached state and reconciles submitted requests.
// On failure the previous state is kept and the error is returned.
func (s *Sync) Refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	var (
		snap domain.WalletSnapshot
		txs  []domain.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap, err = s.backend.Wallet(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		txs, err = s.backend.Transactions(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		slog.Warn("wallet refresh failed, keeping last state", "error", err)
		return fmt.Errorf("refreshing wallet: %w", err)
	}

	state := domain.WalletState{Snapshot: snap, Transactions: txs, FetchedAt: s.now()}

	s.mu.Lock()
	s.state = state
	s.stale = false
	s.lastErr = nil
	tracked := len(s.requests) > 0
	reconcile(s.requests, txs, state.FetchedAt)
	s.pruneLocked()
	s.mu.Unlock()

	if snap.CryptoUnitPrice.IsPositive() {
		s.quotes.set(snap.CryptoUnitPrice)
	}
	s.persist(ctx, state)
	if tracked {
		s.saveRequests(ctx)
	}
	return nil
}

// State returns the cached state without contacting the backend.
func (s *Sync) State() domain.WalletState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneState(s.state)
}

// View returns the cached state when it is fresh and refreshes otherwise. If
// the refresh fails the last known state is returned together with the error.
func (s *Sync) View(ctx context.Context) (domain.WalletState, error) {
	if state, ok := s.fresh(); ok {
		return state, nil
	}
	err := s.Refresh(ctx)
	return s.State(), err
}

func (s *Sync) fresh() (domain.WalletState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.state.Loaded() || s.stale || s.now().Sub(s.state.FetchedAt) >= s.maxAge {
		return domain.WalletState{}, false
	}
	return cloneState(s.state), true
}

// Invalidate marks the cached state stale so the next View refreshes.
func (s *Sync) Invalidate() {
	s.mu.Lock()
	s.stale = true
	s.mu.Unlock()
}

// Stale reports whether the cached state needs a refresh before it is trusted.
func (s *Sync) Stale() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stale || !s.state.Loaded()
}

// LastError returns the error of the most recent refresh, or nil if it succeeded.
func (s *Sync) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Requests returns copies of the tracked requests, oldest first.
func (s *Sync) Requests() []Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Request, len(s.requests))
	for i, r := range s.requests {
		out[i] = *r
	}
	return out
}

// Watch polls Refresh every interval until ctx is done or the returned stop
// func is called. stop waits for the poller to exit.
func (s *Sync) Watch(ctx context.Context, interval time.Duration, hook worker.AfterRefreshHook) (stop func()) {
	return worker.NewWalletWorker(s, interval, hook).Start(ctx)
}

// Quote returns the crypto unit price, cached for 30 seconds. If the backend
// cannot be reached the snapshot price is used.
func (s *Sync) Quote(ctx context.Context) (decimal.Decimal, error) {
	if p, ok := s.quotes.get(); ok {
		return p, nil
	}
	p, err := s.backend.CryptoPrice(ctx)
	if err == nil && !p.IsPositive() {
		err = fmt.Errorf("non-positive crypto price %s", p)
	}
	if err == nil {
		s.quotes.set(p)
		return p, nil
	}
	if snapPrice := s.State().Snapshot.CryptoUnitPrice; snapPrice.IsPositive() {
		slog.Debug("using snapshot crypto price", "error", err)
		return snapPrice, nil
	}
	return decimal.Zero, fmt.Errorf("fetching crypto price: %w", err)
}

// PreviewPurchase returns the display-only crypto estimate for fiat.
func (s *Sync) PreviewPurchase(ctx context.Context, fiat decimal.Decimal) (decimal.Decimal, error) {
	price, err := s.Quote(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return domain.DivideCrypto(fiat, price), nil
}

// RequestDeposit validates amount and asks the backend for a payment link.
// A successful call leaves the request awaiting external confirmation; its
// outcome is learned from a later refresh.
func (s *Sync) RequestDeposit(ctx context.Context, amount decimal.Decimal) (Request, error) {
	req := Request{Kind: KindDeposit, Amount: amount, State: StateIdle}
	if err := validate.DepositAmount(amount); err != nil {
		req.Err = err
		return req, err
	}

	r := s.track(ctx, req)
	url, err := s.backend.CreateDepositPreference(ctx, amount)
	return s.finish(ctx, r, err, func(r *Request) {
		r.PaymentURL = url
		r.Notice = NoticeDepositPending
	})
}

// RequestCryptoPurchase validates fiat against the loaded balance and submits
// the purchase. ExecutedCrypto on the result is the backend's figure;
// ProvisionalCrypto is the estimate shown before submitting.
func (s *Sync) RequestCryptoPurchase(ctx context.Context, fiat decimal.Decimal) (Request, error) {
	req := Request{Kind: KindCryptoPurchase, Amount: fiat, State: StateIdle}

	state := s.State()
	if !state.Loaded() {
		req.Err = ErrBalanceUnknown
		return req, ErrBalanceUnknown
	}
	if err := validate.CryptoPurchaseAmount(fiat, state.Snapshot.BalanceFiat); err != nil {
		req.Err = err
		return req, err
	}
	if provisional, err := s.PreviewPurchase(ctx, fiat); err == nil {
		req.ProvisionalCrypto = provisional
	}

	r := s.track(ctx, req)
	executed, err := s.backend.BuyCrypto(ctx, fiat)
	return s.finish(ctx, r, err, func(r *Request) {
		r.ExecutedCrypto = executed
		r.Notice = NoticePurchasePending
	})
}

// track registers req as Submitting and returns the tracked pointer.
func (s *Sync) track(ctx context.Context, req Request) *Request {
	req.ID = uuid.NewString()
	req.State = StateSubmitting
	req.SubmittedAt = s.now()

	r := &req
	s.mu.Lock()
	s.requests = append(s.requests, r)
	s.pruneLocked()
	s.mu.Unlock()
	s.saveRequests(ctx)
	return r
}

// finish records the submit result and invalidates the cache either way, since
// a failed call may still have reached the backend.
func (s *Sync) finish(ctx context.Context, r *Request, err error, onSuccess func(*Request)) (Request, error) {
	s.mu.Lock()
	if err != nil {
		r.State = StateFailed
		r.Err = err
	} else {
		r.State = StateAwaitingExternalConfirmation
		onSuccess(r)
	}
	s.stale = true
	out := *r
	s.mu.Unlock()
	s.saveRequests(ctx)

	if err != nil {
		slog.Warn("wallet request failed", "kind", out.Kind, "id", out.ID, "error", err)
		return out, err
	}
	slog.Info("wallet request submitted", "kind", out.Kind, "id", out.ID, "amount", out.Amount.String())
	return out, nil
}

// pruneLocked drops the oldest settled requests once too many are tracked.
func (s *Sync) pruneLocked() {
	for len(s.requests) > maxTrackedRequests {
		i := slices.IndexFunc(s.requests, func(r *Request) bool { return r.Settled() })
		if i < 0 {
			i = 0
		}
		s.requests = slices.Delete(s.requests, i, i+1)
	}
}

func cloneState(s domain.WalletState) domain.WalletState {
	s.Transactions = slices.Clone(s.Transactions)
	return s
}
