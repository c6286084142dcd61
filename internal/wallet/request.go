package wallet

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/g7food/client/internal/domain"
)

// RequestKind is the money movement a Request asked for.
type RequestKind string

const (
	KindDeposit        RequestKind = "deposit"
	KindCryptoPurchase RequestKind = "crypto_purchase"
)

func (k RequestKind) transactionType() domain.TransactionType {
	if k == KindDeposit {
		return domain.TransactionDeposit
	}
	return domain.TransactionCryptoBuy
}

// RequestState is where a Request is in its lifecycle:
//
//	Idle -> Submitting -> AwaitingExternalConfirmation | Failed -> Reconciled
//
// Reconciled is only reached by a successful refresh, never by the submit call.
type RequestState string

const (
	StateIdle                         RequestState = "idle"
	StateSubmitting                   RequestState = "submitting"
	StateAwaitingExternalConfirmation RequestState = "awaiting_external_confirmation"
	StateFailed                       RequestState = "failed"
	StateReconciled                   RequestState = "reconciled"
)

// Notices shown after a request was accepted.
const (
	NoticeDepositPending  = "Your payment will be reflected in your balance soon."
	NoticePurchasePending = "Your purchase was submitted. Your balance will update shortly."
)

// matchWindow is how far before submission a transaction may be timestamped and
// still belong to the request (client and server clocks differ).
const matchWindow = time.Minute

// failedGrace is how long a request whose submit call failed stays open for a
// late match before its outcome becomes FAILED. The call may have reached the
// backend even though the client saw an error.
const failedGrace = 5 * time.Minute

// Request is a deposit or crypto purchase initiated from this client.
type Request struct {
	ID          string          `json:"id"`
	Kind        RequestKind     `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	State       RequestState    `json:"state"`
	SubmittedAt time.Time       `json:"submittedAt"`

	// Deposit only.
	PaymentURL string `json:"paymentUrl,omitempty"`
	// Crypto purchase only: the display estimate and the amount the backend executed.
	ProvisionalCrypto decimal.Decimal `json:"provisionalCrypto"`
	ExecutedCrypto    decimal.Decimal `json:"executedCrypto"`

	Notice string `json:"notice,omitempty"`
	// Err is the submit error, if the submit call failed.
	Err error `json:"-"`

	// Set once reconciled. TransactionID is empty when no transaction matched.
	Outcome       domain.TransactionStatus `json:"outcome,omitempty"`
	TransactionID string                   `json:"transactionId,omitempty"`
}

// Settled reports whether the request will not change on later refreshes.
func (r Request) Settled() bool {
	return r.State == StateReconciled && r.Outcome.IsFinal()
}

// matches reports whether tx is the backend record of r.
func (r Request) matches(tx domain.Transaction) bool {
	return tx.Type == r.Kind.transactionType() &&
		tx.Amount.Equal(r.Amount) &&
		!tx.CreatedAt.Before(r.SubmittedAt.Add(-matchWindow))
}

// reconcile moves every submitted request to Reconciled using txs, the full
// history returned by a refresh at now. Each transaction is claimed by at most
// one request, oldest request first, and the earliest matching transaction wins.
// Without a match the outcome stays UNKNOWN, except for failed submits older
// than failedGrace, which become FAILED.
func reconcile(reqs []*Request, txs []domain.Transaction, now time.Time) {
	claimed := make(map[string]bool)
	for _, r := range reqs {
		if r.TransactionID != "" {
			claimed[r.TransactionID] = true
		}
	}

	for _, r := range reqs {
		if r.State == StateIdle || r.State == StateSubmitting || r.Settled() {
			continue
		}

		if r.TransactionID != "" {
			if tx, ok := lo.Find(txs, func(tx domain.Transaction) bool { return tx.ID == r.TransactionID }); ok {
				r.Outcome = tx.Status
			}
			r.State = StateReconciled
			continue
		}

		candidates := lo.Filter(txs, func(tx domain.Transaction, _ int) bool {
			return r.matches(tx) && (tx.ID == "" || !claimed[tx.ID])
		})
		if len(candidates) > 0 {
			tx := lo.MinBy(candidates, func(a, b domain.Transaction) bool {
				return a.CreatedAt.Before(b.CreatedAt)
			})
			r.Outcome = tx.Status
			r.TransactionID = tx.ID
			if tx.ID != "" {
				claimed[tx.ID] = true
			}
		} else if r.Err != nil && now.Sub(r.SubmittedAt) >= failedGrace {
			r.Outcome = domain.StatusFailed
		} else {
			r.Outcome = domain.StatusUnknown
		}
		r.State = StateReconciled
	}
}
