package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/g7food/client/internal/domain"
	"github.com/g7food/client/internal/storage"
)

// errInterrupted marks a request whose submit call never reported back, e.g.
// because the process exited mid-call.
var errInterrupted = errors.New("submit interrupted")

type storedRequest struct {
	Request
	Err string `json:"error,omitempty"`
}

func marshalRequests(reqs []*Request) (string, error) {
	out := make([]storedRequest, len(reqs))
	for i, r := range reqs {
		out[i] = storedRequest{Request: *r}
		if r.Err != nil {
			out[i].Err = r.Err.Error()
		}
	}
	data, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalRequests(data string) ([]*Request, error) {
	var in []storedRequest
	if err := json.Unmarshal([]byte(data), &in); err != nil {
		return nil, err
	}
	out := make([]*Request, 0, len(in))
	for _, sr := range in {
		r := sr.Request
		if sr.Err != "" {
			r.Err = errors.New(sr.Err)
		}
		if r.State == StateSubmitting {
			r.State = StateFailed
			r.Err = errInterrupted
		}
		out = append(out, &r)
	}
	return out, nil
}

func (s *Sync) loadPersisted(ctx context.Context) {
	if data, err := s.store.Get(ctx, storage.KeyWalletSnapshot); err == nil {
		if state, err := domain.UnmarshalState(data); err == nil {
			s.state = state
			s.stale = true
		} else {
			slog.Warn("discarding unreadable cached wallet", "error", err)
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		slog.Warn("loading cached wallet", "error", err)
	}

	if data, err := s.store.Get(ctx, storage.KeyWalletRequests); err == nil {
		if reqs, err := unmarshalRequests(data); err == nil {
			s.requests = reqs
		} else {
			slog.Warn("discarding unreadable wallet requests", "error", err)
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		slog.Warn("loading wallet requests", "error", err)
	}
}

func (s *Sync) persist(ctx context.Context, state domain.WalletState) {
	if s.store == nil {
		return
	}
	data, err := domain.MarshalState(state)
	if err == nil {
		err = s.store.Set(ctx, storage.KeyWalletSnapshot, data)
	}
	if err != nil {
		slog.Warn("saving wallet cache", "error", err)
	}
}

// saveRequests writes the tracked requests so a later process can reconcile them.
func (s *Sync) saveRequests(ctx context.Context) {
	if s.store == nil {
		return
	}
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.RLock()
	data, err := marshalRequests(s.requests)
	s.mu.RUnlock()
	if err == nil {
		err = s.store.Set(ctx, storage.KeyWalletRequests, data)
	}
	if err != nil {
		slog.Warn("saving wallet requests", "error", err)
	}
}
