package account

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type mockLookup struct {
	callCount atomic.Int32
	mu        sync.Mutex
	emails    []string
	block     chan struct{}
}

func (m *mockLookup) EmailExists(ctx context.Context, email string) (bool, error) {
	m.callCount.Add(1)
	m.mu.Lock()
	m.emails = append(m.emails, email)
	m.mu.Unlock()
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	return email == "taken@example.com", nil
}

type resultSink struct {
	mu      sync.Mutex
	results []EmailResult
}

func (r *resultSink) add(res EmailResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
}

func (r *resultSink) all() []EmailResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]EmailResult(nil), r.results...)
}

func TestEmailCheckerDebouncesBurst(t *testing.T) {
	lookup := &mockLookup{}
	sink := &resultSink{}
	c := NewEmailChecker(lookup, 30*time.Millisecond, sink.add)
	defer c.Close()

	for _, e := range []string{"t", "taken@", "taken@example", "taken@example.co", "taken@example.com"} {
		c.Submit(e)
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)

	if got := lookup.callCount.Load(); got != 1 {
		t.Errorf("lookups = %d, want 1", got)
	}
	results := sink.all()
	if len(results) != 1 || results[0].Email != "taken@example.com" || !results[0].Exists {
		t.Errorf("results = %+v", results)
	}
}

func TestEmailCheckerSkipsMalformed(t *testing.T) {
	lookup := &mockLookup{}
	sink := &resultSink{}
	c := NewEmailChecker(lookup, 10*time.Millisecond, sink.add)
	defer c.Close()

	c.Submit("free@example.com")
	c.Submit("not an email")
	time.Sleep(50 * time.Millisecond)

	if got := lookup.callCount.Load(); got != 0 {
		t.Errorf("lookups = %d, want 0 (pending check replaced by malformed input)", got)
	}
	if len(sink.all()) != 0 {
		t.Errorf("results = %+v", sink.all())
	}
}

func TestEmailCheckerDropsSupersededResult(t *testing.T) {
	lookup := &mockLookup{block: make(chan struct{})}
	sink := &resultSink{}
	c := NewEmailChecker(lookup, 5*time.Millisecond, sink.add)

	c.Submit("first@example.com")
	time.Sleep(30 * time.Millisecond) // lookup now in flight and blocked
	c.Submit("second@example.com")
	time.Sleep(30 * time.Millisecond)
	close(lookup.block)
	time.Sleep(30 * time.Millisecond)
	c.Close()

	for _, r := range sink.all() {
		if r.Email == "first@example.com" {
			t.Errorf("superseded result delivered: %+v", r)
		}
	}
}

func TestEmailCheckerClose(t *testing.T) {
	lookup := &mockLookup{}
	sink := &resultSink{}
	c := NewEmailChecker(lookup, 20*time.Millisecond, sink.add)

	c.Submit("late@example.com")
	c.Close()
	c.Submit("later@example.com")
	time.Sleep(60 * time.Millisecond)

	if got := lookup.callCount.Load(); got != 0 {
		t.Errorf("lookups after Close = %d, want 0", got)
	}
}
