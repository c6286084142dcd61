package account

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/g7food/client/internal/validate"
)

// DefaultEmailCheckDelay is the quiet period before an availability lookup.
const DefaultEmailCheckDelay = 500 * time.Millisecond

// EmailLookup answers whether an email is already registered.
type EmailLookup interface {
	EmailExists(ctx context.Context, email string) (bool, error)
}

// EmailResult is the outcome of one availability check.
type EmailResult struct {
	Email  string
	Exists bool
}

// EmailChecker debounces availability checks for a sign-up form. Each Submit
// replaces the pending check, so a burst of keystrokes costs one lookup.
// Results for superseded emails are dropped.
type EmailChecker struct {
	lookup   EmailLookup
	delay    time.Duration
	onResult func(EmailResult)

	mu     sync.Mutex
	seq    uint64
	timer  *time.Timer
	cancel context.CancelFunc
	closed bool
	wg     sync.WaitGroup
}

// NewEmailChecker creates an EmailChecker that reports results to onResult,
// which runs on the checker's goroutine.
func NewEmailChecker(lookup EmailLookup, delay time.Duration, onResult func(EmailResult)) *EmailChecker {
	if delay <= 0 {
		delay = DefaultEmailCheckDelay
	}
	return &EmailChecker{lookup: lookup, delay: delay, onResult: onResult}
}

// Submit schedules a check of email after the debounce delay, cancelling any
// pending or in-flight check. Malformed emails are not looked up.
func (c *EmailChecker) Submit(email string) {
	email = strings.TrimSpace(email)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.stopLocked()
	c.seq++
	if !validate.Email(email) {
		return
	}

	seq := c.seq
	c.timer = time.AfterFunc(c.delay, func() { c.run(seq, email) })
}

func (c *EmailChecker) stopLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *EmailChecker) current(seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed && seq == c.seq
}

func (c *EmailChecker) run(seq uint64, email string) {
	c.mu.Lock()
	if c.closed || seq != c.seq {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.wg.Add(1)
	c.mu.Unlock()

	defer c.wg.Done()
	defer cancel()

	exists, err := c.lookup.EmailExists(ctx, email)
	if err != nil {
		if ctx.Err() == nil {
			slog.Warn("checking email availability", "error", err)
		}
		return
	}
	if c.current(seq) {
		c.onResult(EmailResult{Email: email, Exists: exists})
	}
}

// Close stops pending and in-flight checks and waits for a running callback.
func (c *EmailChecker) Close() {
	c.mu.Lock()
	c.closed = true
	c.stopLocked()
	c.mu.Unlock()

	c.wg.Wait()
}
