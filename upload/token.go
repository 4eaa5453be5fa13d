package upload

import (
	"context"
	"sync"
)

// ErrCancelled is returned by Upload when the upload's Token is cancelled.
const ErrCancelled = uploadError("upload cancelled")

type uploadError string

func (e uploadError) Error() string { return string(e) }

// Token controls an in-flight upload. A single Token must not be shared
// between concurrent uploads. All methods are safe for concurrent use.
type Token struct {
	mu        sync.Mutex
	paused    chan struct{} // non-nil while paused, closed on resume
	done      chan struct{} // closed on cancel
	cancel    context.CancelFunc
	cancelled bool
}

// NewToken returns a Token in the running state.
func NewToken() *Token {
	return &Token{done: make(chan struct{})}
}

// Pause suspends dispatch of further parts and chunks. Transfers already in
// flight run to completion; nothing new starts until Resume. Pausing a
// cancelled token has no effect.
func (t *Token) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.paused == nil && !t.cancelled {
		t.paused = make(chan struct{})
	}
}

// Resume releases a paused upload.
func (t *Token) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.paused != nil {
		close(t.paused)
		t.paused = nil
	}
}

// Cancel aborts the upload. In-flight requests are interrupted through
// context cancellation. Cancel is idempotent.
func (t *Token) Cancel() {
	t.mu.Lock()
	if t.cancelled {
		t.mu.Unlock()
		return
	}
	t.cancelled = true
	close(t.done)
	if t.paused != nil {
		close(t.paused)
		t.paused = nil
	}
	cancel := t.cancel
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Cancelled reports whether Cancel has been called.
func (t *Token) Cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}

// bind attaches the upload's cancel function. If the token was cancelled
// before the upload started, the upload is cancelled immediately.
func (t *Token) bind(cancel context.CancelFunc) {
	t.mu.Lock()
	t.cancel = cancel
	cancelled := t.cancelled
	t.mu.Unlock()

	if cancelled {
		cancel()
	}
}

// wait blocks while the token is paused. It returns ErrCancelled if the
// token is cancelled and ctx.Err() if the context ends first.
func (t *Token) wait(ctx context.Context) error {
	for {
		t.mu.Lock()
		paused := t.paused
		cancelled := t.cancelled
		t.mu.Unlock()

		if cancelled {
			return ErrCancelled
		}
		if paused == nil {
			return ctx.Err()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.done:
			return ErrCancelled
		case <-paused:
		}
	}
}
