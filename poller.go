package keygram

import (
	gocontext "context"
	"fmt"
	"sync"
)

// CursorStore persists the polling cursor of each bot.
type CursorStore interface {
	// Load returns the stored cursor, zero if none was saved.
	Load(ctx gocontext.Context, botID int64) (int64, error)
	// Save records the cursor after an update has been routed.
	Save(ctx gocontext.Context, botID, cursor int64) error
}

// MemoryCursor keeps cursors in memory. It is the default store: a
// restarted process polls from zero and the remote side replays every
// update it has not seen acknowledged.
type MemoryCursor struct {
	mu      sync.Mutex
	cursors map[int64]int64
}

func (m *MemoryCursor) Load(_ gocontext.Context, botID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursors[botID], nil
}

func (m *MemoryCursor) Save(_ gocontext.Context, botID, cursor int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cursors == nil {
		m.cursors = make(map[int64]int64)
	}
	m.cursors[botID] = cursor
	return nil
}

// Start runs the polling loop: fetch a batch at the cursor, route each
// update in order, and move the cursor past an update only once it has been
// routed. Handlers run inline, so a slow handler delays the updates behind it.
//
// Start blocks until ctx is cancelled or Stop is called, returning nil, or
// until a fetch fails, returning a *TransportError. Fetch failures are not
// retried. A second call returns ErrAlreadyStarted.
func (b *Bot) Start(ctx gocontext.Context) error {
	if !b.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	// fetchCtx interrupts an in-flight long poll on Stop. Handlers keep ctx
	// so the update in flight can finish its outbound calls.
	fetchCtx, cancel := b.stopContext(ctx)
	defer cancel()

	cursor, err := b.cursors.Load(fetchCtx, b.id)
	if err != nil {
		return fmt.Errorf("keygram: load cursor: %w", err)
	}
	b.logger.WithField("cursor", cursor).Info("polling started")

	for {
		if fetchCtx.Err() != nil {
			return nil
		}

		updates, err := b.transport.Fetch(fetchCtx, cursor, b.timeout)
		if err != nil {
			if fetchCtx.Err() != nil {
				return nil // Shutdown requested, exit gracefully.
			}
			return &TransportError{Op: "fetch", Err: err}
		}

		for _, u := range updates {
			b.route(ctx, u)
			cursor = u.ID + 1
			if err := b.cursors.Save(gocontext.WithoutCancel(ctx), b.id, cursor); err != nil {
				b.logger.WithField("cursor", cursor).WithError(err).Warn("saving cursor failed")
			}
			if b.stopping(fetchCtx) {
				return nil
			}
		}
	}
}

// stopping reports whether Stop was called or ctx is done. It reads the
// stop channel directly because stopContext cancels asynchronously.
func (b *Bot) stopping(ctx gocontext.Context) bool {
	select {
	case <-b.stop:
		return true
	default:
		return ctx.Err() != nil
	}
}

// stopContext derives a context that is also cancelled by Stop.
func (b *Bot) stopContext(parent gocontext.Context) (gocontext.Context, gocontext.CancelFunc) {
	ctx, cancel := gocontext.WithCancel(parent)
	go func() {
		select {
		case <-b.stop:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
