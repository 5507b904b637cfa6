package authflow

import (
	"context"
	"strings"
	"sync"
	"time"
)

// DefaultCloseDelay is how long the confirmation stays visible before the
// composer closes itself.
const DefaultCloseDelay = 2 * time.Second

// SupportStore is the persistence capability behind the composer.
type SupportStore interface {
	Insert(ctx context.Context, userID, message string) error
}

// Composer is the support-message widget state: visible only with a session,
// submit persists the trimmed text, success confirms and auto-closes after a
// fixed delay, failure keeps the composer open with the text intact.
//
// The auto-close timer fires on its own goroutine, so unlike the flow
// machine the composer guards its state with a mutex.
type Composer struct {
	mu sync.Mutex

	store    SupportStore
	sessions *SessionService

	closeDelay time.Duration
	timer      *time.Timer

	open      bool
	text      string
	sending   bool
	confirmed bool
}

func NewComposer(store SupportStore, sessions *SessionService) *Composer {
	return &Composer{store: store, sessions: sessions, closeDelay: DefaultCloseDelay}
}

// WithCloseDelay overrides the auto-close delay; used by tests.
func (c *Composer) WithCloseDelay(d time.Duration) *Composer {
	c.closeDelay = d
	return c
}

// Open shows the composer. Returns false (and stays hidden) without an
// authenticated session.
func (c *Composer) Open() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.sessions.Authenticated() {
		return false
	}
	c.open = true
	c.confirmed = false
	return true
}

// Close hides the composer, keeping any typed text.
func (c *Composer) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
	c.confirmed = false
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Composer) SetText(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = s
}

func (c *Composer) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

func (c *Composer) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Confirmed reports whether the transient post-submit confirmation is
// showing.
func (c *Composer) Confirmed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.confirmed
}

// Submit persists the message. Empty or whitespace-only text is rejected
// before anything is written. On success the text clears, the confirmation
// shows and the composer closes itself after the fixed delay; on failure the
// text stays put and the composer stays open.
func (c *Composer) Submit(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open || !c.sessions.Authenticated() {
		return &FlowError{Kind: KindValidation, Message: msgGenericFailure}
	}
	if c.sending {
		return ErrBusy
	}
	trimmed := strings.TrimSpace(c.text)
	if trimmed == "" {
		return &FlowError{Kind: KindValidation, Message: msgEmptyMessage}
	}

	c.sending = true
	err := c.store.Insert(ctx, c.sessions.Current().UserID, trimmed)
	c.sending = false
	if err != nil {
		return &FlowError{Kind: KindPersistence, Message: msgSupportSendFailed, cause: err}
	}

	c.text = ""
	c.confirmed = true
	c.timer = time.AfterFunc(c.closeDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.confirmed = false
		c.open = false
	})
	return nil
}
