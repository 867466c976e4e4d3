// Package keygram is a long-polling chat bot framework whose inline buttons
// name the handler they trigger. Button payloads are signed, so a pressed
// button can only run handlers this bot put on it.
package keygram

import (
	"errors"
	"fmt"
	"hash"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

const defaultTimeout = 30

// Bot is the main framework entry point. It composes a callback registry,
// a text handler table, a signer and the polling loop state.
type Bot struct {
	id        int64
	token     string
	transport Transport
	timeout   int

	signing    bool
	signLength int
	secret     string
	digest     func() hash.Hash
	signer     *Signer

	requireNames  bool
	allowOverride bool
	registry      *Registry
	texts         *TextTable
	useMiddleware []MiddlewareFunc

	suppressed map[ErrorKind]struct{}
	parseMode  string
	logger     logrus.FieldLogger
	onUpdate   func(Update)
	cursors    CursorStore
	manager    *Manager

	stop     chan struct{}
	stopOnce sync.Once
	started  atomic.Bool

	// OnError is called when a handler returns an error or a panic is recovered.
	// The Context argument may be nil when a panic is recovered before context is available.
	// If nil, errors are logged.
	OnError func(err error, c Context)
}

// New creates a new Bot with the given credential and options.
// The credential has the form "<numeric id>:<secret>" unless WithBotID is given.
func New(token string, opts ...Option) (*Bot, error) {
	if token == "" {
		return nil, &ConfigError{Field: "token", Err: ErrInvalidCredential}
	}

	b := &Bot{
		token:        token,
		timeout:      defaultTimeout,
		signing:      true,
		signLength:   DefaultSignLength,
		requireNames: true,
		suppressed:   make(map[ErrorKind]struct{}),
		logger:       logrus.StandardLogger(),
		cursors:      &MemoryCursor{},
		texts:        &TextTable{},
		stop:         make(chan struct{}),
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.id == 0 {
		id, err := parseBotID(token)
		if err != nil {
			return nil, &ConfigError{Field: "token", Err: err}
		}
		b.id = id
	}
	if b.transport == nil {
		return nil, &ConfigError{Field: "transport", Err: errors.New("transport is required")}
	}
	if b.timeout <= 0 {
		b.timeout = defaultTimeout
	}
	if b.secret == "" {
		b.secret = token
	}
	if b.signing {
		var sopts []SignerOption
		if b.digest != nil {
			sopts = append(sopts, WithSignerDigest(b.digest))
		}
		s, err := NewSigner(b.secret, b.signLength, sopts...)
		if err != nil {
			return nil, err
		}
		b.signer = s
	}

	b.registry = NewRegistry(b.requireNames, b.allowOverride)
	b.logger = b.logger.WithField("bot_id", b.id)

	if b.manager != nil {
		if err := b.manager.Register(b); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// parseBotID returns the numeric segment before the first ':'.
func parseBotID(token string) (int64, error) {
	prefix, _, ok := strings.Cut(token, ":")
	if !ok {
		return 0, fmt.Errorf("%w: missing ':' separator", ErrInvalidCredential)
	}
	id, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bot id %q is not a positive number", ErrInvalidCredential, prefix)
	}
	return id, nil
}

// ID returns the bot identity derived from the credential.
func (b *Bot) ID() int64 { return b.id }

// Transport returns the remote endpoint.
func (b *Bot) Transport() Transport { return b.transport }

// Signer returns the callback signer, or nil when signing is disabled.
func (b *Bot) Signer() *Signer { return b.signer }

// Logger returns the bot's logger.
func (b *Bot) Logger() logrus.FieldLogger { return b.logger }

// Use appends middleware that wraps every matched handler.
func (b *Bot) Use(middleware ...MiddlewareFunc) {
	b.useMiddleware = append(b.useMiddleware, middleware...)
}

// On registers a text handler. pattern is a regular expression string or a
// *regexp.Regexp. Handlers are tried in registration order and only the
// first match runs.
func (b *Bot) On(pattern any, h HandlerFunc, m ...MiddlewareFunc) {
	b.texts.On(pattern, h, m...)
}

// Register binds a callback handler to a name carried by buttons.
func (b *Bot) Register(name string, fn CallbackFunc, m ...MiddlewareFunc) error {
	return b.registry.Register(name, fn, m...)
}

// MustRegister is like Register but panics on error. It is meant for setup
// code where a duplicate name is a programming mistake.
func (b *Bot) MustRegister(name string, fn CallbackFunc, m ...MiddlewareFunc) {
	if err := b.Register(name, fn, m...); err != nil {
		panic(err)
	}
}

// RegisterFunc registers callback handlers under their function names.
func (b *Bot) RegisterFunc(fns ...CallbackFunc) error {
	return b.registry.RegisterFunc(fns...)
}

// HasHandler reports whether a callback handler is registered under name.
func (b *Bot) HasHandler(name string) bool {
	return b.registry.Has(name)
}

// Group creates a new handler group with an isolated middleware stack.
func (b *Bot) Group() *Group {
	return &Group{bot: b}
}

// Action encodes a callback payload for the named handler, signed when
// signing is enabled.
func (b *Bot) Action(name string, args ...any) (string, error) {
	body, err := EncodeAction(name, args...)
	if err != nil {
		return "", err
	}
	if b.signer != nil {
		return b.signer.Seal(body), nil
	}
	return body, nil
}

// ActionFor encodes a callback payload for a handler registered with
// RegisterFunc.
func (b *Bot) ActionFor(fn CallbackFunc, args ...any) (string, error) {
	name, named := HandlerName(fn)
	if !named && b.requireNames {
		return "", fmt.Errorf("%w: %s", ErrNamelessHandler, name)
	}
	return b.Action(name, args...)
}

// ShouldThrow reports whether outbound errors of kind are returned to the
// caller rather than swallowed.
func (b *Bot) ShouldThrow(kind ErrorKind) bool {
	_, suppressed := b.suppressed[kind]
	return !suppressed
}

// filter drops outbound errors whose kind is suppressed.
func (b *Bot) filter(err error) error {
	if err == nil {
		return nil
	}
	if kind := KindOf(err); kind != 0 && !b.ShouldThrow(kind) {
		b.logger.WithField("kind", kind.String()).WithError(err).Debug("suppressed outbound error")
		return nil
	}
	return err
}

// Stop signals the polling loop to stop after the update in flight and
// removes the bot from its manager. Safe to call multiple times.
func (b *Bot) Stop() {
	b.stopOnce.Do(func() {
		close(b.stop)
		if b.manager != nil {
			b.manager.Unregister(b.id)
		}
	})
}

func (b *Bot) handleError(err error, c Context, endpoint string) {
	if b.OnError != nil {
		b.OnError(err, c)
		return
	}
	b.logger.WithField("handler", endpoint).WithError(err).Error("handler failed")
}
