package keygram

import (
	"hash"

	"github.com/sirupsen/logrus"
)

// Option configures the Bot during creation.
type Option func(*Bot)

// WithTransport sets the remote endpoint the bot polls and writes to.
func WithTransport(t Transport) Option {
	return func(b *Bot) {
		b.transport = t
	}
}

// WithLongPolling sets the server-side long-polling timeout in seconds.
func WithLongPolling(timeout int) Option {
	return func(b *Bot) {
		b.timeout = timeout
	}
}

// WithSigning enables or disables callback signatures.
func WithSigning(enabled bool) Option {
	return func(b *Bot) {
		b.signing = enabled
	}
}

// WithSignLength sets the signature length in characters.
func WithSignLength(n int) Option {
	return func(b *Bot) {
		b.signLength = n
	}
}

// WithSecret sets the signing secret. The credential is used by default.
func WithSecret(secret string) Option {
	return func(b *Bot) {
		b.secret = secret
	}
}

// WithDigest replaces the SHA-256 digest used for signatures.
func WithDigest(digest func() hash.Hash) Option {
	return func(b *Bot) {
		b.digest = digest
	}
}

// WithNamedHandlers controls whether RegisterFunc rejects function literals.
func WithNamedHandlers(required bool) Option {
	return func(b *Bot) {
		b.requireNames = required
	}
}

// WithOverride allows a callback handler name to be registered twice,
// the last registration winning.
func WithOverride(allowed bool) Option {
	return func(b *Bot) {
		b.allowOverride = allowed
	}
}

// WithSuppressed makes Reply and Edit swallow outbound errors of the
// given kinds instead of returning them.
func WithSuppressed(kinds ...ErrorKind) Option {
	return func(b *Bot) {
		for _, k := range kinds {
			b.suppressed[k] = struct{}{}
		}
	}
}

// WithParseMode sets the default text formatting mode ("HTML",
// "MarkdownV2", "Markdown" or empty for plain text).
func WithParseMode(mode string) Option {
	return func(b *Bot) {
		b.parseMode = mode
	}
}

// WithLogger sets the logger. logrus.StandardLogger() is used by default.
func WithLogger(l logrus.FieldLogger) Option {
	return func(b *Bot) {
		b.logger = l
	}
}

// WithOnUpdate sets an observer called after every update has been routed.
// It cannot influence routing.
func WithOnUpdate(fn func(Update)) Option {
	return func(b *Bot) {
		b.onUpdate = fn
	}
}

// WithCursorStore persists the polling cursor.
func WithCursorStore(s CursorStore) Option {
	return func(b *Bot) {
		b.cursors = s
	}
}

// WithManager registers the bot in m on creation and removes it on Stop.
func WithManager(m *Manager) Option {
	return func(b *Bot) {
		b.manager = m
	}
}

// WithBotID sets the bot identity for credentials that do not start with
// a numeric id.
func WithBotID(id int64) Option {
	return func(b *Bot) {
		b.id = id
	}
}

// sendConfig holds parameters for a send or edit operation.
type sendConfig struct {
	Photo    string
	Format   *string
	Keyboard [][]Button
}

// SendOption configures a send/reply/edit operation.
type SendOption func(*sendConfig)

// WithPhoto attaches a photo: a remote file id, a URL, or a local path
// starting with "." or "/".
func WithPhoto(src string) SendOption {
	return func(cfg *sendConfig) {
		cfg.Photo = src
	}
}

// WithFormat overrides the bot's parse mode for one message.
func WithFormat(mode string) SendOption {
	return func(cfg *sendConfig) {
		cfg.Format = &mode
	}
}

// WithKeyboard adds an inline keyboard to the message.
// Each argument is a row of buttons.
func WithKeyboard(rows ...[]Button) SendOption {
	return func(cfg *sendConfig) {
		cfg.Keyboard = append(cfg.Keyboard, rows...)
	}
}

// buildSendConfig merges all send options into a sendConfig.
func buildSendConfig(opts []SendOption) sendConfig {
	var cfg sendConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// toContent converts text + sendConfig into a Content using the bot's
// default parse mode.
func toContent(text string, cfg sendConfig, parseMode string) Content {
	c := Content{
		Text:      text,
		Photo:     cfg.Photo,
		ParseMode: parseMode,
		Keyboard:  cfg.Keyboard,
	}
	if cfg.Format != nil {
		c.ParseMode = *cfg.Format
	}
	return c
}
