// Package telegram implements keygram.Transport over the Telegram Bot API.
package telegram

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/maxigo-bot/keygram"
)

// parseFailure is the description Telegram returns when formatted text
// cannot be parsed.
const parseFailure = "can't parse entities"

// emptyData replaces empty button payloads, which Telegram rejects.
const emptyData = " "

// Option configures a Transport.
type Option func(*config)

type config struct {
	endpoint string
	client   tgbotapi.HTTPClient
	limit    int
	allowed  []string
}

// WithAPIEndpoint sets the Bot API URL template. It takes the token and the
// method name, like tgbotapi.APIEndpoint.
func WithAPIEndpoint(endpoint string) Option {
	return func(c *config) {
		c.endpoint = endpoint
	}
}

// WithHTTPClient sets the HTTP client used for API calls. Its timeout must
// exceed the long-polling timeout.
func WithHTTPClient(client tgbotapi.HTTPClient) Option {
	return func(c *config) {
		c.client = client
	}
}

// WithLimit caps the number of updates per fetch (1-100, 0 = server default).
func WithLimit(n int) Option {
	return func(c *config) {
		c.limit = n
	}
}

// WithAllowedUpdates restricts the update kinds Telegram delivers.
func WithAllowedUpdates(kinds ...string) Option {
	return func(c *config) {
		c.allowed = kinds
	}
}

// Transport talks to the Telegram Bot API.
type Transport struct {
	api     *tgbotapi.BotAPI
	limit   int
	allowed []string
}

var _ keygram.Transport = (*Transport)(nil)

// New connects to the Bot API and verifies the token with getMe.
func New(token string, opts ...Option) (*Transport, error) {
	cfg := config{
		endpoint: tgbotapi.APIEndpoint,
		client:   &http.Client{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	api, err := tgbotapi.NewBotAPIWithClient(token, cfg.endpoint, cfg.client)
	if err != nil {
		return nil, &keygram.TransportError{Op: "getMe", Err: err}
	}
	return &Transport{api: api, limit: cfg.limit, allowed: cfg.allowed}, nil
}

// NewWithAPI wraps an existing API client. Endpoint and client options are
// ignored.
func NewWithAPI(api *tgbotapi.BotAPI, opts ...Option) *Transport {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Transport{api: api, limit: cfg.limit, allowed: cfg.allowed}
}

// API returns the underlying client for calls keygram does not cover.
func (t *Transport) API() *tgbotapi.BotAPI { return t.api }

// Fetch long-polls getUpdates from cursor.
func (t *Transport) Fetch(ctx context.Context, cursor int64, timeout int) ([]keygram.Update, error) {
	req := tgbotapi.UpdateConfig{
		Offset:         int(cursor),
		Limit:          t.limit,
		Timeout:        timeout,
		AllowedUpdates: t.allowed,
	}

	var raw []tgbotapi.Update
	err := call(ctx, func() error {
		var err error
		raw, err = t.api.GetUpdates(req)
		return err
	})
	if err != nil {
		return nil, err
	}

	updates := make([]keygram.Update, 0, len(raw))
	for _, u := range raw {
		updates = append(updates, convertUpdate(u))
	}
	return updates, nil
}

// AnswerCallback answers a callback query.
func (t *Transport) AnswerCallback(ctx context.Context, id, text string) error {
	return t.request(ctx, tgbotapi.NewCallback(id, text))
}

// Send posts a text message, or a photo with caption when c.Photo is set.
func (t *Transport) Send(ctx context.Context, chatID int64, c keygram.Content) error {
	kb := markup(c.Keyboard)

	if c.Photo != "" {
		file, err := photoFile(c)
		if err != nil {
			return err
		}
		msg := tgbotapi.NewPhoto(chatID, file)
		msg.Caption = c.Text
		msg.ParseMode = c.ParseMode
		if kb != nil {
			msg.ReplyMarkup = *kb
		}
		return t.request(ctx, msg)
	}

	msg := tgbotapi.NewMessage(chatID, c.Text)
	msg.ParseMode = c.ParseMode
	if kb != nil {
		msg.ReplyMarkup = *kb
	}
	return t.request(ctx, msg)
}

// Edit replaces the media when c.Photo is set, the caption when the
// message carries media, and the text otherwise.
func (t *Transport) Edit(ctx context.Context, ref keygram.MessageRef, c keygram.Content) error {
	base := tgbotapi.BaseEdit{
		ChatID:      ref.ChatID,
		MessageID:   int(ref.MessageID),
		ReplyMarkup: markup(c.Keyboard),
	}

	switch {
	case c.Photo != "":
		file, err := photoFile(c)
		if err != nil {
			return err
		}
		media := tgbotapi.NewInputMediaPhoto(file)
		media.Caption = c.Text
		media.ParseMode = c.ParseMode
		return t.request(ctx, tgbotapi.EditMessageMediaConfig{BaseEdit: base, Media: media})
	case ref.Media:
		return t.request(ctx, tgbotapi.EditMessageCaptionConfig{
			BaseEdit:  base,
			Caption:   c.Text,
			ParseMode: c.ParseMode,
		})
	default:
		return t.request(ctx, tgbotapi.EditMessageTextConfig{
			BaseEdit:  base,
			Text:      c.Text,
			ParseMode: c.ParseMode,
		})
	}
}

func (t *Transport) request(ctx context.Context, c tgbotapi.Chattable) error {
	return classify(call(ctx, func() error {
		_, err := t.api.Request(c)
		return err
	}))
}

// call runs fn and returns early when ctx is done. The client has no
// context support, so an abandoned request runs to completion in the
// background.
func call(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() { done <- fn() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// classify tags API errors with the keygram error kind they map to.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) && strings.Contains(apiErr.Message, parseFailure) {
		return &keygram.OutboundError{Kind: keygram.KindParse, Err: err}
	}
	return err
}

// photoFile resolves c.Photo to a local upload, a URL or a file id.
func photoFile(c keygram.Content) (tgbotapi.RequestFileData, error) {
	switch {
	case c.IsLocalFile():
		if _, err := os.Stat(c.Photo); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, &keygram.OutboundError{Kind: keygram.KindResourceNotFound, Err: err}
			}
			return nil, err
		}
		return tgbotapi.FilePath(c.Photo), nil
	case strings.Contains(c.Photo, "://"):
		return tgbotapi.FileURL(c.Photo), nil
	default:
		return tgbotapi.FileID(c.Photo), nil
	}
}

func markup(rows [][]keygram.Button) *tgbotapi.InlineKeyboardMarkup {
	if len(rows) == 0 {
		return nil
	}
	out := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			data := b.Data
			if data == "" {
				data = emptyData
			}
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, data))
		}
		out = append(out, buttons)
	}
	if len(out) == 0 {
		return nil
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(out...)
	return &kb
}

func convertUpdate(u tgbotapi.Update) keygram.Update {
	out := keygram.Update{ID: int64(u.UpdateID), Raw: u}
	switch {
	case u.CallbackQuery != nil:
		q := u.CallbackQuery
		ev := &keygram.CallbackEvent{ID: q.ID, Data: q.Data}
		if q.From != nil {
			ev.From = q.From.ID
		}
		if q.Message != nil {
			ref := messageRef(q.Message)
			ev.Origin = &ref
		}
		out.Callback = ev
	case u.Message != nil:
		ev := &keygram.MessageEvent{Text: u.Message.Text, Origin: messageRef(u.Message)}
		if u.Message.From != nil {
			ev.From = u.Message.From.ID
		}
		out.Message = ev
	}
	return out
}

func messageRef(m *tgbotapi.Message) keygram.MessageRef {
	ref := keygram.MessageRef{
		MessageID: int64(m.MessageID),
		Media:     m.Text == "",
	}
	if m.Chat != nil {
		ref.ChatID = m.Chat.ID
	}
	return ref
}
