// Package maxapi implements keygram.Transport over the Max Bot API.
package maxapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	maxigo "github.com/maxigo-bot/maxigo-client"
	"github.com/sirupsen/logrus"

	"github.com/maxigo-bot/keygram"
)

const defaultLimit = 100

// ErrUnsupportedPhoto is returned for photos that are not http(s) URLs.
// The Max API takes remote photos by URL only.
var ErrUnsupportedPhoto = errors.New("maxapi: photo must be an http(s) URL")

// Option configures a Transport.
type Option func(*Transport)

// WithClient injects a pre-configured maxigo-client (useful for testing).
func WithClient(c *maxigo.Client) Option {
	return func(t *Transport) {
		t.client = c
	}
}

// WithBaseURL points the client at another API host.
func WithBaseURL(url string) Option {
	return func(t *Transport) {
		t.baseURL = url
	}
}

// WithUpdateTypes filters which update types to receive. Empty means all.
func WithUpdateTypes(types ...string) Option {
	return func(t *Transport) {
		t.types = types
	}
}

// WithLimit caps the number of updates per fetch.
func WithLimit(n int) Option {
	return func(t *Transport) {
		t.limit = n
	}
}

// WithLogger sets the logger for malformed updates.
func WithLogger(l logrus.FieldLogger) Option {
	return func(t *Transport) {
		t.logger = l
	}
}

// Transport talks to the Max Bot API.
//
// Max updates carry no sequence number and markers are opaque. The cursor
// is always a marker the server issued: every update of a batch is numbered
// cursor-1, except the last, which is numbered M-1 for the returned marker M.
// The cursor moves to M only once the whole batch is routed, so a process
// stopped mid-batch replays that batch. Without a returned marker the cursor
// stays put.
type Transport struct {
	client  *maxigo.Client
	baseURL string
	types   []string
	limit   int
	logger  logrus.FieldLogger
}

var _ keygram.Transport = (*Transport)(nil)

// New creates a Transport for the given token.
func New(token string, opts ...Option) (*Transport, error) {
	t := &Transport{
		limit:  defaultLimit,
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.client == nil {
		var (
			c   *maxigo.Client
			err error
		)
		if t.baseURL != "" {
			c, err = maxigo.New(token, maxigo.WithBaseURL(t.baseURL))
		} else {
			c, err = maxigo.New(token)
		}
		if err != nil {
			return nil, fmt.Errorf("maxapi: create client: %w", err)
		}
		t.client = c
	}
	return t, nil
}

// Client returns the underlying maxigo-client for calls keygram does not cover.
func (t *Transport) Client() *maxigo.Client { return t.client }

// Fetch long-polls GetUpdates with cursor as the marker.
func (t *Transport) Fetch(ctx context.Context, cursor int64, timeout int) ([]keygram.Update, error) {
	list, err := t.client.GetUpdates(ctx, maxigo.GetUpdatesOpts{
		Timeout: timeout,
		Marker:  cursor,
		Types:   t.types,
		Limit:   t.limit,
	})
	if err != nil {
		return nil, err
	}

	// Unknown and malformed updates are kept as raw JSON so the batch still
	// carries the returned marker to the poller.
	parsed := make([]any, 0, len(list.Updates))
	for _, raw := range list.Updates {
		upd, err := ParseUpdate(raw)
		if err != nil {
			t.logger.WithError(err).Warn("malformed update passed on unparsed")
			upd = raw
		}
		if upd == nil {
			upd = raw
		}
		parsed = append(parsed, upd)
	}

	next := cursor
	if list.Marker != nil {
		next = *list.Marker
	}

	updates := make([]keygram.Update, len(parsed))
	for i, upd := range parsed {
		id := cursor - 1
		if i == len(parsed)-1 {
			id = next - 1
		}
		updates[i] = convertUpdate(id, upd)
	}
	return updates, nil
}

// AnswerCallback answers a button press with a notification.
func (t *Transport) AnswerCallback(ctx context.Context, id, text string) error {
	_, err := t.client.AnswerCallback(ctx, id, &maxigo.CallbackAnswer{
		Notification: maxigo.Some(text),
	})
	return err
}

// Send posts a message to chatID.
func (t *Transport) Send(ctx context.Context, chatID int64, c keygram.Content) error {
	body, err := toMessageBody(c)
	if err != nil {
		return err
	}
	_, err = t.client.SendMessage(ctx, chatID, body)
	return err
}

// Edit replaces the body of the message identified by ref.MID.
func (t *Transport) Edit(ctx context.Context, ref keygram.MessageRef, c keygram.Content) error {
	if ref.MID == "" {
		return &keygram.BotError{Err: keygram.ErrNoMessage}
	}
	body, err := toMessageBody(c)
	if err != nil {
		return err
	}
	_, err = t.client.EditMessage(ctx, ref.MID, body)
	return err
}

// toMessageBody converts keygram content into a maxigo NewMessageBody.
func toMessageBody(c keygram.Content) (*maxigo.NewMessageBody, error) {
	body := &maxigo.NewMessageBody{
		Text: maxigo.Some(c.Text),
	}

	switch strings.ToLower(c.ParseMode) {
	case "html":
		body.Format = maxigo.Some(maxigo.FormatHTML)
	case "markdown", "markdownv2":
		body.Format = maxigo.Some(maxigo.FormatMarkdown)
	}

	var attachments []maxigo.AttachmentRequest
	if c.Photo != "" {
		url, err := photoURL(c)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, maxigo.NewPhotoAttachment(maxigo.PhotoAttachmentRequestPayload{
			URL: maxigo.Some(url),
		}))
	}
	if len(c.Keyboard) > 0 {
		rows, err := keyboardRows(c.Keyboard)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, maxigo.NewInlineKeyboardAttachment(rows))
	}
	if len(attachments) > 0 {
		body.Attachments = attachments
	}
	return body, nil
}

func photoURL(c keygram.Content) (string, error) {
	if c.IsLocalFile() {
		if _, err := os.Stat(c.Photo); errors.Is(err, fs.ErrNotExist) {
			return "", &keygram.OutboundError{Kind: keygram.KindResourceNotFound, Err: err}
		}
		return "", ErrUnsupportedPhoto
	}
	if !strings.HasPrefix(c.Photo, "http://") && !strings.HasPrefix(c.Photo, "https://") {
		return "", ErrUnsupportedPhoto
	}
	return c.Photo, nil
}

// callbackButton is the wire form of a Max callback button.
type callbackButton struct {
	Type    string `json:"type"`
	Text    string `json:"text"`
	Payload string `json:"payload"`
}

// keyboardRows converts keygram buttons into callback buttons. Empty data
// is sent as a single space, as on every transport.
func keyboardRows(rows [][]keygram.Button) ([][]maxigo.Button, error) {
	out := make([][]maxigo.Button, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		buttons := make([]maxigo.Button, 0, len(row))
		for _, b := range row {
			data := b.Data
			if data == "" {
				data = " "
			}
			raw, err := json.Marshal(callbackButton{Type: "callback", Text: b.Text, Payload: data})
			if err != nil {
				return nil, err
			}
			var btn maxigo.Button
			if err := json.Unmarshal(raw, &btn); err != nil {
				return nil, fmt.Errorf("maxapi: button %q: %w", b.Text, err)
			}
			buttons = append(buttons, btn)
		}
		out = append(out, buttons)
	}
	return out, nil
}
