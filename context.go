package keygram

import (
	gocontext "context"
	"errors"
	"sync"
)

// Sentinel errors returned by Context methods.
var (
	ErrNoChatID  = errors.New("keygram: no chat ID available for this update")
	ErrNoMessage = errors.New("keygram: no message available for this update")
)

// Context gives a handler access to the current update and lets it answer
// without knowing chat or message identifiers.
type Context interface {
	// Bot returns the parent Bot instance.
	Bot() *Bot
	// Update returns the update being handled.
	Update() Update
	// Ctx returns the polling loop's context.Context for cancellation.
	Ctx() gocontext.Context

	// Sender returns the id of the user who triggered the update.
	Sender() int64
	// Chat returns the chat ID where the update occurred (0 if unavailable).
	Chat() int64
	// Origin returns the message the update refers to (nil if none).
	Origin() *MessageRef

	// Text returns the message text (empty for callbacks).
	Text() string
	// Data returns the raw callback payload (empty for messages).
	Data() string
	// Args returns the decoded callback arguments (nil for messages).
	Args() Args

	// Reply sends a new message to the chat the update came from.
	Reply(text string, opts ...SendOption) error
	// Edit changes the message the update refers to.
	Edit(text string, opts ...SendOption) error

	// Get retrieves a value from the context store.
	Get(key string) any
	// Set stores a value in the context store (thread-safe).
	Set(key string, val any)
}

// baseContext holds what both update kinds share.
type baseContext struct {
	bot     *Bot
	update  Update
	ctx     gocontext.Context
	store   map[string]any
	storeMu sync.RWMutex
}

func (c *baseContext) Bot() *Bot      { return c.bot }
func (c *baseContext) Update() Update { return c.update }

func (c *baseContext) Ctx() gocontext.Context {
	if c.ctx != nil {
		return c.ctx
	}
	return gocontext.Background()
}

func (c *baseContext) Get(key string) any {
	c.storeMu.RLock()
	defer c.storeMu.RUnlock()
	return c.store[key]
}

func (c *baseContext) Set(key string, val any) {
	c.storeMu.Lock()
	defer c.storeMu.Unlock()
	if c.store == nil {
		c.store = make(map[string]any)
	}
	c.store[key] = val
}

func (c *baseContext) send(chatID int64, text string, opts []SendOption) error {
	if chatID == 0 {
		return &BotError{Err: ErrNoChatID}
	}
	content := toContent(text, buildSendConfig(opts), c.bot.parseMode)
	return c.bot.filter(c.bot.transport.Send(c.Ctx(), chatID, content))
}

func (c *baseContext) edit(ref *MessageRef, text string, opts []SendOption) error {
	if ref == nil {
		return &BotError{Err: ErrNoMessage}
	}
	content := toContent(text, buildSendConfig(opts), c.bot.parseMode)
	return c.bot.filter(c.bot.transport.Edit(c.Ctx(), *ref, content))
}

// callbackContext is the Context of a button press.
type callbackContext struct {
	baseContext
	event *CallbackEvent
	args  Args
}

func (c *callbackContext) Sender() int64       { return c.event.From }
func (c *callbackContext) Origin() *MessageRef { return c.event.Origin }
func (c *callbackContext) Text() string        { return "" }
func (c *callbackContext) Data() string        { return c.event.Data }
func (c *callbackContext) Args() Args          { return c.args }

// Chat falls back to the pressing user's private chat when the button
// belongs to an inline message.
func (c *callbackContext) Chat() int64 {
	if c.event.Origin != nil {
		return c.event.Origin.ChatID
	}
	return c.event.From
}

func (c *callbackContext) Reply(text string, opts ...SendOption) error {
	return c.send(c.Chat(), text, opts)
}

func (c *callbackContext) Edit(text string, opts ...SendOption) error {
	return c.edit(c.event.Origin, text, opts)
}

// messageContext is the Context of an inbound message.
type messageContext struct {
	baseContext
	event *MessageEvent
}

func (c *messageContext) Sender() int64       { return c.event.From }
func (c *messageContext) Chat() int64         { return c.event.Origin.ChatID }
func (c *messageContext) Origin() *MessageRef { return &c.event.Origin }
func (c *messageContext) Text() string        { return c.event.Text }
func (c *messageContext) Data() string        { return "" }
func (c *messageContext) Args() Args          { return nil }

func (c *messageContext) Reply(text string, opts ...SendOption) error {
	return c.send(c.Chat(), text, opts)
}

func (c *messageContext) Edit(text string, opts ...SendOption) error {
	return c.edit(&c.event.Origin, text, opts)
}

// newContext builds the Context for an update, or nil for updates the
// router does not handle.
func (b *Bot) newContext(ctx gocontext.Context, u Update, args Args) Context {
	switch {
	case u.Callback != nil:
		c := &callbackContext{event: u.Callback, args: args}
		c.bot, c.update, c.ctx = b, u, ctx
		return c
	case u.Message != nil:
		c := &messageContext{event: u.Message}
		c.bot, c.update, c.ctx = b, u, ctx
		return c
	}
	return nil
}
