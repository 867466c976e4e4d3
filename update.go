package keygram

import gocontext "context"

// MessageRef points at a message on the remote side. Handlers never see
// it directly; Context.Reply and Context.Edit dereference it.
type MessageRef struct {
	ChatID    int64
	MessageID int64
	// MID is the message key for transports that address messages by
	// string rather than by (chat, message) pair.
	MID string
	// Media reports that the message carries media, so its text is a caption.
	Media bool
}

// CallbackEvent is a button press.
type CallbackEvent struct {
	ID string
	// Data is the raw callback payload.
	Data string
	// From is the user who pressed the button.
	From int64
	// Origin is the message carrying the button, nil for inline messages.
	Origin *MessageRef
}

// MessageEvent is an inbound message.
type MessageEvent struct {
	Text   string
	From   int64
	Origin MessageRef
}

// Update is one inbound event. At most one of Callback and Message is set;
// updates of other kinds carry neither and are only seen by the update
// observer.
type Update struct {
	// ID positions the update for the polling cursor, which moves to ID+1
	// once the update is routed. Transports without sequence numbers may
	// repeat an ID within a batch.
	ID       int64
	Callback *CallbackEvent
	Message  *MessageEvent
	// Raw is the transport-native update.
	Raw any
}

// Button is one inline keyboard button.
type Button struct {
	Text string
	// Data is the callback payload. Empty data is sent as a single space.
	Data string
}

// Content is an outbound message body.
type Content struct {
	// Text is the message text, or the caption when Photo is set.
	Text string
	// Photo is a remote file id, a URL, or a local path starting with "." or "/".
	Photo     string
	ParseMode string
	Keyboard  [][]Button
}

// IsLocalFile reports whether Photo refers to a local file.
func (c Content) IsLocalFile() bool {
	return len(c.Photo) > 0 && (c.Photo[0] == '.' || c.Photo[0] == '/')
}

// Transport is the remote endpoint a bot polls and writes to.
type Transport interface {
	// Fetch returns updates with ID >= cursor, blocking server-side for up
	// to timeout seconds when none are pending.
	Fetch(ctx gocontext.Context, cursor int64, timeout int) ([]Update, error)
	// AnswerCallback confirms a button press so the client stops its
	// loading indicator.
	AnswerCallback(ctx gocontext.Context, id, text string) error
	// Send posts a new message to a chat.
	Send(ctx gocontext.Context, chatID int64, c Content) error
	// Edit replaces the text, caption or media of an existing message.
	Edit(ctx gocontext.Context, ref MessageRef, c Content) error
}
