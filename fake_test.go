package keygram

import (
	gocontext "context"
	"fmt"
	"sync"
	"testing"
)

// fakeTransport serves queued batches and records outbound calls. Once the
// queue is drained, Fetch blocks until ctx is done.
type fakeTransport struct {
	mu       sync.Mutex
	batches  [][]Update
	fetchErr error
	cursors  []int64
	acks     []string
	sent     []sentContent
	edits    []editedContent
	sendErr  error
	editErr  error
	ackErr   error

	// drained is closed when the last batch has been handed out.
	drained chan struct{}
}

type sentContent struct {
	ChatID  int64
	Content Content
}

type editedContent struct {
	Ref     MessageRef
	Content Content
}

func newFakeTransport(batches ...[]Update) *fakeTransport {
	return &fakeTransport{batches: batches, drained: make(chan struct{})}
}

func (f *fakeTransport) Fetch(ctx gocontext.Context, cursor int64, _ int) ([]Update, error) {
	f.mu.Lock()
	f.cursors = append(f.cursors, cursor)
	if f.fetchErr != nil {
		err := f.fetchErr
		f.mu.Unlock()
		return nil, err
	}
	if len(f.batches) > 0 {
		batch := f.batches[0]
		f.batches = f.batches[1:]
		if len(f.batches) == 0 {
			close(f.drained)
		}
		f.mu.Unlock()
		return batch, nil
	}
	f.mu.Unlock()

	<-ctx.Done()
	return nil, ctx.Err()
}

func (f *fakeTransport) AnswerCallback(_ gocontext.Context, id, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acks = append(f.acks, id+"|"+text)
	return f.ackErr
}

func (f *fakeTransport) Send(_ gocontext.Context, chatID int64, c Content) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentContent{ChatID: chatID, Content: c})
	return f.sendErr
}

func (f *fakeTransport) Edit(_ gocontext.Context, ref MessageRef, c Content) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, editedContent{Ref: ref, Content: c})
	return f.editErr
}

func (f *fakeTransport) ackList() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.acks...)
}

func (f *fakeTransport) cursorList() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.cursors...)
}

const testToken = "123:k"

// newTestBot builds a bot over a fake transport with the signing secret
// "k" and the default signature length.
func newTestBot(t testing.TB, tr Transport, opts ...Option) *Bot {
	t.Helper()
	opts = append([]Option{WithTransport(tr), WithSecret("k")}, opts...)
	b, err := New(testToken, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b
}

func callback(id int64, data string) Update {
	return Update{
		ID: id,
		Callback: &CallbackEvent{
			ID:     fmt.Sprintf("cb%d", id),
			Data:   data,
			From:   7,
			Origin: &MessageRef{ChatID: 42, MessageID: 100},
		},
	}
}

func message(id int64, text string) Update {
	return Update{
		ID: id,
		Message: &MessageEvent{
			Text:   text,
			From:   7,
			Origin: MessageRef{ChatID: 42, MessageID: id},
		},
	}
}
