package middleware

import (
	gocontext "context"

	"github.com/maxigo-bot/keygram"
)

// mockContext implements keygram.Context for middleware testing.
type mockContext struct {
	update keygram.Update
	sender int64
	chatID int64
	text   string
	store  map[string]any

	replies []string
}

func (m *mockContext) Bot() *keygram.Bot           { return nil }
func (m *mockContext) Update() keygram.Update      { return m.update }
func (m *mockContext) Ctx() gocontext.Context      { return gocontext.Background() }
func (m *mockContext) Sender() int64               { return m.sender }
func (m *mockContext) Chat() int64                 { return m.chatID }
func (m *mockContext) Origin() *keygram.MessageRef { return nil }
func (m *mockContext) Text() string                { return m.text }
func (m *mockContext) Args() keygram.Args          { return nil }

func (m *mockContext) Edit(_ string, _ ...keygram.SendOption) error { return nil }

func (m *mockContext) Data() string {
	if m.update.Callback != nil {
		return m.update.Callback.Data
	}
	return ""
}

func (m *mockContext) Reply(text string, _ ...keygram.SendOption) error {
	m.replies = append(m.replies, text)
	return nil
}

func (m *mockContext) Get(key string) any {
	if m.store == nil {
		return nil
	}
	return m.store[key]
}

func (m *mockContext) Set(key string, val any) {
	if m.store == nil {
		m.store = make(map[string]any)
	}
	m.store[key] = val
}

func callbackUpdate(data string) keygram.Update {
	return keygram.Update{ID: 1, Callback: &keygram.CallbackEvent{ID: "cb1", Data: data}}
}

func messageUpdate(text string) keygram.Update {
	return keygram.Update{ID: 2, Message: &keygram.MessageEvent{Text: text}}
}

// errForTest is a simple error for testing.
type errForTest string

func (e errForTest) Error() string { return string(e) }
