package middleware

import (
	"testing"

	"github.com/maxigo-bot/keygram"
)

func TestWhitelist(t *testing.T) {
	tests := []struct {
		name   string
		sender int64
		want   bool
	}{
		{"allowed", 2, true},
		{"blocked", 999, false},
		{"unknown sender", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := Whitelist(1, 2, 3)(func(c keygram.Context) error {
				called = true
				return nil
			})

			if err := handler(&mockContext{sender: tt.sender}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if called != tt.want {
				t.Errorf("called = %v, want %v", called, tt.want)
			}
		})
	}
}

func TestWhitelist_zeroIDNeverAllowed(t *testing.T) {
	called := false
	handler := Whitelist(0)(func(c keygram.Context) error {
		called = true
		return nil
	})

	_ = handler(&mockContext{})
	if called {
		t.Error("an unknown sender must not match a zero id")
	}
}

func TestBlacklist(t *testing.T) {
	tests := []struct {
		name   string
		sender int64
		want   bool
	}{
		{"allowed", 5, true},
		{"blocked", 10, false},
		{"unknown sender", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := Blacklist(10, 20)(func(c keygram.Context) error {
				called = true
				return nil
			})

			if err := handler(&mockContext{sender: tt.sender}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if called != tt.want {
				t.Errorf("called = %v, want %v", called, tt.want)
			}
		})
	}
}

func TestWhitelist_propagatesError(t *testing.T) {
	handler := Whitelist(1)(func(c keygram.Context) error {
		return errForTest("handler error")
	})

	err := handler(&mockContext{sender: 1})
	if err == nil || err.Error() != "handler error" {
		t.Errorf("error = %v, want 'handler error'", err)
	}
}
