package middleware

import "testing"

func TestSkippers(t *testing.T) {
	cb := &mockContext{update: callbackUpdate("x")}
	msg := &mockContext{update: messageUpdate("x")}

	if DefaultSkipper(cb) || DefaultSkipper(msg) {
		t.Error("DefaultSkipper should never skip")
	}
	if !SkipCallbacks(cb) || SkipCallbacks(msg) {
		t.Error("SkipCallbacks should skip callbacks only")
	}
	if SkipMessages(cb) || !SkipMessages(msg) {
		t.Error("SkipMessages should skip messages only")
	}
}
