package keygram

import "regexp"

// HandlerFunc handles a text message update.
type HandlerFunc func(c Context) error

// CallbackFunc handles a button press. Args are the decoded arguments
// encoded into the button.
type CallbackFunc func(c Context, args Args) error

// MiddlewareFunc defines a middleware that wraps a handler.
type MiddlewareFunc func(next HandlerFunc) HandlerFunc

// applyMiddleware wraps a handler with middleware in order.
// Middleware is applied so that the first in the slice executes first (outermost).
func applyMiddleware(h HandlerFunc, middleware ...MiddlewareFunc) HandlerFunc {
	// Apply in reverse so middleware[0] is outermost.
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return h
}

// callbackEntry stores a callback handler with its group middleware.
type callbackEntry struct {
	fn         CallbackFunc
	middleware []MiddlewareFunc
}

// textEntry stores a text handler with its pattern and group middleware.
type textEntry struct {
	re         *regexp.Regexp
	handler    HandlerFunc
	middleware []MiddlewareFunc
}
