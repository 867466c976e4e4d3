// Package middleware provides built-in middleware for keygram bots.
package middleware

import "github.com/maxigo-bot/keygram"

// Skipper defines a function to skip middleware.
// Returning true skips the middleware and calls the next handler directly.
type Skipper func(c keygram.Context) bool

// DefaultSkipper never skips.
func DefaultSkipper(_ keygram.Context) bool { return false }

// SkipCallbacks skips button presses, applying the middleware to text
// handlers only.
func SkipCallbacks(c keygram.Context) bool { return c.Update().Callback != nil }

// SkipMessages skips text messages, applying the middleware to callback
// handlers only.
func SkipMessages(c keygram.Context) bool { return c.Update().Message != nil }
