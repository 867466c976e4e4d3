package middleware

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/maxigo-bot/keygram"
)

// ErrPanic wraps every panic turned into an error by Recover.
var ErrPanic = errors.New("panic recovered")

// RecoverConfig defines the config for Recover middleware.
type RecoverConfig struct {
	// Skipper defines a function to skip this middleware.
	Skipper Skipper

	// StackSize is the maximum size of the stack trace to capture (in bytes).
	// Default: 4 KB.
	StackSize int

	// PrintStack controls whether the stack trace is included in the error.
	PrintStack bool
}

// DefaultRecoverConfig is the default Recover middleware config.
var DefaultRecoverConfig = RecoverConfig{
	Skipper:    DefaultSkipper,
	StackSize:  4 << 10,
	PrintStack: true,
}

// Recover returns a Recover middleware with default config.
func Recover() keygram.MiddlewareFunc {
	return RecoverWithConfig(DefaultRecoverConfig)
}

// RecoverWithConfig returns a Recover middleware with custom config. The
// bot already survives handler panics; Recover lets middleware further
// out see the panic as an ordinary error matching ErrPanic.
func RecoverWithConfig(cfg RecoverConfig) keygram.MiddlewareFunc {
	if cfg.Skipper == nil {
		cfg.Skipper = DefaultRecoverConfig.Skipper
	}
	if cfg.StackSize == 0 {
		cfg.StackSize = DefaultRecoverConfig.StackSize
	}

	return func(next keygram.HandlerFunc) keygram.HandlerFunc {
		return func(c keygram.Context) (err error) {
			if cfg.Skipper(c) {
				return next(c)
			}

			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if !cfg.PrintStack {
					err = fmt.Errorf("%w: %v", ErrPanic, r)
					return
				}
				stack := debug.Stack()
				if len(stack) > cfg.StackSize {
					stack = stack[:cfg.StackSize]
				}
				err = fmt.Errorf("%w: %v\n%s", ErrPanic, r, stack)
			}()

			return next(c)
		}
	}
}
