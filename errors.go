package keygram

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by registration and configuration.
var (
	ErrAlreadyStarted    = errors.New("keygram: bot is already started")
	ErrHandlerOverride   = errors.New("keygram: handler already registered")
	ErrNamelessHandler   = errors.New("keygram: handler has no name")
	ErrInvalidArgument   = errors.New("keygram: invalid callback argument")
	ErrInvalidCredential = errors.New("keygram: invalid credential")
)

// ErrorKind classifies outbound failures that a bot may choose to swallow.
type ErrorKind int

const (
	// KindParse is a formatting rejection by the remote side
	// (malformed HTML or Markdown entities).
	KindParse ErrorKind = iota + 1
	// KindResourceNotFound is a local media file that does not exist.
	KindResourceNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindResourceNotFound:
		return "resource_not_found"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ConfigError reports an invalid bot configuration. It is always returned
// from New and never from a running bot.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("keygram: config %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// OutboundError is a typed failure of a send or edit call.
type OutboundError struct {
	Kind ErrorKind
	Err  error
}

func (e *OutboundError) Error() string {
	return fmt.Sprintf("keygram: %s: %v", e.Kind, e.Err)
}

func (e *OutboundError) Unwrap() error {
	return e.Err
}

// TransportError is a failed update fetch. It terminates the polling loop.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("keygram: transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// BotError represents an error that occurred while processing an update.
type BotError struct {
	// Endpoint is the handler name or text pattern where the error occurred.
	Endpoint string
	// Err is the underlying error.
	Err error
}

func (e *BotError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("keygram: handler %q: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("keygram: %v", e.Err)
}

func (e *BotError) Unwrap() error {
	return e.Err
}

// KindOf returns the ErrorKind carried by err, or zero if err is not an
// OutboundError.
func KindOf(err error) ErrorKind {
	var oe *OutboundError
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return 0
}
