package keygram

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestBotError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *BotError
		wantMsg string
	}{
		{
			"with endpoint",
			&BotError{Endpoint: "next", Err: io.EOF},
			`keygram: handler "next": EOF`,
		},
		{
			"without endpoint",
			&BotError{Err: io.EOF},
			"keygram: EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestBotError_Unwrap(t *testing.T) {
	err := &BotError{Endpoint: "next", Err: io.EOF}

	if !errors.Is(err, io.EOF) {
		t.Error("errors.Is should match inner error")
	}

	var botErr *BotError
	if !errors.As(err, &botErr) {
		t.Error("errors.As should match *BotError")
	}
	if botErr.Endpoint != "next" {
		t.Errorf("Endpoint = %q, want %q", botErr.Endpoint, "next")
	}
}

func TestTypedErrors_Unwrap(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"config", &ConfigError{Field: "token", Err: io.EOF}},
		{"outbound", &OutboundError{Kind: KindParse, Err: io.EOF}},
		{"transport", &TransportError{Op: "fetch", Err: io.EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, io.EOF) {
				t.Errorf("%v should unwrap to io.EOF", tt.err)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, 0},
		{"plain", io.EOF, 0},
		{"parse", &OutboundError{Kind: KindParse, Err: io.EOF}, KindParse},
		{"wrapped", fmt.Errorf("send: %w", &OutboundError{Kind: KindResourceNotFound, Err: io.EOF}), KindResourceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorKind_String(t *testing.T) {
	if KindParse.String() != "parse" {
		t.Errorf("KindParse = %q", KindParse.String())
	}
	if KindResourceNotFound.String() != "resource_not_found" {
		t.Errorf("KindResourceNotFound = %q", KindResourceNotFound.String())
	}
	if ErrorKind(9).String() != "kind(9)" {
		t.Errorf("unknown kind = %q", ErrorKind(9).String())
	}
}
