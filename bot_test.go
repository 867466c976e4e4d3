package keygram

import (
	"crypto/sha256"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"golang.org/x/crypto/sha3"
)

func TestNew_credential(t *testing.T) {
	tr := newFakeTransport()

	tests := []struct {
		name  string
		token string
		field string
	}{
		{"empty", "", "token"},
		{"no separator", "123abc", "token"},
		{"non-numeric id", "abc:def", "token"},
		{"zero id", "0:def", "token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.token, WithTransport(tr))
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("error = %v, want *ConfigError", err)
			}
			if ce.Field != tt.field {
				t.Errorf("Field = %q, want %q", ce.Field, tt.field)
			}
			if !errors.Is(err, ErrInvalidCredential) {
				t.Errorf("error = %v, want ErrInvalidCredential", err)
			}
		})
	}
}

func TestNew_requiresTransport(t *testing.T) {
	_, err := New(testToken)
	var ce *ConfigError
	if !errors.As(err, &ce) || ce.Field != "transport" {
		t.Errorf("error = %v, want transport config error", err)
	}
}

func TestNew_defaults(t *testing.T) {
	b, err := New("123456:secret", WithTransport(newFakeTransport()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.ID() != 123456 {
		t.Errorf("ID() = %d, want 123456", b.ID())
	}
	if b.Signer() == nil {
		t.Fatal("signing should be on by default")
	}
	if b.Signer().Length() != DefaultSignLength {
		t.Errorf("sign length = %d, want %d", b.Signer().Length(), DefaultSignLength)
	}
	if b.timeout != defaultTimeout {
		t.Errorf("timeout = %d, want %d", b.timeout, defaultTimeout)
	}
	// The credential is the default secret.
	if got, want := b.Signer().Sign("next"), Sign("next", "123456:secret", 4); got != want {
		t.Errorf("signature = %q, want %q", got, want)
	}
}

func TestNew_options(t *testing.T) {
	logger, _ := test.NewNullLogger()
	b, err := New("token-without-id",
		WithTransport(newFakeTransport()),
		WithBotID(99),
		WithLongPolling(60),
		WithSignLength(10),
		WithSecret("s"),
		WithDigest(sha3.New256),
		WithParseMode("HTML"),
		WithLogger(logger),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.ID() != 99 {
		t.Errorf("ID() = %d, want 99", b.ID())
	}
	if b.timeout != 60 {
		t.Errorf("timeout = %d, want 60", b.timeout)
	}
	if b.parseMode != "HTML" {
		t.Errorf("parseMode = %q", b.parseMode)
	}

	want, _ := NewSigner("s", 10, WithSignerDigest(sha3.New256))
	if b.Signer().Sign("next") != want.Sign("next") {
		t.Error("signer ignores secret, length or digest options")
	}
}

func TestNew_invalidSignLength(t *testing.T) {
	_, err := New(testToken, WithTransport(newFakeTransport()), WithSignLength(45))
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %v, want *ConfigError", err)
	}

	// Without signing the length is not validated.
	if _, err := New(testToken, WithTransport(newFakeTransport()), WithSigning(false), WithSignLength(45)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNew_nonPositiveTimeout(t *testing.T) {
	b := newTestBot(t, newFakeTransport(), WithLongPolling(0))
	if b.timeout != defaultTimeout {
		t.Errorf("timeout = %d, want default", b.timeout)
	}
}

func TestBot_Action(t *testing.T) {
	b := newTestBot(t, newFakeTransport())

	data, err := b.Action("next", false, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := Sign("next false 5", "k", 4) + " next false 5"; data != want {
		t.Errorf("Action = %q, want %q", data, want)
	}

	unsigned := newTestBot(t, newFakeTransport(), WithSigning(false))
	data, _ = unsigned.Action("next", false, 5)
	if data != "next false 5" {
		t.Errorf("unsigned Action = %q", data)
	}

	if _, err := b.Action("next", "two words"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("error = %v, want ErrInvalidArgument", err)
	}
}

func TestBot_ActionFor(t *testing.T) {
	b := newTestBot(t, newFakeTransport())

	data, err := b.ActionFor(nextPage, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, _ := b.Action("nextPage", 2); data != want {
		t.Errorf("ActionFor = %q, want %q", data, want)
	}

	_, err = b.ActionFor(func(c Context, args Args) error { return nil })
	if !errors.Is(err, ErrNamelessHandler) {
		t.Errorf("error = %v, want ErrNamelessHandler", err)
	}
}

func TestBot_Register(t *testing.T) {
	b := newTestBot(t, newFakeTransport())

	if err := b.Register("next", nextPage); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !b.HasHandler("next") {
		t.Error("HasHandler(next) = false")
	}
	if err := b.Register("next", nextPage); !errors.Is(err, ErrHandlerOverride) {
		t.Errorf("error = %v, want ErrHandlerOverride", err)
	}

	overriding := newTestBot(t, newFakeTransport(), WithOverride(true))
	_ = overriding.Register("next", nextPage)
	if err := overriding.Register("next", nextPage); err != nil {
		t.Errorf("override should be allowed: %v", err)
	}
}

func TestBot_RegisterFunc(t *testing.T) {
	b := newTestBot(t, newFakeTransport())
	if err := b.RegisterFunc(nextPage); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !b.HasHandler("nextPage") {
		t.Error("handler not registered under its function name")
	}

	lax := newTestBot(t, newFakeTransport(), WithNamedHandlers(false))
	if err := lax.RegisterFunc(func(c Context, args Args) error { return nil }); err != nil {
		t.Errorf("closures should register when names are optional: %v", err)
	}
}

func TestBot_MustRegister(t *testing.T) {
	b := newTestBot(t, newFakeTransport())
	b.MustRegister("next", nextPage)

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrHandlerOverride) {
			t.Errorf("recovered %v, want ErrHandlerOverride", r)
		}
	}()
	b.MustRegister("next", nextPage)
}

func TestBot_ShouldThrow(t *testing.T) {
	b := newTestBot(t, newFakeTransport(), WithSuppressed(KindParse))

	if b.ShouldThrow(KindParse) {
		t.Error("suppressed kind should not throw")
	}
	if !b.ShouldThrow(KindResourceNotFound) {
		t.Error("other kinds should throw")
	}
}

func TestBot_filter(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	b := newTestBot(t, newFakeTransport(), WithSuppressed(KindResourceNotFound), WithLogger(logger))

	if err := b.filter(nil); err != nil {
		t.Errorf("filter(nil) = %v", err)
	}
	if err := b.filter(&OutboundError{Kind: KindResourceNotFound, Err: errors.New("gone")}); err != nil {
		t.Errorf("suppressed error returned: %v", err)
	}
	if hook.LastEntry() == nil || hook.LastEntry().Level != logrus.DebugLevel {
		t.Error("suppressed error should be logged at debug level")
	}
	parse := &OutboundError{Kind: KindParse, Err: errors.New("bad html")}
	if err := b.filter(parse); err != parse {
		t.Errorf("filter(parse) = %v, want the error itself", err)
	}
}

func TestBot_StopTwice(t *testing.T) {
	b := newTestBot(t, newFakeTransport())
	b.Stop()
	b.Stop()
}

func TestBot_digestDefault(t *testing.T) {
	b := newTestBot(t, newFakeTransport())
	want, _ := NewSigner("k", 4, WithSignerDigest(sha256.New))
	if b.Signer().Sign("x") != want.Sign("x") {
		t.Error("default digest should be SHA-256")
	}
}
