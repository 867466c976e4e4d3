package keygram

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"hash"
	"strings"
)

// DefaultSignLength is the signature length used when none is configured.
const DefaultSignLength = 4

// Payload is a decoded callback payload.
type Payload struct {
	// Signature is empty when signing is disabled.
	Signature string
	Name      string
	Args      []string
}

// Sign returns the first length characters of the base64 SHA-256 digest
// of payload+secret. It panics if length exceeds MaxSignLength(sha256.New).
func Sign(payload, secret string, length int) string {
	return sign(sha256.New, payload, secret, length)
}

func sign(digest func() hash.Hash, payload, secret string, length int) string {
	h := digest()
	h.Write([]byte(payload))
	h.Write([]byte(secret))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))[:length]
}

// MaxSignLength returns the length of the encoded digest, the upper bound
// for a signature length.
func MaxSignLength(digest func() hash.Hash) int {
	return base64.StdEncoding.EncodedLen(digest().Size())
}

// SignerOption configures a Signer.
type SignerOption func(*Signer)

// WithSignerDigest replaces SHA-256 with another digest.
func WithSignerDigest(digest func() hash.Hash) SignerOption {
	return func(s *Signer) {
		s.digest = digest
	}
}

// Signer signs and verifies callback payloads with a fixed secret.
type Signer struct {
	secret string
	length int
	digest func() hash.Hash
}

// NewSigner validates length against the digest and returns a Signer.
func NewSigner(secret string, length int, opts ...SignerOption) (*Signer, error) {
	s := &Signer{
		secret: secret,
		length: length,
		digest: sha256.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.digest == nil {
		return nil, &ConfigError{Field: "digest", Err: errors.New("digest is nil")}
	}
	if limit := MaxSignLength(s.digest); length < 1 || length > limit {
		return nil, &ConfigError{
			Field: "sign length",
			Err:   errors.New("must be between 1 and the encoded digest size"),
		}
	}
	return s, nil
}

// Length returns the signature length.
func (s *Signer) Length() int { return s.length }

// Sign returns the signature of body.
func (s *Signer) Sign(body string) string {
	return sign(s.digest, body, s.secret, s.length)
}

// Verify reports whether signature matches body. The comparison is plain
// string equality.
func (s *Signer) Verify(signature, body string) bool {
	return signature == s.Sign(body)
}

// Seal prefixes body with its signature.
func (s *Signer) Seal(body string) string {
	return s.Sign(body) + " " + body
}

// Decode splits a signed callback payload and verifies it. The returned
// bool is false on a missing or mismatching signature.
func (s *Signer) Decode(data string) (Payload, bool) {
	sig, body, ok := strings.Cut(data, " ")
	if !ok || !s.Verify(sig, body) {
		return Payload{Signature: sig}, false
	}
	p := splitPayload(body)
	p.Signature = sig
	return p, true
}

// splitPayload splits an unsigned body into handler name and raw arguments.
func splitPayload(body string) Payload {
	tokens := strings.Split(body, " ")
	return Payload{Name: tokens[0], Args: tokens[1:]}
}
