// Package fieldcrypt opens request fields that clients seal before sending.
package fieldcrypt

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

// Prefix marks a sealed value. Anything else is treated as plain text.
const Prefix = "enc:"

var (
	ErrMalformed = errors.New("fieldcrypt: malformed sealed value")
	ErrNoKey     = errors.New("fieldcrypt: sealed value received but no key configured")
)

// Decoder turns a possibly-sealed client value into plain text.
type Decoder interface {
	Decode(value string) (string, error)
}

// XChaCha opens values of the form "enc:" + base64(nonce || ciphertext)
// sealed with XChaCha20-Poly1305.
type XChaCha struct {
	key []byte
}

// New builds a decoder from a base64 encoded 32 byte key. An empty key yields a
// decoder that passes plain values through and rejects sealed ones.
func New(b64Key string) (*XChaCha, error) {
	if b64Key == "" {
		return &XChaCha{}, nil
	}
	key, err := base64.StdEncoding.DecodeString(b64Key)
	if err != nil {
		return nil, err
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, errors.New("fieldcrypt: key must be 32 bytes")
	}
	return &XChaCha{key: key}, nil
}

func (x *XChaCha) Decode(value string) (string, error) {
	if !strings.HasPrefix(value, Prefix) {
		return value, nil
	}
	if len(x.key) == 0 {
		return "", ErrNoKey
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, Prefix))
	if err != nil {
		return "", ErrMalformed
	}
	aead, err := chacha20poly1305.NewX(x.key)
	if err != nil {
		return "", err
	}
	if len(raw) < aead.NonceSize()+aead.Overhead() {
		return "", ErrMalformed
	}
	nonce, ct := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	pt, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", ErrMalformed
	}
	return string(pt), nil
}

// Seal is the inverse of Decode. Used by tooling and tests.
func (x *XChaCha) Seal(plain string) (string, error) {
	if len(x.key) == 0 {
		return "", ErrNoKey
	}
	aead, err := chacha20poly1305.NewX(x.key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plain)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	out := aead.Seal(nonce, nonce, []byte(plain), nil)
	return Prefix + base64.StdEncoding.EncodeToString(out), nil
}

// Plain passes every value through unchanged.
type Plain struct{}

func (Plain) Decode(value string) (string, error) { return value, nil }
