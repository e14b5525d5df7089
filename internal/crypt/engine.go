package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	gserrors "github.com/gitseal/gitseal/internal/errors"
)

const (
	// KeySize is the length of stored key material in bytes (256 bits).
	KeySize = 32

	// NonceSize is the length of GCM nonces in bytes (96 bits).
	NonceSize = 12

	// TagSize is the length of the GCM authentication tag in bytes (128 bits).
	TagSize = 16
)

// HKDF info strings separating the two subkeys derived from one stored key.
// The stored key bytes never key a primitive directly.
const (
	infoEncryption      = "gitseal v1 content encryption"
	infoNonceDerivation = "gitseal v1 nonce derivation"
)

// Engine performs deterministic authenticated encryption under one key version.
//
// Determinism is load-bearing: git's object store deduplicates by content, so
// encrypting the same plaintext under the same key version must produce
// byte-identical output. The nonce is therefore a keyed MAC of the plaintext
// (truncated to 96 bits) under a dedicated nonce-derivation subkey, never a
// counter or random value.
type Engine struct {
	version  uint32
	aead     cipher.AEAD
	nonceKey []byte
}

// NewEngine builds an engine for the given key version and 32-byte key.
func NewEngine(version uint32, key []byte) (*Engine, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", gserrors.ErrInvalidKeyLength, KeySize, len(key))
	}

	encKey, err := deriveSubkey(key, infoEncryption)
	if err != nil {
		return nil, err
	}
	nonceKey, err := deriveSubkey(key, infoNonceDerivation)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}

	return &Engine{
		version:  version,
		aead:     aead,
		nonceKey: nonceKey,
	}, nil
}

// Version returns the key version this engine encrypts under.
func (e *Engine) Version() uint32 {
	return e.version
}

// Encrypt seals plaintext into an envelope. Two calls with the same plaintext
// produce byte-identical envelopes. Empty plaintext is valid.
func (e *Engine) Encrypt(plaintext []byte) *Envelope {
	env := &Envelope{KeyVersion: e.version}
	copy(env.Nonce[:], e.deriveNonce(plaintext))
	env.Ciphertext = e.aead.Seal(nil, env.Nonce[:], plaintext, nil)
	return env
}

// Decrypt opens an envelope. Tag verification failure returns
// ErrAuthenticationFailed and never partial plaintext.
func (e *Engine) Decrypt(env *Envelope) ([]byte, error) {
	if env.KeyVersion != e.version {
		return nil, fmt.Errorf("envelope requires key version %d, engine holds version %d", env.KeyVersion, e.version)
	}
	plaintext, err := e.aead.Open(nil, env.Nonce[:], env.Ciphertext, nil)
	if err != nil {
		return nil, gserrors.ErrAuthenticationFailed
	}
	return plaintext, nil
}

// deriveNonce computes the deterministic nonce for a plaintext: an
// HMAC-SHA256 under the nonce subkey, truncated to NonceSize. Distinct
// plaintexts collide with probability ~2^-96.
func (e *Engine) deriveNonce(plaintext []byte) []byte {
	mac := hmac.New(sha256.New, e.nonceKey)
	mac.Write(plaintext)
	return mac.Sum(nil)[:NonceSize]
}

func deriveSubkey(master []byte, info string) ([]byte, error) {
	sub := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, master, nil, []byte(info)), sub); err != nil {
		return nil, fmt.Errorf("deriving subkey: %w", err)
	}
	return sub, nil
}
