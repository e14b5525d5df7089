package crypt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	gserrors "github.com/gitseal/gitseal/internal/errors"
)

// Magic identifies gitseal ciphertext in the object store. The trailing "1"
// doubles as a format version.
var Magic = []byte("GITSEAL1")

// headerSize is magic + key version + nonce.
const headerSize = 8 + 4 + NonceSize

// Envelope is the per-file ciphertext unit.
//
// Wire format, little-endian:
//
//	magic (8) | key_version u32 (4) | nonce (12) | ciphertext || tag (16)
type Envelope struct {
	KeyVersion uint32
	Nonce      [NonceSize]byte
	Ciphertext []byte // GCM output: ciphertext with the tag appended
}

// IsEncrypted reports whether data begins with the gitseal magic header.
func IsEncrypted(data []byte) bool {
	return len(data) >= len(Magic) && bytes.Equal(data[:len(Magic)], Magic)
}

// Encode serializes the envelope to its wire format.
func (env *Envelope) Encode() []byte {
	out := make([]byte, 0, headerSize+len(env.Ciphertext))
	out = append(out, Magic...)
	out = binary.LittleEndian.AppendUint32(out, env.KeyVersion)
	out = append(out, env.Nonce[:]...)
	out = append(out, env.Ciphertext...)
	return out
}

// EncodeTo writes the envelope wire format to w.
func (env *Envelope) EncodeTo(w io.Writer) error {
	if _, err := w.Write(env.Encode()); err != nil {
		return fmt.Errorf("writing envelope: %w", err)
	}
	return nil
}

// Decode parses an envelope from its wire format.
func Decode(data []byte) (*Envelope, error) {
	if !IsEncrypted(data) {
		return nil, fmt.Errorf("%w: missing magic header", gserrors.ErrMalformedEnvelope)
	}
	if len(data) < headerSize+TagSize {
		return nil, fmt.Errorf("%w: %d bytes is too short", gserrors.ErrMalformedEnvelope, len(data))
	}

	env := &Envelope{
		KeyVersion: binary.LittleEndian.Uint32(data[len(Magic):]),
	}
	copy(env.Nonce[:], data[len(Magic)+4:headerSize])
	env.Ciphertext = append([]byte(nil), data[headerSize:]...)
	return env, nil
}
