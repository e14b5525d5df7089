package crypt

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	gserrors "github.com/gitseal/gitseal/internal/errors"
)

func TestEnvelopeEncodeDecode(t *testing.T) {
	e := testEngine(t, 7, 0x21)
	env := e.Encrypt([]byte("payload"))

	wire := env.Encode()
	if !IsEncrypted(wire) {
		t.Fatal("encoded envelope does not carry the magic header")
	}
	if got := binary.LittleEndian.Uint32(wire[len(Magic):]); got != 7 {
		t.Errorf("wire key version = %d, want 7", got)
	}

	decoded, err := Decode(wire)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if decoded.KeyVersion != env.KeyVersion || decoded.Nonce != env.Nonce || !bytes.Equal(decoded.Ciphertext, env.Ciphertext) {
		t.Error("decoded envelope differs from original")
	}

	pt, err := e.Decrypt(decoded)
	if err != nil {
		t.Fatalf("Decrypt of decoded envelope failed: %v", err)
	}
	if string(pt) != "payload" {
		t.Errorf("plaintext = %q, want %q", pt, "payload")
	}
}

func TestDecodeRejectsPlaintext(t *testing.T) {
	if _, err := Decode([]byte("just some file contents")); !errors.Is(err, gserrors.ErrMalformedEnvelope) {
		t.Errorf("got %v, want ErrMalformedEnvelope", err)
	}
}

func TestDecodeRejectsTruncated(t *testing.T) {
	e := testEngine(t, 0, 0x42)
	wire := e.Encrypt([]byte("payload")).Encode()

	for _, n := range []int{1, len(Magic), headerSize, headerSize + TagSize - 1} {
		if _, err := Decode(wire[:n]); !errors.Is(err, gserrors.ErrMalformedEnvelope) {
			t.Errorf("truncation to %d bytes: got %v, want ErrMalformedEnvelope", n, err)
		}
	}
}

func TestIsEncrypted(t *testing.T) {
	if IsEncrypted([]byte("GITSEAL")) {
		t.Error("partial magic must not be recognized")
	}
	if IsEncrypted(nil) {
		t.Error("empty input must not be recognized")
	}
	if !IsEncrypted(append(append([]byte(nil), Magic...), 0x00)) {
		t.Error("magic prefix must be recognized")
	}
}
