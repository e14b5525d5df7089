package filter

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gitseal/gitseal/internal/crypt"
	gserrors "github.com/gitseal/gitseal/internal/errors"
	"github.com/gitseal/gitseal/internal/keystore"
)

func initializedRing(t *testing.T) *keystore.Manager {
	t.Helper()
	m := keystore.NewManager(filepath.Join(t.TempDir(), "keystore"))
	if _, err := m.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return m
}

func emptyRing(t *testing.T) *keystore.Manager {
	t.Helper()
	return keystore.NewManager(filepath.Join(t.TempDir(), "keystore"))
}

func TestCleanSmudgeRoundTrip(t *testing.T) {
	ring := initializedRing(t)
	content := "API_TOKEN=hunter2\n"

	var sealed bytes.Buffer
	if err := Clean(&sealed, strings.NewReader(content), ring, Options{}); err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if !crypt.IsEncrypted(sealed.Bytes()) {
		t.Fatal("clean output is not an envelope")
	}
	if bytes.Contains(sealed.Bytes(), []byte("hunter2")) {
		t.Fatal("plaintext leaked into clean output")
	}

	var restored bytes.Buffer
	if err := Smudge(&restored, bytes.NewReader(sealed.Bytes()), ring); err != nil {
		t.Fatalf("Smudge failed: %v", err)
	}
	if restored.String() != content {
		t.Errorf("smudge output = %q, want %q", restored.String(), content)
	}
}

func TestCleanIsDeterministic(t *testing.T) {
	ring := initializedRing(t)

	var first, second bytes.Buffer
	if err := Clean(&first, strings.NewReader("hello\n"), ring, Options{}); err != nil {
		t.Fatal(err)
	}
	if err := Clean(&second, strings.NewReader("hello\n"), ring, Options{}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("two clean runs over identical content produced different envelopes")
	}
}

func TestCleanFailsClosedWithoutKey(t *testing.T) {
	var out bytes.Buffer
	err := Clean(&out, strings.NewReader("secret"), emptyRing(t), Options{})
	if !errors.Is(err, gserrors.ErrNoKeyAvailable) {
		t.Fatalf("got %v, want ErrNoKeyAvailable", err)
	}
	if out.Len() != 0 {
		t.Error("clean emitted output despite failing")
	}
}

func TestCleanPassthroughWithoutKeyWhenConfigured(t *testing.T) {
	ring := initializedRing(t)
	var sealed bytes.Buffer
	if err := Clean(&sealed, strings.NewReader("history\n"), ring, Options{}); err != nil {
		t.Fatal(err)
	}

	// Already-committed ciphertext re-filtered in a locked clone.
	var out bytes.Buffer
	err := Clean(&out, bytes.NewReader(sealed.Bytes()), emptyRing(t), Options{PassthroughWithoutKey: true})
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if !bytes.Equal(out.Bytes(), sealed.Bytes()) {
		t.Error("passthrough clean altered its input")
	}
}

func TestCleanPassesThroughExistingEnvelope(t *testing.T) {
	ring := initializedRing(t)

	var sealed bytes.Buffer
	if err := Clean(&sealed, strings.NewReader("content\n"), ring, Options{}); err != nil {
		t.Fatal(err)
	}

	var again bytes.Buffer
	if err := Clean(&again, bytes.NewReader(sealed.Bytes()), ring, Options{}); err != nil {
		t.Fatalf("Clean of envelope failed: %v", err)
	}
	if !bytes.Equal(again.Bytes(), sealed.Bytes()) {
		t.Error("cleaning an envelope re-encrypted it")
	}
}

func TestSmudgePassesThroughPlainContent(t *testing.T) {
	for _, content := range []string{"", "x", "ordinary file contents\n", "GITSEAL"} {
		var out bytes.Buffer
		if err := Smudge(&out, strings.NewReader(content), emptyRing(t)); err != nil {
			t.Fatalf("Smudge(%q) failed: %v", content, err)
		}
		if out.String() != content {
			t.Errorf("Smudge(%q) = %q, want input unchanged", content, out.String())
		}
	}
}

func TestSmudgeMissingKeyVersion(t *testing.T) {
	ring := initializedRing(t)
	var sealed bytes.Buffer
	if err := Clean(&sealed, strings.NewReader("data\n"), ring, Options{}); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	err := Smudge(&out, bytes.NewReader(sealed.Bytes()), emptyRing(t))
	if !errors.Is(err, gserrors.ErrNoKeyAvailable) {
		t.Errorf("got %v, want ErrNoKeyAvailable", err)
	}
}

func TestSmudgeTamperedEnvelopeIsFatal(t *testing.T) {
	ring := initializedRing(t)
	var sealed bytes.Buffer
	if err := Clean(&sealed, strings.NewReader("data\n"), ring, Options{}); err != nil {
		t.Fatal(err)
	}

	tampered := sealed.Bytes()
	tampered[len(tampered)-1] ^= 0x01

	var out bytes.Buffer
	err := Smudge(&out, bytes.NewReader(tampered), ring)
	if !errors.Is(err, gserrors.ErrAuthenticationFailed) {
		t.Fatalf("got %v, want ErrAuthenticationFailed", err)
	}
	if out.Len() != 0 {
		t.Error("smudge emitted output for tampered ciphertext")
	}
}

func TestSmudgeDecryptsAcrossRotation(t *testing.T) {
	ring := initializedRing(t)
	var sealed bytes.Buffer
	if err := Clean(&sealed, strings.NewReader("pre-rotation\n"), ring, Options{}); err != nil {
		t.Fatal(err)
	}

	if _, err := ring.Rotate(context.Background()); err != nil {
		t.Fatalf("Rotate failed: %v", err)
	}

	var out bytes.Buffer
	if err := Smudge(&out, bytes.NewReader(sealed.Bytes()), ring); err != nil {
		t.Fatalf("Smudge after rotation failed: %v", err)
	}
	if out.String() != "pre-rotation\n" {
		t.Errorf("smudge output = %q, want %q", out.String(), "pre-rotation\n")
	}
}

func TestDiffShowsPlaintextWithKey(t *testing.T) {
	ring := initializedRing(t)
	var sealed bytes.Buffer
	if err := Clean(&sealed, strings.NewReader("readable\n"), ring, Options{}); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := Diff(&out, bytes.NewReader(sealed.Bytes()), ring); err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	if out.String() != "readable\n" {
		t.Errorf("diff output = %q, want %q", out.String(), "readable\n")
	}
}

func TestDiffWithholdsWithoutKey(t *testing.T) {
	ring := initializedRing(t)
	var sealed bytes.Buffer
	if err := Clean(&sealed, strings.NewReader("hidden\n"), ring, Options{}); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := Diff(&out, bytes.NewReader(sealed.Bytes()), emptyRing(t)); err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	if out.String() != encryptedSentinel {
		t.Errorf("diff output = %q, want the sentinel", out.String())
	}
	if strings.Contains(out.String(), "hidden") {
		t.Error("diff leaked plaintext without a key")
	}
}

func TestDiffPassesThroughPlainContent(t *testing.T) {
	var out bytes.Buffer
	if err := Diff(&out, strings.NewReader("plain\n"), emptyRing(t)); err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	if out.String() != "plain\n" {
		t.Errorf("diff output = %q, want input unchanged", out.String())
	}
}
