//go:build gpg

package wrap

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	gserrors "github.com/gitseal/gitseal/internal/errors"
)

// GPGWrapper wraps payloads for a GPG key by shelling out to the gpg binary.
// Key lookup, trust, and passphrase handling all live in the recipient's own
// GPG installation; the blobs are standard OpenPGP messages.
type GPGWrapper struct {
	// Binary overrides the gpg executable name. Defaults to "gpg".
	Binary string
}

// NewGPGWrapper returns a GPG-backed Wrapper.
func NewGPGWrapper() (*GPGWrapper, error) {
	return &GPGWrapper{}, nil
}

func (w *GPGWrapper) Scheme() string { return "gpg" }
func (w *GPGWrapper) Ext() string    { return ".gpg" }

func (w *GPGWrapper) binary() string {
	if w.Binary != "" {
		return w.Binary
	}
	return "gpg"
}

// Wrap encrypts payload for the GPG key identified by recipient (a
// fingerprint, key ID, or email known to the local keyring).
func (w *GPGWrapper) Wrap(ctx context.Context, payload []byte, recipient string) ([]byte, error) {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return nil, fmt.Errorf("%w: empty GPG recipient", gserrors.ErrInvalidRecipient)
	}

	cmd := exec.CommandContext(ctx, w.binary(),
		"--batch", "--yes", "--trust-model", "always",
		"--recipient", recipient, "--encrypt")
	cmd.Stdin = bytes.NewReader(payload)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: gpg --encrypt for %q: %v: %s",
			gserrors.ErrInvalidRecipient, recipient, err, strings.TrimSpace(stderr.String()))
	}
	return out.Bytes(), nil
}

// Unwrap decrypts a GPG blob with whatever secret key the local gpg-agent
// can supply.
func (w *GPGWrapper) Unwrap(ctx context.Context, blob []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, w.binary(), "--batch", "--yes", "--decrypt")
	cmd.Stdin = bytes.NewReader(blob)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: gpg --decrypt: %v: %s",
			gserrors.ErrUnwrapFailed, err, strings.TrimSpace(stderr.String()))
	}
	return out.Bytes(), nil
}
