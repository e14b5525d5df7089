package wrap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"filippo.io/age"
	"filippo.io/age/agessh"
	"golang.org/x/crypto/ssh"

	gserrors "github.com/gitseal/gitseal/internal/errors"
)

// AgeWrapper wraps payloads for SSH recipients using the age format. Blobs
// are raw age ciphertext, so any age or rage build can unwrap them with the
// recipient's SSH identity.
type AgeWrapper struct {
	// IdentityPEM is the SSH private key used by Unwrap, in OpenSSH or PEM
	// encoding. Unused by Wrap.
	IdentityPEM []byte

	// Passphrase is consulted when IdentityPEM is passphrase-protected.
	Passphrase PassphraseFunc
}

func (w *AgeWrapper) Scheme() string { return "age" }
func (w *AgeWrapper) Ext() string    { return ".age" }

// Wrap encrypts payload for an SSH public key in authorized_keys format
// (ed25519 or RSA, matching what agessh supports).
func (w *AgeWrapper) Wrap(ctx context.Context, payload []byte, recipient string) ([]byte, error) {
	rcpt, err := agessh.ParseRecipient(strings.TrimSpace(recipient))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gserrors.ErrInvalidRecipient, err)
	}

	var blob bytes.Buffer
	aw, err := age.Encrypt(&blob, rcpt)
	if err != nil {
		return nil, fmt.Errorf("starting age encryption: %w", err)
	}
	if _, err := aw.Write(payload); err != nil {
		return nil, fmt.Errorf("encrypting payload: %w", err)
	}
	if err := aw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing age encryption: %w", err)
	}
	return blob.Bytes(), nil
}

// Unwrap decrypts an age blob with the configured SSH identity.
func (w *AgeWrapper) Unwrap(ctx context.Context, blob []byte) ([]byte, error) {
	identity, err := w.identity()
	if err != nil {
		return nil, err
	}

	r, err := age.Decrypt(bytes.NewReader(blob), identity)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gserrors.ErrUnwrapFailed, err)
	}
	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gserrors.ErrUnwrapFailed, err)
	}
	return payload, nil
}

func (w *AgeWrapper) identity() (age.Identity, error) {
	if len(w.IdentityPEM) == 0 {
		return nil, fmt.Errorf("%w: no SSH identity configured", gserrors.ErrUnwrapFailed)
	}

	identity, err := agessh.ParseIdentity(w.IdentityPEM)
	if err == nil {
		return identity, nil
	}

	var missing *ssh.PassphraseMissingError
	if errors.As(err, &missing) {
		if w.Passphrase == nil {
			return nil, fmt.Errorf("%w: identity is passphrase-protected and no passphrase was supplied", gserrors.ErrUnwrapFailed)
		}
		if missing.PublicKey == nil {
			return nil, fmt.Errorf("%w: cannot determine public key of protected identity", gserrors.ErrUnwrapFailed)
		}
		encrypted, err := agessh.NewEncryptedSSHIdentity(missing.PublicKey, w.IdentityPEM, w.Passphrase)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", gserrors.ErrUnwrapFailed, err)
		}
		return encrypted, nil
	}
	return nil, fmt.Errorf("invalid SSH identity: %w", err)
}
