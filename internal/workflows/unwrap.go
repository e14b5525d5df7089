package workflows

import (
	"context"
	"fmt"
	"os"

	"github.com/gitseal/gitseal/internal/audit"
	"github.com/gitseal/gitseal/internal/keystore"
	"github.com/gitseal/gitseal/internal/wrap"
)

// UnwrapKeyOptions configures the unwrap-key workflow.
type UnwrapKeyOptions struct {
	// BlobPath is the wrapped age blob to open.
	BlobPath string

	// IdentityPath is the recipient's SSH private key.
	IdentityPath string

	// Passphrase supplies the passphrase when the identity is protected.
	Passphrase wrap.PassphraseFunc
}

// UnwrapKeyResult contains the outcome of an unwrap-key operation.
type UnwrapKeyResult struct {
	// AddedVersions is how many new key versions the blob contributed.
	AddedVersions int

	// TotalVersions is the local store size after the merge.
	TotalVersions int
}

// UnwrapKey decrypts a wrapped key blob with an SSH identity and merges the
// recovered key store into the local one. This is how a recipient added via
// add-ssh-user bootstraps their clone.
func UnwrapKey(ctx context.Context, opts UnwrapKeyOptions) (*UnwrapKeyResult, error) {
	env, err := LoadEnv(ctx)
	if err != nil {
		return nil, err
	}

	blob, err := os.ReadFile(opts.BlobPath)
	if err != nil {
		return nil, fmt.Errorf("reading wrapped blob: %w", err)
	}
	identity, err := os.ReadFile(opts.IdentityPath)
	if err != nil {
		return nil, fmt.Errorf("reading SSH identity: %w", err)
	}

	wrapper := &wrap.AgeWrapper{IdentityPEM: identity, Passphrase: opts.Passphrase}
	payload, err := wrapper.Unwrap(ctx, blob)
	if err != nil {
		return nil, err
	}

	// Validate before touching the local store.
	if _, err := keystore.Parse(payload); err != nil {
		return nil, fmt.Errorf("unwrapped payload is not a key store: %w", err)
	}

	added, err := env.Keys().Import(ctx, payload)
	if err != nil {
		return nil, err
	}

	store, err := env.loadStore()
	if err != nil {
		return nil, err
	}

	entry := audit.NewEntry("unwrap-key")
	entry.Scheme = "age"
	entry.ImportedCount = added
	audit.Log(env.Settings.SealDir, entry)

	return &UnwrapKeyResult{
		AddedVersions: added,
		TotalVersions: store.Len(),
	}, nil
}
