package workflows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gitseal/gitseal/internal/audit"
	"github.com/gitseal/gitseal/internal/keysync"
	"github.com/gitseal/gitseal/internal/wrap"
)

// AddSSHUserOptions configures the add-ssh-user workflow.
type AddSSHUserOptions struct {
	// PublicKeyPath is the recipient's SSH public key file
	// (authorized_keys format, ed25519 or RSA).
	PublicKeyPath string

	// Alias overrides the blob name. When empty the alias falls back to
	// the key comment, then the filename, then a fingerprint.
	Alias string
}

// AddUserResult contains the outcome of adding a recipient.
type AddUserResult struct {
	// Alias is the resolved recipient label.
	Alias string

	// BlobPath is where the wrapped key store was written.
	BlobPath string

	// RemotePath is the S3 object key the blob was mirrored to, empty
	// when sync is not configured.
	RemotePath string

	// SyncWarning is set when the S3 mirror failed. The local blob write
	// already succeeded; the caller decides whether to warn.
	SyncWarning error
}

// AddSSHUser wraps the exported key store for an SSH recipient using the
// age format and stores the blob under the recipient's alias. The recipient
// unwraps with their private key via unwrap-key, or with plain age/rage.
func AddSSHUser(ctx context.Context, opts AddSSHUserOptions) (*AddUserResult, error) {
	env, err := LoadEnv(ctx)
	if err != nil {
		return nil, err
	}

	recipient, err := os.ReadFile(opts.PublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("reading public key: %w", err)
	}

	alias := wrap.ResolveAlias(opts.Alias, string(recipient), opts.PublicKeyPath)
	return addUser(ctx, env, "add-ssh-user", &wrap.AgeWrapper{}, string(recipient), alias)
}

// AddGPGUserOptions configures the add-gpg-user workflow.
type AddGPGUserOptions struct {
	// KeyID identifies the recipient in the local GPG keyring
	// (fingerprint, key ID, or email).
	KeyID string

	// Alias overrides the blob name; defaults to the sanitized key ID.
	Alias string
}

// AddGPGUser wraps the exported key store for a GPG recipient by shelling
// out to the gpg binary. Only available in builds with the gpg tag;
// otherwise returns ErrGPGSupportDisabled.
func AddGPGUser(ctx context.Context, opts AddGPGUserOptions) (*AddUserResult, error) {
	env, err := LoadEnv(ctx)
	if err != nil {
		return nil, err
	}

	wrapper, err := wrap.NewGPGWrapper()
	if err != nil {
		return nil, err
	}

	alias := wrap.SanitizeLabel(opts.Alias)
	if alias == "" {
		alias = wrap.SanitizeLabel(opts.KeyID)
	}
	if alias == "" {
		return nil, fmt.Errorf("cannot derive an alias from key ID %q", opts.KeyID)
	}
	return addUser(ctx, env, "add-gpg-user", wrapper, opts.KeyID, alias)
}

// addUser is the scheme-independent half: export, wrap, write the blob,
// mirror it, and record the audit entry.
func addUser(ctx context.Context, env *Env, op string, wrapper wrap.Wrapper, recipient, alias string) (*AddUserResult, error) {
	store, err := env.loadStore()
	if err != nil {
		return nil, err
	}

	blob, err := wrapper.Wrap(ctx, store.Serialize(), recipient)
	if err != nil {
		return nil, err
	}

	blobDir := env.Repo.BlobDir(wrapper.Scheme())
	if err := os.MkdirAll(blobDir, 0700); err != nil {
		return nil, fmt.Errorf("creating blob directory: %w", err)
	}
	blobPath := filepath.Join(blobDir, alias+wrapper.Ext())
	if err := os.WriteFile(blobPath, blob, 0600); err != nil {
		return nil, fmt.Errorf("writing wrapped blob: %w", err)
	}

	result := &AddUserResult{Alias: alias, BlobPath: blobPath}

	syncConfig := keysync.LoadConfig(env.Config, env.Repo.Name())
	remote, syncErr := keysync.MaybeSync(ctx, syncConfig, wrapper.Scheme(), alias+wrapper.Ext(), blob)
	result.RemotePath = remote
	result.SyncWarning = syncErr

	entry := audit.NewEntry(op)
	entry.Recipient = alias
	entry.Scheme = wrapper.Scheme()
	entry.OutputPath = blobPath
	entry.RemotePath = remote
	audit.Log(env.Settings.SealDir, entry)

	return result, nil
}
