package workflows

import (
	"context"

	"github.com/gitseal/gitseal/internal/audit"
)

// PurgeKeyOptions configures the purge-key workflow.
type PurgeKeyOptions struct{}

// PurgeKeyResult contains the outcome of a purge-key operation.
type PurgeKeyResult struct {
	// PurgedVersions is how many key versions were destroyed.
	PurgedVersions int

	// KeystorePath is the deleted store's path.
	KeystorePath string
}

// PurgeKey deletes the key store file. This is the only operation that
// destroys key material: without an export or a wrapped blob elsewhere,
// every file sealed under the purged versions is unrecoverable. The cmd
// layer gates it behind an explicit --force.
func PurgeKey(ctx context.Context, opts PurgeKeyOptions) (*PurgeKeyResult, error) {
	env, err := LoadEnv(ctx)
	if err != nil {
		return nil, err
	}

	store, err := env.loadStore()
	if err != nil {
		return nil, err
	}
	versions := store.Len()

	if err := env.Keys().Purge(); err != nil {
		return nil, err
	}

	audit.Log(env.Settings.SealDir, audit.NewEntry("purge-key"))

	return &PurgeKeyResult{
		PurgedVersions: versions,
		KeystorePath:   env.Keys().Path(),
	}, nil
}
