package workflows

import (
	"context"

	"github.com/gitseal/gitseal/internal/audit"
)

// UnlockOptions configures the unlock workflow.
type UnlockOptions struct {
	// KeyFile is an optional exported key store to import before
	// unlocking. Empty means unlock with the keys already resident.
	KeyFile string
}

// UnlockResult contains the outcome of an unlock operation.
type UnlockResult struct {
	// ImportedVersions is how many new key versions the key file added.
	ImportedVersions int

	// RefreshWarning is set when the working tree refresh failed after an
	// otherwise successful unlock.
	RefreshWarning error
}

// Unlock imports an optional key file, registers the git filters, and
// refreshes the working tree. The import is durable before any filter is
// registered; a refresh failure is a warning, not an unlock failure.
func Unlock(ctx context.Context, opts UnlockOptions) (*UnlockResult, error) {
	env, err := LoadEnv(ctx)
	if err != nil {
		return nil, err
	}

	result, err := env.Machine.Unlock(ctx, opts.KeyFile)
	if err != nil {
		return nil, err
	}

	entry := audit.NewEntry("unlock")
	entry.ImportedCount = result.ImportedVersions
	audit.Log(env.Settings.SealDir, entry)

	return &UnlockResult{
		ImportedVersions: result.ImportedVersions,
		RefreshWarning:   result.RefreshFailed,
	}, nil
}
