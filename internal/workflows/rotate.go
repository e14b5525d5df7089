package workflows

import (
	"context"

	"github.com/gitseal/gitseal/internal/audit"
)

// RotateOptions configures the rotate workflow.
type RotateOptions struct{}

// RotateResult contains the outcome of a rotate operation.
type RotateResult struct {
	// NewVersion is the freshly appended key version.
	NewVersion uint32

	// TotalVersions is the store size after rotation.
	TotalVersions int
}

// Rotate appends a new highest key version. Nothing is re-encrypted: files
// sealed under older versions stay decryptable, and only new clean filter
// runs pick up the new key. Previously wrapped recipient blobs do not
// contain the new version until the recipient is re-added.
func Rotate(ctx context.Context, opts RotateOptions) (*RotateResult, error) {
	env, err := LoadEnv(ctx)
	if err != nil {
		return nil, err
	}

	key, err := env.Keys().Rotate(ctx)
	if err != nil {
		return nil, err
	}

	store, err := env.loadStore()
	if err != nil {
		return nil, err
	}

	entry := audit.NewEntry("rotate")
	entry.KeyVersion = &key.Version
	audit.Log(env.Settings.SealDir, entry)

	return &RotateResult{
		NewVersion:    key.Version,
		TotalVersions: store.Len(),
	}, nil
}
