package workflows

import (
	"context"

	"github.com/gitseal/gitseal/internal/audit"
	"github.com/gitseal/gitseal/internal/repostate"
)

// LockOptions configures the lock workflow.
type LockOptions struct{}

// LockResult contains the outcome of a lock operation.
type LockResult struct {
	// WasLocked is set when the repository was already locked.
	WasLocked bool
}

// Lock removes the git filter registration. The key store stays on disk
// untouched; unlock restores filtering without needing a key file. Locking
// a locked repository is a no-op.
func Lock(ctx context.Context, opts LockOptions) (*LockResult, error) {
	env, err := LoadEnv(ctx)
	if err != nil {
		return nil, err
	}

	state, err := env.Machine.Current(ctx)
	if err != nil {
		return nil, err
	}

	if err := env.Machine.Lock(ctx); err != nil {
		return nil, err
	}

	audit.Log(env.Settings.SealDir, audit.NewEntry("lock"))

	return &LockResult{WasLocked: state == repostate.Locked}, nil
}
