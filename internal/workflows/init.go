package workflows

import (
	"context"
	"fmt"

	"github.com/gitseal/gitseal/internal/audit"
	"github.com/gitseal/gitseal/internal/repostate"
)

// InitOptions configures the init workflow.
type InitOptions struct {
	// SkipFilters creates the key store without registering the git
	// filters, leaving the repository locked.
	SkipFilters bool
}

// InitResult contains the outcome of an init operation.
type InitResult struct {
	// KeyVersion is the version of the generated key (always 0).
	KeyVersion uint32

	// KeystorePath is where the key store was written.
	KeystorePath string

	// State is the repository state after init.
	State repostate.State
}

// Init creates the key store with key version 0 and registers the git
// filter drivers, leaving the repository unlocked.
//
// Returns ErrAlreadyInitialized if a key store already exists; init never
// overwrites key material.
func Init(ctx context.Context, opts InitOptions) (*InitResult, error) {
	env, err := LoadEnv(ctx)
	if err != nil {
		return nil, err
	}

	key, err := env.Keys().Init()
	if err != nil {
		return nil, err
	}

	state := repostate.Locked
	if !opts.SkipFilters {
		if err := env.Repo.InstallFilters(ctx); err != nil {
			return nil, fmt.Errorf("registering filters: %w", err)
		}
		state = repostate.Unlocked
	}

	entry := audit.NewEntry("init")
	entry.KeyVersion = &key.Version
	audit.Log(env.Settings.SealDir, entry)

	return &InitResult{
		KeyVersion:   key.Version,
		KeystorePath: env.Keys().Path(),
		State:        state,
	}, nil
}
