// Package repostate derives and transitions the repository's lock state.
//
// The state is never cached or stored: a repository is unlocked exactly when
// the gitseal filters are registered AND a key store is resident in the git
// dir. Everything else is locked. Recomputing on every query keeps the
// reported state honest after out-of-band changes (a deleted key store, a
// hand-edited git config).
package repostate

import (
	"context"
	"fmt"

	"github.com/gitseal/gitseal/internal/gitrepo"
	"github.com/gitseal/gitseal/internal/keystore"
)

// State is the repository's current lock state.
type State int

const (
	Locked State = iota
	Unlocked
)

func (s State) String() string {
	if s == Unlocked {
		return "unlocked"
	}
	return "locked"
}

// Machine transitions a repository between locked and unlocked.
type Machine struct {
	Repo *gitrepo.Repo
	Keys *keystore.Manager
}

// New builds a Machine for the repository, with the key store at its
// standard location inside the git dir.
func New(repo *gitrepo.Repo) *Machine {
	return &Machine{
		Repo: repo,
		Keys: keystore.NewManager(repo.KeystorePath()),
	}
}

// Current recomputes the lock state from the filesystem and git config.
func (m *Machine) Current(ctx context.Context) (State, error) {
	installed, err := m.Repo.FiltersInstalled(ctx)
	if err != nil {
		return Locked, fmt.Errorf("checking filter registration: %w", err)
	}
	if installed && m.Keys.Exists() {
		return Unlocked, nil
	}
	return Locked, nil
}

// Lock removes the filter registration. The key store stays on disk, so a
// later unlock needs no key file. Locking a locked repository is a no-op.
func (m *Machine) Lock(ctx context.Context) error {
	return m.Repo.RemoveFilters(ctx)
}

// UnlockResult reports what Unlock did.
type UnlockResult struct {
	// ImportedVersions is how many new key versions the key file added.
	// Zero when no key file was given or every version was already known.
	ImportedVersions int

	// RefreshFailed is set when the working tree refresh failed after an
	// otherwise successful unlock. The caller decides whether to warn.
	RefreshFailed error
}

// Unlock imports an optional key file, registers the filters, and refreshes
// the working tree so tracked ciphertext becomes plaintext.
//
// Ordering matters: the key import is made durable before any filter is
// registered, so a crash mid-unlock never leaves filters pointing at keys
// that are not there. The refresh is best-effort and reported rather than
// failed on, because the unlock itself has already succeeded.
func (m *Machine) Unlock(ctx context.Context, keyFile string) (*UnlockResult, error) {
	result := &UnlockResult{}

	if keyFile != "" {
		added, err := m.Keys.ImportFile(ctx, keyFile)
		if err != nil {
			return nil, fmt.Errorf("importing key file: %w", err)
		}
		result.ImportedVersions = added
	}

	if !m.Keys.Exists() {
		return nil, fmt.Errorf("no key store at %s: provide a key file or run init", m.Keys.Path())
	}

	if err := m.Repo.InstallFilters(ctx); err != nil {
		return nil, fmt.Errorf("registering filters: %w", err)
	}

	if err := m.Repo.RefreshWorkingTree(ctx); err != nil {
		result.RefreshFailed = err
	}
	return result, nil
}
