package workflows

import (
	"context"
	"fmt"

	"github.com/gitseal/gitseal/internal/configs"
	"github.com/gitseal/gitseal/internal/gitrepo"
	"github.com/gitseal/gitseal/internal/keystore"
	"github.com/gitseal/gitseal/internal/repostate"
)

// Env is the resolved execution environment every workflow operates in:
// the discovered repository, its settings and project config, and the lock
// state machine over its key store.
type Env struct {
	Repo     *gitrepo.Repo
	Settings *configs.ProjectSettings
	Config   *configs.ProjectConfig
	Machine  *repostate.Machine
}

// LoadEnv discovers the enclosing repository from the current directory and
// loads its configuration. A pinned encryption version from .gitseal.toml
// is applied to the key manager here, so every caller sees it.
func LoadEnv(ctx context.Context) (*Env, error) {
	repo, err := gitrepo.Discover(ctx, "")
	if err != nil {
		return nil, err
	}

	settings := configs.Resolve(repo)
	config, err := configs.LoadProjectConfig(settings.ConfigPath)
	if err != nil {
		return nil, err
	}

	machine := repostate.New(repo)
	machine.Keys.Pinned = config.Encryption.PinnedVersion

	return &Env{
		Repo:     repo,
		Settings: settings,
		Config:   config,
		Machine:  machine,
	}, nil
}

// Keys is a shorthand for the environment's key manager.
func (e *Env) Keys() *keystore.Manager {
	return e.Machine.Keys
}

// loadStore reads the key store or explains which path was missing.
func (e *Env) loadStore() (*keystore.Store, error) {
	store, err := e.Keys().Load()
	if err != nil {
		return nil, fmt.Errorf("loading key store: %w", err)
	}
	return store, nil
}
