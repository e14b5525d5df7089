package workflows

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gitseal/gitseal/internal/repostate"
)

// RecipientInfo describes one wrapped key blob on disk.
type RecipientInfo struct {
	// Alias is the blob's label (filename without extension).
	Alias string

	// Scheme is the wrap scheme the blob was produced with.
	Scheme string
}

// KeyVersionInfo describes one resident key version.
type KeyVersionInfo struct {
	Version   uint32
	CreatedAt time.Time
	Active    bool
}

// StatusOptions configures the status workflow.
type StatusOptions struct{}

// StatusResult is the repository report the status command renders.
type StatusResult struct {
	// State is the recomputed lock state.
	State repostate.State

	// KeystorePresent reports whether a key store file is on disk.
	KeystorePresent bool

	// FiltersInstalled reports whether the git filter drivers are
	// registered.
	FiltersInstalled bool

	// Versions lists resident key versions, ascending.
	Versions []KeyVersionInfo

	// PinnedVersion echoes the configured pin, when any.
	PinnedVersion *uint32

	// Recipients lists wrapped blobs found under the seal directory.
	Recipients []RecipientInfo
}

// Status reports the repository's lock state, resident key versions, and
// known recipients. It never fails on a missing key store; that is just a
// locked repository.
func Status(ctx context.Context, opts StatusOptions) (*StatusResult, error) {
	env, err := LoadEnv(ctx)
	if err != nil {
		return nil, err
	}

	result := &StatusResult{
		KeystorePresent: env.Keys().Exists(),
		PinnedVersion:   env.Config.Encryption.PinnedVersion,
	}

	result.FiltersInstalled, err = env.Repo.FiltersInstalled(ctx)
	if err != nil {
		return nil, err
	}
	result.State, err = env.Machine.Current(ctx)
	if err != nil {
		return nil, err
	}

	if result.KeystorePresent {
		store, err := env.loadStore()
		if err != nil {
			return nil, err
		}
		active, activeErr := env.Keys().ActiveKey()
		for _, key := range store.Keys() {
			result.Versions = append(result.Versions, KeyVersionInfo{
				Version:   key.Version,
				CreatedAt: key.CreatedAt,
				Active:    activeErr == nil && key.Version == active.Version,
			})
		}
	}

	result.Recipients = listRecipients(env)
	return result, nil
}

// listRecipients scans the blob directories. Missing directories just mean
// no recipients of that scheme.
func listRecipients(env *Env) []RecipientInfo {
	var recipients []RecipientInfo
	for _, scheme := range []string{"age", "gpg"} {
		entries, err := os.ReadDir(env.Repo.BlobDir(scheme))
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			ext := filepath.Ext(name)
			if ext != "."+scheme {
				continue
			}
			recipients = append(recipients, RecipientInfo{
				Alias:  strings.TrimSuffix(name, ext),
				Scheme: scheme,
			})
		}
	}
	sort.Slice(recipients, func(i, j int) bool {
		if recipients[i].Scheme != recipients[j].Scheme {
			return recipients[i].Scheme < recipients[j].Scheme
		}
		return recipients[i].Alias < recipients[j].Alias
	})
	return recipients
}
