package keystore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	gserrors "github.com/gitseal/gitseal/internal/errors"
)

// Lock acquisition bounds for read-modify-write operations on the store.
// On contention the operation fails instead of blocking indefinitely.
const (
	lockRetryInterval = 100 * time.Millisecond
	lockTimeout       = 5 * time.Second
)

// Manager owns the on-disk key store at a fixed path and selects the
// active key version.
type Manager struct {
	path string

	// Pinned overrides active-version selection. When nil the highest
	// version wins.
	Pinned *uint32
}

// NewManager returns a manager for the store at path.
func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// Path returns the key store file path.
func (m *Manager) Path() string {
	return m.path
}

// Exists reports whether a key store file is present on disk.
func (m *Manager) Exists() bool {
	info, err := os.Stat(m.path)
	return err == nil && !info.IsDir()
}

// Init creates the store with key version 0. It fails if a store already
// exists; init never overwrites key material.
func (m *Manager) Init() (Key, error) {
	if m.Exists() {
		return Key{}, gserrors.ErrAlreadyInitialized
	}

	key, err := GenerateKey(0)
	if err != nil {
		return Key{}, err
	}
	store := &Store{}
	if err := store.Append(key); err != nil {
		return Key{}, err
	}
	if err := store.WriteFile(m.path); err != nil {
		return Key{}, err
	}
	return key, nil
}

// Load reads the store from disk. A missing store surfaces as
// ErrNoKeyAvailable: from the caller's point of view the repository is locked.
func (m *Manager) Load() (*Store, error) {
	store, err := ReadFile(m.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: no key store at %s", gserrors.ErrNoKeyAvailable, m.path)
		}
		return nil, err
	}
	return store, nil
}

// ActiveKey returns the key new encryptions use: the pinned version when
// set, otherwise the highest version present.
func (m *Manager) ActiveKey() (Key, error) {
	store, err := m.Load()
	if err != nil {
		return Key{}, err
	}
	if m.Pinned != nil {
		key, ok := store.Lookup(*m.Pinned)
		if !ok {
			return Key{}, fmt.Errorf("%w: pinned version %d not in store", gserrors.ErrNoKeyAvailable, *m.Pinned)
		}
		return key, nil
	}
	key, ok := store.Latest()
	if !ok {
		return Key{}, fmt.Errorf("%w: key store is empty", gserrors.ErrNoKeyAvailable)
	}
	return key, nil
}

// KeyForVersion returns the key for a specific version, for decrypting
// envelopes sealed before a rotation.
func (m *Manager) KeyForVersion(version uint32) (Key, error) {
	store, err := m.Load()
	if err != nil {
		return Key{}, err
	}
	key, ok := store.Lookup(version)
	if !ok {
		return Key{}, fmt.Errorf("%w: version %d not in store", gserrors.ErrNoKeyAvailable, version)
	}
	return key, nil
}

// Rotate appends a new highest key version. Existing history is not
// re-encrypted; old versions stay resident for decryption.
func (m *Manager) Rotate(ctx context.Context) (Key, error) {
	var rotated Key
	err := m.withLock(ctx, func() error {
		store, err := m.Load()
		if err != nil {
			return err
		}
		key, err := GenerateKey(store.NextVersion())
		if err != nil {
			return err
		}
		if err := store.Append(key); err != nil {
			return err
		}
		if err := store.WriteFile(m.path); err != nil {
			return err
		}
		rotated = key
		return nil
	})
	return rotated, err
}

// Export serializes the full store (all versions) to a portable file.
func (m *Manager) Export(path string) error {
	store, err := m.Load()
	if err != nil {
		return err
	}
	if err := store.WriteFile(path); err != nil {
		return fmt.Errorf("exporting key store: %w", err)
	}
	return nil
}

// Import merges the store serialized in data into the local store. A version
// collision with differing bytes aborts before any write, leaving the local
// store byte-identical. Importing into an uninitialized repository creates
// the store.
func (m *Manager) Import(ctx context.Context, data []byte) (added int, err error) {
	external, err := Parse(data)
	if err != nil {
		return 0, err
	}

	err = m.withLock(ctx, func() error {
		local := &Store{}
		if m.Exists() {
			var loadErr error
			if local, loadErr = m.Load(); loadErr != nil {
				return loadErr
			}
		}
		n, mergeErr := local.Merge(external)
		if mergeErr != nil {
			return mergeErr
		}
		if n == 0 {
			return nil // nothing new; skip the rewrite
		}
		if writeErr := local.WriteFile(m.path); writeErr != nil {
			return writeErr
		}
		added = n
		return nil
	})
	return added, err
}

// ImportFile merges the store at path into the local store.
func (m *Manager) ImportFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading key file: %w", err)
	}
	return m.Import(ctx, data)
}

// Purge deletes the key store file. This destroys key material and is only
// reachable through an explicit, confirmed command.
func (m *Manager) Purge() error {
	if err := os.Remove(m.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: no key store at %s", gserrors.ErrNoKeyAvailable, m.path)
		}
		return fmt.Errorf("removing key store: %w", err)
	}
	return nil
}

// withLock runs fn while holding the advisory lock guarding read-modify-write
// operations on the store file.
func (m *Manager) withLock(ctx context.Context, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0700); err != nil {
		return fmt.Errorf("creating key store directory: %w", err)
	}

	lock := flock.New(m.path + ".lock")
	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	locked, err := lock.TryLockContext(lockCtx, lockRetryInterval)
	if err != nil || !locked {
		return fmt.Errorf("%w: %s", gserrors.ErrStoreLockContention, m.path)
	}
	defer lock.Unlock() //nolint:errcheck

	return fn()
}
