package keystore

import (
	"bytes"
	"crypto/rand"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gitseal/gitseal/internal/crypt"
	gserrors "github.com/gitseal/gitseal/internal/errors"
)

// fileHeader identifies a serialized key store. The final byte is the
// format version.
var fileHeader = []byte("GSKEYS\x00\x01")

// recordSize is version (4) + created_at unix seconds (8) + key bytes (32).
const recordSize = 4 + 8 + crypt.KeySize

// Key is one immutable version of the repository's symmetric key.
type Key struct {
	Version   uint32
	Bytes     []byte
	CreatedAt time.Time
}

// GenerateKey creates a fresh random key for the given version.
func GenerateKey(version uint32) (Key, error) {
	b := make([]byte, crypt.KeySize)
	if _, err := rand.Read(b); err != nil {
		return Key{}, fmt.Errorf("generating key material: %w", err)
	}
	return Key{
		Version:   version,
		Bytes:     b,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}, nil
}

// Store is an ordered, append-only set of key versions.
type Store struct {
	keys []Key // ascending by version, versions unique
}

// Keys returns the key records in ascending version order.
func (s *Store) Keys() []Key {
	return s.keys
}

// Len returns the number of key versions held.
func (s *Store) Len() int {
	return len(s.keys)
}

// Lookup returns the key for a specific version.
func (s *Store) Lookup(version uint32) (Key, bool) {
	for _, k := range s.keys {
		if k.Version == version {
			return k, true
		}
	}
	return Key{}, false
}

// Latest returns the highest key version present.
func (s *Store) Latest() (Key, bool) {
	if len(s.keys) == 0 {
		return Key{}, false
	}
	return s.keys[len(s.keys)-1], true
}

// NextVersion returns the version a rotation would create.
func (s *Store) NextVersion() uint32 {
	if latest, ok := s.Latest(); ok {
		return latest.Version + 1
	}
	return 0
}

// Append adds a new key version. The version must not already exist;
// existing records are never overwritten.
func (s *Store) Append(k Key) error {
	if len(k.Bytes) != crypt.KeySize {
		return fmt.Errorf("%w: expected %d bytes, got %d", gserrors.ErrInvalidKeyLength, crypt.KeySize, len(k.Bytes))
	}
	if _, exists := s.Lookup(k.Version); exists {
		return fmt.Errorf("%w: version %d", gserrors.ErrKeyVersionExists, k.Version)
	}
	s.keys = append(s.keys, k)
	sort.Slice(s.keys, func(i, j int) bool { return s.keys[i].Version < s.keys[j].Version })
	return nil
}

// Merge folds every key from other into s. A version present on both sides
// with identical bytes is a no-op; with differing bytes the merge aborts
// with ErrKeyVersionConflict before modifying s, since discarding either
// side would orphan ciphertext encrypted under it.
func (s *Store) Merge(other *Store) (added int, err error) {
	var incoming []Key
	for _, k := range other.keys {
		if local, exists := s.Lookup(k.Version); exists {
			if subtle.ConstantTimeCompare(local.Bytes, k.Bytes) != 1 {
				return 0, fmt.Errorf("%w: version %d", gserrors.ErrKeyVersionConflict, k.Version)
			}
			continue
		}
		incoming = append(incoming, k)
	}
	for _, k := range incoming {
		if err := s.Append(k); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

// Serialize encodes the store to its portable binary form.
func (s *Store) Serialize() []byte {
	out := make([]byte, 0, len(fileHeader)+len(s.keys)*recordSize)
	out = append(out, fileHeader...)
	for _, k := range s.keys {
		out = binary.LittleEndian.AppendUint32(out, k.Version)
		out = binary.LittleEndian.AppendUint64(out, uint64(k.CreatedAt.Unix()))
		out = append(out, k.Bytes...)
	}
	return out
}

// Parse decodes a serialized store, validating the header and record layout.
func Parse(data []byte) (*Store, error) {
	if len(data) < len(fileHeader) || !bytes.Equal(data[:len(fileHeader)], fileHeader) {
		return nil, fmt.Errorf("%w: missing header", gserrors.ErrInvalidKeyStore)
	}
	body := data[len(fileHeader):]
	if len(body)%recordSize != 0 {
		return nil, fmt.Errorf("%w: truncated record", gserrors.ErrInvalidKeyStore)
	}

	store := &Store{}
	for off := 0; off < len(body); off += recordSize {
		rec := body[off : off+recordSize]
		k := Key{
			Version:   binary.LittleEndian.Uint32(rec),
			CreatedAt: time.Unix(int64(binary.LittleEndian.Uint64(rec[4:])), 0).UTC(),
			Bytes:     append([]byte(nil), rec[12:]...),
		}
		if err := store.Append(k); err != nil {
			return nil, fmt.Errorf("%w: duplicate version %d", gserrors.ErrInvalidKeyStore, k.Version)
		}
	}
	return store, nil
}

// ReadFile loads a store from disk.
func ReadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// WriteFile persists the store atomically (temp file + rename) with owner-only
// permissions, so a failed write never corrupts an existing store.
func (s *Store) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating key store directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".keystore-*")
	if err != nil {
		return fmt.Errorf("creating temp key store: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("setting key store permissions: %w", err)
	}
	if _, err := tmp.Write(s.Serialize()); err != nil {
		tmp.Close()
		return fmt.Errorf("writing key store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing key store: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replacing key store: %w", err)
	}
	return nil
}
