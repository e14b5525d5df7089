package keystore

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	gserrors "github.com/gitseal/gitseal/internal/errors"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(filepath.Join(t.TempDir(), "gitseal", "keystore"))
}

func TestInitCreatesVersionZero(t *testing.T) {
	m := testManager(t)

	key, err := m.Init()
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if key.Version != 0 {
		t.Errorf("initial key version = %d, want 0", key.Version)
	}

	active, err := m.ActiveKey()
	if err != nil {
		t.Fatalf("ActiveKey failed: %v", err)
	}
	if !bytes.Equal(active.Bytes, key.Bytes) {
		t.Error("active key differs from the key Init returned")
	}
}

func TestInitTwiceFails(t *testing.T) {
	m := testManager(t)
	if _, err := m.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if _, err := m.Init(); !errors.Is(err, gserrors.ErrAlreadyInitialized) {
		t.Errorf("got %v, want ErrAlreadyInitialized", err)
	}
}

func TestActiveKeyWithoutStore(t *testing.T) {
	m := testManager(t)
	if _, err := m.ActiveKey(); !errors.Is(err, gserrors.ErrNoKeyAvailable) {
		t.Errorf("got %v, want ErrNoKeyAvailable", err)
	}
}

func TestRotateAppendsHighestVersion(t *testing.T) {
	m := testManager(t)
	if _, err := m.Init(); err != nil {
		t.Fatal(err)
	}

	rotated, err := m.Rotate(context.Background())
	if err != nil {
		t.Fatalf("Rotate failed: %v", err)
	}
	if rotated.Version != 1 {
		t.Errorf("rotated version = %d, want 1", rotated.Version)
	}

	// Old version stays resident for decrypting existing history.
	if _, err := m.KeyForVersion(0); err != nil {
		t.Errorf("version 0 unavailable after rotate: %v", err)
	}

	active, err := m.ActiveKey()
	if err != nil {
		t.Fatal(err)
	}
	if active.Version != 1 {
		t.Errorf("active version after rotate = %d, want 1", active.Version)
	}
}

func TestPinnedVersionSelectsActiveKey(t *testing.T) {
	m := testManager(t)
	if _, err := m.Init(); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Rotate(context.Background()); err != nil {
		t.Fatal(err)
	}

	pin := uint32(0)
	m.Pinned = &pin

	active, err := m.ActiveKey()
	if err != nil {
		t.Fatalf("ActiveKey failed: %v", err)
	}
	if active.Version != 0 {
		t.Errorf("pinned active version = %d, want 0", active.Version)
	}

	missing := uint32(9)
	m.Pinned = &missing
	if _, err := m.ActiveKey(); !errors.Is(err, gserrors.ErrNoKeyAvailable) {
		t.Errorf("pin to absent version: got %v, want ErrNoKeyAvailable", err)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	src := testManager(t)
	if _, err := src.Init(); err != nil {
		t.Fatal(err)
	}
	if _, err := src.Rotate(context.Background()); err != nil {
		t.Fatal(err)
	}

	exportPath := filepath.Join(t.TempDir(), "exported.key")
	if err := src.Export(exportPath); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	dst := testManager(t)
	added, err := dst.ImportFile(context.Background(), exportPath)
	if err != nil {
		t.Fatalf("ImportFile failed: %v", err)
	}
	if added != 2 {
		t.Errorf("imported %d versions, want 2", added)
	}

	srcKey, _ := src.ActiveKey()
	dstKey, err := dst.ActiveKey()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(srcKey.Bytes, dstKey.Bytes) {
		t.Error("imported active key differs from exported one")
	}
}

func TestImportConflictLeavesLocalStoreUntouched(t *testing.T) {
	local := testManager(t)
	if _, err := local.Init(); err != nil {
		t.Fatal(err)
	}
	before, err := local.Load()
	if err != nil {
		t.Fatal(err)
	}

	conflicting := &Store{}
	if err := conflicting.Append(fixedKey(t, 0, 0xEE)); err != nil {
		t.Fatal(err)
	}

	if _, err := local.Import(context.Background(), conflicting.Serialize()); !errors.Is(err, gserrors.ErrKeyVersionConflict) {
		t.Fatalf("got %v, want ErrKeyVersionConflict", err)
	}

	after, err := local.Load()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before.Serialize(), after.Serialize()) {
		t.Error("failed import modified the key store on disk")
	}
}

func TestImportSameStoreIsNoOp(t *testing.T) {
	m := testManager(t)
	if _, err := m.Init(); err != nil {
		t.Fatal(err)
	}
	store, err := m.Load()
	if err != nil {
		t.Fatal(err)
	}

	added, err := m.Import(context.Background(), store.Serialize())
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if added != 0 {
		t.Errorf("re-import added %d versions, want 0", added)
	}
}

func TestImportGarbageRejected(t *testing.T) {
	m := testManager(t)
	if _, err := m.Import(context.Background(), []byte("not a key store")); !errors.Is(err, gserrors.ErrInvalidKeyStore) {
		t.Errorf("got %v, want ErrInvalidKeyStore", err)
	}
}

func TestPurgeRemovesStore(t *testing.T) {
	m := testManager(t)
	if _, err := m.Init(); err != nil {
		t.Fatal(err)
	}
	if err := m.Purge(); err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	if m.Exists() {
		t.Error("store still exists after purge")
	}
	if err := m.Purge(); !errors.Is(err, gserrors.ErrNoKeyAvailable) {
		t.Errorf("second purge: got %v, want ErrNoKeyAvailable", err)
	}
}
