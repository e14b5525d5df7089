package rotate_test

import (
	"strings"
	"testing"

	"github.com/gitseal/gitseal/internal/keystore"
	"github.com/gitseal/gitseal/test/integration/shared"
)

// TestRotate covers key rotation through the CLI.
func TestRotate(t *testing.T) {
	t.Run("RotateAppendsVersion", testRotateAppendsVersion)
	t.Run("RotateRepeatedlyIsMonotonic", testRotateMonotonic)
	t.Run("RotateWithoutInit", testRotateWithoutInit)
}

func testRotateAppendsVersion(t *testing.T) {
	repo := shared.CreateTestRepo(t)
	shared.EnterRepo(t, repo)
	if output, err := shared.RunCommand("init"); err != nil {
		t.Fatalf("init failed: %v\noutput: %s", err, output)
	}

	output, err := shared.RunCommand("rotate", "--force")
	if err != nil {
		t.Fatalf("rotate failed: %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "version 1") {
		t.Errorf("rotate did not report the new version: %s", output)
	}

	store, err := keystore.ReadFile(shared.KeystorePath(repo))
	if err != nil {
		t.Fatalf("reading store: %v", err)
	}
	if store.Len() != 2 {
		t.Fatalf("store has %d versions, want 2", store.Len())
	}
	latest, ok := store.Latest()
	if !ok || latest.Version != 1 {
		t.Errorf("latest version = %v, want 1", latest.Version)
	}
}

func testRotateMonotonic(t *testing.T) {
	repo := shared.CreateTestRepo(t)
	shared.EnterRepo(t, repo)
	if _, err := shared.RunCommand("init"); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if output, err := shared.RunCommand("rotate", "--force"); err != nil {
			t.Fatalf("rotate %d failed: %v\noutput: %s", i, err, output)
		}
	}

	store, err := keystore.ReadFile(shared.KeystorePath(repo))
	if err != nil {
		t.Fatal(err)
	}
	keys := store.Keys()
	if len(keys) != 4 {
		t.Fatalf("store has %d versions, want 4", len(keys))
	}
	for i, key := range keys {
		if key.Version != uint32(i) {
			t.Errorf("keys[%d].Version = %d, want %d", i, key.Version, i)
		}
	}
}

func testRotateWithoutInit(t *testing.T) {
	repo := shared.CreateTestRepo(t)
	shared.EnterRepo(t, repo)

	output, err := shared.RunCommand("rotate", "--force")
	if err != nil {
		t.Fatalf("rotate returned hard error: %v", err)
	}
	if !strings.Contains(output, "No key store") {
		t.Errorf("rotate without init did not explain itself: %s", output)
	}
}
