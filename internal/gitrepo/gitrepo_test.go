package gitrepo

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	gserrors "github.com/gitseal/gitseal/internal/errors"
)

// initTestRepo creates a throwaway git repository and returns its path.
// Tests skip when no git binary is on PATH.
func initTestRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
	dir := t.TempDir()
	cmd := exec.Command("git", "init", "--quiet")
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git init failed: %v: %s", err, out)
	}
	return dir
}

func TestDiscoverFindsRepo(t *testing.T) {
	dir := initTestRepo(t)

	repo, err := Discover(context.Background(), dir)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if repo.Root == "" || repo.GitDir == "" {
		t.Fatalf("Discover returned empty paths: %+v", repo)
	}
	if filepath.Base(repo.GitDir) != ".git" {
		t.Errorf("GitDir = %q, want a .git directory", repo.GitDir)
	}
}

func TestDiscoverFromSubdirectory(t *testing.T) {
	dir := initTestRepo(t)
	sub := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	repo, err := Discover(context.Background(), sub)
	if err != nil {
		t.Fatalf("Discover from subdirectory failed: %v", err)
	}
	if filepath.Base(repo.GitDir) != ".git" {
		t.Errorf("GitDir = %q, want a .git directory", repo.GitDir)
	}
}

func TestDiscoverOutsideRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
	_, err := Discover(context.Background(), t.TempDir())
	if !errors.Is(err, gserrors.ErrNotAGitRepository) {
		t.Errorf("got %v, want ErrNotAGitRepository", err)
	}
}

func TestInstallRemoveFilters(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Discover(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	installed, err := repo.FiltersInstalled(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if installed {
		t.Fatal("filters reported installed in a fresh repo")
	}

	if err := repo.InstallFilters(ctx); err != nil {
		t.Fatalf("InstallFilters failed: %v", err)
	}
	installed, err = repo.FiltersInstalled(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !installed {
		t.Fatal("filters not reported installed after InstallFilters")
	}

	if err := repo.RemoveFilters(ctx); err != nil {
		t.Fatalf("RemoveFilters failed: %v", err)
	}
	installed, err = repo.FiltersInstalled(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if installed {
		t.Fatal("filters still reported installed after RemoveFilters")
	}

	// Removing twice is fine.
	if err := repo.RemoveFilters(ctx); err != nil {
		t.Fatalf("second RemoveFilters failed: %v", err)
	}
}

func TestSealPaths(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Discover(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := repo.SealDir(), filepath.Join(repo.GitDir, "gitseal"); got != want {
		t.Errorf("SealDir = %q, want %q", got, want)
	}
	if got, want := repo.KeystorePath(), filepath.Join(repo.GitDir, "gitseal", "keystore"); got != want {
		t.Errorf("KeystorePath = %q, want %q", got, want)
	}
	if got, want := repo.BlobDir("age"), filepath.Join(repo.GitDir, "gitseal", "keys", "age"); got != want {
		t.Errorf("BlobDir = %q, want %q", got, want)
	}
}
