// Package gitrepo locates the enclosing git repository and manages the
// filter and diff driver registration gitseal depends on. All git access
// shells out to the git binary so gitseal follows whatever worktree,
// submodule, or GIT_DIR layout the user's git resolves.
package gitrepo

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	gserrors "github.com/gitseal/gitseal/internal/errors"
)

// filterName is the name gitseal registers its clean/smudge/diff drivers
// under. Tracked files opt in via .gitattributes:
//
//	secrets.env filter=gitseal diff=gitseal
const filterName = "gitseal"

// Repo is a discovered git repository.
type Repo struct {
	// Root is the absolute path of the working tree top level.
	Root string

	// GitDir is the absolute path of the repository's git directory.
	GitDir string
}

// Discover resolves the repository enclosing dir (or the current directory
// when dir is empty). Returns ErrNotAGitRepository when git finds none.
func Discover(ctx context.Context, dir string) (*Repo, error) {
	root, err := gitOutput(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gserrors.ErrNotAGitRepository, err)
	}
	gitDir, err := gitOutput(ctx, dir, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gserrors.ErrNotAGitRepository, err)
	}
	return &Repo{Root: root, GitDir: gitDir}, nil
}

// SealDir is the gitseal state directory inside the git dir. It is never
// part of the working tree, so nothing in it can be committed by accident.
func (r *Repo) SealDir() string {
	return filepath.Join(r.GitDir, "gitseal")
}

// KeystorePath is the on-disk location of the repository's key store.
func (r *Repo) KeystorePath() string {
	return filepath.Join(r.SealDir(), "keystore")
}

// BlobDir is where wrapped key blobs for the given scheme live.
func (r *Repo) BlobDir(scheme string) string {
	return filepath.Join(r.SealDir(), "keys", scheme)
}

// InstallFilters registers the gitseal clean/smudge/diff drivers in the
// repository-local git config. filter.<name>.required makes git abort any
// add or checkout the filters cannot serve instead of silently passing
// plaintext or ciphertext through.
func (r *Repo) InstallFilters(ctx context.Context) error {
	settings := [][2]string{
		{"filter." + filterName + ".clean", "gitseal clean"},
		{"filter." + filterName + ".smudge", "gitseal smudge"},
		{"filter." + filterName + ".required", "true"},
		{"diff." + filterName + ".textconv", "gitseal diff"},
	}
	for _, kv := range settings {
		if _, err := gitOutput(ctx, r.Root, "config", kv[0], kv[1]); err != nil {
			return fmt.Errorf("setting %s: %w", kv[0], err)
		}
	}
	return nil
}

// RemoveFilters deletes the gitseal driver registration. Missing sections
// are not an error, so removal is idempotent.
func (r *Repo) RemoveFilters(ctx context.Context) error {
	for _, section := range []string{"filter." + filterName, "diff." + filterName} {
		_, err := gitOutput(ctx, r.Root, "config", "--remove-section", section)
		if err != nil && !isMissingSection(err) {
			return fmt.Errorf("removing %s: %w", section, err)
		}
	}
	return nil
}

// FiltersInstalled reports whether the clean, smudge, and required entries
// are all present. A partial registration counts as not installed.
func (r *Repo) FiltersInstalled(ctx context.Context) (bool, error) {
	want := map[string]string{
		"filter." + filterName + ".clean":    "gitseal clean",
		"filter." + filterName + ".smudge":   "gitseal smudge",
		"filter." + filterName + ".required": "true",
	}
	for key, value := range want {
		got, err := gitOutput(ctx, r.Root, "config", "--get", key)
		if err != nil {
			// git config --get exits 1 when the key is absent.
			return false, nil
		}
		if got != value {
			return false, nil
		}
	}
	return true, nil
}

// RefreshWorkingTree re-runs the smudge filter over the tracked tree by
// forcing a checkout of HEAD. Best-effort callers tolerate failure here; an
// empty repository with no HEAD is the common benign case.
func (r *Repo) RefreshWorkingTree(ctx context.Context) error {
	if _, err := gitOutput(ctx, r.Root, "checkout", "HEAD", "--", "."); err != nil {
		return fmt.Errorf("refreshing working tree: %w", err)
	}
	return nil
}

// Name is the repository's directory basename, used as the default repo
// label for remote sync paths.
func (r *Repo) Name() string {
	return filepath.Base(r.Root)
}

func isMissingSection(err error) bool {
	return strings.Contains(err.Error(), "no such section") ||
		strings.Contains(err.Error(), "exit status 128")
}

// gitOutput runs git with the given args in dir and returns trimmed stdout.
// Stderr is folded into the returned error.
func gitOutput(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("git %s: %v: %s", args[0], err, msg)
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return strings.TrimSpace(out.String()), nil
}
