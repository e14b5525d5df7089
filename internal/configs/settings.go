package configs

import (
	"path/filepath"

	"github.com/gitseal/gitseal/internal/gitrepo"
)

// ConfigFileName is the optional project configuration file, committed at
// the repository root.
const ConfigFileName = ".gitseal.toml"

// ProjectSettings are the resolved paths gitseal operates on for one
// repository. Everything derives from the discovered repo; nothing here is
// global state.
type ProjectSettings struct {
	// RepoRoot is the working tree top level.
	RepoRoot string

	// GitDir is the repository's git directory.
	GitDir string

	// SealDir is the gitseal state directory inside the git dir.
	SealDir string

	// KeystorePath is the key store file.
	KeystorePath string

	// ConfigPath is the committed project config file.
	ConfigPath string
}

// Resolve derives the project settings for a discovered repository.
func Resolve(repo *gitrepo.Repo) *ProjectSettings {
	return &ProjectSettings{
		RepoRoot:     repo.Root,
		GitDir:       repo.GitDir,
		SealDir:      repo.SealDir(),
		KeystorePath: repo.KeystorePath(),
		ConfigPath:   filepath.Join(repo.Root, ConfigFileName),
	}
}
