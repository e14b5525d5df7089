package configs

import (
	"fmt"
	"os"
)

// ProjectConfig is the committed .gitseal.toml. Every field is optional;
// a missing file behaves like an empty one.
type ProjectConfig struct {
	Encryption EncryptionConfig `toml:"encryption"`
	SyncS3     SyncS3Config     `toml:"sync_s3"`
}

// EncryptionConfig tunes the clean filter.
type EncryptionConfig struct {
	// PinnedVersion forces new encryptions to use a specific key version
	// instead of the highest one. Decryption is unaffected.
	PinnedVersion *uint32 `toml:"pinned_version"`
}

// SyncS3Config configures the best-effort mirroring of wrapped key blobs to
// an S3 bucket. Credential fields are normally left empty in the committed
// file and supplied through the environment.
type SyncS3Config struct {
	// Enabled defaults to true when a bucket is configured; set to false to
	// keep the section while pausing uploads.
	Enabled *bool `toml:"enabled"`

	Bucket    string `toml:"bucket"`
	Scope     string `toml:"scope"`
	Repo      string `toml:"repo"`
	Region    string `toml:"region"`
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	PathStyle bool   `toml:"path_style"`
}

// LoadProjectConfig reads the project config at path. A missing file yields
// the zero config, not an error.
func LoadProjectConfig(path string) (*ProjectConfig, error) {
	config := &ProjectConfig{}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(path, config); err != nil {
		return nil, fmt.Errorf("failed to load project config: %w", err)
	}
	return config, nil
}

// SaveProjectConfig writes the project config to path.
func SaveProjectConfig(path string, config *ProjectConfig) error {
	if err := SaveTOML(path, config); err != nil {
		return fmt.Errorf("failed to save project config: %w", err)
	}
	return nil
}
