package keysync

import (
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/gitseal/gitseal/internal/configs"
)

// Environment variables override the committed [sync_s3] section, so
// credentials and deployment-specific endpoints stay out of the repository.
const (
	envEnabled   = "GITSEAL_SYNC_S3_ENABLED"
	envBucket    = "GITSEAL_SYNC_S3_BUCKET"
	envScope     = "GITSEAL_SYNC_S3_SCOPE"
	envRepo      = "GITSEAL_SYNC_S3_REPO"
	envRegion    = "GITSEAL_SYNC_S3_REGION"
	envEndpoint  = "GITSEAL_SYNC_S3_ENDPOINT"
	envAccessKey = "GITSEAL_SYNC_S3_ACCESS_KEY"
	envSecretKey = "GITSEAL_SYNC_S3_SECRET_KEY"
	envPathStyle = "GITSEAL_SYNC_S3_PATH_STYLE"
)

// Config is the resolved S3 sync configuration for one repository.
type Config struct {
	Bucket    string
	Scope     string
	Repo      string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PathStyle bool

	enabled bool
}

// Active reports whether uploads should happen at all. Sync is active when
// a bucket is configured and not explicitly disabled.
func (c *Config) Active() bool {
	return c.enabled && c.Bucket != ""
}

// LoadConfig resolves the sync configuration from the committed project
// config overlaid with GITSEAL_SYNC_S3_* environment variables. repoName is
// the fallback repo label when neither config nor environment names one.
func LoadConfig(project *configs.ProjectConfig, repoName string) *Config {
	section := project.SyncS3

	c := &Config{
		Bucket:    overlay(section.Bucket, envBucket),
		Scope:     overlay(section.Scope, envScope),
		Repo:      overlay(section.Repo, envRepo),
		Region:    overlay(section.Region, envRegion),
		Endpoint:  overlay(section.Endpoint, envEndpoint),
		AccessKey: overlay(section.AccessKey, envAccessKey),
		SecretKey: overlay(section.SecretKey, envSecretKey),
		PathStyle: section.PathStyle,
		enabled:   true,
	}

	if section.Enabled != nil {
		c.enabled = *section.Enabled
	}
	if v := os.Getenv(envEnabled); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.enabled = parsed
		}
	}
	if v := os.Getenv(envPathStyle); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.PathStyle = parsed
		}
	}

	if c.Repo == "" {
		c.Repo = repoName
	}
	if c.Scope == "" {
		c.Scope = "default"
	}
	return c
}

// RemotePath is the object key a wrapped blob is uploaded under:
// <scope>/<repo>/keys/<scheme>/<filename>.
func (c *Config) RemotePath(scheme, filename string) string {
	return path.Join(c.Scope, c.Repo, "keys", scheme, filename)
}

func overlay(fromFile, envName string) string {
	if v := strings.TrimSpace(os.Getenv(envName)); v != "" {
		return v
	}
	return strings.TrimSpace(fromFile)
}
