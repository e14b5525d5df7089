package keysync

import (
	"testing"

	"github.com/gitseal/gitseal/internal/configs"
)

func TestLoadConfigDefaults(t *testing.T) {
	c := LoadConfig(&configs.ProjectConfig{}, "myrepo")
	if c.Active() {
		t.Error("sync active with no bucket configured")
	}
	if c.Repo != "myrepo" {
		t.Errorf("Repo = %q, want repo name fallback", c.Repo)
	}
	if c.Scope != "default" {
		t.Errorf("Scope = %q, want %q", c.Scope, "default")
	}
}

func TestLoadConfigFromProjectFile(t *testing.T) {
	project := &configs.ProjectConfig{
		SyncS3: configs.SyncS3Config{
			Bucket: "team-keys",
			Scope:  "platform",
			Repo:   "payments",
			Region: "eu-west-1",
		},
	}
	c := LoadConfig(project, "ignored")
	if !c.Active() {
		t.Error("sync inactive despite configured bucket")
	}
	if c.Repo != "payments" || c.Scope != "platform" || c.Region != "eu-west-1" {
		t.Errorf("unexpected config: %+v", c)
	}
}

func TestLoadConfigExplicitDisable(t *testing.T) {
	disabled := false
	project := &configs.ProjectConfig{
		SyncS3: configs.SyncS3Config{Enabled: &disabled, Bucket: "team-keys"},
	}
	if LoadConfig(project, "r").Active() {
		t.Error("sync active despite enabled = false")
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv(envBucket, "env-bucket")
	t.Setenv(envScope, "env-scope")
	t.Setenv(envAccessKey, "AKIA")
	t.Setenv(envSecretKey, "shhh")
	t.Setenv(envPathStyle, "true")

	project := &configs.ProjectConfig{
		SyncS3: configs.SyncS3Config{Bucket: "file-bucket", Scope: "file-scope"},
	}
	c := LoadConfig(project, "r")
	if c.Bucket != "env-bucket" {
		t.Errorf("Bucket = %q, want env override", c.Bucket)
	}
	if c.Scope != "env-scope" {
		t.Errorf("Scope = %q, want env override", c.Scope)
	}
	if c.AccessKey != "AKIA" || c.SecretKey != "shhh" {
		t.Error("credentials not taken from environment")
	}
	if !c.PathStyle {
		t.Error("PathStyle env override not applied")
	}
}

func TestLoadConfigEnvDisable(t *testing.T) {
	t.Setenv(envEnabled, "false")
	project := &configs.ProjectConfig{
		SyncS3: configs.SyncS3Config{Bucket: "team-keys"},
	}
	if LoadConfig(project, "r").Active() {
		t.Error("sync active despite GITSEAL_SYNC_S3_ENABLED=false")
	}
}

func TestRemotePath(t *testing.T) {
	project := &configs.ProjectConfig{
		SyncS3: configs.SyncS3Config{Bucket: "b", Scope: "platform", Repo: "payments"},
	}
	c := LoadConfig(project, "r")
	got := c.RemotePath("age", "alice.age")
	want := "platform/payments/keys/age/alice.age"
	if got != want {
		t.Errorf("RemotePath = %q, want %q", got, want)
	}
}
