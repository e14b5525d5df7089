package init_test

import (
	"strings"
	"testing"

	"github.com/gitseal/gitseal/internal/audit"
	"github.com/gitseal/gitseal/test/integration/shared"
)

// TestInit covers the `gitseal init` command end to end.
func TestInit(t *testing.T) {
	t.Run("InitInFreshRepo", testInitInFreshRepo)
	t.Run("InitTwiceFails", testInitTwiceFails)
	t.Run("InitOutsideGitRepo", testInitOutsideGitRepo)
}

func testInitInFreshRepo(t *testing.T) {
	repo := shared.CreateTestRepo(t)
	shared.EnterRepo(t, repo)

	output, err := shared.RunCommand("init")
	if err != nil {
		t.Fatalf("init failed: %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "initialized") {
		t.Errorf("output does not confirm initialization: %s", output)
	}

	shared.VerifyKeystore(t, repo)

	// Filters must be registered in the repo-local config.
	config := shared.Git(t, repo, "config", "--get", "filter.gitseal.clean")
	if !strings.Contains(config, "gitseal clean") {
		t.Errorf("clean filter not registered: %q", config)
	}
	config = shared.Git(t, repo, "config", "--get", "filter.gitseal.required")
	if !strings.Contains(config, "true") {
		t.Errorf("filter not marked required: %q", config)
	}

	// Init leaves an audit entry behind.
	entries, err := audit.ReadEntries(repo + "/.git/gitseal")
	if err != nil {
		t.Fatalf("reading audit log: %v", err)
	}
	if len(entries) != 1 || entries[0].Operation != "init" {
		t.Errorf("unexpected audit entries: %+v", entries)
	}
}

func testInitTwiceFails(t *testing.T) {
	repo := shared.CreateTestRepo(t)
	shared.EnterRepo(t, repo)

	if output, err := shared.RunCommand("init"); err != nil {
		t.Fatalf("first init failed: %v\noutput: %s", err, output)
	}
	output, err := shared.RunCommand("init")
	if err != nil {
		t.Fatalf("second init returned hard error: %v", err)
	}
	if !strings.Contains(output, "already initialized") {
		t.Errorf("second init did not report existing store: %s", output)
	}
}

func testInitOutsideGitRepo(t *testing.T) {
	shared.RequireGit(t)
	shared.EnterRepo(t, t.TempDir())

	output, err := shared.RunCommand("init")
	if err != nil {
		t.Fatalf("init returned hard error: %v", err)
	}
	if !strings.Contains(output, "Not inside a git repository") {
		t.Errorf("init outside a repo did not explain itself: %s", output)
	}
}
