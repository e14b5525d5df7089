// Package shared contains testing utilities shared between integration tests.
// It builds throwaway git repositories, runs the gitseal CLI against them,
// and captures command output.
package shared

import (
	"bytes"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/gitseal/gitseal/cmd"
	logger "github.com/gitseal/gitseal/internal/logging"
)

// RequireGit skips the test when no git binary is available.
func RequireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

// CreateTestRepo creates a fresh git repository in a temp directory and
// returns its path. Identity config is set so commits work.
func CreateTestRepo(t *testing.T) string {
	t.Helper()
	RequireGit(t)

	dir := t.TempDir()
	Git(t, dir, "init", "--quiet")
	Git(t, dir, "config", "user.email", "test@example.com")
	Git(t, dir, "config", "user.name", "Test User")
	return dir
}

// Git runs a git command in dir and fails the test on error.
func Git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	command := exec.Command("git", args...)
	command.Dir = dir
	out, err := command.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v failed: %v: %s", args, err, out)
	}
	return string(out)
}

// GitMay runs a git command in dir and returns its output and error,
// for probes where failure is a valid answer.
func GitMay(dir string, args ...string) (string, error) {
	command := exec.Command("git", args...)
	command.Dir = dir
	out, err := command.CombinedOutput()
	return string(out), err
}

// EnterRepo changes into the repository directory for the duration of the
// test and resets the CLI's global flag state.
func EnterRepo(t *testing.T, dir string) {
	t.Helper()
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change to repo directory: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Fatalf("Failed to restore working directory: %v", err)
		}
		cmd.ResetGlobalState()
	})
	cmd.ResetGlobalState()
	cmd.SetLogger(logger.Logger{})
}

// RunCommand executes the gitseal CLI with the given arguments and returns
// the combined stdout and stderr.
func RunCommand(args ...string) (string, error) {
	return CaptureOutput(func() error {
		root := cmd.GetRootCmd()
		root.SetArgs(args)
		return root.Execute()
	})
}

// CaptureOutput captures both stdout and stderr during function execution.
func CaptureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	outputChan := make(chan string, 2)

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, stdoutReader)
		outputChan <- buf.String()
	}()
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, stderrReader)
		outputChan <- buf.String()
	}()

	err := fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	stdout := <-outputChan
	stderr := <-outputChan
	return stdout + stderr, err
}

// KeystorePath returns the key store location for a test repository.
func KeystorePath(repoDir string) string {
	return filepath.Join(repoDir, ".git", "gitseal", "keystore")
}

// BlobPath returns the wrapped blob location for an alias and scheme.
func BlobPath(repoDir, scheme, filename string) string {
	return filepath.Join(repoDir, ".git", "gitseal", "keys", scheme, filename)
}

// VerifyKeystoreAbsent checks the key store file is gone.
func VerifyKeystoreAbsent(t *testing.T, repoDir string) {
	t.Helper()
	if _, err := os.Stat(KeystorePath(repoDir)); !os.IsNotExist(err) {
		t.Errorf("key store still present at %s", KeystorePath(repoDir))
	}
}

// VerifyKeystore checks the key store exists with owner-only permissions.
func VerifyKeystore(t *testing.T, repoDir string) {
	t.Helper()
	info, err := os.Stat(KeystorePath(repoDir))
	if err != nil {
		t.Fatalf("key store missing: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("key store permissions = %o, want 600", perm)
	}
}
