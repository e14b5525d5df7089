package audit

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLogAndReadEntries(t *testing.T) {
	sealDir := filepath.Join(t.TempDir(), "gitseal")

	version := uint32(2)
	entry := NewEntry("rotate")
	entry.KeyVersion = &version
	Log(sealDir, entry)

	other := NewEntry("add-ssh-user")
	other.Recipient = "alice@laptop"
	other.Scheme = "age"
	other.OutputPath = "/keys/age/alice.age"
	Log(sealDir, other)

	entries, err := ReadEntries(sealDir)
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Operation != "rotate" || entries[0].KeyVersion == nil || *entries[0].KeyVersion != 2 {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Recipient != "alice@laptop" || entries[1].Scheme != "age" {
		t.Errorf("unexpected second entry: %+v", entries[1])
	}
	if entries[0].Timestamp == "" {
		t.Error("timestamp not populated")
	}
}

func TestReadEntriesMissingLog(t *testing.T) {
	entries, err := ReadEntries(t.TempDir())
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries from missing log, want 0", len(entries))
	}
}

func TestParseEntriesSkipsMalformedLines(t *testing.T) {
	data := []byte(`{"ts":"2026-01-01T00:00:00.000000Z","user":"a","op":"init"}
this is not json
{"ts":"2026-01-01T00:00:01.000000Z","user":"a","op":"rotate"}
`)
	entries, err := ParseEntries(data)
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Operation != "init" || entries[1].Operation != "rotate" {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestLogNeverFails(t *testing.T) {
	// Unwritable seal dir: Log must be silent.
	Log("", NewEntry("init"))

	readonly := filepath.Join(t.TempDir(), "ro")
	if err := os.MkdirAll(readonly, 0500); err != nil {
		t.Fatal(err)
	}
	Log(filepath.Join(readonly, "gitseal"), NewEntry("init"))
}
