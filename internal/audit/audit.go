package audit

import (
	"encoding/json"
	"os"
	"os/user"
	"path/filepath"
	"time"
)

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp string `json:"ts"`   // RFC3339 with microseconds.
	User      string `json:"user"` // OS username performing the action.
	Operation string `json:"op"`   // Operation name.

	// Optional fields depending on operation.
	KeyVersion    *uint32 `json:"key_version,omitempty"`    // For init/rotate/purge.
	Recipient     string  `json:"recipient,omitempty"`      // For add-ssh-user/add-gpg-user.
	Scheme        string  `json:"scheme,omitempty"`         // Wrap scheme for recipient ops.
	OutputPath    string  `json:"output_path,omitempty"`    // For export-key and blob writes.
	RemotePath    string  `json:"remote_path,omitempty"`    // For S3-synced blobs.
	ImportedCount int     `json:"imported_count,omitempty"` // For import-key/unlock.
}

// NewEntry builds an entry for op with the timestamp and OS username filled
// in.
func NewEntry(op string) Entry {
	entry := Entry{
		Operation: op,
		Timestamp: time.Now().UTC().Format("2006-01-02T15:04:05.000000Z"),
	}
	if current, err := user.Current(); err == nil {
		entry.User = current.Username
	}
	return entry
}

// Log appends an entry to the audit log under sealDir.
// If logging fails, the operation continues; key operations should never
// fail just because the audit trail could not be written.
func Log(sealDir string, entry Entry) {
	if sealDir == "" {
		return
	}
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}

	if err := os.MkdirAll(sealDir, 0700); err != nil {
		return
	}

	f, err := os.OpenFile(LogPath(sealDir), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_, _ = f.Write(append(data, '\n'))
}

// LogPath returns the path of the audit log inside sealDir.
func LogPath(sealDir string) string {
	return filepath.Join(sealDir, "audit.jsonl")
}

// ReadEntries reads all entries from the audit log under sealDir.
// Returns an empty slice if the log doesn't exist.
func ReadEntries(sealDir string) ([]Entry, error) {
	data, err := os.ReadFile(LogPath(sealDir))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				// Skip malformed entries.
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
