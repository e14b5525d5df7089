package wrap

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
)

// ResolveAlias picks the label a recipient's wrapped blob is stored under.
// Precedence: an explicit alias, then the SSH key comment, then the stem of
// the public key filename, then a fingerprint-derived fallback. The result
// is always sanitized to filename-safe characters.
func ResolveAlias(explicit, recipient, sourcePath string) string {
	if alias := SanitizeLabel(explicit); alias != "" {
		return alias
	}
	if comment := sshKeyComment(recipient); comment != "" {
		if alias := SanitizeLabel(comment); alias != "" {
			return alias
		}
	}
	if sourcePath != "" {
		stem := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
		if alias := SanitizeLabel(stem); alias != "" {
			return alias
		}
	}
	sum := sha256.Sum256([]byte(strings.TrimSpace(recipient)))
	return "ssh-" + hex.EncodeToString(sum[:8])
}

// SanitizeLabel reduces a candidate alias to [A-Za-z0-9._-], replacing runs
// of other characters with a single dash. Returns "" when nothing survives.
func SanitizeLabel(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		default:
			pendingDash = true
		}
	}
	return strings.Trim(b.String(), ".-")
}

// sshKeyComment extracts the trailing comment field from an authorized_keys
// style public key line ("type base64 comment...").
func sshKeyComment(line string) string {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) < 3 {
		return ""
	}
	return strings.Join(fields[2:], " ")
}
