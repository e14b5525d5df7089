// Package audit provides an append-only trail of key management operations.
//
// Every operation that touches key material (init, rotate, import, export,
// add recipients, purge) is recorded as JSON Lines in the gitseal state
// directory:
//
//	.git/gitseal/audit.jsonl
//
// The log lives inside the git dir rather than the working tree, so it is
// local to each clone and never committed.
//
// Logging is best-effort. If a write fails (permissions, disk full), the
// operation continues without error; malformed entries are skipped when
// reading to tolerate partial writes.
package audit
