// Package errors defines the sentinel errors shared across gitseal.
//
// Callers wrap these with fmt.Errorf("...: %w", err) to add context and
// match them with errors.Is. Cryptographic failures are never caught and
// hidden below the command layer.
package errors
