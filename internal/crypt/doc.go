// Package crypt implements gitseal's authenticated encryption engine.
//
// Content is encrypted with AES-256-GCM under a key version from the
// repository key store. Encryption is deterministic for a fixed key version
// and plaintext so that identical content produces identical ciphertext,
// which git's content-addressed storage and diff machinery depend on.
package crypt
