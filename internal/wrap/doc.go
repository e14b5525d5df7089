// Package wrap encrypts the exported key store for individual recipients.
//
// Two schemes exist: "age" wraps for SSH public keys using the age format,
// and "gpg" shells out to an external gpg binary (compiled in only with the
// gpg build tag). Wrapped blobs are stored under a per-recipient alias and
// are interoperable with the scheme's native tooling.
package wrap
