package wrap

import "context"

// Wrapper encrypts an opaque payload (the exported key store) for one
// recipient and decrypts it again with the matching private credential.
// The payload is opaque to the scheme: callers decide whether it is a
// single key or a whole serialized store.
type Wrapper interface {
	// Scheme names the wrap scheme ("age" or "gpg").
	Scheme() string

	// Ext is the blob filename extension, including the dot.
	Ext() string

	// Wrap encrypts payload for the recipient described by recipient
	// (scheme-specific public material or identifier).
	Wrap(ctx context.Context, payload []byte, recipient string) ([]byte, error)

	// Unwrap decrypts a blob produced by Wrap. Wrong identity and corrupted
	// blob are indistinguishable and both surface as ErrUnwrapFailed.
	Unwrap(ctx context.Context, blob []byte) ([]byte, error)
}

// PassphraseFunc supplies the passphrase for a protected private credential.
// Prompting is the caller's concern; the wrap schemes are passphrase-agnostic
// beyond invoking this when the credential demands it.
type PassphraseFunc func() ([]byte, error)
