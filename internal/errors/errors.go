package errors

import "errors"

// Key availability errors indicate the repository key material cannot be used.
var (
	// ErrNoKeyAvailable indicates no usable key is resident (repository is locked).
	ErrNoKeyAvailable = errors.New("no encryption key available")

	// ErrAlreadyInitialized indicates gitseal has already been set up in this repository.
	ErrAlreadyInitialized = errors.New("repository has already been initialized for gitseal")
)

// Cryptographic errors indicate failures during encryption or decryption.
var (
	// ErrAuthenticationFailed indicates ciphertext failed tag verification:
	// tampered or corrupt data, or the wrong key.
	ErrAuthenticationFailed = errors.New("authentication failed: ciphertext is corrupt or the key is wrong")

	// ErrInvalidKeyLength indicates a key has an unexpected length.
	ErrInvalidKeyLength = errors.New("invalid key length")

	// ErrMalformedEnvelope indicates data carried the encryption header but
	// could not be parsed as a complete envelope.
	ErrMalformedEnvelope = errors.New("malformed encrypted envelope")
)

// Key store errors indicate issues with the versioned key store file.
var (
	// ErrInvalidKeyStore indicates the key store file is malformed or truncated.
	ErrInvalidKeyStore = errors.New("invalid key store file")

	// ErrKeyVersionConflict indicates an import contained a key version that
	// already exists locally with different key bytes.
	ErrKeyVersionConflict = errors.New("key version conflict: same version with different key bytes")

	// ErrKeyVersionExists indicates an append targeted a version already present.
	ErrKeyVersionExists = errors.New("key version already exists")

	// ErrStoreLockContention indicates the advisory lock on the key store
	// could not be acquired within the retry window.
	ErrStoreLockContention = errors.New("key store is locked by another gitseal process")
)

// Key sharing errors indicate failures wrapping or unwrapping the repository key.
var (
	// ErrInvalidRecipient indicates the recipient public material is malformed
	// or of an unsupported type.
	ErrInvalidRecipient = errors.New("invalid recipient key material")

	// ErrUnwrapFailed indicates a wrapped key blob could not be decrypted:
	// wrong identity or corrupted blob (indistinguishable).
	ErrUnwrapFailed = errors.New("failed to unwrap key: wrong identity or corrupted blob")

	// ErrGPGSupportDisabled indicates the binary was built without the gpg build tag.
	ErrGPGSupportDisabled = errors.New("gpg support not enabled: rebuild with -tags gpg")
)

// Repository errors indicate issues locating or configuring the git repository.
var (
	// ErrNotAGitRepository indicates no git repository was found.
	ErrNotAGitRepository = errors.New("not inside a git repository")
)
