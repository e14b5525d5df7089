package filter

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/gitseal/gitseal/internal/crypt"
	gserrors "github.com/gitseal/gitseal/internal/errors"
	"github.com/gitseal/gitseal/internal/keystore"
)

// Keyring is the key access the filter transforms need. *keystore.Manager
// satisfies it.
type Keyring interface {
	ActiveKey() (keystore.Key, error)
	KeyForVersion(version uint32) (keystore.Key, error)
}

// Options tunes filter behavior.
type Options struct {
	// PassthroughWithoutKey lets clean emit its input unchanged when no key
	// is available instead of failing. Off by default: the write path fails
	// closed so plaintext never reaches the object store by accident. Only
	// set for re-filtering history that is already ciphertext.
	PassthroughWithoutKey bool
}

// Clean encrypts working-tree content on its way into the object store.
//
// The whole plaintext is read before any output: the deterministic nonce is
// a function of the complete content. Input that already carries the
// envelope header passes through unchanged, so re-running the filter over
// committed ciphertext is a no-op.
func Clean(dst io.Writer, src io.Reader, ring Keyring, opts Options) error {
	plaintext, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("reading filter input: %w", err)
	}

	if crypt.IsEncrypted(plaintext) {
		return writeAll(dst, plaintext)
	}

	key, err := ring.ActiveKey()
	if err != nil {
		if opts.PassthroughWithoutKey && errors.Is(err, gserrors.ErrNoKeyAvailable) {
			return writeAll(dst, plaintext)
		}
		return fmt.Errorf("clean filter requires a key: %w", err)
	}

	engine, err := crypt.NewEngine(key.Version, key.Bytes)
	if err != nil {
		return err
	}
	return engine.Encrypt(plaintext).EncodeTo(dst)
}

// Smudge decrypts object-store content on its way to the working tree.
//
// Input that does not carry the envelope header is streamed through
// unchanged — a locked repository checks out ciphertext verbatim rather
// than erroring. Recognized envelopes require the matching key version;
// authentication failure is fatal and never degrades to pass-through.
func Smudge(dst io.Writer, src io.Reader, ring Keyring) error {
	br := bufio.NewReader(src)

	head, err := br.Peek(len(crypt.Magic))
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("reading filter input: %w", err)
	}
	if !crypt.IsEncrypted(head) {
		if _, err := io.Copy(dst, br); err != nil {
			return fmt.Errorf("passing content through: %w", err)
		}
		return nil
	}

	data, err := io.ReadAll(br)
	if err != nil {
		return fmt.Errorf("reading envelope: %w", err)
	}
	env, err := crypt.Decode(data)
	if err != nil {
		return err
	}

	key, err := ring.KeyForVersion(env.KeyVersion)
	if err != nil {
		return fmt.Errorf("smudge filter requires key version %d: %w", env.KeyVersion, err)
	}
	engine, err := crypt.NewEngine(key.Version, key.Bytes)
	if err != nil {
		return err
	}
	plaintext, err := engine.Decrypt(env)
	if err != nil {
		return err
	}
	return writeAll(dst, plaintext)
}

// encryptedSentinel is what diff shows for ciphertext it cannot decrypt.
const encryptedSentinel = "*** encrypted with gitseal: contents withheld ***\n"

// Diff renders content for git's textconv: decrypted plaintext when a key is
// available, a fixed sentinel when not, and unrecognized input unchanged.
func Diff(dst io.Writer, src io.Reader, ring Keyring) error {
	br := bufio.NewReader(src)

	head, err := br.Peek(len(crypt.Magic))
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("reading filter input: %w", err)
	}
	if !crypt.IsEncrypted(head) {
		if _, err := io.Copy(dst, br); err != nil {
			return fmt.Errorf("passing content through: %w", err)
		}
		return nil
	}

	data, err := io.ReadAll(br)
	if err != nil {
		return fmt.Errorf("reading envelope: %w", err)
	}
	env, err := crypt.Decode(data)
	if err != nil {
		// Carries the header but isn't a whole envelope; withhold rather
		// than dump corrupt bytes into a diff.
		return writeAll(dst, []byte(encryptedSentinel))
	}

	key, err := ring.KeyForVersion(env.KeyVersion)
	if err != nil {
		if errors.Is(err, gserrors.ErrNoKeyAvailable) {
			return writeAll(dst, []byte(encryptedSentinel))
		}
		return err
	}
	engine, err := crypt.NewEngine(key.Version, key.Bytes)
	if err != nil {
		return err
	}
	plaintext, err := engine.Decrypt(env)
	if err != nil {
		return err
	}
	return writeAll(dst, plaintext)
}

func writeAll(dst io.Writer, data []byte) error {
	if _, err := dst.Write(data); err != nil {
		return fmt.Errorf("writing filter output: %w", err)
	}
	return nil
}
