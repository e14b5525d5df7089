// Package filter implements the git clean/smudge/diff filter contracts as
// stream transforms over the crypt engine.
//
// Each transform is one short-lived, single-shot call: git pipes file
// content in, gitseal pipes transformed content out, and a non-zero exit
// aborts the surrounding git operation for that file. The write path (clean)
// fails closed without a key; only the read paths (smudge, diff) are allowed
// a pass-through fallback, and only for input that is not gitseal ciphertext
// or that cannot be decrypted without a key.
package filter
