//go:build !gpg

package wrap

import gserrors "github.com/gitseal/gitseal/internal/errors"

// NewGPGWrapper reports that GPG support is not compiled into this build.
// Build with -tags gpg to enable it.
func NewGPGWrapper() (Wrapper, error) {
	return nil, gserrors.ErrGPGSupportDisabled
}
