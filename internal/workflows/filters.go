package workflows

import (
	"context"
	"io"

	"github.com/gitseal/gitseal/internal/filter"
)

// FilterOptions configures the filter endpoint workflows.
type FilterOptions struct {
	// PassthroughWithoutKey is forwarded to the clean transform. See
	// filter.Options.
	PassthroughWithoutKey bool
}

// RunClean is the `gitseal clean` endpoint: encrypt stdin to stdout. Git
// invokes it once per staged file; any error makes git abort the add for
// that file, so without a key nothing plaintext can reach the object store.
func RunClean(ctx context.Context, dst io.Writer, src io.Reader, opts FilterOptions) error {
	env, err := LoadEnv(ctx)
	if err != nil {
		return err
	}
	return filter.Clean(dst, src, env.Keys(), filter.Options{
		PassthroughWithoutKey: opts.PassthroughWithoutKey,
	})
}

// RunSmudge is the `gitseal smudge` endpoint: decrypt stdin to stdout.
func RunSmudge(ctx context.Context, dst io.Writer, src io.Reader) error {
	env, err := LoadEnv(ctx)
	if err != nil {
		return err
	}
	return filter.Smudge(dst, src, env.Keys())
}

// RunDiff is the `gitseal diff` endpoint: git's textconv for sealed files.
func RunDiff(ctx context.Context, dst io.Writer, src io.Reader) error {
	env, err := LoadEnv(ctx)
	if err != nil {
		return err
	}
	return filter.Diff(dst, src, env.Keys())
}
