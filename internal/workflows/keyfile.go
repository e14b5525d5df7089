package workflows

import (
	"context"

	"github.com/gitseal/gitseal/internal/audit"
)

// ExportKeyOptions configures the export-key workflow.
type ExportKeyOptions struct {
	// OutputPath is where the serialized store is written (0600).
	OutputPath string
}

// ExportKeyResult contains the outcome of an export-key operation.
type ExportKeyResult struct {
	// OutputPath is where the store was written.
	OutputPath string

	// Versions is how many key versions the export carries.
	Versions int
}

// ExportKey serializes the full key store (all versions) to a portable
// file. The output is the same format as the on-disk store, so it can be
// fed straight back to import-key or unlock --key-file.
func ExportKey(ctx context.Context, opts ExportKeyOptions) (*ExportKeyResult, error) {
	env, err := LoadEnv(ctx)
	if err != nil {
		return nil, err
	}

	store, err := env.loadStore()
	if err != nil {
		return nil, err
	}
	if err := env.Keys().Export(opts.OutputPath); err != nil {
		return nil, err
	}

	entry := audit.NewEntry("export-key")
	entry.OutputPath = opts.OutputPath
	audit.Log(env.Settings.SealDir, entry)

	return &ExportKeyResult{
		OutputPath: opts.OutputPath,
		Versions:   store.Len(),
	}, nil
}

// ImportKeyOptions configures the import-key workflow.
type ImportKeyOptions struct {
	// InputPath is the exported key store to merge.
	InputPath string
}

// ImportKeyResult contains the outcome of an import-key operation.
type ImportKeyResult struct {
	// AddedVersions is how many new versions the import introduced.
	AddedVersions int

	// TotalVersions is the store size after the merge.
	TotalVersions int
}

// ImportKey merges an exported key store into the local one. A version
// present in both with differing key bytes aborts the whole import and
// leaves the local store byte-identical.
func ImportKey(ctx context.Context, opts ImportKeyOptions) (*ImportKeyResult, error) {
	env, err := LoadEnv(ctx)
	if err != nil {
		return nil, err
	}

	added, err := env.Keys().ImportFile(ctx, opts.InputPath)
	if err != nil {
		return nil, err
	}

	store, err := env.loadStore()
	if err != nil {
		return nil, err
	}

	entry := audit.NewEntry("import-key")
	entry.ImportedCount = added
	audit.Log(env.Settings.SealDir, entry)

	return &ImportKeyResult{
		AddedVersions: added,
		TotalVersions: store.Len(),
	}, nil
}
