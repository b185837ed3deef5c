package ports

import (
	"context"

	"github.com/kamal-hamza/webopt/internal/core/domain"
)

// Transformer defines the port for the external minifiers and encoders.
// Implementations are black boxes: bytes in, bytes out, or an error.
type Transformer interface {
	// Supports reports whether the transformer handles the given kind
	Supports(kind domain.Kind) bool

	// Transform returns the optimized form of content
	Transform(ctx context.Context, kind domain.Kind, content []byte) ([]byte, error)
}

// AssetRepository defines the port for asset discovery and file access
type AssetRepository interface {
	// Discover returns every file under root belonging to kind, in walk order
	Discover(ctx context.Context, root string, kind domain.Kind) ([]string, error)

	// Read returns the current content of a file
	Read(ctx context.Context, path string) ([]byte, error)

	// Write replaces a file's content without leaving it partially written
	Write(ctx context.Context, path string, data []byte) error

	// ListBackups returns every backup file under root
	ListBackups(ctx context.Context, root string) ([]string, error)

	// Excluded reports whether path under root matches an exclude pattern
	Excluded(root, path string) bool
}

// BackupGuard defines the port for backup-before-mutation
type BackupGuard interface {
	// EnsureBackup copies path to its backup location unless a backup exists
	EnsureBackup(ctx context.Context, path string) error

	// HasBackup checks whether a backup already exists for path
	HasBackup(path string) bool

	// Diverged reports whether path has been rewritten since its backup
	Diverged(path string) (bool, error)
}

// Precompressor defines the port for writing precompressed siblings
// (style.css.gz, style.css.br) next to an optimized asset
type Precompressor interface {
	// Precompress writes the siblings and returns their paths
	Precompress(ctx context.Context, path string, data []byte) ([]string, error)
}
