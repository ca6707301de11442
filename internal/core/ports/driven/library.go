package driven

import (
	"context"

	"github.com/custodia-labs/verbum/internal/core/domain"
)

// Library exposes the folder hierarchy of the document collection.
type Library interface {
	// Root returns the absolute library root.
	Root() string

	// Resolve turns a library-relative path into an absolute one.
	// Paths escaping the root fail with domain.ErrInvalidInput.
	Resolve(rel string) (string, error)

	// TopLevelFolders lists the non-hidden folders directly under the root.
	TopLevelFolders(ctx context.Context) ([]string, error)

	// Contents returns the recursive contents of a folder, sorted by name.
	Contents(ctx context.Context, folder string) ([]domain.HierarchyNode, error)

	// FolderSummary describes a folder in one line of prose for embedding.
	FolderSummary(ctx context.Context, folder string) (string, error)
}

// Watcher reports changes to files under the library root.
type Watcher interface {
	// Watch blocks until ctx is done, calling onChange with the absolute
	// path of every written, renamed or removed file.
	Watch(ctx context.Context, onChange func(path string)) error
}
