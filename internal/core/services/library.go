package services

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/verbum/internal/core/domain"
	"github.com/custodia-labs/verbum/internal/core/ports/driven"
	"github.com/custodia-labs/verbum/internal/core/ports/driving"
	"github.com/custodia-labs/verbum/internal/logger"
)

// Ensure LibraryService implements the interface.
var _ driving.LibraryService = (*LibraryService)(nil)

// maxSummaryChars bounds the folder summary sent to the embedding model.
const maxSummaryChars = 8191

// LibraryService exposes the document library tree and the semantic
// distances between its top-level folders.
type LibraryService struct {
	library     driven.Library
	gateway     *Gateway
	parallelism int
}

// NewLibraryService creates a library service. gateway is only needed for Distances.
func NewLibraryService(library driven.Library, gateway *Gateway) *LibraryService {
	return &LibraryService{
		library:     library,
		gateway:     gateway,
		parallelism: DefaultEmbedParallelism,
	}
}

// Hierarchy returns the library tree rooted at the library folder.
func (s *LibraryService) Hierarchy(ctx context.Context) (*domain.HierarchyNode, error) {
	if s.library == nil {
		return nil, fmt.Errorf("%w: no library configured", domain.ErrNotFound)
	}

	folders, err := s.library.TopLevelFolders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}

	root := &domain.HierarchyNode{
		Name:     filepath.Base(s.library.Root()),
		Type:     domain.NodeTypeFolder,
		Children: make([]domain.HierarchyNode, 0, len(folders)),
	}
	for _, folder := range folders {
		children, err := s.library.Contents(ctx, folder)
		if err != nil {
			return nil, fmt.Errorf("read folder %s: %w", folder, err)
		}
		root.Children = append(root.Children, domain.HierarchyNode{
			Name:     folder,
			Type:     domain.NodeTypeFolder,
			Path:     folder,
			Children: children,
		})
	}
	return root, nil
}

// Distances embeds a summary of every top-level folder and returns
// 1 - cosine for each unordered pair, in folder order. Folders whose
// summary or embedding fails are skipped.
func (s *LibraryService) Distances(ctx context.Context) ([]domain.FolderDistance, error) {
	logger.Section("Folder Distances")

	if s.library == nil {
		return nil, fmt.Errorf("%w: no library configured", domain.ErrNotFound)
	}
	if s.gateway == nil || !s.gateway.Available() {
		return nil, fmt.Errorf("%w: no embedding provider configured", domain.ErrEmbeddingUnavailable)
	}

	folders, err := s.library.TopLevelFolders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}

	vectors := make([][]float32, len(folders))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.parallelism)

	for i, folder := range folders {
		eg.Go(func() error {
			vec, err := s.folderVector(egCtx, folder)
			if err != nil {
				logger.Warn("skipping folder %s: %v", folder, err)
				return nil
			}
			vectors[i] = vec
			return nil
		})
	}
	// Workers never fail; per-folder errors are logged and skipped.
	_ = eg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var distances []domain.FolderDistance
	for i := range folders {
		if vectors[i] == nil {
			continue
		}
		for j := i + 1; j < len(folders); j++ {
			if vectors[j] == nil || len(vectors[j]) != len(vectors[i]) {
				continue
			}
			distances = append(distances, domain.FolderDistance{
				A:        folders[i],
				B:        folders[j],
				Distance: 1 - Cosine(vectors[i], vectors[j]),
			})
		}
	}

	logger.Debug("computed %d folder distances across %d folders", len(distances), len(folders))
	return distances, nil
}

func (s *LibraryService) folderVector(ctx context.Context, folder string) ([]float32, error) {
	summary, err := s.library.FolderSummary(ctx, folder)
	if err != nil {
		return nil, fmt.Errorf("summarise: %w", err)
	}
	return s.gateway.EmbedKeyed(ctx, "folder:"+folder, truncateRunes(summary, maxSummaryChars))
}
