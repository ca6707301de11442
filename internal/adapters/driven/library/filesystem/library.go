// Package filesystem exposes a folder of documents as the document library.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/verbum/internal/core/domain"
	"github.com/custodia-labs/verbum/internal/core/ports/driven"
)

// Ensure Library implements the interface.
var _ driven.Library = (*Library)(nil)

// maxTopics bounds the document names listed in a folder summary.
const maxTopics = 5

// Library reads the folder hierarchy under a root directory.
// Entries whose names start with a dot are ignored.
type Library struct {
	root string
}

// New creates a library rooted at root, which must be an existing directory.
func New(root string) (*Library, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: library root is required", domain.ErrConfig)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve library root: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: library root %s: %w", domain.ErrNotFound, abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: library root %s is not a directory", domain.ErrConfig, abs)
	}
	return &Library{root: abs}, nil
}

// Root returns the absolute library root.
func (l *Library) Root() string {
	return l.root
}

// Resolve joins a library-relative path onto the root. Absolute paths
// are accepted when they lie inside the root.
func (l *Library) Resolve(rel string) (string, error) {
	var abs string
	if filepath.IsAbs(rel) {
		abs = filepath.Clean(rel)
	} else {
		abs = filepath.Join(l.root, rel)
	}

	inside, err := filepath.Rel(l.root, abs)
	if err != nil || inside == ".." || strings.HasPrefix(inside, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s is outside the library", domain.ErrInvalidInput, rel)
	}
	return abs, nil
}

// TopLevelFolders lists the visible folders directly under the root, sorted.
func (l *Library) TopLevelFolders(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return nil, fmt.Errorf("read library root: %w", err)
	}

	var folders []string
	for _, e := range entries {
		if e.IsDir() && !hidden(e.Name()) {
			folders = append(folders, e.Name())
		}
	}
	return folders, nil
}

// Contents returns the recursive contents of folder, sorted by name.
func (l *Library) Contents(ctx context.Context, folder string) ([]domain.HierarchyNode, error) {
	dir, err := l.Resolve(folder)
	if err != nil {
		return nil, err
	}
	rel, err := filepath.Rel(l.root, dir)
	if err != nil {
		return nil, err
	}
	return l.contents(ctx, dir, rel)
}

func (l *Library) contents(ctx context.Context, dir, rel string) ([]domain.HierarchyNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: folder %s", domain.ErrNotFound, rel)
		}
		return nil, fmt.Errorf("read folder %s: %w", rel, err)
	}

	// os.ReadDir sorts by file name.
	nodes := make([]domain.HierarchyNode, 0, len(entries))
	for _, e := range entries {
		if hidden(e.Name()) {
			continue
		}
		path := filepath.ToSlash(filepath.Join(rel, e.Name()))

		if !e.IsDir() {
			nodes = append(nodes, domain.HierarchyNode{Name: e.Name(), Type: domain.NodeTypeDocument, Path: path})
			continue
		}

		children, err := l.contents(ctx, filepath.Join(dir, e.Name()), filepath.Join(rel, e.Name()))
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, domain.HierarchyNode{
			Name:     e.Name(),
			Type:     domain.NodeTypeFolder,
			Path:     path,
			Children: children,
		})
	}
	return nodes, nil
}

// FolderSummary describes a folder by its name, its visible subfolders
// and up to five PDF names found beneath it:
//
//	Knowledge domain: biology Subdomains: cells, genetics Representative topics: cell division
func (l *Library) FolderSummary(ctx context.Context, folder string) (string, error) {
	dir, err := l.Resolve(folder)
	if err != nil {
		return "", err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read folder %s: %w", folder, err)
	}

	parts := []string{"Knowledge domain: " + folder}

	var subfolders []string
	for _, e := range entries {
		if e.IsDir() && !hidden(e.Name()) {
			subfolders = append(subfolders, e.Name())
		}
	}
	if len(subfolders) > 0 {
		parts = append(parts, "Subdomains: "+strings.Join(subfolders, ", "))
	}

	topics, err := pdfTopics(ctx, dir)
	if err != nil {
		return "", fmt.Errorf("scan folder %s: %w", folder, err)
	}
	if len(topics) > 0 {
		parts = append(parts, "Representative topics: "+strings.Join(topics, ", "))
	}

	return strings.Join(parts, " "), nil
}

// topicReplacer turns file name separators into spaces.
var topicReplacer = strings.NewReplacer("_", " ", "-", " ")

// pdfTopics walks dir in lexical order and returns the cleaned base names
// of the first PDFs found.
func pdfTopics(ctx context.Context, dir string) ([]string, error) {
	var topics []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path != dir && hidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), ".pdf") {
			return nil
		}

		name := strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))
		topics = append(topics, topicReplacer.Replace(name))
		if len(topics) == maxTopics {
			return filepath.SkipAll
		}
		return nil
	})
	return topics, err
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
