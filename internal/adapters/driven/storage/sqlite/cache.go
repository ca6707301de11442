package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/custodia-labs/verbum/internal/core/ports/driven"
	"github.com/custodia-labs/verbum/internal/logger"
)

// ==================== Extraction Cache ====================

// extractionCache implements driven.ExtractionCache.
//
// Each entry records the modification time of the file it was extracted
// from. An entry whose file has since changed reads as a miss.
type extractionCache struct {
	store *Store
}

var _ driven.ExtractionCache = (*extractionCache)(nil)

// Get returns the cached text for key if the file has not changed.
func (c *extractionCache) Get(ctx context.Context, key string) (string, bool, error) {
	var text string
	var modTime int64
	err := c.store.db.QueryRowContext(ctx,
		`SELECT text, mod_time FROM extractions WHERE key = ?`, key,
	).Scan(&text, &modTime)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying extraction: %w", err)
	}

	if modTime != 0 && modTime != fileModTime(key) {
		logger.Debug("extraction cache entry for %s is stale", key)
		return "", false, nil
	}
	return text, true, nil
}

// Put stores text for key along with the current file modification time.
func (c *extractionCache) Put(ctx context.Context, key, text string) error {
	_, err := c.store.db.ExecContext(ctx, `
		INSERT INTO extractions (key, path, mod_time, text)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			path = excluded.path,
			mod_time = excluded.mod_time,
			text = excluded.text,
			created_at = CURRENT_TIMESTAMP
	`, key, key, fileModTime(key), text)
	if err != nil {
		return fmt.Errorf("saving extraction: %w", err)
	}
	return nil
}

// Delete removes the entry for key.
func (c *extractionCache) Delete(ctx context.Context, key string) error {
	if _, err := c.store.db.ExecContext(ctx, `DELETE FROM extractions WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting extraction: %w", err)
	}
	return nil
}

// fileModTime returns the modification time of path in nanoseconds, or 0
// when path is not a file on disk.
func fileModTime(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.ModTime().UnixNano()
}

// ==================== Vector Cache ====================

// vectorCache implements driven.VectorCache for a single model.
type vectorCache struct {
	store *Store
	model string
}

var _ driven.VectorCache = (*vectorCache)(nil)

// Get returns the cached vector. Read failures are logged and reported as a miss.
func (c *vectorCache) Get(ctx context.Context, key string) ([]float32, bool) {
	var dims int
	var data []byte
	err := c.store.db.QueryRowContext(ctx,
		`SELECT dims, data FROM vectors WHERE key = ? AND model = ?`, key, c.model,
	).Scan(&dims, &data)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logger.Warn("vector cache read failed for %s: %v", key, err)
		}
		return nil, false
	}

	vec := bytesToFloat32Slice(data)
	if len(vec) != dims {
		logger.Warn("vector cache entry for %s is corrupt: %d of %d dimensions", key, len(vec), dims)
		return nil, false
	}
	return vec, true
}

// Put stores vec under key. Write failures are logged and dropped.
func (c *vectorCache) Put(ctx context.Context, key string, vec []float32) {
	if len(vec) == 0 {
		return
	}
	_, err := c.store.db.ExecContext(ctx, `
		INSERT INTO vectors (key, model, dims, data)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key, model) DO UPDATE SET
			dims = excluded.dims,
			data = excluded.data,
			created_at = CURRENT_TIMESTAMP
	`, key, c.model, len(vec), float32SliceToBytes(vec))
	if err != nil {
		logger.Warn("vector cache write failed for %s: %v", key, err)
	}
}
