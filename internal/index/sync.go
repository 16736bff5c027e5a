package index

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/pactum/internal/checksum"
	"github.com/starford/pactum/internal/models"
	"github.com/starford/pactum/internal/storage"
)

// Analyzer turns document bytes into a parsed result.
type Analyzer interface {
	Analyze(ctx context.Context, name string, data []byte) (*models.Document, error)
}

// AnalyzerFunc adapts a function to Analyzer.
type AnalyzerFunc func(ctx context.Context, name string, data []byte) (*models.Document, error)

// Analyze implements Analyzer.
func (f AnalyzerFunc) Analyze(ctx context.Context, name string, data []byte) (*models.Document, error) {
	return f(ctx, name, data)
}

// SyncResult counts what a Sync pass changed.
type SyncResult struct {
	Indexed int
	Removed int
	Failed  int
}

// Sync walks the library and brings the index up to date:
//   - new/changed files are analyzed and upserted, up to workers at a time
//   - files removed from disk are deleted from the index
func Sync(ctx context.Context, db *DB, store storage.Provider, an Analyzer, logger *slog.Logger, workers int) (SyncResult, error) {
	var res SyncResult

	metas, err := store.List("")
	if err != nil {
		return res, err
	}
	checksums, err := db.AllChecksums()
	if err != nil {
		return res, err
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var mu sync.Mutex
	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}
		if checksums[m.Path] == m.Checksum {
			continue
		}
		g.Go(func() error {
			data, err := store.Read(m.Path)
			if err == nil {
				err = indexFile(gctx, db, an, m.Path, data)
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failed++
				logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
				return nil
			}
			res.Indexed++
			logger.Debug("sync: indexed", slog.String("path", m.Path))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; ok {
			continue
		}
		if err := db.DeleteDocument(p); err != nil {
			logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		res.Removed++
		logger.Debug("sync: removed stale", slog.String("path", p))
	}

	return res, nil
}

// indexFile analyzes data and upserts it into the DB.
func indexFile(ctx context.Context, db *DB, an Analyzer, path string, data []byte) error {
	doc, err := an.Analyze(ctx, path, data)
	if err != nil {
		return err
	}
	return db.UpsertDocument(models.DocumentMetadata{
		Path:      path,
		Checksum:  checksum.Sum(data),
		UpdatedAt: time.Now().UTC(),
	}, doc)
}
