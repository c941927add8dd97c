package service

import (
	"context"
	"log/slog"

	"github.com/raphaelgruber/kankatext/internal/models"
)

// Index maps entity ids to their display name and type label.
// It is built once by BuildIndex and only read afterwards.
type Index struct {
	entries map[int64]models.Identity
}

// NewIndex creates an index from a prepared map. The map is copied.
func NewIndex(entries map[int64]models.Identity) *Index {
	idx := &Index{entries: make(map[int64]models.Identity, len(entries))}
	for id, ident := range entries {
		idx.entries[id] = ident
	}
	return idx
}

// Lookup returns the identity registered for id.
// A missing id is a normal, unresolved reference.
func (i *Index) Lookup(id int64) (models.Identity, bool) {
	if i == nil {
		return models.Identity{}, false
	}
	ident, ok := i.entries[id]
	return ident, ok
}

// Len returns the number of indexed entities.
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.entries)
}

// IndexStats summarizes an indexing pass.
type IndexStats struct {
	Files     int // record files visited
	Indexed   int // unique ids in the index
	Skipped   int // records without id or name
	Failed    int // files that could not be decoded
	Duplicate int // ids seen more than once (last write wins)
}

// BuildIndex runs the indexing pass over the whole export.
//
// Every decodable record with an id and a name is registered. When two
// records share an id the one visited last wins; the walk order is lexical,
// so the outcome is deterministic. Decode failures are logged and skipped.
func BuildIndex(ctx context.Context, root string, logger *slog.Logger) (*Index, IndexStats, error) {
	logger = orDefault(logger)
	var stats IndexStats

	files, err := CollectFiles(root, logger)
	if err != nil {
		return nil, stats, err
	}

	idx := &Index{entries: make(map[int64]models.Identity)}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		stats.Files++

		rec, err := readRecord(f)
		if err != nil {
			stats.Failed++
			logger.Warn("could not parse record", "file", f.Path, "error", err)
			continue
		}

		id, name, ok := rec.Identity()
		if !ok {
			stats.Skipped++
			continue
		}
		if prev, exists := idx.entries[id]; exists {
			stats.Duplicate++
			logger.Debug("duplicate entity id, keeping last",
				"id", id, "previous", prev.Name, "name", name, "file", f.Path)
		}
		idx.entries[id] = models.Identity{Name: name, Type: f.Type.Label()}
	}

	stats.Indexed = len(idx.entries)
	logger.Info("indexing complete", "entities", stats.Indexed, "files", stats.Files, "failed", stats.Failed)
	return idx, stats, nil
}
