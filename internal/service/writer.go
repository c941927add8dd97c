package service

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/raphaelgruber/kankatext/internal/models"
)

// RecordSeparator joins consecutive records inside one output file.
var RecordSeparator = "\n\n\n" + strings.Repeat("=", 80) + "\n\n\n"

// Buffer collects rendered records per entity type, in arrival order.
type Buffer struct {
	records map[models.EntityType][]string
}

// NewBuffer creates an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{records: make(map[models.EntityType][]string)}
}

// Add appends one rendered record for typ.
func (b *Buffer) Add(typ models.EntityType, text string) {
	b.records[typ] = append(b.records[typ], text)
}

// Count returns the number of records buffered for typ.
func (b *Buffer) Count(typ models.EntityType) int {
	return len(b.records[typ])
}

// Content returns the consolidated text for typ.
func (b *Buffer) Content(typ models.EntityType) string {
	return strings.Join(b.records[typ], RecordSeparator)
}

// Flush writes one <type>.txt per non-empty type into dir, creating dir if
// needed. Types without records are skipped. Returns the written paths in
// canonical type order.
func (b *Buffer) Flush(dir string, logger *slog.Logger) ([]string, error) {
	logger = orDefault(logger)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	var written []string
	for _, typ := range models.AllTypes() {
		if b.Count(typ) == 0 {
			logger.Debug("no content for type, skipping file", "type", typ.Folder())
			continue
		}
		path := filepath.Join(dir, typ.Folder()+".txt")
		if err := writeFileAtomic(path, []byte(b.Content(typ))); err != nil {
			return written, fmt.Errorf("write %s: %w", filepath.Base(path), err)
		}
		logger.Info("wrote consolidated file", "file", path, "records", b.Count(typ))
		written = append(written, path)
	}
	return written, nil
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it over path, so readers never observe a partial file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
