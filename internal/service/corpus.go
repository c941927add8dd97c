// Package service implements the two-pass export conversion: identity
// indexing, per-type rendering and aggregation into text files.
package service

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/raphaelgruber/kankatext/internal/models"
)

// ErrCorpusRoot indicates the export directory is missing or not a directory.
var ErrCorpusRoot = errors.New("invalid export directory")

// CorpusFile is one record file inside a recognized type folder.
type CorpusFile struct {
	Path string
	Type models.EntityType
}

// CollectFiles walks the export tree and returns every .json file whose
// parent folder is a recognized entity type, in lexical path order.
// Files in unrecognized folders are skipped silently.
func CollectFiles(root string, logger *slog.Logger) ([]CorpusFile, error) {
	logger = orDefault(logger)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorpusRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrCorpusRoot, root)
	}

	var files []CorpusFile
	walkFn := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, never fatal.
			logger.Warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".json") {
			return nil
		}
		typ, ok := models.TypeFromFolder(filepath.Base(filepath.Dir(path)))
		if !ok {
			return nil
		}
		files = append(files, CorpusFile{Path: path, Type: typ})
		return nil
	}

	if err := filepath.WalkDir(root, walkFn); err != nil {
		return nil, fmt.Errorf("scan directory: %w", err)
	}
	return files, nil
}

// readRecord loads and decodes one record file.
func readRecord(f CorpusFile) (*models.Record, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	rec, err := models.DecodeEnvelope(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(f.Path), err)
	}
	return rec, nil
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
