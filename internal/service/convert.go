package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/raphaelgruber/kankatext/internal/models"
	"github.com/raphaelgruber/kankatext/internal/parser"
	"github.com/raphaelgruber/kankatext/internal/render"
)

// ConvertService converts a Kanka export into per-type text files.
type ConvertService struct {
	logger *slog.Logger
}

// NewConvertService creates a new convert service.
func NewConvertService(logger *slog.Logger) *ConvertService {
	return &ConvertService{logger: orDefault(logger)}
}

// ConvertOptions configures a conversion run.
type ConvertOptions struct {
	// InputDir is the root of the Kanka export
	InputDir string
	// OutputDir receives one <type>.txt per non-empty type
	OutputDir string
	// DryRun runs both passes without writing files
	DryRun bool
	// MentionLabels renders the "|label" of a mention instead of the entity name
	MentionLabels bool
}

// ConvertResult summarizes a conversion run.
type ConvertResult struct {
	Index        IndexStats
	Processed    map[models.EntityType]int
	FilesFailed  int
	Unresolved   int
	FilesWritten []string
	Duration     time.Duration
	Errors       []string
}

// Total returns the number of records rendered across all types.
func (r *ConvertResult) Total() int {
	total := 0
	for _, n := range r.Processed {
		total += n
	}
	return total
}

// Convert runs the full pipeline.
//
// The identity index is built over the whole export before any record is
// rendered, since a mention may point at any entity. Rendering then walks the
// export a second time; a record that fails to decode is logged and skipped
// without affecting the others.
func (s *ConvertService) Convert(ctx context.Context, opts ConvertOptions) (*ConvertResult, error) {
	start := time.Now()
	result := &ConvertResult{Processed: make(map[models.EntityType]int)}

	s.logger.Info("starting pass 1: indexing entities", "input", opts.InputDir)
	idx, stats, err := BuildIndex(ctx, opts.InputDir, s.logger)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	result.Index = stats

	s.logger.Info("starting pass 2: rendering entities")
	buffer, err := s.renderAll(ctx, opts, idx, result)
	if err != nil {
		return nil, err
	}

	if opts.DryRun {
		s.logger.Info("dry run, skipping write", "records", result.Total())
	} else {
		written, err := buffer.Flush(opts.OutputDir, s.logger)
		result.FilesWritten = written
		if err != nil {
			return result, fmt.Errorf("write output: %w", err)
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

// renderAll is the second pass: render, resolve and buffer every record.
func (s *ConvertService) renderAll(ctx context.Context, opts ConvertOptions, idx *Index, result *ConvertResult) (*Buffer, error) {
	files, err := CollectFiles(opts.InputDir, s.logger)
	if err != nil {
		return nil, fmt.Errorf("collect files: %w", err)
	}

	resolver := parser.NewResolver(idx)
	resolver.UseOverride = opts.MentionLabels

	buffer := NewBuffer()
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := readRecord(f)
		if err != nil {
			result.FilesFailed++
			result.Errors = append(result.Errors, err.Error())
			s.logger.Warn("skipping invalid record", "file", f.Path, "error", err)
			continue
		}

		out := render.Render(render.For(f.Type, idx), rec)
		text, unresolved := resolver.ResolveCount(out.Text)
		result.Unresolved += unresolved

		buffer.Add(f.Type, text)
		result.Processed[f.Type]++
		s.logger.Debug("processed record", "file", f.Path, "type", f.Type.Folder(), "name", out.Name)
	}
	return buffer, nil
}
