// Package engine orchestrates a find/replace run: resolve targets, decode
// and scan them sequentially, confirm the preview, then rewrite matched
// files with per-file failure isolation. No file is written before the
// confirmation step.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Marcello2020-dev/findreplace-mdtxt/internal/filelock"
	"github.com/Marcello2020-dev/findreplace-mdtxt/internal/matchscan"
	"github.com/Marcello2020-dev/findreplace-mdtxt/internal/models"
	"github.com/Marcello2020-dev/findreplace-mdtxt/internal/resolver"
	"github.com/Marcello2020-dev/findreplace-mdtxt/internal/textcodec"
)

// Logger defines the interface for logging run progress and results.
type Logger interface {
	LogRunStart(search string, targets int)
	LogFileMatched(path string, count int)
	LogFileUnreadable(path string, reason string)
	LogFileChanged(path string, occurrences int)
	LogFileFailed(path string, kind models.FailureKind, reason string)
	LogProgress(done, total int)
	LogSummary(summary models.RunSummary)
}

// ConfirmFunc decides whether the run proceeds from preview to apply.
// Returning false aborts the run with zero writes.
type ConfirmFunc func(preview models.Preview) (bool, error)

// Request describes one find/replace run.
type Request struct {
	Roots       []string // Directories or files to operate on
	Search      string   // Literal search text; must not be empty
	Replacement string   // Literal replacement text; empty deletes occurrences
	DryRun      bool     // Stop after the preview, never write
}

// Options configures an Engine.
type Options struct {
	Logger      Logger               // Optional
	ShowPreview func(models.Preview) // Optional display hook, called whenever matches exist
	Confirm     ConfirmFunc          // Required; --yes callers return true without prompting
	Encodings   []textcodec.Encoding // Decode candidates; nil means textcodec.Candidates()
}

// Engine runs find/replace requests. Files are processed sequentially,
// so summary counters and failure records need no synchronization.
type Engine struct {
	logger      Logger
	showPreview func(models.Preview)
	confirm     ConfirmFunc
	encodings   []textcodec.Encoding
}

var (
	// ErrEmptySearch rejects an empty search before any I/O happens.
	ErrEmptySearch = errors.New("search text must not be empty")
	// ErrNoTargets means resolution found no eligible md/txt files.
	ErrNoTargets = errors.New("no eligible files (md, txt) under the given paths")
	// ErrDeclined means the confirmation step rejected the preview.
	ErrDeclined = errors.New("replacement declined")
)

// New creates an Engine.
func New(opts Options) *Engine {
	if opts.Confirm == nil {
		panic("confirm function cannot be nil")
	}
	encodings := opts.Encodings
	if encodings == nil {
		encodings = textcodec.Candidates()
	}
	return &Engine{
		logger:      opts.Logger,
		showPreview: opts.ShowPreview,
		confirm:     opts.Confirm,
		encodings:   encodings,
	}
}

// Run executes one find/replace request and returns its summary.
//
// The context is honored during the scan phase only: everything up to the
// confirmation is side-effect free and may be abandoned. Once confirmed,
// the apply phase runs to completion so the summary always reflects what
// actually happened on disk.
func (e *Engine) Run(ctx context.Context, req Request) (*models.RunSummary, error) {
	if req.Search == "" {
		return nil, ErrEmptySearch
	}

	start := time.Now()
	summary := &models.RunSummary{
		Search:      req.Search,
		Replacement: req.Replacement,
		Roots:       req.Roots,
		DryRun:      req.DryRun,
	}

	targets, skips, err := resolver.Resolve(req.Roots)
	if err != nil {
		return nil, err
	}
	summary.Skips = skips

	if targets.Len() == 0 {
		summary.Duration = time.Since(start)
		return summary, ErrNoTargets
	}

	if e.logger != nil {
		e.logger.LogRunStart(req.Search, targets.Len())
	}

	// Scan phase: decode every target and count occurrences. Unreadable
	// files are excluded from matching, never fatal.
	records := make([]models.MatchRecord, 0)
	for _, path := range targets.Paths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("scan interrupted: %w", err)
		}

		summary.FilesScanned++

		text, enc, derr := textcodec.DecodeFile(path, e.encodings)
		if derr != nil {
			summary.Unreadable++
			if e.logger != nil {
				e.logger.LogFileUnreadable(path, derr.Error())
			}
			continue
		}

		doc := models.Document{Path: path, Text: text, Encoding: enc}
		if rec := matchscan.Scan(doc, req.Search); rec != nil {
			records = append(records, *rec)
			if e.logger != nil {
				e.logger.LogFileMatched(path, rec.Count)
			}
		}
	}

	summary.FilesMatched = len(records)
	preview := matchscan.BuildPreview(records, summary.FilesScanned, summary.Unreadable)
	summary.TotalOccurrences = preview.TotalOccurrences

	if summary.FilesMatched == 0 {
		summary.Duration = time.Since(start)
		if e.logger != nil {
			e.logger.LogSummary(*summary)
		}
		return summary, nil
	}

	if e.showPreview != nil {
		e.showPreview(preview)
	}

	if req.DryRun {
		summary.Duration = time.Since(start)
		if e.logger != nil {
			e.logger.LogSummary(*summary)
		}
		return summary, nil
	}

	ok, err := e.confirm(preview)
	if err != nil {
		return nil, fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		summary.Duration = time.Since(start)
		return summary, ErrDeclined
	}

	// Apply phase: files in ranked order, one at a time. A failing file
	// is recorded and never stops the rest.
	for i, rec := range records {
		e.applyOne(rec, req, summary)
		if e.logger != nil {
			e.logger.LogProgress(i+1, len(records))
		}
	}

	summary.Duration = time.Since(start)
	if e.logger != nil {
		e.logger.LogSummary(*summary)
	}
	return summary, nil
}

// applyOne rewrites a single matched file. The original is left untouched
// on any failure: encoding happens before the write, and the write itself
// is temp-file-and-rename.
func (e *Engine) applyOne(rec models.MatchRecord, req Request, summary *models.RunSummary) {
	path := rec.Document.Path

	newText := strings.ReplaceAll(rec.Document.Text, req.Search, req.Replacement)
	if newText == rec.Document.Text {
		// Replacement equals the search text; nothing would change, so
		// skip the write entirely.
		return
	}

	data, err := textcodec.Encode(newText, rec.Document.Encoding)
	if err != nil {
		e.recordFailure(summary, path, models.FailureEncode, err)
		return
	}

	if err := filelock.AtomicWrite(path, data); err != nil {
		e.recordFailure(summary, path, models.FailureWrite, err)
		return
	}

	summary.FilesChanged++
	summary.OccurrencesWritten += rec.Count
	if e.logger != nil {
		e.logger.LogFileChanged(path, rec.Count)
	}
}

func (e *Engine) recordFailure(summary *models.RunSummary, path string, kind models.FailureKind, err error) {
	summary.Failures = append(summary.Failures, models.FileFailure{
		Path:   path,
		Kind:   kind,
		Reason: err.Error(),
	})
	if e.logger != nil {
		e.logger.LogFileFailed(path, kind, err.Error())
	}
}
