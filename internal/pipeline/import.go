package pipeline

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/screenwitness/internal/classify"
	"github.com/nao1215/screenwitness/internal/database"
	"github.com/nao1215/screenwitness/internal/model"
)

// maxCaptureLine bounds one JSON line of a capture file. Lines carry the
// full page source.
const maxCaptureLine = 64 * 1024 * 1024

// PageStore is the part of the result store used by the Importer.
type PageStore interface {
	CreatePage(ctx context.Context, p *model.CapturedPage, batch string) (int64, error)
	UpdatePage(ctx context.Context, p *model.CapturedPage) error
	HasPage(ctx context.Context, remoteSystem, sourceHash string) (bool, error)
}

// ImportResult summarises one import run.
type ImportResult struct {
	// Batch tags every row written by this run.
	Batch string

	Files      int
	Imported   int
	Duplicates int
	Invalid    int
}

// Importer loads capture files into the result store.
//
// Design decision: Files are decoded concurrently with errgroup.SetLimit
// but rows are written one at a time in file order. Decoding dominates
// the cost while SQLite only takes one writer, and serial inserts keep
// row ids in input order.
type Importer struct {
	store       PageStore
	engine      *classify.Engine
	concurrency int
	logger      *slog.Logger
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithImportConcurrency sets the number of files decoded at once.
// Non-positive values are ignored.
func WithImportConcurrency(n int) ImporterOption {
	return func(im *Importer) {
		if n > 0 {
			im.concurrency = n
		}
	}
}

// WithImportEngine sets the classification engine applied to every record.
func WithImportEngine(engine *classify.Engine) ImporterOption {
	return func(im *Importer) {
		im.engine = engine
	}
}

// WithImportLogger sets a custom logger for the importer.
func WithImportLogger(logger *slog.Logger) ImporterOption {
	return func(im *Importer) {
		im.logger = logger
	}
}

// NewImporter creates an Importer writing into store. Without an engine,
// records are classified against an empty signature store.
func NewImporter(store PageStore, opts ...ImporterOption) *Importer {
	im := &Importer{
		store:       store,
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(im)
	}
	if im.engine == nil {
		im.engine = classify.NewEngine(nil)
	}
	if im.logger == nil {
		im.logger = slog.Default()
	}
	return im
}

// decoded is the content of one capture file.
type decoded struct {
	pages   []*model.CapturedPage
	invalid int
}

// Import reads every file in paths and stores its records as complete rows.
// A file that cannot be opened aborts the import before anything is written.
func (im *Importer) Import(ctx context.Context, paths []string) (*ImportResult, error) {
	im.logger.Info("starting import",
		"files", len(paths),
		"concurrency", im.concurrency,
	)
	startTime := time.Now()

	files := make([]decoded, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(im.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d, err := im.decodeFile(path)
			if err != nil {
				return err
			}
			files[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &ImportResult{
		Batch: database.NewBatch(),
		Files: len(paths),
	}

	for _, f := range files {
		result.Invalid += f.invalid
		for _, p := range f.pages {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			stored, err := im.storeRecord(ctx, p, result.Batch)
			if err != nil {
				return result, err
			}
			if stored {
				result.Imported++
			} else {
				result.Duplicates++
			}
		}
	}

	im.logger.Info("import complete",
		"batch", result.Batch,
		"imported", result.Imported,
		"duplicates", result.Duplicates,
		"invalid", result.Invalid,
		"elapsed", time.Since(startTime),
	)
	return result, nil
}

// storeRecord classifies and writes one prepared record. It returns false for
// a record whose target and source were already stored.
func (im *Importer) storeRecord(ctx context.Context, p *model.CapturedPage, batch string) (bool, error) {
	dup, err := im.store.HasPage(ctx, p.RemoteSystem, p.SourceHash)
	if err != nil {
		return false, err
	}
	if dup {
		im.logger.Debug("skipping duplicate capture", "url", p.RemoteSystem)
		return false, nil
	}

	if _, err := im.store.CreatePage(ctx, p, batch); err != nil {
		return false, err
	}
	classify.Apply(p, im.engine.Classify(p))
	if err := im.store.UpdatePage(ctx, p); err != nil {
		return false, err
	}
	return true, nil
}

// decodeFile reads one JSON-lines capture file. Malformed lines are
// counted and logged but do not fail the file.
func (im *Importer) decodeFile(path string) (decoded, error) {
	f, err := os.Open(path) //nolint:gosec // capture files are given on the command line
	if err != nil {
		return decoded{}, fmt.Errorf("failed to open capture file: %w", err)
	}
	defer f.Close()

	var d decoded
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxCaptureLine)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var p model.CapturedPage
		if err := json.Unmarshal([]byte(line), &p); err != nil {
			d.invalid++
			im.logger.Warn("skipping malformed capture line",
				"file", path,
				"line", lineNo,
				"error", err,
			)
			continue
		}
		if !titleIsUTF8([]byte(line)) {
			p.PageTitle = model.UnableToDisplay
		}
		if !prepare(&p) {
			d.invalid++
			im.logger.Warn("skipping capture without target",
				"file", path,
				"line", lineNo,
			)
			continue
		}
		d.pages = append(d.pages, &p)
	}
	if err := scanner.Err(); err != nil {
		return decoded{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return d, nil
}

// prepare normalises an incoming record. It returns false when the record
// has no target.
func prepare(p *model.CapturedPage) bool {
	if strings.TrimSpace(p.RemoteSystem) == "" {
		return false
	}
	p.ID = 0
	// Category and credential note belong to the classifier alone.
	p.Category = model.CategoryNone
	p.CredentialNote = ""
	p.RemoteSystem = model.NormalizeRemoteSystem(p.RemoteSystem)
	if strings.TrimSpace(p.PageTitle) == "" {
		if p.HasSource() {
			p.PageTitle = model.ExtractTitle(p.Source())
		} else {
			p.PageTitle = model.UnknownTitle
		}
	}
	p.ComputeHash()
	return true
}

// titleIsUTF8 reports whether the raw page_title of a capture line is valid
// UTF-8. encoding/json replaces invalid bytes with U+FFFD while decoding,
// so the check has to look at the undecoded token.
func titleIsUTF8(line []byte) bool {
	var raw struct {
		PageTitle json.RawMessage `json:"page_title"`
	}
	if err := json.Unmarshal(line, &raw); err != nil {
		return true
	}
	return utf8.Valid(raw.PageTitle)
}
