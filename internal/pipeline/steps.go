package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/nao1215/screenwitness/internal/classify"
	"github.com/nao1215/screenwitness/internal/config"
	"github.com/nao1215/screenwitness/internal/model"
	"github.com/nao1215/screenwitness/internal/report"
	"github.com/nao1215/screenwitness/internal/similarity"
)

// Files written next to the HTML report.
const (
	SummaryFileName = "summary.md"
	JSONFileName    = "report.json"
)

// PageUpdater persists a changed record.
type PageUpdater interface {
	UpdatePage(ctx context.Context, p *model.CapturedPage) error
}

// RecategorizeStep reclassifies stored records after signature updates.
// Records already marked unauth or notfound are left alone.
type RecategorizeStep struct {
	engine *classify.Engine
	logger *slog.Logger
}

// NewRecategorizeStep creates a recategorization step.
func NewRecategorizeStep(engine *classify.Engine, logger *slog.Logger) *RecategorizeStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecategorizeStep{engine: engine, logger: logger}
}

// Name returns the step name.
func (s *RecategorizeStep) Name() string {
	return "recategorize"
}

// Do executes the recategorization step.
func (s *RecategorizeStep) Do(_ context.Context, run *Run) error {
	for _, p := range run.Pages {
		before := p.Category
		if s.engine.Recategorize(p) {
			run.Changed++
			s.logger.Debug("category changed",
				"url", p.RemoteSystem,
				"from", before.String(),
				"to", p.Category.String(),
			)
		}
	}
	s.logger.Info("recategorized records", "changed", run.Changed, "total", len(run.Pages))
	return nil
}

// PersistStep writes every record of the run back to the result store.
type PersistStep struct {
	store PageUpdater
}

// NewPersistStep creates a persistence step.
func NewPersistStep(store PageUpdater) *PersistStep {
	return &PersistStep{store: store}
}

// Name returns the step name.
func (s *PersistStep) Name() string {
	return "persist"
}

// Do executes the persistence step. Records without a row id are skipped.
func (s *PersistStep) Do(ctx context.Context, run *Run) error {
	for _, p := range run.Pages {
		if p == nil || p.ID == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.store.UpdatePage(ctx, p); err != nil {
			return fmt.Errorf("failed to persist %s: %w", p.RemoteSystem, err)
		}
	}
	return nil
}

// ReportStep builds the paginated HTML report and writes it to OutputDir.
type ReportStep struct {
	paginator *report.Paginator

	// term switches the step to a search report.
	term string

	logger *slog.Logger
}

// ReportStepOption configures a ReportStep.
type ReportStepOption func(*ReportStep)

// WithSearchTerm writes a search report for term instead of the full report.
func WithSearchTerm(term string) ReportStepOption {
	return func(s *ReportStep) {
		s.term = term
	}
}

// WithReportLogger sets a custom logger for the report step.
func WithReportLogger(logger *slog.Logger) ReportStepOption {
	return func(s *ReportStep) {
		s.logger = logger
	}
}

// NewReportStep creates a report step using paginator.
func NewReportStep(paginator *report.Paginator, opts ...ReportStepOption) *ReportStep {
	s := &ReportStep{
		paginator: paginator,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *ReportStep) Name() string {
	if s.term != "" {
		return "search_report"
	}
	return "report"
}

// Do executes the report step. An empty record set produces no files and
// no error.
func (s *ReportStep) Do(_ context.Context, run *Run) error {
	var (
		doc *report.Document
		err error
	)
	if s.term != "" {
		doc, err = s.paginator.BuildSearch(s.term, run.Pages)
	} else {
		doc, err = s.paginator.Build(run.Pages)
	}
	if errors.Is(err, report.ErrEmptyInput) {
		s.logger.Warn("no records to report", "output", run.OutputDir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	if err := doc.WriteFiles(run.OutputDir); err != nil {
		return err
	}

	run.Document = doc
	run.Files = append(run.Files, doc.Files()...)
	s.logger.Info("report written",
		"pages", doc.PageCount(),
		"output", run.OutputDir,
	)
	return nil
}

// SummaryStep writes summary.md and report.json for the built document.
type SummaryStep struct {
	version string
}

// NewSummaryStep creates a summary step. version is recorded in report.json.
func NewSummaryStep(version string) *SummaryStep {
	return &SummaryStep{version: version}
}

// Name returns the step name.
func (s *SummaryStep) Name() string {
	return "summary"
}

// Do executes the summary step. It does nothing when no report was built.
func (s *SummaryStep) Do(_ context.Context, run *Run) error {
	if run.Document == nil || run.Document.Summary == nil {
		return nil
	}
	summary := run.Document.Summary

	writers := []struct {
		name  string
		write func(f *os.File) error
	}{
		{SummaryFileName, func(f *os.File) error {
			_, err := report.NewMarkdownWriter(f).Write(summary)
			return err
		}},
		{JSONFileName, func(f *os.File) error {
			_, err := report.NewJSONWriter(f, report.WithPrettyPrint(), report.WithVersion(s.version)).Write(summary)
			return err
		}},
	}

	for _, w := range writers {
		if err := writeFile(filepath.Join(run.OutputDir, w.name), w.write); err != nil {
			return err
		}
		run.Files = append(run.Files, w.name)
	}
	return nil
}

// CSVStep writes the Requests.csv request log.
type CSVStep struct{}

// NewCSVStep creates a request log step.
func NewCSVStep() *CSVStep {
	return &CSVStep{}
}

// Name returns the step name.
func (s *CSVStep) Name() string {
	return "requests_csv"
}

// Do executes the request log step.
func (s *CSVStep) Do(_ context.Context, run *Run) error {
	if len(run.Pages) == 0 {
		return nil
	}
	err := writeFile(filepath.Join(run.OutputDir, report.RequestsFileName), func(f *os.File) error {
		return report.WriteRequestsCSV(f, run.Pages)
	})
	if err != nil {
		return err
	}
	run.Files = append(run.Files, report.RequestsFileName)
	return nil
}

// writeFile creates path with owner-only permissions and hands it to write.
func writeFile(path string, write func(f *os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // path is built from the configured output directory
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// DefaultPipelineConfig holds the settings used by DefaultPipeline.
type DefaultPipelineConfig struct {
	ResultsPerPage      int
	SimilarityThreshold int
	Now                 time.Time
	Version             string

	// Engine enables the recategorize step when set.
	Engine *classify.Engine

	// Store enables the persist step when set.
	Store PageUpdater
}

// DefaultPipelineOption configures the default pipeline.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineResultsPerPage sets the number of records per report page.
func WithPipelineResultsPerPage(n int) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.ResultsPerPage = n
	}
}

// WithPipelineSimilarityThreshold sets the title grouping threshold.
func WithPipelineSimilarityThreshold(threshold int) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.SimilarityThreshold = threshold
	}
}

// WithPipelineTime sets the generation time printed in the report header.
func WithPipelineTime(now time.Time) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Now = now
	}
}

// WithPipelineVersion sets the version recorded in report.json.
func WithPipelineVersion(version string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Version = version
	}
}

// WithPipelineRecategorize adds recategorization with engine and writes
// the results back to store.
func WithPipelineRecategorize(engine *classify.Engine, store PageUpdater) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Engine = engine
		c.Store = store
	}
}

// NewPaginator builds the report paginator for cfg.
func (c *DefaultPipelineConfig) NewPaginator() *report.Paginator {
	return report.NewPaginator(
		report.WithResultsPerPage(c.ResultsPerPage),
		report.WithTimestamp(c.Now.Format("2006-01-02"), c.Now.Format("15:04:05")),
		report.WithGrouper(similarity.NewGrouper(c.SimilarityThreshold)),
	)
}

func newDefaultPipelineConfig(opts []DefaultPipelineOption) *DefaultPipelineConfig {
	cfg := &DefaultPipelineConfig{
		ResultsPerPage:      config.DefaultResultsPerPage,
		SimilarityThreshold: config.DefaultSimilarityThreshold,
		Now:                 time.Now(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// DefaultPipeline creates the pipeline used by the report and recategorize
// commands: optional recategorize and persist steps, then the HTML report,
// the summary files and the request log.
func DefaultPipeline(pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)
	cfg := newDefaultPipelineConfig(configOpts)

	if cfg.Engine != nil {
		p.AddStep(NewRecategorizeStep(cfg.Engine, p.logger))
		if cfg.Store != nil {
			p.AddStep(NewPersistStep(cfg.Store))
		}
	}

	p.AddSteps(
		NewReportStep(cfg.NewPaginator(), WithReportLogger(p.logger)),
		NewSummaryStep(cfg.Version),
		NewCSVStep(),
	)
	return p
}

// SearchPipeline creates the pipeline of the search command. The run
// should carry only the records that matched term.
func SearchPipeline(term string, pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)
	cfg := newDefaultPipelineConfig(configOpts)

	p.AddStep(NewReportStep(cfg.NewPaginator(), WithSearchTerm(term), WithReportLogger(p.logger)))
	return p
}
