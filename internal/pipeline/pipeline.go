package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/screenwitness/internal/model"
	"github.com/nao1215/screenwitness/internal/report"
)

// Run carries the state of one report generation through the steps.
// Each command builds a fresh Run; nothing is shared between runs.
type Run struct {
	// Pages are the records in store order.
	Pages []*model.CapturedPage

	// OutputDir receives every file written by the steps.
	OutputDir string

	// Document is set by ReportStep. It stays nil when there was nothing
	// to report.
	Document *report.Document

	// Files lists the written files relative to OutputDir.
	Files []string

	// Changed counts pages whose category changed during recategorization.
	Changed int

	// Steps records every step that ran, in order.
	Steps []StepResult

	// Err joins the errors of all failed steps.
	Err error
}

// StepResult is the outcome of one step.
type StepResult struct {
	Name    string
	Elapsed time.Duration
	Err     error
}

// FailedSteps returns the names of the steps that returned an error.
func (r *Run) FailedSteps() []string {
	var names []string
	for _, s := range r.Steps {
		if s.Err != nil {
			names = append(names, s.Name)
		}
	}
	return names
}

// NewRun creates a Run for pages writing into outputDir.
func NewRun(pages []*model.CapturedPage, outputDir string) *Run {
	return &Run{Pages: pages, OutputDir: outputDir}
}

// Step is one unit of report work. Steps carry their own settings, such
// as the classifier or the page size, and read and update the shared Run.
type Step interface {
	Do(ctx context.Context, run *Run) error
	// Name identifies the step in logs and in Run.Steps.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError determines whether to continue executing steps
	// after one fails.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to continue execution
// even when a step fails. The default is to stop, because a report that
// could not be written makes the summary files meaningless.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs the steps in order against run. Cancellation is checked
// before each step; steps handle their own cancellation while running.
//
// Every step that ran is recorded in run.Steps. With continue-on-error the
// failures are joined into run.Err and Execute returns nil, so a failed
// request log does not cost the user the HTML report.
func (p *Pipeline) Execute(ctx context.Context, run *Run) error {
	var failures []error

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline cancelled", "step", step.Name(), "reason", err)
			run.Err = errors.Join(append(failures, err)...)
			return err
		}

		start := time.Now()
		err := step.Do(ctx, run)
		result := StepResult{Name: step.Name(), Elapsed: time.Since(start), Err: err}
		run.Steps = append(run.Steps, result)

		if err == nil {
			p.logger.Debug("step completed",
				"step", result.Name,
				"records", len(run.Pages),
				"elapsed", result.Elapsed,
			)
			continue
		}

		p.logger.Error("step failed", "step", result.Name, "error", err)
		failures = append(failures, fmt.Errorf("%s: %w", result.Name, err))
		run.Err = errors.Join(failures...)
		if !p.continueOnError {
			return err
		}
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
