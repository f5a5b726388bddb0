package report

import (
	"fmt"
	"io"
	"strings"
)

const ruleWidth = 70

// SimpleWriter prints the summary as plain text for the terminal. It uses
// no colour codes so the output can be redirected into a file unchanged.
type SimpleWriter struct {
	baseWriter
	verbose bool
	files   []string
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose adds the default credential matches to the output.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) { w.verbose = verbose }
}

// WithFiles lists the written report files at the end of the summary.
func WithFiles(files ...string) SimpleWriterOption {
	return func(w *SimpleWriter) { w.files = files }
}

// NewSimpleWriter creates a SimpleWriter printing to output.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write prints summary.
func (w *SimpleWriter) Write(summary *Summary) (int, error) {
	var b strings.Builder

	b.WriteString("\n")
	banner(&b, '=', "                       SCREENWITNESS REPORT")
	b.WriteString("\n")
	if ts := joinTimestamp(summary.Date, summary.Time); ts != "" {
		fmt.Fprintf(&b, "Generated:   %s\n", ts)
	}
	fmt.Fprintf(&b, "Records:     %d\n", summary.Total)
	fmt.Fprintf(&b, "Pages:       %d\n", summary.Pages)
	fmt.Fprintf(&b, "Credentials: %d page(s) matched\n\n", summary.CredentialCount())

	banner(&b, '-', "CATEGORIES")
	b.WriteString("\n")
	writeCounts(&b, summary)

	if w.verbose && summary.CredentialCount() > 0 {
		banner(&b, '-', "DEFAULT CREDENTIALS")
		b.WriteString("\n")
		writeCredentialMatches(&b, summary)
	}

	b.WriteString(strings.Repeat("=", ruleWidth) + "\n")
	if len(w.files) > 0 {
		for _, f := range w.files {
			fmt.Fprintf(&b, "Wrote %s\n", f)
		}
		b.WriteString(strings.Repeat("=", ruleWidth) + "\n")
	}

	return io.WriteString(w.output, b.String())
}

// banner writes title between two horizontal rules drawn with ch.
func banner(b *strings.Builder, ch rune, title string) {
	line := strings.Repeat(string(ch), ruleWidth)
	fmt.Fprintf(b, "%s\n%s\n%s\n", line, title, line)
}

func writeCounts(b *strings.Builder, s *Summary) {
	row := func(name string, count, page int) {
		fmt.Fprintf(b, "  %-40s %5d  (page %d)\n", name, count, page)
	}

	if len(s.Sections) == 0 {
		b.WriteString("  No categorized records\n")
	}
	for _, sec := range s.Sections {
		row(sec.Category.DisplayName, sec.Count, sec.Page)
	}
	if len(s.Errors) > 0 {
		row("Errors", len(s.Errors), s.ErrorPage)
	}
	fmt.Fprintf(b, "\n  %-40s %5d\n\n", "TOTAL", s.Total)
}

// writeCredentialMatches lists every page with a credential note, one note
// line per row, in report order.
func writeCredentialMatches(b *strings.Builder, s *Summary) {
	for _, sec := range s.Sections {
		for _, cluster := range sec.Clusters {
			for _, p := range cluster {
				if p.CredentialNote == "" {
					continue
				}
				fmt.Fprintf(b, "  [+] %s\n", p.RemoteSystem)
				for _, line := range strings.Split(p.CredentialNote, "\n") {
					fmt.Fprintf(b, "      %s\n", line)
				}
			}
		}
	}
	b.WriteString("\n")
}
