package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/screenwitness/internal/model"
)

// MarkdownWriter outputs the report summary in Markdown format.
// It is written next to the HTML pages as summary.md.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which gives us tables, alerts and mermaid charts without
// hand-built pipes and backticks.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(summary *Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeCounts(md, summary)
	w.writeCredentials(md, summary)
	w.writeErrors(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, s *Summary) {
	md.H1("screenwitness Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Generated", joinTimestamp(s.Date, s.Time)},
			{"Records", strconv.Itoa(s.Total)},
			{"Pages", strconv.Itoa(s.Pages)},
			{"Start", markdown.Link("report.html", "report.html")},
		},
	})
	md.PlainText("")
}

// writeCounts writes the category table. It mirrors the table of
// contents of report.html: every category, then Errors and Total.
func (w *MarkdownWriter) writeCounts(md *markdown.Markdown, s *Summary) {
	md.H2("Categories")
	md.PlainText("")

	rows := make([][]string, 0, len(s.Sections)+2)
	for _, sec := range s.Sections {
		rows = append(rows, []string{
			sec.Category.DisplayName,
			strconv.Itoa(sec.Count),
			strconv.Itoa(len(sec.Clusters)),
			markdown.Link("Page "+strconv.Itoa(sec.Page), pageFileName("report", sec.Page-1)+"#"+sec.Category.SectionID),
		})
	}
	rows = append(rows,
		[]string{"Errors", strconv.Itoa(len(s.Errors)), "-", errorPageLink(s)},
		[]string{markdown.Bold("Total"), markdown.Bold(strconv.Itoa(s.Total)), "", ""},
	)

	md.Table(markdown.TableSet{
		Header: []string{"Category", "Records", "Groups", "Starts on"},
		Rows:   rows,
	})
	md.PlainText("")

	if len(s.Sections) > 1 {
		w.writePieChart(md, s)
	}
}

func errorPageLink(s *Summary) string {
	if s.ErrorPage == 0 {
		return "-"
	}
	return markdown.Link("Page "+strconv.Itoa(s.ErrorPage), pageFileName("report", s.ErrorPage-1)+"#"+errorsSectionID)
}

// writePieChart writes a mermaid pie chart of the category distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s *Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Category Distribution"),
		piechart.WithShowData(true),
	)
	for _, sec := range s.Sections {
		chart.LabelAndIntValue(sec.Category.DisplayName, uint64(sec.Count))
	}
	if len(s.Errors) > 0 {
		chart.LabelAndIntValue("Errors", uint64(len(s.Errors)))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeCredentials lists every record with a default credential note.
func (w *MarkdownWriter) writeCredentials(md *markdown.Markdown, s *Summary) {
	md.H2("Default Credentials")
	md.PlainText("")

	var rows [][]string
	for _, sec := range s.Sections {
		for _, cluster := range sec.Clusters {
			for _, p := range cluster {
				if p.CredentialNote == "" {
					continue
				}
				rows = append(rows, []string{
					markdown.Code(p.RemoteSystem),
					truncateString(p.DisplayTitle(), 50),
					strings.ReplaceAll(p.CredentialNote, "\n", "<br>"),
				})
			}
		}
	}

	if len(rows) == 0 {
		md.Tip("No default credential signatures matched.")
		md.PlainText("")
		return
	}

	md.Warningf("%d page(s) matched a default credential signature.", len(rows))
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Title", "Credentials"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeErrors lists failed captures.
func (w *MarkdownWriter) writeErrors(md *markdown.Markdown, s *Summary) {
	if len(s.Errors) == 0 {
		return
	}

	md.H2("Errors")
	md.PlainText("")

	rows := make([][]string, len(s.Errors))
	for i, p := range s.Errors {
		rows[i] = []string{markdown.Code(p.RemoteSystem), errorLabel(p)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Error"},
		Rows:   rows,
	})
	md.PlainText("")
}

func errorLabel(p *model.CapturedPage) string {
	if desc := p.ErrorState.Description(); desc != "" {
		return desc
	}
	return "-"
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [screenwitness](https://github.com/nao1215/screenwitness)*")
}

// truncateString truncates a string to maxLen runes with ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
