package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/screenwitness/internal/model"
)

// JSONWriter outputs the report summary in JSON format (report.json).
// This format is designed for tool integration and programmatic processing.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string

	// version is recorded in the output when set.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion records the tool version in the output.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// JSONReport is the document written by JSONWriter. Page source is left
// out; it lives in the source files the capture layer wrote.
type JSONReport struct {
	Version   string        `json:"version,omitempty"`
	Generated string        `json:"generated,omitempty"`
	Total     int           `json:"total"`
	Pages     int           `json:"pages"`
	Sections  []JSONSection `json:"sections"`
	Errors    []JSONRecord  `json:"errors,omitempty"`
}

// JSONSection is one category with its similarity groups.
type JSONSection struct {
	Tag         string         `json:"tag"`
	DisplayName string         `json:"display_name"`
	SectionID   string         `json:"section_id"`
	Page        int            `json:"page"`
	Count       int            `json:"count"`
	Groups      [][]JSONRecord `json:"groups"`
}

// JSONRecord is the reported view of one captured page.
type JSONRecord struct {
	RemoteSystem   string `json:"remote_system"`
	PageTitle      string `json:"page_title"`
	CredentialNote string `json:"credential_note,omitempty"`
	ErrorState     string `json:"error_state,omitempty"`
	ScreenshotPath string `json:"screenshot_path,omitempty"`
	SourcePath     string `json:"source_path,omitempty"`
	SourceHash     string `json:"source_hash,omitempty"`
}

// NewJSONReport converts a Summary into its JSON form.
func NewJSONReport(s *Summary, version string) *JSONReport {
	out := &JSONReport{
		Version:   version,
		Generated: joinTimestamp(s.Date, s.Time),
		Total:     s.Total,
		Pages:     s.Pages,
		Sections:  make([]JSONSection, 0, len(s.Sections)),
	}

	for _, sec := range s.Sections {
		js := JSONSection{
			Tag:         string(sec.Category.Tag),
			DisplayName: sec.Category.DisplayName,
			SectionID:   sec.Category.SectionID,
			Page:        sec.Page,
			Count:       sec.Count,
			Groups:      make([][]JSONRecord, 0, len(sec.Clusters)),
		}
		for _, cluster := range sec.Clusters {
			group := make([]JSONRecord, len(cluster))
			for i, p := range cluster {
				group[i] = newJSONRecord(p)
			}
			js.Groups = append(js.Groups, group)
		}
		out.Sections = append(out.Sections, js)
	}

	for _, p := range s.Errors {
		out.Errors = append(out.Errors, newJSONRecord(p))
	}
	return out
}

func newJSONRecord(p *model.CapturedPage) JSONRecord {
	return JSONRecord{
		RemoteSystem:   p.RemoteSystem,
		PageTitle:      p.DisplayTitle(),
		CredentialNote: p.CredentialNote,
		ErrorState:     string(p.ErrorState),
		ScreenshotPath: p.ScreenshotPath,
		SourcePath:     p.SourcePath,
		SourceHash:     p.SourceHash,
	}
}

func joinTimestamp(date, clock string) string {
	switch {
	case date == "":
		return clock
	case clock == "":
		return date
	default:
		return date + " " + clock
	}
}

// Write outputs the summary in JSON format.
func (w *JSONWriter) Write(summary *Summary) (int, error) {
	return w.writeJSON(NewJSONReport(summary, w.version))
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v interface{}) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
