package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/nao1215/screenwitness/internal/model"
)

// createTestSummary builds a summary with two categories, credentials and errors.
func createTestSummary(t *testing.T) *Summary {
	t.Helper()

	pages := makePages(3, model.CategoryCMS, "WordPress")
	pages[0].CredentialNote = "admin/admin\nadmin/password"
	pages = append(pages, makePages(2, model.CategoryNAS, "Synology")...)
	pages = append(pages, &model.CapturedPage{
		RemoteSystem: "http://down.example.com",
		PageTitle:    model.UnknownTitle,
		ErrorState:   model.ErrorConnRefuse,
	})

	doc, err := NewPaginator(WithTimestamp("2026-10-18", "09:30:00")).Build(pages)
	if err != nil {
		t.Fatalf("failed to build document: %v", err)
	}
	return doc.Summary
}

// TestSimpleWriter tests the human-readable summary writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes header and categories", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestSummary(t)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"SCREENWITNESS REPORT",
			"Generated:   2026-10-18 09:30:00",
			"Records:     6",
			"Credentials: 1 page(s) matched",
			"Content Management System (CMS)",
			"Network Attached Storage (NAS)",
			"Errors",
			"TOTAL",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
		if strings.Contains(output, "DEFAULT CREDENTIALS") {
			t.Error("credential details are only shown in verbose mode")
		}
	})

	t.Run("verbose lists credentials", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithVerbose(true), WithFiles("report.html"))
		if _, err := w.Write(createTestSummary(t)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "DEFAULT CREDENTIALS") || !strings.Contains(output, "admin/password") {
			t.Error("expected credential details")
		}
		if !strings.Contains(output, "Wrote report.html") {
			t.Error("expected file list")
		}
	})
}

// TestMarkdownWriter tests the summary.md writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n, err := NewMarkdownWriter(&buf).Write(createTestSummary(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n == 0 {
		t.Error("expected non-zero length")
	}

	output := buf.String()
	for _, want := range []string{
		"# screenwitness Report",
		"## Categories",
		"Content Management System (CMS)",
		"[Page 1](report.html#cms)",
		"**Total**",
		"## Default Credentials",
		"admin/admin<br>admin/password",
		"## Errors",
		"Connection Refused",
		"```mermaid",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected markdown to contain %q", want)
		}
	}
}

// TestMarkdownWriterNoCredentials tests the empty credential section.
func TestMarkdownWriterNoCredentials(t *testing.T) {
	t.Parallel()

	doc, err := NewPaginator().Build(makePages(2, model.CategoryCMS, "Blog"))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(doc.Summary); err != nil {
		t.Fatal(err)
	}
	output := buf.String()
	if !strings.Contains(output, "No default credential signatures matched.") {
		t.Error("expected tip for no credentials")
	}
	if strings.Contains(output, "## Errors") {
		t.Error("errors section should be omitted")
	}
}

// TestJSONWriter tests the report.json writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes sections and groups", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithVersion("1.2.3")).Write(createTestSummary(t)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got JSONReport
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got.Version != "1.2.3" || got.Total != 6 || got.Pages != 1 {
			t.Errorf("unexpected header %+v", got)
		}
		if len(got.Sections) != 2 || got.Sections[0].Tag != "cms" || got.Sections[1].Tag != "nas" {
			t.Fatalf("unexpected sections %+v", got.Sections)
		}
		if len(got.Errors) != 1 || got.Errors[0].ErrorState != "ConnRefuse" {
			t.Errorf("unexpected errors %+v", got.Errors)
		}
		if got.Generated != "2026-10-18 09:30:00" {
			t.Errorf("got generated %q", got.Generated)
		}
	})

	t.Run("compact output is a single line", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestSummary(t)); err != nil {
			t.Fatal(err)
		}
		if strings.Count(buf.String(), "\n") != 1 {
			t.Error("expected compact JSON with one trailing newline")
		}
	})

	t.Run("pretty print indents", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createTestSummary(t)); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "\n  \"total\"") {
			t.Error("expected indented output")
		}
	})
}

// TestWriteRequestsCSV tests the request log.
func TestWriteRequestsCSV(t *testing.T) {
	t.Parallel()

	pages := []*model.CapturedPage{
		{RemoteSystem: "http://example.com", ScreenshotPath: "screens/a.png", SourcePath: "source/a.txt"},
		{RemoteSystem: "https://secure.example.com", ErrorState: model.ErrorSSLHandshake},
		{RemoteSystem: "http://10.0.0.1:8080/admin"},
		nil,
	}

	var buf bytes.Buffer
	if err := WriteRequestsCSV(&buf, pages); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}

	expected := [][]string{
		{"Protocol", "Port", "Domain", "Request Status", "Screenshot Path", "Source Path"},
		{"http", "80", "example.com", "Successful", "screens/a.png", "source/a.txt"},
		{"https", "443", "secure.example.com", "SSLHandshake", "", ""},
		{"http", "8080", "10.0.0.1", "Successful", "", ""},
	}
	if len(records) != len(expected) {
		t.Fatalf("expected %d rows, got %d", len(expected), len(records))
	}
	for i := range expected {
		if strings.Join(records[i], ",") != strings.Join(expected[i], ",") {
			t.Errorf("row %d: got %q, expected %q", i, records[i], expected[i])
		}
	}
}

// TestTruncateString tests the truncateString helper.
func TestTruncateString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"abcdef", 3, "abc"},
		{"ログインページです", 5, "ログ..."},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()

			if got := truncateString(tc.input, tc.maxLen); got != tc.expected {
				t.Errorf("truncateString(%q, %d) = %q, expected %q", tc.input, tc.maxLen, got, tc.expected)
			}
		})
	}
}
