package signature

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/screenwitness/internal/model"
)

// TestParse tests tolerant parsing of rule files.
func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("parses criteria and payload", func(t *testing.T) {
		t.Parallel()

		input := "# default creds\n\nTomcat;Manager App|admin/admin  \n"
		rules, errs := Parse(strings.NewReader(input), KindCredential)

		if len(errs) != 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if len(rules) != 1 {
			t.Fatalf("expected 1 rule, got %d", len(rules))
		}
		r := rules[0]
		if len(r.Criteria) != 2 || r.Criteria[0] != "tomcat" || r.Criteria[1] != "manager app" {
			t.Errorf("unexpected criteria: %q", r.Criteria)
		}
		if r.Payload != "admin/admin" {
			t.Errorf("got payload %q", r.Payload)
		}
		if r.Line != 3 {
			t.Errorf("got line %d, expected 3", r.Line)
		}
	})

	t.Run("splits on the first separator only", func(t *testing.T) {
		t.Parallel()

		rules, errs := Parse(strings.NewReader("a|user|pass\n"), KindCredential)
		if len(errs) != 0 || len(rules) != 1 {
			t.Fatalf("got rules=%d errs=%v", len(rules), errs)
		}
		if rules[0].Payload != "user|pass" {
			t.Errorf("got payload %q", rules[0].Payload)
		}
	})

	t.Run("drops empty criterion segments", func(t *testing.T) {
		t.Parallel()

		rules, _ := Parse(strings.NewReader("a;;b;|cms\n"), KindCategory)
		if len(rules) != 1 {
			t.Fatalf("expected 1 rule, got %d", len(rules))
		}
		if got := strings.Join(rules[0].Criteria, ","); got != "a,b" {
			t.Errorf("got criteria %q", got)
		}
	})

	t.Run("handles CRLF line endings", func(t *testing.T) {
		t.Parallel()

		rules, errs := Parse(strings.NewReader("x|cms\r\ny|nas\r\n"), KindCategory)
		if len(errs) != 0 || len(rules) != 2 {
			t.Fatalf("got rules=%d errs=%v", len(rules), errs)
		}
		if rules[1].Payload != "nas" {
			t.Errorf("got payload %q", rules[1].Payload)
		}
	})

	t.Run("skips malformed lines and keeps going", func(t *testing.T) {
		t.Parallel()

		input := strings.Join([]string{
			"no separator here",
			"|cms",
			";;|cms",
			"criteria|   ",
			"thing|notacategory",
			"good|cms",
		}, "\n")
		rules, errs := Parse(strings.NewReader(input), KindCategory)

		if len(rules) != 1 || rules[0].Line != 6 {
			t.Fatalf("expected only line 6 to parse, got %+v", rules)
		}

		expected := []error{
			ErrMissingSeparator,
			ErrEmptyCriteria,
			ErrEmptyCriteria,
			ErrEmptyPayload,
			ErrUnknownCategory,
		}
		if len(errs) != len(expected) {
			t.Fatalf("expected %d line errors, got %d: %v", len(expected), len(errs), errs)
		}
		for i, want := range expected {
			if !errors.Is(errs[i], want) {
				t.Errorf("error %d: got %v, expected %v", i, errs[i], want)
			}
			if errs[i].Line != i+1 {
				t.Errorf("error %d: got line %d", i, errs[i].Line)
			}
		}
	})

	t.Run("credential payloads are not checked against categories", func(t *testing.T) {
		t.Parallel()

		rules, errs := Parse(strings.NewReader("x|anything goes\n"), KindCredential)
		if len(errs) != 0 || len(rules) != 1 {
			t.Fatalf("got rules=%d errs=%v", len(rules), errs)
		}
	})
}

// TestRuleMatches tests AND semantics of criteria.
func TestRuleMatches(t *testing.T) {
	t.Parallel()

	rule := Rule{Criteria: []string{"a", "b"}}

	testCases := []struct {
		name     string
		source   string
		expected bool
	}{
		{"both present", "xx a yy b", true},
		{"only first", "only a here", false},
		{"only second", "just b", false},
		{"neither", "zzz", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := rule.Matches(tc.source); got != tc.expected {
				t.Errorf("Matches(%q) = %v, expected %v", tc.source, got, tc.expected)
			}
		})
	}

	t.Run("rule without criteria never matches", func(t *testing.T) {
		t.Parallel()

		if (Rule{}).Matches("anything") {
			t.Error("empty rule should not match")
		}
	})
}

// TestLoadFile tests reading rule files from disk.
func TestLoadFile(t *testing.T) {
	t.Parallel()

	t.Run("missing file returns ConfigError", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "missing.txt")
		_, _, err := LoadFile(path, KindCredential)

		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("expected ConfigError, got %v", err)
		}
		if cfgErr.Path != path || cfgErr.Kind != KindCredential {
			t.Errorf("unexpected ConfigError fields: %+v", cfgErr)
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Error("ConfigError should wrap the os error")
		}
	})

	t.Run("reads rules", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "categories.txt")
		if err := os.WriteFile(path, []byte("wp-content|cms\nbroken\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		rules, lineErrs, err := LoadFile(path, KindCategory)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rules) != 1 || rules[0].Category() != model.CategoryCMS {
			t.Errorf("unexpected rules: %+v", rules)
		}
		if len(lineErrs) != 1 {
			t.Errorf("expected 1 line error, got %d", len(lineErrs))
		}
	})
}

// TestLoad tests the degrade path of Load.
func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("missing files yield an empty store and a warning", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		dir := t.TempDir()

		store := Load(filepath.Join(dir, "nope1"), filepath.Join(dir, "nope2"), logger)
		if store == nil {
			t.Fatal("Load must never return nil")
		}
		if !store.Empty() {
			t.Errorf("expected empty store, got %+v", store)
		}
		if !strings.Contains(buf.String(), "credential matching disabled") {
			t.Errorf("expected warning in log, got %q", buf.String())
		}
		if !strings.Contains(buf.String(), "category matching disabled") {
			t.Errorf("expected warning in log, got %q", buf.String())
		}
	})

	t.Run("one missing file keeps the other", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		catPath := filepath.Join(dir, "categories.txt")
		if err := os.WriteFile(catPath, []byte("index of /|dirlist\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		store := Load(filepath.Join(dir, "missing"), catPath, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
		if len(store.Credentials) != 0 {
			t.Errorf("expected no credential rules, got %d", len(store.Credentials))
		}
		if len(store.Categories) != 1 {
			t.Errorf("expected 1 category rule, got %d", len(store.Categories))
		}
	})

	t.Run("nil logger falls back to default", func(t *testing.T) {
		t.Parallel()

		store := Load(filepath.Join(t.TempDir(), "a"), filepath.Join(t.TempDir(), "b"), nil)
		if !store.Empty() {
			t.Error("expected empty store")
		}
	})
}

// TestValidate tests the strict validation pass.
func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("clean file", func(t *testing.T) {
		t.Parallel()

		report, err := Validate(strings.NewReader("# header\na;b|cms\nc|nas\n"), KindCategory, nil)
		if err != nil {
			t.Fatal(err)
		}
		if !report.OK() {
			t.Errorf("expected OK report, got %+v", report)
		}
		if report.Rules != 2 {
			t.Errorf("expected 2 rules checked, got %d", report.Rules)
		}
	})

	t.Run("syntax problems", func(t *testing.T) {
		t.Parallel()

		input := strings.Join([]string{
			"a|b|c",
			"  |cms",
			"x|",
			"y|unknowntag",
		}, "\n")
		report, err := Validate(strings.NewReader(input), KindCategory, nil)
		if err != nil {
			t.Fatal(err)
		}

		expected := []struct {
			line int
			err  error
		}{
			{1, ErrExtraSeparator},
			{2, ErrEmptyCriteria},
			{3, ErrEmptyPayload},
			{4, ErrUnknownCategory},
		}
		if len(report.Issues) != len(expected) {
			t.Fatalf("expected %d issues, got %+v", len(expected), report.Issues)
		}
		for i, want := range expected {
			if report.Issues[i].Line != want.line || !errors.Is(report.Issues[i].Err, want.err) {
				t.Errorf("issue %d: got %+v, expected line %d %v", i, report.Issues[i], want.line, want.err)
			}
		}
	})

	t.Run("restricted tag list", func(t *testing.T) {
		t.Parallel()

		report, err := Validate(strings.NewReader("a|cms\n"), KindCategory, []model.Category{model.CategoryNAS})
		if err != nil {
			t.Fatal(err)
		}
		if len(report.Issues) != 1 || !errors.Is(report.Issues[0].Err, ErrUnknownCategory) {
			t.Errorf("expected unknown tag issue, got %+v", report.Issues)
		}
	})

	t.Run("duplicates", func(t *testing.T) {
		t.Parallel()

		input := strings.Join([]string{
			"Apache;Tomcat|admin/admin",
			"  Apache;Tomcat|admin/admin  ",
			"apache ; tomcat|tomcat/tomcat",
			"other|root/root",
		}, "\n")
		report, err := Validate(strings.NewReader(input), KindCredential, nil)
		if err != nil {
			t.Fatal(err)
		}

		if len(report.ExactDuplicates) != 1 {
			t.Fatalf("expected 1 exact duplicate, got %+v", report.ExactDuplicates)
		}
		if got := report.ExactDuplicates[0].Lines; len(got) != 2 || got[0] != 1 || got[1] != 2 {
			t.Errorf("unexpected exact duplicate lines %v", got)
		}

		if len(report.CriteriaDuplicates) != 1 {
			t.Fatalf("expected 1 criteria duplicate, got %+v", report.CriteriaDuplicates)
		}
		dup := report.CriteriaDuplicates[0]
		if dup.Key != "apache;tomcat" || len(dup.Lines) != 3 {
			t.Errorf("unexpected criteria duplicate %+v", dup)
		}
		if report.OK() {
			t.Error("report with duplicates should not be OK")
		}
	})
}
