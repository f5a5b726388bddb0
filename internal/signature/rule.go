package signature

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/screenwitness/internal/model"
)

// maxLineSize bounds a single rule line. Signature lines for large pages
// can carry long HTML fragments.
const maxLineSize = 1024 * 1024

// Kind selects which database a file belongs to.
type Kind int

const (
	// KindCredential rules carry a default credential note.
	KindCredential Kind = iota
	// KindCategory rules carry a category tag.
	KindCategory
)

// String returns a human readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindCredential:
		return "credential"
	case KindCategory:
		return "category"
	default:
		return "unknown"
	}
}

// Rule is one parsed signature line.
type Rule struct {
	// Criteria are lowercased substrings that must all occur in the source.
	Criteria []string

	// Payload is the credential note or the category tag.
	Payload string

	// Line is the 1-based line number in the source file.
	Line int
}

// Matches reports whether every criterion occurs in source.
// source must already be lowercased with Fold.
func (r Rule) Matches(source string) bool {
	if len(r.Criteria) == 0 {
		return false
	}
	for _, c := range r.Criteria {
		if !strings.Contains(source, c) {
			return false
		}
	}
	return true
}

// Category returns the payload as a category tag.
func (r Rule) Category() model.Category {
	return model.Category(r.Payload)
}

// Fold lowercases s the same way criteria are lowercased at parse time.
func Fold(s string) string {
	return cases.Lower(language.Und).String(s)
}

// Parse reads rules from r. Blank lines and lines starting with '#' are
// ignored. Malformed lines are skipped and returned as LineErrors; Parse
// never fails as a whole. A read error from r ends parsing and is
// reported as a LineError on the line that could not be read.
func Parse(r io.Reader, kind Kind) ([]Rule, []LineError) {
	var (
		rules   []Rule
		lineErr []LineError
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := strings.TrimRight(scanner.Text(), "\r")
		if isSkippable(text) {
			continue
		}

		rule, err := parseLine(text, kind)
		if err != nil {
			lineErr = append(lineErr, LineError{Line: lineNo, Text: text, Err: err})
			continue
		}
		rule.Line = lineNo
		rules = append(rules, rule)
	}
	if err := scanner.Err(); err != nil {
		lineErr = append(lineErr, LineError{Line: lineNo + 1, Err: fmt.Errorf("read: %w", err)})
	}

	return rules, lineErr
}

// isSkippable reports whether a line carries no rule.
func isSkippable(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}

// parseLine splits one rule line. Empty criterion segments ("a;;b") are
// dropped.
func parseLine(line string, kind Kind) (Rule, error) {
	left, right, found := strings.Cut(line, "|")
	if !found {
		return Rule{}, ErrMissingSeparator
	}

	criteria := splitCriteria(left)
	if len(criteria) == 0 {
		return Rule{}, ErrEmptyCriteria
	}

	payload := strings.TrimSpace(right)
	if payload == "" {
		return Rule{}, ErrEmptyPayload
	}
	if kind == KindCategory && !model.Category(payload).IsKnown() {
		return Rule{}, fmt.Errorf("%w %q", ErrUnknownCategory, payload)
	}

	return Rule{Criteria: criteria, Payload: payload}, nil
}

func splitCriteria(left string) []string {
	parts := strings.Split(left, ";")
	criteria := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		criteria = append(criteria, Fold(p))
	}
	return criteria
}
