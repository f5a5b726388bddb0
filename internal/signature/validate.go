package signature

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/nao1215/screenwitness/internal/model"
)

// Issue is one problem found by Validate.
type Issue struct {
	Line int
	Text string
	Err  error
}

// Duplicate lists lines that repeat the same rule.
type Duplicate struct {
	// Key is the duplicated line or the normalised criteria.
	Key string

	// Lines are the 1-based line numbers in file order.
	Lines []int
}

// Report is the outcome of a strict validation pass.
type Report struct {
	// Rules counts lines that were checked (comments and blanks excluded).
	Rules int

	Issues []Issue

	// ExactDuplicates are identical lines, ignoring surrounding whitespace.
	ExactDuplicates []Duplicate

	// CriteriaDuplicates are rules whose criteria normalise to the same key.
	CriteriaDuplicates []Duplicate
}

// OK reports whether the file has no syntax issues and no duplicates.
func (r Report) OK() bool {
	return len(r.Issues) == 0 && len(r.ExactDuplicates) == 0 && len(r.CriteriaDuplicates) == 0
}

// Validate checks a signature file strictly. Unlike Parse it rejects lines
// with more than one '|', and for category files it rejects tags not in
// validTags. A nil validTags uses the full category vocabulary.
func Validate(r io.Reader, kind Kind, validTags []model.Category) (Report, error) {
	tags := tagSet(validTags)

	var (
		report    Report
		seenLine  = make(map[string][]int)
		seenLeft  = make(map[string][]int)
		lineOrder []string
		leftOrder []string
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if isSkippable(line) {
			continue
		}
		report.Rules++

		key := strings.TrimSpace(line)
		if _, ok := seenLine[key]; !ok {
			lineOrder = append(lineOrder, key)
		}
		seenLine[key] = append(seenLine[key], lineNo)

		if strings.Count(line, "|") != 1 {
			report.Issues = append(report.Issues, Issue{Line: lineNo, Text: line, Err: ErrExtraSeparator})
			continue
		}

		left, right, _ := strings.Cut(line, "|")
		payload := strings.TrimSpace(right)
		if payload == "" {
			report.Issues = append(report.Issues, Issue{Line: lineNo, Text: line, Err: ErrEmptyPayload})
		}

		norm := normalizeCriteria(left)
		if norm == "" {
			report.Issues = append(report.Issues, Issue{Line: lineNo, Text: line, Err: ErrEmptyCriteria})
		} else {
			if _, ok := seenLeft[norm]; !ok {
				leftOrder = append(leftOrder, norm)
			}
			seenLeft[norm] = append(seenLeft[norm], lineNo)
		}

		if kind == KindCategory && payload != "" {
			if _, ok := tags[model.Category(payload)]; !ok {
				report.Issues = append(report.Issues, Issue{
					Line: lineNo,
					Text: line,
					Err:  fmt.Errorf("%w %q", ErrUnknownCategory, payload),
				})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return report, fmt.Errorf("failed to read signature file: %w", err)
	}

	report.ExactDuplicates = collectDuplicates(lineOrder, seenLine)
	report.CriteriaDuplicates = collectDuplicates(leftOrder, seenLeft)
	sort.SliceStable(report.Issues, func(i, j int) bool {
		return report.Issues[i].Line < report.Issues[j].Line
	})

	return report, nil
}

// normalizeCriteria lowercases and trims each criterion and drops empty ones.
func normalizeCriteria(left string) string {
	parts := strings.Split(left, ";")
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		kept = append(kept, Fold(p))
	}
	return strings.Join(kept, ";")
}

func collectDuplicates(order []string, seen map[string][]int) []Duplicate {
	var dups []Duplicate
	for _, key := range order {
		if lines := seen[key]; len(lines) > 1 {
			dups = append(dups, Duplicate{Key: key, Lines: lines})
		}
	}
	return dups
}

func tagSet(valid []model.Category) map[model.Category]struct{} {
	set := make(map[model.Category]struct{})
	if valid == nil {
		for _, info := range model.Categories() {
			set[info.Tag] = struct{}{}
		}
		return set
	}
	for _, tag := range valid {
		set[tag] = struct{}{}
	}
	return set
}
