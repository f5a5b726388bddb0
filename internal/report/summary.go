package report

import (
	"github.com/nao1215/screenwitness/internal/model"
)

// Summary describes what a Document contains without the HTML.
type Summary struct {
	// Date and Time are the report timestamp.
	Date string
	Time string

	// Total is the number of records in the report, errors included.
	Total int

	// Pages is the number of HTML pages.
	Pages int

	// Sections are the non-empty categories in report order.
	Sections []Section

	// Errors are the failed captures in report order.
	Errors []*model.CapturedPage

	// ErrorPage is the page the Errors section starts on. Zero when there
	// are no errors.
	ErrorPage int
}

// Section is one category of the report.
type Section struct {
	Category model.CategoryInfo

	// Page is the 1-based page the section starts on.
	Page int

	// Count is the number of records in the section.
	Count int

	// Clusters are the similarity groups in display order.
	Clusters [][]*model.CapturedPage
}

// CredentialCount returns the number of records with a default credential note.
func (s *Summary) CredentialCount() int {
	n := 0
	for _, sec := range s.Sections {
		for _, c := range sec.Clusters {
			for _, p := range c {
				if p.CredentialNote != "" {
					n++
				}
			}
		}
	}
	return n
}

// Categorized returns the number of records outside the Errors section.
func (s *Summary) Categorized() int {
	return s.Total - len(s.Errors)
}
