// Package classify assigns a category and default credential notes to
// captured pages.
//
// Classification is a pure function of the page and the signature store:
// Classify never mutates its input. Apply copies a Result onto a page and
// is the only place the category fields are written.
package classify

import (
	"strings"

	"github.com/nao1215/screenwitness/internal/model"
	"github.com/nao1215/screenwitness/internal/signature"
)

// titleRule maps a title fragment to a category.
type titleRule struct {
	fragments []string
	category  model.Category
}

// titleRules run in order after content matching and each one overrides
// what came before. A page titled "404 Not Found" that also matches a CMS
// signature ends up as notfound.
var titleRules = []titleRule{
	{[]string{"403 Forbidden", "401 Unauthorized"}, model.CategoryUnauth},
	{[]string{"Index of /", "Directory Listing For /", "Directory of /"}, model.CategoryDirList},
	{[]string{"404 Not Found"}, model.CategoryNotFound},
}

// Result is the outcome of classifying one page.
type Result struct {
	Category       model.Category
	CredentialNote string

	// Skipped is set for pages with an error state. Their fields are left alone.
	Skipped bool
}

// Engine classifies pages against a signature store.
type Engine struct {
	store *signature.Store
}

// NewEngine creates an Engine. A nil store behaves like an empty one.
func NewEngine(store *signature.Store) *Engine {
	if store == nil {
		store = signature.NewStore(nil, nil)
	}
	return &Engine{store: store}
}

// Classify computes the category and credential note for page.
// It never fails: missing title or source simply match nothing.
func (e *Engine) Classify(page *model.CapturedPage) Result {
	if page == nil || page.Failed() {
		return Result{Skipped: true}
	}

	var res Result
	if page.HasSource() {
		source := signature.Fold(page.Source())
		res.CredentialNote = e.credentials(source)
		res.Category = e.category(source)
	}

	if page.PageTitle != "" {
		for _, tr := range titleRules {
			if containsAny(page.PageTitle, tr.fragments) {
				res.Category = tr.category
			}
		}
	}

	return res
}

// credentials joins the payload of every matching credential rule.
func (e *Engine) credentials(source string) string {
	var notes []string
	for _, rule := range e.store.Credentials {
		if rule.Matches(source) {
			notes = append(notes, rule.Payload)
		}
	}
	return strings.Join(notes, "\n")
}

// category returns the tag of the first matching category rule.
func (e *Engine) category(source string) model.Category {
	for _, rule := range e.store.Categories {
		if rule.Matches(source) {
			return rule.Category()
		}
	}
	return model.CategoryNone
}

// Apply writes res onto page. Skipped results leave the page untouched.
func Apply(page *model.CapturedPage, res Result) {
	if res.Skipped {
		return
	}
	page.Category = res.Category
	page.CredentialNote = res.CredentialNote
}

// Recategorize reclassifies a page that was classified before, typically
// after the signature files changed. Pages already marked unauth or
// notfound are kept as they are. It reports whether the category changed.
func (e *Engine) Recategorize(page *model.CapturedPage) bool {
	if page == nil {
		return false
	}
	if page.Category == model.CategoryUnauth || page.Category == model.CategoryNotFound {
		return false
	}

	res := e.Classify(page)
	if res.Skipped {
		return false
	}
	changed := res.Category != page.Category
	Apply(page, res)
	return changed
}

func containsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}
