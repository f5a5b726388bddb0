package report

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/nao1215/screenwitness/internal/model"
	"github.com/nao1215/screenwitness/internal/similarity"
)

// DefaultResultsPerPage is the number of records on one report page.
const DefaultResultsPerPage = 25

// ErrEmptyInput is returned by Build when there is nothing to report.
// No files should be written in that case.
var ErrEmptyInput = errors.New("no captured pages to report")

// errorsSectionID is the anchor of the Errors section.
const errorsSectionID = "errors"

// Paginator turns classified pages into a paginated HTML document set.
//
// Design decision: Pages are produced by string concatenation with a
// navigation placeholder. The placeholder is resolved in a second pass
// because the links depend on the final page count.
type Paginator struct {
	// ResultsPerPage is the number of records per page.
	// Zero or negative means DefaultResultsPerPage.
	ResultsPerPage int

	// Date and Time are printed in the page header.
	Date string
	Time string

	// Grouper orders records within a category.
	Grouper similarity.Grouper
}

// PaginatorOption configures a Paginator.
type PaginatorOption func(*Paginator)

// WithResultsPerPage sets the page size.
func WithResultsPerPage(n int) PaginatorOption {
	return func(p *Paginator) {
		p.ResultsPerPage = n
	}
}

// WithTimestamp sets the date and time printed on every page.
func WithTimestamp(date, clock string) PaginatorOption {
	return func(p *Paginator) {
		p.Date = date
		p.Time = clock
	}
}

// WithGrouper sets the similarity grouper.
func WithGrouper(g similarity.Grouper) PaginatorOption {
	return func(p *Paginator) {
		p.Grouper = g
	}
}

// NewPaginator creates a Paginator with default settings.
func NewPaginator(opts ...PaginatorOption) *Paginator {
	p := &Paginator{
		ResultsPerPage: DefaultResultsPerPage,
		Grouper:        similarity.NewGrouper(similarity.DefaultThreshold),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Paginator) perPage() int {
	if p.ResultsPerPage <= 0 {
		return DefaultResultsPerPage
	}
	return p.ResultsPerPage
}

// Document is a finished set of report pages.
type Document struct {
	// TOC is written once at the top of the first file. Empty for search
	// documents.
	TOC string

	// Pages holds the finalised HTML of each page.
	Pages []string

	// Counts holds the number of records on each page.
	Counts []int

	// Summary describes the sections for the markdown and JSON writers.
	Summary *Summary

	prefix string
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// FileName returns the file name of page i (0-based).
// The first page is unsuffixed: report.html, report_page2.html, ...
func (d *Document) FileName(i int) string {
	return pageFileName(d.prefix, i)
}

func pageFileName(prefix string, i int) string {
	if i == 0 {
		return prefix + ".html"
	}
	return fmt.Sprintf("%s_page%d.html", prefix, i+1)
}

// WriteFiles writes every page into dir. The table of contents is
// prepended to the first page. A document without pages writes nothing.
func (d *Document) WriteFiles(dir string) error {
	if d == nil || len(d.Pages) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	if err := removeStalePages(dir, d.prefix, len(d.Pages)); err != nil {
		return err
	}

	for i, page := range d.Pages {
		content := page
		if i == 0 {
			content = d.TOC + page
		}
		path := filepath.Join(dir, d.FileName(i))
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}

// removeStalePages deletes <prefix>_pageN.html files left in dir by an
// earlier, longer report, so only the current pages match the pattern.
func removeStalePages(dir, prefix string, pages int) error {
	matches, err := filepath.Glob(filepath.Join(dir, prefix+"_page*.html"))
	if err != nil {
		return err
	}
	for _, path := range matches {
		num := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(path), prefix+"_page"), ".html")
		n, err := strconv.Atoi(num)
		if err != nil || n <= pages {
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove stale page %s: %w", path, err)
		}
	}
	return nil
}

// Files returns the file names the document writes, in page order.
func (d *Document) Files() []string {
	names := make([]string, len(d.Pages))
	for i := range d.Pages {
		names[i] = d.FileName(i)
	}
	return names
}

// progress is the running state of one Build call.
type progress struct {
	perPage int
	total   int
	head    string

	counter int
	onPage  int
	body    strings.Builder
	pages   []string
	counts  []int
}

func newProgress(perPage, total int, head string) *progress {
	return &progress{perPage: perPage, total: total, head: head}
}

// pageNumber is the 1-based page the next record lands on.
func (pr *progress) pageNumber() int {
	return len(pr.pages) + 1
}

// section appends a titled table of records, flushing full pages.
func (pr *progress) section(id, display string, records []*model.CapturedPage) {
	pr.body.WriteString(sectionHeader(id, display))
	pr.body.WriteString(tableHead)
	open := true

	for i, rec := range records {
		pr.body.WriteString(recordRow(rec))
		pr.counter++
		pr.onPage++

		if pr.counter%pr.perPage == 0 || pr.counter == pr.total {
			pr.flush()
			open = false
			if i < len(records)-1 {
				pr.body.WriteString(tableHead)
				open = true
			}
		}
	}
	if open {
		pr.body.WriteString(tableClose)
	}
}

// flush closes the current page.
func (pr *progress) flush() {
	pr.pages = append(pr.pages, pr.head+navPlaceholder+pr.body.String()+tableClose)
	pr.counts = append(pr.counts, pr.onPage)
	pr.body.Reset()
	pr.onPage = 0
}

// finish flushes a trailing partial page, if any.
func (pr *progress) finish() {
	if pr.onPage > 0 {
		pr.flush()
	}
}

// Build lays out pages that already carry their category. Sections follow
// the category vocabulary order and failed pages go to the Errors section
// after all categories. It returns ErrEmptyInput when pages is empty.
func (p *Paginator) Build(pages []*model.CapturedPage) (*Document, error) {
	if len(pages) == 0 {
		return nil, ErrEmptyInput
	}

	var failed, ok []*model.CapturedPage
	for _, page := range pages {
		if page == nil {
			continue
		}
		if page.Failed() {
			failed = append(failed, page)
		} else {
			ok = append(ok, page)
		}
	}
	if len(failed)+len(ok) == 0 {
		return nil, ErrEmptyInput
	}

	sort.SliceStable(failed, func(i, j int) bool {
		if failed[i].ErrorState != failed[j].ErrorState {
			return failed[i].ErrorState < failed[j].ErrorState
		}
		return failed[i].PageTitle < failed[j].PageTitle
	})

	buckets := make(map[model.Category][]*model.CapturedPage)
	for _, page := range ok {
		tag := page.Category
		if !tag.IsKnown() {
			tag = model.CategoryNone
		}
		buckets[tag] = append(buckets[tag], page)
	}

	total := len(failed) + len(ok)
	pr := newProgress(p.perPage(), total, pageHead(p.Date, p.Time))
	summary := &Summary{Date: p.Date, Time: p.Time, Total: total}

	var toc, tocTable strings.Builder
	toc.WriteString(tocHead)
	tocTable.WriteString(`<table class="table">`)

	for _, info := range model.Categories() {
		members := buckets[info.Tag]
		if len(members) == 0 {
			continue
		}
		clusters := p.Grouper.Clusters(members)
		ordered := flatten(clusters, len(members))

		page := pr.pageNumber()
		writeTOCEntry(&toc, "report", page, info.SectionID, info.DisplayName)
		fmt.Fprintf(&tocTable, "<tr><td>%s</td><td>%d</td></tr>", esc(info.DisplayName), len(ordered))

		pr.section(info.SectionID, info.DisplayName, ordered)
		summary.Sections = append(summary.Sections, Section{
			Category: info,
			Page:     page,
			Count:    len(ordered),
			Clusters: clusters,
		})
	}

	if len(failed) > 0 {
		summary.ErrorPage = pr.pageNumber()
		writeTOCEntry(&toc, "report", summary.ErrorPage, errorsSectionID, "Errors")
		pr.section(errorsSectionID, "Errors", failed)
		summary.Errors = failed
	}
	pr.finish()

	fmt.Fprintf(&tocTable, "<tr><td>Errors</td><td>%d</td></tr>", len(failed))
	fmt.Fprintf(&tocTable, "<tr><th>Total</th><td>%d</td></tr>", total)
	tocTable.WriteString("</table>")
	toc.WriteString("</ul>")

	doc := &Document{
		TOC:     fmt.Sprintf("<center>%s<br><br>%s<br><br></center>", toc.String(), tocTable.String()),
		Pages:   finalize(pr.pages, "report"),
		Counts:  pr.counts,
		Summary: summary,
		prefix:  "report",
	}
	summary.Pages = doc.PageCount()
	return doc, nil
}

// BuildSearch renders pages matching a search term as search.html and
// search_page{N}.html. Failed pages are left out.
func (p *Paginator) BuildSearch(term string, pages []*model.CapturedPage) (*Document, error) {
	var ok []*model.CapturedPage
	for _, page := range pages {
		if page != nil && !page.Failed() {
			ok = append(ok, page)
		}
	}
	if len(ok) == 0 {
		return nil, ErrEmptyInput
	}
	sort.SliceStable(ok, func(i, j int) bool {
		return ok[i].PageTitle < ok[j].PageTitle
	})

	pr := newProgress(p.perPage(), len(ok), pageHead(p.Date, p.Time))
	pr.section("results", "Results for "+term, ok)
	pr.finish()

	doc := &Document{
		Pages:  finalize(pr.pages, "search"),
		Counts: pr.counts,
		Summary: &Summary{
			Date:  p.Date,
			Time:  p.Time,
			Total: len(ok),
		},
		prefix: "search",
	}
	doc.Summary.Pages = doc.PageCount()
	return doc, nil
}

func writeTOCEntry(toc *strings.Builder, prefix string, page int, id, display string) {
	fmt.Fprintf(toc, "<li><a href=\"%s#%s\">%s (Page %d)</a></li>",
		pageFileName(prefix, page-1), esc(id), esc(display), page)
}

func flatten(clusters [][]*model.CapturedPage, n int) []*model.CapturedPage {
	out := make([]*model.CapturedPage, 0, n)
	for _, c := range clusters {
		out = append(out, c...)
	}
	return out
}

// finalize resolves the navigation placeholder of every page.
// A single page gets no navigation.
func finalize(pages []string, prefix string) []string {
	out := make([]string, len(pages))
	if len(pages) == 1 {
		out[0] = strings.Replace(pages[0], navPlaceholder, "", 1) + documentEnd
		return out
	}

	index := pageIndex(prefix, len(pages))
	for i, page := range pages {
		nav := navigation(prefix, i, len(pages))
		out[i] = strings.Replace(page, navPlaceholder, nav+index, 1) + index + "<br>" + nav + documentEnd
	}
	return out
}

// pageIndex links every page: Page 1 ... Page N.
func pageIndex(prefix string, n int) string {
	var sb strings.Builder
	sb.WriteString("\n<center><br>")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "<a href=\"%s\"> Page %d</a>", pageFileName(prefix, i), i+1)
	}
	sb.WriteString("</center>\n")
	return sb.String()
}

// navigation returns the heading with previous and next links for page i.
func navigation(prefix string, i, n int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<h3>Page %d</h3><center>", i+1)
	if i > 0 {
		fmt.Fprintf(&sb, "<a href=\"%s\" id=\"previous\"> Previous Page </a>", pageFileName(prefix, i-1))
	}
	if i > 0 && i < n-1 {
		sb.WriteString("&nbsp;")
	}
	if i < n-1 {
		fmt.Fprintf(&sb, "<a href=\"%s\" id=\"next\"> Next Page </a>", pageFileName(prefix, i+1))
	}
	sb.WriteString("</center>")
	return sb.String()
}
