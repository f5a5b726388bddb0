// Package report renders classified pages into the screenwitness report.
//
// The HTML report is built by the Paginator:
//   - report.html: table of contents followed by the first page
//   - report_page2.html ... report_pageN.html: the remaining pages
//
// Categories appear in the fixed order of model.Categories(). Inside a
// category, pages with similar titles are placed next to each other. Failed
// captures are listed last in an Errors section.
//
// Alongside the HTML pages this package writes:
//   - SimpleWriter: Human-readable summary for terminal display
//   - MarkdownWriter: summary.md with category counts and credentials
//   - JSONWriter: report.json for tool integration
//   - WriteRequestsCSV: Requests.csv, one row per target
package report
