package report

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/nao1215/screenwitness/internal/model"
)

// navPlaceholder marks where page navigation goes once the page count is known.
const navPlaceholder = "SW_NAVIGATION"

// recordCellOpen starts the left cell of every record row.
const recordCellOpen = `<td><div style="display: inline-block; width: 300px; word-wrap: break-word">`

const tableHead = `<table border="1">
<tr>
<th>Web Request Info</th>
<th>Web Screenshot</th>
</tr>`

const tableClose = "</table><br>"

// pageHead returns the document head shared by every report page.
// Left and right arrow keys follow the previous and next links.
func pageHead(date, clock string) string {
	return `<html>
<head>
<meta charset="utf-8">
<link rel="stylesheet" href="https://maxcdn.bootstrapcdn.com/bootstrap/3.3.7/css/bootstrap.min.css" type="text/css"/>
<title>screenwitness Report</title>
<script type="text/javascript">
document.onkeydown = function(event) {
    event = event || window.event;
    var id = event.keyCode === 37 ? "previous" : event.keyCode === 39 ? "next" : "";
    var link = id ? document.getElementById(id) : null;
    if (link) {
        link.click();
    }
};
</script>
</head>
<body>
<center>
<center>Report Generated on ` + esc(date) + ` at ` + esc(clock) + `</center>`
}

const tocHead = `<html>
<head>
<meta charset="utf-8">
<title>screenwitness Report Table of Contents</title>
</head>
<h2>Table of Contents</h2>
<ul>`

const documentEnd = "</body>\n</html>"

func esc(s string) string {
	return html.EscapeString(s)
}

// sectionHeader opens a report section.
func sectionHeader(id, display string) string {
	return fmt.Sprintf(`<h2 id="%s">%s</h2>`, esc(id), esc(display))
}

// recordRow renders one page as a two-cell table row.
func recordRow(p *model.CapturedPage) string {
	var sb strings.Builder
	addr := esc(p.RemoteSystem)

	sb.WriteString("<tr>\n")
	sb.WriteString(recordCellOpen)
	fmt.Fprintf(&sb, "\n<a href=\"%s\" target=\"_blank\">%s</a><br>\n", addr, addr)

	if p.Resolved != "" && p.Resolved != model.UnknownTitle {
		fmt.Fprintf(&sb, "<b>Resolved to:</b> %s<br>\n", esc(p.Resolved))
	}
	if p.SSLError {
		fmt.Fprintf(&sb, "<br><b>SSL Certificate error present on <a href=\"%s\" target=\"_blank\">%s</a></b><br>\n", addr, addr)
	}
	if p.CredentialNote != "" {
		creds := strings.ReplaceAll(esc(p.CredentialNote), "\n", "<br>")
		fmt.Fprintf(&sb, "<br><b>Default credentials:</b> %s<br>\n", creds)
	}

	if !p.Failed() {
		fmt.Fprintf(&sb, "<br><b> Page Title: </b>%s\n", esc(p.DisplayTitle()))
		for _, key := range sortedKeys(p.Headers) {
			fmt.Fprintf(&sb, "<br><b> %s:</b> %s\n", esc(key), esc(p.Headers[key]))
		}
		if p.SourceHash != "" {
			fmt.Fprintf(&sb, "<br><b> Source SHA3-256:</b> <code>%s</code>\n", esc(p.SourceHash))
		}
	}

	switch {
	case p.Blank:
		sb.WriteString("<br></div></td>\n")
		sb.WriteString(`<td><div style="display: inline-block; width: 850px;">Page Blank, Connection error, or SSL Issues</div></td>`)
	case p.Failed():
		fmt.Fprintf(&sb, "</div></td>\n<td>%s</td>", esc(p.ErrorState.Description()))
	default:
		src := esc(filepath.ToSlash(p.SourcePath))
		scr := esc(filepath.ToSlash(p.ScreenshotPath))
		fmt.Fprintf(&sb, "<br><br><a href=\"%s\" target=\"_blank\">Source Code</a></div></td>\n", src)
		fmt.Fprintf(&sb, "<td><div id=\"screenshot\"><a href=\"%s\" target=\"_blank\"><img src=\"%s\" height=\"400\"></a></div></td>", scr, scr)
	}
	sb.WriteString("\n</tr>\n")

	return sb.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
