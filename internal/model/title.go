package model

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractTitle returns the text of the first <title> element in source,
// collapsed to single spaces. It returns UnknownTitle when the document has
// no usable title.
func ExtractTitle(source string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(source))
	if err != nil {
		return UnknownTitle
	}

	title := strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
	if title == "" {
		return UnknownTitle
	}
	return title
}
