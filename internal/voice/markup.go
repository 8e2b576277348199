package voice

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const blockSelector = "p, div, br, li, h1, h2, h3, h4, h5, h6, tr, td, th"

// PlainText reduces rich-text markup to its visible words. Text without a
// tag is returned unchanged.
func PlainText(text string) string {
	if !strings.Contains(text, "<") {
		return text
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return text
	}
	doc.Find("script, style, noscript").Remove()
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		s.AfterHtml(" ")
	})
	return strings.Join(strings.Fields(doc.Text()), " ")
}
