// Package extract turns rendered page HTML into clean text.
//
// The selector policy is deliberately explicit: an ordered deny list of
// non-content subtrees, an ordered allow list of likely-content
// containers, and a whole-body fallback when the allow list matches
// nothing. Keeping the policy in two slices keeps it auditable.
package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DenySelectors are removed from the document before any text is read.
var DenySelectors = []string{
	"header", "footer", "nav", "aside", "script", "style", "noscript", "form",
	".navbar", ".footer", "#header", "#footer",
	".cookie-banner", ".cookie-consent", ".consent-banner",
}

// AllowSelectors are likely-content containers, preferred over the body.
var AllowSelectors = []string{
	"main", "article", "section",
	".main-content", "#main", ".content",
	".about", ".team", ".bio", ".leadership",
}

// ContentSelector is the combined allow list, usable as a browser-side
// "content is present" wait target.
var ContentSelector = strings.Join(AllowSelectors, ", ")

var denySelector = strings.Join(DenySelectors, ", ")

var spaceRun = regexp.MustCompile(`[^\S\n]+`)

// Text extracts cleaned text from one page's rendered HTML. An empty
// string is a valid result for pages with no extractable content.
func Text(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	doc.Find(denySelector).Remove()

	var parts []string
	matches := doc.Find(ContentSelector)
	matches.Each(func(_ int, sel *goquery.Selection) {
		// Take only outermost matches so nested containers are not
		// counted twice.
		if sel.ParentsFiltered(ContentSelector).Length() > 0 {
			return
		}
		if text := Normalize(sel.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	if len(parts) > 0 {
		return strings.Join(parts, "\n"), nil
	}
	return Normalize(doc.Find("body").Text()), nil
}

// Normalize collapses runs of spaces and tabs, trims every line, and
// drops blank lines. Single line breaks survive so downstream heuristics
// can still reason about "lines".
func Normalize(s string) string {
	s = spaceRun.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
