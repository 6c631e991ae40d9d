package crawl

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DiscoverLinks collects anchor targets from rendered homepage HTML and
// returns the bounded, deduplicated set of same-origin URLs containing
// one of the keywords, in document order. The seed itself is excluded.
func DiscoverLinks(html string, base *url.URL, keywords []string, limit int) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	seen := map[string]struct{}{base.String(): {}}
	var links []string
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if limit >= 0 && len(links) >= limit {
			return false
		}
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return true
		}
		ref, err := url.Parse(href)
		if err != nil {
			return true
		}
		resolved := base.ResolveReference(ref)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return true
		}
		// Same-origin crawl boundary: scheme and host:port must match
		// the seed. External links are never followed.
		if resolved.Scheme != base.Scheme || resolved.Host != base.Host {
			return true
		}
		resolved.Fragment = ""
		target := resolved.String()
		if _, dup := seen[target]; dup {
			return true
		}
		if !containsAny(target, keywords) {
			return true
		}
		seen[target] = struct{}{}
		links = append(links, target)
		return true
	})
	return links
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
