package report

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Blittyyy/interviewiq-scraper/internal/crawl"
)

// NewsItem is one plausible headline from a news-like page. Date
// extraction is unreliable without per-site selectors; a null date is an
// accepted terminal state, not a bug.
type NewsItem struct {
	Title string  `json:"title"`
	URL   string  `json:"url"`
	Date  *string `json:"date"`
}

var newsPathFragments = []string{"/blog", "/news", "press-releases"}

const (
	minTitleLen     = 20
	maxTitleLen     = 150
	maxItemsPerPage = 3
)

// extractNews pulls headline candidates from pages whose URL looks
// news-like. Pages with raw HTML yield anchor text plus a resolved link;
// otherwise short lines of cleaned text stand in as titles. Returns nil
// when no news-like page exists.
func extractNews(records []crawl.PageRecord) []NewsItem {
	var news []NewsItem
	for _, rec := range records {
		if !isNewsURL(rec.URL) {
			continue
		}
		items := newsFromHTML(rec)
		if items == nil {
			items = newsFromText(rec)
		}
		news = append(news, items...)
	}
	return news
}

func isNewsURL(u string) bool {
	for _, frag := range newsPathFragments {
		if strings.Contains(u, frag) {
			return true
		}
	}
	return false
}

// newsFromHTML extracts anchors of headline length with a resolvable,
// non-fragment href.
func newsFromHTML(rec crawl.PageRecord) []NewsItem {
	if rec.RawHTML == "" {
		return nil
	}
	base, err := url.Parse(rec.URL)
	if err != nil {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.RawHTML))
	if err != nil {
		return nil
	}
	var items []NewsItem
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if len(items) >= maxItemsPerPage {
			return false
		}
		title := strings.TrimSpace(sel.Text())
		if !plausibleTitle(title) {
			return true
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
		items = append(items, NewsItem{
			Title: title,
			URL:   base.ResolveReference(ref).String(),
		})
		return true
	})
	return items
}

// newsFromText falls back to short lines of the cleaned page text, with
// the page URL standing in for each item's link.
func newsFromText(rec crawl.PageRecord) []NewsItem {
	var items []NewsItem
	for _, line := range strings.Split(rec.Content, "\n") {
		if len(items) >= maxItemsPerPage {
			break
		}
		line = strings.TrimSpace(line)
		if plausibleTitle(line) {
			items = append(items, NewsItem{Title: line, URL: rec.URL})
		}
	}
	return items
}

// plausibleTitle keeps strings of headline length. Bounds are exclusive
// on both ends, so exactly 20 or 150 runes is rejected; this matches the
// legacy filter the web app was built against.
func plausibleTitle(s string) bool {
	n := len([]rune(s))
	return n > minTitleLen && n < maxTitleLen
}
