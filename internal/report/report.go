// Package report aggregates crawled pages into the caller-facing scrape
// result: a combined corpus plus best-effort heuristic extracts. Absent
// fields are null, signalling "insufficient evidence" rather than a
// guess.
package report

import (
	"strings"

	"github.com/Blittyyy/interviewiq-scraper/internal/crawl"
)

// Result is the external contract returned by /scrape.
type Result struct {
	CombinedText        string             `json:"combinedText"`
	RawPages            []crawl.PageRecord `json:"rawPages"`
	CompanyBasics       *string            `json:"companyBasics"`
	ProductsAndServices *string            `json:"productsAndServices"`
	CultureAndValues    *string            `json:"cultureAndValues"`
	RecentNews          []NewsItem         `json:"recentNews"`
}

// Build assembles a Result from crawled pages in page-set order (seed
// first, discovered pages in discovery order).
func Build(records []crawl.PageRecord) Result {
	if records == nil {
		records = []crawl.PageRecord{}
	}
	contents := make([]string, 0, len(records))
	for _, rec := range records {
		contents = append(contents, rec.Content)
	}
	combined := strings.Join(contents, "\n\n")
	sentences := SplitSentences(combined)

	return Result{
		CombinedText:        combined,
		RawPages:            records,
		CompanyBasics:       extractSection(sentences, companyBasicsKeywords),
		ProductsAndServices: extractSection(sentences, productsAndServicesKeywords),
		CultureAndValues:    extractSection(sentences, cultureAndValuesKeywords),
		RecentNews:          extractNews(records),
	}
}
