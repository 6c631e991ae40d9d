package crawl

// PageRecord is one successfully fetched and cleaned page. Records live
// only for the duration of a single scrape request.
type PageRecord struct {
	URL     string `json:"url"`
	Content string `json:"content"`
	RawHTML string `json:"rawHtml,omitempty"`
}

// RelevantKeywords mark URLs worth fetching on a company site. Matching
// is a case-sensitive substring check on the resolved URL; paths are
// lowercase in practice.
var RelevantKeywords = []string{
	"about", "company", "who-we-are", "team", "careers", "culture",
	"blog", "news", "press", "services", "solutions", "products",
}
