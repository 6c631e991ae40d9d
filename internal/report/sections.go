package report

import "strings"

// maxSectionLen caps each heuristic section extract.
const maxSectionLen = 2000

// Keyword groups behind the heuristic section extracts. A group matching
// nothing yields a null field, never an empty string.
var (
	companyBasicsKeywords       = []string{"founded", "ceo", "headquarters", "employees", "mission"}
	productsAndServicesKeywords = []string{"product", "service", "solution", "offering", "platform"}
	cultureAndValuesKeywords    = []string{"culture", "values", "our team", "careers"}
)

// extractSection collects, for each keyword not yet seen, the first
// sentence containing it (case-insensitive), joined in sentence order.
// It returns nil when no sentence matches any keyword.
func extractSection(sentences []string, keywords []string) *string {
	found := make(map[string]struct{}, len(keywords))
	var relevant []string
	for _, sentence := range sentences {
		lower := strings.ToLower(sentence)
		for _, kw := range keywords {
			if _, seen := found[kw]; seen {
				continue
			}
			if strings.Contains(lower, kw) {
				relevant = append(relevant, sentence)
				found[kw] = struct{}{}
			}
		}
	}
	if len(relevant) == 0 {
		return nil
	}
	section := strings.Join(relevant, " ")
	if r := []rune(section); len(r) > maxSectionLen {
		section = string(r[:maxSectionLen])
	}
	return &section
}
