package report

import "strings"

// SplitSentences breaks text into sentences on '.' or '?' followed by
// whitespace. Two abbreviation shapes are tolerated and do not split:
// dotted initialisms ("e.g. ", "U.S. ") and capitalized two-letter
// abbreviations ("Dr. ", "Mr. "). The heuristic is known-fragile by
// contract; its edge cases are pinned down in tests rather than patched
// ad hoc.
func SplitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		if runes[i] != '.' && runes[i] != '?' {
			continue
		}
		if i+1 >= len(runes) || !isSpace(runes[i+1]) {
			continue
		}
		if runes[i] == '.' && isAbbreviation(runes, i) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			sentences = append(sentences, s)
		}
		start = i + 1
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// isAbbreviation reports whether the period at index i ends an
// abbreviation rather than a sentence.
func isAbbreviation(runes []rune, i int) bool {
	// Capitalized two-letter abbreviation: "Dr.", "Mr.", "St."
	if i >= 2 && isUpper(runes[i-2]) && isLower(runes[i-1]) {
		if i == 2 || !isWord(runes[i-3]) {
			return true
		}
	}
	// Dotted initialism: "e.g.", "U.S." (word char, '.', word char, '.')
	if i >= 3 && isWord(runes[i-1]) && runes[i-2] == '.' && isWord(runes[i-3]) {
		return true
	}
	return false
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }

func isLower(r rune) bool { return r >= 'a' && r <= 'z' }

func isWord(r rune) bool {
	return isUpper(r) || isLower(r) || (r >= '0' && r <= '9') || r == '_'
}
