package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSentencesBasic(t *testing.T) {
	t.Parallel()

	got := SplitSentences("We build robots. Do you like robots? We do.")
	assert.Equal(t, []string{
		"We build robots.",
		"Do you like robots?",
		"We do.",
	}, got)
}

func TestSplitSentencesTitleAbbreviation(t *testing.T) {
	t.Parallel()

	// "Dr." must not end a sentence.
	got := SplitSentences("Dr. Smith founded the company. It grew fast.")
	assert.Equal(t, []string{
		"Dr. Smith founded the company.",
		"It grew fast.",
	}, got)
}

func TestSplitSentencesDottedInitialism(t *testing.T) {
	t.Parallel()

	got := SplitSentences("We ship to the U.S. and Canada. Orders arrive weekly.")
	assert.Equal(t, []string{
		"We ship to the U.S. and Canada.",
		"Orders arrive weekly.",
	}, got)
}

func TestSplitSentencesNoTrailingPunctuation(t *testing.T) {
	t.Parallel()

	got := SplitSentences("First sentence. trailing fragment without a period")
	assert.Equal(t, []string{
		"First sentence.",
		"trailing fragment without a period",
	}, got)
}

func TestSplitSentencesEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, SplitSentences(""))
	assert.Empty(t, SplitSentences("   \n  "))
}
