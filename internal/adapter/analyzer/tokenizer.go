package analyzer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenizer turns prose, including text pulled out of PDFs, into lower-cased
// terms for hashing and estimates model token counts for chunk sizing.
type Tokenizer struct {
	stopwords map[string]struct{}
}

func NewTokenizer() *Tokenizer {
	return &Tokenizer{
		stopwords: proseStopwords(),
	}
}

// PDF extraction leaves ligatures and typographic punctuation behind.
var pdfNormalizer = strings.NewReplacer(
	"\ufb00", "ff",
	"\ufb01", "fi",
	"\ufb02", "fl",
	"\ufb03", "ffi",
	"\ufb04", "ffl",
	"\u2019", "'",
	"\u2018", "'",
	"\u00ad", "", // soft hyphen
)

// Tokenize returns the content terms of text in order.
func (t *Tokenizer) Tokenize(text string) []string {
	words := splitWords(pdfNormalizer.Replace(text))
	tokens := make([]string, 0, len(words))

	for _, word := range words {
		word = strings.ToLower(word)
		word = strings.TrimSuffix(word, "'s")
		word = strings.Trim(word, "'")
		if utf8.RuneCountInString(word) < 2 || isPageNumber(word) {
			continue
		}
		if _, isStop := t.stopwords[word]; isStop {
			continue
		}
		tokens = append(tokens, word)
	}

	return tokens
}

// CountTokens estimates how many model tokens text costs. Short words are one
// token; longer words split into roughly one extra piece per six letters, and
// every punctuation mark counts on its own.
func (t *Tokenizer) CountTokens(text string) int {
	count := 0
	for _, word := range splitWords(text) {
		count += 1 + utf8.RuneCountInString(word)/6
	}
	for _, r := range text {
		if unicode.IsPunct(r) && r != '\'' {
			count++
		}
	}
	return count
}

// splitWords splits on anything that is not a letter, digit or in-word
// apostrophe.
func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

// isPageNumber reports short all-digit runs, which in extracted documents are
// mostly page numbers and footnote marks. Years are kept.
func isPageNumber(word string) bool {
	if len(word) > 3 {
		return false
	}
	for _, r := range word {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func proseStopwords() map[string]struct{} {
	stops := []string{
		// function words
		"a", "an", "and", "are", "as", "at", "be", "by", "for", "from",
		"has", "have", "had", "in", "is", "it", "its", "of", "on", "or",
		"that", "the", "this", "these", "those", "to", "was", "were",
		"will", "with", "but", "not", "if", "so", "no", "than", "then",
		"also", "into", "about", "over", "such", "there", "here",
		"can", "do", "does", "did", "been", "being", "would", "could",
		"should", "may", "might", "must", "which", "who", "whom", "what",
		"when", "where", "why", "how", "all", "any", "each", "more", "most",
		"he", "she", "her", "his", "we", "our", "you", "your", "they", "their",
		// extraction boilerplate
		"page", "pp", "fig", "figure", "table", "vol", "et", "al", "ibid",
		"copyright", "rights", "reserved", "www", "http", "https", "com",
	}
	m := make(map[string]struct{}, len(stops))
	for _, s := range stops {
		m[s] = struct{}{}
	}
	return m
}
