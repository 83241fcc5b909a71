package analyzer

import (
	"reflect"
	"testing"
)

func TestTokenizer_Tokenize(t *testing.T) {
	tok := NewTokenizer()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"question", "What fabric trends are popular?", []string{"fabric", "trends", "popular"}},
		{"lowercases", "Linen SILK Denim", []string{"linen", "silk", "denim"}},
		{"short words", "a I go to", []string{"go"}},
		{"possessive", "The designer's collection", []string{"designer", "collection"}},
		{"ligatures", "\ufb01ne \ufb02annel", []string{"fine", "flannel"}},
		{"curly apostrophe", "Vogue\u2019s edit", []string{"vogue", "edit"}},
		{"soft hyphen", "sustain\u00adable", []string{"sustainable"}},
		{"page numbers dropped, years kept", "Page 12 of the 2024 report", []string{"2024", "report"}},
		{"boilerplate", "Copyright 2023. All rights reserved. See Fig. 3", []string{"2023", "see"}},
		{"empty", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tok.Tokenize(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenizer_CountTokens(t *testing.T) {
	tok := NewTokenizer()

	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"hello world this is a test", 6},
		{"sustainability", 3},          // 14 letters: 1 + 14/6
		{"Linen, cotton and silk.", 7}, // cotton is two pieces, plus 2 marks
		{"don't", 1},
	}

	for _, tt := range tests {
		if got := tok.CountTokens(tt.input); got != tt.want {
			t.Errorf("CountTokens(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestSplitWords(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"hello world", 2},
		{"hello_world", 2},
		{"hello-world", 2},
		{"ready-to-wear", 3},
		{"SS24 collection", 2},
		{"it's", 1},
		{"  ", 0},
	}

	for _, tt := range tests {
		words := splitWords(tt.input)
		if len(words) != tt.expected {
			t.Errorf("splitWords(%q) = %d words, want %d: %v", tt.input, len(words), tt.expected, words)
		}
	}
}
