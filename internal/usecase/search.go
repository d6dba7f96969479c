package usecase

import (
	"regexp"
	"strings"

	"github.com/comparador-racao/backend/internal/domain"
)

// Compiled regex patterns for search query preprocessing
var (
	// Package sizes like "15kg", "10,1 kg", "500 g"
	searchSizePattern = regexp.MustCompile(`\b\d+(?:[.,]\d+)?\s*(?:kg|g|gr|gramas?|quilos?)\b`)

	// Anything that is not a letter, digit or space after folding
	searchPunctPattern = regexp.MustCompile(`[^a-z0-9\s]`)
)

// searchNoiseWords carry no signal in a pet-food catalog where every item is a ração
var searchNoiseWords = map[string]bool{
	"racao": true, "racoes": true, "para": true, "de": true, "da": true,
	"do": true, "com": true, "e": true, "sabor": true, "pacote": true,
	"saco": true, "kit": true, "unidade": true, "un": true,
}

// SearchTokens normalizes a free-text query into match tokens.
// Sizes, punctuation and noise words are removed; accents are folded.
func SearchTokens(query string) []string {
	cleaned := foldText(query)
	cleaned = searchSizePattern.ReplaceAllString(cleaned, " ")
	cleaned = searchPunctPattern.ReplaceAllString(cleaned, " ")

	var tokens []string
	for _, word := range strings.Fields(cleaned) {
		if !searchNoiseWords[word] {
			tokens = append(tokens, word)
		}
	}
	return tokens
}

// MatchesSearch reports whether every token occurs in the product name or brand
func MatchesSearch(p *domain.Product, tokens []string) bool {
	if len(tokens) == 0 {
		return true
	}
	haystack := foldText(deref(p.Nome) + " " + deref(p.Marca))
	for _, t := range tokens {
		if !strings.Contains(haystack, t) {
			return false
		}
	}
	return true
}

// Search keeps the products matching a free-text query, preserving order
func Search(products []domain.Product, query string) []domain.Product {
	tokens := SearchTokens(query)
	if len(tokens) == 0 {
		return products
	}
	matched := make([]domain.Product, 0, len(products))
	for i := range products {
		if MatchesSearch(&products[i], tokens) {
			matched = append(matched, products[i])
		}
	}
	return matched
}
