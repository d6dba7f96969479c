package usecase

import (
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/comparador-racao/backend/internal/domain"
)

// Package-level compiled regex patterns
var (
	// First run of digits with locale punctuation, e.g. "1.234,56"
	pricePattern = regexp.MustCompile(`\d[\d.,]*`)

	// Value followed by a kg or g unit, e.g. "1,5 kg", "500g"
	weightPattern = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(kg|g)`)
)

// Quality scoring constants
const (
	baseQuality = 50

	premiumBrandBonus = 25
	midBrandBonus     = 15
	basicBrandBonus   = 5

	noblePrecursorBonus = 10 // carne / frango without by-products
	premiumProteinBonus = 15 // salmão / cordeiro
	byproductPenalty    = 15
	meatMealPenalty     = 5
	colorantPenalty     = 10
	gmoPenalty          = 10

	// Cost-benefit when price or weight is unknown
	neutralCostBenefit = 50.0
)

// Brand tiers, matched as case-insensitive substrings of the brand field
var (
	premiumBrands = []string{"royal canin", "hills", "premier", "n&d", "farmina", "pro plan", "formula natural"}
	midBrands     = []string{"golden", "equilibrio", "biofresh", "guabi natural"}
	basicBrands   = []string{"pedigree", "whiskas", "special cat", "special dog", "gran plus", "origens"}
)

// affirmativeMarker flags a "yes" answer in the colorant/GMO fields
const affirmativeMarker = "sim"

// priceBand maps price per kilogram to the base cost-benefit score
type priceBand struct {
	below float64
	score float64
}

var priceBands = []priceBand{
	{30, 80},
	{50, 70},
	{80, 60},
	{120, 50},
	{180, 40},
}

const expensiveBandScore = 30.0

// ExtractPrice parses the first currency amount in text.
// "." is treated as thousands separator and "," as decimal separator.
func ExtractPrice(text string) (float64, bool) {
	match := pricePattern.FindString(text)
	if match == "" {
		return 0, false
	}
	match = strings.TrimRight(match, ".,")
	match = strings.ReplaceAll(match, ".", "")
	match = strings.Replace(match, ",", ".", 1)

	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// ExtractWeight parses a weight such as "15 kg" or "500 g" and returns kilograms
func ExtractWeight(text string) (float64, bool) {
	m := weightPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
	if err != nil {
		return 0, false
	}
	if strings.ToLower(m[2]) == "g" {
		value /= 1000
	}
	return value, true
}

// CalculateQuality scores a record from its brand tier and ingredient list.
// The result is always within [0, 100]; an empty record scores exactly 50.
func CalculateQuality(p *domain.RawProduct) int {
	quality := baseQuality
	quality += brandBonus(deref(p.Marca))

	if p.Ingredientes != nil {
		ingredients := foldText(*p.Ingredientes)
		hasByproduct := strings.Contains(ingredients, "subproduto")

		if strings.Contains(ingredients, "carne") && !hasByproduct {
			quality += noblePrecursorBonus
		}
		if strings.Contains(ingredients, "frango") && !hasByproduct {
			quality += noblePrecursorBonus
		}
		if strings.Contains(ingredients, "salmao") {
			quality += premiumProteinBonus
		}
		if strings.Contains(ingredients, "cordeiro") {
			quality += premiumProteinBonus
		}

		if hasByproduct {
			quality -= byproductPenalty
		}
		if strings.Contains(ingredients, "farinha de carne") {
			quality -= meatMealPenalty
		}
		if strings.Contains(ingredients, "corante") {
			quality -= colorantPenalty
		}
		if strings.Contains(ingredients, "transgenico") {
			quality -= gmoPenalty
		}
	}

	if isAffirmative(p.Corante) {
		quality -= colorantPenalty
	}
	if isAffirmative(p.Transgenico) {
		quality -= gmoPenalty
	}

	return clampInt(quality, 0, 100)
}

func brandBonus(brand string) int {
	if brand == "" {
		return 0
	}
	b := foldText(brand)
	switch {
	case containsAny(b, premiumBrands...):
		return premiumBrandBonus
	case containsAny(b, midBrands...):
		return midBrandBonus
	case containsAny(b, basicBrands...):
		return basicBrandBonus
	}
	return 0
}

func isAffirmative(field *string) bool {
	return field != nil && strings.Contains(strings.ToLower(*field), affirmativeMarker)
}

// PricePerKg returns price divided by weight when both parse to positive values
func PricePerKg(p *domain.RawProduct) (float64, bool) {
	price, ok := ExtractPrice(deref(p.Preco))
	if !ok || price <= 0 {
		return 0, false
	}
	weight, ok := ExtractWeight(deref(p.Peso))
	if !ok || weight <= 0 {
		return 0, false
	}
	return price / weight, true
}

// unparseableCostField names the field that keeps PricePerKg from succeeding
func unparseableCostField(p *domain.RawProduct) string {
	if price, ok := ExtractPrice(deref(p.Preco)); !ok || price <= 0 {
		return "preco"
	}
	return "peso"
}

// CalculateCostBenefit bands the price per kg and scales it by quality/50.
// Returns 50 when price or weight cannot be parsed.
func CalculateCostBenefit(p *domain.RawProduct, quality int) float64 {
	perKg, ok := PricePerKg(p)
	if !ok {
		return neutralCostBenefit
	}

	score := expensiveBandScore
	for _, band := range priceBands {
		if perKg < band.below {
			score = band.score
			break
		}
	}

	return clampFloat(score*float64(quality)/50, 0, 100)
}

// DeriveID takes the last path segment of the origin URL, without query string.
// The trailing "/p" product marker used by the store is skipped. Falls back to
// "product-<index>" when nothing usable remains.
func DeriveID(link string, index int) string {
	path := link
	if u, err := url.Parse(link); err == nil {
		path = u.EscapedPath()
	} else if i := strings.IndexAny(link, "?#"); i >= 0 {
		path = link[:i]
	}

	segments := strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
	if n := len(segments); n > 1 && segments[n-1] == "p" {
		segments = segments[:n-1]
	}
	if len(segments) > 0 {
		if id := segments[len(segments)-1]; id != "" {
			return id
		}
	}
	return "product-" + strconv.Itoa(index)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
