package usecase

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/comparador-racao/backend/internal/domain"
)

// percentPattern matches the first number of a guaranteed-level value, e.g. "26,5 %"
var percentPattern = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// nutrientKeys maps a nutrient to the folded substrings identifying its especificacoes key
var nutrientKeys = []struct {
	name    string
	needles []string
}{
	{"proteina", []string{"proteina"}},
	{"gordura", []string{"gordura", "materia gordurosa"}},
	{"fibra", []string{"fibra"}},
	{"umidade", []string{"umidade"}},
	{"calcio", []string{"calcio"}},
	{"fosforo", []string{"fosforo"}},
}

// Heuristic estimates used when a nutrient is missing from the especificacoes table
const (
	catProteinBase  = 30.0
	dogProteinBase  = 22.0
	fatBase         = 10.0
	fiberBase       = 3.0
	defaultMoisture = 10.0
	calciumBase     = 1.2
	phosphorusBase  = 0.8
	catSpecies      = "gato"
)

// ExtractGuaranteedLevels reads nutrient percentages from the especificacoes map.
// Keys are matched case- and accent-insensitively; keys are visited in sorted
// order and the first parseable match for each nutrient wins.
func ExtractGuaranteedLevels(specs map[string]string) domain.GuaranteedLevels {
	var levels domain.GuaranteedLevels
	if len(specs) == 0 {
		return levels
	}

	keys := make([]string, 0, len(specs))
	for k := range specs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	found := make(map[string]float64, len(nutrientKeys))
	for _, key := range keys {
		folded := foldText(key)
		for _, nk := range nutrientKeys {
			if _, done := found[nk.name]; done {
				continue
			}
			if !containsAny(folded, nk.needles...) {
				continue
			}
			if v, ok := parsePercent(specs[key]); ok {
				found[nk.name] = v
			}
		}
	}

	levels.Proteina = lookup(found, "proteina")
	levels.Gordura = lookup(found, "gordura")
	levels.Fibra = lookup(found, "fibra")
	levels.Umidade = lookup(found, "umidade")
	levels.Calcio = lookup(found, "calcio")
	levels.Fosforo = lookup(found, "fosforo")
	return levels
}

func lookup(m map[string]float64, k string) *float64 {
	v, ok := m[k]
	if !ok {
		return nil
	}
	return &v
}

func parsePercent(value string) (float64, bool) {
	m := percentPattern.FindString(value)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.Replace(m, ",", ".", 1), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// GenerateNutritionalAnalysis builds the nutrient part of the analysis block.
// Values found in the especificacoes table are kept as-is, including a literal 0;
// missing ones are estimated from species and quality.
func GenerateNutritionalAnalysis(p *domain.RawProduct, quality int) domain.Analysis {
	levels := ExtractGuaranteedLevels(p.Especificacoes)
	q := float64(quality)

	proteinBase := dogProteinBase
	if foldText(strings.TrimSpace(deref(p.Especie))) == catSpecies {
		proteinBase = catProteinBase
	}

	return domain.Analysis{
		Proteina: orEstimate(levels.Proteina, proteinBase+q/10),
		Gordura:  orEstimate(levels.Gordura, fatBase+q/20),
		Fibra:    orEstimate(levels.Fibra, fiberBase+q/100),
		Umidade:  orEstimate(levels.Umidade, defaultMoisture),
		Calcio:   orEstimate(levels.Calcio, calciumBase+q/200),
		Fosforo:  orEstimate(levels.Fosforo, phosphorusBase+q/200),
	}
}

func orEstimate(v *float64, estimate float64) float64 {
	if v != nil {
		return *v
	}
	return estimate
}

// Analyze computes the full analysis block for a record
func Analyze(p *domain.RawProduct) domain.Analysis {
	quality := CalculateQuality(p)
	analysis := GenerateNutritionalAnalysis(p, quality)
	analysis.Qualidade = quality
	analysis.CustoBeneficio = CalculateCostBenefit(p, quality)
	return analysis
}
