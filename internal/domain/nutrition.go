package domain

// Analysis is the derived block persisted under "analise".
// Nutrient values are percentages of the product as sold.
type Analysis struct {
	Proteina float64 `json:"proteina"`
	Gordura  float64 `json:"gordura"`
	Fibra    float64 `json:"fibra"`
	Umidade  float64 `json:"umidade"`
	Calcio   float64 `json:"calcio"`
	Fosforo  float64 `json:"fosforo"`

	Qualidade      int     `json:"qualidade"`      // 0-100
	CustoBeneficio float64 `json:"custobeneficio"` // 0-100
}

// GuaranteedLevels holds nutrient percentages read from the especificacoes table.
// A nil field means the value was not present or not parseable.
type GuaranteedLevels struct {
	Proteina *float64
	Gordura  *float64
	Fibra    *float64
	Umidade  *float64
	Calcio   *float64
	Fosforo  *float64
}

// Missing lists the nutrients that were not found, in analysis order
func (l GuaranteedLevels) Missing() []string {
	var missing []string
	for _, n := range []struct {
		name  string
		value *float64
	}{
		{"proteina", l.Proteina},
		{"gordura", l.Gordura},
		{"fibra", l.Fibra},
		{"umidade", l.Umidade},
		{"calcio", l.Calcio},
		{"fosforo", l.Fosforo},
	} {
		if n.value == nil {
			missing = append(missing, n.name)
		}
	}
	return missing
}
