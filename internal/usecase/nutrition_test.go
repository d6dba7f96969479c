package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comparador-racao/backend/internal/domain"
)

func TestExtractGuaranteedLevels(t *testing.T) {
	t.Run("reads accented keys with decimal comma", func(t *testing.T) {
		levels := ExtractGuaranteedLevels(map[string]string{
			"Proteína Bruta (mín.)":    "26,0%",
			"Matéria Gordurosa (mín.)": "14 %",
			"Matéria Fibrosa (máx.)":   "3,5%",
			"Umidade (máx.)":           "10%",
			"Cálcio (máx.)":            "1,4%",
			"Fósforo (mín.)":           "0,9%",
			"Indicação":                "Cães adultos",
		})

		require.NotNil(t, levels.Proteina)
		assert.InDelta(t, 26.0, *levels.Proteina, 1e-9)
		require.NotNil(t, levels.Gordura)
		assert.InDelta(t, 14.0, *levels.Gordura, 1e-9)
		assert.Nil(t, levels.Fibra, "\"fibrosa\" is not a fibra key")
		require.NotNil(t, levels.Umidade)
		assert.InDelta(t, 10.0, *levels.Umidade, 1e-9)
		require.NotNil(t, levels.Calcio)
		assert.InDelta(t, 1.4, *levels.Calcio, 1e-9)
		require.NotNil(t, levels.Fosforo)
		assert.InDelta(t, 0.9, *levels.Fosforo, 1e-9)
	})

	t.Run("keeps a literal zero", func(t *testing.T) {
		levels := ExtractGuaranteedLevels(map[string]string{"Fibra Bruta": "0%"})
		require.NotNil(t, levels.Fibra)
		assert.Equal(t, 0.0, *levels.Fibra)
	})

	t.Run("first key in sorted order wins", func(t *testing.T) {
		levels := ExtractGuaranteedLevels(map[string]string{
			"Fibra bruta":     "3%",
			"Fibra alimentar": "5%",
		})
		require.NotNil(t, levels.Fibra)
		assert.Equal(t, 5.0, *levels.Fibra)
	})

	t.Run("unparseable value falls through to the next key", func(t *testing.T) {
		levels := ExtractGuaranteedLevels(map[string]string{
			"Proteína A": "n/d",
			"Proteína B": "30%",
		})
		require.NotNil(t, levels.Proteina)
		assert.Equal(t, 30.0, *levels.Proteina)
	})

	t.Run("nil map", func(t *testing.T) {
		assert.Equal(t, domain.GuaranteedLevels{}, ExtractGuaranteedLevels(nil))
	})
}

func TestGenerateNutritionalAnalysis(t *testing.T) {
	t.Run("estimates missing values for cats", func(t *testing.T) {
		a := GenerateNutritionalAnalysis(&domain.RawProduct{Especie: str("Gato")}, 80)

		assert.InDelta(t, 38.0, a.Proteina, 1e-9)
		assert.InDelta(t, 14.0, a.Gordura, 1e-9)
		assert.InDelta(t, 3.8, a.Fibra, 1e-9)
		assert.InDelta(t, 10.0, a.Umidade, 1e-9)
		assert.InDelta(t, 1.6, a.Calcio, 1e-9)
		assert.InDelta(t, 1.2, a.Fosforo, 1e-9)
	})

	t.Run("uses the lower protein base for other species", func(t *testing.T) {
		dog := GenerateNutritionalAnalysis(&domain.RawProduct{Especie: str("cachorro")}, 80)
		unknown := GenerateNutritionalAnalysis(&domain.RawProduct{}, 80)

		assert.InDelta(t, 30.0, dog.Proteina, 1e-9)
		assert.InDelta(t, 30.0, unknown.Proteina, 1e-9)
	})

	t.Run("real values win over estimates", func(t *testing.T) {
		a := GenerateNutritionalAnalysis(&domain.RawProduct{
			Especie:        str("gato"),
			Especificacoes: map[string]string{"Proteína Bruta": "42%", "Umidade": "0%"},
		}, 80)

		assert.InDelta(t, 42.0, a.Proteina, 1e-9)
		assert.Equal(t, 0.0, a.Umidade)
		assert.InDelta(t, 14.0, a.Gordura, 1e-9)
	})
}

func TestAnalyze(t *testing.T) {
	a := Analyze(&domain.RawProduct{
		Nome:    str("A"),
		Marca:   str("Royal Canin"),
		Preco:   str("R$ 100,00"),
		Peso:    str("2 kg"),
		Especie: str("cachorro"),
	})

	assert.Equal(t, 75, a.Qualidade)
	// 50/kg falls in the [50, 80) band: 60 * 75/50
	assert.InDelta(t, 90.0, a.CustoBeneficio, 1e-9)
	assert.InDelta(t, 29.5, a.Proteina, 1e-9)
}
