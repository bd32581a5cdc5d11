package aggregate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brunomdrs/processo-extractor/internal/models"
)

func TestGroupPreservesOrderAndDuplicates(t *testing.T) {
	in := []models.LegalProcess{
		{Foro: "Jaboticabal", Processo: "0001111-22.2023.8.26.0291"},
		{Foro: "Ribeirão Preto", Processo: "0002222-33.2023.8.26.0506"},
		{Foro: "Jaboticabal", Processo: "0003333-44.2023.8.26.0291"},
		{Foro: "Jaboticabal", Processo: "0001111-22.2023.8.26.0291"}, // duplicate stays
	}

	got := Group(in)

	assert.Equal(t, []string{"Jaboticabal", "Ribeirão Preto"}, got.Foros())
	assert.Equal(t, []string{
		"0001111-22.2023.8.26.0291",
		"0003333-44.2023.8.26.0291",
		"0001111-22.2023.8.26.0291",
	}, got.Processos("Jaboticabal"))
	assert.Equal(t, []string{"0002222-33.2023.8.26.0506"}, got.Processos("Ribeirão Preto"))
	assert.Equal(t, 2, got.Len())
	assert.Equal(t, 4, got.TotalProcessos())
}

func TestGroupEmptyInput(t *testing.T) {
	got := Group(nil)
	require.NotNil(t, got)
	assert.True(t, got.Empty())
	assert.Empty(t, got.Foros())
}

func TestGroupedProcessesJSONRoundTrip(t *testing.T) {
	grouped := Group([]models.LegalProcess{
		{Foro: "São Paulo", Processo: "p1"},
		{Foro: "Araraquara", Processo: "p2"},
		{Foro: "São Paulo", Processo: "p3"},
	})

	data, err := json.Marshal(grouped)
	require.NoError(t, err)
	assert.JSONEq(t, `{"São Paulo":["p1","p3"],"Araraquara":["p2"]}`, string(data))

	var back models.GroupedProcesses
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []string{"São Paulo", "Araraquara"}, back.Foros())
	assert.Equal(t, []string{"p1", "p3"}, back.Processos("São Paulo"))
}

func TestGroupedProcessesUnknownForo(t *testing.T) {
	grouped := Group([]models.LegalProcess{{Foro: "Campinas", Processo: "p1"}})
	assert.Empty(t, grouped.Processos("Santos"))
}
