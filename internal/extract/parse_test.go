package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brunomdrs/processo-extractor/internal/models"
)

func TestDecodeProcesses(t *testing.T) {
	raw := `[{"processo":"0001111-22.2023.8.26.0291","foro":"Jaboticabal"},
	         {"processo":"0002222-33.2023.8.26.0506","foro":"Ribeirão Preto"}]`

	procs, err := DecodeProcesses(raw)
	require.NoError(t, err)
	require.Len(t, procs, 2)
	assert.Equal(t, "Jaboticabal", procs[0].Foro)
	assert.Equal(t, "0002222-33.2023.8.26.0506", procs[1].Processo)
}

func TestDecodeProcessesFenced(t *testing.T) {
	raw := "```json\n[{\"processo\":\"p1\",\"foro\":\"Campinas\"}]\n```"
	procs, err := DecodeProcesses(raw)
	require.NoError(t, err)
	require.Len(t, procs, 1)
	assert.Equal(t, "Campinas", procs[0].Foro)
}

func TestDecodeProcessesLeadingProse(t *testing.T) {
	raw := "Here are the results:\n[{\"processo\":\"p1\",\"foro\":\"Santos\"}]"
	procs, err := DecodeProcesses(raw)
	require.NoError(t, err)
	require.Len(t, procs, 1)
}

func TestDecodeProcessesDropsEmptyAndTrims(t *testing.T) {
	raw := `[{"processo":"  p1  ","foro":" Bauru "},{"processo":"","foro":"x"},{"processo":"p2","foro":""}]`
	procs, err := DecodeProcesses(raw)
	require.NoError(t, err)
	require.Len(t, procs, 2)
	assert.Equal(t, "p1", procs[0].Processo)
	assert.Equal(t, "Bauru", procs[0].Foro)
	assert.Equal(t, "Não identificado", procs[1].Foro)
}

func TestDecodeProcessesEmptyArray(t *testing.T) {
	procs, err := DecodeProcesses("[]")
	require.NoError(t, err)
	assert.Empty(t, procs)
}

func TestDecodeProcessesGarbage(t *testing.T) {
	_, err := DecodeProcesses("the document has no processes")
	assert.Error(t, err)
}

func TestParseFilter(t *testing.T) {
	assert.Nil(t, ParseFilter(""))
	assert.Nil(t, ParseFilter("  \n , "))
	assert.Equal(t, []string{"p1", "p2", "p3"}, ParseFilter("p1, p2\np3"))
	assert.Equal(t, []string{"p1"}, ParseFilter("  p1  "))
}

func TestApplyFilter(t *testing.T) {
	procs := []models.LegalProcess{
		{Foro: "A", Processo: "p1"},
		{Foro: "B", Processo: "p2"},
		{Foro: "A", Processo: "p3"},
	}

	assert.Equal(t, procs, ApplyFilter(procs, nil))

	got := ApplyFilter(procs, []string{"p1", "p3"})
	require.Len(t, got, 2)
	assert.Equal(t, "p1", got[0].Processo)
	assert.Equal(t, "p3", got[1].Processo)
}
