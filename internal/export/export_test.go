package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brunomdrs/processo-extractor/internal/models"
	"github.com/brunomdrs/processo-extractor/pkg/logger"
)

func sampleReport() Report {
	g := models.NewGroupedProcesses()
	g.Append("Jaboticabal", "0001111-22.2023.8.26.0291")
	g.Append("Jaboticabal", "0003333-44.2023.8.26.0291")
	g.Append("Ribeirão Preto", "0002222-33.2023.8.26.0506")
	return Report{
		Name:      "Peticao.pdf",
		Timestamp: time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		Results:   g,
	}
}

func TestTXTFormat(t *testing.T) {
	svc := NewService(logger.NewNop())

	got := string(svc.TXT(sampleReport()))

	want := "Relatório de Processos - Peticao.pdf\n" +
		"Gerado em: 15/03/2024 10:30\n" +
		"\n" +
		"FORO: Jaboticabal\n" +
		"  - 0001111-22.2023.8.26.0291\n" +
		"  - 0003333-44.2023.8.26.0291\n" +
		"\n" +
		"FORO: Ribeirão Preto\n" +
		"  - 0002222-33.2023.8.26.0506\n"
	assert.Equal(t, want, got)
}

func TestTXTEmptyResults(t *testing.T) {
	svc := NewService(logger.NewNop())
	r := Report{
		Name:      "Vazio.pdf",
		Timestamp: time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		Results:   models.NewGroupedProcesses(),
	}

	got := string(svc.TXT(r))
	assert.Equal(t, "Relatório de Processos - Vazio.pdf\nGerado em: 15/03/2024 10:30\n", got)
}

func TestPDFRenders(t *testing.T) {
	svc := NewService(logger.NewNop())

	data, err := svc.PDF(sampleReport())
	require.NoError(t, err)
	assert.True(t, len(data) > 0)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestXLSXRenders(t *testing.T) {
	svc := NewService(logger.NewNop())

	data, err := svc.XLSX(sampleReport())
	require.NoError(t, err)
	// xlsx files are zip archives
	assert.Equal(t, []byte{0x50, 0x4B}, data[:2])
}

func TestConsolidateMergesAcrossEntries(t *testing.T) {
	svc := NewService(logger.NewNop())

	g1 := models.NewGroupedProcesses()
	g1.Append("Jaboticabal", "p1")
	g1.Append("Ribeirão Preto", "p2")
	g2 := models.NewGroupedProcesses()
	g2.Append("Jaboticabal", "p3")
	g2.Append("Campinas", "p4")

	entries := []models.HistoryEntry{
		{ID: "1", Name: "a", Results: g1},
		{ID: "2", Name: "b", Results: g2},
	}

	report := svc.Consolidate(entries, nil)
	assert.Equal(t, []string{"Jaboticabal", "Ribeirão Preto", "Campinas"}, report.Results.Foros())
	assert.Equal(t, []string{"p1", "p3"}, report.Results.Processos("Jaboticabal"))
	assert.Equal(t, "Consolidado (2 documentos)", report.Name)
}

func TestConsolidateVenueFilter(t *testing.T) {
	svc := NewService(logger.NewNop())

	g1 := models.NewGroupedProcesses()
	g1.Append("Jaboticabal", "p1")
	g1.Append("Ribeirão Preto", "p2")

	entries := []models.HistoryEntry{{ID: "1", Name: "a", Results: g1}}

	report := svc.Consolidate(entries, []string{"Ribeirão Preto"})
	assert.Equal(t, []string{"Ribeirão Preto"}, report.Results.Foros())
	assert.Equal(t, []string{"p2"}, report.Results.Processos("Ribeirão Preto"))
}

func TestConsolidateSkipsNilResults(t *testing.T) {
	svc := NewService(logger.NewNop())

	entries := []models.HistoryEntry{{ID: "1", Name: "a"}}
	report := svc.Consolidate(entries, nil)
	assert.True(t, report.Results.Empty())
}
