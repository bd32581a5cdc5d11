package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/brunomdrs/processo-extractor/internal/models"
	"github.com/brunomdrs/processo-extractor/pkg/logger"
)

// Report is one exportable result set: a document (or consolidation) name,
// when it was produced and the grouped processos.
type Report struct {
	Name      string
	Timestamp time.Time
	Results   *models.GroupedProcesses
}

const timestampLayout = "02/01/2006 15:04"

// Service renders a Report into the supported artifact formats.
type Service struct {
	logger logger.Logger
}

func NewService(log logger.Logger) *Service {
	return &Service{logger: log}
}

// TXT renders the plain-text report: a two-line header, then one block per
// venue in result order, blocks separated by a blank line.
func (s *Service) TXT(r Report) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "Relatório de Processos - %s\n", r.Name)
	fmt.Fprintf(&b, "Gerado em: %s\n", r.Timestamp.Format(timestampLayout))

	for _, foro := range r.Results.Foros() {
		b.WriteString("\n")
		fmt.Fprintf(&b, "FORO: %s\n", foro)
		for _, processo := range r.Results.Processos(foro) {
			fmt.Fprintf(&b, "  - %s\n", processo)
		}
	}
	return []byte(b.String())
}

// Consolidate merges the results of several history entries into a single
// report. When venues is non-empty only those venues are kept; matching is
// exact on the venue name. Venue order follows first occurrence across the
// entries in the order given.
func (s *Service) Consolidate(entries []models.HistoryEntry, venues []string) Report {
	wanted := make(map[string]bool, len(venues))
	for _, v := range venues {
		wanted[strings.TrimSpace(v)] = true
	}

	merged := models.NewGroupedProcesses()
	for _, entry := range entries {
		if entry.Results == nil {
			continue
		}
		for _, foro := range entry.Results.Foros() {
			if len(wanted) > 0 && !wanted[foro] {
				continue
			}
			for _, processo := range entry.Results.Processos(foro) {
				merged.Append(foro, processo)
			}
		}
	}

	s.logger.Info("Consolidated report built",
		logger.Int("documents", len(entries)),
		logger.Int("foros", merged.Len()),
		logger.Int("processos", merged.TotalProcessos()),
	)
	return Report{
		Name:      fmt.Sprintf("Consolidado (%d documentos)", len(entries)),
		Timestamp: time.Now(),
		Results:   merged,
	}
}
