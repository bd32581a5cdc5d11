// Package aggregate folds flat extraction results into per-venue groups.
package aggregate

import "github.com/brunomdrs/processo-extractor/internal/models"

// Group builds a GroupedProcesses mapping from a flat sequence of
// (foro, processo) pairs. Foro order is first occurrence, processos keep
// their input order, duplicates are kept. An empty input yields an empty,
// non-nil mapping.
func Group(processes []models.LegalProcess) *models.GroupedProcesses {
	grouped := models.NewGroupedProcesses()
	for _, p := range processes {
		grouped.Append(p.Foro, p.Processo)
	}
	return grouped
}
