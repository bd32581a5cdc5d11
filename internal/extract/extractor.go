// Package extract talks to the generative-AI collaborator that pulls
// (processo, foro) pairs out of legal documents.
package extract

import (
	"context"
	"strings"

	"github.com/brunomdrs/processo-extractor/internal/models"
)

// Extractor is the extraction collaborator contract. Both modes return an
// empty slice, never an error, for content without structured matches, and
// restrict results to the filter list when one is supplied.
type Extractor interface {
	// ExtractFromText operates on raw extracted text.
	ExtractFromText(ctx context.Context, text string, filter []string) ([]models.LegalProcess, error)

	// ExtractFromPayload operates on rendered visual content (an image or a
	// whole PDF) identified by its MIME type.
	ExtractFromPayload(ctx context.Context, payload []byte, mimeType string, filter []string) ([]models.LegalProcess, error)
}

// ParseFilter splits a comma- or newline-separated list of case numbers into
// a clean slice. Blank entries are dropped; an all-blank input yields nil.
func ParseFilter(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r' || r == ';'
	})
	var out []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// ApplyFilter keeps only processes whose processo is in the filter list.
// An empty filter keeps everything. Used to enforce the restriction contract
// regardless of how well the model followed the prompt.
func ApplyFilter(processes []models.LegalProcess, filter []string) []models.LegalProcess {
	if len(filter) == 0 {
		return processes
	}
	allowed := make(map[string]struct{}, len(filter))
	for _, f := range filter {
		allowed[f] = struct{}{}
	}
	out := make([]models.LegalProcess, 0, len(processes))
	for _, p := range processes {
		if _, ok := allowed[p.Processo]; ok {
			out = append(out, p)
		}
	}
	return out
}
