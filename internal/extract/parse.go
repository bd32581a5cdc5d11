package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/brunomdrs/processo-extractor/internal/models"
)

// DecodeProcesses parses the model's response into LegalProcess records.
// The model is asked for a bare JSON array, but responses occasionally come
// wrapped in markdown fences or with leading prose, so we cut out the
// outermost array before unmarshalling. Records without a processo are
// dropped, values are whitespace-trimmed.
func DecodeProcesses(raw string) ([]models.LegalProcess, error) {
	cleaned := stripFences(raw)

	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array in model response")
	}

	var procs []models.LegalProcess
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &procs); err != nil {
		return nil, fmt.Errorf("failed to decode model response: %w", err)
	}

	out := make([]models.LegalProcess, 0, len(procs))
	for _, p := range procs {
		p.Processo = strings.TrimSpace(p.Processo)
		p.Foro = strings.TrimSpace(p.Foro)
		if p.Processo == "" {
			continue
		}
		if p.Foro == "" {
			p.Foro = "Não identificado"
		}
		out = append(out, p)
	}
	return out, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
