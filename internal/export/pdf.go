package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// PDF renders the paginated report: title and timestamp header, then one
// block per venue with a bold header line. Page breaks are automatic.
func (s *Service) PDF(r Report) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(true, 15)
	doc.AddPage()

	// core fonts are cp1252, the translator covers the accented venue names
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 8, tr("Relatório de Processos - "+r.Name), "", 1, "L", false, 0, "")

	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 6, "Gerado em: "+r.Timestamp.Format(timestampLayout), "", 1, "L", false, 0, "")
	doc.Ln(4)

	for _, foro := range r.Results.Foros() {
		doc.SetFont("Helvetica", "B", 12)
		doc.CellFormat(0, 7, tr("FORO: "+foro), "", 1, "L", false, 0, "")

		doc.SetFont("Helvetica", "", 11)
		for _, processo := range r.Results.Processos(foro) {
			doc.CellFormat(0, 6, tr("  - "+processo), "", 1, "L", false, 0, "")
		}
		doc.Ln(3)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf render: %w", err)
	}
	return buf.Bytes(), nil
}
