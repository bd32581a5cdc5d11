package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSX renders the report as a single-sheet workbook with one row per
// (foro, processo) pair, in result order.
func (s *Service) XLSX(r Report) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Processos"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"Foro", "Processo"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, foro := range r.Results.Foros() {
		for _, processo := range r.Results.Processos(foro) {
			cell, _ := excelize.CoordinatesToCellName(1, row)
			_ = f.SetCellValue(sheet, cell, foro)
			cell, _ = excelize.CoordinatesToCellName(2, row)
			_ = f.SetCellValue(sheet, cell, processo)
			row++
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 30)
	_ = f.SetColWidth(sheet, "B", "B", 32)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
