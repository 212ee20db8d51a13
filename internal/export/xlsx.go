package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/neerchitra/neerchitra-cli/internal/model"
)

// WriteXLSX writes the ranked queue to a single-sheet workbook with a bold
// header row, columns in Header order.
func WriteXLSX(path string, ranked []model.ScoredLake) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Rankings")
	if err != nil {
		return eris.Wrap(err, "export: add xlsx sheet")
	}

	headerStyle := xlsx.NewStyle()
	headerStyle.Font.Bold = true
	headerStyle.ApplyFont = true

	hr := sheet.AddRow()
	for _, col := range Header {
		cell := hr.AddCell()
		cell.Value = col
		cell.SetStyle(headerStyle)
	}

	for i, l := range ranked {
		row := sheet.AddRow()
		for _, v := range Row(i+1, l) {
			row.AddCell().Value = v
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save xlsx %s", path)
	}
	return nil
}
