// Package xlsx serializes an export grid to a binary spreadsheet.
package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/compspread/comps-backend/internal/comps"
)

const SheetName = "Comps"

// Write renders the grid to .xlsx bytes: header row, body rows, trailing
// median row. Numeric cells are written as numbers so spreadsheet formulas
// keep working; text and blank cells stay text.
func Write(grid comps.ExportGrid) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", SheetName)

	for col, label := range grid.Header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("xlsx: header cell: %w", err)
		}
		if err := f.SetCellValue(SheetName, cell, label); err != nil {
			return nil, fmt.Errorf("xlsx: set header: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(grid.Header), 1)
		f.SetCellStyle(SheetName, "A1", last, headerStyle)
	}

	for i, row := range grid.Rows {
		for col, c := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("xlsx: body cell: %w", err)
			}
			if c.IsNumber() {
				err = f.SetCellValue(SheetName, cell, *c.Number)
			} else if c.Text != "" {
				err = f.SetCellValue(SheetName, cell, c.Text)
			}
			if err != nil {
				return nil, fmt.Errorf("xlsx: set cell %s: %w", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: write: %w", err)
	}
	return buf.Bytes(), nil
}
