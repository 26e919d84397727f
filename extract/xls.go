// CLAUDE:SUMMARY Legacy BIFF .xls extractor rendering worksheets to markdown.
package extract

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"
)

// extractXls renders a legacy BIFF workbook to markdown. The BIFF reader
// addresses rows and columns 0-based, which is also the grid's convention,
// so values map straight through. Merge metadata is not exposed by the
// legacy format reader; these sheets render without continuation marks.
func (e *Extractor) extractXls(data []byte, filename string) (Result, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return Result{}, fmt.Errorf("open xls container: %w", err)
	}

	var tables []sheetTable
	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		tables = append(tables, sheetTable{Name: sheet.Name, Rows: xlsRows(sheet)})
	}

	if len(tables) == 0 {
		return e.softFail(filename, "xls", "workbook contains no readable sheets", nil)
	}
	return finalize(renderSheets(tables), false), nil
}

// xlsRows copies a sparse BIFF sheet into a dense grid. Absent rows become
// empty rows and columns before FirstCol are padded so indices line up.
func xlsRows(sheet *xls.WorkSheet) [][]string {
	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for r := 0; r <= int(sheet.MaxRow); r++ {
		row := sheet.Row(r)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for c := 0; c < row.FirstCol(); c++ {
			cells = append(cells, "")
		}
		for c := row.FirstCol(); c < row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		rows = append(rows, cells)
	}
	return rows
}
