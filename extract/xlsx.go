// CLAUDE:SUMMARY XLSX extractor rendering worksheets to markdown via excelize.
package extract

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// extractXlsx renders every worksheet of an OOXML workbook to markdown.
// An unopenable container is a hard error; a sheet that fails to read is
// skipped with a warning so the rest of the workbook still comes through.
func (e *Extractor) extractXlsx(data []byte, filename string) (Result, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("open xlsx container: %w", err)
	}
	defer f.Close()

	var tables []sheetTable
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			e.logger.Warn("xlsx sheet unreadable, skipping", "file", filename, "sheet", name, "error", err)
			continue
		}
		tables = append(tables, sheetTable{
			Name:   name,
			Rows:   rows,
			Merges: xlsxMerges(f, name),
		})
	}
	return finalize(renderSheets(tables), false), nil
}

// xlsxMerges converts the sheet's merged ranges to 0-based spans. Ranges
// with unparsable axes are dropped, not fatal.
func xlsxMerges(f *excelize.File, sheet string) []mergeSpan {
	cells, err := f.GetMergeCells(sheet)
	if err != nil {
		return nil
	}

	var out []mergeSpan
	for _, mc := range cells {
		sc, sr, err1 := excelize.CellNameToCoordinates(mc.GetStartAxis())
		ec, er, err2 := excelize.CellNameToCoordinates(mc.GetEndAxis())
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, mergeSpan{
			Row:     sr - 1,
			Col:     sc - 1,
			RowSpan: er - sr + 1,
			ColSpan: ec - sc + 1,
		})
	}
	return out
}
