// CLAUDE:SUMMARY Shared spreadsheet model and markdown rendering with merged-cell annotation.
package extract

import "strings"

// sheetTable is the normalised representation every spreadsheet reader
// produces: a name, a 0-based row/column grid, and merge spans. XLS rows
// arrive 0-based from the legacy reader, XLSX and ODS 1-based/element-order
// from theirs; all are converted to this shape before rendering.
type sheetTable struct {
	Name   string
	Rows   [][]string
	Merges []mergeSpan
}

// mergeSpan is a merged cell range with a 0-based top-left origin.
type mergeSpan struct {
	Row, Col         int
	RowSpan, ColSpan int
}

// mergeLegend explains the continuation-cell convention. It is prefixed
// exactly once to any non-empty spreadsheet rendering.
const mergeLegend = "Les cellules fusionnées verticalement sont notées `#` ; la valeur se trouve dans la cellule d'origine (en haut à gauche de la fusion)."

// mergeMark fills every cell of a vertical merge except its origin.
const mergeMark = "#"

// renderSheets renders the workbook to markdown: one ##-titled section per
// sheet, one | cell | row per line. Fully empty rows are dropped and
// trailing empty columns trimmed from the right.
func renderSheets(tables []sheetTable) string {
	var sections []string
	for _, t := range tables {
		if s := renderSheet(t); s != "" {
			sections = append(sections, s)
		}
	}
	if len(sections) == 0 {
		return ""
	}
	return mergeLegend + "\n\n" + strings.Join(sections, "\n\n")
}

func renderSheet(t sheetTable) string {
	rows := annotateMerges(t.Rows, t.Merges)

	// Drop fully empty rows.
	kept := rows[:0:0]
	for _, row := range rows {
		if !rowEmpty(row) {
			kept = append(kept, row)
		}
	}
	if len(kept) == 0 {
		return ""
	}

	// Trim trailing empty columns: width is the rightmost non-empty cell
	// across all kept rows.
	width := 0
	for _, row := range kept {
		for c := len(row) - 1; c >= 0; c-- {
			if strings.TrimSpace(row[c]) != "" {
				if c+1 > width {
					width = c + 1
				}
				break
			}
		}
	}

	var sb strings.Builder
	sb.WriteString("## ")
	sb.WriteString(t.Name)
	for _, row := range kept {
		sb.WriteString("\n|")
		for c := 0; c < width; c++ {
			cell := ""
			if c < len(row) {
				cell = strings.TrimSpace(row[c])
			}
			sb.WriteByte(' ')
			sb.WriteString(sanitizeCell(cell))
			sb.WriteString(" |")
		}
	}
	return sb.String()
}

// annotateMerges writes the continuation mark into every cell of each
// vertically merged range except its top-left origin. Rows and columns are
// grown as needed so spans beyond the sparse grid still render.
func annotateMerges(rows [][]string, merges []mergeSpan) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}

	for _, m := range merges {
		if m.RowSpan < 2 {
			continue
		}
		for r := m.Row; r < m.Row+m.RowSpan; r++ {
			for c := m.Col; c < m.Col+maxInt(m.ColSpan, 1); c++ {
				if r == m.Row && c == m.Col {
					continue
				}
				for r >= len(out) {
					out = append(out, nil)
				}
				for c >= len(out[r]) {
					out[r] = append(out[r], "")
				}
				out[r][c] = mergeMark
			}
		}
	}
	return out
}

func rowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// sanitizeCell keeps cell content on one markdown table line.
func sanitizeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "|", "\\|")
	return s
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
