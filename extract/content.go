// CLAUDE:SUMMARY PDF content-stream parser producing positioned text runs and vector drawings.
package extract

import (
	"sort"
	"strconv"
	"strings"
)

// textRun is one shown string with its text-space position.
type textRun struct {
	x, y float64
	text string
}

// rectShape is a rectangle appended to the current path by the re operator.
type rectShape struct {
	w, h float64
}

// drawing is one painted path: its bounding box, the rectangles it
// contains, and how many straight line segments it draws.
type drawing struct {
	x0, y0, x1, y1 float64
	rects          []rectShape
	segments       int
	empty          bool
}

func (d *drawing) centroid() (float64, float64) {
	return (d.x0 + d.x1) / 2, (d.y0 + d.y1) / 2
}

func (d *drawing) extend(x, y float64) {
	if d.empty {
		d.x0, d.y0, d.x1, d.y1 = x, y, x, y
		d.empty = false
		return
	}
	if x < d.x0 {
		d.x0 = x
	}
	if x > d.x1 {
		d.x1 = x
	}
	if y < d.y0 {
		d.y0 = y
	}
	if y > d.y1 {
		d.y1 = y
	}
}

// operand is a number or string pushed before an operator.
type operand struct {
	num   float64
	str   string
	isNum bool
	isStr bool
}

// parseContentStream walks a decoded page content stream and returns the
// positioned text runs and the painted vector drawings. It understands the
// small operator subset the pipeline needs (text positioning and showing,
// path construction and painting); everything else is skipped. It never
// fails: malformed input just yields fewer items.
func parseContentStream(data []byte) ([]textRun, []drawing) {
	var (
		runs     []textRun
		drawings []drawing

		ops []operand

		tx, ty  float64 // text position
		leading = 12.0

		path         = drawing{empty: true}
		lastX, lastY float64
	)

	flushPath := func() {
		if len(path.rects) > 0 || path.segments > 0 {
			drawings = append(drawings, path)
		}
		path = drawing{empty: true}
	}

	nums := func(n int) []float64 {
		// last n numeric operands, zero-padded on underflow
		out := make([]float64, n)
		j := n - 1
		for i := len(ops) - 1; i >= 0 && j >= 0; i-- {
			if ops[i].isNum {
				out[j] = ops[i].num
				j--
			}
		}
		return out
	}

	showText := func() {
		var sb strings.Builder
		for _, op := range ops {
			if op.isStr {
				sb.WriteString(op.str)
			}
		}
		if sb.Len() > 0 {
			runs = append(runs, textRun{x: tx, y: ty, text: sb.String()})
		}
	}

	i := 0
	for i < len(data) {
		c := data[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '[' || c == ']':
			i++

		case c == '%':
			for i < len(data) && data[i] != '\n' {
				i++
			}

		case c == '(':
			raw, next := scanPDFString(data, i)
			ops = append(ops, operand{str: decodePDFString(raw), isStr: true})
			i = next

		case c == '<' && i+1 < len(data) && data[i+1] == '<':
			i = skipPDFDict(data, i)

		case c == '<':
			hex, next := scanHexString(data, i)
			ops = append(ops, operand{str: hex, isStr: true})
			i = next

		case c == '/':
			i++
			for i < len(data) && !isPDFDelim(data[i]) {
				i++
			}

		case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
			start := i
			i++
			for i < len(data) && (data[i] == '.' || data[i] == '-' || (data[i] >= '0' && data[i] <= '9')) {
				i++
			}
			if v, err := strconv.ParseFloat(string(data[start:i]), 64); err == nil {
				ops = append(ops, operand{num: v, isNum: true})
			}

		default:
			start := i
			for i < len(data) && !isPDFDelim(data[i]) {
				i++
			}
			op := string(data[start:i])

			switch op {
			// text state
			case "BT":
				tx, ty = 0, 0
			case "Tm":
				m := nums(6)
				tx, ty = m[4], m[5]
			case "Td":
				m := nums(2)
				tx += m[0]
				ty += m[1]
			case "TD":
				m := nums(2)
				leading = -m[1]
				tx += m[0]
				ty += m[1]
			case "TL":
				leading = nums(1)[0]
			case "T*":
				ty -= leading
			case "Tj", "TJ", "'", "\"":
				if op == "'" || op == "\"" {
					ty -= leading
				}
				showText()

			// path construction
			case "re":
				m := nums(4)
				x, y, w, h := m[0], m[1], m[2], m[3]
				path.rects = append(path.rects, rectShape{w: w, h: h})
				path.extend(x, y)
				path.extend(x+w, y+h)
			case "m":
				m := nums(2)
				lastX, lastY = m[0], m[1]
			case "l":
				m := nums(2)
				path.extend(lastX, lastY)
				path.extend(m[0], m[1])
				path.segments++
				lastX, lastY = m[0], m[1]
			case "c":
				m := nums(6)
				path.extend(lastX, lastY)
				path.extend(m[4], m[5])
				lastX, lastY = m[4], m[5]
			case "v", "y":
				m := nums(4)
				path.extend(lastX, lastY)
				path.extend(m[2], m[3])
				lastX, lastY = m[2], m[3]

			// path painting
			case "S", "s", "f", "F", "f*", "B", "B*", "b", "b*", "n":
				flushPath()
			}

			ops = ops[:0]
		}
	}
	flushPath()

	return runs, drawings
}

func isPDFDelim(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// scanPDFString reads a parenthesised string literal starting at i,
// honouring escapes and balanced nested parentheses. It returns the raw
// inner bytes and the index just past the closing parenthesis.
func scanPDFString(data []byte, i int) ([]byte, int) {
	i++ // consume '('
	start := i
	depth := 1
	for i < len(data) {
		switch data[i] {
		case '\\':
			i++ // skip escaped byte
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return data[start:i], i + 1
			}
		}
		i++
	}
	return data[start:], i
}

// scanHexString reads a <hex> string starting at i.
func scanHexString(data []byte, i int) (string, int) {
	i++ // consume '<'
	start := i
	for i < len(data) && data[i] != '>' {
		i++
	}
	hex := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
			return -1
		}
		return r
	}, string(data[start:i]))
	if i < len(data) {
		i++ // consume '>'
	}

	var sb strings.Builder
	for j := 0; j+1 < len(hex); j += 2 {
		hi, err1 := strconv.ParseUint(hex[j:j+2], 16, 8)
		if err1 != nil {
			continue
		}
		b := byte(hi)
		if b >= 0x20 && b < 0x7F {
			sb.WriteByte(b)
		}
	}
	return sb.String(), i
}

// skipPDFDict skips a << ... >> dictionary, balanced.
func skipPDFDict(data []byte, i int) int {
	depth := 0
	for i < len(data) {
		if i+1 < len(data) && data[i] == '<' && data[i+1] == '<' {
			depth++
			i += 2
			continue
		}
		if i+1 < len(data) && data[i] == '>' && data[i+1] == '>' {
			depth--
			i += 2
			if depth == 0 {
				return i
			}
			continue
		}
		i++
	}
	return i
}

// decodePDFString handles the basic PDF string escape sequences.
func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			i++
			switch raw[i] {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case '\\':
				sb.WriteByte('\\')
			case '(':
				sb.WriteByte('(')
			case ')':
				sb.WriteByte(')')
			default:
				// Octal escape (e.g. \050).
				if raw[i] >= '0' && raw[i] <= '7' {
					val := int(raw[i] - '0')
					if i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7' {
						i++
						val = val*8 + int(raw[i]-'0')
						if i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7' {
							i++
							val = val*8 + int(raw[i]-'0')
						}
					}
					sb.WriteByte(byte(val))
				} else {
					sb.WriteByte(raw[i])
				}
			}
		} else {
			sb.WriteByte(raw[i])
		}
	}
	return sb.String()
}

// pageItem is a positioned piece of page text (a run or a checkbox marker).
type pageItem struct {
	x, y float64
	text string
}

// rowTolerance groups items whose baselines differ by less than this many
// units into the same output line.
const rowTolerance = 3.0

// assemblePage orders runs and markers into reading order (top to bottom,
// left to right) and joins them into page text.
func assemblePage(runs []textRun, markers []marker) string {
	items := make([]pageItem, 0, len(runs)+len(markers))
	for _, r := range runs {
		t := strings.TrimSpace(r.text)
		if t != "" {
			items = append(items, pageItem{x: r.x, y: r.y, text: t})
		}
	}
	for _, m := range markers {
		items = append(items, pageItem{x: m.x, y: m.y, text: m.glyph})
	}
	if len(items) == 0 {
		return ""
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].y > items[j].y
	})

	var rows [][]pageItem
	rowY := items[0].y
	row := []pageItem{items[0]}
	for _, it := range items[1:] {
		if rowY-it.y > rowTolerance {
			rows = append(rows, row)
			row = nil
			rowY = it.y
		}
		row = append(row, it)
	}
	rows = append(rows, row)

	var sb strings.Builder
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool { return row[i].x < row[j].x })
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		for i, it := range row {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(it.text)
		}
	}
	return sb.String()
}
