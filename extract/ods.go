// CLAUDE:SUMMARY ODS extractor parsing content.xml tables into the markdown sheet renderer.
package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// odsMaxRepeat caps number-*-repeated attributes. Sheets routinely declare
// thousands of repeated empty trailing rows and columns; past this cap they
// carry no content worth rendering.
const odsMaxRepeat = 256

// extractODS renders an OpenDocument spreadsheet to markdown. An unopenable
// ZIP container is a hard error; a readable archive with a missing or
// malformed content.xml degrades to an empty successful result.
func (e *Extractor) extractODS(data []byte, filename string) (Result, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, fmt.Errorf("open ods container: %w", err)
	}

	tables, err := odsTables(r)
	if err != nil {
		return e.softFail(filename, "ods", "content.xml unreadable", err)
	}
	return finalize(renderSheets(tables), false), nil
}

// odsTables walks content.xml token-wise. Covered cells left behind by
// merges are real elements in the document and become empty grid positions,
// so column indices stay aligned; the spans recorded here overwrite them
// with continuation marks at render time.
func odsTables(r *zip.Reader) ([]sheetTable, error) {
	f, err := findZipEntry(r, "content.xml")
	if err != nil {
		return nil, err
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	dec := xml.NewDecoder(rc)
	var (
		tables []sheetTable
		cur    *sheetTable
		row    []string
		rowIdx int
		rowRep int
		depth  int
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth > maxXMLDepth {
				return nil, fmt.Errorf("xml nesting exceeds %d", maxXMLDepth)
			}
			switch t.Name.Local {
			case "table":
				tables = append(tables, sheetTable{Name: odsAttr(t, "name")})
				cur = &tables[len(tables)-1]
				rowIdx = 0
			case "table-row":
				row = nil
				rowRep = odsRepeat(t, "number-rows-repeated")
			case "table-cell":
				if cur == nil {
					continue
				}
				rep := odsRepeat(t, "number-columns-repeated")
				rowSpan := odsRepeat(t, "number-rows-spanned")
				colSpan := odsRepeat(t, "number-columns-spanned")
				text, err := odsCellText(dec)
				if err != nil {
					return nil, err
				}
				depth--
				if rowSpan > 1 {
					cur.Merges = append(cur.Merges, mergeSpan{
						Row: rowIdx, Col: len(row), RowSpan: rowSpan, ColSpan: colSpan,
					})
				}
				for i := 0; i < rep; i++ {
					row = append(row, text)
				}
			case "covered-table-cell":
				rep := odsRepeat(t, "number-columns-repeated")
				if err := dec.Skip(); err != nil {
					return nil, err
				}
				depth--
				for i := 0; i < rep; i++ {
					row = append(row, "")
				}
			}
		case xml.EndElement:
			depth--
			if t.Name.Local == "table-row" && cur != nil {
				for i := 0; i < rowRep; i++ {
					cur.Rows = append(cur.Rows, append([]string(nil), row...))
					rowIdx++
				}
			}
		}
	}
	return tables, nil
}

// odsCellText consumes the cell element and gathers its paragraph text.
func odsCellText(dec *xml.Decoder) (string, error) {
	var sb strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth > maxXMLDepth {
				return "", fmt.Errorf("xml nesting exceeds %d", maxXMLDepth)
			}
			if (t.Name.Local == "p" || t.Name.Local == "h") && sb.Len() > 0 {
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			depth--
		case xml.CharData:
			sb.Write(t)
		}
	}
	return sb.String(), nil
}

func odsAttr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// odsRepeat reads a count attribute, defaulting to 1 and capping at
// odsMaxRepeat.
func odsRepeat(el xml.StartElement, local string) int {
	v := odsAttr(el, local)
	if v == "" {
		return 1
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 1
	}
	if n > odsMaxRepeat {
		return odsMaxRepeat
	}
	return n
}

func findZipEntry(r *zip.Reader, name string) (*zip.File, error) {
	for _, f := range r.File {
		if f.Name == name {
			return f, nil
		}
	}
	return nil, fmt.Errorf("entry %s not found", name)
}
