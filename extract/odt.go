// CLAUDE:SUMMARY Extracts text from .odt files by parsing content.xml from the ZIP archive.
package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// extractODT parses an .odt by reading content.xml from the ZIP archive and
// concatenating all text-bearing elements in document order.
func (e *Extractor) extractODT(data []byte, filename string) (Result, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, fmt.Errorf("open odt container: %w", err)
	}

	text, err := odtText(r)
	if err != nil {
		return e.softFail(filename, "odt", "content.xml unreadable", err)
	}
	return finalize(text, false), nil
}

func odtText(r *zip.Reader) (string, error) {
	var contentFile *zip.File
	for _, f := range r.File {
		if f.Name == "content.xml" {
			contentFile = f
			break
		}
	}
	if contentFile == nil {
		return "", fmt.Errorf("content.xml not found in archive")
	}

	rc, err := contentFile.Open()
	if err != nil {
		return "", fmt.Errorf("open content.xml: %w", err)
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var sb strings.Builder
	var currentText strings.Builder
	inText := 0 // nesting count of text-bearing elements (<text:p>, <text:h>)
	depth := 0

	flush := func() {
		text := strings.TrimSpace(currentText.String())
		currentText.Reset()
		if text == "" {
			return
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(text)
	}

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth > maxXMLDepth {
				return "", fmt.Errorf("xml nesting depth exceeds %d", maxXMLDepth)
			}
			switch t.Name.Local {
			case "p", "h":
				inText++
			case "tab":
				if inText > 0 {
					currentText.WriteByte('\t')
				}
			case "line-break":
				if inText > 0 {
					currentText.WriteByte('\n')
				}
			}

		case xml.CharData:
			if inText > 0 {
				currentText.Write(t)
			}

		case xml.EndElement:
			depth--
			if t.Name.Local == "p" || t.Name.Local == "h" {
				if inText > 0 {
					inText--
					if inText == 0 {
						flush()
					}
				}
			}
		}
	}

	return sb.String(), nil
}
