// CLAUDE:SUMMARY Magic-byte format sniffer with ZIP and OLE2 container disambiguation.
// Package sniff classifies raw document bytes into a concrete format tag.
//
// Detection is pure and total: it never does I/O, never panics on malformed
// input, and always returns a tag. The first bytes are matched against an
// ordered magic-byte table; container formats (ZIP-based Office/OpenDocument,
// OLE2 compound documents) are then disambiguated by inspecting a bounded
// amount of content. Anything unrecognised is FormatUnknown, which the
// extractors refuse rather than guess at.
package sniff

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Format identifies a document type.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDocx Format = "docx"
	FormatXlsx Format = "xlsx"
	FormatPptx Format = "pptx"
	FormatODT  Format = "odt"
	FormatODS  Format = "ods"
	FormatODP  Format = "odp"
	FormatDoc  Format = "doc"
	FormatXls  Format = "xls"
	FormatPpt  Format = "ppt"
	FormatMsg  Format = "msg"
	FormatPNG  Format = "png"
	FormatJPG  Format = "jpg"
	FormatGIF  Format = "gif"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
	FormatTxt  Format = "txt"
	FormatZip  Format = "zip"
	FormatRar  Format = "rar"
	FormatGzip Format = "gz"

	FormatUnknown Format = "unknown"
)

// IsImage reports whether f is a raster image format.
func (f Format) IsImage() bool {
	switch f {
	case FormatPNG, FormatJPG, FormatGIF, FormatBMP, FormatTIFF:
		return true
	}
	return false
}

// signature maps a byte prefix to a format tag. The table is ordered:
// longer, more specific prefixes come first so that short prefixes cannot
// shadow them.
type signature struct {
	prefix []byte
	format Format
}

// sigZip and sigOle2 are sentinel tags resolved by container inspection.
const (
	sigZip  Format = "zip-container"
	sigOle2 Format = "ole2-container"
)

var signatures = []signature{
	{[]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, sigOle2},
	{[]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}, FormatPNG},
	{[]byte("GIF87a"), FormatGIF},
	{[]byte("GIF89a"), FormatGIF},
	{[]byte("Rar!\x1a\x07"), FormatRar},
	{[]byte("%PDF"), FormatPDF},
	{[]byte("PK\x03\x04"), sigZip},
	{[]byte("PK\x05\x06"), sigZip},
	{[]byte("PK\x07\x08"), sigZip},
	{[]byte{0xFF, 0xD8, 0xFF}, FormatJPG},
	{[]byte("II*\x00"), FormatTIFF},
	{[]byte("MM\x00*"), FormatTIFF},
	{[]byte{0xEF, 0xBB, 0xBF}, FormatTxt}, // UTF-8 BOM
	{[]byte{0xFF, 0xFE}, FormatTxt},       // UTF-16 LE BOM
	{[]byte{0xFE, 0xFF}, FormatTxt},       // UTF-16 BE BOM
	{[]byte{0x1F, 0x8B}, FormatGzip},
	{[]byte("BM"), FormatBMP},
}

// Detect classifies data into a format tag. The filename is used only as a
// disambiguation hint for OLE2 compound documents (.msg/.xls/.doc/.ppt); it
// is never trusted over the byte content.
func Detect(data []byte, filename string) Format {
	for _, sig := range signatures {
		if bytes.HasPrefix(data, sig.prefix) {
			switch sig.format {
			case sigZip:
				return detectZip(data)
			case sigOle2:
				return detectOle2(data, filename)
			default:
				return sig.format
			}
		}
	}
	if looksLikeText(data) {
		return FormatTxt
	}
	return FormatUnknown
}

// officeEntries maps a ZIP entry name to the Office Open XML subtype, in
// priority order.
var officeEntries = []struct {
	name   string
	format Format
}{
	{"word/document.xml", FormatDocx},
	{"xl/workbook.xml", FormatXlsx},
	{"ppt/presentation.xml", FormatPptx},
}

// odfMimetypes maps the OpenDocument mimetype entry content to a subtype.
var odfMimetypes = map[string]Format{
	"application/vnd.oasis.opendocument.text":         FormatODT,
	"application/vnd.oasis.opendocument.spreadsheet":  FormatODS,
	"application/vnd.oasis.opendocument.presentation": FormatODP,
}

// detectZip resolves a ZIP-based container to its Office or OpenDocument
// subtype by listing the central directory. Entries are never decompressed
// except the tiny OpenDocument mimetype entry. A corrupt or partial archive
// degrades to the generic zip tag.
func detectZip(data []byte) Format {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return FormatZip
	}

	names := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		names[f.Name] = f
	}

	for _, e := range officeEntries {
		if _, ok := names[e.name]; ok {
			return e.format
		}
	}

	if mt, ok := names["mimetype"]; ok {
		if format, ok := odfMimetypes[readZipEntry(mt, 256)]; ok {
			return format
		}
	}
	if _, ok := names["META-INF/manifest.xml"]; ok {
		// OpenDocument without a readable mimetype entry; text is the
		// overwhelmingly common case.
		return FormatODT
	}

	return FormatZip
}

// readZipEntry reads at most limit bytes of a ZIP entry, returning "" on
// any failure.
func readZipEntry(f *zip.File, limit int64) string {
	rc, err := f.Open()
	if err != nil {
		return ""
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, limit))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// ole2Extensions is the fast path for OLE2 subtype resolution: when the
// filename carries one of these extensions, trust it and skip the scorer.
var ole2Extensions = map[string]Format{
	".msg": FormatMsg,
	".xls": FormatXls,
	".doc": FormatDoc,
	".ppt": FormatPpt,
	".db":  FormatUnknown, // thumbs.db and friends carry no document text
}

// detectOle2 resolves the concrete subtype of an OLE2 compound document.
func detectOle2(data []byte, filename string) Format {
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" {
		if format, ok := ole2Extensions[ext]; ok {
			return format
		}
	}
	return scoreOle2(data, defaultScorerWeights)
}

// looksLikeText reports whether data is plausibly plain text: valid UTF-8
// over a bounded prefix with almost no control characters.
func looksLikeText(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	sample := data
	if len(sample) > 512 {
		// Avoid slicing through a multi-byte rune at the boundary.
		sample = sample[:512]
		for len(sample) > 0 && !utf8.Valid(sample) {
			sample = sample[:len(sample)-1]
		}
	}
	if !utf8.Valid(sample) {
		return false
	}
	total, printable := 0, 0
	for _, r := range string(sample) {
		total++
		if unicode.IsPrint(r) || r == '\n' || r == '\r' || r == '\t' {
			printable++
		}
	}
	return total > 0 && float64(printable)/float64(total) >= 0.95
}
