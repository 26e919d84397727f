// CLAUDE:SUMMARY Legacy binary .doc recovery: soffice, container parse, OLE2 streams, ASCII salvage.
package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/richardlehane/mscfb"
	"golang.org/x/text/encoding/charmap"
)

// docStrategy is one recovery attempt in the ordered .doc fallback chain.
type docStrategy struct {
	name string
	run  func(ctx context.Context, data []byte) (string, error)
}

// extractDoc recovers text from a legacy binary .doc file. Strategies are
// tried in order and the first output passing the readability check wins.
// Approximate recovery is expected here; if every strategy fails the check
// the document yields an empty successful result, never an error.
func (e *Extractor) extractDoc(ctx context.Context, data []byte, filename string) (Result, error) {
	strategies := []docStrategy{
		{"soffice", e.sofficeConvert},
		{"docx-container", docxContainer},
		{"ole2-streams", ole2WordText},
		{"ascii-salvage", asciiSalvage},
	}

	for _, s := range strategies {
		text, err := s.run(ctx, data)
		if err != nil {
			e.logger.Debug("doc recovery strategy failed", "file", filename, "strategy", s.name, "error", err)
			continue
		}
		if Readable(text) {
			e.logger.Debug("doc recovery strategy succeeded", "file", filename, "strategy", s.name)
			return finalize(text, false), nil
		}
		e.logger.Debug("doc recovery output failed readability check", "file", filename, "strategy", s.name)
	}

	return e.softFail(filename, "doc", "all recovery strategies failed the readability check", nil)
}

// sofficeConvert converts the document to text through a headless office
// suite. Subprocess on purpose: the legacy import filters are native code
// that must not crash or hang this process.
func (e *Extractor) sofficeConvert(ctx context.Context, data []byte) (string, error) {
	dir, err := os.MkdirTemp("", "docmill-doc-*")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "input.doc")
	if err := os.WriteFile(in, data, 0o600); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.ConvertTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.cfg.SofficePath,
		"--headless", "--convert-to", "txt:Text", "--outdir", dir, in)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("soffice: %w (%s)", err, bytes.TrimSpace(stderr.Bytes()))
	}

	out, err := os.ReadFile(filepath.Join(dir, "input.txt"))
	if err != nil {
		return "", fmt.Errorf("soffice output missing: %w", err)
	}
	return string(out), nil
}

// docxContainer tries the DOCX ZIP parser directly against the .doc bytes.
// Hybrid files with a misleading extension sometimes open this way.
func docxContainer(_ context.Context, data []byte) (string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("not a zip container: %w", err)
	}
	return docxText(r)
}

// wordStreams are the OLE2 stream names that carry Word document text.
var wordStreams = map[string]bool{
	"WordDocument": true,
	"0Table":       true,
	"1Table":       true,
}

// maxStreamBytes caps how much of one OLE2 stream is read during recovery.
const maxStreamBytes = 8 << 20

// ole2WordText opens the compound document and decodes UTF-16LE runs from
// the Word text streams. This is stream-level salvage, not a WordDocument
// structure parse: it recovers prose, not layout.
func ole2WordText(_ context.Context, data []byte) (string, error) {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open ole2: %w", err)
	}

	var sb strings.Builder
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if !wordStreams[entry.Name] {
			continue
		}
		raw, err := io.ReadAll(io.LimitReader(entry, maxStreamBytes))
		if err != nil || len(raw) == 0 {
			continue
		}
		if text := utf16Runs(raw, 4); text != "" {
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(text)
		}
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("no word streams with decodable text")
	}
	return sb.String(), nil
}

// utf16Runs decodes little-endian UTF-16 and keeps printable runs of at
// least minRun characters.
func utf16Runs(b []byte, minRun int) string {
	var sb strings.Builder
	var run []uint16

	flush := func() {
		if len(run) >= minRun {
			s := strings.TrimSpace(string(utf16.Decode(run)))
			if s != "" {
				if sb.Len() > 0 {
					sb.WriteByte('\n')
				}
				sb.WriteString(s)
			}
		}
		run = run[:0]
	}

	for i := 0; i+1 < len(b); i += 2 {
		u := uint16(b[i]) | uint16(b[i+1])<<8
		r := rune(u)
		if u != 0 && u < 0xD800 && (unicode.IsPrint(r) || r == ' ' || r == '\t' || r == '\n') {
			run = append(run, u)
			continue
		}
		flush()
	}
	flush()
	return sb.String()
}

// salvageCodepages are tried in order when decoding raw .doc bytes.
var salvageCodepages = []*charmap.Charmap{
	charmap.Windows1252,
	charmap.CodePage850,
	charmap.ISO8859_15,
}

// printableRunRe matches spans of printable Latin text at least 4 chars long.
var printableRunRe = regexp.MustCompile(`[\x20-\x7EÀ-ÖØ-öø-ÿ]{4,}`)

// asciiSalvage is the last-resort strategy: decode the raw bytes through
// legacy code pages and keep printable spans. The caller's readability
// check is the only thing standing between this and garbage, which is why
// each candidate is pre-checked here too.
func asciiSalvage(_ context.Context, data []byte) (string, error) {
	for _, cm := range salvageCodepages {
		decoded, err := cm.NewDecoder().Bytes(data)
		if err != nil {
			continue
		}
		spans := printableRunRe.FindAllString(string(decoded), -1)
		text := strings.Join(spans, " ")
		if Readable(text) {
			return text, nil
		}
	}

	// Plain ASCII spans as the final candidate; the chain re-checks it.
	spans := printableRunRe.FindAllString(strings.ToValidUTF8(string(data), ""), -1)
	return strings.Join(spans, " "), nil
}
