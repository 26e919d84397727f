// CLAUDE:SUMMARY Result type, word counting, NUL stripping, and the unsupported-format error.
package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hazyhaar/docmill/sniff"
)

// Result is the outcome of extracting text from one document.
//
// WordCount always equals CountWords(Text), and Text never contains NUL
// bytes — the downstream store rejects them.
type Result struct {
	Text      string `json:"text"`
	UsedOCR   bool   `json:"used_ocr"`
	WordCount int    `json:"word_count"`
}

// ErrUnsupportedFormat marks a format tag outside the supported set.
// It is a hard error: the caller must not retry or guess further.
var ErrUnsupportedFormat = errors.New("unsupported format")

// UnsupportedFormatError carries the offending tag.
type UnsupportedFormatError struct {
	Format sniff.Format
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("extract: unsupported format %q", e.Format)
}

func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }

// CountWords counts whitespace-separated tokens.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// finalize builds a Result from raw extracted text, stripping NUL bytes and
// recomputing the word count so the Result invariants hold by construction.
func finalize(text string, usedOCR bool) Result {
	text = strings.ReplaceAll(text, "\x00", "")
	return Result{
		Text:      text,
		UsedOCR:   usedOCR,
		WordCount: CountWords(text),
	}
}
