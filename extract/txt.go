package extract

import (
	"strings"

	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// extractTxt decodes plain text. Invalid bytes are replaced, UTF-16 BOMs
// are honoured; this extractor never fails.
func extractTxt(data []byte) Result {
	dec := xunicode.BOMOverride(xunicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return finalize(strings.ToValidUTF8(string(data), "�"), false)
	}
	return finalize(string(out), false)
}
