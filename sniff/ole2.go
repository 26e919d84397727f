// CLAUDE:SUMMARY Weighted keyword scorer resolving OLE2 compound documents to doc/xls/ppt/msg.
package sniff

import (
	"bytes"
	"unicode/utf16"
)

// ScorerWeights holds the per-subtype keyword weight tables used when an
// OLE2 file has no trustworthy extension. The weights are empirically tuned
// and best-effort: they classify, they do not prove. Occurrences are counted
// both as raw bytes and as UTF-16LE, since OLE2 directory entry names and
// most property streams are UTF-16 encoded.
type ScorerWeights struct {
	Excel      map[string]int
	Word       map[string]int
	PowerPoint map[string]int
	Msg        map[string]int

	// MsgThreshold short-circuits to the msg tag when the Outlook score
	// reaches it, before comparing the office subtypes.
	MsgThreshold int
}

var defaultScorerWeights = ScorerWeights{
	Excel: map[string]int{
		"Workbook":        4,
		"Worksheet":       3,
		"Microsoft Excel": 5,
		"Excel.Sheet":     4,
		"BIFF8":           2,
	},
	Word: map[string]int{
		"WordDocument":   5,
		"MSWordDoc":      4,
		"Microsoft Word": 4,
		"Word.Document":  3,
		"1Table":         2,
		"0Table":         2,
	},
	PowerPoint: map[string]int{
		"PowerPoint Document":  5,
		"Microsoft PowerPoint": 4,
		"PowerPoint.Show":      3,
		"Current User":         1,
	},
	Msg: map[string]int{
		"__substg1.0":             5,
		"__properties_version1.0": 5,
		"__recip_version1.0":      4,
		"__attach_version1.0":     3,
		"IPM.Note":                4,
	},

	MsgThreshold: 8,
}

// scoreOle2 picks the most likely OLE2 subtype by weighted keyword
// occurrence over the full byte content. An Outlook message score above the
// threshold wins immediately (or resolves to pdf when a %PDF signature is
// embedded, which is common for PDF attachments saved as .msg). Otherwise
// the highest of Excel/Word/PowerPoint wins; ties and all-zero scores
// default to doc.
func scoreOle2(data []byte, w ScorerWeights) Format {
	if scoreKeywords(data, w.Msg) >= w.MsgThreshold {
		if bytes.Contains(data, []byte("%PDF")) {
			return FormatPDF
		}
		return FormatMsg
	}

	excel := scoreKeywords(data, w.Excel)
	word := scoreKeywords(data, w.Word)
	ppt := scoreKeywords(data, w.PowerPoint)

	if excel > word && excel > ppt {
		return FormatXls
	}
	if ppt > word && ppt > excel {
		return FormatPpt
	}
	return FormatDoc
}

func scoreKeywords(data []byte, weights map[string]int) int {
	score := 0
	for kw, weight := range weights {
		n := bytes.Count(data, []byte(kw))
		n += bytes.Count(data, utf16le(kw))
		score += n * weight
	}
	return score
}

// utf16le encodes s as UTF-16 little-endian bytes.
func utf16le(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, 0, len(units)*2)
	for _, u := range units {
		out = append(out, byte(u), byte(u>>8))
	}
	return out
}
