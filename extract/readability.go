// CLAUDE:SUMMARY Readability predicate deciding whether salvaged legacy-DOC text is usable prose.
package extract

import (
	"regexp"
	"strings"
	"unicode"
)

// The readability thresholds below gate the legacy .doc fallback chain.
// They are empirically tuned against real administrative documents; they
// classify, they do not prove.
const (
	readableMinChars       = 10
	readablePrintableRatio = 0.70
	readableForeignRatio   = 0.30
	readableStopwordRatio  = 0.10
	readableStructuralHits = 2
)

// latinAllowlist is the accented-Latin character set expected in French and
// English administrative prose. Characters outside it (beyond ASCII
// printables and whitespace) count against the text.
const latinAllowlist = "àâäéèêëîïôöùûüçœæÀÂÄÉÈÊËÎÏÔÖÙÛÜÇŒÆ’«»€°–—"

// stopwords are common French/English function words plus domain vocabulary
// frequent in the documents this pipeline sees. Matching is lowercase.
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		// French
		"le", "la", "les", "de", "des", "du", "un", "une", "et", "ou",
		"à", "au", "aux", "ce", "cette", "ces", "dans", "en", "par",
		"pour", "sur", "avec", "est", "sont", "qui", "que", "ne", "pas",
		"se", "son", "sa", "ses", "plus", "être", "fait", "nous", "vous",
		// English
		"the", "of", "and", "to", "in", "is", "for", "on", "that", "with",
		"as", "are", "this", "be", "by", "from", "or", "it", "at", "an",
		// Domain
		"dossier", "contrat", "client", "date", "montant", "adresse",
		"monsieur", "madame", "société", "facture", "référence",
	} {
		stopwords[w] = struct{}{}
	}
}

// structuralPatterns match shapes that noise almost never produces: proper
// nouns, dates, decimal amounts, acronyms, month names.
var structuralPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b[A-ZÀÂÉÈÊ][a-zàâäéèêëîïôöùûüç]{2,}\b`),
	regexp.MustCompile(`\b\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4}\b`),
	regexp.MustCompile(`\b\d+[.,]\d+\b`),
	regexp.MustCompile(`\b[A-Z]{2,6}\b`),
	regexp.MustCompile(`(?i)\b(janvier|février|fevrier|mars|avril|mai|juin|juillet|août|aout|septembre|octobre|novembre|décembre|decembre|january|february|march|april|may|june|july|august|september|october|november|december)\b`),
}

// Readable reports whether text passes the legacy-recovery readability
// check: long enough, mostly printable, mostly accented-Latin, and either
// carrying a plausible stopword density or several structural patterns.
func Readable(text string) bool {
	runes := []rune(text)
	if len(runes) < readableMinChars {
		return false
	}

	printable, foreign := 0, 0
	for _, r := range runes {
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			printable++
		}
		if !allowedRune(r) {
			foreign++
		}
	}
	total := float64(len(runes))
	if float64(printable)/total < readablePrintableRatio {
		return false
	}
	if float64(foreign)/total >= readableForeignRatio {
		return false
	}

	if stopwordRatio(text) >= readableStopwordRatio {
		return true
	}
	return structuralHits(text) >= readableStructuralHits
}

func allowedRune(r rune) bool {
	if r >= 0x20 && r < 0x7F {
		return true
	}
	if unicode.IsSpace(r) {
		return true
	}
	return strings.ContainsRune(latinAllowlist, r)
}

func stopwordRatio(text string) float64 {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0
	}
	hits := 0
	for _, f := range fields {
		w := strings.ToLower(strings.Trim(f, ".,;:!?()[]\"'«»"))
		if _, ok := stopwords[w]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(fields))
}

func structuralHits(text string) int {
	hits := 0
	for _, pat := range structuralPatterns {
		if pat.MatchString(text) {
			hits++
		}
	}
	return hits
}
