package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/hazyhaar/docmill/sniff"
)

// pdfFixture assembles a single-page PDF with proper xref offsets around the
// given content stream. withImage embeds a 1x1 grayscale image XObject so the
// OCR path has a page image to pull out.
func pdfFixture(t *testing.T, stream string, withImage bool) []byte {
	t.Helper()

	resources := "<< /Font << /F1 5 0 R >> >>"
	if withImage {
		resources = "<< /Font << /F1 5 0 R >> /XObject << /Im1 6 0 R >> >>"
	}

	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources " + resources + " >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}
	if withImage {
		img := "\x80"
		objs = append(objs, fmt.Sprintf(
			"<< /Type /XObject /Subtype /Image /Width 1 /Height 1 /ColorSpace /DeviceGray /BitsPerComponent 8 /Length %d >>\nstream\n%s\nendstream",
			len(img), img))
	}

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, obj := range objs {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return b.Bytes()
}

// fakeOCR is a RemoteOCR stub returning canned text.
type fakeOCR struct {
	text  string
	calls int
}

func (f *fakeOCR) RecognizeImage(_ context.Context, _ []byte, _ string) (string, error) {
	f.calls++
	return f.text, nil
}

// proseStream shows the given text on one line at the top of the page.
func proseStream(text string) string {
	return "BT /F1 12 Tf 1 0 0 1 72 720 Tm (" + text + ") Tj ET"
}

const sparseText = "numero de dossier incomplet sur la premiere page scannee ici"

func TestExtractPDFNativeTextAboveThreshold(t *testing.T) {
	filler := strings.TrimSpace(strings.Repeat("contrat de location signe entre les deux parties au mois ", 6))
	data := pdfFixture(t, proseStream(filler), false)

	e := newTestExtractor(t)
	res, err := e.Extract(context.Background(), data, sniff.FormatPDF, "bail.pdf")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if res.UsedOCR {
		t.Fatal("native text above threshold must not escalate to OCR")
	}
	if !strings.Contains(res.Text, "contrat de location signe") {
		t.Fatalf("native text layer missing: %q", res.Text)
	}
	if res.WordCount != CountWords(res.Text) || res.WordCount < 50 {
		t.Fatalf("word count %d for %q", res.WordCount, res.Text)
	}
}

func TestExtractPDFBelowThresholdEscalatesToOCR(t *testing.T) {
	stream := proseStream(sparseText) + "\nq 50 0 0 50 100 400 cm /Im1 Do Q"
	data := pdfFixture(t, stream, true)

	ocr := &fakeOCR{text: "Montant total de la facture 1234,56 euros"}
	e := New(Config{
		SofficePath:   "/nonexistent/soffice",
		TesseractPath: "/nonexistent/tesseract",
	}, ocr)

	res, err := e.Extract(context.Background(), data, sniff.FormatPDF, "scan.pdf")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !res.UsedOCR {
		t.Fatal("10 native words must escalate to OCR")
	}
	if ocr.calls == 0 {
		t.Fatal("OCR backend was never called")
	}
	if res.Text != ocr.text {
		t.Fatalf("got %q want %q", res.Text, ocr.text)
	}
	if res.WordCount != CountWords(res.Text) {
		t.Fatalf("word count %d", res.WordCount)
	}
}

func TestExtractPDFBelowThresholdWithoutBackendKeepsNativeText(t *testing.T) {
	data := pdfFixture(t, proseStream(sparseText), false)

	e := newTestExtractor(t)
	res, err := e.Extract(context.Background(), data, sniff.FormatPDF, "scan.pdf")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if res.UsedOCR {
		t.Fatal("no backend configured, UsedOCR must stay false")
	}
	if res.Text != sparseText {
		t.Fatalf("sparse native text must be kept: %q", res.Text)
	}
	if res.WordCount != 10 {
		t.Fatalf("word count %d", res.WordCount)
	}
}

func TestExtractPDFScannedWithoutImagesSoftFails(t *testing.T) {
	data := pdfFixture(t, proseStream(sparseText), false)

	ocr := &fakeOCR{text: "jamais atteint"}
	e := New(Config{
		SofficePath:   "/nonexistent/soffice",
		TesseractPath: "/nonexistent/tesseract",
	}, ocr)

	res, err := e.Extract(context.Background(), data, sniff.FormatPDF, "scan.pdf")
	if err != nil {
		t.Fatalf("no page images must degrade, not error: %v", err)
	}
	if res.Text != "" || res.WordCount != 0 {
		t.Fatalf("want empty result, got %+v", res)
	}
	if ocr.calls != 0 {
		t.Fatalf("backend called %d times with nothing to recognize", ocr.calls)
	}
}

func TestExtractPDFCheckboxMarkerInline(t *testing.T) {
	filler := strings.TrimSpace(strings.Repeat("contrat de location signe entre les deux parties au mois ", 6))
	stream := proseStream(filler) + "\n" +
		"BT /F1 12 Tf 1 0 0 1 120 692 Tm (Accepte les conditions) Tj ET\n" +
		"100 688 8.5 8.5 re S\n" +
		"100 688 m 108.5 696.5 l S\n" +
		"108.5 688 m 100 696.5 l S"
	data := pdfFixture(t, stream, false)

	e := newTestExtractor(t)
	res, err := e.Extract(context.Background(), data, sniff.FormatPDF, "formulaire.pdf")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if res.UsedOCR {
		t.Fatal("unexpected OCR escalation")
	}
	if !strings.Contains(res.Text, "[X] Accepte les conditions") {
		t.Fatalf("checkbox marker missing or misplaced: %q", res.Text)
	}
}

func TestExtractPDFCorruptIsHardError(t *testing.T) {
	e := newTestExtractor(t)
	_, err := e.Extract(context.Background(), []byte("%PDF-1.4\nnot a pdf"), sniff.FormatPDF, "bad.pdf")
	if err == nil {
		t.Fatal("want hard error for unreadable pdf")
	}
}
