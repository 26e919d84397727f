// CLAUDE:SUMMARY Extraction engine dispatching documents to per-format extractors.
// Package extract turns raw document bytes into plain or markdown text.
//
// One extractor exists per format tag (pdf, docx, odt, txt, raster images,
// doc, xlsx, xls, ods); each returns the text, whether OCR was used, and a
// word count. Two failure modes are kept strictly apart:
//
//   - hard errors (unsupported format, a container that cannot be opened at
//     all, OCR exhausted after retries) abort the document;
//   - soft failures (corrupt-but-plausible input yielding no usable text)
//     return an empty successful Result with a logged diagnostic, because
//     "no text" is a legitimate outcome and must never abort a batch.
//
// Usage:
//
//	ex := extract.New(extract.Config{}, ocrClient)
//	res, err := ex.Extract(ctx, data, sniff.Detect(data, name), name)
package extract

import (
	"context"
	"log/slog"

	"github.com/hazyhaar/docmill/sniff"
)

// RemoteOCR is the escalation backend for scanned PDFs. Implementations
// pace and retry their own calls; the extractor only delegates.
type RemoteOCR interface {
	RecognizeImage(ctx context.Context, image []byte, format string) (string, error)
}

// Extractor is the document extraction engine.
type Extractor struct {
	cfg    Config
	ocr    RemoteOCR
	logger *slog.Logger
}

// New creates an Extractor. ocr may be nil, in which case scanned PDFs
// keep their sparse native text instead of escalating.
func New(cfg Config, ocr RemoteOCR) *Extractor {
	cfg.defaults()
	return &Extractor{
		cfg:    cfg,
		ocr:    ocr,
		logger: cfg.Logger,
	}
}

// Extract dispatches data to the extractor for format. The filename is
// diagnostic only. Every supported tag maps to exactly one extractor;
// unknown and unresolved container tags are refused with
// ErrUnsupportedFormat.
func (e *Extractor) Extract(ctx context.Context, data []byte, format sniff.Format, filename string) (Result, error) {
	switch format {
	case sniff.FormatPDF:
		return e.extractPDF(ctx, data, filename)
	case sniff.FormatDocx:
		return e.extractDocx(data, filename)
	case sniff.FormatODT:
		return e.extractODT(data, filename)
	case sniff.FormatTxt:
		return extractTxt(data), nil
	case sniff.FormatPNG, sniff.FormatJPG, sniff.FormatGIF, sniff.FormatBMP, sniff.FormatTIFF:
		return e.extractImage(ctx, data, filename)
	case sniff.FormatDoc:
		return e.extractDoc(ctx, data, filename)
	case sniff.FormatXlsx:
		return e.extractXlsx(data, filename)
	case sniff.FormatXls:
		return e.extractXls(data, filename)
	case sniff.FormatODS:
		return e.extractODS(data, filename)
	default:
		return Result{}, &UnsupportedFormatError{Format: format}
	}
}

// softFail logs why an extractor produced nothing and returns the empty
// successful Result.
func (e *Extractor) softFail(filename, format, reason string, err error) (Result, error) {
	e.logger.Warn("extraction produced no text",
		"file", filename, "format", format, "reason", reason, "error", err)
	return finalize("", false), nil
}

// SupportedFormats lists the format tags the engine accepts.
func SupportedFormats() []sniff.Format {
	return []sniff.Format{
		sniff.FormatPDF, sniff.FormatDocx, sniff.FormatODT, sniff.FormatTxt,
		sniff.FormatPNG, sniff.FormatJPG, sniff.FormatGIF, sniff.FormatBMP,
		sniff.FormatTIFF, sniff.FormatDoc, sniff.FormatXlsx, sniff.FormatXls,
		sniff.FormatODS,
	}
}
