// CLAUDE:SUMMARY PDF extractor: native text layer via pdfcpu, OCR escalation for scanned pages.
// CLAUDE:DEPENDS extract/content.go, extract/checkbox.go
package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// pageContent is the parsed content of one page.
type pageContent struct {
	runs     []textRun
	drawings []drawing
}

// extractPDF extracts the native text layer in page order. When the whole
// document carries fewer words than the configured threshold it is treated
// as a scanned image and escalated to the remote OCR backend; otherwise the
// checkbox annotator re-renders vector form widgets into the text stream.
func (e *Extractor) extractPDF(ctx context.Context, data []byte, filename string) (Result, error) {
	conf := model.NewDefaultConfiguration()
	pctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return Result{}, fmt.Errorf("read pdf: %w", err)
	}

	pages := make([]pageContent, 0, pctx.PageCount)
	var native strings.Builder
	for pageNr := 1; pageNr <= pctx.PageCount; pageNr++ {
		pg := parsePage(pctx, pageNr)
		pages = append(pages, pg)

		if text := assemblePage(pg.runs, nil); text != "" {
			if native.Len() > 0 {
				native.WriteString("\n\n")
			}
			native.WriteString(text)
		}
	}

	if CountWords(native.String()) < e.cfg.WordThreshold {
		return e.ocrPDF(ctx, pctx, filename, native.String())
	}

	var sb strings.Builder
	for _, pg := range pages {
		markers := checkboxMarkers(pg.drawings, e.cfg.Checkbox)
		text := assemblePage(pg.runs, markers)
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(text)
	}
	return finalize(sb.String(), false), nil
}

func parsePage(pctx *model.Context, pageNr int) pageContent {
	r, err := pdfcpu.ExtractPageContent(pctx, pageNr)
	if err != nil || r == nil {
		return pageContent{}
	}
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return pageContent{}
	}
	runs, drawings := parseContentStream(data)
	return pageContent{runs: runs, drawings: drawings}
}

// ocrPDF sends the document's embedded page images to the remote OCR
// backend. Without a configured backend the sparse native text is kept —
// a degraded result beats an aborted batch.
func (e *Extractor) ocrPDF(ctx context.Context, pctx *model.Context, filename, nativeText string) (Result, error) {
	if e.ocr == nil {
		e.logger.Warn("pdf below word threshold but no OCR backend configured, keeping native text",
			"file", filename, "words", CountWords(nativeText))
		return finalize(nativeText, false), nil
	}

	var sb strings.Builder
	ocrAny := false
	for pageNr := 1; pageNr <= pctx.PageCount; pageNr++ {
		imgs, err := pdfcpu.ExtractPageImages(pctx, pageNr, false)
		if err != nil {
			e.logger.Debug("page image extraction failed", "file", filename, "page", pageNr, "error", err)
			continue
		}

		objNrs := make([]int, 0, len(imgs))
		for objNr := range imgs {
			objNrs = append(objNrs, objNr)
		}
		sort.Ints(objNrs)

		for _, objNr := range objNrs {
			img := imgs[objNr]
			raw, err := io.ReadAll(img)
			if err != nil || len(raw) == 0 {
				continue
			}
			text, err := e.ocr.RecognizeImage(ctx, raw, img.FileType)
			if err != nil {
				return Result{}, fmt.Errorf("ocr page %d of %s: %w", pageNr, filename, err)
			}
			ocrAny = true
			if text = strings.TrimSpace(text); text != "" {
				if sb.Len() > 0 {
					sb.WriteString("\n\n")
				}
				sb.WriteString(text)
			}
		}
	}

	if !ocrAny {
		return e.softFail(filename, "pdf", "scanned pdf with no extractable page images", nil)
	}
	res := finalize(sb.String(), true)
	return res, nil
}
