// CLAUDE:SUMMARY Raster image extractor shelling out to a local tesseract process.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// extractImage runs the local OCR engine over a raster image. The engine is
// a subprocess on purpose: a crash or hang in the native OCR stack must not
// take down this process, and the context bounds its lifetime.
func (e *Extractor) extractImage(ctx context.Context, data []byte, filename string) (Result, error) {
	text, err := e.tesseract(ctx, data)
	if err != nil {
		// Unreadable image or missing engine: no text is a valid outcome.
		res, _ := e.softFail(filename, "image", "local ocr failed", err)
		res.UsedOCR = true
		return res, nil
	}
	return finalize(text, true), nil
}

// tesseract feeds the image to the tesseract binary over stdin/stdout.
func (e *Extractor) tesseract(ctx context.Context, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.ConvertTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.cfg.TesseractPath, "stdin", "stdout", "-l", e.cfg.TesseractLangs)
	cmd.Stdin = bytes.NewReader(data)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract: %w (%s)", err, bytes.TrimSpace(stderr.Bytes()))
	}
	return stdout.String(), nil
}
