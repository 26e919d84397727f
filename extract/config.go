// CLAUDE:SUMMARY Configuration struct and defaults for the extraction engine.
package extract

import (
	"log/slog"
	"time"
)

// CheckboxConfig tunes the PDF checkbox annotator.
type CheckboxConfig struct {
	// MinSizeCm and MaxSizeCm bound the rendered side of a square for it
	// to count as a checkbox (defaults: 0.25–0.5 cm).
	MinSizeCm float64 `json:"min_size_cm" yaml:"min_size_cm"`
	MaxSizeCm float64 `json:"max_size_cm" yaml:"max_size_cm"`

	// Radius is the single-link clustering distance between drawing
	// centroids, in PDF user-space units (default: 10).
	Radius float64 `json:"radius" yaml:"radius"`
}

// Config configures an Extractor.
type Config struct {
	// WordThreshold is the native-text word count below which a PDF is
	// treated as a scanned image and escalated to OCR (default: 50).
	WordThreshold int `json:"word_threshold" yaml:"word_threshold"`

	Checkbox CheckboxConfig `json:"checkbox" yaml:"checkbox"`

	// SofficePath is the headless office-suite binary used for legacy
	// .doc conversion (default: "soffice").
	SofficePath string `json:"soffice_path" yaml:"soffice_path"`

	// TesseractPath is the local OCR binary used for raster images
	// (default: "tesseract").
	TesseractPath string `json:"tesseract_path" yaml:"tesseract_path"`

	// TesseractLangs is the language pack list passed to tesseract
	// (default: "fra+eng").
	TesseractLangs string `json:"tesseract_langs" yaml:"tesseract_langs"`

	// ConvertTimeout bounds each subprocess invocation (default: 2m).
	ConvertTimeout time.Duration `json:"convert_timeout" yaml:"convert_timeout"`

	// Logger for soft-failure diagnostics.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.WordThreshold <= 0 {
		c.WordThreshold = 50
	}
	if c.Checkbox.MinSizeCm <= 0 {
		c.Checkbox.MinSizeCm = 0.25
	}
	if c.Checkbox.MaxSizeCm <= 0 {
		c.Checkbox.MaxSizeCm = 0.5
	}
	if c.Checkbox.Radius <= 0 {
		c.Checkbox.Radius = 10
	}
	if c.SofficePath == "" {
		c.SofficePath = "soffice"
	}
	if c.TesseractPath == "" {
		c.TesseractPath = "tesseract"
	}
	if c.TesseractLangs == "" {
		c.TesseractLangs = "fra+eng"
	}
	if c.ConvertTimeout <= 0 {
		c.ConvertTimeout = 2 * time.Minute
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
