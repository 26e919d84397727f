// CLAUDE:SUMMARY Service wiring: database, rate gate, OCR client, extractor, batch runner.
// Package docmill assembles the document extraction service: format
// sniffing, per-format extractors with OCR escalation, a cross-process
// SQLite rate gate pacing the remote vision calls, and a bounded batch
// runner.
package docmill

import (
	"database/sql"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/docmill/dbopen"
	"github.com/hazyhaar/docmill/extract"
	"github.com/hazyhaar/docmill/ocrclient"
	"github.com/hazyhaar/docmill/orchestrate"
	"github.com/hazyhaar/docmill/rategate"
)

// Service is the assembled extraction service.
type Service struct {
	Cfg       *Config
	DB        *sql.DB
	Gate      *rategate.Gate
	OCR       *ocrclient.Client
	Extractor *extract.Extractor
	Runner    *orchestrate.Runner
	Logger    *slog.Logger
}

// NewService wires a Service from cfg. Without an API key the service runs
// with remote OCR disabled: scanned PDFs keep their sparse native text.
func NewService(cfg *Config, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := dbopen.Open(cfg.DBPath,
		dbopen.WithMkdirAll(),
		dbopen.WithSchema(rategate.Schema),
	)
	if err != nil {
		return nil, err
	}
	gate := rategate.New(db)

	var ocr *ocrclient.Client
	if key := cfg.ResolvedAPIKey(); key != "" {
		backend := ocrclient.NewOpenAIBackend(key, cfg.BaseURL)
		ocrCfg := cfg.OCR
		ocrCfg.Logger = logger
		ocr = ocrclient.New(ocrCfg, backend, gate)
	} else {
		logger.Warn("no OCR api key configured, scanned documents will keep native text only")
	}

	exCfg := cfg.Extract
	exCfg.Logger = logger
	var remote extract.RemoteOCR
	if ocr != nil {
		remote = ocr
	}
	ex := extract.New(exCfg, remote)

	batchCfg := cfg.Batch
	batchCfg.Logger = logger
	runner := orchestrate.New(batchCfg, ex)

	return &Service{
		Cfg:       cfg,
		DB:        db,
		Gate:      gate,
		OCR:       ocr,
		Extractor: ex,
		Runner:    runner,
		Logger:    logger,
	}, nil
}

// Close releases the service's database handle.
func (s *Service) Close() error {
	return s.DB.Close()
}
