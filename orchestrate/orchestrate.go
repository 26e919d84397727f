// CLAUDE:SUMMARY Bounded-concurrency batch runner: sniff then extract each document.
// Package orchestrate runs document batches through format detection and
// text extraction on a bounded worker pool. Each document fails or succeeds
// on its own; one bad document never aborts its siblings.
package orchestrate

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hazyhaar/docmill/extract"
	"github.com/hazyhaar/docmill/idgen"
	"github.com/hazyhaar/docmill/sniff"
)

// Document is one input to a batch run.
type Document struct {
	Name string
	Data []byte
}

// DocResult is the outcome for one document. Err is set for hard failures;
// soft failures surface as an empty Result with a nil Err.
type DocResult struct {
	Name     string         `json:"name"`
	Format   sniff.Format   `json:"format"`
	Result   extract.Result `json:"result"`
	Err      error          `json:"-"`
	Error    string         `json:"error,omitempty"`
	Duration time.Duration  `json:"duration"`
}

// Config configures a Runner.
type Config struct {
	// Workers bounds concurrent extractions (default: 4).
	Workers int `json:"workers" yaml:"workers"`

	// RunTimeout bounds a whole batch; zero means no limit.
	RunTimeout time.Duration `json:"run_timeout" yaml:"run_timeout"`

	// IDGen mints batch run identifiers for log correlation.
	IDGen idgen.Generator `json:"-" yaml:"-"`

	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.IDGen == nil {
		c.IDGen = idgen.Prefixed("run_", idgen.Default)
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Runner executes batches against one extraction engine.
type Runner struct {
	cfg Config
	ex  *extract.Extractor
}

// New creates a Runner.
func New(cfg Config, ex *extract.Extractor) *Runner {
	cfg.defaults()
	return &Runner{cfg: cfg, ex: ex}
}

// Run processes docs and returns one DocResult per input, in input order.
// Extraction errors are recorded per document, never propagated as a run
// error. When the batch context expires, documents not yet started are
// abandoned with the context error; in-flight ones finish on their own.
func (r *Runner) Run(ctx context.Context, docs []Document) []DocResult {
	if r.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.RunTimeout)
		defer cancel()
	}

	runID := r.cfg.IDGen()
	logger := r.cfg.Logger.With("run", runID)
	logger.Info("batch started", "docs", len(docs), "workers", r.cfg.Workers)

	results := make([]DocResult, len(docs))
	g := &errgroup.Group{}
	g.SetLimit(r.cfg.Workers)

	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(docs); j++ {
				results[j] = DocResult{Name: docs[j].Name, Err: err, Error: err.Error()}
			}
			break
		}

		g.Go(func() error {
			results[i] = r.runOne(ctx, logger, doc)
			return nil
		})
	}
	g.Wait()

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	logger.Info("batch finished", "docs", len(docs), "failed", failed)
	return results
}

func (r *Runner) runOne(ctx context.Context, logger *slog.Logger, doc Document) DocResult {
	start := time.Now()
	format := sniff.Detect(doc.Data, doc.Name)

	res, err := r.ex.Extract(ctx, doc.Data, format, doc.Name)
	out := DocResult{
		Name:     doc.Name,
		Format:   format,
		Result:   res,
		Err:      err,
		Duration: time.Since(start),
	}
	if err != nil {
		out.Error = err.Error()
		logger.Error("document failed",
			"file", doc.Name, "format", format, "error", err)
		return out
	}
	logger.Info("document extracted",
		"file", doc.Name, "format", format,
		"words", res.WordCount, "ocr", res.UsedOCR,
		"duration", out.Duration.Round(time.Millisecond))
	return out
}
