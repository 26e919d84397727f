// CLAUDE:SUMMARY HTTP API: multipart extraction endpoint, formats listing, health.
package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hazyhaar/docmill"
	"github.com/hazyhaar/docmill/extract"
	"github.com/hazyhaar/docmill/orchestrate"
)

// runHTTP serves the extraction API until ctx is cancelled.
func runHTTP(ctx context.Context, svc *docmill.Service) error {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Post("/v1/extract", extractHandler(svc))
	r.Get("/v1/formats", formatsHandler())
	r.Get("/v1/health", healthHandler(svc))

	srv := &http.Server{
		Addr:              svc.Cfg.Listen,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		svc.Logger.Info("http api listening", "addr", svc.Cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// extractHandler accepts a multipart form with one or more "file" parts and
// returns the batch results. Per-document hard failures are reported in the
// body, not as an HTTP error, unless every document failed.
func extractHandler(svc *docmill.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(svc.Cfg.MaxFileBytes()); err != nil {
			http.Error(w, "parse form: "+err.Error(), http.StatusBadRequest)
			return
		}
		if r.MultipartForm == nil || len(r.MultipartForm.File["file"]) == 0 {
			http.Error(w, `missing "file" field`, http.StatusBadRequest)
			return
		}

		var docs []orchestrate.Document
		for _, fh := range r.MultipartForm.File["file"] {
			f, err := fh.Open()
			if err != nil {
				http.Error(w, "open part: "+err.Error(), http.StatusBadRequest)
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				http.Error(w, "read part: "+err.Error(), http.StatusBadRequest)
				return
			}
			docs = append(docs, orchestrate.Document{Name: fh.Filename, Data: data})
		}

		results := svc.Runner.Run(r.Context(), docs)
		failed := 0
		for _, res := range results {
			if res.Err != nil {
				failed++
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if failed == len(results) {
			w.WriteHeader(http.StatusUnprocessableEntity)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"results": results,
			"failed":  failed,
		})
	}
}

func formatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"formats": extract.SupportedFormats(),
		})
	}
}

func healthHandler(svc *docmill.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		if err := svc.DB.PingContext(r.Context()); err != nil {
			status = "degraded"
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":      status,
			"ocr_enabled": svc.OCR != nil,
		})
	}
}
