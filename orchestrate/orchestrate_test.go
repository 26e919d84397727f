package orchestrate

import (
	"context"
	"errors"
	"testing"

	"github.com/hazyhaar/docmill/extract"
	"github.com/hazyhaar/docmill/sniff"
)

func testRunner(workers int) *Runner {
	ex := extract.New(extract.Config{
		SofficePath:   "/nonexistent/soffice",
		TesseractPath: "/nonexistent/tesseract",
	}, nil)
	return New(Config{Workers: workers}, ex)
}

func TestRunIsolatesFailures(t *testing.T) {
	r := testRunner(2)
	docs := []Document{
		{Name: "a.txt", Data: []byte("Premier document avec du texte.")},
		{Name: "archive.rar", Data: []byte("Rar!\x1a\x07\x00")},
		{Name: "b.txt", Data: []byte("Deuxième document.")},
	}

	results := r.Run(context.Background(), docs)
	if len(results) != 3 {
		t.Fatalf("want 3 results, got %d", len(results))
	}

	if results[0].Name != "a.txt" || results[0].Err != nil {
		t.Fatalf("result 0: %+v", results[0])
	}
	if results[0].Result.WordCount != 5 {
		t.Fatalf("result 0 word count: %d", results[0].Result.WordCount)
	}

	if results[1].Err == nil || !errors.Is(results[1].Err, extract.ErrUnsupportedFormat) {
		t.Fatalf("result 1 must carry the hard error: %+v", results[1])
	}
	if results[1].Format != sniff.FormatRar {
		t.Fatalf("result 1 format: %q", results[1].Format)
	}

	if results[2].Err != nil || results[2].Result.WordCount != 2 {
		t.Fatalf("failure must not abort siblings: %+v", results[2])
	}
}

func TestRunCancelledContextAbandonsPendingDocs(t *testing.T) {
	r := testRunner(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	docs := []Document{
		{Name: "a.txt", Data: []byte("texte")},
		{Name: "b.txt", Data: []byte("texte")},
	}
	results := r.Run(ctx, docs)
	for i, res := range results {
		if !errors.Is(res.Err, context.Canceled) {
			t.Fatalf("result %d must carry the context error, got %v", i, res.Err)
		}
		if res.Name != docs[i].Name {
			t.Fatalf("result %d name %q", i, res.Name)
		}
	}
}

func TestRunEmptyBatch(t *testing.T) {
	r := testRunner(4)
	if results := r.Run(context.Background(), nil); len(results) != 0 {
		t.Fatalf("want no results, got %d", len(results))
	}
}
