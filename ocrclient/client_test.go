package ocrclient

import (
	"context"
	"errors"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// scriptedBackend returns its errors in order, then succeeds.
type scriptedBackend struct {
	errs  []error
	calls int
	text  string
}

func (b *scriptedBackend) Recognize(_ context.Context, _ Request) (string, error) {
	b.calls++
	if len(b.errs) > 0 {
		err := b.errs[0]
		b.errs = b.errs[1:]
		return "", err
	}
	return b.text, nil
}

type countingGate struct{ waits int }

func (g *countingGate) Wait(context.Context, string, float64) error {
	g.waits++
	return nil
}

// newTestClient disables jitter randomness and records sleeps instead of
// performing them.
func newTestClient(cfg Config, backend Backend, gate Gate) (*Client, *[]time.Duration) {
	c := New(cfg, backend, gate)
	var slept []time.Duration
	c.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	c.randf = func() float64 { return 0 }
	return c, &slept
}

func TestRecognizeSuccessFirstTry(t *testing.T) {
	backend := &scriptedBackend{text: "Facture n° 42"}
	gate := &countingGate{}
	c, slept := newTestClient(Config{}, backend, gate)

	text, err := c.Recognize(context.Background(), Request{Image: []byte{1}})
	if err != nil {
		t.Fatal(err)
	}
	if text != "Facture n° 42" {
		t.Fatalf("got %q", text)
	}
	if backend.calls != 1 || gate.waits != 1 || len(*slept) != 0 {
		t.Fatalf("calls=%d waits=%d sleeps=%d", backend.calls, gate.waits, len(*slept))
	}
}

func TestRecognizeRateLimitExhaustsRetries(t *testing.T) {
	rl := &openai.APIError{HTTPStatusCode: 429, Message: "rate limit"}
	backend := &scriptedBackend{errs: []error{rl, rl, rl, rl}}
	c, slept := newTestClient(Config{MaxRetries: 3, RateLimitDelay: time.Minute}, backend, nil)

	_, err := c.Recognize(context.Background(), Request{Image: []byte{1}})
	if err == nil {
		t.Fatal("want hard error after retries exhausted")
	}
	if backend.calls != 4 {
		t.Fatalf("want 4 attempts, got %d", backend.calls)
	}
	want := []time.Duration{time.Minute, 2 * time.Minute, 3 * time.Minute}
	if len(*slept) != len(want) {
		t.Fatalf("sleeps %v, want %v", *slept, want)
	}
	for i, d := range want {
		if (*slept)[i] != d {
			t.Fatalf("sleep %d = %v, want %v", i, (*slept)[i], d)
		}
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Class != ClassRateLimited {
		t.Fatalf("want rate-limited APIError, got %v", err)
	}
}

func TestRecognizeClientErrorFailsFast(t *testing.T) {
	bad := &openai.APIError{HTTPStatusCode: 400, Message: "bad request"}
	backend := &scriptedBackend{errs: []error{bad}}
	c, slept := newTestClient(Config{}, backend, nil)

	_, err := c.Recognize(context.Background(), Request{Image: []byte{1}})
	if err == nil {
		t.Fatal("want error")
	}
	if backend.calls != 1 || len(*slept) != 0 {
		t.Fatalf("client error must fail fast: calls=%d sleeps=%d", backend.calls, len(*slept))
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Retryable() {
		t.Fatalf("want non-retryable APIError, got %v", err)
	}
}

func TestRecognizeRecoversFromTransientErrors(t *testing.T) {
	srv := &openai.APIError{HTTPStatusCode: 503, Message: "overloaded"}
	backend := &scriptedBackend{errs: []error{srv, srv}, text: "texte"}
	c, slept := newTestClient(Config{TransientDelay: time.Second}, backend, nil)

	text, err := c.Recognize(context.Background(), Request{Image: []byte{1}})
	if err != nil {
		t.Fatal(err)
	}
	if text != "texte" || backend.calls != 3 {
		t.Fatalf("text=%q calls=%d", text, backend.calls)
	}
	want := []time.Duration{time.Second, 2 * time.Second}
	if len(*slept) != 2 || (*slept)[0] != want[0] || (*slept)[1] != want[1] {
		t.Fatalf("sleeps %v, want %v", *slept, want)
	}
}

func TestRecognizeGatesEveryAttempt(t *testing.T) {
	srv := &openai.APIError{HTTPStatusCode: 500}
	backend := &scriptedBackend{errs: []error{srv}, text: "ok"}
	gate := &countingGate{}
	c, _ := newTestClient(Config{}, backend, gate)

	if _, err := c.Recognize(context.Background(), Request{Image: []byte{1}}); err != nil {
		t.Fatal(err)
	}
	if gate.waits != 2 {
		t.Fatalf("every attempt must pass the gate, waits=%d", gate.waits)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Class
	}{
		{"429", &openai.APIError{HTTPStatusCode: 429}, ClassRateLimited},
		{"408", &openai.APIError{HTTPStatusCode: 408}, ClassRateLimited},
		{"500", &openai.APIError{HTTPStatusCode: 500}, ClassServer},
		{"503 request error", &openai.RequestError{HTTPStatusCode: 503}, ClassServer},
		{"404", &openai.APIError{HTTPStatusCode: 404}, ClassClient},
		{"deadline", context.DeadlineExceeded, ClassNetwork},
		{"opaque", errors.New("connection reset by peer"), ClassNetwork},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.err); got.Class != tc.want {
				t.Fatalf("Classify(%v).Class = %v, want %v", tc.err, got.Class, tc.want)
			}
		})
	}
}

func TestImageMIME(t *testing.T) {
	if m := imageMIME("JPG"); m != "image/jpeg" {
		t.Fatalf("got %q", m)
	}
	if m := imageMIME("mystery"); m != "image/png" {
		t.Fatalf("got %q", m)
	}
}
