// CLAUDE:SUMMARY OCR backend error taxonomy: rate-limited, server, network, client.
package ocrclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"

	openai "github.com/sashabaranov/go-openai"
)

// Class buckets a backend failure by how the caller should react.
type Class int

const (
	// ClassRateLimited: the service pushed back (429, 408). Retry after a
	// long delay.
	ClassRateLimited Class = iota
	// ClassServer: 5xx. Retry after a short delay.
	ClassServer
	// ClassNetwork: timeouts, resets, DNS. Retry after a short delay.
	ClassNetwork
	// ClassClient: 4xx other than 429/408. The request itself is wrong;
	// retrying cannot help.
	ClassClient
)

func (c Class) String() string {
	switch c {
	case ClassRateLimited:
		return "rate_limited"
	case ClassServer:
		return "server"
	case ClassNetwork:
		return "network"
	case ClassClient:
		return "client"
	}
	return "unknown"
}

// APIError wraps a backend failure with its classification.
type APIError struct {
	Class  Class
	Status int
	Err    error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("ocr backend: %s (status %d): %v", e.Class, e.Status, e.Err)
	}
	return fmt.Sprintf("ocr backend: %s: %v", e.Class, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// Retryable reports whether another attempt can succeed.
func (e *APIError) Retryable() bool { return e.Class != ClassClient }

// Classify maps a raw backend error to an APIError. Unrecognised errors are
// treated as network failures: transient until proven otherwise.
func Classify(err error) *APIError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode, err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &APIError{Class: ClassNetwork, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return &APIError{Class: ClassNetwork, Err: err}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &APIError{Class: ClassNetwork, Err: err}
	}

	return &APIError{Class: ClassNetwork, Err: err}
}

func classifyStatus(status int, err error) *APIError {
	switch {
	case status == 429 || status == 408:
		return &APIError{Class: ClassRateLimited, Status: status, Err: err}
	case status >= 500:
		return &APIError{Class: ClassServer, Status: status, Err: err}
	case status >= 400:
		return &APIError{Class: ClassClient, Status: status, Err: err}
	default:
		return &APIError{Class: ClassNetwork, Status: status, Err: err}
	}
}
