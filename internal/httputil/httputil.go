// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"io"
	"net/http"
	"time"
)

// DefaultTimeout is applied when a stage config leaves its timeout unset.
const DefaultTimeout = 30 * time.Second

// NewClient returns an http.Client with the given timeout. A zero or
// negative timeout falls back to DefaultTimeout. Redirects are followed
// with the default policy, which preprint mirrors rely on for PDF links.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// DrainClose consumes and closes a response body so the underlying
// connection can be reused.
func DrainClose(body io.ReadCloser) {
	io.Copy(io.Discard, body)
	body.Close()
}
