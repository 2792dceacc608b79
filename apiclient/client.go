package apiclient

import (
	"net/http"
	"strings"
	"time"
)

// NewHTTPClient returns the HTTP client shared by the resource clients.
// Connection pooling is tuned for a handful of small REST calls; no retries
// and no cancellation beyond the caller's context.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	transport := &http.Transport{
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// JoinURL appends a path to a service base URL, normalizing slashes.
func JoinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
