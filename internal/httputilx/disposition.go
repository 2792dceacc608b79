// Package httputilx contains small HTTP helpers shared by the resource
// clients.
package httputilx

import "mime"

// DispositionFilename extracts the filename parameter from a
// Content-Disposition header value. Returns "" when the header is absent,
// malformed, or carries no filename, so callers can apply their own
// fallback chain.
func DispositionFilename(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}
