// Package filesvc is the resource client for the file service: the
// per-user dashboard list plus upload, download, and delete.
//
// Credential scheme for this boundary: Authorization bearer token. Earlier
// file-service revisions trusted a bare X-User-Id identity header; that
// scheme is still constructible for targeting such a deployment, but a
// given client instance always uses exactly one scheme.
package filesvc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/filedeck/filedeck/apiclient"
	"github.com/filedeck/filedeck/internal/httputilx"
	"github.com/filedeck/filedeck/metrics"
	"github.com/filedeck/filedeck/session"
)

// FileRecord is one row of the dashboard list. Read-only from the client's
// perspective; the only client-side mutation is the optimistic removal from
// a rendered list after a confirmed delete.
type FileRecord struct {
	ID          int64  `json:"id"`
	Filename    string `json:"filename"`
	SizeBytes   int64  `json:"size_bytes"`
	ContentType string `json:"content_type"`
	CreatedAt   string `json:"created_at"`
	Owner       string `json:"owner,omitempty"`
}

// Download is an open binary download. The caller owns Body.
type Download struct {
	Filename    string
	ContentType string
	Body        io.ReadCloser
}

// Client wraps the file service REST endpoints.
type Client struct {
	baseURL string
	http    *http.Client
	builder *apiclient.Builder
	logger  *zap.Logger
}

// NewClient constructs a file service client. scheme picks the credential
// materialization for this boundary; SchemeBearer is the authoritative
// choice for current deployments.
func NewClient(baseURL string, store *session.Store, scheme apiclient.Scheme, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = apiclient.NewHTTPClient(0)
	}
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		builder: apiclient.NewBuilder(store, scheme),
		logger:  logger,
	}
}

// listEnvelope is the success body of GET /dashboard.
type listEnvelope struct {
	Files []FileRecord `json:"files"`
}

// List fetches the caller's file records. An empty list is a success state,
// not an error.
func (c *Client) List(ctx context.Context) ([]FileRecord, error) {
	const op = "list files"
	start := time.Now()

	req, err := c.newAuthedRequest(ctx, http.MethodGet, "/dashboard", nil, "")
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveOp("files", "list", "error", time.Since(start).Seconds())
		return nil, apiclient.WrapTransport(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ObserveOp("files", "list", "failure", time.Since(start).Seconds())
		return nil, apiclient.DecodeError(op, resp)
	}

	var env listEnvelope
	if apiErr := apiclient.DecodeJSON(op, resp, &env); apiErr != nil {
		return nil, apiErr
	}
	metrics.ObserveOp("files", "list", "success", time.Since(start).Seconds())
	return env.Files, nil
}

// uploadEnvelope accepts both response shapes the service has shipped:
// a {"file": {...}} wrapper and a bare record.
type uploadEnvelope struct {
	File *FileRecord `json:"file"`
	FileRecord
}

func (e uploadEnvelope) record() FileRecord {
	if e.File != nil {
		return *e.File
	}
	return e.FileRecord
}

// Upload sends one file as multipart form data under the field name "file".
// An empty filename fails locally before any network call.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (FileRecord, error) {
	const op = "upload"
	if filename == "" || r == nil {
		return FileRecord{}, apiclient.LocalValidation(op, "no file selected")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return FileRecord{}, apiclient.NetworkFailure(op, err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return FileRecord{}, apiclient.NetworkFailure(op, err)
	}
	if err := mw.Close(); err != nil {
		return FileRecord{}, apiclient.NetworkFailure(op, err)
	}

	start := time.Now()
	req, err := c.newAuthedRequest(ctx, http.MethodPost, "/dashboard/upload", &buf, mw.FormDataContentType())
	if err != nil {
		return FileRecord{}, err
	}

	c.logger.Debug("Uploading file",
		zap.String("filename", filepath.Base(filename)),
		zap.Int("size_bytes", buf.Len()))

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveOp("files", "upload", "error", time.Since(start).Seconds())
		return FileRecord{}, apiclient.WrapTransport(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		metrics.ObserveOp("files", "upload", "failure", time.Since(start).Seconds())
		return FileRecord{}, apiclient.DecodeError(op, resp)
	}

	var env uploadEnvelope
	if apiErr := apiclient.DecodeJSON(op, resp, &env); apiErr != nil {
		return FileRecord{}, apiErr
	}
	metrics.ObserveOp("files", "upload", "success", time.Since(start).Seconds())
	return env.record(), nil
}

// Delete removes one file record. The server enforces ownership; a 404 for
// a foreign or missing ID surfaces the server's message.
func (c *Client) Delete(ctx context.Context, id int64) error {
	const op = "delete"
	start := time.Now()

	req, err := c.newAuthedRequest(ctx, http.MethodPost, fmt.Sprintf("/dashboard/delete/%d", id), nil, "")
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveOp("files", "delete", "error", time.Since(start).Seconds())
		return apiclient.WrapTransport(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ObserveOp("files", "delete", "failure", time.Since(start).Seconds())
		return apiclient.DecodeError(op, resp)
	}
	metrics.ObserveOp("files", "delete", "success", time.Since(start).Seconds())
	return nil
}

// Open starts a binary download. The filename is resolved in priority
// order: Content-Disposition header, then knownFilename from the record,
// then a generic default. The caller must close Body.
func (c *Client) Open(ctx context.Context, id int64, knownFilename string) (Download, error) {
	const op = "download"
	start := time.Now()

	req, err := c.newAuthedRequest(ctx, http.MethodGet, fmt.Sprintf("/dashboard/download/%d", id), nil, "")
	if err != nil {
		return Download{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveOp("files", "download", "error", time.Since(start).Seconds())
		return Download{}, apiclient.WrapTransport(op, err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		metrics.ObserveOp("files", "download", "failure", time.Since(start).Seconds())
		return Download{}, apiclient.DecodeError(op, resp)
	}

	filename := httputilx.DispositionFilename(resp.Header.Get("Content-Disposition"))
	if filename == "" {
		filename = knownFilename
	}
	if filename == "" {
		filename = "download"
	}

	metrics.ObserveOp("files", "download", "success", time.Since(start).Seconds())
	return Download{
		Filename:    filename,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        resp.Body,
	}, nil
}

// SaveTo drains a download into dir, closing the body. Returns the written
// path.
func (d Download) SaveTo(dir string) (string, error) {
	defer d.Body.Close()
	path := filepath.Join(dir, filepath.Base(d.Filename))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, d.Body); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

func (c *Client) newAuthedRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, apiclient.JoinURL(c.baseURL, path), body)
	if err != nil {
		return nil, apiclient.NetworkFailure(method+" "+path, err)
	}
	if err := c.builder.Apply(req, nil); err != nil {
		return nil, apiclient.Unauthenticated(method+" "+path, 0, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}
