// Package calypso is the HTTP client for the Calypso measurement extraction service.
//
// It implements core.Backend over three endpoints:
//
//	POST /upload        multipart, one "files" part per PDF
//	POST /download_csv  JSON {data, include_stats} -> CSV bytes
//	GET  /json_data     JSON rendition of the last processed dataset
//
// Non-2xx responses become *core.TransportError; connection failures and
// undecodable bodies become *core.NetworkError.
package calypso

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/JonMunkholm/calypso/internal/core"
)

// Endpoint paths relative to the base URL.
const (
	PathUpload      = "upload"
	PathDownloadCSV = "download_csv"
	PathJSONData    = "json_data"
)

// UploadField is the multipart field name repeated for every file.
const UploadField = "files"

// maxErrorBody caps how much of an error response is read before discarding.
const maxErrorBody = 64 * 1024

// Client talks to one extraction service instance.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds each request. Zero leaves requests unbounded, relying on
// the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL %q must be http or https", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the service base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

var _ core.Backend = (*Client)(nil)

// Upload streams batch as a multipart form and decodes the JSON response.
// File contents are piped into the request body, never buffered whole.
func (c *Client) Upload(ctx context.Context, batch core.FileBatch) (*core.UploadResponse, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeParts(mw, batch))
	}()

	req, err := c.newRequest(ctx, http.MethodPost, PathUpload, pr)
	if err != nil {
		pr.Close()
		return nil, &core.NetworkError{Op: "upload", Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		pr.Close()
		return nil, &core.NetworkError{Op: "upload", Err: err}
	}
	defer resp.Body.Close()

	if err := checkStatus("upload", resp); err != nil {
		return nil, err
	}

	out, err := core.DecodeUploadResponse(resp.Body)
	if err != nil {
		return nil, &core.NetworkError{Op: "upload", Err: fmt.Errorf("decode response: %w", err)}
	}
	return out, nil
}

// writeParts writes one "files" part per file in batch order, then closes the form.
func writeParts(mw *multipart.Writer, batch core.FileBatch) error {
	for _, f := range batch.Files {
		if err := writePart(mw, f); err != nil {
			return err
		}
	}
	return mw.Close()
}

func writePart(mw *multipart.Writer, f core.FileHandle) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		UploadField, escapeQuotes(f.Name())))
	h.Set("Content-Type", "application/pdf")

	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create part for %s: %w", f.Name(), err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Name(), err)
	}
	defer rc.Close()

	if _, err := io.Copy(part, rc); err != nil {
		return fmt.Errorf("copy %s: %w", f.Name(), err)
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// DownloadCSV posts the export request and returns the CSV payload.
func (c *Client) DownloadCSV(ctx context.Context, exportReq core.ExportRequest) ([]byte, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	body, err := json.Marshal(exportReq)
	if err != nil {
		return nil, fmt.Errorf("encode export request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, PathDownloadCSV, bytes.NewReader(body))
	if err != nil {
		return nil, &core.NetworkError{Op: "download_csv", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &core.NetworkError{Op: "download_csv", Err: err}
	}
	defer resp.Body.Close()

	if err := checkStatus("download_csv", resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &core.NetworkError{Op: "download_csv", Err: fmt.Errorf("read body: %w", err)}
	}
	return data, nil
}

// JSONData fetches the raw JSON rendition of the last processed dataset.
func (c *Client) JSONData(ctx context.Context) ([]byte, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodGet, PathJSONData, nil)
	if err != nil {
		return nil, &core.NetworkError{Op: "json_data", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &core.NetworkError{Op: "json_data", Err: err}
	}
	defer resp.Body.Close()

	if err := checkStatus("json_data", resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &core.NetworkError{Op: "json_data", Err: fmt.Errorf("read body: %w", err)}
	}
	return data, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), body)
	if err != nil {
		return nil, err
	}
	if id := core.OperationIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}
	return req, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

// checkStatus turns a non-2xx response into a TransportError, draining a
// bounded amount of the body so the connection can be reused.
func checkStatus(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	return &core.TransportError{Op: op, Status: resp.StatusCode}
}
