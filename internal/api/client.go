// Package api is the ZenFlow backend gateway: a thin typed client over the
// HTTP/JSON contract. Authenticated calls carry a bearer token; failures
// surface the backend detail message. No retries, no caching; every call
// is a fresh request.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// Error carries the transport status and the backend's detail message.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend: %d %s", e.Status, e.Detail)
}

// TokenFunc supplies the current bearer token, or "" when logged out.
type TokenFunc func() string

// Client issues requests against a single backend base URL.
type Client struct {
	base  string
	http  *http.Client
	token TokenFunc
}

// New creates a client. token may be nil for a purely unauthenticated client.
func New(baseURL string, token TokenFunc) *Client {
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		base:  strings.TrimRight(baseURL, "/"),
		http:  &http.Client{},
		token: token,
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string { return c.base }

func (c *Client) do(req *http.Request, auth bool, out interface{}) error {
	if auth {
		tok := c.token()
		if tok == "" {
			return &Error{Status: http.StatusUnauthorized, Detail: "not logged in"}
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError extracts the backend {detail} message, falling back to the
// HTTP status text when the body is not the expected shape.
func decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode, Detail: http.StatusText(resp.StatusCode)}
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Detail != "" {
		apiErr.Detail = body.Detail
	}
	return apiErr
}

func (c *Client) get(ctx context.Context, path string, auth bool, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, auth, out)
}

func (c *Client) postJSON(ctx context.Context, path string, auth bool, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, auth, out)
}

// postForm sends multipart form data: plain key/value fields plus an
// optional file part. The login exchange and the video upload both use this
// shape; that asymmetry is the backend's contract, not a client choice.
func (c *Client) postForm(ctx context.Context, path string, auth bool, fields map[string]string, fileField, fileName string, file io.Reader, out interface{}) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			return err
		}
	}
	if file != nil {
		part, err := w.CreateFormFile(fileField, fileName)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, file); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req, auth, out)
}
