// Package client talks to the portfolio API over HTTP, keeping the admin
// session cookie in a jar between calls.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"net/url"
	"strconv"
	"time"

	"portfolio-backend/internal/models"
)

// APIError is a non-2xx response. Message is the server's "message" field
// when it sent one.
type APIError struct {
	Status  int
	Message string
	Code    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Status)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type Client struct {
	baseURL *url.URL
	hc      *http.Client
}

type Options struct {
	BaseURL string
	Timeout time.Duration
}

func New(opt Options) (*Client, error) {
	if opt.BaseURL == "" {
		return nil, errors.New("base url is required")
	}
	u, err := url.Parse(opt.BaseURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", opt.BaseURL)
	}

	jar, _ := cookiejar.New(nil)
	timeout := opt.Timeout
	if timeout == 0 {
		timeout = 2 * time.Minute
	}
	return &Client{baseURL: u, hc: &http.Client{Jar: jar, Timeout: timeout}}, nil
}

// File is an optional upload attached to a project create or update.
type File struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// ProjectInput carries the editable project fields. Zero values are sent as
// empty, so callers updating a subset should use UpdateFields.
type ProjectInput struct {
	Title        string
	Year         int
	Role         string
	Synopsis     string
	VideoURL     string
	ThumbnailURL string
	Thumbnail    *File
	Video        *File
}

func (in ProjectInput) fields() map[string]string {
	return map[string]string{
		"title":        in.Title,
		"year":         strconv.Itoa(in.Year),
		"role":         in.Role,
		"synopsis":     in.Synopsis,
		"videoUrl":     in.VideoURL,
		"thumbnailUrl": in.ThumbnailURL,
	}
}

func (in ProjectInput) jsonBody() map[string]any {
	body := map[string]any{
		"title":    in.Title,
		"year":     in.Year,
		"role":     in.Role,
		"synopsis": in.Synopsis,
	}
	if in.VideoURL != "" {
		body["videoUrl"] = in.VideoURL
	}
	if in.ThumbnailURL != "" {
		body["thumbnailUrl"] = in.ThumbnailURL
	}
	return body
}

func (c *Client) Login(ctx context.Context, password string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/admin/login", models.LoginRequest{Password: password}, nil)
}

func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/admin/logout", nil, nil)
}

func (c *Client) Status(ctx context.Context) (bool, error) {
	var resp models.StatusResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/status", nil, &resp); err != nil {
		return false, err
	}
	return resp.LoggedIn, nil
}

func (c *Client) ListProjects(ctx context.Context) ([]models.ProjectResponse, error) {
	var resp []models.ProjectResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/projects", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) GetProject(ctx context.Context, id string) (*models.ProjectResponse, error) {
	var resp models.ProjectResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/projects/"+id, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateProject sends JSON, or a multipart form when in carries a file.
func (c *Client) CreateProject(ctx context.Context, in ProjectInput) (*models.ProjectResponse, error) {
	return c.sendProject(ctx, http.MethodPost, "/api/projects", in)
}

// UpdateProject replaces every editable field with the values in in.
func (c *Client) UpdateProject(ctx context.Context, id string, in ProjectInput) (*models.ProjectResponse, error) {
	return c.sendProject(ctx, http.MethodPut, "/api/projects/"+id, in)
}

// UpdateFields sends a partial JSON update with only the given keys.
func (c *Client) UpdateFields(ctx context.Context, id string, fields map[string]any) (*models.ProjectResponse, error) {
	var resp models.ProjectResponse
	if err := c.doJSON(ctx, http.MethodPut, "/api/projects/"+id, fields, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/projects/"+id, nil, nil)
}

func (c *Client) sendProject(ctx context.Context, method, path string, in ProjectInput) (*models.ProjectResponse, error) {
	var resp models.ProjectResponse
	if in.Thumbnail == nil && in.Video == nil {
		if err := c.doJSON(ctx, method, path, in.jsonBody(), &resp); err != nil {
			return nil, err
		}
		return &resp, nil
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range in.fields() {
		if v == "" {
			continue
		}
		if err := w.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	for field, f := range map[string]*File{"thumbnail": in.Thumbnail, "video": in.Video} {
		if f == nil {
			continue
		}
		if err := writeFile(w, field, f); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	if err := c.do(ctx, method, path, &buf, w.FormDataContentType(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func writeFile(w *multipart.Writer, field string, f *File) error {
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, f.Name))
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	hdr.Set("Content-Type", ct)
	part, err := w.CreatePart(hdr)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, f.Body)
	return err
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var buf io.Reader
	contentType := ""
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, buf, contentType, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	u := c.baseURL.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var er models.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&er)
		return &APIError{Status: resp.StatusCode, Message: er.Message, Code: er.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
