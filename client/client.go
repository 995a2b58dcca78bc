// Package client is a typed HTTP client for the NGO administration API.
// Inputs are validated locally before any request is sent.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"ngoadmin/models"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	totalCountHeader   = "x-total-count"
)

type Client struct {
	baseURL string
	token   string
	http    *http.Client

	Assets        *AssetService
	Aid           *AidService
	Supplies      *SuppliesService
	Categories    *CategoryService
	Projects      *ProjectService
	Deliberations *DeliberationService
	Users         *UserService
}

type Option func(*Client)

// WithHTTPClient replaces the default client with a 30s timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sends a bearer token with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New returns a client for the API mounted at baseURL, e.g.
// "http://localhost:8080/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Assets = &AssetService{c: c}
	c.Aid = &AidService{c: c}
	c.Supplies = &SuppliesService{c: c}
	c.Categories = &CategoryService{c: c}
	c.Projects = &ProjectService{c: c}
	c.Deliberations = &DeliberationService{c: c}
	c.Users = &UserService{c: c}
	return c
}

// Attachment is a file sent with a multipart request.
type Attachment struct {
	Name    string
	Content io.Reader
}

// File is a downloaded attachment.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// ListOptions are the list filters understood by the API. Zero values are
// not sent.
type ListOptions struct {
	Search   string
	Type     string
	Status   string
	Nature   string
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

func (o ListOptions) values() url.Values {
	v := url.Values{}
	set := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	set("search", o.Search)
	set("type", o.Type)
	set("status", o.Status)
	set("suppliesNature", o.Nature)
	if o.From != nil {
		v.Set("from", o.From.Format("2006-01-02"))
	}
	if o.To != nil {
		v.Set("to", o.To.Format("2006-01-02"))
	}
	if o.Page > 0 {
		v.Set("page", strconv.Itoa(o.Page))
	}
	if o.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(o.PageSize))
	}
	return v
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// do sends req and decodes the data of the envelope into out when out is
// not nil. Error statuses are turned into *APIError or ErrUnauthorized.
func (c *Client) do(req *http.Request, out any) (http.Header, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return resp.Header, decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return resp.Header, nil
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return resp.Header, fmt.Errorf("decode %s: %w", req.URL.Path, err)
	}
	if len(env.Data) == 0 {
		return resp.Header, nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return resp.Header, fmt.Errorf("decode %s: %w", req.URL.Path, err)
	}
	return resp.Header, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) (http.Header, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	var buf bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&buf).Encode(in); err != nil {
			return err
		}
	}
	req, err := c.newRequest(ctx, method, path, nil, &buf)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	_, err = c.do(req, out)
	return err
}

// sendForm posts values and an optional file as multipart/form-data.
func (c *Client) sendForm(ctx context.Context, method, path string, values url.Values, fileField string, file *Attachment, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, vals := range values {
		for _, val := range vals {
			if err := mw.WriteField(key, val); err != nil {
				return err
			}
		}
	}
	if file != nil && file.Content != nil {
		fw, err := mw.CreateFormFile(fileField, file.Name)
		if err != nil {
			return err
		}
		if _, err := io.Copy(fw, file.Content); err != nil {
			return fmt.Errorf("read %s: %w", file.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := c.newRequest(ctx, method, path, nil, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	_, err = c.do(req, out)
	return err
}

// download fetches an attachment. The name comes from Content-Disposition,
// or is fallback plus an extension guessed from the content type.
func (c *Client) download(ctx context.Context, path, fallback string) (*File, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "*/*")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, decodeError(resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	ct := resp.Header.Get("Content-Type")
	return &File{
		Name:        downloadName(resp.Header.Get("Content-Disposition"), ct, fallback),
		ContentType: ct,
		Data:        data,
	}, nil
}

func downloadName(disposition, contentType, fallback string) string {
	if _, params, err := mime.ParseMediaType(disposition); err == nil {
		if name := filepath.Base(params["filename"]); name != "." && name != "/" && name != "" {
			return name
		}
	}
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		if exts, _ := mime.ExtensionsByType(mt); len(exts) > 0 {
			return fallback + exts[0]
		}
	}
	return fallback
}

func (c *Client) delete(ctx context.Context, path string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return err
	}
	_, err = c.do(req, nil)
	return err
}

// list fetches one page and the total read from x-total-count. A missing
// header falls back to the page length.
func list[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, int, error) {
	var items []T
	header, err := c.getJSON(ctx, path, query, &items)
	if err != nil {
		return nil, 0, err
	}
	total := len(items)
	if n, err := strconv.Atoi(header.Get(totalCountHeader)); err == nil {
		total = n
	}
	return items, total, nil
}

func get[T any](ctx context.Context, c *Client, path string) (*T, error) {
	var out T
	if _, err := c.getJSON(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func idPath(base string, id int, rest ...string) string {
	p := base + "/" + strconv.Itoa(id)
	for _, r := range rest {
		p += "/" + r
	}
	return p
}

func checkID(id int) error {
	if id <= 0 {
		return models.NewFieldError("id", models.MsgInvalidValue)
	}
	return nil
}
