// Package harmonyclient is a client for the Harmony data-processing
// service: submit processing requests, follow job progress, list result
// links, and read the STAC catalog a finished job publishes.
package harmonyclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/earthdata-go/harmony/auth"
	"github.com/earthdata-go/harmony/config"
)

// Client is a reusable Harmony API client.
type Client struct {
	httpClient     *http.Client
	baseURL        *url.URL
	defaultHeaders http.Header
	retryPolicy    RetryPolicy
	logger         Logger
	credentials    auth.Credentials
}

// New constructs a Client with provided options. Without a WithBaseURL,
// WithEnvironment, or WithConfig option the client targets the UAT
// environment, matching the config package default.
func New(opts ...ClientOption) (*Client, error) {
	c := &Client{
		httpClient:     &http.Client{},
		defaultHeaders: make(http.Header),
		retryPolicy:    DefaultRetryPolicy,
	}
	c.defaultHeaders.Set("Accept", "application/json")
	c.defaultHeaders.Set("User-Agent", "harmony-go/0.1")

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.baseURL == nil {
		u, err := url.Parse("https://" + config.UAT.Hostname())
		if err != nil {
			return nil, err
		}
		c.baseURL = u
	}
	if c.httpClient == nil {
		return nil, ErrNilHTTPClient
	}

	if !c.credentials.Empty() {
		transport := c.credentials.Transport(c.httpClient.Transport)
		// Copy so a shared http.Client is not mutated.
		httpClient := *c.httpClient
		httpClient.Transport = transport
		c.httpClient = &httpClient
	}

	return c, nil
}

// HTTPClient returns the underlying HTTP client, including any
// credential transport. Downloads of protected result links should use
// it so they authenticate the same way API calls do.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// Jobs returns a service for job lifecycle operations.
func (c *Client) Jobs() *JobService {
	return &JobService{client: c}
}

// Catalog returns a service for reading job result catalogs.
func (c *Client) Catalog() *CatalogService {
	return &CatalogService{client: c}
}

func (c *Client) buildURL(endpoint string, query url.Values) (string, error) {
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	u := *c.baseURL
	u.Path = path.Join(c.baseURL.Path, endpoint)
	if strings.HasSuffix(endpoint, "/") && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

func (c *Client) newRequest(ctx context.Context, method, urlStr string, body any, opts []RequestOption) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		buf := &bytes.Buffer{}
		enc := json.NewEncoder(buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(body); err != nil {
			return nil, err
		}
		reader = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, urlStr, reader)
	if err != nil {
		return nil, err
	}

	for key, values := range c.defaultHeaders {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(req); err != nil {
			return nil, err
		}
	}

	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func (c *Client) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if c.logger != nil {
		c.logger.Debugf("harmonyclient: %s %s", req.Method, req.URL)
	}

	resp, err := c.retry(ctx, func() (*http.Response, error) {
		return c.httpClient.Do(req)
	})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer resp.Body.Close()
	data, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if readErr != nil {
		return nil, readErr
	}

	apiErr := &APIError{Status: resp.StatusCode, Raw: data}
	if err := json.Unmarshal(data, apiErr); err != nil {
		// Fallback to plain message.
		apiErr.Description = string(data)
	}
	if c.logger != nil {
		c.logger.Errorf("harmonyclient: request failed status=%d", resp.StatusCode)
	}
	return nil, apiErr
}

// doJSON performs a request against an endpoint relative to the base URL.
func (c *Client) doJSON(ctx context.Context, method, endpoint string, query url.Values, body any, out any, opts []RequestOption) error {
	urlStr, err := c.buildURL(endpoint, query)
	if err != nil {
		return err
	}
	return c.doJSONURL(ctx, method, urlStr, body, out, opts)
}

// doJSONURL performs a request against an absolute URL. Pagination links
// returned by the service are absolute, so iterators go through here.
func (c *Client) doJSONURL(ctx context.Context, method, urlStr string, body any, out any, opts []RequestOption) error {
	req, err := c.newRequest(ctx, method, urlStr, body, opts)
	if err != nil {
		return err
	}

	resp, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	dec := json.NewDecoder(resp.Body)
	return dec.Decode(out)
}

// ValidateCredentials checks the client's Earthdata Login credentials by
// listing jobs, which requires authentication.
func (c *Client) ValidateCredentials(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/jobs", nil, nil, nil, nil)
}

func decodeJSON(r io.Reader, out any) error {
	return json.NewDecoder(r).Decode(out)
}

func cloneValues(values url.Values) url.Values {
	if len(values) == 0 {
		return nil
	}
	cp := make(url.Values, len(values))
	for key, v := range values {
		dst := make([]string, len(v))
		copy(dst, v)
		cp[key] = dst
	}
	return cp
}
