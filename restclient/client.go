// Package restclient is a thin JSON client for the upstream REST service
// behind the proxy gateway. It performs exactly one HTTP request per call
// and never retries.
package restclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	opentracing "github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"

	"github.com/gqlgate/gqlgate/metrics"
)

const maxErrorBody = 1 << 10

// StatusError is returned for any non-2xx answer.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
}

// IsNotFound reports whether err is, or wraps, a 404 StatusError.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
	metrics *metrics.Metrics
}

type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds each request. Zero means no bound beyond the caller's
// context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithMetrics counts requests by method and status class.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New returns a client that appends request paths to baseURL. Paths must
// already be escaped.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing upstream url %q", baseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("upstream url %q must be http or https", baseURL)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	c := &Client{base: u, http: http.DefaultClient}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get decodes the body of GET path into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post sends body as JSON and decodes the answer into out.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put sends body as JSON and decodes the answer into out.
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Delete decodes the body of DELETE path, if any, into out.
func (c *Client) Delete(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "encoding %s %s body", method, path)
		}
		rd = bytes.NewReader(b)
	}

	endpoint := c.base.String() + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, rd)
	if err != nil {
		return errors.Wrapf(err, "building %s %s", method, path)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	span, _ := opentracing.StartSpanFromContext(ctx, "upstream "+method)
	defer span.Finish()
	ext.SpanKindRPCClient.Set(span)
	ext.HTTPMethod.Set(span, method)
	ext.HTTPUrl.Set(span, endpoint)
	_ = span.Tracer().Inject(span.Context(), opentracing.HTTPHeaders, opentracing.HTTPHeadersCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(method, 0)
		ext.Error.Set(span, true)
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()
	c.metrics.ObserveUpstream(method, resp.StatusCode)
	ext.HTTPStatusCode.Set(span, uint16(resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		ext.Error.Set(span, true)
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(b)}
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "reading %s %s", method, path)
	}
	if out == nil || len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	return errors.Wrapf(json.Unmarshal(b, out), "decoding %s %s", method, path)
}
