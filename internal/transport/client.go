// Package transport implements the HTTP client for the remote catalog
// service: four operations on the /api/products resource, with multipart
// encoding for mutations. The adapter performs no retries; retry policy
// belongs to callers.
package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/xenking/catalog-client/internal/domain/catalog"
)

// resourcePath is the catalog service's product collection resource.
const resourcePath = "/api/products"

// Compile-time check ensuring Client satisfies the catalog API.
var _ catalog.API = (*Client)(nil)

// Config holds the transport settings.
type Config struct {
	// BaseURL is the service root, e.g. https://catalog.example.com.
	// The /api/products resource path is appended to it.
	BaseURL string
	// Timeout bounds each request end to end. Zero means no timeout
	// beyond what the underlying transport enforces.
	Timeout time.Duration
}

// Client talks to the catalog service over HTTP.
type Client struct {
	base    string
	http    *http.Client
	metrics *Metrics
}

// NewClient validates the base URL and builds an instrumented HTTP client.
// metrics may be nil; tp may be nil to disable tracing.
func NewClient(cfg Config, metrics *Metrics, tp trace.TracerProvider) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse base URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("base URL %q: scheme must be http or https", cfg.BaseURL)
	}

	opts := []otelhttp.Option{}
	if tp != nil {
		opts = append(opts, otelhttp.WithTracerProvider(tp))
	}

	return &Client{
		base: strings.TrimRight(u.String(), "/") + resourcePath,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport, opts...),
		},
		metrics: metrics,
	}, nil
}

// ListAll fetches the full current catalog in server order.
func (c *Client) ListAll(ctx context.Context) ([]catalog.Product, error) {
	resp, err := c.do(ctx, http.MethodGet, c.base, nil, "")
	if err != nil {
		c.metrics.observe(opList, false)
		return nil, &catalog.TransportError{Op: opList, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.observe(opList, false)
		return nil, statusError(opList, resp.StatusCode, false)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.observe(opList, false)
		return nil, &catalog.TransportError{Op: opList, Err: errors.Wrap(err, "read body")}
	}

	products, err := decodeList(body)
	if err != nil {
		c.metrics.observe(opList, false)
		return nil, &catalog.TransportError{Op: opList, Err: err}
	}

	c.metrics.observe(opList, true)
	return products, nil
}

// Create submits a draft as a multipart payload and returns the confirmed
// product carrying its server-assigned ID. The draft must already be
// validated; the image part is mandatory here.
func (c *Client) Create(ctx context.Context, draft catalog.Draft) (catalog.Product, error) {
	body, contentType, err := encodeDraft(draft)
	if err != nil {
		c.metrics.observe(opCreate, false)
		return catalog.Product{}, &catalog.TransportError{Op: opCreate, Err: err}
	}

	resp, err := c.do(ctx, http.MethodPost, c.base, body, contentType)
	if err != nil {
		c.metrics.observe(opCreate, false)
		return catalog.Product{}, &catalog.TransportError{Op: opCreate, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.observe(opCreate, false)
		return catalog.Product{}, statusError(opCreate, resp.StatusCode, false)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.observe(opCreate, false)
		return catalog.Product{}, &catalog.TransportError{Op: opCreate, Err: errors.Wrap(err, "read body")}
	}

	created, err := decodeCreated(raw)
	if err != nil {
		c.metrics.observe(opCreate, false)
		return catalog.Product{}, &catalog.TransportError{Op: opCreate, Err: err}
	}

	c.metrics.observe(opCreate, true)
	return created, nil
}

// Update saves the patch for the product with the given id. The image part
// is included only when the patch carries a newly selected image; the
// service keeps the stored image otherwise.
func (c *Client) Update(ctx context.Context, id string, patch catalog.Patch) error {
	body, contentType, err := encodePatch(patch)
	if err != nil {
		c.metrics.observe(opUpdate, false)
		return &catalog.TransportError{Op: opUpdate, Err: err}
	}

	resp, err := c.do(ctx, http.MethodPost, c.itemURL(id), body, contentType)
	if err != nil {
		c.metrics.observe(opUpdate, false)
		return &catalog.TransportError{Op: opUpdate, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.observe(opUpdate, false)
		return statusError(opUpdate, resp.StatusCode, true)
	}

	c.metrics.observe(opUpdate, true)
	return nil
}

// Remove deletes the product with the given id.
func (c *Client) Remove(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, c.itemURL(id), nil, "")
	if err != nil {
		c.metrics.observe(opDelete, false)
		return &catalog.TransportError{Op: opDelete, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.observe(opDelete, false)
		return statusError(opDelete, resp.StatusCode, true)
	}

	c.metrics.observe(opDelete, true)
	return nil
}

func (c *Client) itemURL(id string) string {
	return c.base + "/" + url.PathEscape(id)
}

// do builds and executes one request. Every outbound request carries a
// fresh X-Request-ID so failures can be correlated with service logs.
func (c *Client) do(ctx context.Context, method, target string, body *bytes.Buffer, contentType string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = body
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("X-Request-ID", uuid.New().String())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	return resp, nil
}

// statusError maps a non-2xx status to a TransportError. For operations
// targeting a single product a 404 wraps catalog.ErrNotFound so callers
// can distinguish a vanished target from other failures.
func statusError(op string, status int, itemTarget bool) *catalog.TransportError {
	err := errors.Errorf("unexpected status %d", status)
	if itemTarget && status == http.StatusNotFound {
		err = catalog.ErrNotFound
	}
	return &catalog.TransportError{Op: op, Status: status, Err: err}
}
