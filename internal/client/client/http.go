package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/ministrysync/internal/client/models"
	"github.com/dmitrijs2005/ministrysync/internal/logging"
)

// HTTPClient implements Client over net/http.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	log     logging.Logger
}

// Option customizes an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient swaps the underlying *http.Client (tests, custom transports).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithLogger attaches a logger; the default discards.
func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

// NewHTTPClient builds a client for baseURL. timeout bounds each call;
// zero leaves requests unbounded.
func NewHTTPClient(baseURL string, timeout time.Duration, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	c := &HTTPClient{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *HTTPClient) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = u.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// doJSON sends body (if any) as JSON and decodes the response into out.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *HTTPClient) send(req *http.Request, out any) error {
	ctx := req.Context()
	started := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.log.Debug(ctx, "http call",
		"method", req.Method, "path", req.URL.Path, "status", resp.StatusCode, "took", time.Since(started))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp, data)
	}
	return decodeEnvelope(resp.StatusCode, data, out)
}

// envelope is the optional wrapper some endpoints put around payloads.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func decodeEnvelope(status int, data []byte, out any) error {
	trimmed := bytes.TrimSpace(data)

	if len(trimmed) > 0 && trimmed[0] == '{' {
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err == nil {
			if env.Success != nil && !*env.Success {
				msg := env.Message
				if msg == "" {
					msg = "request failed"
				}
				return &APIError{Status: status, Message: msg}
			}
			if env.Data != nil {
				trimmed = env.Data
			}
		}
	}

	if out == nil {
		return nil
	}
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func newAPIError(resp *http.Response, data []byte) *APIError {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.Unmarshal(data, &body)

	msg := body.Message
	if msg == "" {
		msg = body.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}

// checkEntity validates a decoded entity and insists on a server identity.
func checkEntity[T models.Identifiable](item T) error {
	if item.GetID() == "" {
		return fmt.Errorf("%w: missing identity", ErrMalformedResponse)
	}
	if err := models.Validate(item); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// keepValid drops list items that fail validation, logging each one.
func keepValid[T models.Identifiable](ctx context.Context, log logging.Logger, path string, items []T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if err := checkEntity(item); err != nil {
			log.Warn(ctx, "dropping invalid record", "path", path, "id", item.GetID(), "err", err)
			continue
		}
		out = append(out, item)
	}
	return out
}

func (c *HTTPClient) Sermons() SermonAPI {
	return &sermons{Collection: NewCollection[models.Sermon](c, "/api/sermons")}
}

func (c *HTTPClient) Events() EventAPI {
	return &events{Collection: NewCollection[models.Event](c, "/api/events")}
}

func (c *HTTPClient) Registrations() RegistrationAPI {
	return &registrations{Collection: NewCollection[models.Registration](c, "/api/registrations")}
}

func (c *HTTPClient) Announcements() Resource[models.Announcement] {
	return NewCollection[models.Announcement](c, "/api/announcements")
}

func (c *HTTPClient) Gallery() Resource[models.GalleryImage] {
	return NewCollection[models.GalleryImage](c, "/api/gallery")
}

func (c *HTTPClient) Ministries() Resource[models.Ministry] {
	return NewCollection[models.Ministry](c, "/api/ministries")
}

func (c *HTTPClient) ServiceTimes() Resource[models.ServiceTime] {
	return NewCollection[models.ServiceTime](c, "/api/servicetimes")
}

func (c *HTTPClient) Uploads() UploadAPI {
	return &uploads{c: c}
}

// SendContact posts the public contact form.
func (c *HTTPClient) SendContact(ctx context.Context, msg models.ContactMessage) error {
	if err := models.Validate(msg); err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodPost, "/api/contact", nil, msg, nil)
}

// Ping checks that the backend answers at all; any HTTP response counts.
func (c *HTTPClient) Ping(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodGet, "/api/servicetimes", nil, nil, nil)
	var apiErr *APIError
	if err != nil && !errors.As(err, &apiErr) {
		return err
	}
	return nil
}
