// Package api is the single access layer to the SIAGA CS backend.
//
// Every call goes through Client, which attaches the session token, checks
// the {success, data, error} envelope and clears the session as soon as the
// backend answers 401 or 403. Nothing here retries, caches or deduplicates
// requests.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/siagacs/siaga-admin/internal/log"
	"github.com/siagacs/siaga-admin/internal/metrics"
	"github.com/siagacs/siaga-admin/internal/session"
	"github.com/siagacs/siaga-admin/internal/telemetry"
	"github.com/siagacs/siaga-admin/internal/version"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:8686"

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// AuthFailureHook runs after the session was cleared because the backend
// answered 401 or 403. Hooks must be safe to call concurrently.
type AuthFailureHook func(ctx context.Context, err *Error)

// Client talks to the backend on behalf of a session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Session
	logger     *log.Logger
	userAgent  string
	tracer     trace.Tracer
	metrics    *metrics.Metrics

	hooksMu sync.RWMutex
	hooks   []AuthFailureHook
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the logger. Requests are logged at debug level.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTracer records a client span per request.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) {
		if t != nil {
			c.tracer = t
		}
	}
}

// WithMetrics counts requests by method, route and status.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithAuthFailureHook registers a hook at construction time.
func WithAuthFailureHook(h AuthFailureHook) Option {
	return func(c *Client) {
		c.hooks = append(c.hooks, h)
	}
}

// NewClient creates a client for baseURL. An empty baseURL falls back to
// DefaultBaseURL.
func NewClient(baseURL string, sess *session.Session, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		session:   sess,
		logger:    log.Discard(),
		userAgent: version.GetInfo().UserAgent(),
		tracer:    noop.NewTracerProvider().Tracer("api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend origin without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Session returns the session the client authenticates with.
func (c *Client) Session() *session.Session {
	return c.session
}

// OnAuthFailure registers a hook that runs on every 401/403.
func (c *Client) OnAuthFailure(h AuthFailureHook) {
	c.hooksMu.Lock()
	defer c.hooksMu.Unlock()
	c.hooks = append(c.hooks, h)
}

// Request describes one backend call.
type Request struct {
	// Method defaults to GET.
	Method string
	// Path is relative to the base URL, e.g. "/v1/admin/me".
	Path  string
	Query url.Values
	// Body is sent as-is; use JSONBody to serialize a payload.
	Body    []byte
	Headers http.Header
	// NoAuth suppresses the Authorization header.
	NoAuth bool
	// NoTeardown keeps the stored session and skips the auth failure hooks
	// when the backend answers 401 or 403. Login sets it so that a wrong
	// password does not sign out a session that is still valid.
	NoTeardown bool
}

// JSONBody serializes v for Request.Body.
func JSONBody(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return data, nil
}

// Do performs req and checks the envelope. It succeeds only for a 2xx
// response whose envelope has success=true.
func (c *Client) Do(ctx context.Context, req Request) (*Result, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	x, err := c.send(ctx, req, body, "application/json")
	if err != nil {
		return nil, err
	}
	defer x.span.End()
	return c.readEnvelope(ctx, x)
}

// exchange is a response whose request span stays open until the caller has
// judged the body.
type exchange struct {
	resp       *http.Response
	requestID  string
	span       trace.Span
	noTeardown bool
}

// send performs the request. On success the caller owns x.span and must
// end it after recording the outcome.
func (c *Client) send(ctx context.Context, req Request, body io.Reader, contentType string) (*exchange, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	route := Route(req.Path)
	ctx, span := telemetry.StartRequestSpan(ctx, c.tracer, method, route)

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		telemetry.RecordError(span, err)
		span.End()
		return nil, &Error{Kind: KindTransport, Message: MessageRequestFailed, Cause: fmt.Errorf("failed to create request: %w", err)}
	}

	requestID := uuid.NewString()
	for key, values := range req.Headers {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set(RequestIDHeader, requestID)

	if !req.NoAuth && c.session != nil {
		if token, ok := c.session.Token(); ok {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	span.SetAttributes(attribute.String("request.id", requestID))

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	c.metrics.ObserveRequest(method, route, statusOf(resp), time.Since(start))
	if err != nil {
		telemetry.RecordError(span, err)
		span.End()
		c.logger.DebugContext(ctx, "request failed",
			"method", method, "path", req.Path, "request_id", requestID, "error", err)
		return nil, &Error{Kind: KindTransport, Message: MessageRequestFailed, Cause: err}
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	c.logger.DebugContext(ctx, "request completed",
		"method", method,
		"path", req.Path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", requestID,
	)
	return &exchange{resp: resp, requestID: requestID, span: span, noTeardown: req.NoTeardown}, nil
}

func statusOf(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

// Route replaces numeric path segments with ":id" so that metric labels and
// span names do not grow with every record.
func Route(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		if _, err := strconv.ParseInt(seg, 10, 64); err == nil {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}

func (c *Client) readEnvelope(ctx context.Context, x *exchange) (*Result, error) {
	resp := x.resp
	defer resp.Body.Close()

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	raw, readErr := io.ReadAll(resp.Body)

	var env Envelope
	parseErr := readErr
	if parseErr == nil {
		parseErr = json.Unmarshal(raw, &env)
	}

	if parseErr != nil {
		apiErr := &Error{Kind: KindParse, Status: resp.StatusCode, Message: MessageRequestFailed, Cause: parseErr}
		if ok {
			apiErr.Message = MessageInvalidResponse
		}
		return nil, c.fail(ctx, x, apiErr)
	}

	if !ok || !env.Success {
		apiErr := &Error{
			Kind:     KindHTTP,
			Status:   resp.StatusCode,
			Message:  MessageRequestFailed,
			Envelope: &env,
		}
		if ok {
			apiErr.Kind = KindEnvelope
		}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			if env.Error.Message != "" {
				apiErr.Message = env.Error.Message
			}
		}
		return nil, c.fail(ctx, x, apiErr)
	}

	telemetry.RecordSuccess(x.span)
	return &Result{Status: resp.StatusCode, RequestID: x.requestID, Envelope: env}, nil
}

// fail marks the request span failed and tears the session down for auth
// failures before handing the error back, so callers always observe a
// cleared session unless the request opted out with NoTeardown.
func (c *Client) fail(ctx context.Context, x *exchange, apiErr *Error) error {
	telemetry.RecordError(x.span, apiErr)
	if !apiErr.AuthFailure() || x.noTeardown {
		return apiErr
	}

	if c.session != nil {
		if err := c.session.Clear(); err != nil {
			c.logger.WithError(err).Warn("failed to clear session after auth failure")
		}
	}
	c.logger.InfoContext(ctx, "session cleared after auth failure", "status", apiErr.Status)

	c.hooksMu.RLock()
	hooks := append([]AuthFailureHook(nil), c.hooks...)
	c.hooksMu.RUnlock()
	for _, h := range hooks {
		h(ctx, apiErr)
	}
	return apiErr
}
