package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/aryan0dhankhar/allocdesk/internal/apperror"
	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/observability/metrics"
	"github.com/aryan0dhankhar/allocdesk/internal/reliability/circuitbreaker"
)

const requestIDHeader = "X-Request-ID"

// maxBodyBytes bounds JSON responses; exports are streamed and not limited.
const maxBodyBytes = 16 << 20

var (
	ErrInvalidKind         = errors.New("invalid entity kind")
	ErrUnsupportedAction   = errors.New("action not supported for entity kind")
	ErrMissingQualifier    = errors.New("action requires a qualifier")
	ErrUnexpectedQualifier = errors.New("action does not take a qualifier")
)

// Invoker is the single entry point the resolver and the workflows depend on.
type Invoker interface {
	Invoke(ctx context.Context, req Request, out any) error
}

// Request selects one action of one endpoint group.
type Request struct {
	Kind      domain.Kind
	Action    domain.Action
	Qualifier string
	Query     url.Values
	Body      any
}

// Options configure a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Session    domain.Session
	Breaker    *circuitbreaker.CircuitBreaker
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client issues every remote call of the application. It is safe for
// concurrent use.
type Client struct {
	baseURL    *url.URL
	session    domain.Session
	breaker    *circuitbreaker.CircuitBreaker
	httpClient *http.Client
	logger     *slog.Logger
}

var _ Invoker = (*Client)(nil)

// NewClient validates the base URL and builds a client bound to one session.
func NewClient(opts Options) (*Client, error) {
	raw := strings.TrimSpace(opts.BaseURL)
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url: %q", opts.BaseURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = newHTTPClient(opts.Timeout)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Breaker != nil {
		opts.Breaker.SetStateChangeCallback(func(from, to circuitbreaker.State) {
			metrics.SetBreakerState(int(to))
			logger.Warn("gateway breaker state changed",
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		})
	}

	return &Client{
		baseURL:    u,
		session:    opts.Session,
		breaker:    opts.Breaker,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(transport),
	}
}

// Session returns the session the client attaches to every call.
func (c *Client) Session() domain.Session {
	return c.session
}

// WithSession returns a copy of the client bound to another session. The
// breaker and HTTP client are shared.
func (c *Client) WithSession(s domain.Session) *Client {
	cp := *c
	cp.session = s
	return &cp
}

// URL renders the endpoint of req without sending it.
func (c *Client) URL(req Request) (string, error) {
	if err := validate(req); err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(c.baseURL.String())
	if seg := req.Kind.PathSegment(); seg != "" {
		b.WriteString("/")
		b.WriteString(seg)
	}
	b.WriteString("/")
	b.WriteString(req.Action.String())
	if req.Action.NeedsQualifier() {
		b.WriteString("/")
		b.WriteString(url.PathEscape(req.Qualifier))
	}
	if len(req.Query) > 0 {
		b.WriteString("?")
		b.WriteString(req.Query.Encode())
	}
	return b.String(), nil
}

func validate(req Request) error {
	if !req.Kind.Valid() {
		return ErrInvalidKind
	}
	if !req.Kind.Supports(req.Action) {
		return fmt.Errorf("%w: %s/%s", ErrUnsupportedAction, req.Kind, req.Action)
	}
	q := strings.TrimSpace(req.Qualifier)
	if req.Action.NeedsQualifier() && q == "" {
		return fmt.Errorf("%w: %s/%s", ErrMissingQualifier, req.Kind, req.Action)
	}
	if !req.Action.NeedsQualifier() && q != "" {
		return fmt.Errorf("%w: %s/%s", ErrUnexpectedQualifier, req.Kind, req.Action)
	}
	return nil
}

// Invoke sends req and decodes a success payload into out (which may be nil).
// A *string out receives plain-text bodies verbatim.
func (c *Client) Invoke(ctx context.Context, req Request, out any) error {
	start := time.Now()
	resp, err := c.send(ctx, req)
	if err != nil {
		c.observe(req, "transport", start, 0, err)
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.breaker.RecordFailure()
		c.observe(req, "transport", start, resp.StatusCode, err)
		return apperror.Transport(fmt.Errorf("read response: %w", err))
	}
	c.breaker.RecordSuccess()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.observe(req, "remote", start, resp.StatusCode, nil)
		return apperror.Remote(resp.StatusCode, extractMessage(body))
	}
	c.observe(req, "ok", start, resp.StatusCode, nil)

	if err := decode(body, out); err != nil {
		return &apperror.Error{
			Kind:    apperror.KindRemote,
			Status:  resp.StatusCode,
			Message: "Unexpected response from server",
			Err:     err,
		}
	}
	return nil
}

// send builds and issues the request. The caller owns resp.Body.
func (c *Client) send(ctx context.Context, req Request) (*http.Response, error) {
	target, err := c.URL(req)
	if err != nil {
		return nil, err
	}
	if err := c.breaker.Allow(); err != nil {
		return nil, apperror.Transport(err)
	}

	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("json marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Action.Method(), target, body)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set(requestIDHeader, uuid.NewString())
	for _, ck := range c.session.Cookies {
		httpReq.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() == nil {
			c.breaker.RecordFailure()
		}
		return nil, apperror.Transport(err)
	}
	return resp, nil
}

func (c *Client) observe(req Request, outcome string, start time.Time, status int, err error) {
	d := time.Since(start)
	metrics.ObserveGatewayCall(req.Kind.String(), req.Action.String(), outcome, d)
	attrs := []any{
		slog.String("kind", req.Kind.String()),
		slog.String("action", req.Action.String()),
		slog.String("outcome", outcome),
		slog.Int("status", status),
		slog.Duration("duration", d),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	c.logger.Debug("gateway call", attrs...)
}

func decode(body []byte, out any) error {
	if out == nil {
		return nil
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}
	if s, ok := out.(*string); ok {
		if err := json.Unmarshal(trimmed, s); err != nil {
			*s = string(trimmed)
		}
		return nil
	}
	return json.Unmarshal(trimmed, out)
}

// extractMessage pulls a human-readable message out of an error body.
func extractMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}
	var obj struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(trimmed, &obj); err == nil {
		if obj.Message != "" {
			return obj.Message
		}
		if obj.Error != "" {
			return obj.Error
		}
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	return string(trimmed)
}
