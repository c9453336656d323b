package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// TokenSource returns the credential token attached to credentialed requests.
// An empty string means no token is attached.
type TokenSource func() string

// StaticToken returns a TokenSource that always yields token.
func StaticToken(token string) TokenSource {
	return func() string { return token }
}

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	httpClient *http.Client
	jar        http.CookieJar
	token      TokenSource
	limiter    *rate.Limiter
	logger     Logger
}

// WithHTTPClient sets the base client used for every request. The client is
// copied; its Jar is ignored in favour of WithCookieJar.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *clientConfig) {
		cfg.httpClient = client
	}
}

// WithCookieJar sets the jar consulted for requests with WithCredentials.
func WithCookieJar(jar http.CookieJar) Option {
	return func(cfg *clientConfig) {
		cfg.jar = jar
	}
}

// WithCredentialToken attaches "Authorization: Bearer <token>" to credentialed
// requests that do not already carry an Authorization header.
func WithCredentialToken(source TokenSource) Option {
	return func(cfg *clientConfig) {
		cfg.token = source
	}
}

// WithRateLimiter paces outgoing requests. Waiting is bounded by the request
// context.
func WithRateLimiter(limiter *rate.Limiter) Option {
	return func(cfg *clientConfig) {
		cfg.limiter = limiter
	}
}

// WithLogger attaches a fetch logger.
func WithLogger(logger Logger) Option {
	return func(cfg *clientConfig) {
		cfg.logger = logger
	}
}

// Client executes Requests. It is safe for concurrent use.
type Client struct {
	anonymous    *http.Client
	credentialed *http.Client
	token        TokenSource
	limiter      *rate.Limiter
	logger       Logger
}

// New constructs a Client. Without WithHTTPClient a pooled client from
// NewHTTPClient is used.
func New(opts ...Option) *Client {
	cfg := clientConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	base := cfg.httpClient
	if base == nil {
		base = NewHTTPClient()
	}

	anonymous := *base
	anonymous.Jar = nil
	credentialed := *base
	credentialed.Jar = cfg.jar

	logger := cfg.logger
	if logger == nil {
		logger = noopLogger{}
	}
	return &Client{
		anonymous:    &anonymous,
		credentialed: &credentialed,
		token:        cfg.token,
		limiter:      cfg.limiter,
		logger:       logger,
	}
}

// Fetch issues req once and returns the response when the status is 2xx.
// Any failure is logged and returned as an error matching ErrFetchFailed.
func (c *Client) Fetch(ctx context.Context, req Request) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	method := req.EffectiveMethod()
	start := time.Now()
	resp, err := c.do(ctx, method, req)
	event := LogEvent{
		Method:   method,
		URL:      RedactURL(req.URL),
		Duration: time.Since(start),
		Err:      err,
	}
	if resp != nil {
		event.StatusCode = resp.StatusCode
	} else if code, ok := StatusCode(err); ok {
		event.StatusCode = code
	}
	c.logger.LogFetch(event)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method string, req Request) (*Response, error) {
	fail := func(err error) error {
		return &FetchError{Method: method, URL: RedactURL(req.URL), Err: err}
	}

	target, err := url.Parse(req.URL)
	if err != nil {
		return nil, fail(err)
	}
	if !target.IsAbs() {
		return nil, fail(fmt.Errorf("%w: %q", ErrRelativeURL, req.URL))
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fail(err)
		}
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, fail(err)
	}
	if req.Header != nil {
		httpReq.Header = req.Header.Clone()
	}

	client := c.anonymous
	if req.WithCredentials {
		client = c.credentialed
		if c.token != nil && httpReq.Header.Get("Authorization") == "" {
			if token := c.token(); token != "" {
				httpReq.Header.Set("Authorization", "Bearer "+token)
			}
		}
	}

	httpResp, err := client.Do(httpReq)
	if err != nil {
		return nil, fail(err)
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(httpResp.Body, 64<<10))
		_ = httpResp.Body.Close()
		return nil, &FetchError{
			Method:     method,
			URL:        RedactURL(req.URL),
			StatusCode: httpResp.StatusCode,
			Status:     statusText(httpResp),
		}
	}
	return newResponse(httpResp), nil
}

func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		return http.StatusText(resp.StatusCode)
	}
	return text
}
