package fetch

import (
	"net/http"
	"net/http/cookiejar"

	cleanhttp "github.com/hashicorp/go-cleanhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/net/publicsuffix"
)

// DefaultUserAgent is sent when a Request carries no User-Agent header.
const DefaultUserAgent = "go-projectstorage/1.0"

// NewHTTPClient returns a pooled client that honours our transport defaults.
// Requests are traced through otelhttp, so a span in the request context
// becomes the parent of the client span and its trace context is injected
// into the outgoing headers. Without a configured provider this is a no-op.
func NewHTTPClient(opts ...otelhttp.Option) *http.Client {
	cli := cleanhttp.DefaultPooledClient()
	cli.Transport = otelhttp.NewTransport(&userAgentRoundTripper{
		userAgent: DefaultUserAgent,
		inner:     cli.Transport,
	}, opts...)
	return cli
}

// NewCookieJar returns a jar scoped by the public suffix list, suitable for
// WithCookieJar.
func NewCookieJar() (http.CookieJar, error) {
	return cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
}

type userAgentRoundTripper struct {
	inner     http.RoundTripper
	userAgent string
}

func (rt *userAgentRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if _, ok := req.Header["User-Agent"]; !ok {
		req.Header.Set("User-Agent", rt.userAgent)
	}
	return rt.inner.RoundTrip(req)
}
