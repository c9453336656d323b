package fetch

import (
	"net/http"
	"strings"
)

// Request describes one network operation. Values are treated as immutable
// once built; use Clone to derive a modified copy.
type Request struct {
	Method          string
	URL             string
	Header          http.Header
	Body            []byte
	WithCredentials bool
}

// NewRequest builds a Request copying header and body so later changes to the
// caller's values do not leak into the descriptor.
func NewRequest(method, url string, header http.Header, body []byte, withCredentials bool) Request {
	return Request{
		Method:          method,
		URL:             url,
		Header:          header.Clone(),
		Body:            cloneBytes(body),
		WithCredentials: withCredentials,
	}
}

// Clone returns a deep copy of r.
func (r Request) Clone() Request {
	return NewRequest(r.Method, r.URL, r.Header, r.Body, r.WithCredentials)
}

// EffectiveMethod returns the upper-cased method, defaulting to GET.
func (r Request) EffectiveMethod() string {
	method := strings.ToUpper(strings.TrimSpace(r.Method))
	if method == "" {
		return http.MethodGet
	}
	return method
}

func cloneBytes(src []byte) []byte {
	if src == nil {
		return nil
	}
	dst := make([]byte, len(src))
	copy(dst, src)
	return dst
}
