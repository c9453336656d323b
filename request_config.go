package storage

import (
	"net/http"

	"github.com/goliatone/go-projectstorage/pkg/fetch"
)

// RequestConfig is what a Resolver produces. An empty Method is filled with
// the operation default (GET for get, POST for create, PUT for update).
type RequestConfig struct {
	Method          string
	URL             string
	Header          http.Header
	WithCredentials bool
	// AssetID is set by create resolvers that choose the id of an asset
	// created without one.
	AssetID string
}

// URLOnly is the bare-URL resolver result: default method, default headers,
// no credentials.
func URLOnly(url string) RequestConfig {
	return RequestConfig{URL: url}
}

func (c RequestConfig) request(defaultMethod string, body []byte) fetch.Request {
	method := c.Method
	if method == "" {
		method = defaultMethod
	}
	req := fetch.NewRequest(method, c.URL, c.Header, body, c.WithCredentials)
	req.Method = req.EffectiveMethod()
	return req
}
