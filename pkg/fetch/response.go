package fetch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// cborDecMode decodes any-typed targets into map[string]any so structured
// payloads look the same whether they arrived as JSON or CBOR.
var cborDecMode cbor.DecMode

func init() {
	var err error
	cborDecMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("fetch: CBOR decoder initialization failed: " + err.Error())
	}
}

// Response is a successful fetch result. The body is read at most once, on
// the first extraction call; Text, Data and Bytes can then be called any
// number of times, concurrently, in any order.
type Response struct {
	StatusCode int
	Header     http.Header
	URL        string

	once sync.Once
	body io.ReadCloser
	data []byte
	err  error
}

func newResponse(resp *http.Response) *Response {
	url := ""
	if resp.Request != nil && resp.Request.URL != nil {
		url = RedactURL(resp.Request.URL.String())
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		URL:        url,
		body:       resp.Body,
	}
}

// NewBufferedResponse wraps an in-memory payload in a Response so cached
// content is consumed exactly like remote content.
func NewBufferedResponse(data []byte, contentType string) *Response {
	header := http.Header{}
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	r := &Response{
		StatusCode: http.StatusOK,
		Header:     header,
		data:       cloneBytes(data),
	}
	r.once.Do(func() {})
	return r
}

// Bytes returns the decoded body. The returned slice must not be modified.
func (r *Response) Bytes() ([]byte, error) {
	if err := r.load(); err != nil {
		return nil, err
	}
	return r.data, nil
}

// Text returns the body as UTF-8 text.
func (r *Response) Text() (string, error) {
	if err := r.load(); err != nil {
		return "", err
	}
	if !utf8.Valid(r.data) {
		return "", &DecodeError{Shape: "text", URL: r.URL, Err: errors.New("body is not valid UTF-8")}
	}
	return string(r.data), nil
}

// Data decodes the body into v. CBOR bodies (application/cbor) are decoded
// with the CBOR codec, everything else as JSON.
func (r *Response) Data(v any) error {
	if err := r.load(); err != nil {
		return err
	}
	if v == nil {
		return &DecodeError{Shape: "data", URL: r.URL, Err: errors.New("target is nil")}
	}
	var err error
	if r.mediaType() == "application/cbor" {
		err = cborDecMode.Unmarshal(r.data, v)
	} else {
		err = json.Unmarshal(r.data, v)
	}
	if err != nil {
		return &DecodeError{Shape: "data", URL: r.URL, Err: err}
	}
	return nil
}

// Close releases the body without reading it. Calling Close after an
// extraction is a no-op.
func (r *Response) Close() error {
	var err error
	r.once.Do(func() {
		if r.body != nil {
			err = r.body.Close()
		}
		r.err = &DecodeError{Shape: "bytes", URL: r.URL, Err: errors.New("response closed before read")}
	})
	return err
}

func (r *Response) load() error {
	r.once.Do(func() {
		if r.body == nil {
			return
		}
		raw, err := io.ReadAll(r.body)
		closeErr := r.body.Close()
		if err == nil {
			err = closeErr
		}
		if err != nil {
			r.err = &DecodeError{Shape: "bytes", URL: r.URL, Err: err}
			return
		}
		data, err := decodeContent(r.Header.Get("Content-Encoding"), raw)
		if err != nil {
			r.err = &DecodeError{Shape: "bytes", URL: r.URL, Err: err}
			return
		}
		r.data = data
	})
	return r.err
}

func (r *Response) mediaType() string {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	return mediaType
}

// decodeContent undoes Content-Encoding that the transport left in place,
// which happens whenever the request set Accept-Encoding itself.
func decodeContent(encoding string, raw []byte) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return raw, nil
	case "gzip", "x-gzip":
		reader, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		defer reader.Close()
		return io.ReadAll(reader)
	case "zstd":
		decoder, err := zstd.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		defer decoder.Close()
		return io.ReadAll(decoder)
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}
}
