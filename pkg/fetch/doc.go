// Package fetch executes one network operation described by a Request and
// returns a Response whose body can be extracted as text, structured data or
// raw bytes.
//
// The client makes a single attempt per call. Transport failures, non-2xx
// statuses and body decoding failures all surface as errors matching
// ErrFetchFailed so callers only have to recognise one failure kind:
//
//	resp, err := client.Fetch(ctx, fetch.Request{URL: "https://assets.example/abc.svg"})
//	if errors.Is(err, fetch.ErrFetchFailed) {
//		code, _ := fetch.StatusCode(err)
//		...
//	}
//	svg, err := resp.Text()
//
// Credentials (cookies and an optional bearer token) are attached only when
// Request.WithCredentials is set.
package fetch
