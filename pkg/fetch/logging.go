package fetch

import (
	"net/url"
	"time"
)

// LogEvent describes a completed fetch attempt.
type LogEvent struct {
	Method     string
	URL        string
	StatusCode int
	Duration   time.Duration
	Err        error
}

// Logger records fetch attempts. Failures are always reported before the
// error is returned to the caller.
type Logger interface {
	LogFetch(LogEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(LogEvent)

// LogFetch implements Logger.
func (f LoggerFunc) LogFetch(event LogEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) LogFetch(LogEvent) {}

// RedactURL hides the value of token-like query parameters so URLs can be
// logged safely.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.RawQuery == "" {
		return raw
	}
	query := u.Query()
	changed := false
	for _, key := range []string{"token", "access_token", "X-Amz-Signature", "X-Amz-Credential"} {
		if query.Has(key) {
			query.Set(key, "REDACTED")
			changed = true
		}
	}
	if !changed {
		return raw
	}
	u.RawQuery = query.Encode()
	return u.String()
}
