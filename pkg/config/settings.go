// Package config loads storage settings from the environment and store
// definitions from YAML or JSONC files, and applies both to a Storage.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/goliatone/go-projectstorage"
	"github.com/goliatone/go-projectstorage/pkg/fetch"
	"golang.org/x/time/rate"
)

// Settings are the process-level knobs read from the environment.
type Settings struct {
	AssetHost       string  `env:"PROJECTSTORAGE_ASSET_HOST"`
	ProjectHost     string  `env:"PROJECTSTORAGE_PROJECT_HOST"`
	ProjectToken    string  `env:"PROJECTSTORAGE_PROJECT_TOKEN"`
	CredentialToken string  `env:"PROJECTSTORAGE_CREDENTIAL_TOKEN"`
	StoresFile      string  `env:"PROJECTSTORAGE_STORES_FILE"`
	RateLimit       float64 `env:"PROJECTSTORAGE_RATE_LIMIT"`
	RateBurst       int     `env:"PROJECTSTORAGE_RATE_BURST"      envDefault:"1"`
	Cookies         bool    `env:"PROJECTSTORAGE_COOKIES"         envDefault:"true"`
	DedupeGets      bool    `env:"PROJECTSTORAGE_DEDUPE_GETS"`
}

// LoadSettings parses Settings from the process environment.
func LoadSettings() (Settings, error) {
	return LoadSettingsFrom(nil)
}

// LoadSettingsFrom parses Settings from environ; a nil map means the process
// environment.
func LoadSettingsFrom(environ map[string]string) (Settings, error) {
	var settings Settings
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&settings, opts); err != nil {
		return Settings{}, fmt.Errorf("config: parse env: %w", err)
	}
	if settings.RateLimit < 0 {
		return Settings{}, fmt.Errorf("config: rate limit must not be negative, got %v", settings.RateLimit)
	}
	if settings.RateBurst < 1 {
		settings.RateBurst = 1
	}
	return settings, nil
}

// StorageOptions translates the network-related settings into options for
// storage.New.
func (s Settings) StorageOptions() ([]storage.Option, error) {
	var fetchOpts []fetch.Option
	if s.RateLimit > 0 {
		fetchOpts = append(fetchOpts, fetch.WithRateLimiter(rate.NewLimiter(rate.Limit(s.RateLimit), s.RateBurst)))
	}
	if s.Cookies {
		jar, err := fetch.NewCookieJar()
		if err != nil {
			return nil, fmt.Errorf("config: cookie jar: %w", err)
		}
		fetchOpts = append(fetchOpts, fetch.WithCookieJar(jar))
	}
	if s.CredentialToken != "" {
		fetchOpts = append(fetchOpts, fetch.WithCredentialToken(fetch.StaticToken(s.CredentialToken)))
	}

	opts := []storage.Option{storage.WithFetchOptions(fetchOpts...)}
	if s.DedupeGets {
		opts = append(opts, storage.WithGetDeduplication())
	}
	return opts, nil
}
