package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadSettingsFromEnvironment(t *testing.T) {
	settings, err := LoadSettingsFrom(map[string]string{
		"PROJECTSTORAGE_ASSET_HOST":    "https://cdn.example",
		"PROJECTSTORAGE_PROJECT_HOST":  "https://projects.example",
		"PROJECTSTORAGE_PROJECT_TOKEN": "t0k",
		"PROJECTSTORAGE_RATE_LIMIT":    "2.5",
		"PROJECTSTORAGE_RATE_BURST":    "4",
		"PROJECTSTORAGE_COOKIES":       "false",
		"PROJECTSTORAGE_DEDUPE_GETS":   "true",
	})
	if err != nil {
		t.Fatalf("LoadSettingsFrom: %v", err)
	}
	want := Settings{
		AssetHost:    "https://cdn.example",
		ProjectHost:  "https://projects.example",
		ProjectToken: "t0k",
		RateLimit:    2.5,
		RateBurst:    4,
		Cookies:      false,
		DedupeGets:   true,
	}
	if diff := cmp.Diff(want, settings); diff != "" {
		t.Fatalf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSettingsDefaults(t *testing.T) {
	settings, err := LoadSettingsFrom(map[string]string{})
	if err != nil {
		t.Fatalf("LoadSettingsFrom: %v", err)
	}
	if settings.RateBurst != 1 || !settings.Cookies || settings.DedupeGets {
		t.Fatalf("unexpected defaults: %+v", settings)
	}
}

func TestLoadSettingsRejectsBadValues(t *testing.T) {
	cases := map[string]map[string]string{
		"unparsable limit": {"PROJECTSTORAGE_RATE_LIMIT": "fast"},
		"negative limit":   {"PROJECTSTORAGE_RATE_LIMIT": "-1"},
		"unparsable bool":  {"PROJECTSTORAGE_DEDUPE_GETS": "maybe"},
	}
	for name, environ := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadSettingsFrom(environ); err == nil {
				t.Fatalf("expected error for %v", environ)
			}
		})
	}
}

func TestStorageOptions(t *testing.T) {
	settings := Settings{RateLimit: 10, RateBurst: 2, Cookies: true, CredentialToken: "abc", DedupeGets: true}
	opts, err := settings.StorageOptions()
	if err != nil {
		t.Fatalf("StorageOptions: %v", err)
	}
	if len(opts) != 2 {
		t.Fatalf("expected fetch and dedupe options, got %d", len(opts))
	}

	opts, err = Settings{}.StorageOptions()
	if err != nil {
		t.Fatalf("StorageOptions: %v", err)
	}
	if len(opts) != 1 {
		t.Fatalf("expected only fetch options, got %d", len(opts))
	}
}
