package storage

import (
	"github.com/goliatone/go-projectstorage/pkg/activity"
	"github.com/goliatone/go-projectstorage/pkg/embedded"
	"github.com/goliatone/go-projectstorage/pkg/fetch"
	"github.com/goliatone/go-projectstorage/pkg/translate"
)

// Option configures a Storage.
type Option func(*storageConfig)

type storageConfig struct {
	client       *fetch.Client
	fetchOptions []fetch.Option
	embedded     *embedded.Store
	registry     *Registry
	logger       Logger
	translator   translate.Translator
	describe     DescribeFunc
	hooks        []activity.Hook
	channel      string
	dedupe       bool
	config       Config
}

func applyOptions(opts []Option) storageConfig {
	cfg := storageConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithClient uses client for every network operation. Fetch options passed
// through WithFetchOptions are ignored when a client is supplied.
func WithClient(client *fetch.Client) Option {
	return func(cfg *storageConfig) {
		cfg.client = client
	}
}

// WithFetchOptions configures the network client built by New.
func WithFetchOptions(opts ...fetch.Option) Option {
	return func(cfg *storageConfig) {
		cfg.fetchOptions = append(cfg.fetchOptions, opts...)
	}
}

// WithEmbeddedStore shares an existing embedded store.
func WithEmbeddedStore(store *embedded.Store) Option {
	return func(cfg *storageConfig) {
		cfg.embedded = store
	}
}

// WithRegistry shares an existing registry.
func WithRegistry(registry *Registry) Option {
	return func(cfg *storageConfig) {
		cfg.registry = registry
	}
}

// WithTranslator sets the translator used by the first Bootstrap.
func WithTranslator(t translate.Translator) Option {
	return func(cfg *storageConfig) {
		cfg.translator = t
	}
}

// WithDescriber replaces the built-in default project.
func WithDescriber(describe DescribeFunc) Option {
	return func(cfg *storageConfig) {
		cfg.describe = describe
	}
}

// WithConfig seeds the host and token snapshot.
func WithConfig(config Config) Option {
	return func(cfg *storageConfig) {
		cfg.config = config
	}
}

// WithGetDeduplication coalesces concurrent remote gets of the same asset
// into a single network call.
func WithGetDeduplication() Option {
	return func(cfg *storageConfig) {
		cfg.dedupe = true
	}
}

// WithActivityHooks attaches hooks notified after successful operations.
// Nil hooks are ignored.
func WithActivityHooks(hooks ...activity.Hook) Option {
	hooks = append([]activity.Hook(nil), hooks...)
	return func(cfg *storageConfig) {
		cfg.hooks = hooks
	}
}

// WithActivityChannel overrides the default "storage" activity channel.
func WithActivityChannel(channel string) Option {
	return func(cfg *storageConfig) {
		cfg.channel = channel
	}
}
