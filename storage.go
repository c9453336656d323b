package storage

import (
	"context"
	"net/http"
	"sync"

	"github.com/goliatone/go-projectstorage/pkg/activity"
	"github.com/goliatone/go-projectstorage/pkg/embedded"
	"github.com/goliatone/go-projectstorage/pkg/fetch"
	"github.com/goliatone/go-projectstorage/pkg/translate"
	"golang.org/x/sync/singleflight"
)

const (
	opGet    = "get"
	opCreate = "create"
	opUpdate = "update"
)

// Storage resolves projects and assets through the embedded store and the
// registered stores. It is safe for concurrent use.
type Storage struct {
	mu           sync.RWMutex
	config       Config
	translator   translate.Translator
	bootstrapped bool
	defaultKeys  map[string]struct{}

	// bootMu serializes bootstrap runs so describe-then-write stays atomic
	// with respect to other bootstraps.
	bootMu sync.Mutex

	client   *fetch.Client
	embedded *embedded.Store
	registry *Registry
	logger   Logger
	describe DescribeFunc
	emitter  *activity.Emitter
	group    *singleflight.Group
}

// New builds an empty Storage. Call Bootstrap before Get.
func New(opts ...Option) *Storage {
	cfg := applyOptions(opts)

	logger := cfg.logger
	if logger == nil {
		logger = noopLogger{}
	}
	client := cfg.client
	if client == nil {
		fetchOpts := append([]fetch.Option{fetch.WithLogger(logger)}, cfg.fetchOptions...)
		client = fetch.New(fetchOpts...)
	}
	store := cfg.embedded
	if store == nil {
		store = embedded.New()
	}
	registry := cfg.registry
	if registry == nil {
		registry = NewRegistry()
	}
	describe := cfg.describe
	if describe == nil {
		describe = DefaultProject
	}

	s := &Storage{
		config:     cfg.config,
		translator: cfg.translator,
		client:     client,
		embedded:   store,
		registry:   registry,
		logger:     logger,
		describe:   describe,
		emitter:    activity.NewEmitter(cfg.channel, cfg.hooks...),
	}
	if cfg.dedupe {
		s.group = &singleflight.Group{}
	}
	return s
}

// Config returns the current host and token snapshot.
func (s *Storage) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// Registry exposes the store registry for custom registrations.
func (s *Storage) Registry() *Registry {
	return s.registry
}

// Embedded exposes the embedded store.
func (s *Storage) Embedded() *embedded.Store {
	return s.embedded
}

// AssetTypes returns the closed set of asset types.
func (s *Storage) AssetTypes() []AssetType {
	return AssetTypes()
}

// DataFormats returns the closed set of data formats.
func (s *Storage) DataFormats() []DataFormat {
	return DataFormats()
}

// Register adds a store entry, replacing the entries of its types.
func (s *Storage) Register(entry StoreEntry) error {
	return s.registry.Register(entry)
}

// SetAssetHost updates the asset host and (re)registers the web store for
// image and sound assets.
func (s *Storage) SetAssetHost(host string) {
	s.mu.Lock()
	s.config.AssetHost = host
	s.mu.Unlock()
	_ = s.registry.Register(AssetWebStore())
}

// SetProjectHost updates the project host and (re)registers the web store
// for projects.
func (s *Storage) SetProjectHost(host string) {
	s.mu.Lock()
	s.config.ProjectHost = host
	s.mu.Unlock()
	_ = s.registry.Register(ProjectWebStore())
}

// SetProjectToken sets the token appended to project gets. An empty token
// removes it.
func (s *Storage) SetProjectToken(token string) {
	s.mu.Lock()
	s.config.ProjectToken = token
	s.mu.Unlock()
}

// AddOfficialWebStores registers the project and asset web stores without
// touching the configured hosts.
func (s *Storage) AddOfficialWebStores() {
	_ = s.registry.Register(ProjectWebStore())
	_ = s.registry.Register(AssetWebStore())
}

// Get returns the asset, from the embedded store when present, otherwise
// from the store registered for its type with exactly one network call.
func (s *Storage) Get(ctx context.Context, asset Asset) (*fetch.Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := asset.validateWithID(); err != nil {
		return nil, err
	}
	if !s.Bootstrapped() {
		return nil, ErrNotBootstrapped
	}

	if entry, ok := s.embedded.Get(asset.Key()); ok {
		s.emit(ctx, activity.Event{
			Verb:    activity.VerbAssetLoaded,
			Subject: subject(asset),
			Source:  activity.SourceEmbedded,
			Bytes:   len(entry.Data),
		})
		return fetch.NewBufferedResponse(entry.Data, entry.ContentType), nil
	}

	if s.group == nil {
		_, resp, err := s.remote(ctx, opGet, asset, nil)
		return resp, err
	}
	return s.sharedGet(ctx, asset)
}

// sharedGet coalesces concurrent misses for the same key onto one request.
// The request runs detached from any single caller's cancellation, and each
// caller stops waiting when its own ctx is done.
func (s *Storage) sharedGet(ctx context.Context, asset Asset) (*fetch.Response, error) {
	detached := context.WithoutCancel(ctx)
	results := s.group.DoChan(asset.Key(), func() (any, error) {
		_, resp, err := s.remote(detached, opGet, asset, nil)
		if err != nil {
			return nil, err
		}
		return bufferResponse(resp)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-results:
		if result.Err != nil {
			return nil, result.Err
		}
		return cloneBuffered(result.Val.(*fetch.Response))
	}
}

// Create sends data to the create resolver of the asset's store. The asset
// ID may be empty when the store assigns it; use CreateAsset to learn it.
func (s *Storage) Create(ctx context.Context, asset Asset, data []byte) (*fetch.Response, error) {
	_, resp, err := s.CreateAsset(ctx, asset, data)
	return resp, err
}

// CreateAsset is Create returning the asset as stored, with the id the
// resolver assigned when asset.ID was empty.
func (s *Storage) CreateAsset(ctx context.Context, asset Asset, data []byte) (Asset, *fetch.Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := asset.Validate(); err != nil {
		return Asset{}, nil, err
	}
	return s.remote(ctx, opCreate, asset, data)
}

// Update sends data to the update resolver of the asset's store.
func (s *Storage) Update(ctx context.Context, asset Asset, data []byte) (*fetch.Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := asset.validateWithID(); err != nil {
		return nil, err
	}
	_, resp, err := s.remote(ctx, opUpdate, asset, data)
	return resp, err
}

func (s *Storage) remote(ctx context.Context, op string, asset Asset, body []byte) (Asset, *fetch.Response, error) {
	entry, ok := s.registry.Lookup(asset.Type)
	if !ok {
		return Asset{}, nil, &UnconfiguredCategoryError{Op: op, Type: asset.Type}
	}
	resolve := entry.resolver(op)
	if resolve == nil {
		return Asset{}, nil, &UnconfiguredCategoryError{Op: op, Type: asset.Type}
	}

	rc, err := resolve(ctx, asset, s.Config())
	if err != nil {
		return Asset{}, nil, wrapResolveError(op, asset, err)
	}
	if op == opCreate && asset.ID == "" && rc.AssetID != "" {
		asset.ID = rc.AssetID
	}
	req := rc.request(defaultMethod(op), body)

	resp, err := s.client.Fetch(ctx, req)
	if err != nil {
		return Asset{}, nil, err
	}

	event := activity.Event{
		Subject: subject(asset),
		Source:  entry.Name,
		Method:  req.Method,
		URL:     fetch.RedactURL(req.URL),
		Bytes:   len(body),
	}
	switch op {
	case opGet:
		event.Verb = activity.VerbAssetLoaded
	case opCreate:
		event.Verb = activity.VerbAssetCreated
	case opUpdate:
		event.Verb = activity.VerbAssetUpdated
	}
	s.emit(ctx, event)
	return asset, resp, nil
}

func subject(asset Asset) activity.Subject {
	return activity.Subject{Type: string(asset.Type), Format: string(asset.Format), ID: asset.ID}
}

func (s *Storage) emit(ctx context.Context, event activity.Event) {
	if !s.emitter.Enabled() {
		return
	}
	_ = s.emitter.Emit(ctx, event)
}

func defaultMethod(op string) string {
	switch op {
	case opCreate:
		return http.MethodPost
	case opUpdate:
		return http.MethodPut
	}
	return http.MethodGet
}

// bufferResponse reads resp so it can be shared by every caller coalesced
// onto one network call.
func bufferResponse(resp *fetch.Response) (*fetch.Response, error) {
	data, err := resp.Bytes()
	if err != nil {
		return nil, err
	}
	buffered := fetch.NewBufferedResponse(data, resp.Header.Get("Content-Type"))
	buffered.StatusCode = resp.StatusCode
	buffered.URL = resp.URL
	return buffered, nil
}

// cloneBuffered gives each coalesced caller its own Response over the shared
// payload.
func cloneBuffered(shared *fetch.Response) (*fetch.Response, error) {
	data, err := shared.Bytes()
	if err != nil {
		return nil, err
	}
	clone := fetch.NewBufferedResponse(data, shared.Header.Get("Content-Type"))
	clone.StatusCode = shared.StatusCode
	clone.URL = shared.URL
	return clone, nil
}
