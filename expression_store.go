package storage

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// ExpressionRequest declares one operation of an expression store. URL is an
// expression; Method and Header are literal.
type ExpressionRequest struct {
	Method          string
	URL             string
	Header          map[string]string
	WithCredentials bool
}

// ExpressionStore declares a store whose URLs are computed by expressions
// over assetHost, projectHost, projectToken, assetId, dataFormat and
// assetType. A nil operation leaves that resolver unset.
type ExpressionStore struct {
	Name   string
	Types  []AssetType
	Engine string
	Get    *ExpressionRequest
	Create *ExpressionRequest
	Update *ExpressionRequest
}

// ExpressionStoreOption configures how an ExpressionStore is compiled.
type ExpressionStoreOption func(*expressionStoreConfig)

type expressionStoreConfig struct {
	evaluator Evaluator
	functions *FunctionRegistry
	cache     ProgramCache
}

// WithEvaluator overrides the evaluator selected by the store's Engine.
func WithEvaluator(evaluator Evaluator) ExpressionStoreOption {
	return func(cfg *expressionStoreConfig) {
		cfg.evaluator = evaluator
	}
}

// WithFunctionRegistry adds registry's functions on top of DefaultFunctions.
func WithFunctionRegistry(registry *FunctionRegistry) ExpressionStoreOption {
	return func(cfg *expressionStoreConfig) {
		if registry == nil {
			return
		}
		cfg.functions = registry.Clone()
	}
}

// WithCustomFunction registers fn under name for the store's expressions.
func WithCustomFunction(name string, fn Function) ExpressionStoreOption {
	return func(cfg *expressionStoreConfig) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		_ = cfg.functions.Register(name, fn)
	}
}

// WithProgramCache shares compiled programs between stores.
func WithProgramCache(cache ProgramCache) ExpressionStoreOption {
	return func(cfg *expressionStoreConfig) {
		cfg.cache = cache
	}
}

// Entry compiles every declared expression and returns the store entry.
// Compilation errors are reported here rather than on first use.
func (s ExpressionStore) Entry(opts ...ExpressionStoreOption) (StoreEntry, error) {
	cfg := expressionStoreConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	functions := cfg.functions
	if functions == nil {
		functions = NewFunctionRegistry()
	}
	functions.Merge(DefaultFunctions())

	evaluator := cfg.evaluator
	if evaluator == nil {
		var err error
		evaluator, err = NewEvaluator(s.Engine, functions, cfg.cache)
		if err != nil {
			return StoreEntry{}, fmt.Errorf("storage: store %q: %w", s.Name, err)
		}
	}

	entry := StoreEntry{
		Name:  s.Name,
		Types: append([]AssetType(nil), s.Types...),
	}
	var err error
	if entry.Get, err = compileExpressionRequest(evaluator, s.Name, opGet, s.Get); err != nil {
		return StoreEntry{}, err
	}
	if entry.Create, err = compileExpressionRequest(evaluator, s.Name, opCreate, s.Create); err != nil {
		return StoreEntry{}, err
	}
	if entry.Update, err = compileExpressionRequest(evaluator, s.Name, opUpdate, s.Update); err != nil {
		return StoreEntry{}, err
	}
	return entry, nil
}

// Register compiles s and registers it on registry.
func (s ExpressionStore) Register(registry *Registry, opts ...ExpressionStoreOption) error {
	entry, err := s.Entry(opts...)
	if err != nil {
		return err
	}
	return registry.Register(entry)
}

func compileExpressionRequest(evaluator Evaluator, name, op string, req *ExpressionRequest) (Resolver, error) {
	if req == nil {
		return nil, nil
	}
	field := op + ".url"
	compiled, err := evaluator.Compile(req.URL)
	if err != nil {
		return nil, fmt.Errorf("storage: store %q: %w", name, wrapExpressionError("", req.URL, field, err))
	}
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	var header http.Header
	if len(req.Header) > 0 {
		header = make(http.Header, len(req.Header))
		for key, value := range req.Header {
			header.Set(key, value)
		}
	}
	withCredentials := req.WithCredentials
	expression := req.URL

	return func(_ context.Context, asset Asset, cfg Config) (RequestConfig, error) {
		result, err := compiled.Evaluate(ExpressionContext{Asset: asset, Config: cfg})
		if err != nil {
			return RequestConfig{}, wrapExpressionError("", expression, field, err)
		}
		target, ok := result.(string)
		if !ok {
			return RequestConfig{}, wrapExpressionError("", expression, field, fmt.Errorf("expected string result, got %T", result))
		}
		if target == "" {
			return RequestConfig{}, wrapExpressionError("", expression, field, fmt.Errorf("expression produced an empty url"))
		}
		return RequestConfig{
			Method:          method,
			URL:             target,
			Header:          header.Clone(),
			WithCredentials: withCredentials,
		}, nil
	}, nil
}
