package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-projectstorage/internal/defaultproject"
	"github.com/goliatone/go-projectstorage/pkg/activity"
	"github.com/goliatone/go-projectstorage/pkg/translate"
)

// DefaultAsset is one entry of the default project together with its bytes.
type DefaultAsset struct {
	Asset
	Data []byte
}

// DescribeFunc lists the default project assets for a translator. A nil
// translator means untranslated defaults.
type DescribeFunc func(t translate.Translator) ([]DefaultAsset, error)

// DefaultProject describes the built-in default project: the project JSON
// followed by its backdrop, costumes and sound.
func DefaultProject(t translate.Translator) ([]DefaultAsset, error) {
	described, err := defaultproject.Describe(t)
	if err != nil {
		return nil, err
	}
	assets := make([]DefaultAsset, 0, len(described))
	for _, item := range described {
		assetType, ok := LookupAssetType(item.Type)
		if !ok {
			return nil, fmt.Errorf("storage: default project lists unknown asset type %q", item.Type)
		}
		format, ok := LookupDataFormat(item.Format)
		if !ok {
			return nil, fmt.Errorf("storage: default project lists unknown data format %q", item.Format)
		}
		assets = append(assets, DefaultAsset{
			Asset: Asset{Type: assetType, Format: format, ID: item.ID},
			Data:  item.Data,
		})
	}
	return assets, nil
}

// Bootstrap caches the default project in the embedded store using the
// configured translator. It may be called again to refresh the cache.
func (s *Storage) Bootstrap(ctx context.Context) error {
	s.mu.RLock()
	t := s.translator
	refresh := s.bootstrapped
	s.mu.RUnlock()
	return s.cacheDefaultProject(ctx, t, refresh)
}

// MustBootstrap is like Bootstrap but panics on failure.
func (s *Storage) MustBootstrap(ctx context.Context) *Storage {
	if err := s.Bootstrap(ctx); err != nil {
		panic(err)
	}
	return s
}

// Bootstrapped reports whether a bootstrap has completed.
func (s *Storage) Bootstrapped() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bootstrapped
}

// SetTranslatorFunction replaces the translator and re-caches the default
// project with it. On failure the previous translator and cached entries are
// kept.
func (s *Storage) SetTranslatorFunction(ctx context.Context, t translate.Translator) error {
	return s.cacheDefaultProject(ctx, t, s.Bootstrapped())
}

func (s *Storage) cacheDefaultProject(ctx context.Context, t translate.Translator, refresh bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.bootMu.Lock()
	defer s.bootMu.Unlock()

	start := time.Now()
	assets, err := s.describeDefaults(ctx, t)
	if err != nil {
		bootErr := &BootstrapError{Err: err}
		s.logger.LogBootstrap(BootstrapEvent{
			Refresh:  refresh,
			Duration: time.Since(start),
			Err:      bootErr,
		})
		return bootErr
	}

	keys := make(map[string]struct{}, len(assets))
	for _, asset := range assets {
		key := asset.Key()
		s.embedded.Put(key, asset.Data, asset.Format.ContentType())
		keys[key] = struct{}{}
	}

	s.mu.Lock()
	for key := range s.defaultKeys {
		if _, ok := keys[key]; !ok {
			s.embedded.Delete(key)
		}
	}
	s.defaultKeys = keys
	s.translator = t
	s.bootstrapped = true
	s.mu.Unlock()

	s.logger.LogBootstrap(BootstrapEvent{
		Assets:   len(assets),
		Refresh:  refresh,
		Duration: time.Since(start),
	})
	s.emit(ctx, activity.Event{
		Verb:    activity.VerbBootstrapped,
		Assets:  len(assets),
		Refresh: refresh,
	})
	return nil
}

func (s *Storage) describeDefaults(ctx context.Context, t translate.Translator) ([]DefaultAsset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	assets, err := s.describe(t)
	if err != nil {
		return nil, err
	}
	for _, asset := range assets {
		if err := asset.validateWithID(); err != nil {
			return nil, fmt.Errorf("default asset %s: %w", describeAsset(asset.Asset), err)
		}
	}
	return assets, nil
}
