package storage

import (
	"context"
	"fmt"

	"github.com/goliatone/go-projectstorage/internal/hydrate"
	"github.com/goliatone/go-projectstorage/pkg/fetch"
)

// Load gets asset and returns its decoded bytes.
func Load(ctx context.Context, s *Storage, asset Asset) ([]byte, error) {
	resp, err := s.Get(ctx, asset)
	if err != nil {
		return nil, err
	}
	return resp.Bytes()
}

// Save creates asset when it has no ID and updates it otherwise. The
// returned asset carries the id it was stored under.
func Save(ctx context.Context, s *Storage, asset Asset, data []byte) (Asset, *fetch.Response, error) {
	if asset.ID == "" {
		return s.CreateAsset(ctx, asset, data)
	}
	resp, err := s.Update(ctx, asset, data)
	if err != nil {
		return Asset{}, nil, err
	}
	return asset, resp, nil
}

// LoadProject gets the JSON project id and decodes it into T. Validators run
// in order after decoding; the first failure aborts the load.
func LoadProject[T any](ctx context.Context, s *Storage, id string, validators ...func(*T) error) (T, error) {
	var zero T
	asset := Asset{Type: AssetTypeProject, Format: DataFormatJSON, ID: id}
	data, err := Load(ctx, s, asset)
	if err != nil {
		return zero, err
	}

	checks := make([]hydrate.Validator[T], len(validators))
	for i, validate := range validators {
		checks[i] = validate
	}
	project, err := hydrate.Project(id, data, checks...)
	if err != nil {
		return zero, fmt.Errorf("storage: load project %q: %w", id, err)
	}
	return project, nil
}

// CachedAsset reads the embedded store only. It never touches the network.
func CachedAsset(s *Storage, asset Asset) ([]byte, bool) {
	entry, ok := s.Embedded().Get(asset.Key())
	if !ok {
		return nil, false
	}
	return entry.Data, true
}
