package storage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Config is the immutable host and token snapshot handed to resolvers. It is
// taken at call time, so setter changes apply to every later operation.
type Config struct {
	AssetHost    string
	ProjectHost  string
	ProjectToken string
}

// Resolver turns an asset plus the current Config into a request
// configuration. Resolvers must read cfg only, never shared state.
type Resolver func(ctx context.Context, asset Asset, cfg Config) (RequestConfig, error)

func (c Config) assetHost() (string, error) {
	return requireHost("asset", c.AssetHost)
}

func (c Config) projectHost() (string, error) {
	return requireHost("project", c.ProjectHost)
}

func requireHost(kind, host string) (string, error) {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" {
		return "", fmt.Errorf("%w: %s host", ErrHostNotConfigured, kind)
	}
	return host, nil
}

// ProjectGetConfig resolves {projectHost}/{id}, adding ?token= only when a
// project token is set.
func ProjectGetConfig(_ context.Context, asset Asset, cfg Config) (RequestConfig, error) {
	host, err := cfg.projectHost()
	if err != nil {
		return RequestConfig{}, err
	}
	target := host + "/" + url.PathEscape(asset.ID)
	if cfg.ProjectToken != "" {
		target += "?token=" + url.QueryEscape(cfg.ProjectToken)
	}
	return URLOnly(target), nil
}

// ProjectCreateConfig resolves {projectHost}/ with credentials.
func ProjectCreateConfig(_ context.Context, _ Asset, cfg Config) (RequestConfig, error) {
	host, err := cfg.projectHost()
	if err != nil {
		return RequestConfig{}, err
	}
	return RequestConfig{
		Method:          http.MethodPost,
		URL:             host + "/",
		WithCredentials: true,
	}, nil
}

// ProjectUpdateConfig resolves {projectHost}/{id} with credentials.
func ProjectUpdateConfig(_ context.Context, asset Asset, cfg Config) (RequestConfig, error) {
	host, err := cfg.projectHost()
	if err != nil {
		return RequestConfig{}, err
	}
	return RequestConfig{
		Method:          http.MethodPut,
		URL:             host + "/" + url.PathEscape(asset.ID),
		WithCredentials: true,
	}, nil
}

// AssetGetConfig resolves {assetHost}/internalapi/asset/{id}.{format}/get/
// with POST and no credentials.
func AssetGetConfig(_ context.Context, asset Asset, cfg Config) (RequestConfig, error) {
	host, err := cfg.assetHost()
	if err != nil {
		return RequestConfig{}, err
	}
	return RequestConfig{
		Method: http.MethodPost,
		URL:    fmt.Sprintf("%s/internalapi/asset/%s.%s/get/", host, url.PathEscape(asset.ID), asset.Format),
	}, nil
}

// AssetCreateConfig resolves {assetHost}/{id}.{format} with POST and
// credentials. It also serves updates since assets are content addressed, so
// the id is required.
func AssetCreateConfig(_ context.Context, asset Asset, cfg Config) (RequestConfig, error) {
	host, err := cfg.assetHost()
	if err != nil {
		return RequestConfig{}, err
	}
	if asset.ID == "" {
		return RequestConfig{}, ErrAssetIDRequired
	}
	return RequestConfig{
		Method:          http.MethodPost,
		URL:             fmt.Sprintf("%s/%s.%s", host, url.PathEscape(asset.ID), asset.Format),
		WithCredentials: true,
	}, nil
}

var (
	projectTypes = []AssetType{AssetTypeProject}
	mediaTypes   = []AssetType{AssetTypeImageVector, AssetTypeImageBitmap, AssetTypeSound}
)

// ProjectWebStore is the store entry serving projects from the project host.
func ProjectWebStore() StoreEntry {
	return StoreEntry{
		Name:   "project-web",
		Types:  append([]AssetType(nil), projectTypes...),
		Get:    ProjectGetConfig,
		Create: ProjectCreateConfig,
		Update: ProjectUpdateConfig,
	}
}

// AssetWebStore is the store entry serving media assets from the asset host.
func AssetWebStore() StoreEntry {
	return StoreEntry{
		Name:   "asset-web",
		Types:  append([]AssetType(nil), mediaTypes...),
		Get:    AssetGetConfig,
		Create: AssetCreateConfig,
		Update: AssetCreateConfig,
	}
}
