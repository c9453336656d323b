// Package s3store resolves assets to presigned URLs on an S3 compatible
// bucket, so a Storage can read and write assets without proxying through a
// web host.
package s3store

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/goliatone/go-projectstorage"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DefaultExpiry bounds how long a presigned URL stays valid.
const DefaultExpiry = 15 * time.Minute

// Config describes the bucket backing the store.
type Config struct {
	Name            string
	EndpointURL     string
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	Prefix          string
	UseSSL          bool
	Expiry          time.Duration
	Types           []storage.AssetType
}

// Store presigns object URLs for assets.
type Store struct {
	client *minio.Client
	cfg    Config
	newID  func() string
}

// New creates a Store. Region should be set: presigning with an unknown
// region makes minio-go look it up over the network.
func New(cfg Config) (*Store, error) {
	if cfg.EndpointURL == "" {
		return nil, fmt.Errorf("s3store: endpoint url is required")
	}
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, fmt.Errorf("s3store: credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3store: bucket is required")
	}
	if cfg.Name == "" {
		cfg.Name = "s3"
	}
	if cfg.Expiry <= 0 {
		cfg.Expiry = DefaultExpiry
	}
	if len(cfg.Types) == 0 {
		cfg.Types = []storage.AssetType{storage.AssetTypeImageVector, storage.AssetTypeImageBitmap, storage.AssetTypeSound}
	}

	u, err := url.Parse(cfg.EndpointURL)
	if err != nil {
		return nil, fmt.Errorf("s3store: invalid endpoint url: %w", err)
	}
	endpoint := u.Host
	if endpoint == "" {
		endpoint = cfg.EndpointURL
	}
	useSSL := cfg.UseSSL
	if u.Scheme == "https" {
		useSSL = true
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("s3store: create minio client: %w", err)
	}
	return &Store{client: client, cfg: cfg, newID: uuid.NewString}, nil
}

// ObjectKey maps an asset to {prefix}/{type}/{id}.{format}.
func (s *Store) ObjectKey(asset storage.Asset) string {
	name := asset.ID + "." + string(asset.Format)
	return path.Join(strings.Trim(s.cfg.Prefix, "/"), strings.ToLower(string(asset.Type)), name)
}

// Entry returns a registry entry whose get resolves to a presigned GET and
// whose create and update resolve to presigned PUTs.
func (s *Store) Entry() storage.StoreEntry {
	return storage.StoreEntry{
		Name:   s.cfg.Name,
		Types:  append([]storage.AssetType(nil), s.cfg.Types...),
		Get:    s.resolveGet,
		Create: s.resolveCreate,
		Update: s.resolvePut,
	}
}

func (s *Store) resolveGet(ctx context.Context, asset storage.Asset, _ storage.Config) (storage.RequestConfig, error) {
	target, err := s.client.PresignedGetObject(ctx, s.cfg.Bucket, s.ObjectKey(asset), s.cfg.Expiry, nil)
	if err != nil {
		return storage.RequestConfig{}, fmt.Errorf("s3store: presign get %s: %w", s.ObjectKey(asset), err)
	}
	return storage.RequestConfig{Method: http.MethodGet, URL: target.String()}, nil
}

// resolveCreate assigns a fresh id when the asset has none and reports it
// through RequestConfig.AssetID.
func (s *Store) resolveCreate(ctx context.Context, asset storage.Asset, cfg storage.Config) (storage.RequestConfig, error) {
	if asset.ID == "" {
		asset.ID = s.newID()
	}
	rc, err := s.resolvePut(ctx, asset, cfg)
	if err != nil {
		return storage.RequestConfig{}, err
	}
	rc.AssetID = asset.ID
	return rc, nil
}

func (s *Store) resolvePut(ctx context.Context, asset storage.Asset, _ storage.Config) (storage.RequestConfig, error) {
	if asset.ID == "" {
		return storage.RequestConfig{}, storage.ErrAssetIDRequired
	}
	key := s.ObjectKey(asset)
	target, err := s.client.PresignedPutObject(ctx, s.cfg.Bucket, key, s.cfg.Expiry)
	if err != nil {
		return storage.RequestConfig{}, fmt.Errorf("s3store: presign put %s: %w", key, err)
	}
	header := http.Header{}
	header.Set("Content-Type", asset.Format.ContentType())
	return storage.RequestConfig{Method: http.MethodPut, URL: target.String(), Header: header}, nil
}
