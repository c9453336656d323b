package s3store

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-projectstorage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(Config{
		EndpointURL:     "https://objects.example",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		Region:          "us-east-1",
		Bucket:          "assets",
		Prefix:          "/internal/",
		Expiry:          time.Minute,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return store
}

func TestNewValidatesConfig(t *testing.T) {
	cases := map[string]Config{
		"missing endpoint":    {AccessKeyID: "a", SecretAccessKey: "b", Bucket: "c"},
		"missing credentials": {EndpointURL: "https://objects.example", Bucket: "c"},
		"missing bucket":      {EndpointURL: "https://objects.example", AccessKeyID: "a", SecretAccessKey: "b"},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := New(cfg); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestObjectKey(t *testing.T) {
	store := newTestStore(t)
	key := store.ObjectKey(storage.Asset{Type: storage.AssetTypeSound, Format: storage.DataFormatWAV, ID: "abc123"})
	if key != "internal/sound/abc123.wav" {
		t.Fatalf("unexpected key %q", key)
	}
}

func TestEntryPresignsGet(t *testing.T) {
	store := newTestStore(t)
	entry := store.Entry()
	if entry.Name != "s3" || len(entry.Types) != 3 {
		t.Fatalf("unexpected entry %+v", entry)
	}

	asset := storage.Asset{Type: storage.AssetTypeImageBitmap, Format: storage.DataFormatPNG, ID: "pic"}
	rc, err := entry.Get(context.Background(), asset, storage.Config{})
	if err != nil {
		t.Fatalf("Get resolver: %v", err)
	}
	if rc.Method != "GET" {
		t.Fatalf("expected GET, got %q", rc.Method)
	}
	u, err := url.Parse(rc.URL)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	if u.Host != "objects.example" || u.Path != "/assets/internal/imagebitmap/pic.png" {
		t.Fatalf("unexpected presigned url %s", rc.URL)
	}
	if u.Query().Get("X-Amz-Expires") != "60" {
		t.Fatalf("expected 60s expiry, got %q", u.Query().Get("X-Amz-Expires"))
	}
	if !strings.HasPrefix(u.Query().Get("X-Amz-Credential"), "AKIDEXAMPLE/") {
		t.Fatalf("expected signed credential, got %q", u.Query().Get("X-Amz-Credential"))
	}
}

func TestEntryPresignsCreateWithGeneratedID(t *testing.T) {
	store := newTestStore(t)
	store.newID = func() string { return "generated" }

	asset := storage.Asset{Type: storage.AssetTypeImageVector, Format: storage.DataFormatSVG}
	rc, err := store.Entry().Create(context.Background(), asset, storage.Config{})
	if err != nil {
		t.Fatalf("Create resolver: %v", err)
	}
	if rc.Method != "PUT" {
		t.Fatalf("expected PUT, got %q", rc.Method)
	}
	if !strings.Contains(rc.URL, "/assets/internal/imagevector/generated.svg?") {
		t.Fatalf("unexpected url %s", rc.URL)
	}
	if rc.AssetID != "generated" {
		t.Fatalf("expected assigned id in request config, got %q", rc.AssetID)
	}
	if rc.Header.Get("Content-Type") != "image/svg+xml" {
		t.Fatalf("unexpected content type %q", rc.Header.Get("Content-Type"))
	}
}

func TestEntryRegistersOnStorage(t *testing.T) {
	store := newTestStore(t)
	s := storage.New()
	if err := s.Register(store.Entry()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	entry, ok := s.Registry().Lookup(storage.AssetTypeSound)
	if !ok || entry.Update == nil {
		t.Fatalf("expected s3 entry with update resolver, got %+v", entry)
	}
	if _, ok := s.Registry().Lookup(storage.AssetTypeProject); ok {
		t.Fatalf("projects are not served by the default s3 entry")
	}
}

func TestStorageCreateReportsGeneratedID(t *testing.T) {
	type upload struct {
		method, path, contentType, body string
	}
	uploads := make(chan upload, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		uploads <- upload{r.Method, r.URL.Path, r.Header.Get("Content-Type"), string(body)}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	store, err := New(Config{
		EndpointURL:     server.URL,
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		Region:          "us-east-1",
		Bucket:          "assets",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	store.newID = func() string { return "0f1e2d" }

	s := storage.New()
	if err := s.Register(store.Entry()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	created, _, err := s.CreateAsset(context.Background(), storage.Asset{Type: storage.AssetTypeSound, Format: storage.DataFormatWAV}, []byte("RIFF"))
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}
	if created.ID != "0f1e2d" {
		t.Fatalf("expected generated id, got %+v", created)
	}

	got := <-uploads
	want := upload{http.MethodPut, "/assets/sound/0f1e2d.wav", "audio/x-wav", "RIFF"}
	if got != want {
		t.Fatalf("unexpected upload %+v", got)
	}
}

func TestUpdateRequiresID(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Entry().Update(context.Background(), storage.Asset{Type: storage.AssetTypeSound, Format: storage.DataFormatWAV}, storage.Config{})
	if !errors.Is(err, storage.ErrAssetIDRequired) {
		t.Fatalf("expected ErrAssetIDRequired, got %v", err)
	}
}
