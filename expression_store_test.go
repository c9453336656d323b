package storage

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var mirrorStore = ExpressionStore{
	Name:  "mirror",
	Types: []AssetType{AssetTypeSound, AssetTypeImageVector},
	Get: &ExpressionRequest{
		URL: `trimslash(assetHost) + "/mirror/" + lower(assetType) + "/" + pathescape(assetId) + "." + dataFormat`,
	},
	Create: &ExpressionRequest{
		Method:          "put",
		URL:             `assetHost + "/upload/" + assetId`,
		Header:          map[string]string{"X-Upload": "1"},
		WithCredentials: true,
	},
}

func TestExpressionStoreExprEngine(t *testing.T) {
	cache := NewProgramCache()
	entry, err := mirrorStore.Entry(WithProgramCache(cache))
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	if entry.Update != nil {
		t.Fatalf("expected no update resolver")
	}
	if cache.Len() != 2 {
		t.Fatalf("expected both programs cached, got %d", cache.Len())
	}

	cfg := Config{AssetHost: "https://cdn.example/"}
	asset := Asset{Type: AssetTypeSound, Format: DataFormatWAV, ID: "a b"}

	got, err := entry.Get(context.Background(), asset, cfg)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if diff := cmp.Diff(RequestConfig{URL: "https://cdn.example/mirror/sound/a%20b.wav"}, got); diff != "" {
		t.Fatalf("unexpected get config (-want +got):\n%s", diff)
	}

	got, err = entry.Create(context.Background(), asset, cfg)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	want := RequestConfig{
		Method:          http.MethodPut,
		URL:             "https://cdn.example/upload/a b",
		Header:          http.Header{"X-Upload": []string{"1"}},
		WithCredentials: true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected create config (-want +got):\n%s", diff)
	}
}

func TestExpressionStoreCELEngine(t *testing.T) {
	store := ExpressionStore{
		Name:   "cel-projects",
		Types:  []AssetType{AssetTypeProject},
		Engine: EngineCEL,
		Get: &ExpressionRequest{
			URL: `projectToken == "" ? projectHost + "/" + assetId : projectHost + "/" + assetId + "?token=" + queryescape(projectToken)`,
		},
	}
	entry, err := store.Entry()
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	asset := Asset{Type: AssetTypeProject, Format: DataFormatJSON, ID: "9"}

	got, err := entry.Get(context.Background(), asset, Config{ProjectHost: "https://p.example"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.URL != "https://p.example/9" {
		t.Fatalf("unexpected url without token %q", got.URL)
	}
	got, err = entry.Get(context.Background(), asset, Config{ProjectHost: "https://p.example", ProjectToken: "t&k"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.URL != "https://p.example/9?token=t%26k" {
		t.Fatalf("unexpected url with token %q", got.URL)
	}
}

func TestExpressionStoreCustomFunction(t *testing.T) {
	store := ExpressionStore{
		Name:  "sharded",
		Types: []AssetType{AssetTypeImageBitmap},
		Get:   &ExpressionRequest{URL: `assetHost + "/" + shard(assetId) + "/" + assetId`},
	}
	entry, err := store.Entry(WithCustomFunction("shard", func(args ...any) (any, error) {
		return args[0].(string)[:2], nil
	}))
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	got, err := entry.Get(context.Background(), Asset{ID: "abcdef"}, Config{AssetHost: "https://s.example"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.URL != "https://s.example/ab/abcdef" {
		t.Fatalf("unexpected url %q", got.URL)
	}
}

func TestExpressionStoreErrors(t *testing.T) {
	_, err := ExpressionStore{Name: "broken", Types: []AssetType{AssetTypeSound}, Get: &ExpressionRequest{URL: `assetHost +`}}.Entry()
	var exprErr *ExpressionError
	if !errors.As(err, &exprErr) || exprErr.Field != "get.url" {
		t.Fatalf("expected compile ExpressionError on get.url, got %v", err)
	}

	_, err = ExpressionStore{Name: "lua", Engine: "lua", Types: []AssetType{AssetTypeSound}}.Entry()
	if err == nil || !strings.Contains(err.Error(), "unknown expression engine") {
		t.Fatalf("expected unknown engine error, got %v", err)
	}

	entry, err := ExpressionStore{Name: "numeric", Types: []AssetType{AssetTypeSound}, Get: &ExpressionRequest{URL: `1 + 2`}}.Entry()
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	_, err = entry.Get(context.Background(), Asset{}, Config{})
	if !errors.As(err, &exprErr) || !strings.Contains(err.Error(), "expected string result") {
		t.Fatalf("expected non-string result error, got %v", err)
	}
}

func TestExpressionStoreRegistersOnStorage(t *testing.T) {
	server := newRecordingServer(t, http.StatusOK, "mirrored")
	s := New(WithConfig(Config{AssetHost: server.URL})).MustBootstrap(context.Background())
	if err := mirrorStore.Register(s.Registry()); err != nil {
		t.Fatalf("register: %v", err)
	}
	data, err := Load(context.Background(), s, Asset{Type: AssetTypeImageVector, Format: DataFormatSVG, ID: "remote"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(data) != "mirrored" {
		t.Fatalf("unexpected payload %q", data)
	}
	requests := server.Requests()
	if len(requests) != 1 || requests[0].Method != http.MethodGet || requests[0].Path != "/mirror/imagevector/remote.svg" {
		t.Fatalf("unexpected requests %+v", requests)
	}
}

func TestFunctionRegistry(t *testing.T) {
	r := NewFunctionRegistry()
	if err := r.Register("Twice", func(args ...any) (any, error) { return args[0].(string) + args[0].(string), nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register("twice", func(...any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	got, err := r.Call("TWICE", "ab")
	if err != nil || got != "abab" {
		t.Fatalf("unexpected call result %v (%v)", got, err)
	}
	if _, err := r.Call("missing"); err == nil {
		t.Fatalf("expected missing function error")
	}

	r.Merge(DefaultFunctions())
	want := []string{"pathescape", "queryescape", "trimslash", "twice"}
	if diff := cmp.Diff(want, r.Names()); diff != "" {
		t.Fatalf("unexpected names (-want +got):\n%s", diff)
	}
	if _, err := r.Call("pathescape", 1); err == nil {
		t.Fatalf("expected type error for non-string argument")
	}
}
