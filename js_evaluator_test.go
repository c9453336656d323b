//go:build js_eval

package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExpressionStoreJSEngine(t *testing.T) {
	if !JSEvaluatorAvailable() {
		t.Fatalf("expected js evaluator with js_eval tag")
	}
	cache := NewProgramCache()
	store := ExpressionStore{
		Name:   "js-mirror",
		Types:  []AssetType{AssetTypeSound},
		Engine: EngineJS,
		Get: &ExpressionRequest{
			URL: `trimslash(assetHost) + "/" + assetType.toLowerCase() + "/" + pathescape(assetId) + "." + dataFormat`,
		},
		Update: &ExpressionRequest{
			Method: "put",
			URL:    `projectToken ? assetHost + "/up/" + assetId + "?token=" + queryescape(projectToken) : assetHost + "/up/" + assetId`,
		},
	}
	entry, err := store.Entry(WithProgramCache(cache))
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	if cache.Len() != 2 {
		t.Fatalf("expected both programs cached, got %d", cache.Len())
	}

	asset := Asset{Type: AssetTypeSound, Format: DataFormatWAV, ID: "a b"}
	got, err := entry.Get(context.Background(), asset, Config{AssetHost: "https://cdn.example/"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if diff := cmp.Diff(RequestConfig{URL: "https://cdn.example/sound/a%20b.wav"}, got); diff != "" {
		t.Fatalf("unexpected get config (-want +got):\n%s", diff)
	}

	got, err = entry.Update(context.Background(), asset, Config{AssetHost: "https://cdn.example", ProjectToken: "t&k"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Method != "PUT" || got.URL != "https://cdn.example/up/a b?token=t%26k" {
		t.Fatalf("unexpected update config %+v", got)
	}
}

func TestExpressionStoreJSEngineErrors(t *testing.T) {
	_, err := ExpressionStore{
		Name:   "broken",
		Engine: EngineJS,
		Types:  []AssetType{AssetTypeSound},
		Get:    &ExpressionRequest{URL: `assetHost +`},
	}.Entry()
	var exprErr *ExpressionError
	if !errors.As(err, &exprErr) || exprErr.Field != "get.url" {
		t.Fatalf("expected compile ExpressionError on get.url, got %v", err)
	}

	entry, err := ExpressionStore{
		Name:   "throws",
		Engine: EngineJS,
		Types:  []AssetType{AssetTypeSound},
		Get:    &ExpressionRequest{URL: `missing(assetId)`},
	}.Entry()
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	if _, err := entry.Get(context.Background(), Asset{ID: "x"}, Config{}); !errors.As(err, &exprErr) {
		t.Fatalf("expected runtime ExpressionError, got %v", err)
	}
}
