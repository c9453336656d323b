//go:build !js_eval

package storage

import (
	"strings"
	"testing"
)

func TestJSEngineNeedsBuildTag(t *testing.T) {
	if JSEvaluatorAvailable() || NewJSEvaluator(nil, nil) != nil {
		t.Fatalf("expected no js evaluator without js_eval")
	}
	_, err := ExpressionStore{Name: "js", Engine: EngineJS, Types: []AssetType{AssetTypeSound}, Get: &ExpressionRequest{URL: `assetHost`}}.Entry()
	if err == nil || !strings.Contains(err.Error(), "js_eval") {
		t.Fatalf("expected build tag error, got %v", err)
	}
}
