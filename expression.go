package storage

import (
	"fmt"
	"strings"
)

// Expression engines understood by ExpressionStore.
const (
	EngineExpr = "expr"
	EngineCEL  = "cel"
	EngineJS   = "js"
)

// ExpressionContext carries the inputs of one store expression evaluation.
type ExpressionContext struct {
	Asset  Asset
	Config Config
}

// Variables returns the bindings visible to expressions: assetHost,
// projectHost, projectToken, assetId, dataFormat and assetType. Hosts are
// given without a trailing slash.
func (ctx ExpressionContext) Variables() map[string]any {
	return map[string]any{
		"assetHost":    strings.TrimRight(ctx.Config.AssetHost, "/"),
		"projectHost":  strings.TrimRight(ctx.Config.ProjectHost, "/"),
		"projectToken": ctx.Config.ProjectToken,
		"assetId":      ctx.Asset.ID,
		"dataFormat":   string(ctx.Asset.Format),
		"assetType":    string(ctx.Asset.Type),
	}
}

var expressionVariables = []string{"assetHost", "projectHost", "projectToken", "assetId", "dataFormat", "assetType"}

// Evaluator executes store expressions.
type Evaluator interface {
	Evaluate(ctx ExpressionContext, expr string) (any, error)
	Compile(expr string) (CompiledExpression, error)
}

// CompiledExpression is a reusable expression program.
type CompiledExpression interface {
	Evaluate(ctx ExpressionContext) (any, error)
}

// NewEvaluator returns the evaluator for engine ("expr" when empty) wired
// with registry and cache.
func NewEvaluator(engine string, registry *FunctionRegistry, cache ProgramCache) (Evaluator, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineExpr:
		return NewExprEvaluator(ExprWithFunctionRegistry(registry), ExprWithProgramCache(cache)), nil
	case EngineCEL:
		return NewCELEvaluator(CELWithFunctionRegistry(registry), CELWithProgramCache(cache)), nil
	case EngineJS:
		evaluator := NewJSEvaluator(registry, cache)
		if evaluator == nil {
			return nil, fmt.Errorf("storage: js evaluator requires the js_eval build tag")
		}
		return evaluator, nil
	}
	return nil, fmt.Errorf("storage: unknown expression engine %q", engine)
}
