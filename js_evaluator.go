//go:build js_eval

package storage

import (
	"fmt"

	"github.com/dop251/goja"
)

// jsEvaluator runs store expressions in goja. Runtimes are not goroutine
// safe, so every evaluation gets a fresh one while compiled programs are
// shared.
type jsEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewJSEvaluator constructs an Evaluator backed by goja. The registry is
// cloned, so later registrations do not leak into running stores. Either
// argument may be nil.
func NewJSEvaluator(registry *FunctionRegistry, cache ProgramCache) Evaluator {
	if registry != nil {
		registry = registry.Clone()
	}
	return &jsEvaluator{cache: cache, registry: registry}
}

// JSEvaluatorAvailable reports whether the binary was built with js_eval.
func JSEvaluatorAvailable() bool {
	return true
}

func (e *jsEvaluator) Evaluate(ctx ExpressionContext, expression string) (any, error) {
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return e.run(ctx, expression, program)
}

func (e *jsEvaluator) Compile(expression string) (CompiledExpression, error) {
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return &jsCompiledExpression{
		evaluator:  e,
		expression: expression,
		program:    program,
	}, nil
}

func (e *jsEvaluator) loadOrCompile(expression string) (*goja.Program, error) {
	if expression == "" {
		return nil, wrapEvaluatorError(EngineJS, fmt.Errorf("expression must not be empty"))
	}
	key := cacheKey(EngineJS, expression)
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			if program, ok := cached.(*goja.Program); ok {
				return program, nil
			}
		}
	}
	program, err := goja.Compile("", wrapExpression(expression), false)
	if err != nil {
		return nil, wrapExpressionError(EngineJS, expression, "", err)
	}
	if e.cache != nil {
		e.cache.Set(key, program)
	}
	return program, nil
}

func (e *jsEvaluator) run(ctx ExpressionContext, expression string, program *goja.Program) (any, error) {
	vm := goja.New()
	for key, value := range ctx.Variables() {
		if err := vm.Set(key, value); err != nil {
			return nil, wrapExpressionError(EngineJS, expression, "", err)
		}
	}
	if e.registry != nil {
		for _, name := range e.registry.Names() {
			fn := name
			if err := vm.Set(fn, func(arguments ...any) (any, error) {
				return e.registry.Call(fn, arguments...)
			}); err != nil {
				return nil, wrapExpressionError(EngineJS, expression, "", err)
			}
		}
	}
	value, err := vm.RunProgram(program)
	if err != nil {
		return nil, wrapExpressionError(EngineJS, expression, "", err)
	}
	return value.Export(), nil
}

func wrapExpression(expression string) string {
	return fmt.Sprintf("(function(){ return (%s); })()", expression)
}

type jsCompiledExpression struct {
	evaluator  *jsEvaluator
	expression string
	program    *goja.Program
}

func (c *jsCompiledExpression) Evaluate(ctx ExpressionContext) (any, error) {
	if c.evaluator == nil {
		return nil, wrapEvaluatorError(EngineJS, fmt.Errorf("compiled expression missing evaluator"))
	}
	return c.evaluator.run(ctx, c.expression, c.program)
}
