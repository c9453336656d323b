package storage

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnconfiguredCategory reports an operation on an asset type with no
	// registered store, or a store lacking the needed resolver.
	ErrUnconfiguredCategory = errors.New("storage: no store configured for asset type")
	// ErrBootstrapFailed reports that the default project could not be cached.
	ErrBootstrapFailed = errors.New("storage: bootstrap failed")
	// ErrHostNotConfigured reports a resolver invoked before its host was set.
	ErrHostNotConfigured = errors.New("storage: host not configured")
	// ErrNotBootstrapped reports a Get issued before Bootstrap completed.
	ErrNotBootstrapped = errors.New("storage: not bootstrapped")
)

// UnconfiguredCategoryError captures the operation and asset type that had
// no usable store.
type UnconfiguredCategoryError struct {
	Op   string
	Type AssetType
}

func (e *UnconfiguredCategoryError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("storage: %s: no store configured for asset type %q", e.Op, e.Type)
}

func (e *UnconfiguredCategoryError) Is(target error) bool {
	return target == ErrUnconfiguredCategory
}

// BootstrapError wraps the failure that prevented the default project from
// being cached.
type BootstrapError struct {
	Err error
}

func (e *BootstrapError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("storage: bootstrap failed: %v", e.Err)
}

func (e *BootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *BootstrapError) Is(target error) bool {
	return target == ErrBootstrapFailed
}

// ResolveError captures the resolver failure for an operation on an asset.
type ResolveError struct {
	Op    string
	Asset Asset
	Err   error
}

func (e *ResolveError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("storage: %s %s: resolve: %v", e.Op, describeAsset(e.Asset), e.Err)
}

func (e *ResolveError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ExpressionError captures evaluator metadata alongside the originating error
// for expression-backed stores.
type ExpressionError struct {
	Engine string
	Expr   string
	Field  string
	Err    error
}

func (e *ExpressionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("storage: %s evaluator %s field=%s: %v", e.Engine, describeExpression(e.Expr), e.Field, e.Err)
}

func (e *ExpressionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeAsset(asset Asset) string {
	if asset.ID == "" {
		return fmt.Sprintf("%s/%s", asset.Type, asset.Format)
	}
	return asset.Key()
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapResolveError(op string, asset Asset, err error) error {
	if err == nil {
		return nil
	}
	var resolveErr *ResolveError
	if errors.As(err, &resolveErr) {
		return err
	}
	return &ResolveError{Op: op, Asset: asset, Err: err}
}

func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var exprErr *ExpressionError
	if errors.As(err, &exprErr) {
		return err
	}

	if strings.HasPrefix(err.Error(), "storage:") {
		return err
	}
	return fmt.Errorf("storage: %s evaluator: %w", engine, err)
}

func wrapExpressionError(engine, expr, field string, err error) error {
	if err == nil {
		return nil
	}

	var exprErr *ExpressionError
	if errors.As(err, &exprErr) {
		if exprErr.Engine == "" {
			exprErr.Engine = engine
		}
		if exprErr.Expr == "" {
			exprErr.Expr = expr
		}
		if exprErr.Field == "" {
			exprErr.Field = field
		}
		return exprErr
	}

	return &ExpressionError{
		Engine: engine,
		Expr:   expr,
		Field:  field,
		Err:    err,
	}
}
