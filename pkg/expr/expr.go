// Package expr filters currency rows with CEL expressions.
//
// Expressions see one variable, `row`, a map keyed by the JSON field names of
// a currency (id, currency_code, name, price, state_at, days_state_at, ...).
// Numeric fields are numbers when they parse. For example:
//
//	row.price > 1.0 && row.currency_code.startsWith("U")
//	row.name.fuzzy("dlr")
package expr

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/wplibs/nodata/pkg/currency"
)

// ErrNotBool is returned for expressions that cannot yield a bool.
var ErrNotBool = errors.New("expression must evaluate to a bool")

// Protects CEL environment creation and compilation from concurrent access.
var celMutex sync.Mutex

// Environment wraps a [*cel.Env] declaring the `row` variable.
type Environment struct {
	env *cel.Env
}

func NewEnvironment(opts ...cel.EnvOption) (*Environment, error) {
	celMutex.Lock()
	defer celMutex.Unlock()

	opts = append(opts,
		cel.Variable("row", cel.MapType(cel.StringType, cel.DynType)),
		cel.Lib(&lib{}),
	)

	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	return &Environment{env: env}, nil
}

// Compile compiles expression into a program.
//
//nolint:ireturn // Following CEL's function signature.
func (e *Environment) Compile(expression string) (cel.Program, error) {
	celMutex.Lock()
	defer celMutex.Unlock()

	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile expression: %w", issues.Err())
	}

	out := ast.OutputType()
	if !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("%w: got %s", ErrNotBool, out)
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("create program: %w", err)
	}

	return program, nil
}

// Filter matches currencies against a compiled expression.
type Filter struct {
	program cel.Program
	source  string
}

// NewFilter compiles expression. An empty expression matches everything.
func (e *Environment) NewFilter(expression string) (*Filter, error) {
	if expression == "" {
		return &Filter{}, nil
	}

	program, err := e.Compile(expression)
	if err != nil {
		return nil, err
	}

	return &Filter{program: program, source: expression}, nil
}

func (f *Filter) String() string {
	return f.source
}

func (f *Filter) Empty() bool {
	return f == nil || f.program == nil
}

// Match evaluates the expression against c.
func (f *Filter) Match(c currency.Currency) (bool, error) {
	if f.Empty() {
		return true, nil
	}

	out, _, err := f.program.Eval(map[string]any{"row": c.Row()})
	if err != nil {
		return false, fmt.Errorf("evaluate %q: %w", f.source, err)
	}

	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: got %T", ErrNotBool, out.Value())
	}

	return b, nil
}

// Apply returns the currencies matching the expression, in order. Rows that
// fail to evaluate are dropped, and the errors are joined.
func (f *Filter) Apply(cs []currency.Currency) ([]currency.Currency, error) {
	if f.Empty() {
		return cs, nil
	}

	var errs []error

	out := make([]currency.Currency, 0, len(cs))
	for _, c := range cs {
		ok, err := f.Match(c)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		if ok {
			out = append(out, c)
		}
	}

	return out, errors.Join(errs...)
}
