package agent

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/nstehr/helm/priority"
)

// ExprEnv is the environment condition expressions are compiled against.
// Its methods are callable from expressions, e.g. Number("helm_energy") < 20.
type ExprEnv struct {
	a *Agent
}

func (e ExprEnv) Param(key string) any { return e.a.Parameter(key) }

func (e ExprEnv) Has(key string) bool { return e.a.HasParameter(key) }

// Number is 0 for absent or non-numeric parameters.
func (e ExprEnv) Number(key string) float64 {
	n, _ := e.a.Number(key)
	return n
}

func (e ExprEnv) Flag(key string) bool { return e.a.Flag(key) }

func (e ExprEnv) Now() float64 { return e.a.Now() }

func (e ExprEnv) Behaviour() string { return e.a.Behaviour() }

// CompileCondition compiles src into a condition. Runtime evaluation errors
// surface as leaf failures of the walk.
func CompileCondition(src string) (priority.Condition[*Agent], error) {
	prog, err := expr.Compile(src, expr.Env(ExprEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile condition %q: %w", src, err)
	}
	return func(a *Agent) (bool, error) {
		out, err := vm.Run(prog, ExprEnv{a: a})
		if err != nil {
			return false, err
		}
		met, _ := out.(bool)
		return met, nil
	}, nil
}
