package analyzer

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

const (
	analyzerName = "moneyfloat"
	analyzerDoc  = "reports currency-named identifiers declared with floating-point types; balances must use fixed-point model.Money"
)

// Analyzer checks that identifiers which look like currency amounts are not
// declared as float32/float64.
var Analyzer = &analysis.Analyzer{
	Name:     analyzerName,
	Doc:      analyzerDoc,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

var moneyWords = []string{"balance", "amount", "reward", "withdraw", "payout"}

func run(pass *analysis.Pass) (interface{}, error) {
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.Field)(nil),
		(*ast.ValueSpec)(nil),
	}

	insp.Preorder(nodeFilter, func(node ast.Node) {
		switch n := node.(type) {
		case *ast.Field:
			checkNames(pass, n.Names, pass.TypesInfo.TypeOf(n.Type))
		case *ast.ValueSpec:
			for _, name := range n.Names {
				checkNames(pass, []*ast.Ident{name}, pass.TypesInfo.TypeOf(name))
			}
		}
	})

	return nil, nil
}

func checkNames(pass *analysis.Pass, names []*ast.Ident, typ types.Type) {
	if !isFloat(typ) {
		return
	}

	for _, name := range names {
		if looksLikeMoney(name.Name) {
			pass.Reportf(name.Pos(), "%s is declared as %s, use fixed-point model.Money for currency amounts", name.Name, typ)
		}
	}
}

func looksLikeMoney(name string) bool {
	lower := strings.ToLower(name)
	for _, word := range moneyWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

func isFloat(typ types.Type) bool {
	if typ == nil {
		return false
	}

	basic, ok := typ.Underlying().(*types.Basic)
	return ok && basic.Info()&types.IsFloat != 0
}
