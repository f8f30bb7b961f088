package instrument

import "go.starlark.net/syntax"

// walk calls f for n and, while f returns true, for each of its non-nil
// descendants in depth-first order. Unlike syntax.Walk it knows about while
// loops and never calls f with nil.
func walk(n syntax.Node, f func(syntax.Node) bool) {
	if n == nil || !f(n) {
		return
	}

	switch n := n.(type) {
	case *syntax.File:
		walkStmts(n.Stmts, f)
	case *syntax.ExprStmt:
		walk(n.X, f)
	case *syntax.IfStmt:
		walk(n.Cond, f)
		walkStmts(n.True, f)
		walkStmts(n.False, f)
	case *syntax.AssignStmt:
		walk(n.LHS, f)
		walk(n.RHS, f)
	case *syntax.DefStmt:
		walk(n.Name, f)
		walkExprs(n.Params, f)
		walkStmts(n.Body, f)
	case *syntax.ForStmt:
		walk(n.Vars, f)
		walk(n.X, f)
		walkStmts(n.Body, f)
	case *syntax.WhileStmt:
		walk(n.Cond, f)
		walkStmts(n.Body, f)
	case *syntax.ReturnStmt:
		if n.Result != nil {
			walk(n.Result, f)
		}
	case *syntax.LoadStmt:
		walk(n.Module, f)

		for i := range n.From {
			walk(n.From[i], f)
			walk(n.To[i], f)
		}
	case *syntax.ListExpr:
		walkExprs(n.List, f)
	case *syntax.TupleExpr:
		walkExprs(n.List, f)
	case *syntax.DictExpr:
		walkExprs(n.List, f)
	case *syntax.DictEntry:
		walk(n.Key, f)
		walk(n.Value, f)
	case *syntax.ParenExpr:
		walk(n.X, f)
	case *syntax.CondExpr:
		walk(n.Cond, f)
		walk(n.True, f)
		walk(n.False, f)
	case *syntax.IndexExpr:
		walk(n.X, f)
		walk(n.Y, f)
	case *syntax.SliceExpr:
		walk(n.X, f)
		walkOptional(f, n.Lo, n.Hi, n.Step)
	case *syntax.Comprehension:
		walk(n.Body, f)

		for _, clause := range n.Clauses {
			walk(clause, f)
		}
	case *syntax.IfClause:
		walk(n.Cond, f)
	case *syntax.ForClause:
		walk(n.Vars, f)
		walk(n.X, f)
	case *syntax.UnaryExpr:
		if n.X != nil {
			walk(n.X, f)
		}
	case *syntax.BinaryExpr:
		walk(n.X, f)
		walk(n.Y, f)
	case *syntax.DotExpr:
		walk(n.X, f)
		walk(n.Name, f)
	case *syntax.CallExpr:
		walk(n.Fn, f)
		walkExprs(n.Args, f)
	case *syntax.LambdaExpr:
		walkExprs(n.Params, f)
		walk(n.Body, f)
	}
}

func walkStmts(stmts []syntax.Stmt, f func(syntax.Node) bool) {
	for _, stmt := range stmts {
		walk(stmt, f)
	}
}

func walkExprs(exprs []syntax.Expr, f func(syntax.Node) bool) {
	for _, x := range exprs {
		walk(x, f)
	}
}

func walkOptional(f func(syntax.Node) bool, exprs ...syntax.Expr) {
	for _, x := range exprs {
		if x != nil {
			walk(x, f)
		}
	}
}
