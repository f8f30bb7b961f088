package instrument

import (
	"strconv"

	"go.starlark.net/syntax"
)

func ident(name string) *syntax.Ident {
	return &syntax.Ident{Name: name}
}

func stringLiteral(s string) *syntax.Literal {
	return &syntax.Literal{Token: syntax.STRING, Raw: strconv.Quote(s), Value: s}
}

func intLiteral(n int) *syntax.Literal {
	return &syntax.Literal{Token: syntax.INT, Raw: strconv.Itoa(n), Value: int64(n)}
}

// recorderCall builds $recorder.method(args...) without positions.
func recorderCall(method string, args ...syntax.Expr) *syntax.CallExpr {
	return &syntax.CallExpr{
		Fn: &syntax.DotExpr{
			X:    ident(RecorderName),
			Name: ident(method),
		},
		Args: args,
	}
}

// recorderCallAt builds $recorder.method(args...) located at pos, for calls
// that stand in for an original expression.
func recorderCallAt(pos syntax.Position, method string, args ...syntax.Expr) *syntax.CallExpr {
	call := recorderCall(method, args...)
	dot := call.Fn.(*syntax.DotExpr)
	dot.X.(*syntax.Ident).NamePos = pos
	dot.Dot = pos
	dot.NamePos = pos
	dot.Name.NamePos = pos
	call.Lparen = pos
	call.Rparen = pos

	return call
}

func exprStmt(x syntax.Expr) syntax.Stmt {
	return &syntax.ExprStmt{X: x}
}

func startBlockCall(first, last int) *syntax.CallExpr {
	return recorderCall(MethodStartBlock, intLiteral(first), intLiteral(last))
}

// lineOf returns the line a node starts on, or 0 when it has no position.
func lineOf(n syntax.Node) int {
	start, _ := n.Span()
	if !start.IsValid() {
		return 0
	}

	return int(start.Line)
}

// cloneExpr deep-copies an expression printable by exprString, keeping
// positions. Other nodes are returned as is.
func cloneExpr(e syntax.Expr) syntax.Expr {
	switch e := e.(type) {
	case *syntax.Ident:
		return &syntax.Ident{NamePos: e.NamePos, Name: e.Name}
	case *syntax.Literal:
		c := *e
		return &c
	case *syntax.DotExpr:
		c := *e
		c.X = cloneExpr(e.X)
		c.Name = cloneExpr(e.Name).(*syntax.Ident)

		return &c
	case *syntax.IndexExpr:
		c := *e
		c.X = cloneExpr(e.X)
		c.Y = cloneExpr(e.Y)

		return &c
	case *syntax.SliceExpr:
		c := *e
		c.X = cloneExpr(e.X)
		c.Lo = cloneOptional(e.Lo)
		c.Hi = cloneOptional(e.Hi)
		c.Step = cloneOptional(e.Step)

		return &c
	case *syntax.CallExpr:
		c := *e
		c.Fn = cloneExpr(e.Fn)
		c.Args = cloneList(e.Args)

		return &c
	case *syntax.ParenExpr:
		c := *e
		c.X = cloneExpr(e.X)

		return &c
	case *syntax.UnaryExpr:
		c := *e
		c.X = cloneOptional(e.X)

		return &c
	case *syntax.BinaryExpr:
		c := *e
		c.X = cloneExpr(e.X)
		c.Y = cloneExpr(e.Y)

		return &c
	case *syntax.CondExpr:
		c := *e
		c.Cond = cloneExpr(e.Cond)
		c.True = cloneExpr(e.True)
		c.False = cloneExpr(e.False)

		return &c
	case *syntax.ListExpr:
		c := *e
		c.List = cloneList(e.List)

		return &c
	case *syntax.TupleExpr:
		c := *e
		c.List = cloneList(e.List)

		return &c
	case *syntax.DictExpr:
		c := *e
		c.List = cloneList(e.List)

		return &c
	case *syntax.DictEntry:
		c := *e
		c.Key = cloneExpr(e.Key)
		c.Value = cloneExpr(e.Value)

		return &c
	default:
		return e
	}
}

func cloneOptional(e syntax.Expr) syntax.Expr {
	if e == nil {
		return nil
	}

	return cloneExpr(e)
}

func cloneList(list []syntax.Expr) []syntax.Expr {
	if list == nil {
		return nil
	}

	out := make([]syntax.Expr, len(list))
	for i, x := range list {
		out[i] = cloneExpr(x)
	}

	return out
}
