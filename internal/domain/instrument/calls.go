package instrument

import (
	"strings"

	"go.starlark.net/syntax"
)

// call rewrites the callee and arguments, then wraps qualified calls in a
// record_call notification that snapshots the receiver around the call.
func (r *Rewriter) call(e *syntax.CallExpr) (syntax.Expr, error) {
	if err := r.into(&e.Fn); err != nil {
		return nil, err
	}

	if err := r.exprs(e.Args); err != nil {
		return nil, err
	}

	if r.ignore.ignores(TraceCall) {
		return e, nil
	}

	path, ok := receiverPath(e.Fn)
	if !ok || path[0] == RecorderName {
		return e, nil
	}

	start := startOf(e)

	return recorderCallAt(start, MethodRecordCall,
		stringLiteral(strings.Join(path, ".")),
		snapshot(path, start),
		e,
		snapshot(path, start),
		intLiteral(lineOf(e)),
	), nil
}

// receiverPath returns the names of the receiver of fn, root first, when fn
// has the form root.a1.….aN with N >= 1. The method name is not included.
func receiverPath(fn syntax.Expr) ([]string, bool) {
	dot, ok := fn.(*syntax.DotExpr)
	if !ok {
		return nil, false
	}

	var reversed []string

	x := dot.X

	for {
		switch e := x.(type) {
		case *syntax.Ident:
			reversed = append(reversed, e.Name)

			path := make([]string, len(reversed))
			for i, name := range reversed {
				path[len(reversed)-1-i] = name
			}

			return path, true
		case *syntax.DotExpr:
			reversed = append(reversed, e.Name.Name)
			x = e.X
		default:
			return nil, false
		}
	}
}

// snapshot builds $recorder.repr(root.a1.….aK) for a receiver path. Each
// snapshot gets its own nodes so the resolver never sees a node twice.
func snapshot(path []string, pos syntax.Position) *syntax.CallExpr {
	return recorderCallAt(pos, MethodRepr, pathExpr(path, pos))
}

func pathExpr(path []string, pos syntax.Position) syntax.Expr {
	root := ident(path[0])
	root.NamePos = pos

	var x syntax.Expr = root

	for _, name := range path[1:] {
		attr := ident(name)
		attr.NamePos = pos
		x = &syntax.DotExpr{X: x, Dot: pos, NamePos: pos, Name: attr}
	}

	return x
}
