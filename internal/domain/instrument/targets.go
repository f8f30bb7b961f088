package instrument

import (
	"go.starlark.net/syntax"
)

// target is a traceable assignment destination. The set of implementations
// is closed: names, attributes and subscripts.
type target interface {
	traceCall(line int) *syntax.CallExpr
}

// nameTarget is a plain variable.
type nameTarget struct {
	name string
}

func (t nameTarget) traceCall(line int) *syntax.CallExpr {
	return recorderCall(MethodAssign, stringLiteral(t.name), ident(t.name), intLiteral(line))
}

// attrTarget is obj.name. The traced value is read back through the
// attribute so the effect of custom setters is visible. object is a copy of
// the left-hand side, so the read-back shares no nodes with the store.
type attrTarget struct {
	object syntax.Expr
	name   string
	label  string
}

func (t attrTarget) traceCall(line int) *syntax.CallExpr {
	value := &syntax.DotExpr{X: t.object, Name: ident(t.name)}

	return recorderCall(MethodAssign, stringLiteral(t.label), value, intLiteral(line))
}

// subscriptTarget is container[key]. It is traced as the container itself.
type subscriptTarget struct {
	container target
}

func (t subscriptTarget) traceCall(line int) *syntax.CallExpr {
	return t.container.traceCall(line)
}

// targets flattens an assignment left-hand side into traceable targets.
// Shapes that cannot be traced are skipped; invalid ones are rejected later
// by the resolver.
func targets(lhs syntax.Expr) ([]target, error) {
	switch e := lhs.(type) {
	case *syntax.ParenExpr:
		return targets(e.X)
	case *syntax.TupleExpr:
		return targetList(e.List)
	case *syntax.ListExpr:
		return targetList(e.List)
	}

	t, err := single(lhs)
	if err != nil || t == nil {
		return nil, err
	}

	return []target{t}, nil
}

func targetList(list []syntax.Expr) ([]target, error) {
	var out []target

	for _, x := range list {
		ts, err := targets(x)
		if err != nil {
			return nil, err
		}

		out = append(out, ts...)
	}

	return out, nil
}

func single(e syntax.Expr) (target, error) {
	switch e := e.(type) {
	case *syntax.Ident:
		return nameTarget{name: e.Name}, nil
	case *syntax.DotExpr:
		object, err := exprString(e.X)
		if err != nil {
			return nil, err
		}

		return attrTarget{object: cloneExpr(e.X), name: e.Name.Name, label: object + "." + e.Name.Name}, nil
	case *syntax.IndexExpr:
		container, err := single(unparen(e.X))
		if err != nil || container == nil {
			return nil, err
		}

		return subscriptTarget{container: container}, nil
	default:
		return nil, nil
	}
}

func unparen(e syntax.Expr) syntax.Expr {
	for {
		paren, ok := e.(*syntax.ParenExpr)
		if !ok {
			return e
		}

		e = paren.X
	}
}

// assign traces every target of a plain or augmented assignment after the
// store. Targets are captured before the expressions are rewritten so labels
// show the source text and read-backs do not record calls twice.
func (r *Rewriter) assign(s *syntax.AssignStmt) ([]syntax.Stmt, error) {
	ts, err := targets(s.LHS)
	if err != nil {
		return nil, err
	}

	if err := r.exprFields(&s.RHS, &s.LHS); err != nil {
		return nil, err
	}

	out := []syntax.Stmt{s}
	if r.ignore.ignores(TraceAssign) {
		return out, nil
	}

	line := lineOf(s)

	for _, t := range ts {
		out = append(out, exprStmt(t.traceCall(line)))
	}

	return out, nil
}
