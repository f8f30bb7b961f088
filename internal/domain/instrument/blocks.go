package instrument

import "go.starlark.net/syntax"

// forStmt announces the loop once, before it starts, and traces the loop
// variables at the top of every iteration.
func (r *Rewriter) forStmt(s *syntax.ForStmt) ([]syntax.Stmt, error) {
	ts, err := targets(s.Vars)
	if err != nil {
		return nil, err
	}

	if err := r.into(&s.X); err != nil {
		return nil, err
	}

	body, err := r.stmts(s.Body)
	if err != nil {
		return nil, err
	}

	s.Body = body
	first, last := lineRange(s)
	line := lineOf(s)

	if !r.ignore.ignores(TraceAssign) {
		entry := make([]syntax.Stmt, 0, len(ts)+len(body))
		for _, t := range ts {
			entry = append(entry, exprStmt(t.traceCall(line)))
		}

		s.Body = append(entry, body...)
	}

	backfill(s.Body, s.For)

	return r.announce(s, first, last), nil
}

func (r *Rewriter) whileStmt(s *syntax.WhileStmt) ([]syntax.Stmt, error) {
	if err := r.into(&s.Cond); err != nil {
		return nil, err
	}

	body, err := r.stmts(s.Body)
	if err != nil {
		return nil, err
	}

	s.Body = body
	first, last := lineRange(s)
	backfill(s.Body, s.While)

	return r.announce(s, first, last), nil
}

// announce puts the start_block notification of a loop before it.
func (r *Rewriter) announce(loop syntax.Stmt, first, last int) []syntax.Stmt {
	if r.ignore.ignores(TraceBlock) {
		return []syntax.Stmt{loop}
	}

	return []syntax.Stmt{exprStmt(startBlockCall(first, last)), loop}
}

// def traces the parameters and the block range on every invocation.
// Excluded functions are left exactly as written.
func (r *Rewriter) def(s *syntax.DefStmt) ([]syntax.Stmt, error) {
	if _, ok := r.excluded[s.Name.Name]; ok {
		return []syntax.Stmt{s}, nil
	}

	if err := r.defaults(s.Params); err != nil {
		return nil, err
	}

	body, err := r.stmts(s.Body)
	if err != nil {
		return nil, err
	}

	s.Body = body
	first, last := lineRange(s)

	calls := r.entry(s.Params, lineOf(s), first, last)
	entry := make([]syntax.Stmt, 0, len(calls)+len(body))

	for _, call := range calls {
		entry = append(entry, exprStmt(call))
	}

	s.Body = append(entry, body...)
	backfill(s.Body, s.Def)

	return []syntax.Stmt{s}, nil
}

// lambda turns the body into (trace..., start_block(...), body)[n], whose
// value is the value of the original body.
func (r *Rewriter) lambda(e *syntax.LambdaExpr) (syntax.Expr, error) {
	if err := r.defaults(e.Params); err != nil {
		return nil, err
	}

	if err := r.into(&e.Body); err != nil {
		return nil, err
	}

	first, last := lineRange(e)

	calls := r.entry(e.Params, lineOf(e), first, last)
	if len(calls) == 0 {
		return e, nil
	}

	seq := make([]syntax.Expr, 0, len(calls)+1)
	for _, call := range calls {
		seq = append(seq, call)
	}

	seq = append(seq, e.Body)
	e.Body = &syntax.IndexExpr{
		X: &syntax.TupleExpr{List: seq},
		Y: intLiteral(len(seq) - 1),
	}

	return e, nil
}

// entry builds the parameter traces, in parameter order, followed by the
// start_block notification.
func (r *Rewriter) entry(params []syntax.Expr, line, first, last int) []*syntax.CallExpr {
	var calls []*syntax.CallExpr

	if !r.ignore.ignores(TraceAssign) {
		for _, name := range r.positional(params) {
			calls = append(calls, nameTarget{name: name}.traceCall(line))
		}
	}

	if r.ignore.ignores(TraceBlock) {
		return calls
	}

	return append(calls, startBlockCall(first, last))
}

// positional returns the names of the positional parameters, without a
// leading receiver. Parameters after * or ** are keyword-only or variadic.
func (r *Rewriter) positional(params []syntax.Expr) []string {
	var names []string

	for i, param := range params {
		var name string

		switch p := param.(type) {
		case *syntax.Ident:
			name = p.Name
		case *syntax.BinaryExpr:
			id, ok := p.X.(*syntax.Ident)
			if !ok {
				continue
			}

			name = id.Name
		default:
			return names
		}

		if i == 0 && r.receiver != "" && name == r.receiver {
			continue
		}

		names = append(names, name)
	}

	return names
}

func (r *Rewriter) defaults(params []syntax.Expr) error {
	for _, param := range params {
		if p, ok := param.(*syntax.BinaryExpr); ok && p.Op == syntax.EQ {
			if err := r.into(&p.Y); err != nil {
				return err
			}
		}
	}

	return nil
}
