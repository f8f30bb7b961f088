package instrument

import "go.starlark.net/syntax"

// returnStmt expands `return X` into
//
//	$result = X
//	$recorder.return_value($result, line)
//	return $result
//
// A bare return binds None.
func (r *Rewriter) returnStmt(s *syntax.ReturnStmt) ([]syntax.Stmt, error) {
	if r.ignore.ignores(TraceReturn) {
		return []syntax.Stmt{s}, r.into(&s.Result)
	}

	value := s.Result
	if value == nil {
		value = ident("None")
	}

	value, err := r.expr(value)
	if err != nil {
		return nil, err
	}

	line := lineOf(s)
	bind := &syntax.AssignStmt{Op: syntax.EQ, LHS: ident(ResultName), RHS: value}
	notify := exprStmt(recorderCall(MethodReturnValue, ident(ResultName), intLiteral(line)))
	s.Result = ident(ResultName)

	return []syntax.Stmt{bind, notify, s}, nil
}
