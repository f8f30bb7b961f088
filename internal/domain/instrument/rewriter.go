// Package instrument rewrites Starlark syntax trees so that running them
// reports assignments, qualified calls, block entries and returns to a
// recorder bound to RecorderName.
//
// The rewritten program keeps the original control flow, side effects and
// values. Injected calls are built after their children have been visited,
// so the rewriter never instruments its own machinery.
package instrument

import (
	"errors"
	"fmt"
	"sort"

	"go.starlark.net/syntax"
)

// ErrUnsupportedNode is returned for syntax the rewriter does not know how to
// instrument. It signals a defect in the rewriter, not in the user program.
var ErrUnsupportedNode = errors.New("unsupported syntax node")

// Rewriter injects recorder calls into Starlark syntax trees.
type Rewriter struct {
	excluded map[string]struct{}
	receiver string

	// ignore is the directive rule in force for the statement being
	// rewritten.
	ignore ignoreRule
}

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithExcludedFunctions replaces the list of function names that are left
// untouched, body included.
func WithExcludedFunctions(names ...string) Option {
	return func(r *Rewriter) {
		r.excluded = make(map[string]struct{}, len(names))
		for _, name := range names {
			r.excluded[name] = struct{}{}
		}
	}
}

// WithReceiver sets the name of the leading receiver parameter that is not
// traced on function entry. An empty name traces every parameter.
func WithReceiver(name string) Option {
	return func(r *Rewriter) {
		r.receiver = name
	}
}

// New creates a Rewriter.
func New(opts ...Option) *Rewriter {
	r := &Rewriter{receiver: DefaultReceiver}
	WithExcludedFunctions(DefaultExcludedFunctions...)(r)

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// ExcludedFunctions returns the sorted names of the uninstrumented functions.
func (r *Rewriter) ExcludedFunctions() []string {
	names := make([]string, 0, len(r.excluded))
	for name := range r.excluded {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Rewrite instruments f in place. Positions of injected statements are
// backfilled per block; call FixMissingPositions before compiling. Rewrite
// may be called from several goroutines at once.
func (r *Rewriter) Rewrite(f *syntax.File) error {
	w := *r
	w.ignore = ignoreRule{}

	stmts, err := w.stmts(f.Stmts)
	if err != nil {
		return err
	}

	backfill(stmts, syntax.Position{})
	f.Stmts = stmts

	return nil
}

// stmts rewrites a block. An empty block stays nil: syntax.IfStmt.Span
// treats a non-nil empty False as an else branch.
func (r *Rewriter) stmts(list []syntax.Stmt) ([]syntax.Stmt, error) {
	if len(list) == 0 {
		return nil, nil
	}

	out := make([]syntax.Stmt, 0, len(list))

	for _, stmt := range list {
		rewritten, err := r.stmt(stmt)
		if err != nil {
			return nil, err
		}

		out = append(out, rewritten...)
	}

	return out, nil
}

func (r *Rewriter) stmt(stmt syntax.Stmt) ([]syntax.Stmt, error) {
	rule := ignoreRuleOf(stmt)
	if rule.all {
		return []syntax.Stmt{stmt}, nil
	}

	if !rule.empty() {
		saved := r.ignore
		r.ignore = r.ignore.merge(rule)

		defer func() { r.ignore = saved }()
	}

	switch s := stmt.(type) {
	case *syntax.ExprStmt:
		if err := r.into(&s.X); err != nil {
			return nil, err
		}

		return []syntax.Stmt{s}, nil
	case *syntax.AssignStmt:
		return r.assign(s)
	case *syntax.IfStmt:
		return r.ifStmt(s)
	case *syntax.ForStmt:
		return r.forStmt(s)
	case *syntax.WhileStmt:
		return r.whileStmt(s)
	case *syntax.DefStmt:
		return r.def(s)
	case *syntax.ReturnStmt:
		return r.returnStmt(s)
	case *syntax.BranchStmt, *syntax.LoadStmt:
		return []syntax.Stmt{s}, nil
	default:
		return nil, unsupported(stmt)
	}
}

func (r *Rewriter) ifStmt(s *syntax.IfStmt) ([]syntax.Stmt, error) {
	if err := r.into(&s.Cond); err != nil {
		return nil, err
	}

	body, err := r.stmts(s.True)
	if err != nil {
		return nil, err
	}

	s.True = body
	backfill(s.True, s.If)

	if s.False != nil {
		orElse, err := r.stmts(s.False)
		if err != nil {
			return nil, err
		}

		s.False = orElse
	}

	owner := s.ElsePos
	if !owner.IsValid() {
		owner = s.If
	}

	backfill(s.False, owner)

	return []syntax.Stmt{s}, nil
}

// into rewrites the expression stored at dst.
func (r *Rewriter) into(dst *syntax.Expr) error {
	x, err := r.expr(*dst)
	if err != nil {
		return err
	}

	*dst = x

	return nil
}

func (r *Rewriter) exprs(list []syntax.Expr) error {
	for i := range list {
		if err := r.into(&list[i]); err != nil {
			return err
		}
	}

	return nil
}

func (r *Rewriter) expr(e syntax.Expr) (syntax.Expr, error) {
	switch e := e.(type) {
	case nil:
		return nil, nil
	case *syntax.Ident, *syntax.Literal:
		return e, nil
	case *syntax.CallExpr:
		return r.call(e)
	case *syntax.LambdaExpr:
		return r.lambda(e)
	case *syntax.DotExpr:
		return e, r.into(&e.X)
	case *syntax.IndexExpr:
		if err := r.into(&e.X); err != nil {
			return nil, err
		}

		return e, r.into(&e.Y)
	case *syntax.SliceExpr:
		return e, r.exprFields(&e.X, &e.Lo, &e.Hi, &e.Step)
	case *syntax.ParenExpr:
		return e, r.into(&e.X)
	case *syntax.UnaryExpr:
		return e, r.into(&e.X)
	case *syntax.BinaryExpr:
		return e, r.exprFields(&e.X, &e.Y)
	case *syntax.CondExpr:
		return e, r.exprFields(&e.Cond, &e.True, &e.False)
	case *syntax.ListExpr:
		return e, r.exprs(e.List)
	case *syntax.TupleExpr:
		return e, r.exprs(e.List)
	case *syntax.DictExpr:
		return e, r.exprs(e.List)
	case *syntax.DictEntry:
		return e, r.exprFields(&e.Key, &e.Value)
	case *syntax.Comprehension:
		return e, r.comprehension(e)
	default:
		return nil, unsupported(e)
	}
}

func (r *Rewriter) exprFields(fields ...*syntax.Expr) error {
	for _, field := range fields {
		if err := r.into(field); err != nil {
			return err
		}
	}

	return nil
}

func (r *Rewriter) comprehension(e *syntax.Comprehension) error {
	if err := r.into(&e.Body); err != nil {
		return err
	}

	for _, clause := range e.Clauses {
		switch c := clause.(type) {
		case *syntax.ForClause:
			if err := r.into(&c.X); err != nil {
				return err
			}
		case *syntax.IfClause:
			if err := r.into(&c.Cond); err != nil {
				return err
			}
		default:
			return unsupported(clause)
		}
	}

	return nil
}

func unsupported(n syntax.Node) error {
	if line := lineOf(n); line > 0 {
		return fmt.Errorf("%w: %T at line %d", ErrUnsupportedNode, n, line)
	}

	return fmt.Errorf("%w: %T", ErrUnsupportedNode, n)
}
