package instrument

import "go.starlark.net/syntax"

// backfill gives every statement of a block that has no position the
// position of the nearest preceding statement that has one. Statements at
// the head of the block take the owner's position, or the first positioned
// statement of the block when there is no owner.
func backfill(stmts []syntax.Stmt, owner syntax.Position) {
	prev := owner
	if !prev.IsValid() {
		prev = firstPosition(stmts)
	}

	for _, stmt := range stmts {
		if start := startOf(stmt); start.IsValid() {
			prev = start

			continue
		}

		fillMissing(stmt, prev)
	}
}

// FixMissingPositions fills every position still absent after rewriting with
// the start of the enclosing statement. The compiler builds its line tables
// from these positions, so it must run before compilation.
func FixMissingPositions(f *syntax.File) {
	pos := firstPosition(f.Stmts)

	for _, stmt := range f.Stmts {
		if start := startOf(stmt); start.IsValid() {
			pos = start
		}

		fillMissing(stmt, pos)
	}
}

// fillMissing sets the absent positions of root and its descendants to pos.
// Nested statements that carry their own position use it for their subtree.
func fillMissing(root syntax.Node, pos syntax.Position) {
	walk(root, func(n syntax.Node) bool {
		if stmt, ok := n.(syntax.Stmt); ok && n != root {
			if start := startOf(stmt); start.IsValid() {
				fillMissing(stmt, start)
			} else {
				fillMissing(stmt, pos)
			}

			return false
		}

		setMissing(n, pos)

		return true
	})
}

// setMissing covers the node kinds the rewriter synthesizes.
func setMissing(n syntax.Node, pos syntax.Position) {
	switch n := n.(type) {
	case *syntax.Ident:
		fill(&n.NamePos, pos)
	case *syntax.Literal:
		fill(&n.TokenPos, pos)
	case *syntax.CallExpr:
		fill(&n.Lparen, pos)
		fill(&n.Rparen, pos)
	case *syntax.DotExpr:
		fill(&n.Dot, pos)
		fill(&n.NamePos, pos)
	case *syntax.IndexExpr:
		fill(&n.Lbrack, pos)
		fill(&n.Rbrack, pos)
	case *syntax.AssignStmt:
		fill(&n.OpPos, pos)
	case *syntax.ReturnStmt:
		fill(&n.Return, pos)
	}
}

func fill(p *syntax.Position, pos syntax.Position) {
	if !p.IsValid() {
		*p = pos
	}
}

func startOf(n syntax.Node) syntax.Position {
	start, _ := n.Span()

	return start
}

func firstPosition(stmts []syntax.Stmt) syntax.Position {
	for _, stmt := range stmts {
		if start := startOf(stmt); start.IsValid() {
			return start
		}
	}

	return syntax.Position{}
}

// lineRange returns the smallest and largest start line over n and all of
// its descendants. Nodes without a position are ignored.
func lineRange(n syntax.Node) (first, last int) {
	walk(n, func(child syntax.Node) bool {
		line := lineOf(child)
		if line == 0 {
			return true
		}

		if first == 0 || line < first {
			first = line
		}

		if line > last {
			last = line
		}

		return true
	})

	return first, last
}
