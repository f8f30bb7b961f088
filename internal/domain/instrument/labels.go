package instrument

import (
	"fmt"
	"strings"

	"go.starlark.net/syntax"
)

// exprString renders the textual form of an expression, as used in the
// labels of attribute assignments.
func exprString(e syntax.Expr) (string, error) {
	var b strings.Builder
	if err := writeExpr(&b, e); err != nil {
		return "", err
	}

	return b.String(), nil
}

func writeExpr(b *strings.Builder, e syntax.Expr) error {
	switch e := e.(type) {
	case *syntax.Ident:
		b.WriteString(e.Name)
	case *syntax.Literal:
		if e.Raw != "" {
			b.WriteString(e.Raw)
		} else {
			fmt.Fprint(b, e.Value)
		}
	case *syntax.DotExpr:
		if err := writeExpr(b, e.X); err != nil {
			return err
		}

		b.WriteString(".")
		b.WriteString(e.Name.Name)
	case *syntax.IndexExpr:
		if err := writeExpr(b, e.X); err != nil {
			return err
		}

		b.WriteString("[")

		if err := writeExpr(b, e.Y); err != nil {
			return err
		}

		b.WriteString("]")
	case *syntax.SliceExpr:
		return writeSlice(b, e)
	case *syntax.CallExpr:
		if err := writeExpr(b, e.Fn); err != nil {
			return err
		}

		return writeList(b, "(", e.Args, ")")
	case *syntax.ParenExpr:
		b.WriteString("(")

		if err := writeExpr(b, e.X); err != nil {
			return err
		}

		b.WriteString(")")
	case *syntax.UnaryExpr:
		b.WriteString(e.Op.String())

		if e.Op == syntax.NOT {
			b.WriteString(" ")
		}

		if e.X != nil {
			return writeExpr(b, e.X)
		}
	case *syntax.BinaryExpr:
		return writeBinary(b, e)
	case *syntax.CondExpr:
		if err := writeExpr(b, e.True); err != nil {
			return err
		}

		b.WriteString(" if ")

		if err := writeExpr(b, e.Cond); err != nil {
			return err
		}

		b.WriteString(" else ")

		return writeExpr(b, e.False)
	case *syntax.ListExpr:
		return writeList(b, "[", e.List, "]")
	case *syntax.TupleExpr:
		// parenthesized tuples arrive wrapped in a ParenExpr
		switch len(e.List) {
		case 0:
			b.WriteString("()")
		case 1:
			if err := writeExpr(b, e.List[0]); err != nil {
				return err
			}

			b.WriteString(",")
		default:
			return writeList(b, "", e.List, "")
		}
	case *syntax.DictExpr:
		return writeList(b, "{", e.List, "}")
	case *syntax.DictEntry:
		if err := writeExpr(b, e.Key); err != nil {
			return err
		}

		b.WriteString(": ")

		return writeExpr(b, e.Value)
	default:
		return unsupported(e)
	}

	return nil
}

func writeBinary(b *strings.Builder, e *syntax.BinaryExpr) error {
	if err := writeExpr(b, e.X); err != nil {
		return err
	}

	// keyword arguments and parameter defaults print without spaces
	if e.Op == syntax.EQ {
		b.WriteString("=")
	} else {
		b.WriteString(" " + e.Op.String() + " ")
	}

	return writeExpr(b, e.Y)
}

func writeSlice(b *strings.Builder, e *syntax.SliceExpr) error {
	if err := writeExpr(b, e.X); err != nil {
		return err
	}

	b.WriteString("[")

	for i, part := range []syntax.Expr{e.Lo, e.Hi, e.Step} {
		if i == 2 && part == nil {
			break
		}

		if i > 0 {
			b.WriteString(":")
		}

		if part != nil {
			if err := writeExpr(b, part); err != nil {
				return err
			}
		}
	}

	b.WriteString("]")

	return nil
}

func writeList(b *strings.Builder, open string, list []syntax.Expr, closing string) error {
	b.WriteString(open)

	for i, item := range list {
		if i > 0 {
			b.WriteString(", ")
		}

		if err := writeExpr(b, item); err != nil {
			return err
		}
	}

	b.WriteString(closing)

	return nil
}
