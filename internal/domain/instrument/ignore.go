package instrument

import (
	"strings"

	"go.starlark.net/syntax"
)

// IgnoreDirective, in a comment on the line before a statement or at the
// end of a simple statement, leaves that statement uninstrumented. It may
// name the traces to drop, e.g. "# livetrace:ignore call, return"; nested
// statements inherit the rule. Comments are only seen when the file was
// parsed with syntax.RetainComments.
const IgnoreDirective = "livetrace:ignore"

// Trace kinds accepted by IgnoreDirective.
const (
	TraceAssign = "assign"
	TraceCall   = "call"
	TraceBlock  = "block"
	TraceReturn = "return"
)

type ignoreRule struct {
	all   bool
	kinds map[string]struct{}
}

func (r ignoreRule) ignores(kind string) bool {
	if r.all {
		return true
	}

	_, ok := r.kinds[kind]

	return ok
}

func (r ignoreRule) empty() bool {
	return !r.all && len(r.kinds) == 0
}

// merge returns the union of r and other without touching either.
func (r ignoreRule) merge(other ignoreRule) ignoreRule {
	if r.all || other.all {
		return ignoreRule{all: true}
	}

	kinds := make(map[string]struct{}, len(r.kinds)+len(other.kinds))
	for kind := range r.kinds {
		kinds[kind] = struct{}{}
	}

	for kind := range other.kinds {
		kinds[kind] = struct{}{}
	}

	return ignoreRule{kinds: kinds}
}

func parseIgnoreDirective(commentText string) (ignoreRule, bool) {
	s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(commentText), "#"))
	if !strings.HasPrefix(s, IgnoreDirective) {
		return ignoreRule{}, false
	}

	rest := strings.TrimPrefix(s, IgnoreDirective)
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return ignoreRule{}, false
	}

	rule := ignoreRule{kinds: make(map[string]struct{})}

	for _, part := range strings.Split(rest, ",") {
		kind := strings.ToLower(strings.TrimSpace(part))
		if kind == "" {
			continue
		}

		rule.kinds[kind] = struct{}{}
	}

	if len(rule.kinds) == 0 {
		return ignoreRule{all: true}, true
	}

	return rule, true
}

// ignoreRuleOf collects the directives attached to stmt.
func ignoreRuleOf(stmt syntax.Stmt) ignoreRule {
	comments := stmt.Comments()
	if comments == nil {
		return ignoreRule{}
	}

	var rule ignoreRule

	for _, group := range [][]syntax.Comment{comments.Before, comments.Suffix} {
		for _, c := range group {
			if r, ok := parseIgnoreDirective(c.Text); ok {
				rule = rule.merge(r)
			}
		}
	}

	return rule
}
