package instrument

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"
)

func TestRewriter_Rewrite_Assignments(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		env    starlark.StringDict
		events []string
	}{
		{
			name:   "simple names",
			src:    "x = 1\ny = x + 2\n",
			events: []string{"assign x=1 @1", "assign y=3 @2"},
		},
		{
			name:   "augmented",
			src:    "x = 1\nx += 4\n",
			events: []string{"assign x=1 @1", "assign x=5 @2"},
		},
		{
			name:   "tuple unpacking",
			src:    "a, b = 1, 2\n",
			events: []string{"assign a=1 @1", "assign b=2 @1"},
		},
		{
			name:   "nested list unpacking",
			src:    "[a, (b, c)] = [1, (2, 3)]\n",
			events: []string{"assign a=1 @1", "assign b=2 @1", "assign c=3 @1"},
		},
		{
			name:   "subscript traces the container",
			src:    "d = {}\nd[\"k\"] = 1\n",
			events: []string{"assign d={} @1", `assign d={"k": 1} @2`},
		},
		{
			name:   "nested subscript traces the outermost container once",
			src:    "m = [[0]]\nm[0][0] = 7\n",
			events: []string{"assign m=[[0]] @1", "assign m=[[7]] @2"},
		},
		{
			name:   "attribute is read back after the setter ran",
			src:    "box.value = 5\n",
			env:    starlark.StringDict{"box": newSettable()},
			events: []string{`assign box.value="set:5" @1`},
		},
		{
			name:   "attribute of a subscript",
			src:    "boxes[0].value = 1\n",
			env:    starlark.StringDict{"boxes": starlark.NewList([]starlark.Value{newSettable()})},
			events: []string{`assign boxes[0].value="set:1" @1`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, _ := traceSource(t, tt.src, tt.env)
			assert.Equal(t, tt.events, events)
		})
	}
}

func TestRewriter_Rewrite_ForLoopStartsBlockOnce(t *testing.T) {
	src := `total = 0
for i in range(3):
    total += i
`
	events, globals := traceSource(t, src, nil)

	assert.Equal(t, []string{
		"assign total=0 @1",
		"block 2-3",
		"assign i=0 @2",
		"assign total=0 @3",
		"assign i=1 @2",
		"assign total=1 @3",
		"assign i=2 @2",
		"assign total=3 @3",
	}, events)
	assert.Equal(t, starlark.MakeInt(3), globals["total"])
}

func TestRewriter_Rewrite_LoopVariableTracedBeforeBodyReassigns(t *testing.T) {
	src := `for i in [10, 20]:
    i = 0
`
	events, _ := traceSource(t, src, nil)

	assert.Equal(t, []string{
		"block 1-2",
		"assign i=10 @1",
		"assign i=0 @2",
		"assign i=20 @1",
		"assign i=0 @2",
	}, events)
}

func TestRewriter_Rewrite_NestedLoops(t *testing.T) {
	src := `for i in range(2):
    for j in range(1):
        pass
`
	events, _ := traceSource(t, src, nil)

	assert.Equal(t, []string{
		"block 1-3",
		"assign i=0 @1",
		"block 2-3",
		"assign j=0 @2",
		"assign i=1 @1",
		"block 2-3",
		"assign j=0 @2",
	}, events)
}

func TestRewriter_Rewrite_WhileLoop(t *testing.T) {
	src := `n = 0
while n < 2:
    n += 1
`
	events, _ := traceSource(t, src, nil)

	assert.Equal(t, []string{
		"assign n=0 @1",
		"block 2-3",
		"assign n=1 @3",
		"assign n=2 @3",
	}, events)
}

func TestRewriter_Rewrite_FunctionEntryAndReturn(t *testing.T) {
	src := `def f(a, b):
    c = a + b
    return c

r = f(1, 2)
`
	events, globals := traceSource(t, src, nil)

	assert.Equal(t, []string{
		"assign a=1 @1",
		"assign b=2 @1",
		"block 1-3",
		"assign c=3 @2",
		"return 3 @3",
		"assign r=3 @5",
	}, events)
	assert.Equal(t, starlark.MakeInt(3), globals["r"])
}

func TestRewriter_Rewrite_BareReturnYieldsNone(t *testing.T) {
	src := `def f():
    return

r = f()
`
	events, globals := traceSource(t, src, nil)

	assert.Equal(t, []string{"block 1-2", "return None @2", "assign r=None @4"}, events)
	assert.Equal(t, starlark.None, globals["r"])
}

func TestRewriter_Rewrite_Parameters(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		opts   []Option
		events []string
	}{
		{
			name:   "leading receiver is skipped",
			src:    "def m(self, x):\n    pass\n\nm(1, 2)\n",
			events: []string{"assign x=2 @1", "block 1-2"},
		},
		{
			name:   "receiver elsewhere is traced",
			src:    "def m(x, self):\n    pass\n\nm(1, 2)\n",
			events: []string{"assign x=1 @1", "assign self=2 @1", "block 1-2"},
		},
		{
			name:   "custom receiver",
			src:    "def m(this, x):\n    pass\n\nm(1, 2)\n",
			opts:   []Option{WithReceiver("this")},
			events: []string{"assign x=2 @1", "block 1-2"},
		},
		{
			name:   "defaults are positional, varargs are not",
			src:    "def m(a, b=5, *rest, c=1, **kw):\n    pass\n\nm(1)\n",
			events: []string{"assign a=1 @1", "assign b=5 @1", "block 1-2"},
		},
		{
			name:   "keyword-only after bare star",
			src:    "def m(a, *, b):\n    pass\n\nm(1, b=2)\n",
			events: []string{"assign a=1 @1", "block 1-2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, _ := traceSource(t, tt.src, nil, tt.opts...)
			assert.Equal(t, tt.events, events)
		})
	}
}

func TestRewriter_Rewrite_ExcludedFunctionsAreUntouched(t *testing.T) {
	src := `def __repr__(v):
    w = v
    return w

s = __repr__(3)
`
	events, _ := traceSource(t, src, nil)
	assert.Equal(t, []string{"assign s=3 @5"}, events)

	events, _ = traceSource(t, src, nil, WithExcludedFunctions())
	assert.Equal(t, []string{
		"assign v=3 @1",
		"block 1-3",
		"assign w=3 @2",
		"return 3 @3",
		"assign s=3 @5",
	}, events)
}

func TestRewriter_Rewrite_Lambda(t *testing.T) {
	src := `sq = lambda n: n * n
v = sq(4)
`
	events, globals := traceSource(t, src, nil)

	require.Len(t, events, 4)
	assert.Equal(t, []string{"assign n=4 @1", "block 1-1", "assign v=16 @2"}, events[1:])
	assert.Equal(t, starlark.MakeInt(16), globals["v"])
}

func TestRewriter_Rewrite_QualifiedCalls(t *testing.T) {
	t.Run("receiver snapshots around the call", func(t *testing.T) {
		events, globals := traceSource(t, "a = [1]\nn = a.append(2)\n", nil)

		assert.Equal(t, []string{
			"assign a=[1] @1",
			"call a [1]->[1, 2] @2",
			"assign n=None @2",
		}, events)
		assert.Equal(t, "[1, 2]", globals["a"].String())
	})

	t.Run("dotted receiver path", func(t *testing.T) {
		ns := starlarkstruct.FromStringDict(starlarkstruct.Default, starlark.StringDict{
			"items": starlark.NewList(nil),
		})

		events, _ := traceSource(t, "ns.items.append(3)\n", starlark.StringDict{"ns": ns})

		assert.Equal(t, []string{"call ns.items []->[3] @1"}, events)
	})

	t.Run("call result is preserved", func(t *testing.T) {
		events, globals := traceSource(t, "s = \"a,b\".split(\",\")\nparts = \"x\".join([\"1\", \"2\"])\n", nil)

		assert.Equal(t, []string{`assign s=["a", "b"] @1`, `assign parts="1x2" @2`}, events)
		assert.Equal(t, starlark.String("1x2"), globals["parts"])
	})

	t.Run("plain calls are not recorded", func(t *testing.T) {
		events, _ := traceSource(t, "len([1, 2])\nstr(3)\n", nil)

		assert.Empty(t, events)
	})
}

func TestRewriter_Rewrite_NoInstrumentableConstructs(t *testing.T) {
	src := `len("abc")
1 + 2
if True:
    pass
else:
    "never"
`
	events, _ := traceSource(t, src, nil)

	assert.Empty(t, events)
}

func TestRewriter_Rewrite_PreservesResults(t *testing.T) {
	src := `def fib(n):
    if n < 2:
        return n
    return fib(n - 1) + fib(n - 2)

def collect(limit):
    out = []
    i = 0
    while i < limit:
        out.append(fib(i))
        i += 1
    return out

scale = lambda xs, k=2: [x * k for x in xs if x > 0]
values = collect(8)
scaled = scale(values)
pairs = {k: v for k, v in zip(["a", "b"], values[:2])}
first, rest = values[0], values[1:]
`
	want := plainRun(t, src, nil)
	events, got := traceSource(t, src, nil)

	assert.NotEmpty(t, events)

	for _, name := range []string{"values", "scaled", "pairs", "first", "rest"} {
		assert.Equal(t, want[name].String(), got[name].String(), name)
	}
}

func TestRewriter_Rewrite_RuntimeErrorKeepsSourceLines(t *testing.T) {
	src := `def f(x):
    y = x
    return 10 // x

f(0)
`
	_, _, err := execSource(t, src, nil)
	require.Error(t, err)

	var evalErr *starlark.EvalError
	require.ErrorAs(t, err, &evalErr)

	var lines []int32
	for _, frame := range evalErr.CallStack {
		if frame.Pos.Filename() == "test.star" {
			lines = append(lines, frame.Pos.Line)
		}
	}

	assert.Equal(t, []int32{5, 3}, lines)
}

func TestRewriter_Rewrite_UnsupportedAttributeObject(t *testing.T) {
	f := &syntax.File{Stmts: []syntax.Stmt{
		&syntax.AssignStmt{
			Op: syntax.EQ,
			LHS: &syntax.DotExpr{
				X:    &syntax.LambdaExpr{Body: intLiteral(1)},
				Name: ident("x"),
			},
			RHS: intLiteral(2),
		},
	}}

	err := New().Rewrite(f)

	require.ErrorIs(t, err, ErrUnsupportedNode)
	assert.Contains(t, err.Error(), "*syntax.LambdaExpr")
}

func TestRewriter_ExcludedFunctions(t *testing.T) {
	assert.Equal(t, []string{"__repr__"}, New().ExcludedFunctions())
	assert.Equal(t, []string{"__str__", "helper"}, New(WithExcludedFunctions("helper", "__str__")).ExcludedFunctions())
	assert.Empty(t, New(WithExcludedFunctions()).ExcludedFunctions())
}

func TestRewriter_Rewrite_DoesNotTraceRecorder(t *testing.T) {
	f := rewriteSource(t, "a = [1]\na.append(2)\n")

	calls := 0
	walk(f, func(n syntax.Node) bool {
		if call, ok := n.(*syntax.CallExpr); ok {
			if path, ok := receiverPath(call.Fn); ok && path[0] == RecorderName {
				calls++
			}
		}

		return true
	})

	// assign, record_call and its two repr snapshots
	assert.Equal(t, 4, calls)
}

func TestRewriter_Rewrite_IfWithoutElse(t *testing.T) {
	src := `def sign(n):
    if n < 0:
        return -1
    elif n == 0:
        return 0
    return 1

total = 0
for i in range(3):
    if i == 1:
        total += 10
k = 0
while k < 2:
    k += 1
    if k > 5:
        k = 0
s = sign(-4)
z = sign(0)
`
	events, globals := traceSource(t, src, nil)

	assert.Equal(t, []string{
		"assign total=0 @8",
		"block 9-11",
		"assign i=0 @9",
		"assign i=1 @9",
		"assign total=10 @11",
		"assign i=2 @9",
		"assign k=0 @12",
		"block 13-16",
		"assign k=1 @14",
		"assign k=2 @14",
		"assign n=-4 @1",
		"block 1-6",
		"return -1 @3",
		"assign s=-1 @17",
		"assign n=0 @1",
		"block 1-6",
		"return 0 @5",
		"assign z=0 @18",
	}, events)
	assert.Equal(t, starlark.MakeInt(10), globals["total"])
}

func TestRewriter_Rewrite_IfWithoutElseKeepsNilBranch(t *testing.T) {
	f := rewriteSource(t, "if True:\n    x = 1\n")

	var ifs []*syntax.IfStmt

	syntax.Walk(f, func(n syntax.Node) bool {
		if s, ok := n.(*syntax.IfStmt); ok {
			ifs = append(ifs, s)
		}

		return true
	})

	require.Len(t, ifs, 1)
	assert.Nil(t, ifs[0].False)
	assert.Len(t, ifs[0].True, 2)
}

func TestRewriter_Rewrite_NodesAreNotShared(t *testing.T) {
	src := `box.value = 5
boxes[0].value = box.value
box.inner.value = boxes.pop()
def f(a):
    if a:
        a.value = a
    return a
`
	f := rewriteSource(t, src)

	seen := map[syntax.Node]bool{}

	syntax.Walk(f, func(n syntax.Node) bool {
		assert.False(t, seen[n], "node %T visited twice", n)
		seen[n] = true

		return true
	})
}
