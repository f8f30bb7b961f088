package adapter

import (
	"fmt"
	"sort"
	"strings"

	"go.starlark.net/lib/json"
	"go.starlark.net/lib/math"
	"go.starlark.net/lib/time"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"
)

// StarlarkAdapter wraps the Starlark front end and runtime so the domain
// can parse, compile and execute syntax trees it has rewritten in between.
type StarlarkAdapter interface {
	// Parse turns source text into a syntax tree. Errors are syntax.Error.
	Parse(filename string, src []byte) (*syntax.File, error)

	// Compile resolves and compiles a parsed, possibly rewritten, file.
	// Resolution errors are resolve.ErrorList.
	Compile(f *syntax.File, isPredeclared func(string) bool) (*starlark.Program, error)

	// Run executes the program's top level and returns its globals, which are
	// partial when the run failed.
	Run(prog *starlark.Program, thread *starlark.Thread, predeclared starlark.StringDict) (starlark.StringDict, error)

	// Modules returns the named library modules, keyed by the name under
	// which they are predeclared.
	Modules(names ...string) (starlark.StringDict, error)
}

// LocalStarlarkAdapter is the in-process implementation of StarlarkAdapter.
type LocalStarlarkAdapter struct {
	options *syntax.FileOptions
}

// NewLocalStarlarkAdapter returns an adapter accepting the full dialect used
// in teaching material: sets, while loops, top-level control flow, global
// reassignment and recursion.
func NewLocalStarlarkAdapter() *LocalStarlarkAdapter {
	return &LocalStarlarkAdapter{
		options: &syntax.FileOptions{
			Set:             true,
			While:           true,
			TopLevelControl: true,
			GlobalReassign:  true,
			Recursion:       true,
		},
	}
}

// FileOptions returns the dialect options used for parsing.
func (a *LocalStarlarkAdapter) FileOptions() *syntax.FileOptions {
	return a.options
}

// Parse parses src as a Starlark file named filename, keeping comments so
// ignore directives reach the rewriter.
func (a *LocalStarlarkAdapter) Parse(filename string, src []byte) (*syntax.File, error) {
	return a.options.Parse(filename, src, syntax.RetainComments)
}

// Compile resolves and compiles f.
func (a *LocalStarlarkAdapter) Compile(f *syntax.File, isPredeclared func(string) bool) (*starlark.Program, error) {
	return starlark.FileProgram(f, isPredeclared)
}

// Run initializes the program's globals on thread.
func (a *LocalStarlarkAdapter) Run(prog *starlark.Program, thread *starlark.Thread, predeclared starlark.StringDict) (starlark.StringDict, error) {
	return prog.Init(thread, predeclared)
}

var libraryModules = map[string]starlark.Value{
	"json":   json.Module,
	"math":   math.Module,
	"struct": starlark.NewBuiltin("struct", starlarkstruct.Make),
	"time":   time.Module,
}

// Modules looks up library modules by name.
func (a *LocalStarlarkAdapter) Modules(names ...string) (starlark.StringDict, error) {
	modules := make(starlark.StringDict, len(names))

	for _, name := range names {
		module, ok := libraryModules[name]
		if !ok {
			return nil, fmt.Errorf("unknown module %q (available: %s)", name, strings.Join(AvailableModules(), ", "))
		}

		modules[name] = module
	}

	return modules, nil
}

// AvailableModules lists the module names accepted by Modules.
func AvailableModules() []string {
	names := make([]string, 0, len(libraryModules))
	for name := range libraryModules {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
