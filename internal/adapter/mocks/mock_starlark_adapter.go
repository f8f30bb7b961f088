// Package mocks provides testify mocks of the adapter interfaces.
package mocks

import (
	"github.com/stretchr/testify/mock"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// MockStarlarkAdapter is a mock type for the StarlarkAdapter type.
type MockStarlarkAdapter struct {
	mock.Mock
}

// Parse provides a mock function with given fields: filename, src.
func (_m *MockStarlarkAdapter) Parse(filename string, src []byte) (*syntax.File, error) {
	ret := _m.Called(filename, src)

	var r0 *syntax.File
	if v := ret.Get(0); v != nil {
		r0 = v.(*syntax.File)
	}

	return r0, ret.Error(1)
}

// Compile provides a mock function with given fields: f, isPredeclared.
func (_m *MockStarlarkAdapter) Compile(f *syntax.File, isPredeclared func(string) bool) (*starlark.Program, error) {
	ret := _m.Called(f, isPredeclared)

	var r0 *starlark.Program
	if v := ret.Get(0); v != nil {
		r0 = v.(*starlark.Program)
	}

	return r0, ret.Error(1)
}

// Run provides a mock function with given fields: prog, thread, predeclared.
func (_m *MockStarlarkAdapter) Run(prog *starlark.Program, thread *starlark.Thread, predeclared starlark.StringDict) (starlark.StringDict, error) {
	ret := _m.Called(prog, thread, predeclared)

	var r0 starlark.StringDict
	if v := ret.Get(0); v != nil {
		r0 = v.(starlark.StringDict)
	}

	return r0, ret.Error(1)
}

// Modules provides a mock function with given fields: names.
func (_m *MockStarlarkAdapter) Modules(names ...string) (starlark.StringDict, error) {
	args := make([]interface{}, len(names))
	for i, name := range names {
		args[i] = name
	}

	ret := _m.Called(args...)

	var r0 starlark.StringDict
	if v := ret.Get(0); v != nil {
		r0 = v.(starlark.StringDict)
	}

	return r0, ret.Error(1)
}

// NewMockStarlarkAdapter creates a new instance of MockStarlarkAdapter. It
// also registers a cleanup function to assert the mocks expectations.
func NewMockStarlarkAdapter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockStarlarkAdapter {
	mock := &MockStarlarkAdapter{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
