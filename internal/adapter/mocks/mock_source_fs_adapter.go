package mocks

import (
	"os"

	"github.com/mouse-blink/livetrace/internal/adapter"
	m "github.com/mouse-blink/livetrace/internal/model"
	"github.com/stretchr/testify/mock"
)

// MockSourceFSAdapter is a mock type for the SourceFSAdapter type.
type MockSourceFSAdapter struct {
	mock.Mock
}

// Get provides a mock function with given fields: paths.
func (_m *MockSourceFSAdapter) Get(paths []m.Path) ([]m.Source, error) {
	ret := _m.Called(paths)

	var r0 []m.Source
	if v := ret.Get(0); v != nil {
		r0 = v.([]m.Source)
	}

	return r0, ret.Error(1)
}

// Walk provides a mock function with given fields: root, recursive, fn.
func (_m *MockSourceFSAdapter) Walk(root m.Path, recursive bool, fn adapter.FilepathWalkFunc) error {
	ret := _m.Called(root, recursive, fn)

	return ret.Error(0)
}

// ReadFile provides a mock function with given fields: path.
func (_m *MockSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	ret := _m.Called(path)

	var r0 []byte
	if v := ret.Get(0); v != nil {
		r0 = v.([]byte)
	}

	return r0, ret.Error(1)
}

// FileInfo provides a mock function with given fields: path.
func (_m *MockSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	ret := _m.Called(path)

	var r0 os.FileInfo
	if v := ret.Get(0); v != nil {
		r0 = v.(os.FileInfo)
	}

	return r0, ret.Error(1)
}

// NewMockSourceFSAdapter creates a new instance of MockSourceFSAdapter. It
// also registers a cleanup function to assert the mocks expectations.
func NewMockSourceFSAdapter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSourceFSAdapter {
	mock := &MockSourceFSAdapter{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
