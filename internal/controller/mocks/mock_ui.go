// Package mocks provides testify mocks of the controller interfaces.
package mocks

import (
	m "github.com/mouse-blink/livetrace/internal/model"
	"github.com/stretchr/testify/mock"
)

// MockUI is a mock type for the UI type.
type MockUI struct {
	mock.Mock
}

// DisplayReports provides a mock function with given fields: results.
func (_m *MockUI) DisplayReports(results []m.FileResult) error {
	ret := _m.Called(results)

	return ret.Error(0)
}

// NewMockUI creates a new instance of MockUI. It also registers a cleanup
// function to assert the mocks expectations.
func NewMockUI(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUI {
	mock := &MockUI{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
