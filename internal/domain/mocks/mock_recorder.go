package mocks

import (
	m "github.com/mouse-blink/livetrace/internal/model"
	"github.com/stretchr/testify/mock"
	"go.starlark.net/starlark"
)

// MockRecorder is a mock type for the Recorder type.
type MockRecorder struct {
	mock.Mock
}

// RecordCall provides a mock function with given fields: label, before, result, after, line.
func (_m *MockRecorder) RecordCall(label, before string, result starlark.Value, after string, line int) error {
	ret := _m.Called(label, before, result, after, line)

	return ret.Error(0)
}

// Assign provides a mock function with given fields: label, value, line.
func (_m *MockRecorder) Assign(label string, value starlark.Value, line int) error {
	ret := _m.Called(label, value, line)

	return ret.Error(0)
}

// StartBlock provides a mock function with given fields: first, last.
func (_m *MockRecorder) StartBlock(first, last int) error {
	ret := _m.Called(first, last)

	return ret.Error(0)
}

// ReturnValue provides a mock function with given fields: value, line.
func (_m *MockRecorder) ReturnValue(value starlark.Value, line int) error {
	ret := _m.Called(value, line)

	return ret.Error(0)
}

// AddMessage provides a mock function with given fields: text, line.
func (_m *MockRecorder) AddMessage(text string, line int) error {
	ret := _m.Called(text, line)

	return ret.Error(0)
}

// SetMessageLimit provides a mock function with given fields: limit.
func (_m *MockRecorder) SetMessageLimit(limit int) {
	_m.Called(limit)
}

// Report provides a mock function with no fields.
func (_m *MockRecorder) Report() m.Report {
	ret := _m.Called()

	if rf, ok := ret.Get(0).(func() m.Report); ok {
		return rf()
	}

	return ret.Get(0).(m.Report)
}

// NewMockRecorder creates a new instance of MockRecorder. It also registers
// a cleanup function to assert the mocks expectations.
func NewMockRecorder(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRecorder {
	mock := &MockRecorder{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
