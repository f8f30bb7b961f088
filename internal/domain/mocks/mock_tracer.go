package mocks

import (
	m "github.com/mouse-blink/livetrace/internal/model"
	"github.com/stretchr/testify/mock"
)

// MockTracer is a mock type for the Tracer type.
type MockTracer struct {
	mock.Mock
}

// Trace provides a mock function with given fields: source.
func (_m *MockTracer) Trace(source m.Source) m.Report {
	ret := _m.Called(source)

	if rf, ok := ret.Get(0).(func(m.Source) m.Report); ok {
		return rf(source)
	}

	return ret.Get(0).(m.Report)
}

// NewMockTracer creates a new instance of MockTracer. It also registers a
// cleanup function to assert the mocks expectations.
func NewMockTracer(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTracer {
	mock := &MockTracer{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
