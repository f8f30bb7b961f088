// Package mocks provides testify mocks of the domain interfaces.
package mocks

import (
	"context"

	"github.com/mouse-blink/livetrace/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockWorkflow is a mock type for the Workflow type.
type MockWorkflow struct {
	mock.Mock
}

// Trace provides a mock function with given fields: ctx, args.
func (_m *MockWorkflow) Trace(ctx context.Context, args domain.TraceArgs) error {
	ret := _m.Called(ctx, args)

	if rf, ok := ret.Get(0).(func(context.Context, domain.TraceArgs) error); ok {
		return rf(ctx, args)
	}

	return ret.Error(0)
}

// NewMockWorkflow creates a new instance of MockWorkflow. It also registers
// a cleanup function to assert the mocks expectations.
func NewMockWorkflow(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWorkflow {
	mock := &MockWorkflow{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
