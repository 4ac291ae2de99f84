// Package mocks provides test doubles for the llm package.
package mocks

import (
	"context"

	llm "github.com/Etheal9/SEO-Auditor-AI-Agents/internal/llm"
	mock "github.com/stretchr/testify/mock"
)

// MockBackend is a mock type for the Backend interface.
type MockBackend struct {
	mock.Mock
}

// Name provides a mock function with no fields
func (_m *MockBackend) Name() string {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for Name")
	}
	return ret.String(0)
}

// Model provides a mock function with no fields
func (_m *MockBackend) Model() string {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for Model")
	}
	return ret.String(0)
}

// Complete provides a mock function with given fields: ctx, req
func (_m *MockBackend) Complete(ctx context.Context, req llm.Request) (*llm.Reply, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for Complete")
	}

	var r0 *llm.Reply
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, llm.Request) (*llm.Reply, error)); ok {
		return rf(ctx, req)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*llm.Reply)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// NewMockBackend creates a new instance of MockBackend.
func NewMockBackend(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockBackend {
	mock := &MockBackend{}
	mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
