// Package mocks provides hand-rolled testify mocks for SDK interfaces.
package mocks

import (
	"net/http"

	"github.com/stretchr/testify/mock"
)

// Doer is a mock implementation of the api.Doer interface.
type Doer struct {
	mock.Mock
}

// Do mocks api.Doer.Do.
func (m *Doer) Do(req *http.Request) (*http.Response, error) {
	ret := m.Called(req)

	var resp *http.Response
	if ret.Get(0) != nil {
		resp = ret.Get(0).(*http.Response)
	}
	return resp, ret.Error(1)
}

// NewDoer creates a new Doer mock with cleanup-time expectation assertion.
func NewDoer(t interface {
	mock.TestingT
	Cleanup(func())
}) *Doer {
	m := &Doer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
