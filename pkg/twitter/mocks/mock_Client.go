// Package mocks provides test doubles for the twitter client.
package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"

	twitter "github.com/dialectlab/tweetsift/pkg/twitter"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// Search provides a mock function with given fields: ctx, req
func (_m *MockClient) Search(ctx context.Context, req twitter.SearchRequest) (*twitter.SearchResponse, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for Search")
	}

	var r0 *twitter.SearchResponse
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, twitter.SearchRequest) (*twitter.SearchResponse, error)); ok {
		return rf(ctx, req)
	}
	if rf, ok := ret.Get(0).(func(context.Context, twitter.SearchRequest) *twitter.SearchResponse); ok {
		r0 = rf(ctx, req)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*twitter.SearchResponse)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, twitter.SearchRequest) error); ok {
		r1 = rf(ctx, req)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// SearchAll provides a mock function with given fields: ctx, query, maxItems
func (_m *MockClient) SearchAll(ctx context.Context, query string, maxItems int) ([]twitter.Status, error) {
	ret := _m.Called(ctx, query, maxItems)

	if len(ret) == 0 {
		panic("no return value specified for SearchAll")
	}

	var r0 []twitter.Status
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, int) ([]twitter.Status, error)); ok {
		return rf(ctx, query, maxItems)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, int) []twitter.Status); ok {
		r0 = rf(ctx, query, maxItems)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]twitter.Status)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, int) error); ok {
		r1 = rf(ctx, query, maxItems)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// VerifyCredentials provides a mock function with given fields: ctx
func (_m *MockClient) VerifyCredentials(ctx context.Context) error {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for VerifyCredentials")
	}

	if rf, ok := ret.Get(0).(func(context.Context) error); ok {
		return rf(ctx)
	}
	return ret.Error(0)
}
