// Package mocks provides testify mocks for the output ports.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/bnema/virtdock/internal/domain"
)

// MockConfigSource is a mock implementation of out.ConfigSource
type MockConfigSource struct {
	mock.Mock
}

// NewMockConfigSource creates a MockConfigSource whose expectations are asserted on cleanup.
func NewMockConfigSource(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockConfigSource {
	m := &MockConfigSource{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockConfigSource) Fetch(ctx context.Context, ref string) ([]byte, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockConfigSource) Name() string {
	args := m.Called()
	return args.String(0)
}

// MockEnvLoader is a mock implementation of out.EnvLoader
type MockEnvLoader struct {
	mock.Mock
}

func (m *MockEnvLoader) LoadEnvFile(ctx context.Context, path string) ([]domain.EnvVar, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EnvVar), args.Error(1)
}

// MockTranslationRecorder is a mock implementation of out.TranslationRecorder
type MockTranslationRecorder struct {
	mock.Mock
}

func (m *MockTranslationRecorder) RecordTranslation(ctx context.Context, elapsed time.Duration, kind string) {
	m.Called(ctx, elapsed, kind)
}

// MockRateLimiter is a mock implementation of out.RateLimiter
type MockRateLimiter struct {
	mock.Mock
}

// NewMockRateLimiter creates a MockRateLimiter whose expectations are asserted on cleanup.
func NewMockRateLimiter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRateLimiter {
	m := &MockRateLimiter{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRateLimiter) Allow(ctx context.Context, key string) bool {
	args := m.Called(ctx, key)
	return args.Bool(0)
}
