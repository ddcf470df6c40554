// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskHive Contributors

// Package mocks provides testify mocks for the task package interfaces.
package mocks

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/mock"

	"github.com/taskhive/taskhive/internal/task"
)

// MockRepository is a testify mock for task.Repository.
type MockRepository struct {
	mock.Mock
}

// NewMockRepository creates a mock with expectations asserted at test
// cleanup.
func NewMockRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRepository {
	m := &MockRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRepository) ListByOwner(ctx context.Context, ownerID string) ([]*task.Task, error) {
	args := m.Called(ctx, ownerID)
	if tasks, ok := args.Get(0).([]*task.Task); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) GetByIDAndOwner(ctx context.Context, id ulid.ULID, ownerID string) (*task.Task, error) {
	args := m.Called(ctx, id, ownerID)
	if t, ok := args.Get(0).(*task.Task); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockRepository) Update(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id ulid.ULID, ownerID string, status task.Status) error {
	args := m.Called(ctx, id, ownerID, status)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id ulid.ULID, ownerID string) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}
