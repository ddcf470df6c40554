// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskHive Contributors

// Package mocks provides testify mocks for the auth package interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/taskhive/taskhive/internal/auth"
)

// MockAccountRepository is a testify mock for auth.AccountRepository.
type MockAccountRepository struct {
	mock.Mock
}

// NewMockAccountRepository creates a mock with expectations asserted at
// test cleanup.
func NewMockAccountRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockAccountRepository {
	m := &MockAccountRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAccountRepository) Create(ctx context.Context, account *auth.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByHandle(ctx context.Context, handle string) (*auth.Account, error) {
	args := m.Called(ctx, handle)
	if acct, ok := args.Get(0).(*auth.Account); ok {
		return acct, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountRepository) GetByHandleOrEmail(ctx context.Context, handle, email string) (*auth.Account, error) {
	args := m.Called(ctx, handle, email)
	if acct, ok := args.Get(0).(*auth.Account); ok {
		return acct, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*auth.Account, error) {
	args := m.Called(ctx, id)
	if acct, ok := args.Get(0).(*auth.Account); ok {
		return acct, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockPasswordHasher is a testify mock for auth.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

// NewMockPasswordHasher creates a mock with expectations asserted at
// test cleanup.
func NewMockPasswordHasher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Verify(password, hash string) (bool, error) {
	args := m.Called(password, hash)
	return args.Bool(0), args.Error(1)
}
