// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskHive Contributors

package store

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/pkg/errutil"
)

func TestNewMigrator_InvalidURL(t *testing.T) {
	_, err := NewMigrator("invalid://url")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "MIGRATION_INIT_FAILED")
}

// TestNewMigrator_PostgresqlScheme verifies that postgresql:// URLs are
// converted to pgx5:// for the golang-migrate pgx/v5 driver. Connection
// still fails (no database behind the host), but the scheme must be
// recognized rather than rejected as an unknown driver.
func TestNewMigrator_PostgresqlScheme(t *testing.T) {
	_, err := NewMigrator("postgresql://localhost:5432/testdb")
	require.Error(t, err, "should fail due to connection, not URL scheme")
	errutil.AssertErrorCode(t, err, "MIGRATION_INIT_FAILED")
	assert.NotContains(t, err.Error(), "unknown driver")
}

// mockMigrate implements migrateIface for testing.
type mockMigrate struct {
	upErr          error
	downErr        error
	versionVal     uint
	versionErr     error
	dirty          bool
	closeSourceErr error
	closeDbErr     error
}

func (m *mockMigrate) Up() error                    { return m.upErr }
func (m *mockMigrate) Down() error                  { return m.downErr }
func (m *mockMigrate) Version() (uint, bool, error) { return m.versionVal, m.dirty, m.versionErr }
func (m *mockMigrate) Close() (error, error)        { return m.closeSourceErr, m.closeDbErr }

func TestMigrator_Up(t *testing.T) {
	tests := []struct {
		name     string
		upErr    error
		wantErr  bool
		wantCode string
	}{
		{name: "success"},
		{name: "no change is not an error", upErr: migrate.ErrNoChange},
		{name: "failure wrapped", upErr: errors.New("boom"), wantErr: true, wantCode: "MIGRATION_UP_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Migrator{m: &mockMigrate{upErr: tt.upErr}}
			err := m.Up()
			if tt.wantErr {
				require.Error(t, err)
				errutil.AssertErrorCode(t, err, tt.wantCode)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestMigrator_Down(t *testing.T) {
	tests := []struct {
		name     string
		downErr  error
		wantErr  bool
		wantCode string
	}{
		{name: "success"},
		{name: "no change is not an error", downErr: migrate.ErrNoChange},
		{name: "failure wrapped", downErr: errors.New("boom"), wantErr: true, wantCode: "MIGRATION_DOWN_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Migrator{m: &mockMigrate{downErr: tt.downErr}}
			err := m.Down()
			if tt.wantErr {
				require.Error(t, err)
				errutil.AssertErrorCode(t, err, tt.wantCode)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestMigrator_Version(t *testing.T) {
	t.Run("reports version and dirty state", func(t *testing.T) {
		m := &Migrator{m: &mockMigrate{versionVal: 3, dirty: true}}
		version, dirty, err := m.Version()
		require.NoError(t, err)
		assert.Equal(t, uint(3), version)
		assert.True(t, dirty)
	})

	t.Run("nil version means no migrations applied", func(t *testing.T) {
		m := &Migrator{m: &mockMigrate{versionErr: migrate.ErrNilVersion}}
		version, dirty, err := m.Version()
		require.NoError(t, err)
		assert.Equal(t, uint(0), version)
		assert.False(t, dirty)
	})

	t.Run("failure wrapped", func(t *testing.T) {
		m := &Migrator{m: &mockMigrate{versionErr: errors.New("boom")}}
		_, _, err := m.Version()
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "MIGRATION_VERSION_FAILED")
	})
}

func TestMigrator_Close(t *testing.T) {
	tests := []struct {
		name      string
		sourceErr error
		dbErr     error
		wantErr   bool
	}{
		{name: "success"},
		{name: "source close failure", sourceErr: errors.New("src"), wantErr: true},
		{name: "database close failure", dbErr: errors.New("db"), wantErr: true},
		{name: "both failures combined", sourceErr: errors.New("src"), dbErr: errors.New("db"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Migrator{m: &mockMigrate{closeSourceErr: tt.sourceErr, closeDbErr: tt.dbErr}}
			err := m.Close()
			if tt.wantErr {
				require.Error(t, err)
				errutil.AssertErrorCode(t, err, "MIGRATION_CLOSE_FAILED")
				if tt.sourceErr != nil && tt.dbErr != nil {
					assert.Contains(t, err.Error(), "src")
					assert.Contains(t, err.Error(), "db")
				}
				return
			}
			require.NoError(t, err)
		})
	}
}
