package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ganot/chronicle/internal/domain/activity"
	"github.com/ganot/chronicle/internal/domain/registry"
	"github.com/ganot/chronicle/internal/domain/summary"
)

// RegistryRepository is a mock for registry.Repository.
type RegistryRepository struct {
	mock.Mock
}

func (m *RegistryRepository) Upsert(ctx context.Context, entry *registry.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *RegistryRepository) Get(ctx context.Context, path string) (*registry.Entry, error) {
	args := m.Called(ctx, path)
	if entry, ok := args.Get(0).(*registry.Entry); ok {
		return entry, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RegistryRepository) List(ctx context.Context) ([]registry.Entry, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]registry.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RegistryRepository) Touch(ctx context.Context, path string, touchedAt, expires time.Time) error {
	args := m.Called(ctx, path, touchedAt, expires)
	return args.Error(0)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// DocumentStore is a mock for summary.DocumentStore.
type DocumentStore struct {
	mock.Mock
}

func (m *DocumentStore) Read(ctx context.Context, dir string) (*summary.Record, error) {
	args := m.Called(ctx, dir)
	if rec, ok := args.Get(0).(*summary.Record); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DocumentStore) Write(ctx context.Context, dir string, rec *summary.Record) error {
	args := m.Called(ctx, dir, rec)
	return args.Error(0)
}

func (m *DocumentStore) Exists(ctx context.Context, dir string) (bool, error) {
	args := m.Called(ctx, dir)
	return args.Bool(0), args.Error(1)
}

func (m *DocumentStore) WriteSnapshot(ctx context.Context, dir string, rec *summary.Record) (summary.SnapshotID, error) {
	args := m.Called(ctx, dir, rec)
	return args.Get(0).(summary.SnapshotID), args.Error(1)
}

func (m *DocumentStore) SnapshotExists(ctx context.Context, dir string, version int) (bool, error) {
	args := m.Called(ctx, dir, version)
	return args.Bool(0), args.Error(1)
}
