// Package mocks provides testify mocks of the application ports.
package mocks

import (
	"context"

	"supramolecular/application/ports"
	"supramolecular/domain/core/entities"
	"supramolecular/domain/core/valueobjects"
	"supramolecular/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockDataRepository is a mock implementation of ports.DataRepository
type MockDataRepository struct {
	mock.Mock
}

func (m *MockDataRepository) Save(ctx context.Context, data *entities.Dataset) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockDataRepository) GetByID(ctx context.Context, id valueobjects.DataID) (*entities.Dataset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Dataset), args.Error(1)
}

func (m *MockDataRepository) Exists(ctx context.Context, id valueobjects.DataID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockFitRepository is a mock implementation of ports.FitRepository
type MockFitRepository struct {
	mock.Mock
}

func (m *MockFitRepository) Save(ctx context.Context, fit *entities.Fit) error {
	args := m.Called(ctx, fit)
	return args.Error(0)
}

func (m *MockFitRepository) GetByID(ctx context.Context, id valueobjects.FitID) (*entities.Fit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Fit), args.Error(1)
}

func (m *MockFitRepository) List(ctx context.Context, filter ports.FitFilter) ([]*entities.Fit, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Fit), args.Error(1)
}

func (m *MockFitRepository) Delete(ctx context.Context, id valueobjects.FitID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of ports.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	args := m.Called(ctx, evts)
	return args.Error(0)
}

// MockCache is a mock implementation of ports.Cache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (interface{}, bool) {
	args := m.Called(ctx, key)
	return args.Get(0), args.Bool(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, ttl int) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var (
	_ ports.DataRepository = (*MockDataRepository)(nil)
	_ ports.FitRepository  = (*MockFitRepository)(nil)
	_ ports.EventPublisher = (*MockEventPublisher)(nil)
	_ ports.Cache          = (*MockCache)(nil)
)
