package service

import (
	"context"

	"github.com/astrotrack/astrotrack/internal/infra/identity"
	"github.com/astrotrack/astrotrack/internal/modules/model"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

var testLog = zap.NewNop()

// MockProjectRepo is a mock implementation of repo.ProjectRepo
type MockProjectRepo struct {
	mock.Mock
}

func (m *MockProjectRepo) Create(ctx context.Context, p *model.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepo) Get(ctx context.Context, id string) (*model.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectRepo) GetMeta(ctx context.Context, id string) (*model.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectRepo) ListByOwner(ctx context.Context, userID string) ([]*model.Project, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Project), args.Error(1)
}

func (m *MockProjectRepo) ListByCollaborator(ctx context.Context, userID string) ([]*model.Project, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Project), args.Error(1)
}

func (m *MockProjectRepo) Update(ctx context.Context, p *model.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepo) Delete(ctx context.Context, p *model.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// MockSessionRepo is a mock implementation of repo.SessionRepo
type MockSessionRepo struct {
	mock.Mock
}

func (m *MockSessionRepo) List(ctx context.Context, projectID string) (map[string]model.Session, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]model.Session), args.Error(1)
}

func (m *MockSessionRepo) Get(ctx context.Context, projectID, date string) (*model.Session, error) {
	args := m.Called(ctx, projectID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockSessionRepo) Create(ctx context.Context, projectID string, s *model.Session) error {
	args := m.Called(ctx, projectID, s)
	return args.Error(0)
}

func (m *MockSessionRepo) Update(ctx context.Context, projectID string, s *model.Session) error {
	args := m.Called(ctx, projectID, s)
	return args.Error(0)
}

func (m *MockSessionRepo) Delete(ctx context.Context, projectID, date string) error {
	args := m.Called(ctx, projectID, date)
	return args.Error(0)
}

// MockCatalogueRepo is a mock implementation of repo.CatalogueRepo
type MockCatalogueRepo struct {
	mock.Mock
}

func (m *MockCatalogueRepo) Create(ctx context.Context, c *model.Catalogue) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCatalogueRepo) EnsureSystem(ctx context.Context, c *model.Catalogue) (bool, error) {
	args := m.Called(ctx, c)
	return args.Bool(0), args.Error(1)
}

func (m *MockCatalogueRepo) Get(ctx context.Context, id string) (*model.Catalogue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Catalogue), args.Error(1)
}

func (m *MockCatalogueRepo) ListSystem(ctx context.Context) ([]*model.Catalogue, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Catalogue), args.Error(1)
}

func (m *MockCatalogueRepo) ListByOwner(ctx context.Context, userID string) ([]*model.Catalogue, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Catalogue), args.Error(1)
}

func (m *MockCatalogueRepo) Update(ctx context.Context, c *model.Catalogue) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCatalogueRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEquipmentRepo is a mock implementation of repo.EquipmentRepo
type MockEquipmentRepo struct {
	mock.Mock
}

func (m *MockEquipmentRepo) Create(ctx context.Context, e *model.Equipment) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEquipmentRepo) Get(ctx context.Context, id string) (*model.Equipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Equipment), args.Error(1)
}

func (m *MockEquipmentRepo) ListByOwner(ctx context.Context, userID string) ([]*model.Equipment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Equipment), args.Error(1)
}

func (m *MockEquipmentRepo) Update(ctx context.Context, e *model.Equipment) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEquipmentRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCollectionRepo is a mock implementation of repo.CollectionRepo
type MockCollectionRepo struct {
	mock.Mock
}

func (m *MockCollectionRepo) Create(ctx context.Context, c *model.Collection) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCollectionRepo) Get(ctx context.Context, id string) (*model.Collection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Collection), args.Error(1)
}

func (m *MockCollectionRepo) ListByOwner(ctx context.Context, userID string) ([]*model.Collection, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Collection), args.Error(1)
}

func (m *MockCollectionRepo) Update(ctx context.Context, c *model.Collection) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCollectionRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEventPublisher records published events.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, routingKey string, body any) error {
	args := m.Called(ctx, routingKey, body)
	return args.Error(0)
}

// MockCache is a mock implementation of Cache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	args := m.Called(ctx, key, out)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) SetJSON(ctx context.Context, key string, v any, tags ...string) error {
	args := m.Called(ctx, key, v, tags)
	return args.Error(0)
}

func (m *MockCache) Invalidate(ctx context.Context, tags ...string) error {
	args := m.Called(ctx, tags)
	return args.Error(0)
}

// fakeVerifier accepts "good:<subject>" tokens.
type fakeVerifier struct {
	err error
}

func (f fakeVerifier) Provider() string { return "google" }

func (f fakeVerifier) Verify(_ context.Context, token string) (*identity.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	const prefix = "good:"
	if len(token) <= len(prefix) || token[:len(prefix)] != prefix {
		return nil, identity.ErrInvalidToken
	}
	sub := token[len(prefix):]
	return &identity.Identity{
		Subject:     sub,
		Email:       sub + "@example.com",
		DisplayName: "User " + sub,
		Provider:    "google",
	}, nil
}
