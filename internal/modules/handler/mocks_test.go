package handler

import (
	"context"
	"time"

	"github.com/astrotrack/astrotrack/internal/infra/identity"
	"github.com/astrotrack/astrotrack/internal/modules/model"
	"github.com/astrotrack/astrotrack/internal/modules/service"
	"github.com/astrotrack/astrotrack/internal/pkg/exposure"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// asUser stands in for the auth middleware.
func asUser(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id != "" {
			c.Set("user", &model.User{ID: id})
		}
		c.Next()
	}
}

// MockProjectService is a mock implementation of service.ProjectService
type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) List(ctx context.Context, userID string) ([]*service.ProjectView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*service.ProjectView), args.Error(1)
}

func (m *MockProjectService) Get(ctx context.Context, userID, projectID string) (*service.ProjectView, error) {
	args := m.Called(ctx, userID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProjectView), args.Error(1)
}

func (m *MockProjectService) Stats(ctx context.Context, userID, projectID string) (*exposure.Summary, error) {
	args := m.Called(ctx, userID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*exposure.Summary), args.Error(1)
}

func (m *MockProjectService) Create(ctx context.Context, userID string, input map[string]any) (*service.ProjectView, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProjectView), args.Error(1)
}

func (m *MockProjectService) Update(ctx context.Context, userID, projectID string, patch map[string]any) (*service.ProjectView, error) {
	args := m.Called(ctx, userID, projectID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProjectView), args.Error(1)
}

func (m *MockProjectService) Delete(ctx context.Context, userID, projectID string) error {
	args := m.Called(ctx, userID, projectID)
	return args.Error(0)
}

// MockCatalogueService is a mock implementation of service.CatalogueService
type MockCatalogueService struct {
	mock.Mock
}

func (m *MockCatalogueService) List(ctx context.Context, userID string) ([]*model.Catalogue, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Catalogue), args.Error(1)
}

func (m *MockCatalogueService) Get(ctx context.Context, userID, id string) (*model.Catalogue, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Catalogue), args.Error(1)
}

func (m *MockCatalogueService) Create(ctx context.Context, userID string, input map[string]any) (*model.Catalogue, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Catalogue), args.Error(1)
}

func (m *MockCatalogueService) Update(ctx context.Context, userID, id string, patch map[string]any) (*model.Catalogue, error) {
	args := m.Called(ctx, userID, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Catalogue), args.Error(1)
}

func (m *MockCatalogueService) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockCatalogueService) EnsureSystem(ctx context.Context, catalogues []*model.Catalogue) (int, error) {
	args := m.Called(ctx, catalogues)
	return args.Int(0), args.Error(1)
}

// MockAuthService is a mock implementation of service.AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, idToken string) (*service.LoginOutput, error) {
	args := m.Called(ctx, idToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginOutput), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, sessionToken string) error {
	args := m.Called(ctx, sessionToken)
	return args.Error(0)
}

func (m *MockAuthService) ClearExpired(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockAuthService) Resolve(ctx context.Context, sessionToken string) (*model.User, error) {
	args := m.Called(ctx, sessionToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) SessionMaxAge() time.Duration {
	return 5 * 24 * time.Hour
}

// MockEquipmentService is a mock implementation of service.EquipmentService
type MockEquipmentService struct {
	mock.Mock
}

func (m *MockEquipmentService) List(ctx context.Context, userID string) ([]*model.Equipment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Equipment), args.Error(1)
}

func (m *MockEquipmentService) Get(ctx context.Context, userID, id string) (*model.Equipment, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Equipment), args.Error(1)
}

func (m *MockEquipmentService) Create(ctx context.Context, userID string, input map[string]any) (*model.Equipment, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Equipment), args.Error(1)
}

func (m *MockEquipmentService) Update(ctx context.Context, userID, id string, patch map[string]any) (*model.Equipment, error) {
	args := m.Called(ctx, userID, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Equipment), args.Error(1)
}

func (m *MockEquipmentService) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// MockCollectionService is a mock implementation of service.CollectionService
type MockCollectionService struct {
	mock.Mock
}

func (m *MockCollectionService) List(ctx context.Context, userID string) ([]*model.Collection, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Collection), args.Error(1)
}

func (m *MockCollectionService) Get(ctx context.Context, userID, id string) (*model.Collection, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Collection), args.Error(1)
}

func (m *MockCollectionService) Create(ctx context.Context, userID string, input map[string]any) (*model.Collection, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Collection), args.Error(1)
}

func (m *MockCollectionService) Update(ctx context.Context, userID, id string, patch map[string]any) (*model.Collection, error) {
	args := m.Called(ctx, userID, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Collection), args.Error(1)
}

func (m *MockCollectionService) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// MockUserService is a mock implementation of service.UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) EnsureUser(ctx context.Context, id *identity.Identity) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID string, patch map[string]any) (*model.User, error) {
	args := m.Called(ctx, userID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) AddFavorite(ctx context.Context, userID, projectID string) (*model.User, error) {
	args := m.Called(ctx, userID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) RemoveFavorite(ctx context.Context, userID, projectID string) (*model.User, error) {
	args := m.Called(ctx, userID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
