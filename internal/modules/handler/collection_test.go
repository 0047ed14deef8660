package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/astrotrack/astrotrack/internal/modules/model"
	"github.com/astrotrack/astrotrack/internal/modules/service"
	"github.com/astrotrack/astrotrack/internal/pkg/validation"
)

func TestCollectionHandler_CreateCollection(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setup          func(*MockCollectionService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "created",
			body: `{"name":"Nebulae","projectIds":["p1"]}`,
			setup: func(svc *MockCollectionService) {
				svc.On("Create", mock.Anything, "u1", map[string]any{"name": "Nebulae", "projectIds": []any{"p1"}}).
					Return(&model.Collection{ID: "c1", UserID: "u1", Name: "Nebulae", ProjectIDs: []string{"p1"}}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"projectIds":["p1"]`,
		},
		{
			name: "unknown project",
			body: `{"name":"Nebulae","projectIds":["gone"]}`,
			setup: func(svc *MockCollectionService) {
				svc.On("Create", mock.Anything, "u1", mock.Anything).
					Return(nil, validation.Errors{{Field: "projectIds[0]", Message: "project does not exist"}})
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"details":"projectIds[0]: project does not exist"`,
		},
		{
			name: "unreadable project",
			body: `{"name":"Nebulae","projectIds":["theirs"]}`,
			setup: func(svc *MockCollectionService) {
				svc.On("Create", mock.Anything, "u1", mock.Anything).
					Return(nil, validation.Errors{{Field: "projectIds[0]", Message: "project is not accessible"}})
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"details":"projectIds[0]: project is not accessible"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockCollectionService{}
			tt.setup(svc)

			h := NewCollectionHandler(svc)
			router := setupRouter()
			router.POST("/collections", asUser("u1"), h.CreateCollection)

			req := httptest.NewRequest(http.MethodPost, "/collections", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}

func TestCollectionHandler_GetCollection(t *testing.T) {
	tests := []struct {
		name           string
		userID         string
		err            error
		expectedStatus int
	}{
		{name: "public to anonymous", userID: "", expectedStatus: http.StatusOK},
		{name: "private to anonymous", userID: "", err: service.ErrUnauthenticated, expectedStatus: http.StatusUnauthorized},
		{name: "private to other user", userID: "u2", err: service.ErrForbidden, expectedStatus: http.StatusForbidden},
		{name: "missing", userID: "u1", err: service.ErrNotFound, expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockCollectionService{}
			if tt.err != nil {
				svc.On("Get", mock.Anything, tt.userID, "c1").Return(nil, tt.err)
			} else {
				svc.On("Get", mock.Anything, tt.userID, "c1").
					Return(&model.Collection{ID: "c1", UserID: "u1", Visibility: model.VisibilityPublic}, nil)
			}

			h := NewCollectionHandler(svc)
			router := setupRouter()
			router.GET("/collections/:id", asUser(tt.userID), h.GetCollection)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/collections/c1", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestCollectionHandler_ListCollectionsReportsCount(t *testing.T) {
	svc := &MockCollectionService{}
	svc.On("List", mock.Anything, "u1").Return([]*model.Collection{{ID: "a"}}, nil)

	h := NewCollectionHandler(svc)
	router := setupRouter()
	router.GET("/collections", asUser("u1"), h.ListCollections)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/collections", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)
}
