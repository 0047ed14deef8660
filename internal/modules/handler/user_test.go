package handler

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/astrotrack/astrotrack/internal/modules/model"
	"github.com/astrotrack/astrotrack/internal/modules/service"
	"github.com/astrotrack/astrotrack/internal/pkg/validation"
)

func TestUserHandler_AddFavorite(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{name: "added", expectedStatus: http.StatusOK, expectedBody: `"favoriteProjectIds":["p1"]`},
		{name: "unknown project", err: service.ErrNotFound, expectedStatus: http.StatusNotFound, expectedBody: `"error":"Project not found"`},
		{name: "private project", err: service.ErrForbidden, expectedStatus: http.StatusForbidden, expectedBody: `"error":"Forbidden"`},
		{name: "store failure", err: errors.New("transaction aborted"), expectedStatus: http.StatusInternalServerError, expectedBody: `"error":"Internal server error"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockUserService{}
			if tt.err != nil {
				svc.On("AddFavorite", mock.Anything, "u1", "p1").Return(nil, tt.err)
			} else {
				svc.On("AddFavorite", mock.Anything, "u1", "p1").
					Return(&model.User{ID: "u1", FavoriteProjectIDs: []string{"p1"}}, nil)
			}

			h := NewUserHandler(svc)
			router := setupRouter()
			router.PUT("/users/me/favorites/:projectId", asUser("u1"), h.AddFavorite)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/users/me/favorites/p1", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			assert.NotContains(t, w.Body.String(), "transaction aborted")
			svc.AssertExpectations(t)
		})
	}
}

func TestUserHandler_RemoveFavorite(t *testing.T) {
	svc := &MockUserService{}
	svc.On("RemoveFavorite", mock.Anything, "u1", "p1").
		Return(&model.User{ID: "u1", FavoriteProjectIDs: []string{}}, nil)

	h := NewUserHandler(svc)
	router := setupRouter()
	router.DELETE("/users/me/favorites/:projectId", asUser("u1"), h.RemoveFavorite)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/users/me/favorites/p1", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"favoriteProjectIds":[]`)
	svc.AssertExpectations(t)
}

func TestUserHandler_UpdateMe(t *testing.T) {
	svc := &MockUserService{}
	svc.On("UpdateProfile", mock.Anything, "u1", map[string]any{"displayName": ""}).
		Return(nil, validation.Errors{{Field: "displayName", Message: "must be at least 1 characters"}})

	h := NewUserHandler(svc)
	router := setupRouter()
	router.PUT("/users/me", asUser("u1"), h.UpdateMe)

	req := httptest.NewRequest(http.MethodPut, "/users/me", bytes.NewBufferString(`{"displayName":""}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"details":"displayName: must be at least 1 characters"`)
	svc.AssertExpectations(t)
}
