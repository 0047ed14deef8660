package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/astrotrack/astrotrack/internal/config"
	"github.com/astrotrack/astrotrack/internal/modules/model"
	"github.com/astrotrack/astrotrack/internal/modules/service"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		App:  config.AppConfig{Env: "production"},
		Auth: config.AuthConfig{CookieName: "astrotrack_session"},
	}
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthHandler_Login(t *testing.T) {
	svc := &MockAuthService{}
	svc.On("Login", mock.Anything, "good-token").Return(&service.LoginOutput{
		Token:     "ats_secret",
		ExpiresAt: time.Now().Add(time.Hour),
		User:      &model.User{ID: "u1"},
	}, nil)
	svc.On("Login", mock.Anything, "bad-token").Return(nil, service.ErrUnauthenticated)

	h := NewAuthHandler(svc, testAuthConfig())
	router := setupRouter()
	router.POST("/auth/login", h.Login)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := post(`{"idToken":"good-token"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	cookie := findCookie(w, "astrotrack_session")
	require.NotNil(t, cookie)
	assert.Equal(t, "ats_secret", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, 5*24*60*60, cookie.MaxAge)
	assert.NotContains(t, w.Body.String(), "ats_secret")

	w = post(`{"idToken":"bad-token"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, findCookie(w, "astrotrack_session"))

	w = post(`{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_LogoutClearsCookie(t *testing.T) {
	svc := &MockAuthService{}
	svc.On("Logout", mock.Anything, "ats_secret").Return(nil)

	h := NewAuthHandler(svc, testAuthConfig())
	router := setupRouter()
	router.POST("/auth/logout", h.Logout)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "astrotrack_session", Value: "ats_secret"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	cookie := findCookie(w, "astrotrack_session")
	require.NotNil(t, cookie)
	assert.Less(t, cookie.MaxAge, 0)
	svc.AssertExpectations(t)
}

func TestAuthHandler_ClearExpired(t *testing.T) {
	svc := &MockAuthService{}
	svc.On("ClearExpired", mock.Anything).Return(3, nil)
	svc.On("Resolve", mock.Anything, "ats_stale").Return(nil, service.ErrUnauthenticated)

	h := NewAuthHandler(svc, testAuthConfig())
	router := setupRouter()
	router.POST("/auth/clear-expired", h.ClearExpired)

	req := httptest.NewRequest(http.MethodPost, "/auth/clear-expired", nil)
	req.AddCookie(&http.Cookie{Name: "astrotrack_session", Value: "ats_stale"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":3`)
	cookie := findCookie(w, "astrotrack_session")
	require.NotNil(t, cookie)
	assert.Less(t, cookie.MaxAge, 0)
}
