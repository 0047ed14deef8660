package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/astrotrack/astrotrack/internal/modules/service"
	"github.com/astrotrack/astrotrack/internal/pkg/validation"
)

func TestCatalogueHandler_CreateCatalogueValidation(t *testing.T) {
	svc := &MockCatalogueService{}
	svc.On("Create", mock.Anything, "u1", mock.Anything).
		Return(nil, validation.Errors{{Field: "abbreviation", Message: "must be at most 10 characters"}})

	h := NewCatalogueHandler(svc)
	router := setupRouter()
	router.POST("/catalogues", asUser("u1"), h.CreateCatalogue)

	req := httptest.NewRequest(http.MethodPost, "/catalogues",
		bytes.NewBufferString(`{"name":"Mine","abbreviation":"ABCDEFGHIJK"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "abbreviation")
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestCatalogueHandler_SystemCatalogueIsForbidden(t *testing.T) {
	svc := &MockCatalogueService{}
	svc.On("Delete", mock.Anything, "u1", "messier").Return(service.ErrForbidden)

	h := NewCatalogueHandler(svc)
	router := setupRouter()
	router.DELETE("/catalogues/:id", asUser("u1"), h.DeleteCatalogue)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/catalogues/messier", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertExpectations(t)
}
