package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/astrotrack/astrotrack/internal/modules/serializer"
	"github.com/astrotrack/astrotrack/internal/modules/service"
	"github.com/astrotrack/astrotrack/internal/pkg/validation"
)

// bindObject reads a JSON object body. Field-level checks happen in the
// service layer so every violation is reported at once.
func bindObject(c *gin.Context) (map[string]any, bool) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("request body must be a JSON object", err))
		return nil, false
	}
	if body == nil {
		body = map[string]any{}
	}
	return body, true
}

// respondErr maps service errors onto the envelope. what names the resource
// in not-found messages.
func respondErr(c *gin.Context, err error, what string) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, serializer.ValidationErr(verrs))
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, serializer.ForbiddenErr(""))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, serializer.NotFoundErr(what))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, serializer.DBErr(""))
	}
}
