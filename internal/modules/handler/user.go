package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/astrotrack/astrotrack/internal/middleware"
	"github.com/astrotrack/astrotrack/internal/modules/serializer"
	"github.com/astrotrack/astrotrack/internal/modules/service"
)

type UserHandler struct {
	svc service.UserService
}

func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{svc: s}
}

// GetMe godoc
//
//	@Summary		Get profile
//	@Tags			user
//	@Produce		json
//	@Security		CookieAuth
//	@Success		200	{object}	serializer.Response{data=model.User}
//	@Router			/users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	u, err := h.svc.Get(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondErr(c, err, "User")
		return
	}
	c.JSON(http.StatusOK, serializer.OK(u))
}

// UpdateMe godoc
//
//	@Summary		Update profile
//	@Tags			user
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	model.UserPatch	true	"Fields to change"
//	@Security		CookieAuth
//	@Success		200	{object}	serializer.Response{data=model.User}
//	@Router			/users/me [put]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	body, ok := bindObject(c)
	if !ok {
		return
	}
	u, err := h.svc.UpdateProfile(c.Request.Context(), middleware.CurrentUserID(c), body)
	if err != nil {
		respondErr(c, err, "User")
		return
	}
	c.JSON(http.StatusOK, serializer.OK(u))
}

// AddFavorite godoc
//
//	@Summary		Favorite a project
//	@Tags			user
//	@Produce		json
//	@Param			projectId	path	string	true	"Project ID"
//	@Security		CookieAuth
//	@Success		200	{object}	serializer.Response{data=model.User}
//	@Router			/users/me/favorites/{projectId} [put]
func (h *UserHandler) AddFavorite(c *gin.Context) {
	u, err := h.svc.AddFavorite(c.Request.Context(), middleware.CurrentUserID(c), c.Param("projectId"))
	if err != nil {
		respondErr(c, err, "Project")
		return
	}
	c.JSON(http.StatusOK, serializer.OK(u))
}

// RemoveFavorite godoc
//
//	@Summary		Unfavorite a project
//	@Tags			user
//	@Produce		json
//	@Param			projectId	path	string	true	"Project ID"
//	@Security		CookieAuth
//	@Success		200	{object}	serializer.Response{data=model.User}
//	@Router			/users/me/favorites/{projectId} [delete]
func (h *UserHandler) RemoveFavorite(c *gin.Context) {
	u, err := h.svc.RemoveFavorite(c.Request.Context(), middleware.CurrentUserID(c), c.Param("projectId"))
	if err != nil {
		respondErr(c, err, "User")
		return
	}
	c.JSON(http.StatusOK, serializer.OK(u))
}
