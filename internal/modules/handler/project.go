package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/astrotrack/astrotrack/internal/middleware"
	"github.com/astrotrack/astrotrack/internal/modules/serializer"
	"github.com/astrotrack/astrotrack/internal/modules/service"
)

type ProjectHandler struct {
	svc service.ProjectService
}

func NewProjectHandler(s service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: s}
}

// ListProjects godoc
//
//	@Summary		List projects
//	@Description	Projects the caller owns or collaborates on, most recently updated first, each with exposure totals.
//	@Tags			project
//	@Produce		json
//	@Security		CookieAuth
//	@Success		200	{object}	serializer.Response{data=[]service.ProjectView}
//	@Router			/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	views, err := h.svc.List(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondErr(c, err, "Project")
		return
	}
	c.JSON(http.StatusOK, serializer.List(views))
}

// CreateProject godoc
//
//	@Summary		Create project
//	@Description	Create a project owned by the caller. Sessions may be supplied inline keyed by date.
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	model.ProjectInput	true	"Project"
//	@Security		CookieAuth
//	@Success		201	{object}	serializer.Response{data=service.ProjectView}
//	@Failure		400	{object}	serializer.Response
//	@Router			/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	body, ok := bindObject(c)
	if !ok {
		return
	}
	view, err := h.svc.Create(c.Request.Context(), middleware.CurrentUserID(c), body)
	if err != nil {
		respondErr(c, err, "Project")
		return
	}
	c.JSON(http.StatusCreated, serializer.OK(view))
}

// GetProject godoc
//
//	@Summary		Get project
//	@Description	Public projects are readable by anyone; private ones by the owner and collaborators.
//	@Tags			project
//	@Produce		json
//	@Param			id	path	string	true	"Project ID"
//	@Success		200	{object}	serializer.Response{data=service.ProjectView}
//	@Failure		403	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Router			/projects/{id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	view, err := h.svc.Get(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		respondErr(c, err, "Project")
		return
	}
	c.JSON(http.StatusOK, serializer.OK(view))
}

// GetProjectStats godoc
//
//	@Summary		Project exposure totals
//	@Tags			project
//	@Produce		json
//	@Param			id	path	string	true	"Project ID"
//	@Success		200	{object}	serializer.Response{data=exposure.Summary}
//	@Router			/projects/{id}/stats [get]
func (h *ProjectHandler) GetProjectStats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		respondErr(c, err, "Project")
		return
	}
	c.JSON(http.StatusOK, serializer.OK(stats))
}

// UpdateProject godoc
//
//	@Summary		Update project
//	@Description	Partial update; only the owner may write. Sessions are edited through their own endpoints.
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string				true	"Project ID"
//	@Param			payload	body	model.ProjectPatch	true	"Fields to change"
//	@Security		CookieAuth
//	@Success		200	{object}	serializer.Response{data=service.ProjectView}
//	@Router			/projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	body, ok := bindObject(c)
	if !ok {
		return
	}
	view, err := h.svc.Update(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), body)
	if err != nil {
		respondErr(c, err, "Project")
		return
	}
	c.JSON(http.StatusOK, serializer.OK(view))
}

// DeleteProject godoc
//
//	@Summary		Delete project
//	@Description	Delete the project and all of its sessions.
//	@Tags			project
//	@Produce		json
//	@Param			id	path	string	true	"Project ID"
//	@Security		CookieAuth
//	@Success		200	{object}	serializer.Response
//	@Router			/projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		respondErr(c, err, "Project")
		return
	}
	c.JSON(http.StatusOK, serializer.Message("Project deleted"))
}
