package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/astrotrack/astrotrack/internal/middleware"
	"github.com/astrotrack/astrotrack/internal/modules/serializer"
	"github.com/astrotrack/astrotrack/internal/modules/service"
)

type CollectionHandler struct {
	svc service.CollectionService
}

func NewCollectionHandler(s service.CollectionService) *CollectionHandler {
	return &CollectionHandler{svc: s}
}

// ListCollections godoc
//
//	@Summary		List collections
//	@Tags			collection
//	@Produce		json
//	@Security		CookieAuth
//	@Success		200	{object}	serializer.Response{data=[]model.Collection}
//	@Router			/collections [get]
func (h *CollectionHandler) ListCollections(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondErr(c, err, "Collection")
		return
	}
	c.JSON(http.StatusOK, serializer.List(items))
}

// CreateCollection godoc
//
//	@Summary		Create collection
//	@Tags			collection
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	model.CollectionInput	true	"Collection"
//	@Security		CookieAuth
//	@Success		201	{object}	serializer.Response{data=model.Collection}
//	@Router			/collections [post]
func (h *CollectionHandler) CreateCollection(c *gin.Context) {
	body, ok := bindObject(c)
	if !ok {
		return
	}
	col, err := h.svc.Create(c.Request.Context(), middleware.CurrentUserID(c), body)
	if err != nil {
		respondErr(c, err, "Collection")
		return
	}
	c.JSON(http.StatusCreated, serializer.OK(col))
}

// GetCollection godoc
//
//	@Summary		Get collection
//	@Tags			collection
//	@Produce		json
//	@Param			id	path	string	true	"Collection ID"
//	@Success		200	{object}	serializer.Response{data=model.Collection}
//	@Router			/collections/{id} [get]
func (h *CollectionHandler) GetCollection(c *gin.Context) {
	col, err := h.svc.Get(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		respondErr(c, err, "Collection")
		return
	}
	c.JSON(http.StatusOK, serializer.OK(col))
}

// UpdateCollection godoc
//
//	@Summary		Update collection
//	@Tags			collection
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string					true	"Collection ID"
//	@Param			payload	body	model.CollectionPatch	true	"Fields to change"
//	@Security		CookieAuth
//	@Success		200	{object}	serializer.Response{data=model.Collection}
//	@Router			/collections/{id} [put]
func (h *CollectionHandler) UpdateCollection(c *gin.Context) {
	body, ok := bindObject(c)
	if !ok {
		return
	}
	col, err := h.svc.Update(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), body)
	if err != nil {
		respondErr(c, err, "Collection")
		return
	}
	c.JSON(http.StatusOK, serializer.OK(col))
}

// DeleteCollection godoc
//
//	@Summary		Delete collection
//	@Tags			collection
//	@Produce		json
//	@Param			id	path	string	true	"Collection ID"
//	@Security		CookieAuth
//	@Success		200	{object}	serializer.Response
//	@Router			/collections/{id} [delete]
func (h *CollectionHandler) DeleteCollection(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		respondErr(c, err, "Collection")
		return
	}
	c.JSON(http.StatusOK, serializer.Message("Collection deleted"))
}
