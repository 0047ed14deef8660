package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/astrotrack/astrotrack/internal/middleware"
	"github.com/astrotrack/astrotrack/internal/modules/serializer"
	"github.com/astrotrack/astrotrack/internal/modules/service"
)

type CatalogueHandler struct {
	svc service.CatalogueService
}

func NewCatalogueHandler(s service.CatalogueService) *CatalogueHandler {
	return &CatalogueHandler{svc: s}
}

// ListCatalogues godoc
//
//	@Summary		List catalogues
//	@Description	System catalogues followed by the caller's own.
//	@Tags			catalogue
//	@Produce		json
//	@Security		CookieAuth
//	@Success		200	{object}	serializer.Response{data=[]model.Catalogue}
//	@Router			/catalogues [get]
func (h *CatalogueHandler) ListCatalogues(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondErr(c, err, "Catalogue")
		return
	}
	c.JSON(http.StatusOK, serializer.List(items))
}

// CreateCatalogue godoc
//
//	@Summary		Create catalogue
//	@Description	Create a user catalogue. The abbreviation is at most 10 characters.
//	@Tags			catalogue
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	model.CatalogueInput	true	"Catalogue"
//	@Security		CookieAuth
//	@Success		201	{object}	serializer.Response{data=model.Catalogue}
//	@Failure		400	{object}	serializer.Response
//	@Router			/catalogues [post]
func (h *CatalogueHandler) CreateCatalogue(c *gin.Context) {
	body, ok := bindObject(c)
	if !ok {
		return
	}
	cat, err := h.svc.Create(c.Request.Context(), middleware.CurrentUserID(c), body)
	if err != nil {
		respondErr(c, err, "Catalogue")
		return
	}
	c.JSON(http.StatusCreated, serializer.OK(cat))
}

// GetCatalogue godoc
//
//	@Summary		Get catalogue
//	@Tags			catalogue
//	@Produce		json
//	@Param			id	path	string	true	"Catalogue ID"
//	@Success		200	{object}	serializer.Response{data=model.Catalogue}
//	@Router			/catalogues/{id} [get]
func (h *CatalogueHandler) GetCatalogue(c *gin.Context) {
	cat, err := h.svc.Get(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		respondErr(c, err, "Catalogue")
		return
	}
	c.JSON(http.StatusOK, serializer.OK(cat))
}

// UpdateCatalogue godoc
//
//	@Summary		Update catalogue
//	@Description	System catalogues cannot be modified.
//	@Tags			catalogue
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string					true	"Catalogue ID"
//	@Param			payload	body	model.CataloguePatch	true	"Fields to change"
//	@Security		CookieAuth
//	@Success		200	{object}	serializer.Response{data=model.Catalogue}
//	@Failure		403	{object}	serializer.Response
//	@Router			/catalogues/{id} [put]
func (h *CatalogueHandler) UpdateCatalogue(c *gin.Context) {
	body, ok := bindObject(c)
	if !ok {
		return
	}
	cat, err := h.svc.Update(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), body)
	if err != nil {
		respondErr(c, err, "Catalogue")
		return
	}
	c.JSON(http.StatusOK, serializer.OK(cat))
}

// DeleteCatalogue godoc
//
//	@Summary		Delete catalogue
//	@Tags			catalogue
//	@Produce		json
//	@Param			id	path	string	true	"Catalogue ID"
//	@Security		CookieAuth
//	@Success		200	{object}	serializer.Response
//	@Failure		403	{object}	serializer.Response
//	@Router			/catalogues/{id} [delete]
func (h *CatalogueHandler) DeleteCatalogue(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		respondErr(c, err, "Catalogue")
		return
	}
	c.JSON(http.StatusOK, serializer.Message("Catalogue deleted"))
}
