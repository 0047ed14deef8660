package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/astrotrack/astrotrack/internal/middleware"
	"github.com/astrotrack/astrotrack/internal/modules/serializer"
	"github.com/astrotrack/astrotrack/internal/modules/service"
)

type EquipmentHandler struct {
	svc service.EquipmentService
}

func NewEquipmentHandler(s service.EquipmentService) *EquipmentHandler {
	return &EquipmentHandler{svc: s}
}

// ListEquipment godoc
//
//	@Summary		List equipment
//	@Tags			equipment
//	@Produce		json
//	@Security		CookieAuth
//	@Success		200	{object}	serializer.Response{data=[]model.Equipment}
//	@Router			/equipment [get]
func (h *EquipmentHandler) ListEquipment(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondErr(c, err, "Equipment")
		return
	}
	c.JSON(http.StatusOK, serializer.List(items))
}

// CreateEquipment godoc
//
//	@Summary		Add equipment
//	@Tags			equipment
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	model.EquipmentInput	true	"Equipment"
//	@Security		CookieAuth
//	@Success		201	{object}	serializer.Response{data=model.Equipment}
//	@Failure		400	{object}	serializer.Response
//	@Router			/equipment [post]
func (h *EquipmentHandler) CreateEquipment(c *gin.Context) {
	body, ok := bindObject(c)
	if !ok {
		return
	}
	e, err := h.svc.Create(c.Request.Context(), middleware.CurrentUserID(c), body)
	if err != nil {
		respondErr(c, err, "Equipment")
		return
	}
	c.JSON(http.StatusCreated, serializer.OK(e))
}

// GetEquipment godoc
//
//	@Summary		Get equipment
//	@Tags			equipment
//	@Produce		json
//	@Param			id	path	string	true	"Equipment ID"
//	@Security		CookieAuth
//	@Success		200	{object}	serializer.Response{data=model.Equipment}
//	@Router			/equipment/{id} [get]
func (h *EquipmentHandler) GetEquipment(c *gin.Context) {
	e, err := h.svc.Get(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		respondErr(c, err, "Equipment")
		return
	}
	c.JSON(http.StatusOK, serializer.OK(e))
}

// UpdateEquipment godoc
//
//	@Summary		Update equipment
//	@Tags			equipment
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string					true	"Equipment ID"
//	@Param			payload	body	model.EquipmentPatch	true	"Fields to change"
//	@Security		CookieAuth
//	@Success		200	{object}	serializer.Response{data=model.Equipment}
//	@Router			/equipment/{id} [put]
func (h *EquipmentHandler) UpdateEquipment(c *gin.Context) {
	body, ok := bindObject(c)
	if !ok {
		return
	}
	e, err := h.svc.Update(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), body)
	if err != nil {
		respondErr(c, err, "Equipment")
		return
	}
	c.JSON(http.StatusOK, serializer.OK(e))
}

// DeleteEquipment godoc
//
//	@Summary		Delete equipment
//	@Tags			equipment
//	@Produce		json
//	@Param			id	path	string	true	"Equipment ID"
//	@Security		CookieAuth
//	@Success		200	{object}	serializer.Response
//	@Router			/equipment/{id} [delete]
func (h *EquipmentHandler) DeleteEquipment(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		respondErr(c, err, "Equipment")
		return
	}
	c.JSON(http.StatusOK, serializer.Message("Equipment deleted"))
}
