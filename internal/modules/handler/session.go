package handler

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/astrotrack/astrotrack/internal/middleware"
	"github.com/astrotrack/astrotrack/internal/modules/model"
	"github.com/astrotrack/astrotrack/internal/modules/serializer"
	"github.com/astrotrack/astrotrack/internal/modules/service"
)

// SessionHandler serves observation sessions nested under a project.
type SessionHandler struct {
	svc service.SessionService
}

func NewSessionHandler(s service.SessionService) *SessionHandler {
	return &SessionHandler{svc: s}
}

// ListSessions godoc
//
//	@Summary		List sessions
//	@Description	Observation sessions of a project, oldest night first.
//	@Tags			session
//	@Produce		json
//	@Param			id	path	string	true	"Project ID"
//	@Success		200	{object}	serializer.Response{data=[]model.Session}
//	@Router			/projects/{id}/sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	sessions, err := h.svc.List(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		respondErr(c, err, "Project")
		return
	}
	out := make([]model.Session, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	c.JSON(http.StatusOK, serializer.List(out))
}

// CreateSession godoc
//
//	@Summary		Log session
//	@Description	Log one night's acquisition. Either filters or acquisitionDetails may describe the exposures; a date can only be logged once per project.
//	@Tags			session
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string				true	"Project ID"
//	@Param			payload	body	model.SessionInput	true	"Session"
//	@Security		CookieAuth
//	@Success		201	{object}	serializer.Response{data=model.Session}
//	@Failure		400	{object}	serializer.Response
//	@Router			/projects/{id}/sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	body, ok := bindObject(c)
	if !ok {
		return
	}
	s, err := h.svc.Create(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), body)
	if err != nil {
		respondErr(c, err, "Project")
		return
	}
	c.JSON(http.StatusCreated, serializer.OK(s))
}

// GetSession godoc
//
//	@Summary		Get session
//	@Tags			session
//	@Produce		json
//	@Param			id		path	string	true	"Project ID"
//	@Param			date	path	string	true	"Session date (YYYY-MM-DD)"
//	@Success		200		{object}	serializer.Response{data=model.Session}
//	@Router			/projects/{id}/sessions/{date} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	s, err := h.svc.Get(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), c.Param("date"))
	if err != nil {
		respondErr(c, err, "Session")
		return
	}
	c.JSON(http.StatusOK, serializer.OK(s))
}

// UpdateSession godoc
//
//	@Summary		Update session
//	@Tags			session
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string				true	"Project ID"
//	@Param			date	path	string				true	"Session date (YYYY-MM-DD)"
//	@Param			payload	body	model.SessionPatch	true	"Fields to change"
//	@Security		CookieAuth
//	@Success		200	{object}	serializer.Response{data=model.Session}
//	@Router			/projects/{id}/sessions/{date} [put]
func (h *SessionHandler) UpdateSession(c *gin.Context) {
	body, ok := bindObject(c)
	if !ok {
		return
	}
	s, err := h.svc.Update(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), c.Param("date"), body)
	if err != nil {
		respondErr(c, err, "Session")
		return
	}
	c.JSON(http.StatusOK, serializer.OK(s))
}

// DeleteSession godoc
//
//	@Summary		Delete session
//	@Tags			session
//	@Produce		json
//	@Param			id		path	string	true	"Project ID"
//	@Param			date	path	string	true	"Session date (YYYY-MM-DD)"
//	@Security		CookieAuth
//	@Success		200	{object}	serializer.Response
//	@Router			/projects/{id}/sessions/{date} [delete]
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), c.Param("date")); err != nil {
		respondErr(c, err, "Session")
		return
	}
	c.JSON(http.StatusOK, serializer.Message("Session deleted"))
}
