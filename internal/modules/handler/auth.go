package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/astrotrack/astrotrack/internal/config"
	"github.com/astrotrack/astrotrack/internal/middleware"
	"github.com/astrotrack/astrotrack/internal/modules/serializer"
	"github.com/astrotrack/astrotrack/internal/modules/service"
)

type AuthHandler struct {
	svc    service.AuthService
	cookie string
	secure bool
}

func NewAuthHandler(s service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{svc: s, cookie: cfg.Auth.CookieName, secure: cfg.IsProduction()}
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie, value, maxAge, "/", "", h.secure, true)
}

func (h *AuthHandler) clearCookie(c *gin.Context) {
	h.setCookie(c, "", -1)
}

type LoginReq struct {
	IDToken string `json:"idToken" binding:"required" example:"eyJhbGciOiJSUzI1NiIsImtpZCI6..."`
}

// Login godoc
//
//	@Summary		Sign in
//	@Description	Exchange an identity-provider token for a session cookie. The user record is created on first sign-in.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		handler.LoginReq	true	"Identity-provider token"
//	@Success		200		{object}	serializer.Response{data=service.LoginOutput}
//	@Failure		401		{object}	serializer.Response
//	@Router			/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	req := LoginReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("idToken is required", err))
		return
	}

	out, err := h.svc.Login(c.Request.Context(), req.IDToken)
	if err != nil {
		respondErr(c, err, "")
		return
	}

	h.setCookie(c, out.Token, int(h.svc.SessionMaxAge().Seconds()))
	c.JSON(http.StatusOK, serializer.OK(out))
}

// Logout godoc
//
//	@Summary		Sign out
//	@Description	Delete the current session and clear its cookie. Succeeds without a session.
//	@Tags			auth
//	@Produce		json
//	@Success		200	{object}	serializer.Response
//	@Router			/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.cookie); err == nil && token != "" {
		if err := h.svc.Logout(c.Request.Context(), token); err != nil {
			respondErr(c, err, "")
			return
		}
	}
	h.clearCookie(c)
	c.JSON(http.StatusOK, serializer.Message("Signed out"))
}

// ClearExpired godoc
//
//	@Summary		Clear expired sessions
//	@Description	Purge expired sessions and clear the caller's cookie when it no longer identifies a session.
//	@Tags			auth
//	@Produce		json
//	@Success		200	{object}	serializer.Response
//	@Router			/auth/clear-expired [post]
func (h *AuthHandler) ClearExpired(c *gin.Context) {
	ctx := c.Request.Context()
	n, err := h.svc.ClearExpired(ctx)
	if err != nil {
		respondErr(c, err, "")
		return
	}

	if token, cErr := c.Cookie(h.cookie); cErr == nil && token != "" {
		if _, rErr := h.svc.Resolve(ctx, token); errors.Is(rErr, service.ErrUnauthenticated) {
			h.clearCookie(c)
		}
	}

	c.JSON(http.StatusOK, serializer.Response{Success: true, Message: "Expired sessions cleared", Count: &n})
}

// Me godoc
//
//	@Summary		Current user
//	@Description	Return the signed-in user. Anonymous callers get a success envelope without data.
//	@Tags			auth
//	@Produce		json
//	@Security		CookieAuth
//	@Success		200	{object}	serializer.Response{data=model.User}
//	@Router			/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if u == nil {
		c.JSON(http.StatusOK, serializer.Message("Not signed in"))
		return
	}
	c.JSON(http.StatusOK, serializer.OK(u))
}
