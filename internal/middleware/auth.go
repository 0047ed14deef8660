package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/astrotrack/astrotrack/internal/modules/model"
	"github.com/astrotrack/astrotrack/internal/modules/serializer"
	"github.com/astrotrack/astrotrack/internal/modules/service"
)

const userKey = "user"

// SessionResolver maps a session cookie value to a user. It returns
// service.ErrUnauthenticated when the token does not identify a live session.
type SessionResolver interface {
	Resolve(ctx context.Context, sessionToken string) (*model.User, error)
}

// CurrentUser returns the user set by the auth middleware, or nil for an
// anonymous request.
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*model.User)
	return u
}

// CurrentUserID is CurrentUser's id, empty when anonymous.
func CurrentUserID(c *gin.Context) string {
	if u := CurrentUser(c); u != nil {
		return u.ID
	}
	return ""
}

// resolve looks up the session cookie. A nil user with a nil error means the
// request carries no usable session.
func resolve(c *gin.Context, cookieName string, r SessionResolver) (*model.User, error) {
	ctx, span := otel.Tracer("middleware").Start(c.Request.Context(), "session_auth",
		trace.WithAttributes(attribute.String("middleware", "session_auth")))
	defer span.End()

	token, err := c.Cookie(cookieName)
	if err != nil || token == "" {
		span.SetAttributes(attribute.Bool("authenticated", false))
		return nil, nil
	}

	u, err := r.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			span.SetAttributes(attribute.Bool("authenticated", false))
			return nil, nil
		}
		span.RecordError(err)
		return nil, err
	}

	if root := trace.SpanFromContext(c.Request.Context()); root.SpanContext().IsValid() {
		root.SetAttributes(attribute.String("user_id", u.ID))
	}
	span.SetAttributes(attribute.String("user_id", u.ID), attribute.Bool("authenticated", true))
	return u, nil
}

// RequireAuth rejects requests without a valid session before the wrapped
// handler runs.
func RequireAuth(cookieName string, r SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := resolve(c, cookieName, r)
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, serializer.DBErr(""))
			return
		}
		if u == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr(""))
			return
		}
		c.Set(userKey, u)
		c.Next()
	}
}

// OptionalAuth sets the user when the session is valid and otherwise lets
// the request through anonymously.
func OptionalAuth(cookieName string, r SessionResolver, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := resolve(c, cookieName, r)
		if err != nil {
			log.Warn("session lookup failed, continuing anonymously", zap.Error(err))
		}
		if u != nil {
			c.Set(userKey, u)
		}
		c.Next()
	}
}
