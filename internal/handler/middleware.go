package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/rubenatello/dignov2/internal/db"
	"github.com/rubenatello/dignov2/internal/service"
)

const currentUserKey = "__current_user"

// RequestLogger emits one structured log line per request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	requestLog := log.With().Str("component", "http").Logger()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		requestLog.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

// ResolveUser loads the authenticated user, if any, from the cookie session
// or a bearer token, and stores it on the context. It never rejects.
func (a *API) ResolveUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := a.userFromSession(c); user != nil {
			c.Set(currentUserKey, user)
		} else if user := a.userFromToken(c); user != nil {
			c.Set(currentUserKey, user)
		}
		c.Next()
	}
}

// RequireAuth rejects anonymous requests.
func (a *API) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			respondError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireWriteAccess applies the content permission matrix to the request
// method: anonymous writes get 401, insufficient roles 403.
func (a *API) RequireWriteAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if service.CanWrite(user, c.Request.Method) {
			c.Next()
			return
		}
		if user == nil {
			respondError(c, http.StatusUnauthorized, "authentication required")
		} else {
			respondError(c, http.StatusForbidden, "insufficient role")
		}
		c.Abort()
	}
}

// RequireUserAdmin gates the administrative user endpoints.
func (a *API) RequireUserAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			respondError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		if !service.CanManageUsers(user) {
			respondError(c, http.StatusForbidden, "insufficient role")
			c.Abort()
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *db.User {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*db.User)
	if !ok {
		return nil
	}
	return user
}

func (a *API) userFromSession(c *gin.Context) *db.User {
	session := sessions.Default(c)
	raw := session.Get("user_id")
	if raw == nil {
		return nil
	}
	id, ok := raw.(uint)
	if !ok {
		return nil
	}
	user, err := a.users.Get(id)
	if err != nil {
		return nil
	}
	return user
}

func (a *API) userFromToken(c *gin.Context) *db.User {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if raw == "" {
		return nil
	}

	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return nil
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil {
		return nil
	}

	user, err := a.users.Get(uint(id))
	if err != nil {
		return nil
	}
	return user
}
