package httpx

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coffeecarriers/coffee-carriers/internal/auth"
)

const (
	SessionCookie = "cc_session"
	principalKey  = "principal"
	tokenKey      = "session_token"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("rid", rid)
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Next()
	}
}

func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		rid := c.GetString("rid")
		logger.Info("http request",
			zap.String("rid", rid),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// IdentityResolver is the slice of auth.Service the middleware needs.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) (*auth.Principal, error)
}

// Authenticate resolves the session token (cookie or bearer header) into a
// Principal and stores it on the context. An unknown or expired token passes
// through unauthenticated and route guards decide whether that is fatal; any
// other resolution error is an upstream failure and aborts the request.
func Authenticate(svc IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			c.Next()
			return
		}
		p, err := svc.ResolveIdentity(c.Request.Context(), token)
		if err != nil && !errors.Is(err, auth.ErrUnauthenticated) {
			WriteError(c, err)
			c.Abort()
			return
		}
		if err == nil && p != nil {
			c.Set(principalKey, *p)
			c.Set(tokenKey, token)
		}
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// SetPrincipal is used by tests and by the auth handlers after sign-in.
func SetPrincipal(c *gin.Context, p auth.Principal, token string) {
	c.Set(principalKey, p)
	c.Set(tokenKey, token)
}

func PrincipalFrom(c *gin.Context) (auth.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}

func TokenFrom(c *gin.Context) string { return c.GetString(tokenKey) }

// RequireAuth aborts with 401 when no principal was resolved.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := PrincipalFrom(c); !ok {
			WriteError(c, auth.ErrUnauthenticated)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole aborts with 403 when the principal's role does not match.
func RequireRole(role auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			WriteError(c, auth.ErrUnauthenticated)
			c.Abort()
			return
		}
		if p.Role != role {
			WriteError(c, auth.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
