package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/coffeecarriers/coffee-carriers/internal/auth"
)

type resolverStub struct {
	principal *auth.Principal
	err       error
}

func (s *resolverStub) ResolveIdentity(ctx context.Context, token string) (*auth.Principal, error) {
	return s.principal, s.err
}

func authRouter(resolver IdentityResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Authenticate(resolver))
	r.GET("/me", RequireAuth(), func(c *gin.Context) {
		p, _ := PrincipalFrom(c)
		c.String(http.StatusOK, p.UserID)
	})
	return r
}

func getWithToken(r *gin.Engine, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate_ValidToken(t *testing.T) {
	p := &auth.Principal{UserID: "u-1", Role: auth.RoleSipper, SipperID: "s-1"}
	r := authRouter(&resolverStub{principal: p})

	w := getWithToken(r, "good-token")
	if w.Code != http.StatusOK || w.Body.String() != "u-1" {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestAuthenticate_UnknownTokenIsAnonymous(t *testing.T) {
	r := authRouter(&resolverStub{err: auth.ErrUnauthenticated})

	w := getWithToken(r, "expired-token")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestAuthenticate_StoreFailureIsNot401(t *testing.T) {
	r := authRouter(&resolverStub{err: errors.New("redis: connection refused")})

	w := getWithToken(r, "some-token")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d body=%s, want 500", w.Code, w.Body.String())
	}
}

func TestAuthenticate_NoTokenPassesThrough(t *testing.T) {
	r := authRouter(&resolverStub{err: errors.New("must not be called")})

	w := getWithToken(r, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}
