package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coffeecarriers/coffee-carriers/internal/auth"
	"github.com/coffeecarriers/coffee-carriers/internal/httpx"
)

// RegisterRequest payload for account creation.
// swagger:model RegisterRequest
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"displayName" binding:"required"`
	Role        string `json:"role" binding:"required"`
}

// LoginRequest payload for sign-in.
// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func registerHandler(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "invalid payload: " + err.Error()})
			return
		}
		u, err := svc.Register(c.Request.Context(), req.Email, req.Password, req.DisplayName, auth.Role(req.Role))
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "userId": u.ID, "role": u.Role})
	}
}

func loginHandler(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "invalid payload: " + err.Error()})
			return
		}
		token, u, err := svc.SignIn(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.SetCookie(httpx.SessionCookie, token, 0, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"token": token, "user": u})
	}
}

func logoutHandler(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := httpx.TokenFrom(c); token != "" {
			if err := svc.SignOut(c.Request.Context(), token); err != nil {
				httpx.WriteError(c, err)
				return
			}
		}
		c.SetCookie(httpx.SessionCookie, "", -1, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func meHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := httpx.PrincipalFrom(c)
		c.JSON(http.StatusOK, gin.H{
			"userId":      p.UserID,
			"role":        p.Role,
			"displayName": p.DisplayName,
			"makerId":     p.MakerID,
			"sipperId":    p.SipperID,
		})
	}
}
