package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coffeecarriers/coffee-carriers/internal/blog"
	"github.com/coffeecarriers/coffee-carriers/internal/httpx"
	"github.com/coffeecarriers/coffee-carriers/internal/user"
)

// ModerateBlogRequest admin moderation payload.
// swagger:model ModerateBlogRequest
type ModerateBlogRequest struct {
	Action string `json:"action" binding:"required"`
	Notes  string `json:"notes"`
}

// UpdateUserFlagsRequest admin account flags payload.
// swagger:model UpdateUserFlagsRequest
type UpdateUserFlagsRequest struct {
	IsVerified *bool `json:"is_verified"`
	IsActive   *bool `json:"is_active"`
}

func adminBlogQueueHandler(svc *blog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := httpx.PrincipalFrom(c)
		posts, err := svc.PendingQueue(c.Request.Context(), p)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		if posts == nil {
			posts = []blog.Post{}
		}
		c.JSON(http.StatusOK, posts)
	}
}

func adminModerateBlogHandler(svc *blog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := httpx.PrincipalFrom(c)
		var req ModerateBlogRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "invalid payload: " + err.Error()})
			return
		}
		var err error
		switch req.Action {
		case "approve":
			err = svc.Approve(c.Request.Context(), p, c.Param("id"))
		case "reject":
			err = svc.Reject(c.Request.Context(), p, c.Param("id"), req.Notes)
		default:
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "invalid action"})
			return
		}
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func adminListUsersHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := repo.List(c.Request.Context())
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		if users == nil {
			users = []user.User{}
		}
		c.JSON(http.StatusOK, users)
	}
}

func adminUpdateUserHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateUserFlagsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "invalid payload: " + err.Error()})
			return
		}
		upd := user.FlagUpdate{IsVerified: req.IsVerified, IsActive: req.IsActive}
		if err := repo.UpdateFlags(c.Request.Context(), c.Param("id"), upd); err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
