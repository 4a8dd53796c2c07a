package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coffeecarriers/coffee-carriers/internal/blog"
	"github.com/coffeecarriers/coffee-carriers/internal/httpx"
)

// CreateBlogPostRequest blog submission payload.
// swagger:model CreateBlogPostRequest
type CreateBlogPostRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

func listBlogHandler(svc *blog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		posts, err := svc.ListPublished(c.Request.Context())
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

func createBlogPostHandler(svc *blog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := httpx.PrincipalFrom(c)
		var req CreateBlogPostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "invalid payload: " + err.Error()})
			return
		}
		post, err := svc.Submit(c.Request.Context(), p, req.Title, req.Content)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusCreated, post)
	}
}
