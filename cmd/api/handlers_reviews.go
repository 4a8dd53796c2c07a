package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coffeecarriers/coffee-carriers/internal/httpx"
	"github.com/coffeecarriers/coffee-carriers/internal/review"
	"github.com/coffeecarriers/coffee-carriers/internal/sipper"
)

// CreateReviewRequest review submission payload; resubmitting for the same
// maker overwrites the previous review.
// swagger:model CreateReviewRequest
type CreateReviewRequest struct {
	MakerID string `json:"makerId" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// AddFavoriteRequest favorite payload.
// swagger:model AddFavoriteRequest
type AddFavoriteRequest struct {
	MakerID string `json:"makerId" binding:"required"`
}

func createReviewHandler(svc *review.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := httpx.PrincipalFrom(c)
		var req CreateReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "invalid payload: " + err.Error()})
			return
		}
		if err := svc.Submit(c.Request.Context(), p, req.MakerID, req.Rating, req.Comment); err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func listFavoritesHandler(repo sipper.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := httpx.PrincipalFrom(c)
		favs, err := repo.ListFavorites(c.Request.Context(), p.SipperID)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		if favs == nil {
			favs = []sipper.Favorite{}
		}
		c.JSON(http.StatusOK, favs)
	}
}

func addFavoriteHandler(repo sipper.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := httpx.PrincipalFrom(c)
		var req AddFavoriteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "invalid payload: " + err.Error()})
			return
		}
		f := &sipper.Favorite{ID: uuid.NewString(), SipperID: p.SipperID, MakerID: req.MakerID}
		if err := repo.AddFavorite(c.Request.Context(), f); err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func removeFavoriteHandler(repo sipper.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := httpx.PrincipalFrom(c)
		ok, err := repo.RemoveFavorite(c.Request.Context(), p.SipperID, c.Param("makerId"))
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, httpx.HTTPError{Error: "favorite not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
