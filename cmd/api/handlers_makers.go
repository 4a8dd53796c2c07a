package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/coffeecarriers/coffee-carriers/internal/catalog"
	"github.com/coffeecarriers/coffee-carriers/internal/httpx"
	"github.com/coffeecarriers/coffee-carriers/internal/maker"
	"github.com/coffeecarriers/coffee-carriers/internal/review"
)

// UpdateMakerProfileRequest maker studio profile payload; omitted fields are
// left unchanged.
// swagger:model UpdateMakerProfileRequest
type UpdateMakerProfileRequest struct {
	ShopName      *string  `json:"shop_name"`
	Bio           *string  `json:"bio"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	LocationLabel *string  `json:"location_label"`
	IsLive        *bool    `json:"is_live"`
}

func listMakersHandler(repo maker.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		makers, err := repo.List(c.Request.Context(), limit)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		if makers == nil {
			makers = []maker.Profile{}
		}
		c.JSON(http.StatusOK, makers)
	}
}

func nearbyMakersHandler(repo maker.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
		lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
		if latErr != nil || lngErr != nil {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "lat and lng are required"})
			return
		}
		radius, err := strconv.ParseFloat(c.DefaultQuery("radius_km", "50"), 64)
		if err != nil || radius <= 0 {
			radius = 50
		}
		makers, err := repo.Nearby(c.Request.Context(), lat, lng, radius)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		if makers == nil {
			makers = []maker.Nearby{}
		}
		c.JSON(http.StatusOK, makers)
	}
}

func getMakerHandler(repo maker.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func makerProductsHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := repo.ListByMaker(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		if products == nil {
			products = []catalog.Product{}
		}
		c.JSON(http.StatusOK, products)
	}
}

func makerReviewsHandler(svc *review.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviews, err := svc.ListByMaker(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		if reviews == nil {
			reviews = []review.Review{}
		}
		c.JSON(http.StatusOK, reviews)
	}
}

func updateMakerProfileHandler(repo maker.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := httpx.PrincipalFrom(c)
		if p.MakerID == "" {
			httpx.WriteError(c, maker.ErrNotFound)
			return
		}
		var req UpdateMakerProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "invalid payload: " + err.Error()})
			return
		}
		upd := maker.ProfileUpdate{
			ShopName:      req.ShopName,
			Bio:           req.Bio,
			Latitude:      req.Latitude,
			Longitude:     req.Longitude,
			LocationLabel: req.LocationLabel,
			IsLive:        req.IsLive,
		}
		if err := repo.Update(c.Request.Context(), p.MakerID, upd); err != nil {
			httpx.WriteError(c, err)
			return
		}
		out, err := repo.GetByID(c.Request.Context(), p.MakerID)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}
