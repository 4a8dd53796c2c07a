package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/coffeecarriers/coffee-carriers/internal/catalog"
	"github.com/coffeecarriers/coffee-carriers/internal/httpx"
)

// CreateProductRequest product creation payload.
// swagger:model CreateProductRequest
type CreateProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       string `json:"price" binding:"required" example:"4.50"`
	Category    string `json:"category" binding:"required" example:"hot"`
	IsAvailable bool   `json:"is_available"`
	SortOrder   int    `json:"sort_order"`
}

// UpdateProductRequest partial product update payload.
// swagger:model UpdateProductRequest
type UpdateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *string `json:"price"`
	Category    *string `json:"category"`
	IsAvailable *bool   `json:"is_available"`
	SortOrder   *int    `json:"sort_order"`
}

func listProductsHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		products, err := repo.List(c.Request.Context(), catalog.Query{
			Q:      c.Query("q"),
			Limit:  limit,
			Offset: offset,
		})
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

func createProductHandler(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := httpx.PrincipalFrom(c)
		var req CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "invalid payload: " + err.Error()})
			return
		}
		created, err := svc.Create(c.Request.Context(), p, &catalog.Product{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Category:    catalog.Category(req.Category),
			IsAvailable: req.IsAvailable,
			SortOrder:   req.SortOrder,
		})
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func updateProductHandler(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := httpx.PrincipalFrom(c)
		var req UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "invalid payload: " + err.Error()})
			return
		}
		upd := catalog.Update{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			IsAvailable: req.IsAvailable,
			SortOrder:   req.SortOrder,
		}
		if req.Category != nil {
			cat := catalog.Category(*req.Category)
			upd.Category = &cat
		}
		updated, err := svc.Update(c.Request.Context(), p, c.Param("id"), upd)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func deleteProductHandler(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := httpx.PrincipalFrom(c)
		if err := svc.Delete(c.Request.Context(), p, c.Param("id")); err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
