package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coffeecarriers/coffee-carriers/internal/httpx"
	"github.com/coffeecarriers/coffee-carriers/internal/order"
)

// CreateOrderItem order line payload.
// swagger:model CreateOrderItem
type CreateOrderItem struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// CreateOrderRequest order creation payload.
// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	MakerID string            `json:"makerId" binding:"required"`
	Items   []CreateOrderItem `json:"items" binding:"dive"`
	Notes   string            `json:"notes"`
}

// UpdateOrderStatusRequest status transition payload.
// swagger:model UpdateOrderStatusRequest
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func createOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := httpx.PrincipalFrom(c)
		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "invalid payload: " + err.Error()})
			return
		}
		lines := make([]order.LineInput, 0, len(req.Items))
		for _, it := range req.Items {
			lines = append(lines, order.LineInput{ProductID: it.ProductID, Quantity: it.Quantity})
		}
		o, err := svc.Place(c.Request.Context(), p, req.MakerID, lines, req.Notes)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusCreated, o)
	}
}

func listOrdersHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := httpx.PrincipalFrom(c)
		orders, err := svc.ListForPrincipal(c.Request.Context(), p)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		if orders == nil {
			orders = []order.Order{}
		}
		c.JSON(http.StatusOK, orders)
	}
}

func getOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := httpx.PrincipalFrom(c)
		o, err := svc.GetForPrincipal(c.Request.Context(), p, c.Param("id"))
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func updateOrderStatusHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := httpx.PrincipalFrom(c)
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "invalid payload: " + err.Error()})
			return
		}
		o, err := svc.SetStatus(c.Request.Context(), p, c.Param("id"), order.Status(req.Status))
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}
