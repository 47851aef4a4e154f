package handler

import (
	"net/http"
	"strconv"

	"agri-transport-monitor/internal/usecase/order"
	"agri-transport-monitor/pkg/utils"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service *order.Service
}

func NewOrderHandler(service *order.Service) *OrderHandler {
	return &OrderHandler{service: service}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/orders")
	{
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
	}
	routes := router.Group("/routes")
	{
		routes.GET("", h.ListRoutes)
		routes.GET("/:id", h.GetRoute)
	}
}

func (h *OrderHandler) RegisterTraderRoutes(router *gin.RouterGroup) {
	router.POST("/orders", h.PlaceOrder)
}

func (h *OrderHandler) RegisterFarmerRoutes(router *gin.RouterGroup) {
	router.PUT("/orders/:id/status", h.SetStatus)
}

func (h *OrderHandler) RegisterDriverRoutes(router *gin.RouterGroup) {
	router.POST("/routes/:id/finish", h.FinishRoute)
}

func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req order.PlaceOrderRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.PlaceOrder(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Order placed successfully", resp)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid order ID")
	if !ok {
		return
	}

	resp, err := h.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Order retrieved successfully", resp)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	var filter order.OrderFilterRequest

	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	resp, err := h.service.ListOrders(c.Request.Context(), &filter)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Orders retrieved successfully", resp)
}

func (h *OrderHandler) SetStatus(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid order ID")
	if !ok {
		return
	}

	var req order.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.SetStatus(c.Request.Context(), id, currentUserID(c), &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Order status updated", resp)
}

func (h *OrderHandler) GetRoute(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid route ID")
	if !ok {
		return
	}

	resp, err := h.service.GetRoute(c.Request.Context(), id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Route retrieved successfully", resp)
}

func (h *OrderHandler) ListRoutes(c *gin.Context) {
	var filter order.RouteFilterRequest

	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	resp, err := h.service.ListRoutes(c.Request.Context(), &filter)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Routes retrieved successfully", resp)
}

func (h *OrderHandler) FinishRoute(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid route ID")
	if !ok {
		return
	}

	resp, err := h.service.FinishRoute(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Route finished", resp)
}

func parseID(c *gin.Context, param, message string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, message)
		return 0, false
	}
	return id, true
}
