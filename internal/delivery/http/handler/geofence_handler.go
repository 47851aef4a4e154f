package handler

import (
	"net/http"

	"agri-transport-monitor/internal/usecase/geofence"
	"agri-transport-monitor/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GeofenceHandler struct {
	service *geofence.Service
}

func NewGeofenceHandler(service *geofence.Service) *GeofenceHandler {
	return &GeofenceHandler{service: service}
}

func (h *GeofenceHandler) RegisterRoutes(router *gin.RouterGroup) {
	fences := router.Group("/geofences")
	{
		fences.GET("", h.ListGeofences)
		fences.GET("/:id", h.GetGeofence)
		fences.GET("/events", h.ListEvents)
	}
	router.GET("/devices/:id/containment", h.CheckDevice)
}

func (h *GeofenceHandler) RegisterGovernmentRoutes(router *gin.RouterGroup) {
	fences := router.Group("/geofences")
	{
		fences.POST("", h.CreateGeofence)
		fences.DELETE("/:id", h.DeleteGeofence)
	}
}

func (h *GeofenceHandler) CreateGeofence(c *gin.Context) {
	var req geofence.CreateGeofenceRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.CreateGeofence(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Geofence created successfully", resp)
}

func (h *GeofenceHandler) GetGeofence(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid geofence ID")
		return
	}

	resp, err := h.service.GetGeofence(c.Request.Context(), id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Geofence retrieved successfully", resp)
}

func (h *GeofenceHandler) ListGeofences(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"

	resp, err := h.service.ListGeofences(c.Request.Context(), includeInactive)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Geofences retrieved successfully", resp)
}

func (h *GeofenceHandler) DeleteGeofence(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid geofence ID")
		return
	}

	if err := h.service.DeleteGeofence(c.Request.Context(), id); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Geofence deleted successfully", nil)
}

func (h *GeofenceHandler) CheckDevice(c *gin.Context) {
	resp, err := h.service.CheckDevice(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Containment checked successfully", resp)
}

func (h *GeofenceHandler) ListEvents(c *gin.Context) {
	var filter geofence.EventFilterRequest

	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	resp, err := h.service.ListEvents(c.Request.Context(), &filter)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Geofence events retrieved successfully", resp)
}
