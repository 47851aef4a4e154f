package handler

import (
	"encoding/json"
	"net/http"

	"agri-transport-monitor/internal/ingestion"
	"agri-transport-monitor/internal/usecase/telemetry"
	"agri-transport-monitor/pkg/utils"

	"github.com/gin-gonic/gin"
)

type TelemetryHandler struct {
	service *telemetry.Service
}

func NewTelemetryHandler(service *telemetry.Service) *TelemetryHandler {
	return &TelemetryHandler{service: service}
}

func (h *TelemetryHandler) RegisterRoutes(router *gin.RouterGroup) {
	tele := router.Group("/telemetry")
	{
		tele.POST("/batch", h.IngestBatch)
		tele.GET("/latest/:device_id", h.GetLatest)
		tele.GET("/active-drivers", h.ActiveDrivers)
	}
}

func (h *TelemetryHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	tele := router.Group("/telemetry")
	{
		tele.GET("/metrics", h.Metrics)
	}
}

// IngestBatch accepts a JSON array of telemetry messages. Items are
// validated independently: malformed or invalid items are rejected by index
// while the rest of the batch is still queued.
func (h *TelemetryHandler) IngestBatch(c *gin.Context) {
	var raw []json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body, expected a JSON array")
		return
	}
	if len(raw) == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "Empty batch")
		return
	}

	var (
		messages []*ingestion.TelemetryMessage
		indices  []int
		rejects  []telemetry.BatchReject
	)
	for i, item := range raw {
		msg, err := ingestion.ParseTelemetry(item)
		if err != nil {
			rejects = append(rejects, telemetry.BatchReject{Index: i, Reason: "malformed message"})
			continue
		}
		messages = append(messages, msg)
		indices = append(indices, i)
	}

	result, err := h.service.IngestBatch(c.Request.Context(), messages)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	// The service numbers rejects within the parsed subset; map them back
	// to positions in the submitted array.
	for _, r := range result.Rejected {
		r.Index = indices[r.Index]
		rejects = append(rejects, r)
	}
	result.Rejected = rejects

	utils.SuccessResponse(c, http.StatusAccepted, "Batch accepted", result)
}

func (h *TelemetryHandler) GetLatest(c *gin.Context) {
	resp, err := h.service.GetLatest(c.Request.Context(), c.Param("device_id"))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Latest reading retrieved successfully", resp)
}

func (h *TelemetryHandler) ActiveDrivers(c *gin.Context) {
	resp, err := h.service.ActiveDrivers(c.Request.Context())
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Active drivers retrieved successfully", resp)
}

func (h *TelemetryHandler) Metrics(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Ingestion metrics", h.service.IngestMetrics())
}
