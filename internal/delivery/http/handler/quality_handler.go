package handler

import (
	"net/http"
	"time"

	"agri-transport-monitor/internal/usecase/quality"
	"agri-transport-monitor/pkg/utils"

	"github.com/gin-gonic/gin"
)

type QualityHandler struct {
	service *quality.Service
}

func NewQualityHandler(service *quality.Service) *QualityHandler {
	return &QualityHandler{service: service}
}

func (h *QualityHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/quality")
	{
		reports.GET("/reports", h.ListReports)
		reports.GET("/reports/:device_id/:date", h.GetReport)
		reports.GET("/summary", h.Summary)
	}
}

func (h *QualityHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.POST("/quality/run", h.RunAggregation)
}

func (h *QualityHandler) GetReport(c *gin.Context) {
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	resp, err := h.service.GetReport(c.Request.Context(), c.Param("device_id"), date)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Quality report retrieved successfully", resp)
}

func (h *QualityHandler) ListReports(c *gin.Context) {
	var filter quality.ReportFilterRequest

	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	resp, err := h.service.ListReports(c.Request.Context(), &filter)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Quality reports retrieved successfully", resp)
}

func (h *QualityHandler) Summary(c *gin.Context) {
	var req quality.SummaryRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	resp, err := h.service.Summary(c.Request.Context(), &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Quality summary retrieved successfully", resp)
}

func (h *QualityHandler) RunAggregation(c *gin.Context) {
	var req quality.RunRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.RunAggregation(c.Request.Context(), &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Aggregation completed", resp)
}
