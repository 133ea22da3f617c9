package handler

import (
	"VideoForge/internal/dto"
	"VideoForge/internal/service"
	"VideoForge/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ReportHandler interface {
	Leaderboard(c *gin.Context)
	EditorLeaderboard(c *gin.Context)
	MonthlySubmissions(c *gin.Context)
	StatusDistribution(c *gin.Context)
}

type reportHandler struct {
	ReportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) ReportHandler {
	return &reportHandler{ReportService: reportService}
}

func (h *reportHandler) Leaderboard(c *gin.Context) {
	logCtx := logger.Log.WithField("report", "leaderboard")
	rows, err := h.ReportService.Leaderboard(c.Request.Context(), queryInt(c, "limit", 10))
	if err != nil {
		sendServiceError(c, logCtx, err, "获取排行榜失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToMakerRanks(rows)})
}

func (h *reportHandler) EditorLeaderboard(c *gin.Context) {
	logCtx := logger.Log.WithField("report", "editor_leaderboard")
	rows, err := h.ReportService.EditorLeaderboard(c.Request.Context(), queryInt(c, "limit", 10))
	if err != nil {
		sendServiceError(c, logCtx, err, "获取剪辑师排行榜失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToEditorRanks(rows)})
}

func (h *reportHandler) MonthlySubmissions(c *gin.Context) {
	logCtx := logger.Log.WithField("report", "monthly")
	rows, err := h.ReportService.MonthlySubmissions(c.Request.Context())
	if err != nil {
		sendServiceError(c, logCtx, err, "获取月度统计失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (h *reportHandler) StatusDistribution(c *gin.Context) {
	logCtx := logger.Log.WithField("report", "status")
	rows, err := h.ReportService.StatusDistribution(c.Request.Context())
	if err != nil {
		sendServiceError(c, logCtx, err, "获取状态分布失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}
